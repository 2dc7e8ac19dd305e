package city

import (
	"fmt"
	"strings"
)

type EventKey string

const (
	EventScavengersFind   EventKey = "scavengers_find"
	EventMinorIllness     EventKey = "minor_illness"
	EventMaterialCache    EventKey = "material_cache"
	EventMarauderDemand   EventKey = "marauder_demand"
	EventSurvivorSighting EventKey = "survivor_sighting"
	EventNomadCaravan     EventKey = "nomad_caravan"
	EventSurvivorConflict EventKey = "survivor_conflict"
	EventMarauderScouting EventKey = "marauder_scouting"
)

// randomEvent is one catalog entry. run either settles the event immediately
// (returning nil) or returns the choice the player must make; resolve applies
// that choice later.
type randomEvent struct {
	Key     EventKey
	Name    string
	Chance  float64
	run     func(t *turn) *PendingChoice
	resolve func(t *turn, c PendingChoice, option string)
}

var eventCatalog = []randomEvent{
	{Key: EventScavengersFind, Name: "Scavenger's Find", Chance: 0.15, run: runScavengersFind},
	{Key: EventMinorIllness, Name: "Minor Illness Outbreak", Chance: 0.08, run: runMinorIllness},
	{Key: EventMaterialCache, Name: "Material Cache", Chance: 0.10, run: runMaterialCache},
	{Key: EventMarauderDemand, Name: "Marauder Demand", Chance: 0.05, run: runMarauderDemand, resolve: resolveMarauderDemand},
	{Key: EventSurvivorSighting, Name: "New Survivor Sighting", Chance: 0.07, run: runSurvivorSighting},
	{Key: EventNomadCaravan, Name: "Nomad Caravan", Chance: 0.04, run: runNomadCaravan, resolve: resolveNomadCaravan},
	{Key: EventSurvivorConflict, Name: "Survivor Conflict", Chance: 0.03, run: runSurvivorConflict, resolve: resolveSurvivorConflict},
	{Key: EventMarauderScouting, Name: "Marauder Scouting Party", Chance: 0.04, run: runMarauderScouting, resolve: resolveMarauderScouting},
}

func defaultEventChances() map[EventKey]float64 {
	out := make(map[EventKey]float64, len(eventCatalog))
	for _, ev := range eventCatalog {
		out[ev.Key] = ev.Chance
	}
	return out
}

func eventByKey(key EventKey) (randomEvent, bool) {
	for _, ev := range eventCatalog {
		if ev.Key == key {
			return ev, true
		}
	}
	return randomEvent{}, false
}

// EventInfo describes a catalog entry for listings.
type EventInfo struct {
	Key       EventKey `json:"key"`
	Name      string   `json:"name"`
	Chance    float64  `json:"chance"`
	HasChoice bool     `json:"has_choice"`
}

func (c Content) Events() []EventInfo {
	out := make([]EventInfo, 0, len(eventCatalog))
	for _, ev := range eventCatalog {
		out = append(out, EventInfo{Key: ev.Key, Name: ev.Name, Chance: c.EventChance(ev.Key), HasChoice: ev.resolve != nil})
	}
	return out
}

// randomEvent walks the catalog in order; the first successful roll wins.
func (t *turn) randomEvent() *PendingChoice {
	for _, ev := range eventCatalog {
		if !roll(t.rng, t.content.EventChance(ev.Key)) {
			continue
		}
		return ev.run(t)
	}
	t.log(LogGeneric, "A calm day passes in the city. No major incidents.")
	return nil
}

func runScavengersFind(t *turn) *PendingChoice {
	food := between(t.rng, 5, 14)
	t.state.AddFood(food)
	t.log(LogResource, "A lone scavenger found a hidden stash! +%d food.", food)
	return nil
}

func runMinorIllness(t *turn) *PendingChoice {
	var healthy []*Survivor
	for i := range t.state.Survivors {
		sv := &t.state.Survivors[i]
		if sv.IsSick {
			continue
		}
		if _, resists := t.content.traitEffect(*sv).(IllnessResistance); resists {
			continue
		}
		healthy = append(healthy, sv)
	}
	if len(healthy) == 0 {
		t.log(LogEvent, "A minor illness was detected, but no healthy survivors caught it.")
		return nil
	}
	sv := healthy[pickIndex(t.rng, len(healthy))]
	sv.Health = max(0, sv.Health-between(t.rng, 10, 29))
	sv.IsSick = true
	t.log(LogEvent, "%s got sick! Their health is now %d%%.", sv.Name, sv.Health)
	return nil
}

func runMaterialCache(t *turn) *PendingChoice {
	materials := between(t.rng, 3, 10)
	t.state.AddMaterials(materials)
	t.log(LogResource, "Discovered a small cache of materials! +%d materials.", materials)
	return nil
}

func runMarauderDemand(t *turn) *PendingChoice {
	demand := between(t.rng, 10, 19)
	return &PendingChoice{
		Event:  EventMarauderDemand,
		Title:  "Marauder Demand!",
		Prompt: fmt.Sprintf("The Marauders are at your gates, demanding %d food! What will you do?", demand),
		Options: []ChoiceOption{
			{Key: "pay", Label: fmt.Sprintf("Pay (%d Food)", demand)},
			{Key: "refuse", Label: "Refuse!"},
		},
		Amount: demand,
	}
}

func resolveMarauderDemand(t *turn, c PendingChoice, option string) {
	marauders := t.state.Faction(FactionMarauders)
	switch option {
	case "pay":
		if t.state.Food < c.Amount {
			t.log(LogDanger, "You tried to pay, but didn't have enough food. The Marauders were displeased.")
			adjustRep(marauders, -5)
			return
		}
		t.state.AddFood(-c.Amount)
		adjustRep(marauders, 10)
		t.log(LogEvent, "You paid The Marauders %d food. They left peacefully.", c.Amount)
	case "refuse":
		adjustRep(marauders, -15)
		t.log(LogDanger, "You refused The Marauders' demands! They are furious.")
	}
}

func runSurvivorSighting(t *turn) *PendingChoice {
	if len(t.state.Survivors) >= t.state.MaxSurvivors {
		t.log(LogGeneric, "A lone survivor was spotted, but your fort is at max capacity. They moved on.")
		return nil
	}
	t.addRecruit("A lone survivor, %s (%s), was spotted nearby and joined your group on the %s day!")
	return nil
}

func runNomadCaravan(t *turn) *PendingChoice {
	offer := between(t.rng, 5, 12)
	cost := offer / 2
	rep := 0
	if nomads := t.state.Faction(FactionNomads); nomads != nil {
		rep = nomads.Reputation
	}
	return &PendingChoice{
		Event:  EventNomadCaravan,
		Title:  "Nomad Caravan Sighted!",
		Prompt: fmt.Sprintf("A Nomad caravan is passing by, offering %d materials for %d food. Trade? (Nomad Reputation: %d)", offer, cost, rep),
		Options: []ChoiceOption{
			{Key: "trade", Label: fmt.Sprintf("Trade (%d Food for %d Materials)", cost, offer)},
			{Key: "decline", Label: "Decline"},
		},
		Amount: offer,
		Cost:   cost,
	}
}

func resolveNomadCaravan(t *turn, c PendingChoice, option string) {
	if option != "trade" {
		t.log(LogGeneric, "You declined to trade with The Nomads. They moved on.")
		return
	}
	if t.state.Food < c.Cost {
		t.log(LogGeneric, "You couldn't afford to trade with The Nomads. They moved on.")
		return
	}
	t.state.AddFood(-c.Cost)
	t.state.AddMaterials(c.Amount)
	adjustRep(t.state.Faction(FactionNomads), 5)
	t.log(LogResource, "You traded with The Nomads! Gained %d materials.", c.Amount)
}

func runSurvivorConflict(t *turn) *PendingChoice {
	n := len(t.state.Survivors)
	if n < 2 {
		t.log(LogGeneric, "Tempers flare, but there is no one to argue with.")
		return nil
	}
	i := t.rng.IntN(n)
	j := t.rng.IntN(n - 1)
	if j >= i {
		j++
	}
	a, b := t.state.Survivors[i], t.state.Survivors[j]
	return &PendingChoice{
		Event:  EventSurvivorConflict,
		Title:  "Survivor Conflict!",
		Prompt: fmt.Sprintf("%s and %s are arguing loudly. Their morale is dropping. How do you handle it?", a.Name, b.Name),
		Options: []ChoiceOption{
			{Key: "mediate", Label: "Intervene & Mediate"},
			{Key: "ignore", Label: "Let them sort it out"},
		},
		SurvivorIDs: []string{a.ID, b.ID},
	}
}

func resolveSurvivorConflict(t *turn, c PendingChoice, option string) {
	delta := 10
	if option == "ignore" {
		delta = -15
	}
	var names []string
	for _, id := range c.SurvivorIDs {
		sv, ok := t.state.Survivor(id)
		if !ok {
			continue
		}
		sv.AddMorale(delta)
		names = append(names, sv.Name)
	}
	if len(names) == 0 {
		t.log(LogGeneric, "The quarrel ended on its own.")
		return
	}
	if delta > 0 {
		t.log(LogSuccess, "You mediated the conflict involving %s. Their morale improved.", strings.Join(names, " and "))
		return
	}
	t.log(LogDanger, "You let %s sort out their differences. Their morale dropped.", strings.Join(names, " and "))
}

func runMarauderScouting(t *turn) *PendingChoice {
	return &PendingChoice{
		Event:  EventMarauderScouting,
		Title:  "Marauder Scouting Party Sighted!",
		Prompt: "A small group of Marauders is scouting near your perimeter. What's your move?",
		Options: []ChoiceOption{
			{Key: "hide", Label: "Hide & Observe"},
			{Key: "confront", Label: "Confront them (Risky!)"},
		},
	}
}

func resolveMarauderScouting(t *turn, _ PendingChoice, option string) {
	if option != "confront" {
		t.log(LogGeneric, "You ordered your survivors to hide. The Marauders passed by without incident.")
		return
	}
	available := t.state.AvailableSurvivors()
	if len(available) == 0 {
		t.log(LogGeneric, "No available survivors to confront them. You had to hide.")
		return
	}
	power := 0
	for _, sv := range available {
		power += t.content.EffectiveSkill(*sv, SkillClearing) + t.content.Defense(*sv)
	}
	marauders := t.state.Faction(FactionMarauders)
	if float64(power) > 5+5*t.rng.Float64() {
		t.state.AddMaterials(5)
		adjustRep(marauders, -5)
		t.log(LogSuccess, "You confronted the Marauders and drove them off! Gained 5 materials.")
		return
	}
	victim := available[pickIndex(t.rng, len(available))]
	victim.Health = max(0, victim.Health-25)
	victim.IsSick = true
	adjustRep(marauders, 5)
	t.log(LogDanger, "You confronted the Marauders, but it didn't go well. %s was injured!", victim.Name)
}

func adjustRep(f *Faction, n int) {
	if f != nil {
		f.AddReputation(n)
	}
}
