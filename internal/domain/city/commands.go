package city

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"resurgent/internal/domain/world"
)

// Recruit spends food and materials to add a random survivor.
func (s Simulator) Recruit(state *WorldState) (CommandResult, error) {
	t := s.begin(state)
	if err := t.playing(); err != nil {
		return CommandResult{}, err
	}
	if len(state.Survivors) >= state.MaxSurvivors {
		return CommandResult{}, t.reject(ErrAtCapacity, LogGeneric, "Cannot recruit: Maximum survivors reached! Build more Housing.")
	}
	if state.Food < RecruitFoodCost || state.Materials < RecruitMaterialCost {
		return CommandResult{}, t.reject(ErrInsufficientResources, LogGeneric,
			"Cannot recruit: Need %d food and %d materials.", RecruitFoodCost, RecruitMaterialCost)
	}
	state.AddFood(-RecruitFoodCost)
	state.AddMaterials(-RecruitMaterialCost)
	sv := t.addRecruit("A new survivor, %s (%s), joined your fort on the %s day! Welcome!")
	return CommandResult{Message: sv.Name, Events: t.events}, nil
}

func (t *turn) addRecruit(format string) Survivor {
	sv := t.randomSurvivor(t.state.Day)
	t.state.Survivors = append(t.state.Survivors, sv)
	t.state.TotalSurvivorsRecruited++
	t.log(LogSuccess, format, sv.Name, t.content.TraitName(sv.Trait), humanize.Ordinal(t.state.Day))
	t.checkAchievements()
	return sv
}

// Research spends research points on an unlocked project.
func (s Simulator) Research(state *WorldState, key string) (CommandResult, error) {
	t := s.begin(state)
	if err := t.playing(); err != nil {
		return CommandResult{}, err
	}
	project, ok := state.Research[key]
	def, known := t.content.ResearchDef(key)
	if !ok || !known || !project.Unlocked {
		return CommandResult{}, t.reject(ErrUnknownProject, LogGeneric, "Cannot research: unknown project %q.", key)
	}
	if project.Researched {
		return CommandResult{}, t.reject(ErrAlreadyResearched, LogGeneric, "Cannot research: '%s' is already researched.", project.Name)
	}
	if state.ResearchPoints < project.Cost {
		return CommandResult{}, t.reject(ErrInsufficientResources, LogGeneric,
			"Cannot research: '%s' needs %d Research Points.", project.Name, project.Cost)
	}

	state.ResearchPoints -= project.Cost
	project.Researched = true
	state.Research[key] = project

	switch e := def.Effect.(type) {
	case ToolingUpgrade:
		t.log(LogResearch, "Research '%s' completed! Scavenging and building tasks are now more efficient.", project.Name)
	case DefenseUpgrade:
		state.AddFortDefense(e.FortDefense)
		t.log(LogResearch, "Research '%s' completed! Fort defense permanently increased by %d.", project.Name, e.FortDefense)
	case MedicineUpgrade:
		t.log(LogResearch, "Research '%s' completed! Illnesses are now less severe.", project.Name)
	}
	t.checkAchievements()
	return CommandResult{Message: project.Name, Events: t.events}, nil
}

// ConsultAdvisor borrows a qualified survivor for a day and logs the most urgent advice.
func (s Simulator) ConsultAdvisor(state *WorldState) (CommandResult, error) {
	t := s.begin(state)
	if err := t.playing(); err != nil {
		return CommandResult{}, err
	}
	if state.Day <= state.Warnings.Advisory {
		return CommandResult{}, t.reject(ErrAdvisorUsed, LogGeneric, "Advisory can only be used once per day.")
	}
	var consultants []*Survivor
	for _, sv := range state.AvailableSurvivors() {
		if sv.SkillTotal() >= ConsultantSkillTotal {
			consultants = append(consultants, sv)
		}
	}
	if len(consultants) == 0 {
		return CommandResult{}, t.reject(ErrNoConsultant, LogGeneric,
			"No qualified survivors available for advisory today. Need a survivor with combined skill total of %d or more.", ConsultantSkillTotal)
	}

	consultant := consultants[pickIndex(t.rng, len(consultants))]
	consultant.assign(TaskConsulting, nil, 0)
	state.Warnings.Advisory = state.Day

	advice, category := t.advice()
	msg := fmt.Sprintf("%s offers some advice: %s", consultant.Name, advice)
	t.log(category, "%s", msg)
	return CommandResult{Message: msg, Events: t.events}, nil
}

func (t *turn) advice() (string, LogCategory) {
	st := t.state
	sick := 0
	for _, sv := range st.Survivors {
		if sv.IsSick {
			sick++
		}
	}
	switch {
	case st.Food < AdvisorLowFood:
		return "Your food supplies are running low! Send more survivors to scavenge or build a farm.", LogDanger
	case st.Materials < AdvisorLowMaterials:
		return "Materials are scarce. Focus on scavenging or building workshops to boost production.", LogDanger
	case sick > 0:
		return "Some of your survivors are sick. Consider researching medicine or building a Laboratory for better care.", LogDanger
	case len(st.Map.ThreatBlocks()) > 0 && st.FortDefense < MaxFortDefense/2:
		return "Zombies are encroaching and your fort defenses are weak! Prioritize clearing nearby blocks or fortifying your defenses.", LogDanger
	case len(st.Survivors) < st.MaxSurvivors && st.Food >= RecruitFoodCost && st.Materials >= RecruitMaterialCost:
		return "You have space for more survivors. Recruiting new members will strengthen your group!", LogGeneric
	case t.hasOpenResearch():
		if !st.HasAnyLab() {
			return "You have research projects available! Build a Laboratory to start generating Research Points.", LogResearch
		}
		return "Don't forget to invest your Research Points in new technologies to improve your fort!", LogResearch
	case t.hasUnclaimedRuins():
		return "There are still ruined blocks within your influence zone. Clearing them can expand your safe zone.", LogGeneric
	}
	return "Things are looking stable. Keep expanding your territory and maintaining your resources!", LogSuccess
}

func (t *turn) hasOpenResearch() bool {
	for _, p := range t.state.Research {
		if p.Unlocked && !p.Researched {
			return true
		}
	}
	return false
}

func (t *turn) hasUnclaimedRuins() bool {
	for _, p := range t.state.Map.ZoneCells() {
		b, _ := t.state.Map.At(p)
		if b.Type == world.BlockRuined && b.FactionControlledBy == "" {
			return true
		}
	}
	return false
}

type TradeOfferKey string

const (
	OfferMaterialsSmall TradeOfferKey = "buy_materials_small"
	OfferMaterialsLarge TradeOfferKey = "buy_materials_large"
	OfferFoodSmall      TradeOfferKey = "buy_food_small"
	OfferFoodLarge      TradeOfferKey = "buy_food_large"
)

const (
	ResourceFood      = "food"
	ResourceMaterials = "materials"
)

type TradeOffer struct {
	Key     TradeOfferKey `json:"key"`
	Pay     string        `json:"pay"`
	Cost    int           `json:"cost"`
	Receive string        `json:"receive"`
	Amount  int           `json:"amount"`
}

// TradeOffers prices the Nomad exchange from their current reputation.
func TradeOffers(state *WorldState) []TradeOffer {
	rep := DefaultFactionRep
	if nomads := state.Faction(FactionNomads); nomads != nil {
		rep = nomads.Reputation
	}
	foodPerMaterial := 2 - float64(rep)/100*0.5
	foodPerMaterialsBought := func(amount int) int {
		return max(1, int(math.Round(float64(amount)*foodPerMaterial)))
	}
	materialsPerFood := 0.5 + float64(rep)/100*0.25
	materialsForFood := func(amount int) int {
		return max(1, int(math.Round(float64(amount)/materialsPerFood)))
	}
	return []TradeOffer{
		{Key: OfferMaterialsSmall, Pay: ResourceFood, Cost: foodPerMaterialsBought(5), Receive: ResourceMaterials, Amount: 5},
		{Key: OfferMaterialsLarge, Pay: ResourceFood, Cost: foodPerMaterialsBought(10), Receive: ResourceMaterials, Amount: 10},
		{Key: OfferFoodSmall, Pay: ResourceMaterials, Cost: materialsForFood(10), Receive: ResourceFood, Amount: 10},
		{Key: OfferFoodLarge, Pay: ResourceMaterials, Cost: materialsForFood(20), Receive: ResourceFood, Amount: 20},
	}
}

// Trade completes one exchange for a survivor already meeting the Nomads.
func (s Simulator) Trade(state *WorldState, survivorID string, key TradeOfferKey) (CommandResult, error) {
	t := s.begin(state)
	if err := t.playing(); err != nil {
		return CommandResult{}, err
	}
	sv, ok := state.Survivor(survivorID)
	if !ok {
		return CommandResult{}, t.reject(ErrSurvivorNotFound, LogGeneric, "No such survivor.")
	}
	if !sv.IsBusy || sv.CurrentTask != TaskTrading {
		return CommandResult{}, t.reject(ErrNotTrading, LogGeneric, "%s is not meeting The Nomads.", sv.Name)
	}
	var offer *TradeOffer
	for _, o := range TradeOffers(state) {
		if o.Key == key {
			offer = &o
			break
		}
	}
	if offer == nil {
		return CommandResult{}, t.reject(ErrUnknownOffer, LogGeneric, "The Nomads do not offer %q.", key)
	}

	switch offer.Pay {
	case ResourceFood:
		if state.Food < offer.Cost {
			return CommandResult{}, t.reject(ErrInsufficientResources, LogGeneric, "Trade failed: Not enough resources.")
		}
		state.AddFood(-offer.Cost)
		state.AddMaterials(offer.Amount)
	case ResourceMaterials:
		if state.Materials < offer.Cost {
			return CommandResult{}, t.reject(ErrInsufficientResources, LogGeneric, "Trade failed: Not enough resources.")
		}
		state.AddMaterials(-offer.Cost)
		state.AddFood(offer.Amount)
	}
	adjustRep(state.Faction(FactionNomads), TradeReputationGain)
	msg := fmt.Sprintf("%s traded %d %s for %d %s with The Nomads.", sv.Name, offer.Cost, offer.Pay, offer.Amount, offer.Receive)
	t.log(LogAction, "%s", msg)
	sv.Release()
	return CommandResult{Message: msg, Events: t.events}, nil
}

func (s Simulator) CancelTrade(state *WorldState, survivorID string) (CommandResult, error) {
	t := s.begin(state)
	if err := t.playing(); err != nil {
		return CommandResult{}, err
	}
	sv, ok := state.Survivor(survivorID)
	if !ok {
		return CommandResult{}, t.reject(ErrSurvivorNotFound, LogGeneric, "No such survivor.")
	}
	if sv.CurrentTask != TaskTrading {
		return CommandResult{}, t.reject(ErrNotTrading, LogGeneric, "%s is not meeting The Nomads.", sv.Name)
	}
	sv.Release()
	t.log(LogGeneric, "%s left The Nomads without trading.", sv.Name)
	return CommandResult{Message: sv.Name, Events: t.events}, nil
}

// Equip moves an inventory item onto an idle survivor; any previous item goes back.
func (s Simulator) Equip(state *WorldState, survivorID string, index int) (CommandResult, error) {
	t := s.begin(state)
	if err := t.playing(); err != nil {
		return CommandResult{}, err
	}
	sv, err := t.equipTarget(survivorID)
	if err != nil {
		return CommandResult{}, err
	}
	if index < 0 || index >= len(state.Inventory) {
		return CommandResult{}, t.reject(ErrInvalidItem, LogGeneric, "No item at inventory slot %d.", index)
	}

	item := state.Inventory[index]
	state.Inventory = append(state.Inventory[:index:index], state.Inventory[index+1:]...)
	if sv.EquippedItem != "" {
		state.Inventory = append(state.Inventory, sv.EquippedItem)
	}
	sv.EquippedItem = item
	sv.assign(TaskEquipping, nil, 0)
	msg := fmt.Sprintf("%s equipped %s.", sv.Name, t.content.EquipmentName(item))
	t.log(LogAction, "%s", msg)
	return CommandResult{Message: msg, Events: t.events}, nil
}

func (s Simulator) Unequip(state *WorldState, survivorID string) (CommandResult, error) {
	t := s.begin(state)
	if err := t.playing(); err != nil {
		return CommandResult{}, err
	}
	sv, err := t.equipTarget(survivorID)
	if err != nil {
		return CommandResult{}, err
	}
	if sv.EquippedItem == "" {
		return CommandResult{}, t.reject(ErrNothingEquipped, LogGeneric, "%s has nothing equipped.", sv.Name)
	}
	item := sv.EquippedItem
	state.Inventory = append(state.Inventory, item)
	sv.EquippedItem = ""
	sv.assign(TaskEquipping, nil, 0)
	msg := fmt.Sprintf("%s unequipped %s.", sv.Name, t.content.EquipmentName(item))
	t.log(LogAction, "%s", msg)
	return CommandResult{Message: msg, Events: t.events}, nil
}

func (t *turn) equipTarget(survivorID string) (*Survivor, error) {
	sv, ok := t.state.Survivor(survivorID)
	if !ok {
		return nil, t.reject(ErrSurvivorNotFound, LogGeneric, "No such survivor.")
	}
	if !sv.Available() {
		return nil, t.reject(ErrSurvivorUnavailable, LogGeneric, "%s is busy or sick and cannot change equipment.", sv.Name)
	}
	return sv, nil
}
