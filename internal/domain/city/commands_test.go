package city

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"resurgent/internal/domain/world"
)

func TestRecruit(t *testing.T) {
	sim := newTestSimulator(newScriptedRand())
	state := newTestState(survivor("a", Skills{}))

	res, err := sim.Recruit(&state)
	if err != nil {
		t.Fatalf("recruit: %v", err)
	}
	if len(state.Survivors) != 2 || state.TotalSurvivorsRecruited != 1 {
		t.Fatalf("roster mismatch: survivors=%d recruited=%d", len(state.Survivors), state.TotalSurvivorsRecruited)
	}
	if state.Food != StartingFood-RecruitFoodCost || state.Materials != StartingMaterials-RecruitMaterialCost {
		t.Fatalf("cost mismatch: food=%d materials=%d", state.Food, state.Materials)
	}
	recruit := state.Survivors[1]
	if recruit.ID != "sv-1" || recruit.Name != res.Message || recruit.DayJoined != 1 {
		t.Fatalf("unexpected recruit: %+v", recruit)
	}
	if !strings.Contains(state.MessageHistory[0].Text, "1st day") {
		t.Fatalf("expected ordinal day in log, got %q", state.MessageHistory[0].Text)
	}
}

func TestRecruit_AtCapacityRejected(t *testing.T) {
	sim := newTestSimulator(newScriptedRand())
	state := newTestState(
		survivor("a", Skills{}), survivor("b", Skills{}), survivor("c", Skills{}),
		survivor("d", Skills{}), survivor("e", Skills{}),
	)

	_, err := sim.Recruit(&state)
	if !errors.Is(err, ErrAtCapacity) {
		t.Fatalf("expected ErrAtCapacity, got %v", err)
	}
	if state.Food != StartingFood || state.Materials != StartingMaterials || len(state.Survivors) != 5 {
		t.Fatalf("rejected recruit changed state: food=%d materials=%d survivors=%d", state.Food, state.Materials, len(state.Survivors))
	}
}

func TestRecruit_NeedsResources(t *testing.T) {
	sim := newTestSimulator(newScriptedRand())
	state := newTestState(survivor("a", Skills{}))
	state.Materials = RecruitMaterialCost - 1

	if _, err := sim.Recruit(&state); !errors.Is(err, ErrInsufficientResources) {
		t.Fatalf("expected ErrInsufficientResources, got %v", err)
	}
}

func TestResearch_BetterDefensesClampsFort(t *testing.T) {
	sim := newTestSimulator(newScriptedRand())
	state := newTestState(survivor("a", Skills{}))
	state.ResearchPoints = 35
	state.FortDefense = 48

	if _, err := sim.Research(&state, "better_defenses"); err != nil {
		t.Fatalf("research: %v", err)
	}
	if state.FortDefense != MaxFortDefense {
		t.Fatalf("fort defense mismatch: got=%d want=%d", state.FortDefense, MaxFortDefense)
	}
	if state.ResearchPoints != 5 || !state.Researched("better_defenses") {
		t.Fatalf("research not recorded: rp=%d", state.ResearchPoints)
	}
	if _, err := sim.Research(&state, "better_defenses"); !errors.Is(err, ErrAlreadyResearched) {
		t.Fatalf("expected ErrAlreadyResearched, got %v", err)
	}
	if _, err := sim.Research(&state, "basic_medicine"); !errors.Is(err, ErrInsufficientResources) {
		t.Fatalf("expected ErrInsufficientResources, got %v", err)
	}
	if _, err := sim.Research(&state, "alchemy"); !errors.Is(err, ErrUnknownProject) {
		t.Fatalf("expected ErrUnknownProject, got %v", err)
	}
}

func TestResearch_AllProjectsUnlocksAchievement(t *testing.T) {
	sim := newTestSimulator(newScriptedRand())
	state := newTestState(survivor("a", Skills{}))
	state.ResearchPoints = 100

	var events []DomainEvent
	for _, key := range []string{"improved_tools", "better_defenses", "basic_medicine"} {
		res, err := sim.Research(&state, key)
		if err != nil {
			t.Fatalf("research %s: %v", key, err)
		}
		events = append(events, res.Events...)
	}
	if !state.Achievements["master_researcher"].Unlocked || !hasEvent(events, EventAchievementUnlocked) {
		t.Fatalf("expected master_researcher unlocked")
	}
}

func TestConsultAdvisor_OncePerDay(t *testing.T) {
	sim := newTestSimulator(newScriptedRand())
	state := newTestState(survivor("a", Skills{Scavenging: 2, Clearing: 2, Building: 1}), survivor("b", Skills{}))

	res, err := sim.ConsultAdvisor(&state)
	if err != nil {
		t.Fatalf("consult: %v", err)
	}
	if !strings.Contains(res.Message, "fort defenses are weak") {
		t.Fatalf("unexpected advice: %q", res.Message)
	}
	if got := mustSurvivor(t, &state, "a"); got.CurrentTask != TaskConsulting {
		t.Fatalf("expected consultant busy, got task=%q", got.CurrentTask)
	}
	if _, err := sim.ConsultAdvisor(&state); !errors.Is(err, ErrAdvisorUsed) {
		t.Fatalf("expected ErrAdvisorUsed, got %v", err)
	}

	if _, err := sim.AdvanceDay(&state); err != nil {
		t.Fatalf("advance day: %v", err)
	}
	if mustSurvivor(t, &state, "a").IsBusy {
		t.Fatalf("expected consultant released on the next day")
	}
	if _, err := sim.ConsultAdvisor(&state); err != nil {
		t.Fatalf("consult on day 2: %v", err)
	}
}

func TestConsultAdvisor_NeedsQualifiedSurvivor(t *testing.T) {
	sim := newTestSimulator(newScriptedRand())
	state := newTestState(survivor("a", Skills{Scavenging: 4}))

	if _, err := sim.ConsultAdvisor(&state); !errors.Is(err, ErrNoConsultant) {
		t.Fatalf("expected ErrNoConsultant, got %v", err)
	}
	if state.Warnings.Advisory != 0 {
		t.Fatalf("rejected consult used the daily advisory")
	}
}

func TestConsultAdvisor_LowFoodComesFirst(t *testing.T) {
	sim := newTestSimulator(newScriptedRand())
	state := newTestState(survivor("a", Skills{Building: 5}))
	state.Food = 3
	state.Materials = 0

	res, err := sim.ConsultAdvisor(&state)
	if err != nil {
		t.Fatalf("consult: %v", err)
	}
	if !strings.Contains(res.Message, "food supplies are running low") {
		t.Fatalf("unexpected advice: %q", res.Message)
	}
	if state.MessageHistory[0].Category != LogDanger {
		t.Fatalf("expected danger category, got %s", state.MessageHistory[0].Category)
	}
}

func TestTradeOffers_AtNeutralReputation(t *testing.T) {
	state := newTestState()
	want := map[TradeOfferKey]int{
		OfferMaterialsSmall: 9,
		OfferMaterialsLarge: 18,
		OfferFoodSmall:      16,
		OfferFoodLarge:      32,
	}
	for _, o := range TradeOffers(&state) {
		if o.Cost != want[o.Key] {
			t.Fatalf("offer %s cost mismatch: got=%d want=%d", o.Key, o.Cost, want[o.Key])
		}
	}
}

func TestTrade_CompletesAndReleases(t *testing.T) {
	sim := newTestSimulator(newScriptedRand())
	trader := survivor("a", Skills{})
	pos := world.Pos(2, 3)
	trader.assign(TaskTrading, &pos, 0)
	state := newTestState(trader)

	if _, err := sim.Trade(&state, "a", OfferMaterialsSmall); err != nil {
		t.Fatalf("trade: %v", err)
	}
	if state.Food != StartingFood-9 || state.Materials != StartingMaterials+5 {
		t.Fatalf("resources mismatch: food=%d materials=%d", state.Food, state.Materials)
	}
	if state.Faction(FactionNomads).Reputation != DefaultFactionRep+TradeReputationGain {
		t.Fatalf("reputation mismatch: %d", state.Faction(FactionNomads).Reputation)
	}
	if mustSurvivor(t, &state, "a").IsBusy {
		t.Fatalf("expected trader released")
	}
	if _, err := sim.Trade(&state, "a", OfferMaterialsSmall); !errors.Is(err, ErrNotTrading) {
		t.Fatalf("expected ErrNotTrading, got %v", err)
	}
}

func TestTrade_InsufficientKeepsSurvivorTrading(t *testing.T) {
	sim := newTestSimulator(newScriptedRand())
	trader := survivor("a", Skills{})
	pos := world.Pos(2, 3)
	trader.assign(TaskTrading, &pos, 0)
	state := newTestState(trader)
	state.Materials = 10

	if _, err := sim.Trade(&state, "a", OfferFoodSmall); !errors.Is(err, ErrInsufficientResources) {
		t.Fatalf("expected ErrInsufficientResources, got %v", err)
	}
	if mustSurvivor(t, &state, "a").CurrentTask != TaskTrading {
		t.Fatalf("expected survivor still trading")
	}
	if _, err := sim.Trade(&state, "a", "buy_everything"); !errors.Is(err, ErrUnknownOffer) {
		t.Fatalf("expected ErrUnknownOffer, got %v", err)
	}
	if _, err := sim.CancelTrade(&state, "a"); err != nil {
		t.Fatalf("cancel trade: %v", err)
	}
	if mustSurvivor(t, &state, "a").IsBusy {
		t.Fatalf("expected survivor released after cancel")
	}
}

func TestEquipAndUnequip(t *testing.T) {
	sim := newTestSimulator(newScriptedRand())
	state := newTestState(survivor("a", Skills{Clearing: 1}))
	state.Inventory = []EquipmentKind{EquipmentSharpKnife, EquipmentCrudeArmor}

	if _, err := sim.Equip(&state, "a", 0); err != nil {
		t.Fatalf("equip: %v", err)
	}
	sv := mustSurvivor(t, &state, "a")
	if sv.EquippedItem != EquipmentSharpKnife || sv.CurrentTask != TaskEquipping {
		t.Fatalf("unexpected survivor after equip: item=%s task=%s", sv.EquippedItem, sv.CurrentTask)
	}
	if got := sim.Content.EffectiveSkill(*sv, SkillClearing); got != 2 {
		t.Fatalf("effective clearing mismatch: got=%d want=2", got)
	}
	if _, err := sim.Equip(&state, "a", 0); !errors.Is(err, ErrSurvivorUnavailable) {
		t.Fatalf("expected busy survivor rejected, got %v", err)
	}

	sv.Release()
	if _, err := sim.Equip(&state, "a", 0); err != nil {
		t.Fatalf("swap equip: %v", err)
	}
	if sv.EquippedItem != EquipmentCrudeArmor || !slices.Equal(state.Inventory, []EquipmentKind{EquipmentSharpKnife}) {
		t.Fatalf("swap mismatch: item=%s inventory=%v", sv.EquippedItem, state.Inventory)
	}

	sv.Release()
	if _, err := sim.Unequip(&state, "a"); err != nil {
		t.Fatalf("unequip: %v", err)
	}
	if sv.EquippedItem != "" || len(state.Inventory) != 2 {
		t.Fatalf("unequip mismatch: item=%s inventory=%v", sv.EquippedItem, state.Inventory)
	}

	sv.Release()
	if _, err := sim.Unequip(&state, "a"); !errors.Is(err, ErrNothingEquipped) {
		t.Fatalf("expected ErrNothingEquipped, got %v", err)
	}
	if _, err := sim.Equip(&state, "a", 7); !errors.Is(err, ErrInvalidItem) {
		t.Fatalf("expected ErrInvalidItem, got %v", err)
	}
}
