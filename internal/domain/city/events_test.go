package city

import (
	"testing"
)

func TestRandomEvent_QuietDayWhenNothingRolls(t *testing.T) {
	sim := newTestSimulator(newScriptedRand())
	state := newTestState(survivor("a", Skills{}))

	if choice := sim.begin(&state).randomEvent(); choice != nil {
		t.Fatalf("expected no choice, got %+v", choice)
	}
	if got := state.MessageHistory[0].Category; got != LogGeneric {
		t.Fatalf("quiet day category got=%s want=%s", got, LogGeneric)
	}
}

func TestRandomEvent_ScavengersFindAddsFood(t *testing.T) {
	r := newScriptedRand()
	r.floats = []float64{0.01}
	r.ints = []int{3}
	sim := newTestSimulator(r)
	state := newTestState(survivor("a", Skills{}))

	if choice := sim.begin(&state).randomEvent(); choice != nil {
		t.Fatalf("expected the find to settle at once, got %+v", choice)
	}
	if got, want := state.Food, StartingFood+8; got != want {
		t.Fatalf("food got=%d want=%d", got, want)
	}
}

func TestMinorIllness_MedicsResist(t *testing.T) {
	sim := newTestSimulator(newScriptedRand())
	medic := survivor("a", Skills{})
	other := survivor("b", Skills{})
	other.Trait = TraitFearful
	state := newTestState(medic, other)

	runMinorIllness(sim.begin(&state))

	if mustSurvivor(t, &state, "a").IsSick {
		t.Fatalf("medic should resist illness")
	}
	sick := mustSurvivor(t, &state, "b")
	if !sick.IsSick || sick.Health != DefaultHealth-10 {
		t.Fatalf("expected b sick at %d health, got sick=%v health=%d", DefaultHealth-10, sick.IsSick, sick.Health)
	}

	// Only medics left: nobody catches it.
	state = newTestState(survivor("c", Skills{}))
	runMinorIllness(sim.begin(&state))
	if mustSurvivor(t, &state, "c").IsSick {
		t.Fatalf("expected no one to fall ill")
	}
}

func TestSurvivorConflict_NeedsTwoSurvivors(t *testing.T) {
	sim := newTestSimulator(newScriptedRand())
	state := newTestState(survivor("a", Skills{}))

	if choice := runSurvivorConflict(sim.begin(&state)); choice != nil {
		t.Fatalf("expected no conflict with a single survivor, got %+v", choice)
	}
}

func TestSurvivorConflict_ResolveAdjustsMorale(t *testing.T) {
	cases := map[string]int{
		"mediate": DefaultMorale + 10,
		"ignore":  DefaultMorale - 15,
	}
	for option, want := range cases {
		sim := newTestSimulator(newScriptedRand())
		state := newTestState(survivor("a", Skills{}), survivor("b", Skills{}), survivor("c", Skills{}))

		choice := runSurvivorConflict(sim.begin(&state))
		if choice == nil || len(choice.SurvivorIDs) != 2 {
			t.Fatalf("%s: expected a two-person conflict, got %+v", option, choice)
		}
		if choice.SurvivorIDs[0] == choice.SurvivorIDs[1] {
			t.Fatalf("%s: survivor argues with themself: %v", option, choice.SurvivorIDs)
		}
		state.PendingChoice = choice

		if _, err := sim.ResolveChoice(&state, option); err != nil {
			t.Fatalf("%s: resolve: %v", option, err)
		}
		for _, id := range choice.SurvivorIDs {
			if got := mustSurvivor(t, &state, id).Morale; got != want {
				t.Fatalf("%s: morale of %s got=%d want=%d", option, id, got, want)
			}
		}
		if got := mustSurvivor(t, &state, "c").Morale; got != DefaultMorale {
			t.Fatalf("%s: bystander morale changed to %d", option, got)
		}
	}
}

func TestNomadCaravan_TradeSwapsFoodForMaterials(t *testing.T) {
	r := newScriptedRand()
	r.ints = []int{5}
	sim := newTestSimulator(r)
	state := newTestState(survivor("a", Skills{}))

	choice := runNomadCaravan(sim.begin(&state))
	if choice == nil || choice.Amount != 10 || choice.Cost != 5 {
		t.Fatalf("expected offer of 10 materials for 5 food, got %+v", choice)
	}
	state.PendingChoice = choice

	if _, err := sim.ResolveChoice(&state, "trade"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if state.Food != StartingFood-5 || state.Materials != StartingMaterials+10 {
		t.Fatalf("trade mismatch: food=%d materials=%d", state.Food, state.Materials)
	}
	if got, want := state.Faction(FactionNomads).Reputation, DefaultFactionRep+5; got != want {
		t.Fatalf("nomad reputation got=%d want=%d", got, want)
	}
}

func TestMarauderScouting_Confront(t *testing.T) {
	sim := newTestSimulator(newScriptedRand())
	strong := survivor("a", Skills{Clearing: 10})
	state := newTestState(strong)
	state.PendingChoice = runMarauderScouting(sim.begin(&state))

	if _, err := sim.ResolveChoice(&state, "confront"); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got, want := state.Materials, StartingMaterials+5; got != want {
		t.Fatalf("materials got=%d want=%d", got, want)
	}
	if got, want := state.Faction(FactionMarauders).Reputation, DefaultFactionRep-5; got != want {
		t.Fatalf("marauder reputation got=%d want=%d", got, want)
	}

	weak := newTestState(survivor("b", Skills{}))
	weak.PendingChoice = runMarauderScouting(sim.begin(&weak))
	if _, err := sim.ResolveChoice(&weak, "confront"); err != nil {
		t.Fatalf("resolve weak: %v", err)
	}
	hurt := mustSurvivor(t, &weak, "b")
	if !hurt.IsSick || hurt.Health != DefaultHealth-25 {
		t.Fatalf("expected injured survivor, got sick=%v health=%d", hurt.IsSick, hurt.Health)
	}
}

func TestContentEvents_ListsCatalog(t *testing.T) {
	events := DefaultContent().Events()
	if len(events) != 8 {
		t.Fatalf("event count got=%d want=8", len(events))
	}
	choices := 0
	for _, ev := range events {
		if ev.HasChoice {
			choices++
		}
	}
	if choices != 4 {
		t.Fatalf("choice events got=%d want=4", choices)
	}
}
