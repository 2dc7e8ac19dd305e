// Package stateview derives read-only summaries from a stored city.
package stateview

import "resurgent/internal/domain/city"

// Outlook projects the stockpiles forward assuming nothing else changes.
type Outlook struct {
	FoodUpkeep         int      `json:"food_upkeep"`
	FoodProduction     int      `json:"food_production"`
	NetFoodPerDay      int      `json:"net_food_per_day"`
	DaysOfFood         int      `json:"days_of_food"`
	MaterialProduction int      `json:"material_production"`
	Causes             []string `json:"causes"`
}

// NoShortage marks a stockpile that is not shrinking.
const NoShortage = -1

func EstimateOutlook(state city.WorldState) Outlook {
	upkeep := len(state.Survivors)
	net := state.FoodProduction - upkeep
	days := NoShortage
	if net < 0 {
		days = state.Food / -net
	}

	causes := make([]string, 0, 3)
	if state.Food < upkeep {
		causes = append(causes, "STARVING")
	} else if state.Food <= city.LowFoodWarning {
		causes = append(causes, "LOW_FOOD")
	}
	if state.Materials <= city.LowMaterialsWarning {
		causes = append(causes, "LOW_MATERIALS")
	}
	if len(state.Survivors) > state.MaxSurvivors {
		causes = append(causes, "OVERCROWDED")
	}

	return Outlook{
		FoodUpkeep:         upkeep,
		FoodProduction:     state.FoodProduction,
		NetFoodPerDay:      net,
		DaysOfFood:         days,
		MaterialProduction: state.MaterialProduction,
		Causes:             causes,
	}
}
