package observe

import (
	"resurgent/internal/domain/city"
	"resurgent/internal/domain/world"
)

type Request struct {
	GameID string
	X      int
	Y      int
}

type ActionOption struct {
	Action     city.ActionType `json:"action"`
	Food       int             `json:"food_cost"`
	Materials  int             `json:"material_cost"`
	Days       int             `json:"days"`
	Affordable bool            `json:"affordable"`
}

type Response struct {
	Block           world.Block     `json:"block"`
	InInfluenceZone bool            `json:"in_influence_zone"`
	Distance        int             `json:"distance"`
	Actions         []ActionOption  `json:"actions"`
	Workers         []city.Survivor `json:"workers"`
	Idle            []city.Survivor `json:"idle_survivors"`
}
