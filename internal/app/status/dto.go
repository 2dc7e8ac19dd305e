package status

import (
	"resurgent/internal/app/shared/stateview"
	"resurgent/internal/domain/city"
	"resurgent/internal/domain/world"
)

type Request struct {
	GameID string
}

type Response struct {
	State             city.WorldState     `json:"state"`
	InfluenceZone     []world.Position    `json:"influence_zone"`
	ThreatBlocks      []world.Position    `json:"threat_blocks"`
	ClearedBlocks     int                 `json:"cleared_blocks"`
	AvailableCount    int                 `json:"available_survivors"`
	ResearchedCount   int                 `json:"researched_projects"`
	Outlook           stateview.Outlook   `json:"outlook"`
	SurvivorFlags     map[string][]string `json:"survivor_flags"`
	AutoAdvanceActive bool                `json:"auto_advance_active"`
}
