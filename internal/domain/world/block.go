package world

import "encoding/json"

type BlockType string

const (
	BlockRuined  BlockType = "ruined"
	BlockCleared BlockType = "cleared"
	BlockFort    BlockType = "fort"
)

type Block struct {
	X                    int       `json:"x"`
	Y                    int       `json:"y"`
	Type                 BlockType `json:"type"`
	Zombies              int       `json:"zombies"`
	Resources            int       `json:"resources"`
	HasFarm              bool      `json:"has_farm"`
	HasHousing           bool      `json:"has_housing"`
	HasWorkshop          bool      `json:"has_workshop"`
	HasLab               bool      `json:"has_lab"`
	HasWatchtower        bool      `json:"has_watchtower"`
	HasScoutPost         bool      `json:"has_scout_post"`
	FactionControlledBy  string    `json:"faction_controlled_by,omitempty"`
	IsVisible            bool      `json:"is_visible"`
	IsExplored           bool      `json:"is_explored"`
	RevealedByExpedition bool      `json:"revealed_by_expedition,omitempty"`
}

func (b Block) Pos() Position {
	return Position{X: b.X, Y: b.Y}
}

// HasBuilding reports whether a cleared-cell structure already occupies the block.
// The fort farm is not counted.
func (b Block) HasBuilding() bool {
	return b.HasHousing || b.HasWorkshop || b.HasLab || b.HasWatchtower || b.HasScoutPost
}

func (b Block) IsThreat() bool {
	return b.Type == BlockRuined && b.Zombies > 0
}

// Explore marks the block interactable; explored always implies visible.
func (b *Block) Explore() {
	b.IsExplored = true
	b.IsVisible = true
}

// UnmarshalJSON treats missing visibility flags as set; older saves predate them.
func (b *Block) UnmarshalJSON(data []byte) error {
	type plain Block
	aux := struct {
		*plain
		IsVisible  *bool `json:"is_visible"`
		IsExplored *bool `json:"is_explored"`
	}{plain: (*plain)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	b.IsVisible = aux.IsVisible == nil || *aux.IsVisible
	b.IsExplored = aux.IsExplored == nil || *aux.IsExplored
	if b.IsExplored {
		b.IsVisible = true
	}
	return nil
}
