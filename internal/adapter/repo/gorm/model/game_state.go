package model

import "time"

const TableNameGameState = "game_states"

// GameState mapped from table <game_states>
type GameState struct {
	GameID    string    `gorm:"column:game_id;primaryKey" json:"game_id"`
	Day       int32     `gorm:"column:day;not null" json:"day"`
	Outcome   string    `gorm:"column:outcome;not null" json:"outcome"`
	State     []byte    `gorm:"column:state;type:jsonb;not null" json:"state"`
	Version   int64     `gorm:"column:version;not null" json:"version"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()" json:"updated_at"`
}

// TableName GameState's table name
func (*GameState) TableName() string {
	return TableNameGameState
}
