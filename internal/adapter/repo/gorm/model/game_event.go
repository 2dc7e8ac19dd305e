package model

import "time"

const TableNameGameEvent = "game_events"

// GameEvent mapped from table <game_events>
type GameEvent struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement:true" json:"id"`
	GameID     string    `gorm:"column:game_id;not null" json:"game_id"`
	Type       string    `gorm:"column:type;not null" json:"type"`
	Day        int32     `gorm:"column:day;not null" json:"day"`
	OccurredAt time.Time `gorm:"column:occurred_at;not null" json:"occurred_at"`
	Payload    []byte    `gorm:"column:payload;type:jsonb" json:"payload"`
}

// TableName GameEvent's table name
func (*GameEvent) TableName() string {
	return TableNameGameEvent
}
