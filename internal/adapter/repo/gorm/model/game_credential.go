package model

import "time"

const TableNameGameCredential = "game_credentials"

// GameCredential mapped from table <game_credentials>
type GameCredential struct {
	GameID    string    `gorm:"column:game_id;primaryKey" json:"game_id"`
	KeySalt   []byte    `gorm:"column:key_salt;not null" json:"key_salt"`
	KeyHash   []byte    `gorm:"column:key_hash;not null" json:"key_hash"`
	Status    string    `gorm:"column:status;not null" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now()" json:"updated_at"`
}

// TableName GameCredential's table name
func (*GameCredential) TableName() string {
	return TableNameGameCredential
}
