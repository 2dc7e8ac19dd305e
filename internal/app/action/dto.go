package action

import "resurgent/internal/domain/city"

type CommandType string

const (
	CommandAssign      CommandType = "assign"
	CommandRecruit     CommandType = "recruit"
	CommandResearch    CommandType = "research"
	CommandAdvisor     CommandType = "advisor"
	CommandTrade       CommandType = "trade"
	CommandCancelTrade CommandType = "trade_cancel"
	CommandEquip       CommandType = "equip"
	CommandUnequip     CommandType = "unequip"
)

// Request carries every parameter a command may need; each command reads
// only its own fields.
type Request struct {
	GameID     string
	Command    CommandType
	Action     string
	SurvivorID string
	X          int
	Y          int
	Key        string
	ItemIndex  int
}

type ResultCode string

const (
	ResultOK       ResultCode = "OK"
	ResultRejected ResultCode = "REJECTED"
)

type Response struct {
	ResultCode ResultCode         `json:"result_code"`
	Message    string             `json:"message,omitempty"`
	Action     *city.ActionResult `json:"action,omitempty"`
	Events     []city.DomainEvent `json:"events"`
	State      city.WorldState    `json:"state"`
}
