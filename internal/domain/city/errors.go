package city

import "errors"

var (
	ErrSurvivorNotFound      = errors.New("survivor not found")
	ErrSurvivorUnavailable   = errors.New("survivor is busy or sick")
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrInvalidTarget         = errors.New("invalid target block")
	ErrUnknownAction         = errors.New("unknown action")
	ErrStartFailed           = errors.New("survivor failed to start the task")
	ErrLabOccupied           = errors.New("laboratory already has a researcher")
	ErrAtCapacity            = errors.New("survivor capacity reached")
	ErrUnknownProject        = errors.New("unknown research project")
	ErrAlreadyResearched     = errors.New("project already researched")
	ErrAdvisorUsed           = errors.New("advisor already consulted today")
	ErrNoConsultant          = errors.New("no qualified consultant available")
	ErrNotTrading            = errors.New("survivor is not trading")
	ErrUnknownOffer          = errors.New("unknown trade offer")
	ErrInvalidItem           = errors.New("invalid inventory item")
	ErrNothingEquipped       = errors.New("survivor has nothing equipped")

	ErrChoicePending   = errors.New("an event choice is pending")
	ErrNoPendingChoice = errors.New("no event choice is pending")
	ErrUnknownOption   = errors.New("unknown choice option")
	ErrGameOver        = errors.New("game is over")
	ErrInvalidState    = errors.New("invalid world state")
)

// RejectionError is a refused command. The state only gains a log entry.
type RejectionError struct {
	Reason  error
	Message string
}

func (e *RejectionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Reason != nil {
		return e.Reason.Error()
	}
	return "rejected"
}

func (e *RejectionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Reason
}

func IsRejection(err error) bool {
	var rejected *RejectionError
	return errors.As(err, &rejected)
}
