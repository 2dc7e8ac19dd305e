package replay

import "resurgent/internal/domain/city"

type LogRequest struct {
	GameID   string
	Category string
	Limit    int
}

type LogResponse struct {
	Day     int             `json:"day"`
	Entries []city.LogEntry `json:"entries"`
}

type EventsRequest struct {
	GameID string
	Type   string
	Limit  int
}

type EventsResponse struct {
	Events []city.DomainEvent `json:"events"`
}
