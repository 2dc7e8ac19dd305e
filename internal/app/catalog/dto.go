package catalog

type Trait struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Equipment struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Slot        string `json:"slot"`
	Description string `json:"description"`
}

type Research struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Cost        int    `json:"cost"`
}

type Faction struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Attitude   string `json:"attitude"`
	Reputation int    `json:"reputation"`
}

type Achievement struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Metric      string `json:"metric"`
	Target      int    `json:"target"`
}

type Event struct {
	Key    string  `json:"key"`
	Name   string  `json:"name"`
	Chance float64 `json:"chance"`
	Choice bool    `json:"choice"`
}

type Action struct {
	Action    string `json:"action"`
	Food      int    `json:"food_cost"`
	Materials int    `json:"material_cost"`
}

type Index struct {
	MapSize      int           `json:"map_size"`
	Actions      []Action      `json:"actions"`
	Traits       []Trait       `json:"traits"`
	Equipment    []Equipment   `json:"equipment"`
	Research     []Research    `json:"research"`
	Factions     []Faction     `json:"factions"`
	Achievements []Achievement `json:"achievements"`
	Events       []Event       `json:"events"`
}
