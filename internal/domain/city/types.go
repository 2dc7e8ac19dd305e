package city

import (
	"time"

	"resurgent/internal/domain/world"
)

type WorldState struct {
	GameID    string    `json:"game_id"`
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`

	Day                int        `json:"day"`
	Map                world.Grid `json:"map"`
	Survivors          []Survivor `json:"survivors"`
	MaxSurvivors       int        `json:"max_survivors"`
	Food               int        `json:"food"`
	Materials          int        `json:"materials"`
	ResearchPoints     int        `json:"research_points"`
	FortDefense        int        `json:"fort_defense"`
	FoodProduction     int        `json:"food_production"`
	MaterialProduction int        `json:"material_production"`

	Research     map[string]ResearchProject `json:"research"`
	Factions     []Faction                  `json:"factions"`
	Inventory    []EquipmentKind            `json:"inventory"`
	Achievements map[string]Achievement     `json:"achievements"`

	MessageHistory []LogEntry `json:"message_history"`

	TotalSurvivorsRecruited int `json:"total_survivors_recruited"`
	TotalBlocksCleared      int `json:"total_blocks_cleared"`

	Warnings      WarningFlags   `json:"warnings"`
	PendingChoice *PendingChoice `json:"pending_choice,omitempty"`
	Outcome       Outcome        `json:"outcome,omitempty"`
}

type Skills struct {
	Scavenging int `json:"scavenging"`
	Clearing   int `json:"clearing"`
	Building   int `json:"building"`
}

type SkillKind string

const (
	SkillScavenging SkillKind = "scavenging"
	SkillClearing   SkillKind = "clearing"
	SkillBuilding   SkillKind = "building"
)

type Survivor struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Skills               Skills          `json:"skills"`
	Health               int             `json:"health"`
	Morale               int             `json:"morale"`
	IsBusy               bool            `json:"is_busy"`
	IsSick               bool            `json:"is_sick"`
	Trait                TraitKind       `json:"trait"`
	EquippedItem         EquipmentKind   `json:"equipped_item,omitempty"`
	CurrentTask          TaskType        `json:"current_task,omitempty"`
	AssignedBlock        *world.Position `json:"assigned_block,omitempty"`
	CurrentResearchBlock *world.Position `json:"current_research_block,omitempty"`
	DaysRemaining        int             `json:"days_remaining"`
	DayJoined            int             `json:"day_joined"`
}

type ActionType string

const (
	ActionExpedition       ActionType = "expedition"
	ActionScavenge         ActionType = "scavenge"
	ActionClear            ActionType = "clear"
	ActionBuildRepair      ActionType = "build_repair"
	ActionBuildHousing     ActionType = "build_housing"
	ActionBuildWorkshop    ActionType = "build_workshop"
	ActionBuildLab         ActionType = "build_lab"
	ActionBuildWatchtower  ActionType = "build_watchtower"
	ActionBuildScoutPost   ActionType = "build_scout_post"
	ActionTrade            ActionType = "trade"
	ActionAssignToResearch ActionType = "assign_to_research"
	ActionAttackFaction    ActionType = "attack_faction"
)

// AllActions lists every action in the order blocks offer them.
var AllActions = []ActionType{
	ActionExpedition,
	ActionScavenge,
	ActionClear,
	ActionBuildRepair,
	ActionBuildHousing,
	ActionBuildWorkshop,
	ActionBuildLab,
	ActionBuildWatchtower,
	ActionBuildScoutPost,
	ActionAssignToResearch,
	ActionTrade,
	ActionAttackFaction,
}

// TaskType is what a busy survivor is doing. Duration-based tasks share the
// action's name; the rest are standing or zero-day assignments.
type TaskType string

const (
	TaskResearch   TaskType = "research"
	TaskTrading    TaskType = "trading"
	TaskEquipping  TaskType = "equipping"
	TaskConsulting TaskType = "consulting"
)

type ActionRequest struct {
	Action     ActionType     `json:"action"`
	SurvivorID string         `json:"survivor_id"`
	Block      world.Position `json:"block"`
}

type ActionResult struct {
	Survivor      Survivor      `json:"survivor"`
	Task          TaskType      `json:"task"`
	DaysRemaining int           `json:"days_remaining"`
	Events        []DomainEvent `json:"events"`
}

type CommandResult struct {
	Message string        `json:"message"`
	Events  []DomainEvent `json:"events"`
}

type DayStatus string

const (
	DayAdvanced      DayStatus = "advanced"
	DayPendingChoice DayStatus = "pending_choice"
)

type DayResult struct {
	Status DayStatus      `json:"status"`
	Day    int            `json:"day"`
	Choice *PendingChoice `json:"choice,omitempty"`
	Events []DomainEvent  `json:"events"`
}

type ResearchProject struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Cost        int    `json:"cost"`
	Researched  bool   `json:"researched"`
	Unlocked    bool   `json:"unlocked"`
}

type Faction struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Attitude         string           `json:"attitude"`
	Reputation       int              `json:"reputation"`
	ControlledBlocks []world.Position `json:"controlled_blocks"`
}

type AchievementMetric string

const (
	MetricBlocksCleared      AchievementMetric = "blocks_cleared"
	MetricSurvivorsRecruited AchievementMetric = "survivors_recruited"
	MetricFortDefense        AchievementMetric = "fort_defense"
	MetricProjectsResearched AchievementMetric = "projects_researched"
)

type Achievement struct {
	Key         string            `json:"key"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Metric      AchievementMetric `json:"metric"`
	Target      int               `json:"target"`
	Unlocked    bool              `json:"unlocked"`
}

type LogCategory string

const (
	LogGeneric  LogCategory = "generic"
	LogAction   LogCategory = "action"
	LogSuccess  LogCategory = "success"
	LogResource LogCategory = "resource"
	LogDanger   LogCategory = "danger"
	LogEvent    LogCategory = "event"
	LogResearch LogCategory = "research"
	LogVictory  LogCategory = "victory"
	LogDefeat   LogCategory = "defeat"
)

type LogEntry struct {
	Timestamp time.Time   `json:"timestamp"`
	Day       int         `json:"day"`
	Text      string      `json:"text"`
	Category  LogCategory `json:"category"`
}

// WarningFlags hold the last day each one-shot warning fired. All are zeroed
// when a day closes.
type WarningFlags struct {
	Food           int `json:"food"`
	Materials      int `json:"materials"`
	ZombieAttack   int `json:"zombie_attack"`
	SurvivorDeath  int `json:"survivor_death"`
	SurvivorInjury int `json:"survivor_injury"`
	Advisory       int `json:"advisory"`
}

type Outcome string

const (
	OutcomeNone    Outcome = ""
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
)

type ChoiceOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// PendingChoice suspends a day until the player picks one of Options.
type PendingChoice struct {
	Event       EventKey       `json:"event"`
	Title       string         `json:"title"`
	Prompt      string         `json:"prompt"`
	Options     []ChoiceOption `json:"options"`
	Amount      int            `json:"amount,omitempty"`
	Cost        int            `json:"cost,omitempty"`
	SurvivorIDs []string       `json:"survivor_ids,omitempty"`
}

func (c PendingChoice) HasOption(key string) bool {
	for _, o := range c.Options {
		if o.Key == key {
			return true
		}
	}
	return false
}

const (
	EventWarning             = "warning"
	EventAchievementUnlocked = "achievement_unlocked"
	EventVictory             = "victory"
	EventDefeat              = "defeat"
	EventChoicePending       = "choice_pending"
	EventChoiceResolved      = "choice_resolved"
	EventDayAdvanced         = "day_advanced"
)

type DomainEvent struct {
	Type       string         `json:"type"`
	Day        int            `json:"day"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}
