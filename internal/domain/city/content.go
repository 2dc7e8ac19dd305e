package city

import (
	"errors"
	"fmt"
)

var ErrInvalidContent = errors.New("invalid content")

type TraitKind string

const (
	TraitStrong       TraitKind = "strong"
	TraitQuickLearner TraitKind = "quick_learner"
	TraitOptimistic   TraitKind = "optimistic"
	TraitClumsy       TraitKind = "clumsy"
	TraitResourceful  TraitKind = "resourceful"
	TraitMedic        TraitKind = "medic"
	TraitFearful      TraitKind = "fearful"
)

// TraitEffect is the single gameplay modifier a trait carries.
type TraitEffect interface {
	isTraitEffect()
}

type SkillBonus struct {
	Scavenging int `json:"scavenging,omitempty" yaml:"scavenging,omitempty"`
	Clearing   int `json:"clearing,omitempty" yaml:"clearing,omitempty"`
	Building   int `json:"building,omitempty" yaml:"building,omitempty"`
}

type SkillGainBonus struct {
	Extra int `json:"extra" yaml:"extra"`
}

// MoraleShift is added to the survivor's morale each day; negative values drain it.
type MoraleShift struct {
	Delta int `json:"delta" yaml:"delta"`
}

type StartFailure struct {
	Chance float64 `json:"chance" yaml:"chance"`
}

type IllnessResistance struct{}

func (SkillBonus) isTraitEffect()        {}
func (SkillGainBonus) isTraitEffect()    {}
func (MoraleShift) isTraitEffect()       {}
func (StartFailure) isTraitEffect()      {}
func (IllnessResistance) isTraitEffect() {}

type TraitDef struct {
	Kind        TraitKind
	Name        string
	Description string
	Effect      TraitEffect
}

type EquipmentKind string

const (
	EquipmentMakeshiftTools EquipmentKind = "makeshift_tools"
	EquipmentCrudeArmor     EquipmentKind = "crude_armor"
	EquipmentSharpKnife     EquipmentKind = "sharp_knife"
)

type EquipmentEffect interface {
	isEquipmentEffect()
}

type ToolBonus struct {
	Scavenging int `json:"scavenging" yaml:"scavenging"`
	Building   int `json:"building" yaml:"building"`
}

type ArmorBonus struct {
	Defense int `json:"defense" yaml:"defense"`
}

type WeaponBonus struct {
	Clearing int `json:"clearing" yaml:"clearing"`
}

func (ToolBonus) isEquipmentEffect()   {}
func (ArmorBonus) isEquipmentEffect()  {}
func (WeaponBonus) isEquipmentEffect() {}

type EquipmentDef struct {
	Kind        EquipmentKind
	Name        string
	Slot        string
	Description string
	Effect      EquipmentEffect
}

type ResearchEffect interface {
	isResearchEffect()
}

// ToolingUpgrade adds to the effective skill used by scavenging and fort work.
type ToolingUpgrade struct {
	Scavenging int `json:"scavenging" yaml:"scavenging"`
	Building   int `json:"building" yaml:"building"`
}

type DefenseUpgrade struct {
	FortDefense int `json:"fort_defense" yaml:"fort_defense"`
}

type MedicineUpgrade struct {
	HealChance float64 `json:"heal_chance" yaml:"heal_chance"`
}

func (ToolingUpgrade) isResearchEffect()  {}
func (DefenseUpgrade) isResearchEffect()  {}
func (MedicineUpgrade) isResearchEffect() {}

type ResearchDef struct {
	Key         string
	Name        string
	Description string
	Cost        int
	Effect      ResearchEffect
}

type FactionDef struct {
	ID         string
	Name       string
	Attitude   string
	Reputation int
}

type AchievementDef struct {
	Key         string
	Name        string
	Description string
	Metric      AchievementMetric
	// Target <= 0 on projects_researched means "every project".
	Target int
}

// Content is the immutable table set the simulator reads from. Snapshots only
// carry kinds and keys; definitions always come from here.
type Content struct {
	FirstNames   []string
	LastNames    []string
	LeaderTrait  TraitKind
	Traits       []TraitDef
	Equipment    []EquipmentDef
	Research     []ResearchDef
	Factions     []FactionDef
	Achievements []AchievementDef
	EventChances map[EventKey]float64
}

func DefaultContent() Content {
	return Content{
		FirstNames:  []string{"Alex", "Blake", "Casey", "Dakota", "Emerson", "Finley", "Harper", "Jamie", "Kai", "Morgan", "Riley", "Skylar", "Taylor", "Quinn"},
		LastNames:   []string{"Smith", "Jones", "Williams", "Brown", "Davis", "Miller", "Wilson", "Moore", "Taylor", "Anderson"},
		LeaderTrait: TraitQuickLearner,
		Traits: []TraitDef{
			{Kind: TraitStrong, Name: "Strong", Description: "+1 bonus to Clearing and Building tasks.", Effect: SkillBonus{Clearing: 1, Building: 1}},
			{Kind: TraitQuickLearner, Name: "Quick Learner", Description: "Gains skills faster.", Effect: SkillGainBonus{Extra: 1}},
			{Kind: TraitOptimistic, Name: "Optimistic", Description: "Slightly boosts daily morale.", Effect: MoraleShift{Delta: 5}},
			{Kind: TraitClumsy, Name: "Clumsy", Description: "Small chance to fail tasks.", Effect: StartFailure{Chance: 0.1}},
			{Kind: TraitResourceful, Name: "Resourceful", Description: "+1 bonus to Scavenging tasks.", Effect: SkillBonus{Scavenging: 1}},
			{Kind: TraitMedic, Name: "Medic", Description: "Shrugs off minor illness outbreaks.", Effect: IllnessResistance{}},
			{Kind: TraitFearful, Name: "Fearful", Description: "Slightly reduces daily morale.", Effect: MoraleShift{Delta: -5}},
		},
		Equipment: []EquipmentDef{
			{Kind: EquipmentMakeshiftTools, Name: "Makeshift Tools", Slot: "tool", Description: "+1 Scavenging & Building.", Effect: ToolBonus{Scavenging: 1, Building: 1}},
			{Kind: EquipmentCrudeArmor, Name: "Crude Armor", Slot: "armor", Description: "+1 Defense for survivor.", Effect: ArmorBonus{Defense: 1}},
			{Kind: EquipmentSharpKnife, Name: "Sharp Knife", Slot: "weapon", Description: "+1 Clearing.", Effect: WeaponBonus{Clearing: 1}},
		},
		Research: []ResearchDef{
			{Key: "improved_tools", Name: "Improved Tools", Description: "Boosts scavenging and building task efficiency.", Cost: 20, Effect: ToolingUpgrade{Scavenging: 2, Building: 2}},
			{Key: "better_defenses", Name: "Better Defenses", Description: "Permanently increases fort defense.", Cost: 30, Effect: DefenseUpgrade{FortDefense: 5}},
			{Key: "basic_medicine", Name: "Basic Medicine", Description: "Reduces the impact of illnesses.", Cost: 25, Effect: MedicineUpgrade{HealChance: 0.3}},
		},
		Factions: []FactionDef{
			{ID: FactionMarauders, Name: "The Marauders", Attitude: "hostile", Reputation: DefaultFactionRep},
			{ID: FactionNomads, Name: "The Nomads", Attitude: "neutral", Reputation: DefaultFactionRep},
		},
		Achievements: []AchievementDef{
			{Key: "first_clear", Name: "First Clear", Description: "Clear your first ruined block.", Metric: MetricBlocksCleared, Target: 1},
			{Key: "recruiter", Name: "Recruiter", Description: "Recruit 10 survivors.", Metric: MetricSurvivorsRecruited, Target: 10},
			{Key: "fort_defender", Name: "Fort Defender", Description: "Reach 30 Fort Defense.", Metric: MetricFortDefense, Target: 30},
			{Key: "master_researcher", Name: "Master Researcher", Description: "Research all available projects.", Metric: MetricProjectsResearched},
			{Key: "city_reclaimer", Name: "City Reclaimer", Description: "Clear 20 ruined blocks.", Metric: MetricBlocksCleared, Target: 20},
		},
		EventChances: defaultEventChances(),
	}
}

func (c Content) Trait(kind TraitKind) (TraitDef, bool) {
	for _, t := range c.Traits {
		if t.Kind == kind {
			return t, true
		}
	}
	return TraitDef{}, false
}

func (c Content) EquipmentDef(kind EquipmentKind) (EquipmentDef, bool) {
	for _, e := range c.Equipment {
		if e.Kind == kind {
			return e, true
		}
	}
	return EquipmentDef{}, false
}

func (c Content) ResearchDef(key string) (ResearchDef, bool) {
	for _, r := range c.Research {
		if r.Key == key {
			return r, true
		}
	}
	return ResearchDef{}, false
}

func (c Content) FactionDef(id string) (FactionDef, bool) {
	for _, f := range c.Factions {
		if f.ID == id {
			return f, true
		}
	}
	return FactionDef{}, false
}

// AchievementTarget resolves the open "every project" target.
func (c Content) AchievementTarget(def AchievementDef) int {
	if def.Metric == MetricProjectsResearched && def.Target <= 0 {
		return len(c.Research)
	}
	return def.Target
}

func (c Content) EventChance(key EventKey) float64 {
	if p, ok := c.EventChances[key]; ok {
		return p
	}
	return defaultEventChances()[key]
}

func (c Content) Validate() error {
	if len(c.FirstNames) == 0 || len(c.LastNames) == 0 {
		return fmt.Errorf("%w: names are required", ErrInvalidContent)
	}
	if len(c.Traits) == 0 {
		return fmt.Errorf("%w: at least one trait is required", ErrInvalidContent)
	}
	if len(c.Equipment) == 0 {
		return fmt.Errorf("%w: at least one equipment kind is required", ErrInvalidContent)
	}
	for _, t := range c.Traits {
		if t.Kind == "" || t.Effect == nil {
			return fmt.Errorf("%w: trait %q has no effect", ErrInvalidContent, t.Kind)
		}
	}
	for _, e := range c.Equipment {
		if e.Kind == "" || e.Effect == nil {
			return fmt.Errorf("%w: equipment %q has no effect", ErrInvalidContent, e.Kind)
		}
	}
	for _, r := range c.Research {
		if r.Key == "" || r.Effect == nil || r.Cost < 0 {
			return fmt.Errorf("%w: research %q is incomplete", ErrInvalidContent, r.Key)
		}
	}
	for _, id := range []string{FactionMarauders, FactionNomads} {
		if _, ok := c.FactionDef(id); !ok {
			return fmt.Errorf("%w: faction %q is required", ErrInvalidContent, id)
		}
	}
	for key, p := range c.EventChances {
		if _, ok := eventByKey(key); !ok {
			return fmt.Errorf("%w: unknown event %q", ErrInvalidContent, key)
		}
		if p < 0 || p > 1 {
			return fmt.Errorf("%w: event %q chance out of range", ErrInvalidContent, key)
		}
	}
	return nil
}
