// Package yamlcontent loads content table overrides from a YAML file.
package yamlcontent

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"resurgent/internal/domain/city"
)

// File mirrors content.yaml. Sections left out keep the built-in tables.
type File struct {
	FirstNames   []string           `yaml:"first_names"`
	LastNames    []string           `yaml:"last_names"`
	LeaderTrait  string             `yaml:"leader_trait"`
	Traits       []traitYAML        `yaml:"traits"`
	Equipment    []equipmentYAML    `yaml:"equipment"`
	Research     []researchYAML     `yaml:"research"`
	Factions     []factionYAML      `yaml:"factions"`
	Achievements []achievementYAML  `yaml:"achievements"`
	EventChances map[string]float64 `yaml:"event_chances"`
}

type traitYAML struct {
	Kind        string          `yaml:"kind"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Effect      traitEffectYAML `yaml:"effect"`
}

// Exactly one member of an effect block may be set.
type traitEffectYAML struct {
	SkillBonus        *city.SkillBonus     `yaml:"skill_bonus"`
	SkillGain         *city.SkillGainBonus `yaml:"skill_gain"`
	MoraleShift       *city.MoraleShift    `yaml:"morale_shift"`
	StartFailure      *city.StartFailure   `yaml:"start_failure"`
	IllnessResistance *struct{}            `yaml:"illness_resistance"`
}

type equipmentYAML struct {
	Kind        string              `yaml:"kind"`
	Name        string              `yaml:"name"`
	Slot        string              `yaml:"slot"`
	Description string              `yaml:"description"`
	Effect      equipmentEffectYAML `yaml:"effect"`
}

type equipmentEffectYAML struct {
	Tool   *city.ToolBonus   `yaml:"tool"`
	Armor  *city.ArmorBonus  `yaml:"armor"`
	Weapon *city.WeaponBonus `yaml:"weapon"`
}

type researchYAML struct {
	Key         string             `yaml:"key"`
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Cost        int                `yaml:"cost"`
	Effect      researchEffectYAML `yaml:"effect"`
}

type researchEffectYAML struct {
	Tooling  *city.ToolingUpgrade  `yaml:"tooling"`
	Defense  *city.DefenseUpgrade  `yaml:"defense"`
	Medicine *city.MedicineUpgrade `yaml:"medicine"`
}

type factionYAML struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Attitude   string `yaml:"attitude"`
	Reputation int    `yaml:"reputation"`
}

type achievementYAML struct {
	Key         string `yaml:"key"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Metric      string `yaml:"metric"`
	Target      int    `yaml:"target"`
}

var errEffectCount = errors.New("exactly one effect is required")

var knownMetrics = map[city.AchievementMetric]bool{
	city.MetricBlocksCleared:      true,
	city.MetricSurvivorsRecruited: true,
	city.MetricFortDefense:        true,
	city.MetricProjectsResearched: true,
}

// Load reads path and overlays it on the built-in content.
func Load(path string) (city.Content, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return city.Content{}, err
	}
	c, err := Parse(raw)
	if err != nil {
		return city.Content{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func Parse(raw []byte) (city.Content, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return city.Content{}, fmt.Errorf("%w: %v", city.ErrInvalidContent, err)
	}
	c, err := f.apply(city.DefaultContent())
	if err != nil {
		return city.Content{}, fmt.Errorf("%w: %v", city.ErrInvalidContent, err)
	}
	if err := c.Validate(); err != nil {
		return city.Content{}, err
	}
	return c, nil
}

func (f File) apply(c city.Content) (city.Content, error) {
	if len(f.FirstNames) > 0 {
		c.FirstNames = f.FirstNames
	}
	if len(f.LastNames) > 0 {
		c.LastNames = f.LastNames
	}
	if len(f.Traits) > 0 {
		c.Traits = make([]city.TraitDef, 0, len(f.Traits))
		for _, t := range f.Traits {
			eff, err := t.Effect.effect()
			if err != nil {
				return c, fmt.Errorf("trait %q: %w", t.Kind, err)
			}
			c.Traits = append(c.Traits, city.TraitDef{Kind: city.TraitKind(t.Kind), Name: t.Name, Description: t.Description, Effect: eff})
		}
	}
	if f.LeaderTrait != "" {
		c.LeaderTrait = city.TraitKind(f.LeaderTrait)
	}
	if _, ok := c.Trait(c.LeaderTrait); !ok {
		return c, fmt.Errorf("leader trait %q is not defined", c.LeaderTrait)
	}
	if len(f.Equipment) > 0 {
		c.Equipment = make([]city.EquipmentDef, 0, len(f.Equipment))
		for _, e := range f.Equipment {
			eff, err := e.Effect.effect()
			if err != nil {
				return c, fmt.Errorf("equipment %q: %w", e.Kind, err)
			}
			c.Equipment = append(c.Equipment, city.EquipmentDef{Kind: city.EquipmentKind(e.Kind), Name: e.Name, Slot: e.Slot, Description: e.Description, Effect: eff})
		}
	}
	if len(f.Research) > 0 {
		c.Research = make([]city.ResearchDef, 0, len(f.Research))
		for _, r := range f.Research {
			eff, err := r.Effect.effect()
			if err != nil {
				return c, fmt.Errorf("research %q: %w", r.Key, err)
			}
			c.Research = append(c.Research, city.ResearchDef{Key: r.Key, Name: r.Name, Description: r.Description, Cost: r.Cost, Effect: eff})
		}
	}
	if len(f.Factions) > 0 {
		c.Factions = make([]city.FactionDef, 0, len(f.Factions))
		for _, fa := range f.Factions {
			if fa.Reputation < 0 || fa.Reputation > 100 {
				return c, fmt.Errorf("faction %q reputation out of range", fa.ID)
			}
			c.Factions = append(c.Factions, city.FactionDef{ID: fa.ID, Name: fa.Name, Attitude: fa.Attitude, Reputation: fa.Reputation})
		}
	}
	if len(f.Achievements) > 0 {
		c.Achievements = make([]city.AchievementDef, 0, len(f.Achievements))
		for _, a := range f.Achievements {
			m := city.AchievementMetric(a.Metric)
			if !knownMetrics[m] {
				return c, fmt.Errorf("achievement %q: unknown metric %q", a.Key, a.Metric)
			}
			c.Achievements = append(c.Achievements, city.AchievementDef{Key: a.Key, Name: a.Name, Description: a.Description, Metric: m, Target: a.Target})
		}
	}
	if len(f.EventChances) > 0 {
		chances := make(map[city.EventKey]float64, len(c.EventChances)+len(f.EventChances))
		for k, v := range c.EventChances {
			chances[k] = v
		}
		for k, v := range f.EventChances {
			chances[city.EventKey(k)] = v
		}
		c.EventChances = chances
	}
	return c, nil
}

func (e traitEffectYAML) effect() (city.TraitEffect, error) {
	var out []city.TraitEffect
	if e.SkillBonus != nil {
		out = append(out, *e.SkillBonus)
	}
	if e.SkillGain != nil {
		out = append(out, *e.SkillGain)
	}
	if e.MoraleShift != nil {
		out = append(out, *e.MoraleShift)
	}
	if e.StartFailure != nil {
		out = append(out, *e.StartFailure)
	}
	if e.IllnessResistance != nil {
		out = append(out, city.IllnessResistance{})
	}
	if len(out) != 1 {
		return nil, errEffectCount
	}
	return out[0], nil
}

func (e equipmentEffectYAML) effect() (city.EquipmentEffect, error) {
	var out []city.EquipmentEffect
	if e.Tool != nil {
		out = append(out, *e.Tool)
	}
	if e.Armor != nil {
		out = append(out, *e.Armor)
	}
	if e.Weapon != nil {
		out = append(out, *e.Weapon)
	}
	if len(out) != 1 {
		return nil, errEffectCount
	}
	return out[0], nil
}

func (e researchEffectYAML) effect() (city.ResearchEffect, error) {
	var out []city.ResearchEffect
	if e.Tooling != nil {
		out = append(out, *e.Tooling)
	}
	if e.Defense != nil {
		out = append(out, *e.Defense)
	}
	if e.Medicine != nil {
		out = append(out, *e.Medicine)
	}
	if len(out) != 1 {
		return nil, errEffectCount
	}
	return out[0], nil
}
