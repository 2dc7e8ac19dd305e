package catalog

import (
	"context"
	"errors"

	"resurgent/internal/app/ports"
	"resurgent/internal/domain/city"
	"resurgent/internal/domain/world"
)

var ErrNoGuides = errors.New("guides are not configured")

type UseCase struct {
	Content city.Content
	Guides  ports.GuideProvider
}

// Index flattens the content tables the server is running with.
func (u UseCase) Index(_ context.Context) Index {
	c := u.Content
	if len(c.Traits) == 0 {
		c = city.DefaultContent()
	}
	out := Index{
		MapSize:      world.DefaultMapSize,
		Actions:      make([]Action, 0, len(city.AllActions)),
		Traits:       make([]Trait, 0, len(c.Traits)),
		Equipment:    make([]Equipment, 0, len(c.Equipment)),
		Research:     make([]Research, 0, len(c.Research)),
		Factions:     make([]Faction, 0, len(c.Factions)),
		Achievements: make([]Achievement, 0, len(c.Achievements)),
		Events:       []Event{},
	}
	for _, a := range city.AllActions {
		food, materials := city.ActionCost(a)
		out.Actions = append(out.Actions, Action{Action: string(a), Food: food, Materials: materials})
	}
	for _, t := range c.Traits {
		out.Traits = append(out.Traits, Trait{Kind: string(t.Kind), Name: t.Name, Description: t.Description})
	}
	for _, e := range c.Equipment {
		out.Equipment = append(out.Equipment, Equipment{Kind: string(e.Kind), Name: e.Name, Slot: e.Slot, Description: e.Description})
	}
	for _, r := range c.Research {
		out.Research = append(out.Research, Research{Key: r.Key, Name: r.Name, Description: r.Description, Cost: r.Cost})
	}
	for _, f := range c.Factions {
		out.Factions = append(out.Factions, Faction{ID: f.ID, Name: f.Name, Attitude: f.Attitude, Reputation: f.Reputation})
	}
	for _, a := range c.Achievements {
		out.Achievements = append(out.Achievements, Achievement{
			Key:         a.Key,
			Name:        a.Name,
			Description: a.Description,
			Metric:      string(a.Metric),
			Target:      c.AchievementTarget(a),
		})
	}
	for _, ev := range c.Events() {
		out.Events = append(out.Events, Event{Key: string(ev.Key), Name: ev.Name, Chance: ev.Chance, Choice: ev.HasChoice})
	}
	return out
}

func (u UseCase) Guide(ctx context.Context, path string) ([]byte, error) {
	if u.Guides == nil {
		return nil, ErrNoGuides
	}
	return u.Guides.File(ctx, path)
}
