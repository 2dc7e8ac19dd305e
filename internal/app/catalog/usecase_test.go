package catalog

import (
	"context"
	"errors"
	"testing"

	"resurgent/internal/domain/city"
)

func TestUseCase_IndexListsDefaultTables(t *testing.T) {
	idx := UseCase{}.Index(context.Background())

	if idx.MapSize != 7 || len(idx.Actions) != len(city.AllActions) {
		t.Fatalf("header mismatch: size=%d actions=%d", idx.MapSize, len(idx.Actions))
	}
	if len(idx.Traits) != 7 || len(idx.Research) != 3 || len(idx.Factions) != 2 || len(idx.Events) != 8 {
		t.Fatalf("table sizes mismatch: traits=%d research=%d factions=%d events=%d",
			len(idx.Traits), len(idx.Research), len(idx.Factions), len(idx.Events))
	}
	for _, a := range idx.Achievements {
		if a.Key == "master_researcher" && a.Target != 3 {
			t.Fatalf("open target not resolved: got=%d want=3", a.Target)
		}
	}
	choices := 0
	for _, ev := range idx.Events {
		if ev.Choice {
			choices++
		}
	}
	if choices != 4 {
		t.Fatalf("choice events mismatch: got=%d want=4", choices)
	}
}

func TestUseCase_Guide(t *testing.T) {
	uc := UseCase{Guides: fakeGuides{files: map[string][]byte{"start.md": []byte("# Start")}}}
	body, err := uc.Guide(context.Background(), "start.md")
	if err != nil || string(body) != "# Start" {
		t.Fatalf("guide mismatch: body=%q err=%v", body, err)
	}
	if _, err := (UseCase{}).Guide(context.Background(), "start.md"); !errors.Is(err, ErrNoGuides) {
		t.Fatalf("expected ErrNoGuides, got %v", err)
	}
}

type fakeGuides struct {
	files map[string][]byte
}

func (f fakeGuides) File(_ context.Context, path string) ([]byte, error) {
	body, ok := f.files[path]
	if !ok {
		return nil, errors.New("missing")
	}
	return body, nil
}
