package pet

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSuspendRestoreRoundTrip(t *testing.T) {
	p := newHatchedPet(t)
	p.IncreaseLevel()
	p.EvolutionCalls = 3
	p.SickCount = 2
	p.Need(Hunger).Current = 42.5
	p.Need(Joy).RandomOffset = 0.07
	for i := 0; i <= MemoryLevelCount; i++ {
		p.GuessGlyph("ankh", true)
	}
	p.GuessGlyph("owl", false)

	now := mockTimeNow(t).Add(time.Hour)
	data, err := p.Suspend(now)
	if err != nil {
		t.Fatalf("Suspend failed: %v", err)
	}
	if !p.LastSeen.Equal(now) {
		t.Errorf("Expected Suspend to stamp last seen")
	}

	restored, err := Restore(data, DefaultSettings())
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if restored.Name != p.Name || restored.Level != LevelKid {
		t.Errorf("Expected %s at Kid, got %s at %s", p.Name, restored.Name, restored.Level)
	}
	if restored.EvolutionCalls != 3 || restored.SickCount != 2 {
		t.Errorf("Expected counters 3/2, got %d/%d", restored.EvolutionCalls, restored.SickCount)
	}
	if restored.Need(Hunger).Current != 42.5 {
		t.Errorf("Expected hunger 42.5, got %.2f", restored.Need(Hunger).Current)
	}
	if restored.Need(Joy).RandomOffset != 0.07 {
		t.Errorf("Expected the saved offset to survive, got %.3f", restored.Need(Joy).RandomOffset)
	}
	if !restored.BirthTime.Equal(p.BirthTime) || !restored.LastSeen.Equal(now) {
		t.Errorf("Expected timestamps to round trip")
	}

	ankh, _ := restored.Glyph("ankh")
	if ankh.Level != MemorySeen {
		t.Errorf("Expected ankh at Seen, got %s", ankh.Level)
	}
	owl, _ := restored.Glyph("owl")
	if owl.WrongGuesses != 1 {
		t.Errorf("Expected one wrong owl guess, got %d", owl.WrongGuesses)
	}

	// Factors are derived, not saved
	wantDown := DefaultDownFactor + DefaultLevelIncrement
	if !approxEqual(restored.Need(Hunger).DownFactor, wantDown) {
		t.Errorf("Expected derived down factor %.2f, got %.2f", wantDown, restored.Need(Hunger).DownFactor)
	}
}

func TestSnapshotUsesReadableKeys(t *testing.T) {
	p := newHatchedPet(t)
	data, err := p.Suspend(TimeNow())
	if err != nil {
		t.Fatalf("Suspend failed: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Snapshot is not JSON: %v", err)
	}
	if string(raw["evolution_level"]) != `"Baby"` {
		t.Errorf("Expected evolution level by name, got %s", raw["evolution_level"])
	}
	var needs map[string]NeedState
	json.Unmarshal(raw["needs"], &needs)
	if _, ok := needs["hunger"]; !ok || len(needs) != NeedCount {
		t.Errorf("Expected needs keyed by name, got %v", needs)
	}
}

func TestRestoreDiscardsMalformedFields(t *testing.T) {
	mockTimeNow(t)
	mockRandom(t, 0.5)
	data := []byte(`{
		"name": "Rex",
		"evolution_level": "Kid",
		"sleeping": "yes",
		"evolution_calls": -4,
		"needs": {
			"hunger": {"current": 250},
			"health": {"current": 33},
			"joy": {"current": "lots"},
			"thirst": {"current": 10}
		},
		"glyphs": {
			"ankh": {"memory_level": "Bogus", "correct_guesses": 3, "wrong_guesses": 99},
			"griffin": {"memory_level": "Known"}
		}
	}`)

	p, err := Restore(data, DefaultSettings())
	if err != nil {
		t.Fatalf("Expected a partial restore, got %v", err)
	}

	if p.Name != "Rex" || p.Level != LevelKid {
		t.Errorf("Expected Rex at Kid, got %s at %s", p.Name, p.Level)
	}
	if p.Sleeping {
		t.Error("Expected a malformed sleeping flag to default to awake")
	}
	if p.EvolutionCalls != 0 {
		t.Errorf("Expected negative calls clamped to 0, got %d", p.EvolutionCalls)
	}
	if p.Need(Hunger).Current != DefaultInitialNeed {
		t.Errorf("Expected out of range hunger discarded, got %.2f", p.Need(Hunger).Current)
	}
	if p.Need(Health).Current != 33 {
		t.Errorf("Expected health 33, got %.2f", p.Need(Health).Current)
	}
	if p.Need(Joy).Current != DefaultInitialNeed {
		t.Errorf("Expected malformed joy discarded, got %.2f", p.Need(Joy).Current)
	}

	ankh, _ := p.Glyph("ankh")
	if ankh.Level != MemoryNew || ankh.CorrectGuesses != 3 || ankh.WrongGuesses != 0 {
		t.Errorf("Expected New/3/0, got %s/%d/%d", ankh.Level, ankh.CorrectGuesses, ankh.WrongGuesses)
	}
}

func TestRestoreSyncsCriticalLatch(t *testing.T) {
	p := newHatchedPet(t)
	p.Need(Energy).Current = 5
	data, _ := p.Suspend(TimeNow())

	restored, err := Restore(data, DefaultSettings())
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if !restored.Need(Energy).IsCritical() {
		t.Error("Expected a restored low need to be latched")
	}
}

// swingHunger drops hunger into the critical zone and lifts it back to 50,
// short of the satisfied limit
func swingHunger(p *Pet) {
	h := p.Need(Hunger)
	h.Decrease((h.Current - 15) / h.DecayRate())
	h.Increase((50 - h.Current) / h.GrowthRate())
}

func TestRestoreKeepsLatchInRecoveryBand(t *testing.T) {
	p := newHatchedPet(t)
	swingHunger(p)
	if p.EvolutionCalls != 1 || !p.Need(Hunger).IsCritical() {
		t.Fatalf("Expected one care response with the latch held, got %d/%v",
			p.EvolutionCalls, p.Need(Hunger).IsCritical())
	}
	data, _ := p.Suspend(TimeNow())

	restored, err := Restore(data, DefaultSettings())
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	h := restored.Need(Hunger)
	if !h.IsCritical() || h.Alarmed() {
		t.Errorf("Expected latched but not alarmed, got %v/%v", h.IsCritical(), h.Alarmed())
	}

	swingHunger(restored)
	if restored.EvolutionCalls != 1 {
		t.Errorf("Expected the same episode not counted again, got %d", restored.EvolutionCalls)
	}
}

func TestRestoreWithoutLatchDerivesFromValue(t *testing.T) {
	p := newHatchedPet(t)
	swingHunger(p)
	p.Need(Energy).Current = 5
	data, _ := p.Suspend(TimeNow())

	var snap map[string]any
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatal(err)
	}
	for _, n := range snap["needs"].(map[string]any) {
		delete(n.(map[string]any), "critical")
		delete(n.(map[string]any), "alarmed")
	}
	data, _ = json.Marshal(snap)

	restored, err := Restore(data, DefaultSettings())
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if restored.Need(Hunger).IsCritical() {
		t.Error("Expected hunger at 50 unlatched without a saved latch")
	}
	if e := restored.Need(Energy); !e.IsCritical() || !e.Alarmed() {
		t.Error("Expected energy at 5 latched and alarmed without a saved latch")
	}
}

func TestRestoreCorrectsInconsistentLatch(t *testing.T) {
	p := newHatchedPet(t)
	p.Need(Energy).Current = 5
	p.Need(Joy).Current = 95
	data, _ := p.Suspend(TimeNow())

	var snap map[string]any
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatal(err)
	}
	needs := snap["needs"].(map[string]any)
	needs[Joy.String()].(map[string]any)["critical"] = true
	needs[Joy.String()].(map[string]any)["alarmed"] = true
	data, _ = json.Marshal(snap)

	restored, err := Restore(data, DefaultSettings())
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if e := restored.Need(Energy); !e.IsCritical() || !e.Alarmed() {
		t.Error("Expected energy at 5 latched even though the save said otherwise")
	}
	if j := restored.Need(Joy); j.IsCritical() || j.Alarmed() {
		t.Error("Expected joy above the satisfied limit unlatched")
	}
}

func TestRestoreRejectsGarbage(t *testing.T) {
	if _, err := Restore([]byte("not json"), DefaultSettings()); err == nil {
		t.Error("Expected an error for garbage input")
	}
}

func TestLoadPetCreatesNewPet(t *testing.T) {
	now := mockTimeNow(t)
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	p, err := LoadPet(context.Background(), store, "Nova", DefaultSettings(), now)
	if err != nil {
		t.Fatalf("LoadPet failed: %v", err)
	}
	if p.Name != "Nova" || p.Level != LevelEgg {
		t.Errorf("Expected a new egg named Nova, got %s at %s", p.Name, p.Level)
	}
}

func TestLoadPetRecoversFromCorruptSave(t *testing.T) {
	now := mockTimeNow(t)
	dir := t.TempDir()
	store, _ := NewFileStore(dir)
	if err := os.WriteFile(filepath.Join(dir, "Nova.json"), []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadPet(context.Background(), store, "Nova", DefaultSettings(), now)
	if err != nil {
		t.Fatalf("Expected a fresh pet, got %v", err)
	}
	if p.Level != LevelEgg {
		t.Errorf("Expected a fresh egg, got %s", p.Level)
	}
	kept, err := os.ReadFile(filepath.Join(dir, "Nova.json.bad"))
	if err != nil {
		t.Fatalf("Expected the unreadable save kept aside: %v", err)
	}
	if string(kept) != "{broken" {
		t.Errorf("Expected the original bytes kept, got %q", kept)
	}

	if err := SavePet(context.Background(), store, p, now); err != nil {
		t.Fatal(err)
	}
	if names, _ := store.List(context.Background()); len(names) != 1 || names[0] != "Nova" {
		t.Errorf("Expected only Nova listed, got %v", names)
	}
}

func TestSaveAndLoadCatchesUp(t *testing.T) {
	p := newHatchedPet(t)
	ctx := context.Background()
	store, _ := NewFileStore(t.TempDir())
	saved := TimeNow()

	if err := SavePet(ctx, store, p, saved); err != nil {
		t.Fatalf("SavePet failed: %v", err)
	}

	later := saved.Add(3 * time.Hour)
	loaded, err := LoadPet(ctx, store, p.Name, DefaultSettings(), later)
	if err != nil {
		t.Fatalf("LoadPet failed: %v", err)
	}

	want := DefaultInitialNeed - 180*DefaultDownFactor
	if !approxEqual(loaded.Need(Hunger).Current, want) {
		t.Errorf("Expected hunger %.2f after three hours, got %.4f", want, loaded.Need(Hunger).Current)
	}
	if !loaded.LastSeen.Equal(later) {
		t.Errorf("Expected last seen %v, got %v", later, loaded.LastSeen)
	}
}

func TestFileStoreListAndDelete(t *testing.T) {
	ctx := context.Background()
	store, _ := NewFileStore(t.TempDir())

	for _, name := range []string{"Zed", "Amy"} {
		if err := store.Save(ctx, name, []byte("{}")); err != nil {
			t.Fatalf("Save %s failed: %v", name, err)
		}
	}

	names, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 2 || names[0] != "Amy" || names[1] != "Zed" {
		t.Errorf("Expected [Amy Zed], got %v", names)
	}

	if err := store.Delete(ctx, "Amy"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Load(ctx, "Amy"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, "Amy"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestFileStoreRejectsPathNames(t *testing.T) {
	store, _ := NewFileStore(t.TempDir())
	for _, name := range []string{"", ".", "..", "../escape", `a\b`} {
		if err := store.Save(context.Background(), name, []byte("{}")); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Expected ErrInvalidName for %q, got %v", name, err)
		}
	}
}
