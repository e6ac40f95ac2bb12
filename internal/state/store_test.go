package state

import (
	"testing"

	"github.com/ppiankov/forensia/internal/model"
)

func TestFeatureStore_Update_SingleField(t *testing.T) {
	store := NewFeatureStore(model.DefaultFeatures())
	before := store.Snapshot()

	store.Update(model.SetPitchJitter(2.5))
	after := store.Snapshot()

	if after.PitchJitter != 2.5 {
		t.Errorf("Expected pitchJitter 2.5, got %v", after.PitchJitter)
	}

	want := before
	want.PitchJitter = 2.5
	if after != want {
		t.Errorf("Other fields changed: got %+v, want %+v", after, want)
	}
}

func TestFeatureStore_SnapshotIsStable(t *testing.T) {
	store := NewFeatureStore(model.DefaultFeatures())
	snap := store.Snapshot()

	store.Update(model.SetLanguage(model.LanguageHindi))
	store.Update(model.SetPauseEntropy(4.2))

	if snap.Language != model.LanguageEnglish || snap.PauseEntropy != 1.25 {
		t.Errorf("Earlier snapshot changed after updates: %+v", snap)
	}
	if got := store.Snapshot(); got.Language != model.LanguageHindi || got.PauseEntropy != 4.2 {
		t.Errorf("Expected both updates applied, got %+v", got)
	}
}

func TestFeatureStore_NoClamping(t *testing.T) {
	store := NewFeatureStore(model.DefaultFeatures())

	got := store.Update(model.SetSilenceNoiseVariance(7))
	if got.SilenceNoiseVariance != 7 {
		t.Errorf("Expected out-of-range value to be stored as-is, got %v", got.SilenceNoiseVariance)
	}
}

func TestSelector_Select(t *testing.T) {
	store := NewFeatureStore(model.DefaultFeatures())
	sel := NewSelector(model.DefaultClassification)

	if sel.Current() != model.ClassificationAuthentic {
		t.Fatalf("Expected default Authentic, got %s", sel.Current())
	}

	before := store.Snapshot()
	sel.Select(model.ClassificationSynthetic)

	if sel.Current() != model.ClassificationSynthetic {
		t.Errorf("Expected Synthetic, got %s", sel.Current())
	}
	if store.Snapshot() != before {
		t.Error("Selecting a classification changed the feature store")
	}
}
