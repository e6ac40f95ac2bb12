package worker

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/forensia/internal/model"
)

// mockJustifier implements Justifier
type mockJustifier struct {
	calls atomic.Int32
	fail  map[model.Classification]bool
	delay time.Duration
}

func (m *mockJustifier) Generate(ctx context.Context, f model.Features, c model.Classification) (string, error) {
	m.calls.Add(1)
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if m.fail[c] {
		return "", errors.New("Failed to communicate with the forensics engine.")
	}
	return string(f.Language) + ": " + string(c), nil
}

const sampleCases = `
cases:
  - id: clip-1
    classification: authentic
  - id: clip-2
    classification: Synthetic / Generated
    features:
      pitch_jitter: 0.12
      language: Hindi
  - classification: altered
    features:
      prosody_drift: 8.5
`

func TestReadCases_DefaultsAndValidation(t *testing.T) {
	cases, err := ReadCases(strings.NewReader(sampleCases))
	if err != nil {
		t.Fatalf("ReadCases failed: %v", err)
	}
	if len(cases) != 3 {
		t.Fatalf("expected 3 cases, got %d", len(cases))
	}

	if cases[0].Features != model.DefaultFeatures() {
		t.Errorf("expected default features for clip-1, got %+v", cases[0].Features)
	}
	if cases[0].Classification != model.ClassificationAuthentic {
		t.Errorf("unexpected classification %q", cases[0].Classification)
	}

	if cases[1].Features.PitchJitter != 0.12 || cases[1].Features.Language != model.LanguageHindi {
		t.Errorf("unexpected clip-2 features %+v", cases[1].Features)
	}
	if cases[1].Features.PauseEntropy != 1.25 {
		t.Errorf("expected unset field to keep default, got %v", cases[1].Features.PauseEntropy)
	}

	if cases[2].ID != "" || cases[2].Classification != model.ClassificationAltered {
		t.Errorf("unexpected third case %+v", cases[2])
	}
}

func TestReadCases_Invalid(t *testing.T) {
	bad := []string{
		"cases:\n  - classification: deepfake\n",
		"cases:\n  - features:\n      language: French\n",
		"cases:\n  - features:\n      pause_entropy: high\n",
		"cases:\n  - features:\n      shimmer: .nan\n",
		"cases:\n  - features:\n      prosody_drift: -.inf\n",
	}
	for _, doc := range bad {
		if _, err := ReadCases(strings.NewReader(doc)); err == nil {
			t.Errorf("expected error for %q", doc)
		}
	}

	cases, err := ReadCases(strings.NewReader(""))
	if err != nil || len(cases) != 0 {
		t.Errorf("expected empty document to yield no cases, got %v, %v", cases, err)
	}
}

func TestBatchProcessor_Process(t *testing.T) {
	cases, _ := ReadCases(strings.NewReader(sampleCases))
	j := &mockJustifier{fail: map[model.Classification]bool{model.ClassificationAltered: true}}
	processor := NewBatchProcessor(j, 2)

	results := processor.Process(context.Background(), cases)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if j.calls.Load() != 3 {
		t.Errorf("expected one attempt per case, got %d", j.calls.Load())
	}

	if results[0].ID != "clip-1" || results[0].Text != "English: Authentic / Human" {
		t.Errorf("unexpected first result %+v", results[0])
	}
	if results[1].ID != "clip-2" || results[1].Text != "Hindi: Synthetic / Generated" {
		t.Errorf("unexpected second result %+v", results[1])
	}
	if results[2].GetError() == nil || results[2].Error == "" {
		t.Errorf("expected third case to fail, got %+v", results[2])
	}
	if results[2].ID == "" {
		t.Error("expected generated ID for case without one")
	}
	if cases[2].ID != "" {
		t.Errorf("expected caller's cases to be left unchanged, got ID %q", cases[2].ID)
	}
}

func TestBatchProcessor_Process_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockJustifier{}, 2)
	if results := processor.Process(context.Background(), nil); len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestBatchProcessor_Process_Cancelled(t *testing.T) {
	cases := make([]Case, 20)
	for i := range cases {
		cases[i] = Case{Classification: model.ClassificationAuthentic, Features: model.DefaultFeatures()}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	processor := NewBatchProcessor(&mockJustifier{delay: 20 * time.Millisecond}, 1)
	results := processor.Process(ctx, cases)

	if len(results) != len(cases) {
		t.Fatalf("expected a result for every case, got %d", len(results))
	}
	failed := 0
	for i, r := range results {
		if r == nil {
			t.Fatalf("missing result %d", i)
		}
		if r.Index != i {
			t.Errorf("result %d out of order (index %d)", i, r.Index)
		}
		if r.GetError() != nil {
			failed++
		}
	}
	if failed == 0 {
		t.Error("expected cases to fail after the deadline")
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.yaml")
	if err := os.WriteFile(path, []byte(sampleCases), 0644); err != nil {
		t.Fatalf("write cases: %v", err)
	}

	processor := NewBatchProcessor(&mockJustifier{}, 3)
	results, err := processor.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}

	if _, err := processor.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteResults(t *testing.T) {
	results := []*CaseResult{
		{ID: "clip-1", Classification: model.ClassificationAuthentic, Features: model.DefaultFeatures(), Text: "Natural variation."},
		{ID: "clip-2", Classification: model.ClassificationAltered, Features: model.DefaultFeatures(), Error: "Failed to communicate with the forensics engine."},
	}

	var buf bytes.Buffer
	if err := WriteResults(&buf, results); err != nil {
		t.Fatalf("WriteResults failed: %v", err)
	}

	out := buf.String()
	for _, s := range []string{"results:", "id: clip-1", "justification: Natural variation.", "error: Failed to communicate with the forensics engine.", "classification: Altered / Edited"} {
		if !strings.Contains(out, s) {
			t.Errorf("output missing %q:\n%s", s, out)
		}
	}
}
