package worker

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/forensia/internal/model"
)

// Justifier produces a justification for one feature set
type Justifier interface {
	Generate(ctx context.Context, f model.Features, c model.Classification) (string, error)
}

// Case is one feature set / classification pair to justify.
// Omitted feature fields take their default values.
type Case struct {
	ID             string               `yaml:"id"`
	Classification model.Classification `yaml:"classification"`
	Features       model.Features       `yaml:"features"`
}

// UnmarshalYAML decodes a case on top of the default feature values and
// validates language, classification and that every value is finite
func (c *Case) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		ID             string         `yaml:"id"`
		Classification string         `yaml:"classification"`
		Features       model.Features `yaml:"features"`
	}
	raw.Features = model.DefaultFeatures()

	if err := node.Decode(&raw); err != nil {
		return err
	}

	classification := model.DefaultClassification
	if raw.Classification != "" {
		parsed, err := model.ParseClassification(raw.Classification)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		classification = parsed
	}

	lang, err := model.ParseLanguage(string(raw.Features.Language))
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	raw.Features.Language = lang

	if err := raw.Features.CheckFinite(); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}

	c.ID = raw.ID
	c.Classification = classification
	c.Features = raw.Features
	return nil
}

// CaseFile is the on-disk batch format
type CaseFile struct {
	Cases []Case `yaml:"cases"`
}

// JustifyJob justifies a single case
type JustifyJob struct {
	Index     int
	Case      Case
	Justifier Justifier
}

// Execute executes the job; exactly one service attempt is made
func (j *JustifyJob) Execute(ctx context.Context) Result {
	text, err := j.Justifier.Generate(ctx, j.Case.Features, j.Case.Classification)
	res := &CaseResult{
		Index:          j.Index,
		ID:             j.Case.ID,
		Classification: j.Case.Classification,
		Features:       j.Case.Features,
		Text:           text,
		Err:            err,
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

// CaseResult is the outcome of one case
type CaseResult struct {
	Index          int                  `yaml:"-"`
	ID             string               `yaml:"id"`
	Classification model.Classification `yaml:"classification"`
	Features       model.Features       `yaml:"features"`
	Text           string               `yaml:"justification,omitempty"`
	Error          string               `yaml:"error,omitempty"`
	Err            error                `yaml:"-"`
}

// GetError returns the error from the case result
func (r *CaseResult) GetError() error {
	return r.Err
}

// BatchProcessor justifies many cases concurrently
type BatchProcessor struct {
	justifier   Justifier
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(justifier Justifier, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		justifier:   justifier,
		concurrency: concurrency,
	}
}

// Process runs every case and returns results in input order.
// Cases that could not start before ctx ended are reported with ctx's error.
func (b *BatchProcessor) Process(ctx context.Context, cases []Case) []*CaseResult {
	if len(cases) == 0 {
		return []*CaseResult{}
	}

	// IDs are assigned on a copy; the caller's slice is left as given
	cases = append([]Case(nil), cases...)
	for i := range cases {
		if cases[i].ID == "" {
			cases[i].ID = uuid.NewString()
		}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	go func() {
		defer pool.Close()
		for i, c := range cases {
			if !pool.Submit(&JustifyJob{Index: i, Case: c, Justifier: b.justifier}) {
				return
			}
		}
	}()

	results := make([]*CaseResult, len(cases))
	for r := range pool.Results() {
		cr := r.(*CaseResult)
		results[cr.Index] = cr
	}

	for i, r := range results {
		if r != nil {
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = context.Canceled
		}
		results[i] = &CaseResult{
			Index:          i,
			ID:             cases[i].ID,
			Classification: cases[i].Classification,
			Features:       cases[i].Features,
			Error:          err.Error(),
			Err:            err,
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Index < results[j].Index })
	return results
}

// ProcessFile reads cases from a YAML file and processes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*CaseResult, error) {
	cases, err := ReadCasesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read cases: %w", err)
	}

	return b.Process(ctx, cases), nil
}

// ReadCasesFromFile reads a YAML case file
func ReadCasesFromFile(filePath string) ([]Case, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ReadCases(file)
}

// ReadCases decodes a YAML case document
func ReadCases(r io.Reader) ([]Case, error) {
	var cf CaseFile
	if err := yaml.NewDecoder(r).Decode(&cf); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode cases: %w", err)
	}
	return cf.Cases, nil
}

// WriteResults encodes results as a YAML document
func WriteResults(w io.Writer, results []*CaseResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(struct {
		Results []*CaseResult `yaml:"results"`
	}{results}); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return enc.Close()
}
