// Package controller drives the generate interaction: it snapshots the
// current inputs, calls the justification service and records the outcome.
package controller

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ppiankov/forensia/internal/model"
	"github.com/ppiankov/forensia/internal/state"
)

// Service produces a justification for a feature set and classification
type Service interface {
	Generate(ctx context.Context, f model.Features, c model.Classification) (string, error)
}

// Controller owns the Explanation of one session.
//
// Generate is not guarded against re-entry: overlapping calls each run to
// completion and whichever settles last overwrites the result.
type Controller struct {
	features *state.FeatureStore
	selector *state.Selector
	service  Service
	logger   *zap.Logger

	mu     sync.RWMutex
	result model.Explanation
	seq    uint64
}

// New creates a controller in the Idle state
func New(features *state.FeatureStore, selector *state.Selector, service Service, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		features: features,
		selector: selector,
		service:  service,
		logger:   logger,
	}
}

// Result returns the current explanation record
func (c *Controller) Result() model.Explanation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.result
}

// Generate enters Pending before returning, then calls the service in the
// background with the inputs as they were at call time. The returned
// channel yields the settled explanation once and is then closed.
//
// In-flight requests cannot be cancelled: cancellation of ctx is not
// propagated to the service call, only its values are.
func (c *Controller) Generate(ctx context.Context) <-chan model.Explanation {
	callCtx := context.WithoutCancel(ctx)
	features := c.features.Snapshot()
	classification := c.selector.Current()

	c.mu.Lock()
	c.seq++
	id := c.seq
	c.result = model.Explanation{Loading: true}
	c.mu.Unlock()

	c.logger.Debug("generate started",
		zap.Uint64("request", id),
		zap.String("classification", string(classification)),
		zap.String("language", string(features.Language)))

	done := make(chan model.Explanation, 1)
	go func() {
		defer close(done)

		text, err := c.service.Generate(callCtx, features, classification)

		var settled model.Explanation
		if err != nil {
			settled = model.Explanation{Error: err.Error()}
		} else {
			settled = model.Explanation{Text: text}
		}

		c.mu.Lock()
		c.result = settled
		c.mu.Unlock()

		c.logger.Debug("generate settled",
			zap.Uint64("request", id),
			zap.String("phase", string(settled.Phase())))

		done <- settled
	}()

	return done
}

// GenerateAndWait runs Generate and blocks until it settles or ctx ends.
// If ctx ends first the request keeps running and still updates the result.
func (c *Controller) GenerateAndWait(ctx context.Context) (model.Explanation, error) {
	done := c.Generate(ctx)
	select {
	case res := <-done:
		return res, nil
	case <-ctx.Done():
		return c.Result(), ctx.Err()
	}
}
