package controller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ppiankov/forensia/internal/llm"
	"github.com/ppiankov/forensia/internal/model"
	"github.com/ppiankov/forensia/internal/state"
)

// The genai SDK, linked in through llm, starts an opencensus worker at init
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

type call struct {
	features       model.Features
	classification model.Classification
	reply          chan reply
}

type reply struct {
	text string
	err  error
}

// gatedService blocks every Generate until the test releases it
type gatedService struct {
	calls chan call
}

func newGatedService() *gatedService {
	return &gatedService{calls: make(chan call, 8)}
}

func (s *gatedService) Generate(ctx context.Context, f model.Features, c model.Classification) (string, error) {
	cl := call{features: f, classification: c, reply: make(chan reply, 1)}
	s.calls <- cl
	r := <-cl.reply
	return r.text, r.err
}

func (s *gatedService) next(t *testing.T) call {
	t.Helper()
	select {
	case cl := <-s.calls:
		return cl
	case <-time.After(2 * time.Second):
		t.Fatal("service was not called")
		return call{}
	}
}

func newController(svc Service) (*Controller, *state.FeatureStore, *state.Selector) {
	store := state.NewFeatureStore(model.DefaultFeatures())
	sel := state.NewSelector(model.DefaultClassification)
	return New(store, sel, svc, nil), store, sel
}

func TestController_InitialStateIsIdle(t *testing.T) {
	ctrl, _, _ := newController(newGatedService())

	res := ctrl.Result()
	assert.Equal(t, model.Explanation{}, res)
	assert.Equal(t, model.PhaseIdle, res.Phase())
	assert.Equal(t, model.DisplayPlaceholder, res.Display())
}

func TestController_GenerateEntersPendingSynchronously(t *testing.T) {
	svc := newGatedService()
	ctrl, _, _ := newController(svc)

	done := ctrl.Generate(context.Background())

	res := ctrl.Result()
	assert.True(t, res.Loading)
	assert.Empty(t, res.Text)
	assert.Empty(t, res.Error)
	assert.Equal(t, model.PhasePending, res.Phase())

	cl := svc.next(t)
	cl.reply <- reply{text: "done"}
	<-done
}

func TestController_Success(t *testing.T) {
	svc := newGatedService()
	ctrl, _, _ := newController(svc)

	done := ctrl.Generate(context.Background())
	svc.next(t).reply <- reply{text: "Pauses show low entropy consistent with natural speech."}

	settled := <-done
	want := model.Explanation{Text: "Pauses show low entropy consistent with natural speech."}
	assert.Equal(t, want, settled)
	assert.Equal(t, want, ctrl.Result())

	_, open := <-done
	assert.False(t, open, "result channel should be closed after settling")
}

func TestController_Failure(t *testing.T) {
	svc := newGatedService()
	ctrl, _, _ := newController(svc)

	done := ctrl.Generate(context.Background())
	svc.next(t).reply <- reply{err: &llm.ServiceError{Cause: errors.New("connection reset")}}

	settled := <-done
	want := model.Explanation{Error: "Failed to communicate with the forensics engine."}
	assert.Equal(t, want, settled)
	assert.Equal(t, model.DisplayError, ctrl.Result().Display())
}

func TestController_GenerateClearsPreviousOutcome(t *testing.T) {
	svc := newGatedService()
	ctrl, _, _ := newController(svc)

	done := ctrl.Generate(context.Background())
	svc.next(t).reply <- reply{err: &llm.ServiceError{}}
	<-done
	require.Equal(t, model.PhaseFailed, ctrl.Result().Phase())

	done = ctrl.Generate(context.Background())
	assert.Equal(t, model.Explanation{Loading: true}, ctrl.Result())

	svc.next(t).reply <- reply{text: "ok"}
	<-done
	assert.Equal(t, model.Explanation{Text: "ok"}, ctrl.Result())
}

func TestController_SnapshotTakenAtInvocation(t *testing.T) {
	svc := newGatedService()
	ctrl, store, sel := newController(svc)

	done := ctrl.Generate(context.Background())

	// Edits while pending do not reach the in-flight request
	store.Update(model.SetPauseEntropy(4.9))
	sel.Select(model.ClassificationAltered)

	cl := svc.next(t)
	assert.Equal(t, 1.25, cl.features.PauseEntropy)
	assert.Equal(t, model.ClassificationAuthentic, cl.classification)

	cl.reply <- reply{text: "ok"}
	<-done
}

func TestController_OverlappingCallsLastSettledWins(t *testing.T) {
	svc := newGatedService()
	ctrl, _, _ := newController(svc)

	first := ctrl.Generate(context.Background())
	firstCall := svc.next(t)

	second := ctrl.Generate(context.Background())
	secondCall := svc.next(t)

	// The second request settles first, then the first one overwrites it
	secondCall.reply <- reply{text: "second"}
	<-second
	assert.Equal(t, "second", ctrl.Result().Text)

	firstCall.reply <- reply{text: "first"}
	<-first
	assert.Equal(t, "first", ctrl.Result().Text)
}

func TestController_CancellationDoesNotAbortRequest(t *testing.T) {
	var (
		mu      sync.Mutex
		ctxErrs []error
	)
	svc := serviceFunc(func(ctx context.Context, f model.Features, c model.Classification) (string, error) {
		time.Sleep(20 * time.Millisecond)
		mu.Lock()
		ctxErrs = append(ctxErrs, ctx.Err())
		mu.Unlock()
		return "finished", nil
	})
	ctrl, _, _ := newController(svc)

	ctx, cancel := context.WithCancel(context.Background())
	done := ctrl.Generate(ctx)
	cancel()

	settled := <-done
	assert.Equal(t, "finished", settled.Text)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, ctxErrs, 1)
	assert.NoError(t, ctxErrs[0])
}

func TestController_GenerateAndWait(t *testing.T) {
	svc := serviceFunc(func(ctx context.Context, f model.Features, c model.Classification) (string, error) {
		return "sentence", nil
	})
	ctrl, _, _ := newController(svc)

	res, err := ctrl.GenerateAndWait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sentence", res.Text)
}

func TestController_GenerateAndWait_ContextEnds(t *testing.T) {
	svc := newGatedService()
	ctrl, _, _ := newController(svc)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	res, err := ctrl.GenerateAndWait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, res.Loading)

	// The request is still outstanding and settles later
	svc.next(t).reply <- reply{text: "late"}
	assert.Eventually(t, func() bool {
		return ctrl.Result().Text == "late"
	}, time.Second, 5*time.Millisecond)
}

type serviceFunc func(ctx context.Context, f model.Features, c model.Classification) (string, error)

func (f serviceFunc) Generate(ctx context.Context, feats model.Features, c model.Classification) (string, error) {
	return f(ctx, feats, c)
}
