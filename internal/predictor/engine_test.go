package predictor

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"StockPulse/internal/model"
)

// memStore is an in-memory Store for engine tests.
type memStore struct {
	rows map[string]model.Prediction
}

func newMemStore() *memStore { return &memStore{rows: make(map[string]model.Prediction)} }

func (m *memStore) GetPrediction(symbol, date string) (*model.Prediction, error) {
	if p, ok := m.rows[symbol+"|"+date]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) UpsertPrediction(p *model.Prediction) error {
	m.rows[p.Symbol+"|"+p.PredictionDate] = *p
	return nil
}

func (m *memStore) Close() error { return nil }

// stubPredictor counts calls and returns a fixed result or error.
type stubPredictor struct {
	calls  int
	result *model.Prediction
	err    error
}

func (s *stubPredictor) Name() string { return "stub" }

func (s *stubPredictor) Predict(_ context.Context, in Input) (*model.Prediction, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	p := *s.result
	p.Symbol = in.Symbol
	return &p, nil
}

func testEngine(ai Predictor, st *memStore) *Engine {
	e := NewEngine(ai, st, zap.NewNop())
	e.Now = func() time.Time { return time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC) }
	e.Heuristic = testHeuristic()
	return e
}

func TestEngine_HeuristicWhenNoAI(t *testing.T) {
	st := newMemStore()
	e := testEngine(nil, st)

	p, cached, err := e.Predict(context.Background(), Input{
		Symbol: "aapl", CurrentPrice: 110,
		History: []float64{100, 101, 102, 103, 104, 105, 106, 107, 108, 109},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached {
		t.Error("first prediction should not be cached")
	}
	if p.Symbol != "AAPL" {
		t.Errorf("symbol = %q, want normalized AAPL", p.Symbol)
	}
	if _, ok := st.rows["AAPL|2024-01-01"]; !ok {
		t.Error("prediction was not written to the cache")
	}
}

func TestEngine_SilentFallbackOnAIFailure(t *testing.T) {
	ai := &stubPredictor{err: errors.New("upstream exploded")}
	st := newMemStore()
	e := testEngine(ai, st)

	p, _, err := e.Predict(context.Background(), Input{
		Symbol: "TSLA", CurrentPrice: 250,
		History: []float64{240, 242, 244, 246, 248, 250},
	})
	if err != nil {
		t.Fatalf("AI failure must fall back, not surface: %v", err)
	}
	if ai.calls != 1 {
		t.Errorf("AI called %d times, want 1", ai.calls)
	}
	if p.Confidence < 50 || p.Confidence > 95 {
		t.Errorf("fallback confidence %.0f outside [50, 95]", p.Confidence)
	}
}

func TestEngine_UsesAIWhenAvailable(t *testing.T) {
	ai := &stubPredictor{result: &model.Prediction{
		CurrentPrice: 100, PredictedPrice: 123.4, Confidence: 88, Reasoning: "strong momentum",
	}}
	e := testEngine(ai, newMemStore())

	p, _, err := e.Predict(context.Background(), Input{Symbol: "NVDA", CurrentPrice: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PredictedPrice != 123.4 || p.Reasoning != "strong momentum" {
		t.Errorf("expected the AI result, got %+v", p)
	}
}

func TestEngine_CacheHitSkipsPredictors(t *testing.T) {
	ai := &stubPredictor{result: &model.Prediction{PredictedPrice: 1, Confidence: 50}}
	st := newMemStore()
	st.rows["MSFT|2024-01-01"] = model.Prediction{
		Symbol: "MSFT", CurrentPrice: 380, PredictedPrice: 385, Confidence: 72,
		PredictionDate: "2024-01-01",
	}
	e := testEngine(ai, st)

	p, cached, err := e.Predict(context.Background(), Input{Symbol: "MSFT", CurrentPrice: 381})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cached {
		t.Error("expected a cache hit")
	}
	if p.PredictedPrice != 385 {
		t.Errorf("predicted = %.2f, want cached 385", p.PredictedPrice)
	}
	if ai.calls != 0 {
		t.Errorf("AI called %d times on a cache hit, want 0", ai.calls)
	}
}
