package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"StockPulse/internal/market"
	"StockPulse/internal/predictor"
	"StockPulse/internal/store"
)

func TestRefreshAll_WarmsCache(t *testing.T) {
	logger := zap.NewNop()

	fallback := market.NewFallbackFetcher(nil, logger)
	fallback.Synth.Now = func() time.Time { return time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC) }

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "sched.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	engine := predictor.NewEngine(nil, st, logger)
	engine.Now = func() time.Time { return time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC) }

	symbols := []string{"AAPL", "TSLA"}
	s := New(context.Background(), fallback, engine, symbols, logger)
	s.RefreshAll()

	for _, symbol := range symbols {
		p, err := st.GetPrediction(symbol, "2024-01-15")
		if err != nil {
			t.Fatalf("get %s: %v", symbol, err)
		}
		if p == nil {
			t.Errorf("no cached prediction for %s after refresh", symbol)
			continue
		}
		if p.Confidence < 50 || p.Confidence > 95 {
			t.Errorf("%s confidence %.0f outside [50, 95]", symbol, p.Confidence)
		}
	}
}

func TestRegister_RejectsBadCron(t *testing.T) {
	s := New(context.Background(), market.NewFallbackFetcher(nil, zap.NewNop()),
		predictor.NewEngine(nil, store.NewNoopStore(), zap.NewNop()),
		nil, zap.NewNop())
	if err := s.Register("not a cron spec"); err == nil {
		t.Error("expected error for invalid cron spec")
	}
}
