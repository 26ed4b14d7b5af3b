package market

import (
	"context"
	"testing"
	"time"
)

func pinnedSynthetic() *SyntheticFetcher {
	return &SyntheticFetcher{
		Now: func() time.Time { return time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC) },
	}
}

func TestBasePrice_KnownSymbols(t *testing.T) {
	if got := BasePrice("AAPL"); got != 175 {
		t.Errorf("BasePrice(AAPL) = %.0f, want 175", got)
	}
	if got := BasePrice("aapl"); got != 175 {
		t.Errorf("BasePrice is not case-insensitive: got %.0f", got)
	}
}

func TestBasePrice_UnlistedSymbolRange(t *testing.T) {
	for _, symbol := range []string{"ZZZZ", "FOO", "UNKNOWN1", "X"} {
		got := BasePrice(symbol)
		if got < 100 || got >= 300 {
			t.Errorf("BasePrice(%s) = %.2f outside [100, 300)", symbol, got)
		}
		if again := BasePrice(symbol); again != got {
			t.Errorf("BasePrice(%s) is not stable: %.2f vs %.2f", symbol, got, again)
		}
	}
}

func TestSyntheticHistory_WindowAndOrder(t *testing.T) {
	f := pinnedSynthetic()

	points, err := f.FetchHistory(context.Background(), "AAPL", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 30 {
		t.Fatalf("len = %d, want 30", len(points))
	}
	for i := 1; i < len(points); i++ {
		if points[i].Timestamp <= points[i-1].Timestamp {
			t.Fatalf("series not chronological at index %d", i)
		}
	}
}

func TestSyntheticHistory_CapsAtThirtyDays(t *testing.T) {
	f := pinnedSynthetic()
	points, err := f.FetchHistory(context.Background(), "AAPL", 500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != HistoryWindow {
		t.Errorf("len = %d, want capped at %d", len(points), HistoryWindow)
	}
}

func TestSyntheticHistory_DailyMoveBounded(t *testing.T) {
	f := pinnedSynthetic()
	points, _ := f.FetchHistory(context.Background(), "NVDA", 30)
	for i := 1; i < len(points); i++ {
		move := points[i].Price/points[i-1].Price - 1
		if move > 0.02 || move < -0.02 {
			t.Errorf("daily move %.4f at index %d exceeds the 2%% walk", move, i)
		}
	}
}

func TestSynthetic_StableWithinDay(t *testing.T) {
	f := pinnedSynthetic()

	q1, _ := f.FetchQuote(context.Background(), "TSLA")
	q2, _ := f.FetchQuote(context.Background(), "TSLA")
	if q1 != q2 {
		t.Errorf("same-day synthetic quotes diverged: %+v vs %+v", q1, q2)
	}
}

func TestSyntheticQuote_NormalizesSymbol(t *testing.T) {
	f := pinnedSynthetic()
	q, err := f.FetchQuote(context.Background(), "tsla")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Symbol != "TSLA" {
		t.Errorf("symbol = %q, want TSLA", q.Symbol)
	}
	if q.Price <= 0 {
		t.Errorf("price = %.2f, want positive", q.Price)
	}
}
