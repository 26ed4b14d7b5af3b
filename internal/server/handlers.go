package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"StockPulse/internal/calculator"
	"StockPulse/internal/market"
	"StockPulse/internal/model"
	"StockPulse/internal/predictor"
)

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	symbol := normalizeSymbol(chi.URLParam(r, "symbol"))
	if symbol == "" {
		s.writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	res, err := s.Fallback.Quote(r.Context(), symbol)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	symbol := normalizeSymbol(chi.URLParam(r, "symbol"))
	if symbol == "" {
		s.writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	res, err := s.Fallback.History(r.Context(), symbol, market.HistoryWindow)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, historyResponse{
		Symbol:    symbol,
		Points:    res.Points,
		Source:    res.Source,
		Technical: snapshotFromHistory(res.Points),
	})
}

type historyResponse struct {
	Symbol    string                   `json:"symbol"`
	Points    []model.HistoricalPoint  `json:"points"`
	Source    model.Source             `json:"source"`
	Technical *model.TechnicalSnapshot `json:"technical,omitempty"`
}

func snapshotFromHistory(points []model.HistoricalPoint) *model.TechnicalSnapshot {
	if len(points) == 0 {
		return nil
	}
	closes := model.Closes(points)
	snap := calculator.Snapshot(closes[len(closes)-1], closes)
	return &snap
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("symbols")
	if raw == "" {
		s.writeError(w, http.StatusBadRequest, "symbols is required")
		return
	}
	var symbols []string
	for _, sym := range strings.Split(raw, ",") {
		if sym = normalizeSymbol(sym); sym != "" {
			symbols = append(symbols, sym)
		}
	}
	quotes := s.fetchOverview(r.Context(), symbols)
	s.writeJSON(w, http.StatusOK, map[string][]model.Quote{"quotes": quotes})
}

// fetchOverview fans out one fetch per symbol and joins the results. A
// failed symbol is dropped from the batch; the rest still come back.
func (s *Server) fetchOverview(ctx context.Context, symbols []string) []model.Quote {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		quotes = make([]model.Quote, 0, len(symbols))
	)
	results := make([]*model.Quote, len(symbols))
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			q, err := s.Overview.FetchQuote(ctx, symbol)
			if err != nil {
				s.Logger.Warn("overview fetch dropped",
					zap.String("symbol", symbol), zap.Error(err))
				return
			}
			mu.Lock()
			results[i] = &q
			mu.Unlock()
		}(i, symbol)
	}
	wg.Wait()

	// Preserve request order for the dashboard cards.
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}
	return quotes
}

// predictRequest is the inbound prediction body. HistoricalData is optional;
// when absent the server fetches the 30-day window itself.
type predictRequest struct {
	Symbol         string                  `json:"symbol"`
	CurrentPrice   float64                 `json:"currentPrice"`
	HistoricalData []model.HistoricalPoint `json:"historicalData"`
}

type predictResponse struct {
	model.Prediction
	Cached bool         `json:"cached"`
	Source model.Source `json:"source,omitempty"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("decode request: %v", err))
		return
	}
	req.Symbol = normalizeSymbol(req.Symbol)
	if req.Symbol == "" {
		s.writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	in, source, err := s.buildPredictionInput(r.Context(), req)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	p, cached, err := s.Engine.Predict(r.Context(), in)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, predictResponse{Prediction: *p, Cached: cached, Source: source})
}

// buildPredictionInput completes the prediction input from request data,
// fetching whatever the caller didn't supply. The returned source is empty
// when the caller provided all data itself.
func (s *Server) buildPredictionInput(ctx context.Context, req predictRequest) (predictor.Input, model.Source, error) {
	var source model.Source
	points := req.HistoricalData
	if len(points) == 0 {
		res, err := s.Fallback.History(ctx, req.Symbol, market.HistoryWindow)
		if err != nil {
			return predictor.Input{}, "", fmt.Errorf("fetch history: %w", err)
		}
		points = res.Points
		source = res.Source
	}

	in := predictor.Input{
		Symbol:       req.Symbol,
		CurrentPrice: req.CurrentPrice,
		History:      model.Closes(points),
	}

	if in.CurrentPrice == 0 {
		res, err := s.Fallback.Quote(ctx, req.Symbol)
		if err != nil {
			return predictor.Input{}, "", fmt.Errorf("fetch quote: %w", err)
		}
		in.CurrentPrice = res.Quote.Price
		in.Quote = &res.Quote
		if source == "" || res.Source == model.SourceSynthetic {
			source = res.Source
		}
	}

	if len(in.History) > 0 {
		snap := calculator.Snapshot(in.CurrentPrice, in.History)
		in.Technical = &snap
	}
	return in, source, nil
}

// dataRequest is the action-dispatch body kept for dashboard compatibility.
type dataRequest struct {
	Action  string   `json:"action"`
	Symbol  string   `json:"symbol"`
	Symbols []string `json:"symbols"`
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	var req dataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("decode request: %v", err))
		return
	}

	switch req.Action {
	case "quote":
		symbol := normalizeSymbol(req.Symbol)
		if symbol == "" {
			s.writeError(w, http.StatusBadRequest, "symbol is required")
			return
		}
		res, err := s.Fallback.Quote(r.Context(), symbol)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, res)
	case "historical":
		symbol := normalizeSymbol(req.Symbol)
		if symbol == "" {
			s.writeError(w, http.StatusBadRequest, "symbol is required")
			return
		}
		res, err := s.Fallback.History(r.Context(), symbol, market.HistoryWindow)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, historyResponse{
			Symbol:    symbol,
			Points:    res.Points,
			Source:    res.Source,
			Technical: snapshotFromHistory(res.Points),
		})
	case "overview":
		var symbols []string
		for _, sym := range req.Symbols {
			if sym = normalizeSymbol(sym); sym != "" {
				symbols = append(symbols, sym)
			}
		}
		if len(symbols) == 0 {
			s.writeError(w, http.StatusBadRequest, "symbols is required")
			return
		}
		quotes := s.fetchOverview(r.Context(), symbols)
		s.writeJSON(w, http.StatusOK, map[string][]model.Quote{"quotes": quotes})
	default:
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown action %q", req.Action))
	}
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
