package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"StockPulse/internal/calculator"
	"StockPulse/internal/market"
	"StockPulse/internal/model"
	"StockPulse/internal/predictor"
)

func predictCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "predict <symbol>",
		Short: "Print a next-day prediction for one symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
			defer cancel()

			symbol := strings.ToUpper(args[0])
			quote, err := app.fallback.Quote(ctx, symbol)
			if err != nil {
				return fmt.Errorf("fetch quote: %w", err)
			}
			history, err := app.fallback.History(ctx, symbol, market.HistoryWindow)
			if err != nil {
				return fmt.Errorf("fetch history: %w", err)
			}

			closes := model.Closes(history.Points)
			in := predictor.Input{
				Symbol:       symbol,
				CurrentPrice: quote.Quote.Price,
				History:      closes,
				Quote:        &quote.Quote,
			}
			if len(closes) > 0 {
				snap := calculator.Snapshot(quote.Quote.Price, closes)
				in.Technical = &snap
			}

			p, cached, err := app.engine.Predict(ctx, in)
			if err != nil {
				return fmt.Errorf("predict: %w", err)
			}

			out := struct {
				model.Prediction
				Cached bool         `json:"cached"`
				Source model.Source `json:"source"`
			}{Prediction: *p, Cached: cached, Source: history.Source}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
