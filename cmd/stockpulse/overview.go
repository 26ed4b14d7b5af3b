package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"StockPulse/internal/model"
)

func overviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview <symbol>...",
		Short: "Print current quotes for a set of symbols",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			// Fan out one fetch per symbol; drop failures from the table.
			results := make([]*model.Quote, len(args))
			var wg sync.WaitGroup
			for i, arg := range args {
				wg.Add(1)
				go func(i int, symbol string) {
					defer wg.Done()
					q, err := app.overview.FetchQuote(ctx, symbol)
					if err != nil {
						app.logger.Warn("overview fetch dropped",
							zap.String("symbol", symbol), zap.Error(err))
						return
					}
					results[i] = &q
				}(i, strings.ToUpper(arg))
			}
			wg.Wait()

			fmt.Printf("%-8s %10s %10s %8s\n", "SYMBOL", "PRICE", "CHANGE", "CHG%")
			for _, q := range results {
				if q == nil {
					continue
				}
				fmt.Printf("%-8s %10.2f %+10.2f %+7.2f%%\n",
					q.Symbol, q.Price, q.Change, q.ChangePercent)
			}
			return nil
		},
	}
}
