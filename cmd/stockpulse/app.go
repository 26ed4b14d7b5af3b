package main

import (
	"fmt"

	"go.uber.org/zap"

	"StockPulse/internal/config"
	"StockPulse/internal/market"
	"StockPulse/internal/predictor"
	"StockPulse/internal/store"
)

// app holds the wired dependencies shared by all subcommands.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	fallback *market.FallbackFetcher
	overview market.Fetcher
	engine   *predictor.Engine
	store    store.Store
}

func newApp() (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	// Live provider only when a key is present; otherwise everything runs
	// on synthetic data.
	var live market.Fetcher
	if cfg.Market.APIKey != "" {
		live = market.NewLiveFetcher(cfg.Market.BaseURL, cfg.Market.APIKey, cfg.Proxy)
	} else {
		logger.Info("no market API key configured, serving synthetic data")
	}
	fallback := market.NewFallbackFetcher(live, logger)

	// Overview drops failed symbols instead of synthesizing them.
	var overview market.Fetcher = fallback.Synth
	if live != nil {
		overview = live
	}

	var st store.Store
	if cfg.Database.SQLitePath != "" {
		sq, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			logger.Warn("init sqlite store failed, predictions will not be cached", zap.Error(err))
			st = store.NewNoopStore()
		} else {
			st = sq
			logger.Info("sqlite store opened", zap.String("path", cfg.Database.SQLitePath))
		}
	} else {
		st = store.NewNoopStore()
	}

	var ai predictor.Predictor
	if cfg.AI.APIKey != "" {
		opts := []predictor.GeminiOption{predictor.WithModel(cfg.AI.Model)}
		if cfg.AI.BaseURL != "" {
			opts = append(opts, predictor.WithBaseURL(cfg.AI.BaseURL))
		}
		ai = predictor.NewGemini(cfg.AI.APIKey, opts...)
	} else {
		logger.Info("no AI key configured, using heuristic predictions")
	}
	engine := predictor.NewEngine(ai, st, logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		fallback: fallback,
		overview: overview,
		engine:   engine,
		store:    st,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("close store", zap.Error(err))
	}
	a.logger.Sync()
}
