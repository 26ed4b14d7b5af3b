package store

import "StockPulse/internal/model"

// NoopStore is used when no database path is configured. Every read misses.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) GetPrediction(_, _ string) (*model.Prediction, error) { return nil, nil }
func (n *NoopStore) UpsertPrediction(_ *model.Prediction) error           { return nil }
func (n *NoopStore) Close() error                                         { return nil }
