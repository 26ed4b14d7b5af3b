package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"StockPulse/internal/model"
)

// SQLiteStore persists predictions to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboard reads don't block scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS predictions (
			symbol          TEXT NOT NULL,
			prediction_date TEXT NOT NULL,
			current_price   REAL NOT NULL,
			predicted_price REAL NOT NULL,
			confidence      REAL NOT NULL,
			reasoning       TEXT,
			updated_at      INTEGER NOT NULL,
			PRIMARY KEY (symbol, prediction_date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_date ON predictions(prediction_date)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) GetPrediction(symbol, date string) (*model.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(`SELECT symbol, prediction_date, current_price, predicted_price, confidence, reasoning
		FROM predictions WHERE symbol = ? AND prediction_date = ?`,
		strings.ToUpper(symbol), date)

	var p model.Prediction
	var reasoning sql.NullString
	err := row.Scan(&p.Symbol, &p.PredictionDate, &p.CurrentPrice, &p.PredictedPrice, &p.Confidence, &reasoning)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query prediction: %w", err)
	}
	p.Reasoning = reasoning.String
	return &p, nil
}

func (s *SQLiteStore) UpsertPrediction(p *model.Prediction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO predictions
		(symbol, prediction_date, current_price, predicted_price, confidence, reasoning, updated_at)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(symbol, prediction_date) DO UPDATE SET
			current_price   = excluded.current_price,
			predicted_price = excluded.predicted_price,
			confidence      = excluded.confidence,
			reasoning       = excluded.reasoning,
			updated_at      = excluded.updated_at`,
		strings.ToUpper(p.Symbol), p.PredictionDate,
		p.CurrentPrice, p.PredictedPrice, p.Confidence, p.Reasoning,
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert prediction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
