// Package warehouse executes trusted SQL against the shared warehouse and
// maps the driver's column/row data into the result model.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/microsoft/go-mssqldb"

	"datadeck/config"
	"datadeck/models"
)

type Service struct {
	db           *sql.DB
	maxRows      int
	queryTimeout time.Duration
	log          *slog.Logger

	mu            sync.Mutex
	activeQueries map[string]context.CancelFunc
}

func New(cfg config.WarehouseConfig, maxRows int, queryTimeout time.Duration, log *slog.Logger) (*Service, error) {
	if cfg.Server == "" || cfg.Database == "" {
		return nil, fmt.Errorf("warehouse configuration is incomplete")
	}

	db, err := sql.Open("sqlserver", buildConnectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		// The application still starts if the warehouse is temporarily
		// unreachable; queries will fail visibly until it recovers.
		log.Warn("failed to ping warehouse during initialization", "error", err)
	}

	return &Service{
		db:            db,
		maxRows:       maxRows,
		queryTimeout:  queryTimeout,
		log:           log,
		activeQueries: make(map[string]context.CancelFunc),
	}, nil
}

func buildConnectionString(cfg config.WarehouseConfig) string {
	connStr := fmt.Sprintf("server=%s;port=%s;database=%s", cfg.Server, cfg.Port, cfg.Database)

	if cfg.UserID != "" {
		connStr += fmt.Sprintf(";user id=%s;password=%s", cfg.UserID, cfg.Password)
	} else {
		connStr += ";trusted_connection=true"
	}

	if cfg.Encrypt {
		// TLS without CA verification so internal certs work.
		connStr += ";encrypt=true;TrustServerCertificate=true"
	} else {
		connStr += ";encrypt=false"
	}

	return connStr
}

func (s *Service) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ExecuteQuery runs the query with the configured timeout and returns the
// results, truncated to maxRows. Truncated is set when the row count
// reached the maximum.
func (s *Service) ExecuteQuery(ctx context.Context, query string) (*models.QueryResults, error) {
	if s.db == nil {
		return nil, fmt.Errorf("warehouse connection is not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	start := time.Now()
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var resultRows [][]interface{}
	truncated := false

	for rows.Next() {
		if len(resultRows) >= s.maxRows {
			truncated = true
			break
		}

		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		row := make([]interface{}, len(columns))
		for i, val := range values {
			if val == nil {
				row[i] = nil
			} else {
				// Stringify driver-specific types for JSON serialization.
				row[i] = fmt.Sprintf("%v", val)
			}
		}
		resultRows = append(resultRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(resultRows) >= s.maxRows {
		truncated = true
	}

	s.log.Info("query executed",
		"rows", len(resultRows),
		"truncated", truncated,
		"duration_ms", time.Since(start).Milliseconds())

	return &models.QueryResults{
		Columns:   columns,
		Rows:      resultRows,
		RowCount:  len(resultRows),
		Truncated: truncated,
	}, nil
}

// RegisterQuery tracks an in-flight query so a future cancellation
// mechanism can reach it. The cancel endpoint is a placeholder; nothing
// guarantees a registered query is cancellable yet.
func (s *Service) RegisterQuery(queryID string, cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeQueries[queryID] = cancel
}

func (s *Service) UnregisterQuery(queryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.activeQueries, queryID)
}

// CancelQuery cancels a registered query. Returns false when the query is
// unknown or already finished.
func (s *Service) CancelQuery(queryID string) bool {
	s.mu.Lock()
	cancel, ok := s.activeQueries[queryID]
	if ok {
		delete(s.activeQueries, queryID)
	}
	s.mu.Unlock()

	if !ok {
		return false
	}
	cancel()
	s.log.Info("query cancelled", "query_id", queryID)
	return true
}

func (s *Service) IsConnected() bool {
	if s.db == nil {
		return false
	}
	return s.db.Ping() == nil
}
