// Package service contains the request-level orchestration: the question
// answering pipeline and the conversational tool router.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"datadeck/cache"
	"datadeck/models"
)

// SQLGenerator is the NL-to-SQL capability.
type SQLGenerator interface {
	GenerateSQL(ctx context.Context, question string) (sql string, answer string, err error)
}

// QueryExecutor is the warehouse execution capability.
type QueryExecutor interface {
	ExecuteQuery(ctx context.Context, query string) (*models.QueryResults, error)
}

// GenieService drives the question-answering pipeline: cache lookup, SQL
// generation, execution, response assembly and cache write.
type GenieService struct {
	generator  SQLGenerator
	executor   QueryExecutor
	cache      *cache.ResultCache
	genTimeout time.Duration
	log        *slog.Logger
}

func NewGenieService(generator SQLGenerator, executor QueryExecutor, resultCache *cache.ResultCache, genTimeout time.Duration, log *slog.Logger) *GenieService {
	return &GenieService{
		generator:  generator,
		executor:   executor,
		cache:      resultCache,
		genTimeout: genTimeout,
		log:        log,
	}
}

// Ask answers a natural-language question. On a cache hit it returns the
// cached SQL, answer and results with cached=true and a freshly generated
// query identifier; identifiers are per-request, never per-content. Only
// SQL-generation and execution failures are returned as errors; AI
// enrichment happens downstream and never fails a request.
func (s *GenieService) Ask(ctx context.Context, question string, skipCache bool) (*models.GenieResponse, error) {
	queryID := uuid.New().String()
	start := time.Now()

	s.log.Info("question received", "query_id", queryID, "question", question)

	if !skipCache {
		if cached, ok := s.cache.Get(question); ok {
			s.log.Info("cache hit", "query_id", queryID)
			return &models.GenieResponse{
				Question:        question,
				SQL:             cached.SQL,
				GenieAnswer:     cached.GenieAnswer,
				Results:         cached.Results,
				ExecutionTimeMs: time.Since(start).Milliseconds(),
				QueryID:         queryID,
				Cached:          true,
			}, nil
		}
	}

	genCtx, cancel := context.WithTimeout(ctx, s.genTimeout)
	sqlQuery, genieAnswer, err := s.generator.GenerateSQL(genCtx, question)
	cancel()
	if err != nil {
		s.log.Error("SQL generation failed", "query_id", queryID, "error", err)
		return nil, &SQLGenerationError{
			Question: question,
			Answer:   truncateDiagnostic(genieAnswer),
			Err:      err,
		}
	}
	s.log.Info("SQL generated", "query_id", queryID, "sql_len", len(sqlQuery))

	results, err := s.executor.ExecuteQuery(ctx, sqlQuery)
	if err != nil {
		s.log.Error("query execution failed", "query_id", queryID, "error", err)
		return nil, &QueryExecutionError{Err: err}
	}
	s.log.Info("query executed", "query_id", queryID, "rows", results.RowCount, "truncated", results.Truncated)

	s.cache.Put(question, &cache.CachedAnswer{
		SQL:         sqlQuery,
		GenieAnswer: genieAnswer,
		Results:     results,
		CreatedAt:   time.Now(),
	})

	return &models.GenieResponse{
		Question:        question,
		SQL:             sqlQuery,
		GenieAnswer:     genieAnswer,
		Results:         results,
		ExecutionTimeMs: time.Since(start).Milliseconds(),
		QueryID:         queryID,
		Cached:          false,
	}, nil
}

// SuggestedQuestions returns the static starter questions.
func (s *GenieService) SuggestedQuestions() []models.SuggestedQuestion {
	return []models.SuggestedQuestion{
		{Question: "Show top 10 products by sales this quarter", Category: "Sales Analytics"},
		{Question: "What regions have declining sales trends?", Category: "Sales Analytics"},
		{Question: "Compare year-over-year performance for top categories", Category: "Sales Analytics"},
	}
}
