package agents

import (
	"context"
	"io"
	"log/slog"

	"datadeck/ai"
	"datadeck/models"
)

// scriptedCompleter replays a fixed sequence of completion outcomes and
// records every request it receives.
type scriptedCompleter struct {
	responses []*ai.CompletionResponse
	errs      []error
	requests  []ai.CompletionRequest
}

func (f *scriptedCompleter) Complete(_ context.Context, req ai.CompletionRequest) (*ai.CompletionResponse, error) {
	f.requests = append(f.requests, req)
	i := len(f.requests) - 1
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	var resp *ai.CompletionResponse
	if i < len(f.responses) {
		resp = f.responses[i]
	}
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = &ai.CompletionResponse{}
	}
	return resp, nil
}

// panickingCompleter escapes the agent's own error handling entirely.
type panickingCompleter struct{}

func (panickingCompleter) Complete(context.Context, ai.CompletionRequest) (*ai.CompletionResponse, error) {
	panic("completer exploded")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func salesResults() *models.QueryResults {
	return &models.QueryResults{
		Columns: []string{"region", "revenue"},
		Rows: [][]interface{}{
			{"West", "1200"},
			{"East", "950"},
			{"North", "430"},
		},
		RowCount: 3,
	}
}
