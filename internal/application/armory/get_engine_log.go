package armory

import (
	"context"
	"fmt"

	"github.com/andrescamacho/quartermaster-go/internal/application/common"
	"github.com/andrescamacho/quartermaster-go/internal/domain/shared"
)

// GetEngineLogQuery - Query for the capped engine log. Limit 0 returns the
// whole buffer, newest last.
type GetEngineLogQuery struct {
	Limit int
}

// GetEngineLogResponse - Response from get engine log query
type GetEngineLogResponse struct {
	Entries []shared.LogEntry
}

// GetEngineLogHandler - Handles get engine log queries
type GetEngineLogHandler struct {
	buffer *shared.LogBuffer
}

// NewGetEngineLogHandler creates a new get engine log handler
func NewGetEngineLogHandler(buffer *shared.LogBuffer) *GetEngineLogHandler {
	return &GetEngineLogHandler{buffer: buffer}
}

// Handle executes the get engine log query
func (h *GetEngineLogHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	q, ok := request.(*GetEngineLogQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	entries := h.buffer.Snapshot()
	if q.Limit > 0 && len(entries) > q.Limit {
		entries = entries[len(entries)-q.Limit:]
	}
	return &GetEngineLogResponse{Entries: entries}, nil
}
