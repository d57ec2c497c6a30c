package dto

import (
	"time"

	"github.com/calvoclucas/app-mdw-2025/internal/entity"
)

// HistoryResponse reflects an order's latest recorded status.
type HistoryResponse struct {
	ID         int64     `json:"id"`
	OrderID    int64     `json:"order_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// FromHistory maps persisted history entries.
func FromHistory(entries []entity.HistoryEntry) []HistoryResponse {
	out := make([]HistoryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, HistoryResponse{
			ID:         entry.ID,
			OrderID:    entry.OrderID,
			Status:     string(entry.Status),
			OccurredAt: entry.OccurredAt,
		})
	}
	return out
}
