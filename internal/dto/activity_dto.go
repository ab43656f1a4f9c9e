package dto

import (
	"time"

	"github.com/medmap/admin-api/internal/models"
)

// ActivityListRequest narrows activity log reads.
type ActivityListRequest struct {
	AdminID string
	Limit   int
}

// ActivityResponse serializes an audit trail entry.
type ActivityResponse struct {
	ID        string                 `json:"id"`
	AdminID   string                 `json:"admin_id"`
	Action    string                 `json:"action"`
	Resource  string                 `json:"resource"`
	Status    string                 `json:"status"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
}

// NewActivityResponse maps an activity log row to its response shape.
func NewActivityResponse(entry models.ActivityLog) ActivityResponse {
	metadata := make(map[string]interface{}, len(entry.Metadata))
	for key, value := range entry.Metadata {
		metadata[key] = value
	}

	return ActivityResponse{
		ID:        entry.ID,
		AdminID:   entry.AdminID,
		Action:    entry.Action,
		Resource:  entry.Resource,
		Status:    entry.Status,
		Metadata:  metadata,
		CreatedAt: entry.CreatedAt,
	}
}
