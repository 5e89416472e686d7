package queue

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"doc-pager/internal/paginator"
)

// PaginatePayload asks the pager worker to split a document's text.
// A nil Config means the worker's defaults.
type PaginatePayload struct {
	DocumentID uuid.UUID         `json:"document_id"`
	Filename   string            `json:"filename"`
	Content    string            `json:"content"`
	Config     *paginator.Config `json:"config,omitempty"`
}

// SummarizePayload asks the analysis worker to summarise stored pages.
type SummarizePayload struct {
	DocumentID uuid.UUID `json:"document_id"`
	PageCount  int       `json:"page_count"`
}

// NewTask marshals payload into a task of the given type.
func NewTask(taskType TaskType, payload any) (Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Task{}, fmt.Errorf("marshal %s payload: %w", taskType, err)
	}
	return Task{Type: taskType, Payload: body}, nil
}
