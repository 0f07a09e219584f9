package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventSource  = "assessment-authoring"
	EventVersion = "1.0"
)

// Event types
const (
	EventAssessmentCreated    = "assessment.created"
	EventAssessmentsBulkSaved = "assessment.bulk_saved"
	EventAssessmentsGenerated = "assessment.generated"
)

// Event is the envelope published for every lifecycle change
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent wraps data in an envelope with a fresh ID
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

type AssessmentCreatedData struct {
	AssessmentID uint   `json:"assessment_id"`
	ViewID       string `json:"view_id"`
	Type         string `json:"type"`
}

// BulkSavedData describes a bulk save. FailedIndex is set when the save
// stopped early; the IDs listed were persisted either way.
type BulkSavedData struct {
	ViewID        string `json:"view_id"`
	AssessmentIDs []uint `json:"assessment_ids"`
	Requested     int    `json:"requested"`
	FailedIndex   *int   `json:"failed_index,omitempty"`
}

type AssessmentsGeneratedData struct {
	ViewID string `json:"view_id"`
	Topic  string `json:"topic"`
	Count  int    `json:"count"`
}

// EventPublisher publishes lifecycle events
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}
