package events

import (
	"time"

	"github.com/propdesk/maintenance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketNoteAdded     EventType = "ticket_note_added"
	EventTicketFeedbackAdded EventType = "ticket_feedback_added"
	EventTicketUpdated       EventType = "ticket_updated"
	EventTicketDeleted       EventType = "ticket_deleted"
)

// TicketEventTypes lists every ticket event.
var TicketEventTypes = []EventType{
	EventTicketCreated,
	EventTicketAssigned,
	EventTicketStatusChanged,
	EventTicketNoteAdded,
	EventTicketFeedbackAdded,
	EventTicketUpdated,
	EventTicketDeleted,
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string       `json:"id"`
	Type      EventType    `json:"type"`
	TicketID  string       `json:"ticket_id"`
	Actor     domain.Actor `json:"actor"`
	Timestamp time.Time    `json:"timestamp"`
	Payload   any          `json:"payload"`
}

type TicketCreatedPayload struct {
	Title      string                `json:"title"`
	Category   domain.TicketCategory `json:"category"`
	Priority   domain.TicketPriority `json:"priority"`
	PropertyID string                `json:"property_id"`
}

type TicketAssignedPayload struct {
	StaffID       string     `json:"staff_id"`
	PreviousStaff *string    `json:"previous_staff,omitempty"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	Title         string     `json:"title"`
}

type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Title     string              `json:"title"`
}

type TicketNoteAddedPayload struct {
	NoteID      string `json:"note_id"`
	IsPrivate   bool   `json:"is_private"`
	TextPreview string `json:"text_preview"`
}

type TicketFeedbackAddedPayload struct {
	Rating int    `json:"rating"`
	Title  string `json:"title"`
}

// TicketUpdatedPayload lists the content fields a patch changed.
type TicketUpdatedPayload struct {
	Fields []string `json:"fields"`
}

type TicketDeletedPayload struct {
	Title string `json:"title"`
}
