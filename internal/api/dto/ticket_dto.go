package dto

import (
	"time"

	"github.com/propdesk/maintenance-service/internal/domain"
)

// CreateTicketRequest payload. CreatedBy is honored for managers only.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    domain.TicketCategory `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
	PropertyID  string                `json:"propertyId"`
	UnitNumber  *string               `json:"unitNumber"`
	Images      []string              `json:"images"`
	CreatedBy   string                `json:"createdBy"`
}

// UpdateTicketRequest payload. Absent fields are left untouched.
type UpdateTicketRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Category    *domain.TicketCategory `json:"category"`
	Priority    *domain.TicketPriority `json:"priority"`
	PropertyID  *string                `json:"propertyId"`
	UnitNumber  *string                `json:"unitNumber"`
	Images      *[]string              `json:"images"`
	Cost        *float64               `json:"cost"`
}

// AssignTicketRequest payload for POST /tickets/:id/assign.
type AssignTicketRequest struct {
	StaffID       string    `json:"staffId"`
	ScheduledDate time.Time `json:"scheduledDate"`
}

// AutoAssignRequest payload for POST /tickets/:id/auto-assign.
type AutoAssignRequest struct {
	ScheduledDate time.Time `json:"scheduledDate"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// AddNoteRequest payload.
type AddNoteRequest struct {
	Text      string `json:"text"`
	IsPrivate bool   `json:"isPrivate"`
}

// FeedbackRequest payload.
type FeedbackRequest struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
}

// AssignTaskRequest payload for POST /tasks/assign.
type AssignTaskRequest struct {
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Category      domain.TicketCategory `json:"category"`
	Priority      domain.TicketPriority `json:"priority"`
	PropertyID    string                `json:"propertyId"`
	UnitNumber    *string               `json:"unitNumber"`
	StaffID       string                `json:"staffId"`
	ScheduledDate time.Time             `json:"scheduledDate"`
}

// CreateNotificationRequest payload.
type CreateNotificationRequest struct {
	Type    domain.NotificationType `json:"type"`
	Title   string                  `json:"title"`
	Message string                  `json:"message"`
}
