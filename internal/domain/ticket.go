package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "new"
	TicketStatusAssigned   TicketStatus = "assigned"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusOnHold     TicketStatus = "on-hold"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketStatuses lists every status in workflow order.
var TicketStatuses = []TicketStatus{
	TicketStatusNew,
	TicketStatusAssigned,
	TicketStatusInProgress,
	TicketStatusOnHold,
	TicketStatusResolved,
	TicketStatusClosed,
}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	for _, candidate := range TicketStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Completed reports whether the status is resolved or closed.
func (s TicketStatus) Completed() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// Rank orders statuses along the workflow.
func (s TicketStatus) Rank() int {
	for i, candidate := range TicketStatuses {
		if candidate == s {
			return i
		}
	}
	return len(TicketStatuses)
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// TicketPriorities lists priorities from most to least urgent.
var TicketPriorities = []TicketPriority{
	TicketPriorityUrgent,
	TicketPriorityHigh,
	TicketPriorityMedium,
	TicketPriorityLow,
}

func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	default:
		return false
	}
}

// Rank is 0 for urgent and grows as urgency drops.
func (p TicketPriority) Rank() int {
	for i, candidate := range TicketPriorities {
		if candidate == p {
			return i
		}
	}
	return len(TicketPriorities)
}

// TicketCategory is the maintenance domain of an issue.
type TicketCategory string

const (
	CategoryPlumbing   TicketCategory = "plumbing"
	CategoryElectrical TicketCategory = "electrical"
	CategoryHVAC       TicketCategory = "hvac"
	CategoryAppliance  TicketCategory = "appliance"
	CategoryStructural TicketCategory = "structural"
	CategoryPest       TicketCategory = "pest"
	CategoryOther      TicketCategory = "other"
)

// TicketCategories lists every category.
var TicketCategories = []TicketCategory{
	CategoryPlumbing,
	CategoryElectrical,
	CategoryHVAC,
	CategoryAppliance,
	CategoryStructural,
	CategoryPest,
	CategoryOther,
}

func (c TicketCategory) Valid() bool {
	for _, candidate := range TicketCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// Feedback is the tenant's rating of completed work.
type Feedback struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment,omitempty"`
}

// MinRating and MaxRating bound Feedback.Rating.
const (
	MinRating = 1
	MaxRating = 5
)

// Ticket is a single maintenance service request.
type Ticket struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Category      TicketCategory `json:"category"`
	Priority      TicketPriority `json:"priority"`
	Status        TicketStatus   `json:"status"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	CreatedBy     string         `json:"createdBy"`
	AssignedTo    *string        `json:"assignedTo,omitempty"`
	PropertyID    string         `json:"propertyId"`
	UnitNumber    *string        `json:"unitNumber,omitempty"`
	Images        []string       `json:"images,omitempty"`
	ScheduledDate *time.Time     `json:"scheduledDate,omitempty"`
	CompletedDate *time.Time     `json:"completedDate,omitempty"`
	Feedback      *Feedback      `json:"feedback,omitempty"`
	Notes         []TicketNote   `json:"notes,omitempty"`
	Cost          *float64       `json:"cost,omitempty"`
}

// Clone returns a deep copy so snapshots never share mutable state.
func (t Ticket) Clone() Ticket {
	out := t
	if t.AssignedTo != nil {
		v := *t.AssignedTo
		out.AssignedTo = &v
	}
	if t.UnitNumber != nil {
		v := *t.UnitNumber
		out.UnitNumber = &v
	}
	if t.Images != nil {
		out.Images = append([]string(nil), t.Images...)
	}
	if t.ScheduledDate != nil {
		v := *t.ScheduledDate
		out.ScheduledDate = &v
	}
	if t.CompletedDate != nil {
		v := *t.CompletedDate
		out.CompletedDate = &v
	}
	if t.Feedback != nil {
		fb := *t.Feedback
		if t.Feedback.Comment != nil {
			c := *t.Feedback.Comment
			fb.Comment = &c
		}
		out.Feedback = &fb
	}
	if t.Notes != nil {
		out.Notes = append([]TicketNote(nil), t.Notes...)
	}
	if t.Cost != nil {
		v := *t.Cost
		out.Cost = &v
	}
	return out
}

// IsAssignedTo reports whether staffID is the current assignee.
func (t Ticket) IsAssignedTo(staffID string) bool {
	return t.AssignedTo != nil && *t.AssignedTo == staffID
}

// VisibleNotes returns the notes the actor may read. Private notes are
// hidden from tenants.
func (t Ticket) VisibleNotes(actor Actor) []TicketNote {
	if len(t.Notes) == 0 {
		return nil
	}
	if actor.Role != RoleTenant {
		return append([]TicketNote(nil), t.Notes...)
	}
	visible := make([]TicketNote, 0, len(t.Notes))
	for _, note := range t.Notes {
		if note.IsPrivate {
			continue
		}
		visible = append(visible, note)
	}
	return visible
}
