package domain

import "time"

// TicketNote is an append-only annotation on a ticket. Private notes are
// visible to staff and managers only.
type TicketNote struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticketId"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	Text      string    `json:"text"`
	IsPrivate bool      `json:"isPrivate"`
}
