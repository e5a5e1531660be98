package repository

import (
	"context"

	"github.com/propdesk/maintenance-service/internal/domain"
	"github.com/propdesk/maintenance-service/internal/persistence"
)

const ticketsSnapshotKey = "tickets"

// TicketRepository owns the canonical ticket collection.
type TicketRepository interface {
	// List returns the current snapshot in insertion order. Callers must not
	// modify the returned tickets.
	List() []domain.Ticket
	GetByID(id string) (domain.Ticket, error)
	Create(ctx context.Context, ticket domain.Ticket) error
	// Update applies fn to a private copy of the ticket and publishes it when
	// fn succeeds.
	Update(ctx context.Context, id string, fn func(ticket *domain.Ticket) error) (domain.Ticket, error)
	Delete(ctx context.Context, id string) error
}

type ticketRepository struct {
	tickets *snapshot[domain.Ticket]
}

// NewTicketRepository loads the ticket snapshot from store. A nil store keeps
// tickets in memory only.
func NewTicketRepository(ctx context.Context, store persistence.SnapshotStore) (TicketRepository, error) {
	tickets, err := newSnapshot[domain.Ticket](ctx, store, ticketsSnapshotKey)
	if err != nil {
		return nil, err
	}
	return &ticketRepository{tickets: tickets}, nil
}

func (r *ticketRepository) List() []domain.Ticket {
	return r.tickets.load()
}

func (r *ticketRepository) GetByID(id string) (domain.Ticket, error) {
	for _, ticket := range r.tickets.load() {
		if ticket.ID == id {
			return ticket.Clone(), nil
		}
	}
	return domain.Ticket{}, ErrNotFound
}

func (r *ticketRepository) Create(ctx context.Context, ticket domain.Ticket) error {
	return r.tickets.apply(ctx, func(current []domain.Ticket) ([]domain.Ticket, error) {
		next := make([]domain.Ticket, 0, len(current)+1)
		next = append(next, current...)
		return append(next, ticket.Clone()), nil
	})
}

func (r *ticketRepository) Update(ctx context.Context, id string, fn func(ticket *domain.Ticket) error) (domain.Ticket, error) {
	var updated domain.Ticket
	err := r.tickets.apply(ctx, func(current []domain.Ticket) ([]domain.Ticket, error) {
		idx := indexOfTicket(current, id)
		if idx < 0 {
			return nil, ErrNotFound
		}

		working := current[idx].Clone()
		if err := fn(&working); err != nil {
			return nil, err
		}

		next := make([]domain.Ticket, len(current))
		copy(next, current)
		next[idx] = working
		updated = working.Clone()
		return next, nil
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	return updated, nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	return r.tickets.apply(ctx, func(current []domain.Ticket) ([]domain.Ticket, error) {
		idx := indexOfTicket(current, id)
		if idx < 0 {
			return nil, ErrNotFound
		}
		next := make([]domain.Ticket, 0, len(current)-1)
		next = append(next, current[:idx]...)
		return append(next, current[idx+1:]...), nil
	})
}

func indexOfTicket(tickets []domain.Ticket, id string) int {
	for i := range tickets {
		if tickets[i].ID == id {
			return i
		}
	}
	return -1
}
