package repository

import (
	"github.com/propdesk/maintenance-service/internal/domain"
)

// StaffRepository is the read-only staff directory.
type StaffRepository interface {
	List() []domain.Staff
	GetByID(id string) (domain.Staff, error)
	// Eligible returns available staff covering the category, in roster order.
	Eligible(category domain.TicketCategory) []domain.Staff
}

type staffRepository struct {
	staff []domain.Staff
}

// NewStaffRepository instantiates the directory from a roster.
func NewStaffRepository(staff []domain.Staff) StaffRepository {
	return &staffRepository{staff: append([]domain.Staff(nil), staff...)}
}

func (r *staffRepository) List() []domain.Staff {
	return append([]domain.Staff(nil), r.staff...)
}

func (r *staffRepository) GetByID(id string) (domain.Staff, error) {
	for _, s := range r.staff {
		if s.ID == id {
			return s, nil
		}
	}
	return domain.Staff{}, ErrNotFound
}

func (r *staffRepository) Eligible(category domain.TicketCategory) []domain.Staff {
	eligible := make([]domain.Staff, 0, len(r.staff))
	for _, s := range r.staff {
		if s.EligibleFor(category) {
			eligible = append(eligible, s)
		}
	}
	return eligible
}
