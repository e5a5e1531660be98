package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/propdesk/maintenance-service/internal/domain"
	"github.com/propdesk/maintenance-service/internal/projection"
	"github.com/propdesk/maintenance-service/internal/repository"
	apperrors "github.com/propdesk/maintenance-service/pkg/util/errorutil"
)

// AssignmentService selects staff for tickets and schedules the work.
type AssignmentService struct {
	tickets *TicketService
	staff   repository.StaffRepository
	logger  *zap.Logger
	now     func() time.Time
}

// AssignmentDependencies bundles collaborators.
type AssignmentDependencies struct {
	Tickets   *TicketService
	StaffRepo repository.StaffRepository
	Logger    *zap.Logger
	Clock     func() time.Time
}

// TaskInput describes an ad-hoc task a manager hands straight to staff.
// Category is optional and defaults to other.
type TaskInput struct {
	Title       string
	Description string
	Category    domain.TicketCategory
	Priority    domain.TicketPriority
	PropertyID  string
	UnitNumber  *string
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &AssignmentService{
		tickets: deps.Tickets,
		staff:   deps.StaffRepo,
		logger:  logger,
		now:     clock,
	}
}

// Staff returns the full directory.
func (s *AssignmentService) Staff() []domain.Staff {
	return s.staff.List()
}

// EligibleStaff returns available staff covering category. An empty
// category matches every available staff member.
func (s *AssignmentService) EligibleStaff(category domain.TicketCategory) ([]domain.Staff, error) {
	if err := validateCategory(category); err != nil {
		return nil, err
	}
	return s.staff.Eligible(category), nil
}

// EligibleForTicket returns the staff eligible for the ticket's category.
func (s *AssignmentService) EligibleForTicket(ticketID string) ([]domain.Staff, error) {
	ticket, err := s.tickets.GetTicket(ticketID)
	if err != nil {
		return nil, err
	}
	return s.staff.Eligible(ticket.Category), nil
}

// Suggest orders the eligible staff for a ticket by open workload, fewest
// first, ties broken by id.
func (s *AssignmentService) Suggest(ticketID string) ([]domain.Staff, error) {
	eligible, err := s.EligibleForTicket(ticketID)
	if err != nil {
		return nil, err
	}
	return projection.OrderByLoad(s.tickets.Snapshot(), eligible), nil
}

// Assign checks the staff member and schedule date, then assigns the ticket.
func (s *AssignmentService) Assign(ctx context.Context, actor domain.Actor, ticketID, staffID string, scheduledDate time.Time) (domain.Ticket, error) {
	if err := authorize(actor, "assign tickets", domain.RoleManager); err != nil {
		return domain.Ticket{}, err
	}
	ticket, err := s.tickets.GetTicket(ticketID)
	if err != nil {
		return domain.Ticket{}, err
	}
	if err := s.checkCandidate(staffID, ticket.Category, scheduledDate); err != nil {
		return domain.Ticket{}, err
	}

	assigned, err := s.tickets.Assign(ctx, actor, ticketID, staffID, &scheduledDate)
	if err != nil {
		return domain.Ticket{}, err
	}
	s.logger.Info("ticket assigned",
		zap.String("ticket_id", ticketID),
		zap.String("staff_id", staffID),
		zap.Time("scheduled_date", scheduledDate))
	return assigned, nil
}

// AssignTask files a ticket for an ad-hoc task and assigns it in one step.
func (s *AssignmentService) AssignTask(ctx context.Context, actor domain.Actor, task TaskInput, staffID string, scheduledDate time.Time) (domain.Ticket, error) {
	if err := authorize(actor, "assign tasks", domain.RoleManager); err != nil {
		return domain.Ticket{}, err
	}
	if err := validateCategory(task.Category); err != nil {
		return domain.Ticket{}, err
	}
	if err := s.checkCandidate(staffID, task.Category, scheduledDate); err != nil {
		return domain.Ticket{}, err
	}

	category := task.Category
	if category == "" {
		category = domain.CategoryOther
	}
	priority := task.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}

	ticket, err := s.tickets.Create(ctx, actor, TicketCreateInput{
		Title:       task.Title,
		Description: task.Description,
		Category:    category,
		Priority:    priority,
		PropertyID:  task.PropertyID,
		UnitNumber:  task.UnitNumber,
	})
	if err != nil {
		return domain.Ticket{}, err
	}

	assigned, err := s.tickets.Assign(ctx, actor, ticket.ID, staffID, &scheduledDate)
	if err != nil {
		// The task only exists as an assignment; drop the unassigned ticket.
		if delErr := s.tickets.Delete(ctx, domain.SystemActor, ticket.ID); delErr != nil {
			s.logger.Error("task created but not assigned", zap.String("ticket_id", ticket.ID), zap.Error(err), zap.NamedError("cleanup_error", delErr))
		} else {
			s.logger.Warn("task assignment failed, ticket removed", zap.String("ticket_id", ticket.ID), zap.Error(err))
		}
		return domain.Ticket{}, err
	}
	return assigned, nil
}

// AutoAssign assigns the ticket to the least loaded eligible staff member.
func (s *AssignmentService) AutoAssign(ctx context.Context, actor domain.Actor, ticketID string, scheduledDate time.Time) (domain.Ticket, error) {
	if err := authorize(actor, "assign tickets", domain.RoleManager); err != nil {
		return domain.Ticket{}, err
	}
	candidates, err := s.Suggest(ticketID)
	if err != nil {
		return domain.Ticket{}, err
	}
	if len(candidates) == 0 {
		return domain.Ticket{}, apperrors.NewConflict("no eligible staff available", map[string]any{"ticket_id": ticketID})
	}
	return s.Assign(ctx, actor, ticketID, candidates[0].ID, scheduledDate)
}

func (s *AssignmentService) checkCandidate(staffID string, category domain.TicketCategory, scheduledDate time.Time) error {
	staffID = strings.TrimSpace(staffID)
	if staffID == "" {
		return apperrors.NewValidationError("staff id is required", nil)
	}
	if scheduledDate.IsZero() {
		return apperrors.NewValidationError("scheduled date is required", nil)
	}
	if !scheduledDate.After(s.now()) {
		return apperrors.NewValidationError("scheduled date must be in the future", map[string]any{"scheduledDate": scheduledDate})
	}

	member, err := s.staff.GetByID(staffID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("staff", map[string]any{"staff_id": staffID})
		}
		return err
	}
	if !member.Available {
		return apperrors.NewConflict("staff member is unavailable", map[string]any{"staff_id": staffID})
	}
	if !member.EligibleFor(category) {
		return apperrors.NewConflict("staff member does not cover this category", map[string]any{
			"staff_id": staffID,
			"category": category,
		})
	}
	return nil
}
