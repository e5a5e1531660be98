package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/propdesk/maintenance-service/internal/domain"
	"github.com/propdesk/maintenance-service/internal/events"
	"github.com/propdesk/maintenance-service/internal/observability"
	"github.com/propdesk/maintenance-service/internal/projection"
	"github.com/propdesk/maintenance-service/internal/repository"
	apperrors "github.com/propdesk/maintenance-service/pkg/util/errorutil"
)

const notePreviewLength = 120

// TicketService owns the ticket collection, its status state machine and
// the note sub-ledger.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	now        func() time.Time
	strict     bool
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	// Clock defaults to time.Now.
	Clock func() time.Time
	// Strict enforces the guarded status graph instead of the permissive table.
	Strict bool
}

// TicketCreateInput describes ticket creation payload. CreatedBy defaults to
// the acting user; only managers and the system may file on behalf of someone else.
type TicketCreateInput struct {
	Title       string
	Description string
	Category    domain.TicketCategory
	Priority    domain.TicketPriority
	CreatedBy   string
	PropertyID  string
	UnitNumber  *string
	Images      []string
}

// TicketPatch carries the content fields update may change. Nil fields are
// left untouched.
type TicketPatch struct {
	Title       *string
	Description *string
	Category    *domain.TicketCategory
	Priority    *domain.TicketPriority
	PropertyID  *string
	UnitNumber  *string
	Images      *[]string
	Cost        *float64
}

// NoteInput describes a note to append.
type NoteInput struct {
	Text      string
	IsPrivate bool
	// CreatedBy is honored for the system actor only.
	CreatedBy string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		metrics:    deps.Metrics,
		now:        clock,
		strict:     deps.Strict,
	}
}

// Strict reports whether the guarded status graph is enforced.
func (s *TicketService) Strict() bool {
	return s.strict
}

// Create files a new ticket in status new.
func (s *TicketService) Create(ctx context.Context, actor domain.Actor, input TicketCreateInput) (domain.Ticket, error) {
	if err := authorize(actor, "create tickets", domain.RoleTenant, domain.RoleStaff, domain.RoleManager); err != nil {
		return domain.Ticket{}, err
	}

	createdBy := actor.ID
	if input.CreatedBy != "" && input.CreatedBy != actor.ID {
		if !actor.Is(domain.RoleManager) {
			return domain.Ticket{}, apperrors.NewForbidden("cannot file tickets on behalf of another user", nil)
		}
		createdBy = input.CreatedBy
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.PropertyID = strings.TrimSpace(input.PropertyID)
	if err := validateCreate(input); err != nil {
		return domain.Ticket{}, err
	}

	now := s.now()
	ticket := domain.Ticket{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      domain.TicketStatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatedBy:   createdBy,
		PropertyID:  input.PropertyID,
		UnitNumber:  normalizeOptional(input.UnitNumber),
		Images:      append([]string(nil), input.Images...),
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return domain.Ticket{}, s.repoError(err, ticket.ID)
	}

	s.recordMutation("create", ticket)
	s.metrics.RecordTicketStatus(string(ticket.Status))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketCreatedPayload{
			Title:      ticket.Title,
			Category:   ticket.Category,
			Priority:   ticket.Priority,
			PropertyID: ticket.PropertyID,
		},
	})
	return withVisibleNotes(ticket, actor), nil
}

// Get returns a ticket with notes filtered for the actor. Tenants may only
// read their own tickets.
func (s *TicketService) Get(actor domain.Actor, ticketID string) (domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ticketID)
	if err != nil {
		return domain.Ticket{}, s.repoError(err, ticketID)
	}
	if actor.Role == domain.RoleTenant && ticket.CreatedBy != actor.ID {
		return domain.Ticket{}, apperrors.NewForbidden("ticket belongs to another tenant", map[string]any{"ticket_id": ticketID})
	}
	return withVisibleNotes(ticket, actor), nil
}

// GetTicket returns the stored ticket without any visibility filtering.
func (s *TicketService) GetTicket(ticketID string) (domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ticketID)
	if err != nil {
		return domain.Ticket{}, s.repoError(err, ticketID)
	}
	return ticket, nil
}

// List filters the tickets visible to the actor. Tenants are limited to the
// tickets they raised.
func (s *TicketService) List(actor domain.Actor, query projection.TicketQuery) ([]domain.Ticket, error) {
	if err := validateQuery(query); err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleTenant {
		query.CreatedBy = actor.ID
	}
	found := projection.Filter(s.tickets.List(), query)
	out := make([]domain.Ticket, 0, len(found))
	for _, t := range found {
		out = append(out, withVisibleNotes(t, actor))
	}
	return out, nil
}

// Snapshot returns the current collection. The result must be treated as read-only.
func (s *TicketService) Snapshot() []domain.Ticket {
	return s.tickets.List()
}

func (s *TicketService) TicketsByUser(userID string) []domain.Ticket {
	return projection.ByUser(s.tickets.List(), userID)
}

func (s *TicketService) TicketsByProperty(propertyID string) []domain.Ticket {
	return projection.ByProperty(s.tickets.List(), propertyID)
}

func (s *TicketService) TicketsByStatus(status domain.TicketStatus) []domain.Ticket {
	return projection.ByStatus(s.tickets.List(), status)
}

// Assign binds the ticket to a staff member and schedule and moves it to
// assigned. It is accepted from any prior status; assigning a completed
// ticket reopens it.
func (s *TicketService) Assign(ctx context.Context, actor domain.Actor, ticketID, staffID string, scheduledDate *time.Time) (domain.Ticket, error) {
	if err := authorize(actor, "assign tickets", domain.RoleManager); err != nil {
		return domain.Ticket{}, err
	}
	staffID = strings.TrimSpace(staffID)
	if staffID == "" {
		return domain.Ticket{}, apperrors.NewValidationError("staff id is required", nil)
	}

	var previous *string
	ticket, err := s.tickets.Update(ctx, ticketID, func(t *domain.Ticket) error {
		now := s.now()
		previous = t.AssignedTo
		t.AssignedTo = &staffID
		t.ScheduledDate = copyTime(scheduledDate)
		t.Status = domain.TicketStatusAssigned
		t.CompletedDate = nil
		touch(t, now)
		return nil
	})
	if err != nil {
		return domain.Ticket{}, s.repoError(err, ticketID)
	}

	s.recordMutation("assign", ticket)
	s.metrics.RecordTicketStatus(string(ticket.Status))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketAssignedPayload{
			StaffID:       staffID,
			PreviousStaff: previous,
			ScheduledDate: copyTime(ticket.ScheduledDate),
			Title:         ticket.Title,
		},
	})
	return ticket, nil
}

// ChangeStatus moves the ticket to status. completedDate is stamped on the
// first entry into resolved or closed and kept on terminal-to-terminal moves.
func (s *TicketService) ChangeStatus(ctx context.Context, actor domain.Actor, ticketID string, status domain.TicketStatus) (domain.Ticket, error) {
	if err := authorize(actor, "change ticket status", domain.RoleStaff, domain.RoleManager); err != nil {
		return domain.Ticket{}, err
	}
	if !status.Valid() {
		return domain.Ticket{}, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}

	var oldStatus domain.TicketStatus
	ticket, err := s.tickets.Update(ctx, ticketID, func(t *domain.Ticket) error {
		oldStatus = t.Status
		if s.strict && t.Status != status {
			if !isValidTransition(t.Status, status) {
				return apperrors.NewConflict("status transition not allowed", map[string]any{
					"from": t.Status,
					"to":   status,
				})
			}
			if status == domain.TicketStatusAssigned && t.AssignedTo == nil {
				return apperrors.NewConflict("ticket has no assignee; use assign", map[string]any{"ticket_id": t.ID})
			}
		}
		now := s.now()
		applyStatus(t, status, now)
		touch(t, now)
		return nil
	})
	if err != nil {
		return domain.Ticket{}, s.repoError(err, ticketID)
	}

	s.recordMutation("change_status", ticket)
	s.metrics.RecordTicketStatus(string(status))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: status,
			Title:     ticket.Title,
		},
	})
	return ticket, nil
}

// AddNote appends a note to the ticket. Tenants may only annotate their own
// tickets and never privately.
func (s *TicketService) AddNote(ctx context.Context, actor domain.Actor, ticketID string, input NoteInput) (domain.TicketNote, error) {
	if err := authorize(actor, "add notes", domain.RoleTenant, domain.RoleStaff, domain.RoleManager); err != nil {
		return domain.TicketNote{}, err
	}
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return domain.TicketNote{}, apperrors.NewValidationError("note text is required", nil)
	}
	if actor.Role == domain.RoleTenant && input.IsPrivate {
		return domain.TicketNote{}, apperrors.NewForbidden("tenants cannot add private notes", nil)
	}

	createdBy := actor.ID
	if actor.Role == domain.RoleSystem && input.CreatedBy != "" {
		createdBy = input.CreatedBy
	}

	var note domain.TicketNote
	ticket, err := s.tickets.Update(ctx, ticketID, func(t *domain.Ticket) error {
		if actor.Role == domain.RoleTenant && t.CreatedBy != actor.ID {
			return apperrors.NewForbidden("ticket belongs to another tenant", map[string]any{"ticket_id": t.ID})
		}
		now := s.now()
		note = domain.TicketNote{
			ID:        uuid.NewString(),
			TicketID:  t.ID,
			CreatedBy: createdBy,
			CreatedAt: now,
			Text:      text,
			IsPrivate: input.IsPrivate,
		}
		t.Notes = append(t.Notes, note)
		touch(t, now)
		return nil
	})
	if err != nil {
		return domain.TicketNote{}, s.repoError(err, ticketID)
	}

	s.recordMutation("add_note", ticket)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketNoteAdded,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketNoteAddedPayload{
			NoteID:      note.ID,
			IsPrivate:   note.IsPrivate,
			TextPreview: stringPreview(note.Text, notePreviewLength),
		},
	})
	return note, nil
}

// AddFeedback records the tenant's rating. The rating must be within 1..5.
func (s *TicketService) AddFeedback(ctx context.Context, actor domain.Actor, ticketID string, rating int, comment *string) (domain.Ticket, error) {
	if err := authorize(actor, "leave feedback", domain.RoleTenant, domain.RoleManager); err != nil {
		return domain.Ticket{}, err
	}
	if rating < domain.MinRating || rating > domain.MaxRating {
		return domain.Ticket{}, apperrors.NewValidationError("rating must be between 1 and 5", map[string]any{"rating": rating})
	}

	ticket, err := s.tickets.Update(ctx, ticketID, func(t *domain.Ticket) error {
		if actor.Role == domain.RoleTenant && t.CreatedBy != actor.ID {
			return apperrors.NewForbidden("only the requester can rate this ticket", map[string]any{"ticket_id": t.ID})
		}
		if s.strict && !t.Status.Completed() {
			return apperrors.NewConflict("feedback requires a resolved or closed ticket", map[string]any{"status": t.Status})
		}
		t.Feedback = &domain.Feedback{Rating: rating, Comment: normalizeOptional(comment)}
		touch(t, s.now())
		return nil
	})
	if err != nil {
		return domain.Ticket{}, s.repoError(err, ticketID)
	}

	s.recordMutation("add_feedback", ticket)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketFeedbackAdded,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload:  events.TicketFeedbackAddedPayload{Rating: rating, Title: ticket.Title},
	})
	return withVisibleNotes(ticket, actor), nil
}

// Update merges the patch into the ticket's content fields.
func (s *TicketService) Update(ctx context.Context, actor domain.Actor, ticketID string, patch TicketPatch) (domain.Ticket, error) {
	if err := authorize(actor, "update tickets", domain.RoleTenant, domain.RoleStaff, domain.RoleManager); err != nil {
		return domain.Ticket{}, err
	}
	if err := validatePatch(patch); err != nil {
		return domain.Ticket{}, err
	}

	var changed []string
	ticket, err := s.tickets.Update(ctx, ticketID, func(t *domain.Ticket) error {
		if actor.Role == domain.RoleTenant && t.CreatedBy != actor.ID {
			return apperrors.NewForbidden("ticket belongs to another tenant", map[string]any{"ticket_id": t.ID})
		}
		changed = applyPatch(t, patch)
		touch(t, s.now())
		return nil
	})
	if err != nil {
		return domain.Ticket{}, s.repoError(err, ticketID)
	}

	s.recordMutation("update", ticket)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload:  events.TicketUpdatedPayload{Fields: changed},
	})
	return withVisibleNotes(ticket, actor), nil
}

// Delete removes the ticket from the collection.
func (s *TicketService) Delete(ctx context.Context, actor domain.Actor, ticketID string) error {
	if err := authorize(actor, "delete tickets", domain.RoleManager); err != nil {
		return err
	}

	existing, err := s.tickets.GetByID(ticketID)
	if err != nil {
		return s.repoError(err, ticketID)
	}
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		return s.repoError(err, ticketID)
	}

	s.recordMutation("delete", existing)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticketID,
		Actor:    actor,
		Payload:  events.TicketDeletedPayload{Title: existing.Title},
	})
	return nil
}

// touch refreshes updatedAt without letting it go backwards.
func touch(t *domain.Ticket, now time.Time) {
	if now.After(t.UpdatedAt) {
		t.UpdatedAt = now
	}
}

func (s *TicketService) recordMutation(action string, ticket domain.Ticket) {
	s.metrics.RecordTicketMutation(action)
	s.logger.Debug("ticket mutated",
		zap.String("action", action),
		zap.String("ticket_id", ticket.ID),
		zap.String("status", string(ticket.Status)))
}

func (s *TicketService) repoError(err error, ticketID string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	case errors.Is(err, repository.ErrPersist):
		s.logger.Error("ticket snapshot not persisted", zap.String("ticket_id", ticketID), zap.Error(err))
		return apperrors.NewInternalError(err)
	}
	return err
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
	}
}

// applyStatus sets status and keeps the assignee and completion fields
// consistent with it.
func applyStatus(t *domain.Ticket, status domain.TicketStatus, now time.Time) {
	switch {
	case status == domain.TicketStatusNew:
		t.AssignedTo = nil
		t.ScheduledDate = nil
		t.CompletedDate = nil
	case status.Completed():
		if t.CompletedDate == nil {
			stamp := now
			t.CompletedDate = &stamp
		}
	default:
		t.CompletedDate = nil
	}
	t.Status = status
}

func applyPatch(t *domain.Ticket, patch TicketPatch) []string {
	var changed []string
	if patch.Title != nil {
		t.Title = strings.TrimSpace(*patch.Title)
		changed = append(changed, "title")
	}
	if patch.Description != nil {
		t.Description = strings.TrimSpace(*patch.Description)
		changed = append(changed, "description")
	}
	if patch.Category != nil {
		t.Category = *patch.Category
		changed = append(changed, "category")
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
		changed = append(changed, "priority")
	}
	if patch.PropertyID != nil {
		t.PropertyID = strings.TrimSpace(*patch.PropertyID)
		changed = append(changed, "propertyId")
	}
	if patch.UnitNumber != nil {
		t.UnitNumber = normalizeOptional(patch.UnitNumber)
		changed = append(changed, "unitNumber")
	}
	if patch.Images != nil {
		t.Images = append([]string(nil), (*patch.Images)...)
		changed = append(changed, "images")
	}
	if patch.Cost != nil {
		cost := *patch.Cost
		t.Cost = &cost
		changed = append(changed, "cost")
	}
	return changed
}

func withVisibleNotes(ticket domain.Ticket, actor domain.Actor) domain.Ticket {
	out := ticket.Clone()
	out.Notes = ticket.VisibleNotes(actor)
	return out
}

func authorize(actor domain.Actor, action string, roles ...domain.UserRole) error {
	if actor.ID == "" || !actor.Role.Valid() {
		return apperrors.NewUnauthorized("unknown actor")
	}
	if !actor.Is(roles...) {
		return apperrors.NewForbidden("role may not "+action, map[string]any{"role": actor.Role})
	}
	return nil
}

func normalizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// allowedTransitions is the guarded graph used when strict mode is on.
var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusNew:        {domain.TicketStatusAssigned},
	domain.TicketStatusAssigned:   {domain.TicketStatusInProgress},
	domain.TicketStatusInProgress: {domain.TicketStatusOnHold, domain.TicketStatusResolved},
	domain.TicketStatusOnHold:     {domain.TicketStatusInProgress, domain.TicketStatusResolved},
	domain.TicketStatusResolved:   {domain.TicketStatusClosed, domain.TicketStatusInProgress},
	domain.TicketStatusClosed:     {},
}

func isValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
