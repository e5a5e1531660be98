package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/propdesk/maintenance-service/internal/domain"
	"github.com/propdesk/maintenance-service/internal/events"
	"github.com/propdesk/maintenance-service/internal/persistence"
	"github.com/propdesk/maintenance-service/internal/repository"
)

var (
	tenant      = domain.Actor{ID: "u1", Role: domain.RoleTenant}
	otherTenant = domain.Actor{ID: "u9", Role: domain.RoleTenant}
	staffActor  = domain.Actor{ID: "staff-2", Role: domain.RoleStaff}
	manager     = domain.Actor{ID: "m1", Role: domain.RoleManager}
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type flakyStore struct {
	mu   sync.Mutex
	data map[string][]byte
	fail bool
	// failSave, when set, decides per write whether to fail it.
	failSave func(key string) bool
}

func (f *flakyStore) Load(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payload, ok := f.data[key]
	if !ok {
		return nil, persistence.ErrSnapshotNotFound
	}
	return payload, nil
}

func (f *flakyStore) Save(_ context.Context, key string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail || (f.failSave != nil && f.failSave(key)) {
		return context.DeadlineExceeded
	}
	if f.data == nil {
		f.data = map[string][]byte{}
	}
	f.data[key] = payload
	return nil
}

type harness struct {
	clock         *testClock
	dispatcher    events.Dispatcher
	store         *flakyStore
	tickets       *TicketService
	assignments   *AssignmentService
	notifications *NotificationService
}

type harnessOption func(*TicketDependencies)

func strictMode(deps *TicketDependencies) { deps.Strict = true }

func defaultStaff() []domain.Staff {
	return []domain.Staff{
		{ID: "staff-2", Name: "Sam Rodriguez", Specialties: []domain.TicketCategory{domain.CategoryPlumbing, domain.CategoryElectrical}, Available: true},
		{ID: "staff-3", Name: "Jo Park", Specialties: []domain.TicketCategory{domain.CategoryPlumbing, domain.CategoryHVAC}, Available: true},
		{ID: "staff-4", Name: "Vic Ortiz", Specialties: []domain.TicketCategory{domain.CategoryPest}, Available: false},
	}
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	ctx := context.Background()

	h := &harness{
		clock:      newTestClock(),
		dispatcher: events.NewInMemoryDispatcher(),
		store:      &flakyStore{},
	}

	ticketRepo, err := repository.NewTicketRepository(ctx, h.store)
	require.NoError(t, err)
	notificationRepo, err := repository.NewNotificationRepository(ctx, h.store)
	require.NoError(t, err)

	deps := TicketDependencies{
		TicketRepo: ticketRepo,
		Dispatcher: h.dispatcher,
		Clock:      h.clock.Now,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	h.tickets = NewTicketService(deps)
	h.assignments = NewAssignmentService(AssignmentDependencies{
		Tickets:   h.tickets,
		StaffRepo: repository.NewStaffRepository(defaultStaff()),
		Clock:     h.clock.Now,
	})
	h.notifications = NewNotificationService(NotificationDependencies{
		Repo:       notificationRepo,
		Dispatcher: h.dispatcher,
		Clock:      h.clock.Now,
	})
	return h
}

func leakyFaucet() TicketCreateInput {
	unit := "101"
	return TicketCreateInput{
		Title:       "Leaky faucet",
		Description: "Kitchen sink leaking",
		Category:    domain.CategoryPlumbing,
		Priority:    domain.TicketPriorityMedium,
		CreatedBy:   "u1",
		PropertyID:  "p1",
		UnitNumber:  &unit,
	}
}

func (h *harness) createTicket(t *testing.T) domain.Ticket {
	t.Helper()
	ticket, err := h.tickets.Create(context.Background(), tenant, leakyFaucet())
	require.NoError(t, err)
	return ticket
}
