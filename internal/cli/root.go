// Package cli implements maintctl, a read-only operator view over a persisted
// ticket snapshot.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/propdesk/maintenance-service/internal/config"
	"github.com/propdesk/maintenance-service/internal/domain"
	"github.com/propdesk/maintenance-service/internal/persistence"
	"github.com/propdesk/maintenance-service/internal/repository"
	"github.com/propdesk/maintenance-service/internal/service"
)

type App struct {
	Backend       string
	SQLitePath    string
	RedisURL      string
	PostgresDSN   string
	DirectoryFile string
	PrettyJSON    bool

	// Now is the reference time for schedule based views.
	Now func() time.Time
}

// state is what a command reads: the ticket service over the persisted
// snapshot plus the staff directory.
type state struct {
	tickets     *service.TicketService
	assignments *service.AssignmentService
	backend     *persistence.Backend
}

func (s *state) Close() {
	s.backend.Close()
}

func NewRootCmd() *cobra.Command {
	app := &App{Now: time.Now}
	defaults, err := config.Load()
	if err != nil {
		defaults = &config.Config{SQLite: config.SQLiteConfig{Path: "maintenance.db"}}
	}
	backend := defaults.Store.Backend
	if backend == "" || backend == config.BackendMemory {
		backend = config.BackendSQLite
	}

	cmd := &cobra.Command{
		Use:          "maintctl",
		Short:        "Inspect persisted maintenance tickets",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  maintctl --backend sqlite --sqlite-path maintenance.db tickets list --status resolved
  maintctl stats
  maintctl staff eligible --category plumbing
`),
	}

	cmd.PersistentFlags().StringVar(&app.Backend, "backend", backend, "Snapshot backend (redis|postgres|sqlite)")
	cmd.PersistentFlags().StringVar(&app.SQLitePath, "sqlite-path", defaults.SQLite.Path, "SQLite snapshot file")
	cmd.PersistentFlags().StringVar(&app.RedisURL, "redis-url", defaults.Redis.URL, "Redis URL")
	cmd.PersistentFlags().StringVar(&app.PostgresDSN, "postgres-dsn", defaults.Postgres.DSN, "Postgres DSN")
	cmd.PersistentFlags().StringVar(&app.DirectoryFile, "directory", defaults.Directory.File, "YAML roster of staff and users")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newTicketsCmd(app, defaults))
	cmd.AddCommand(newStatsCmd(app, defaults))
	cmd.AddCommand(newStaffCmd(app, defaults))
	return cmd
}

func loadState(ctx context.Context, app *App, defaults *config.Config) (*state, error) {
	cfg := *defaults
	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(app.Backend))
	cfg.SQLite.Path = app.SQLitePath
	cfg.Redis.URL = app.RedisURL
	cfg.Postgres.DSN = app.PostgresDSN
	if cfg.Store.Backend == config.BackendMemory {
		return nil, errors.New("the memory backend keeps no snapshot; choose redis, postgres or sqlite")
	}

	logger := zap.NewNop()
	backend, err := persistence.Open(ctx, &cfg, logger)
	if err != nil {
		return nil, err
	}

	roster, err := repository.LoadRoster(app.DirectoryFile)
	if err != nil {
		backend.Close()
		return nil, err
	}
	ticketRepo, err := repository.NewTicketRepository(ctx, backend.Store)
	if err != nil {
		backend.Close()
		return nil, err
	}

	tickets := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Logger:     logger,
		Clock:      app.Now,
		Strict:     cfg.Workflow.Strict,
	})
	assignments := service.NewAssignmentService(service.AssignmentDependencies{
		Tickets:   tickets,
		StaffRepo: repository.NewStaffRepository(roster.Staff),
		Logger:    logger,
		Clock:     app.Now,
	})
	return &state{tickets: tickets, assignments: assignments, backend: backend}, nil
}

// operator reads with manager visibility so nothing is scoped away.
var operator = domain.Actor{ID: domain.SystemActor.ID, Role: domain.RoleManager}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	if app.PrettyJSON {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(map[string]any{"data": v})
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
