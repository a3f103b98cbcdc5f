package cli

import (
	"database/sql"

	"github.com/spf13/cobra"

	"worktracker.service/internal/config"
	"worktracker.service/internal/core"
	"worktracker.service/internal/ports/messaging"
	"worktracker.service/internal/ports/repository"
	"worktracker.service/pkg/database"
)

// App holds the connection shared by the subcommands. It is opened on first use
// so commands that never touch the database work without one.
type App struct {
	cfg     config.Config
	db      *sql.DB
	dialect database.Dialect
}

func (a *App) open() error {
	if a.db != nil {
		return nil
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	db, dialect, err := database.OpenPlain(cfg)
	if err != nil {
		return err
	}
	a.cfg, a.db, a.dialect = cfg, db, dialect
	return nil
}

func (a *App) close() {
	if a.db != nil {
		a.db.Close()
		a.db = nil
	}
}

func (a *App) jobs() *core.JobService {
	return core.NewJobService(repository.NewJobRepository(a.db, a.dialect), nil)
}

func (a *App) attendance() (*core.AttendanceService, error) {
	loc, err := a.cfg.Location()
	if err != nil {
		return nil, err
	}
	return core.NewAttendanceService(repository.NewAttendanceRepository(a.db, a.dialect), messaging.NopProducer{}, nil, loc), nil
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "worktrackctl",
		Short:         "Household work tracker administration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.close()
		},
	}

	cmd.AddCommand(
		NewMigrateCmd(app),
		NewJobsCmd(app),
		NewAttendanceCmd(app),
		NewDurationCmd(),
	)
	return cmd
}
