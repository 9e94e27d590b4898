package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/scoutcamp/campo/internal/config"
	"github.com/scoutcamp/campo/internal/db"
	"github.com/scoutcamp/campo/internal/logger"
	"github.com/scoutcamp/campo/internal/repository"
	"github.com/scoutcamp/campo/internal/repository/dao"
	"github.com/scoutcamp/campo/internal/service"
)

// env is shared by every subcommand. The database is opened on first use so
// that file-only commands such as kml work without one.
type env struct {
	configPath string
	conf       *config.AppConfig
	conn       *gorm.DB
}

type services struct {
	camp         *service.CampService
	score        *service.ScoreService
	terrains     *service.TerrainService
	reservations *service.ReservationService
	users        *service.UserService
}

func newRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:           "campctl",
		Short:         "Offline tooling for the camp manager",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.Load(e.configPath)
			if err != nil {
				return fmt.Errorf("config.Load -> %w", err)
			}
			e.conf = conf

			if err = logger.Init(conf.API.Environment); err != nil {
				return fmt.Errorf("logger.Init -> %w", err)
			}

			return logger.SetLevel(conf.Log.Level)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			e.close()
		},
	}
	root.PersistentFlags().StringVar(&e.configPath, "config", "./cmd/app/config.yml", "configuration file")

	root.AddCommand(
		newImportCmd(e),
		newExportCmd(e),
		newKMLCmd(),
		newSeedUsersCmd(e),
		newGenReservationsCmd(e),
	)

	return root
}

func (e *env) db() (*gorm.DB, error) {
	if e.conn != nil {
		return e.conn, nil
	}

	var err error
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		e.conn, err = db.OpenPostgresWithURL(dbURL)
	} else {
		e.conn, err = db.Open(e.conf)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database -> %w", err)
	}

	return e.conn, nil
}

func (e *env) services() (*services, error) {
	conn, err := e.db()
	if err != nil {
		return nil, err
	}

	unitRepo := repository.NewUnitRepository(dao.NewUnitDAO(conn))
	terrainRepo := repository.NewTerrainRepository(dao.NewTerrainDAO(conn))

	return &services{
		camp: service.NewCampService(
			unitRepo,
			repository.NewPatrolRepository(dao.NewPatrolDAO(conn)),
			repository.NewChallengeRepository(dao.NewChallengeDAO(conn)),
			repository.NewCompletionRepository(dao.NewCompletionDAO(conn)),
		),
		score:    service.NewScoreService(repository.NewScoreRepository(conn)),
		terrains: service.NewTerrainService(terrainRepo),
		reservations: service.NewReservationService(
			repository.NewReservationRepository(conn),
			terrainRepo,
			e.conf.Camp.MaxReservationHours,
			e.conf.Camp.Location(),
		),
		users: service.NewUserService(repository.NewUserRepository(dao.NewUserDAO(conn)), unitRepo),
	}, nil
}

func (e *env) close() {
	if e.conn == nil {
		return
	}

	if sqlDB, err := e.conn.DB(); err == nil {
		if err = sqlDB.Close(); err != nil {
			zap.L().Warn("closing database", zap.Error(err))
		}
	}
	_ = zap.L().Sync()
}

// create opens path for writing, or returns stdout for "" and "-".
func create(path string, appendTo bool) (*os.File, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendTo {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("os.OpenFile -> %w", err)
	}

	return f, func() { _ = f.Close() }, nil
}
