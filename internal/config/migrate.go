package config

import (
	"context"
	"embed"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/app/*.sql migrations/identity/*.sql
var migrations embed.FS

// Schema names one embedded migration set and the goose version table tracking it.
type Schema struct {
	Dir          string
	VersionTable string
}

var (
	AppSchema      = Schema{Dir: "migrations/app", VersionTable: "goose_app_version"}
	IdentitySchema = Schema{Dir: "migrations/identity", VersionTable: "goose_identity_version"}
)

// goose keeps dialect, base FS and table name in package state.
var gooseMu sync.Mutex

// Migrate applies every pending migration of schema to the database behind pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool, schema Schema) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetTableName(schema.VersionTable)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	connString := pool.Config().ConnConfig.ConnString()
	sqlDB, err := goose.OpenDBWithDriver("pgx", connString)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer sqlDB.Close()

	if err := goose.UpContext(ctx, sqlDB, schema.Dir); err != nil {
		return fmt.Errorf("failed to apply %s migrations: %w", schema.Dir, err)
	}
	return nil
}

type gooseLogger struct{}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	log.Fatal().Msgf(format, v...)
}

func (gooseLogger) Printf(format string, v ...interface{}) {
	log.Info().Str("component", "goose").Msgf(format, v...)
}
