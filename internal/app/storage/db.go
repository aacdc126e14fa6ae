package storage

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ilya-burinskiy/repairguides/internal/app/models"
)

type DBStorage struct {
	pool *pgxpool.Pool
}

func NewDBStorage(ctx context.Context, dsn string) (*DBStorage, error) {
	if err := runMigrations(dsn); err != nil {
		return nil, fmt.Errorf("failed to run DB migrations: %w", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create a connection pool: %w", err)
	}

	return &DBStorage{
		pool: pool,
	}, nil
}

func (db *DBStorage) Create(ctx context.Context, r models.RepairRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}

	_, err := db.pool.Exec(
		ctx,
		`INSERT INTO "repairs" ("id", "issue", "device", "guide_url", "difficulty", "time_required", "created_at")
		 VALUES (@id, @issue, @device, @guideURL, @difficulty, @timeRequired, @createdAt)`,
		pgx.NamedArgs{
			"id":           r.ID,
			"issue":        r.Issue,
			"device":       r.Device,
			"guideURL":     r.GuideURL,
			"difficulty":   r.Difficulty,
			"timeRequired": r.TimeRequired,
			"createdAt":    r.CreatedAt,
		},
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return fmt.Errorf("%w: %s", models.ErrInvalidRecord, pgErr.Message)
		}

		return fmt.Errorf("failed to save repair record: %w", err)
	}

	return nil
}

func (db *DBStorage) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

func (db *DBStorage) Close(ctx context.Context) error {
	db.pool.Close()
	return nil
}

//go:embed db/migrations/*.sql
var migrationsDir embed.FS

func runMigrations(dsn string) error {
	d, err := iofs.New(migrationsDir, "db/migrations")
	if err != nil {
		return fmt.Errorf("failed to return an iofs driver: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", d, dsn)
	if err != nil {
		return fmt.Errorf("failed to get a new migrate instance: %w", err)
	}

	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	return nil
}
