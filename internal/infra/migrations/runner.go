package migrations

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

var (
	// ErrInit возвращается, если не удалось подготовить мигратор
	ErrInit = errors.New("migrations: failed to init migrator")

	// ErrApply возвращается при ошибке применения миграций
	ErrApply = errors.New("migrations: failed to apply")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Runner применяет встроенные SQL-миграции к PostgreSQL
type Runner struct {
	m      *migrate.Migrate
	logger Logger
}

// NewRunner создает мигратор поверх открытого соединения и файловой системы с миграциями
func NewRunner(db *sql.DB, source fs.FS, logger Logger) (*Runner, error) {
	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("%w: db driver: %v", ErrInit, err)
	}

	srcDriver, err := iofs.New(source, ".")
	if err != nil {
		return nil, fmt.Errorf("%w: source driver: %v", ErrInit, err)
	}

	m, err := migrate.NewWithInstance("iofs", srcDriver, "postgres", dbDriver)
	if err != nil {
		return nil, fmt.Errorf("%w: create migrator: %v", ErrInit, err)
	}

	return &Runner{m: m, logger: logger}, nil
}

// Up применяет все новые миграции
func (r *Runner) Up() error {
	if err := r.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			r.logger.Info("Migrations: schema is up to date")
			return nil
		}
		return fmt.Errorf("%w: up: %v", ErrApply, err)
	}
	r.logVersion()
	return nil
}

// Down откатывает последнюю миграцию
func (r *Runner) Down() error {
	if err := r.m.Steps(-1); err != nil {
		return fmt.Errorf("%w: down: %v", ErrApply, err)
	}
	r.logVersion()
	return nil
}

// Force выставляет версию схемы без применения миграций
func (r *Runner) Force(version int) error {
	if err := r.m.Force(version); err != nil {
		return fmt.Errorf("%w: force %d: %v", ErrApply, version, err)
	}
	r.logger.Warn("Migrations: forced version to %d", version)
	return nil
}

// Close освобождает ресурсы мигратора
func (r *Runner) Close() error {
	srcErr, dbErr := r.m.Close()
	return errors.Join(srcErr, dbErr)
}

func (r *Runner) logVersion() {
	version, dirty, err := r.m.Version()
	if err != nil {
		r.logger.Warn("Migrations: failed to read version: %v", err)
		return
	}
	r.logger.Info("Migrations: schema version=%d dirty=%t", version, dirty)
}
