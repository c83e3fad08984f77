// Package store persists application records, notes, discrepancies, and
// deployment steps in a local SQLite database. One Store handle is opened at
// command start and closed at command end; a file-level advisory lock
// serializes whole processes, so concurrent invocations fail fast instead of
// corrupting the database.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/gofrs/flock"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/repkit/appreg/pkg/fingerprint"
)

var (
	// ErrApplicationNotFound indicates a referenced application name has no row.
	ErrApplicationNotFound = errors.New("application not found")
	// ErrStoreUnavailable indicates the store file could not be opened or locked.
	ErrStoreUnavailable = errors.New("metadata store unavailable")
	// ErrInvalidStatus indicates a status value outside the known lifecycle set.
	ErrInvalidStatus = errors.New("invalid status")
)

// Store wraps the SQLite database holding all application metadata.
type Store struct {
	db   *gorm.DB
	lock *flock.Flock
}

// Open creates (if needed) and opens the store at path, taking an exclusive
// advisory lock beside it. A store already locked by another process returns
// ErrStoreUnavailable rather than blocking.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create %s: %v", ErrStoreUnavailable, dir, err)
		}
	}

	lock := flock.New(path + ".lock")
	held, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("%w: lock %s: %v", ErrStoreUnavailable, lock.Path(), err)
	}
	if !held {
		return nil, fmt.Errorf("%w: %s is locked by another process", ErrStoreUnavailable, path)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("%w: open %s: %v", ErrStoreUnavailable, path, err)
	}
	if err := db.AutoMigrate(&Application{}, &Note{}, &Discrepancy{}, &DeploymentStep{}); err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("%w: migrate %s: %v", ErrStoreUnavailable, path, err)
	}

	return &Store{db: db, lock: lock}, nil
}

// openDB wraps an already-open database, for tests running against :memory:.
func openDB(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Application{}, &Note{}, &Discrepancy{}, &DeploymentStep{}); err != nil {
		return nil, fmt.Errorf("%w: migrate: %v", ErrStoreUnavailable, err)
	}
	return &Store{db: db}, nil
}

// Close flushes the database and releases the advisory lock.
func (s *Store) Close() error {
	var errs []error
	if sqlDB, err := s.db.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	}
	if s.lock != nil {
		errs = append(errs, s.lock.Unlock())
	}
	return errors.Join(errs...)
}

// UpsertApplication creates a row for name if none exists, or refreshes the
// stored path if one does. Status, version, and hash are untouched on update.
// It returns the resulting row and whether it was newly created.
func (s *Store) UpsertApplication(name, path string) (*Application, bool, error) {
	var app Application
	created := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("name = ?", name).First(&app).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			app = Application{Name: name, Path: path, Status: StatusNew, Version: 1}
			created = true
			return tx.Create(&app).Error
		case err != nil:
			return err
		}
		if app.Path != path {
			app.Path = path
			return tx.Model(&app).Update("path", path).Error
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("upsert application %q: %w", name, err)
	}
	return &app, created, nil
}

// GetApplication returns the row for name.
func (s *Store) GetApplication(name string) (*Application, error) {
	var app Application
	if err := s.db.Where("name = ?", name).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrApplicationNotFound, name)
		}
		return nil, fmt.Errorf("get application %q: %w", name, err)
	}
	return &app, nil
}

// ListApplications returns all rows ordered by name.
func (s *Store) ListApplications() ([]Application, error) {
	var apps []Application
	if err := s.db.Order("name ASC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// RecordAnalysis persists the outcome of one analysis pass - hash, version,
// and status together - in a single transaction, so a failure leaves the row
// in its prior state.
func (s *Store) RecordAnalysis(name string, digest fingerprint.Digest, version int, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Application{}).Where("name = ?", name).Updates(map[string]any{
			"content_hash": digest.String(),
			"version":      version,
			"status":       status,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %q", ErrApplicationNotFound, name)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record analysis for %q: %w", name, err)
	}
	return nil
}

// SetStatus force-sets an application's status. Unknown values are rejected
// with ErrInvalidStatus before touching the row.
func (s *Store) SetStatus(name string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q (valid: %v)", ErrInvalidStatus, status, Statuses())
	}
	res := s.db.Model(&Application{}).Where("name = ?", name).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("set status for %q: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %q", ErrApplicationNotFound, name)
	}
	return nil
}

// RecordPackage persists the outcome of one packaging run - hash, version,
// artifact path, and the packaged status - in a single transaction.
func (s *Store) RecordPackage(name string, digest fingerprint.Digest, version int, artifactPath string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Application{}).Where("name = ?", name).Updates(map[string]any{
			"content_hash":  digest.String(),
			"version":       version,
			"artifact_path": artifactPath,
			"status":        StatusPackaged,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %q", ErrApplicationNotFound, name)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record package for %q: %w", name, err)
	}
	return nil
}

// AppendNote adds a note to an application's append-only log.
func (s *Store) AppendNote(name, text string) (*Note, error) {
	app, err := s.GetApplication(name)
	if err != nil {
		return nil, err
	}
	note := Note{ApplicationID: app.ID, Text: text}
	if err := s.db.Create(&note).Error; err != nil {
		return nil, fmt.Errorf("append note for %q: %w", name, err)
	}
	return &note, nil
}

// ListNotes returns an application's notes in insertion order.
func (s *Store) ListNotes(name string) ([]Note, error) {
	app, err := s.GetApplication(name)
	if err != nil {
		return nil, err
	}
	var notes []Note
	if err := s.db.Where("application_id = ?", app.ID).Order("id ASC").Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("list notes for %q: %w", name, err)
	}
	return notes, nil
}

// AppendDiscrepancy adds one lint finding to an application's log.
func (s *Store) AppendDiscrepancy(name, kind, detail string) (*Discrepancy, error) {
	app, err := s.GetApplication(name)
	if err != nil {
		return nil, err
	}
	d := Discrepancy{ApplicationID: app.ID, Kind: kind, Detail: detail}
	if err := s.db.Create(&d).Error; err != nil {
		return nil, fmt.Errorf("append discrepancy for %q: %w", name, err)
	}
	return &d, nil
}

// ListDiscrepancies returns an application's discrepancies in insertion order.
func (s *Store) ListDiscrepancies(name string) ([]Discrepancy, error) {
	app, err := s.GetApplication(name)
	if err != nil {
		return nil, err
	}
	var ds []Discrepancy
	if err := s.db.Where("application_id = ?", app.ID).Order("id ASC").Find(&ds).Error; err != nil {
		return nil, fmt.Errorf("list discrepancies for %q: %w", name, err)
	}
	return ds, nil
}

// AppendDeploymentStep appends one step to an application's deployment
// checklist, assigning the next position.
func (s *Store) AppendDeploymentStep(name, text string) (*DeploymentStep, error) {
	app, err := s.GetApplication(name)
	if err != nil {
		return nil, err
	}
	var step *DeploymentStep
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var maxPos int
		if err := tx.Model(&DeploymentStep{}).
			Where("application_id = ?", app.ID).
			Select("COALESCE(MAX(position), 0)").Scan(&maxPos).Error; err != nil {
			return err
		}
		step = &DeploymentStep{ApplicationID: app.ID, Position: maxPos + 1, Text: text}
		return tx.Create(step).Error
	})
	if err != nil {
		return nil, fmt.Errorf("append deployment step for %q: %w", name, err)
	}
	return step, nil
}

// ListDeploymentSteps returns an application's checklist in position order.
func (s *Store) ListDeploymentSteps(name string) ([]DeploymentStep, error) {
	app, err := s.GetApplication(name)
	if err != nil {
		return nil, err
	}
	var steps []DeploymentStep
	if err := s.db.Where("application_id = ?", app.ID).Order("position ASC").Find(&steps).Error; err != nil {
		return nil, fmt.Errorf("list deployment steps for %q: %w", name, err)
	}
	return steps, nil
}
