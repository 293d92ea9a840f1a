// Package storage keeps submitted applications in SQL.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/applybot/core/logger"
	"github.com/m3rciful/applybot/internal/submission"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("storage: application not found")

const (
	insertApplication = `INSERT INTO applications (
	region, last_name, first_name, callsign, telegram_contact, commander_contact,
	need_medicine, need_humanitarian_aid, need_equipment
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`

	selectApplication = `SELECT id, region, last_name, first_name, callsign, telegram_contact,
	commander_contact, need_medicine, need_humanitarian_aid, need_equipment
FROM applications WHERE id = ?`

	countApplications = `SELECT COUNT(*) FROM applications`
)

// ApplicationRepository stores records in the applications table.
// It works with any driver bound in sqlx; placeholders are rebound per call.
type ApplicationRepository struct {
	db *sqlx.DB
}

var _ submission.Saver = (*ApplicationRepository)(nil)

// NewApplicationRepository wraps an open pool.
func NewApplicationRepository(db *sqlx.DB) (*ApplicationRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	return &ApplicationRepository{db: db}, nil
}

// Save inserts r and returns the generated id. r.ID is ignored.
func (r *ApplicationRepository) Save(ctx context.Context, rec *submission.Record) (int64, error) {
	if rec == nil {
		return 0, errors.New("storage: nil record")
	}
	start := time.Now()
	var id int64
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(insertApplication),
		rec.Region, rec.LastName, rec.FirstName, rec.Callsign,
		rec.TelegramContact, rec.CommanderContact,
		rec.NeedMedicine, rec.NeedHumanitarianAid, rec.NeedEquipment,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert application: %w", err)
	}
	logger.Debug(ctx, logger.CompDB, "db.insert",
		slog.String("table", "applications"),
		slog.Int64("id", id),
		slog.Duration("took", logger.Took(start)),
	)
	return id, nil
}

// Get loads the application with the given id.
func (r *ApplicationRepository) Get(ctx context.Context, id int64) (*submission.Record, error) {
	var rec submission.Record
	if err := r.db.GetContext(ctx, &rec, r.db.Rebind(selectApplication), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get application %d: %w", id, err)
	}
	return &rec, nil
}

// Count returns the number of stored applications.
func (r *ApplicationRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, countApplications); err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return n, nil
}
