package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/opsassist/internal/db"
	"github.com/alexanderramin/opsassist/internal/domain"
)

// SQLiteIntentTallyRepo implements IntentTallyRepo using a SQLite database.
type SQLiteIntentTallyRepo struct {
	db db.DBTX
}

// NewSQLiteIntentTallyRepo creates a new SQLiteIntentTallyRepo.
func NewSQLiteIntentTallyRepo(conn db.DBTX) *SQLiteIntentTallyRepo {
	return &SQLiteIntentTallyRepo{db: conn}
}

func (r *SQLiteIntentTallyRepo) Increment(ctx context.Context, intent string, at time.Time) error {
	query := `INSERT INTO intent_tallies (intent, total, last_seen) VALUES (?, 1, ?)
		ON CONFLICT(intent) DO UPDATE SET
			total = total + 1,
			last_seen = MAX(last_seen, excluded.last_seen)`
	if _, err := r.db.ExecContext(ctx, query, intent, formatTime(at)); err != nil {
		return fmt.Errorf("incrementing intent tally: %w", err)
	}
	return nil
}

// List returns tallies ordered by total, busiest intent first.
func (r *SQLiteIntentTallyRepo) List(ctx context.Context) ([]domain.IntentTally, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT intent, total, last_seen FROM intent_tallies
		ORDER BY total DESC, intent`)
	if err != nil {
		return nil, fmt.Errorf("listing intent tallies: %w", err)
	}
	defer rows.Close()

	var tallies []domain.IntentTally
	for rows.Next() {
		var t domain.IntentTally
		var lastSeen string
		if err := rows.Scan(&t.Intent, &t.Total, &lastSeen); err != nil {
			return nil, fmt.Errorf("scanning intent tally: %w", err)
		}
		if t.LastSeen, err = parseTime(lastSeen); err != nil {
			return nil, fmt.Errorf("parsing last_seen %q: %w", lastSeen, err)
		}
		tallies = append(tallies, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating intent tallies: %w", err)
	}
	return tallies, nil
}
