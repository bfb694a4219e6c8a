package repository

import (
	"database/sql"
	"fmt"

	"github.com/ifinlabs/wealth-reporting-backend/internal/apperrors"
	"github.com/ifinlabs/wealth-reporting-backend/internal/model"
)

// ScripRepository provides data access methods for the scrip reference-data
// table.
type ScripRepository struct {
	db *sql.DB
}

// NewScripRepository creates a new ScripRepository with the provided database connection.
func NewScripRepository(db *sql.DB) *ScripRepository {
	return &ScripRepository{db: db}
}

// scripKey identifies a scrip within one quote feed.
type scripKey struct {
	Scripcode string
	QuoteFeed model.QuoteFeed
}

// ResolveScrips maps (scripcode, quote feed) pairs to internal scrip IDs.
// Returns only the pairs that exist; callers decide whether a missing pair
// is an error.
func (r *ScripRepository) ResolveScrips(codes []string, feeds []model.QuoteFeed) (map[string]model.ScripRef, error) {
	resolved := make(map[string]model.ScripRef)
	seen := make(map[scripKey]bool)

	for i, code := range codes {
		key := scripKey{Scripcode: code, QuoteFeed: feeds[i]}
		if seen[key] {
			continue
		}
		seen[key] = true

		var id string
		err := r.db.QueryRow(
			`SELECT id FROM scrip WHERE scripcode = ? AND quote_feed = ?`,
			code, string(feeds[i]),
		).Scan(&id)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query scrip table: %w", err)
		}
		resolved[code+"|"+string(feeds[i])] = model.ScripRef{
			ID:        id,
			Scripcode: code,
			QuoteFeed: feeds[i],
		}
	}

	return resolved, nil
}

// InsertScrips inserts a batch of scrip reference rows and returns how many
// were actually inserted. Duplicate (scripcode, feed) pairs are skipped,
// matching the reimport workflow.
func (r *ScripRepository) InsertScrips(scrips []model.Scrip) (int, error) {
	query := `
		INSERT OR IGNORE INTO scrip (id, name, scripcode, exchange, exchange_type, quote_feed, cmp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	inserted := 0
	for _, s := range scrips {
		res, err := r.db.Exec(query, s.ID, s.Name, s.Scripcode, s.Exchange, s.ExchangeType, string(s.QuoteFeed), s.CMP)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert scrip: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("failed to count inserted scrips: %w", err)
		}
		inserted += int(n)
	}

	return inserted, nil
}

// ListByFeed returns all scrips quoted by the given feed.
func (r *ScripRepository) ListByFeed(feed model.QuoteFeed) ([]model.Scrip, error) {
	query := `
		SELECT id, name, scripcode, exchange, exchange_type, quote_feed, cmp
		FROM scrip
		WHERE quote_feed = ?
	`

	rows, err := r.db.Query(query, string(feed))
	if err != nil {
		return nil, fmt.Errorf("failed to query scrip table: %w", err)
	}
	defer rows.Close()

	scrips := []model.Scrip{}
	for rows.Next() {
		var s model.Scrip
		var feedStr string
		if err := rows.Scan(&s.ID, &s.Name, &s.Scripcode, &s.Exchange, &s.ExchangeType, &feedStr, &s.CMP); err != nil {
			return nil, fmt.Errorf("failed to scan scrip table results: %w", err)
		}
		s.QuoteFeed = model.QuoteFeed(feedStr)
		scrips = append(scrips, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scrip table: %w", err)
	}

	return scrips, nil
}

// UpdateCMP writes a new current market price for the scrip identified by
// (scripcode, feed). Returns apperrors.ErrScripNotFound if no row matched.
func (r *ScripRepository) UpdateCMP(scripcode string, feed model.QuoteFeed, cmp float64) error {
	result, err := r.db.Exec(
		`UPDATE scrip SET cmp = ? WHERE scripcode = ? AND quote_feed = ?`,
		cmp, scripcode, string(feed),
	)
	if err != nil {
		return fmt.Errorf("failed to update scrip cmp: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: scripcode %s (%s)", apperrors.ErrScripNotFound, scripcode, feed)
	}

	return nil
}
