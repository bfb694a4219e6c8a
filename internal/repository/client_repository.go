package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ifinlabs/wealth-reporting-backend/internal/apperrors"
	"github.com/ifinlabs/wealth-reporting-backend/internal/model"
)

// ClientRepository provides data access methods for the crm table. Every
// import batch arrives keyed by external broker IDs, so reference
// resolution (broker ID to internal client ID) lives here.
type ClientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new ClientRepository with the provided database connection.
func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// ResolveBrokerIDs maps the given broker IDs to internal client IDs.
// Returns only the broker IDs that exist; callers decide whether a missing
// ID is an error. Duplicate broker IDs in the input are harmless.
func (r *ClientRepository) ResolveBrokerIDs(brokerIDs []string) (map[string]string, error) {
	if len(brokerIDs) == 0 {
		return map[string]string{}, nil
	}

	placeholders := make([]string, len(brokerIDs))
	args := make([]any, len(brokerIDs))
	for i, id := range brokerIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := `
		SELECT broker_id, id
		FROM crm
		WHERE broker_id IN (` + strings.Join(placeholders, ",") + `)
	`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query crm table: %w", err)
	}
	defer rows.Close()

	resolved := make(map[string]string)
	for rows.Next() {
		var brokerID, clientID string
		if err := rows.Scan(&brokerID, &clientID); err != nil {
			return nil, fmt.Errorf("failed to scan crm table results: %w", err)
		}
		resolved[brokerID] = clientID
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating crm table: %w", err)
	}

	return resolved, nil
}

// ResolveBrokerID maps a single broker ID to its internal client ID.
// Returns apperrors.ErrClientNotFound when the broker ID does not exist.
func (r *ClientRepository) ResolveBrokerID(brokerID string) (string, error) {
	var clientID string
	err := r.db.QueryRow(`SELECT id FROM crm WHERE broker_id = ?`, brokerID).Scan(&clientID)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: broker ID %s", apperrors.ErrClientNotFound, brokerID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query crm table: %w", err)
	}
	return clientID, nil
}

// GetClient retrieves a single CRM record by internal client ID.
func (r *ClientRepository) GetClient(clientID string) (model.Client, error) {
	query := `
		SELECT id, broker_id, client_name, phone_no, email, address,
		       account_open_date, account_type, account_status
		FROM crm
		WHERE id = ?
	`

	var c model.Client
	var phone, email, address, accType, accStatus, openDate sql.NullString
	err := r.db.QueryRow(query, clientID).Scan(
		&c.ID,
		&c.BrokerID,
		&c.ClientName,
		&phone,
		&email,
		&address,
		&openDate,
		&accType,
		&accStatus,
	)
	if err == sql.ErrNoRows {
		return model.Client{}, fmt.Errorf("%w: %s", apperrors.ErrClientNotFound, clientID)
	}
	if err != nil {
		return model.Client{}, fmt.Errorf("failed to scan crm table results: %w", err)
	}

	c.PhoneNo = phone.String
	c.Email = email.String
	c.Address = address.String
	c.AccountType = accType.String
	c.AccountStatus = accStatus.String
	if openDate.Valid && openDate.String != "" {
		c.AccountOpenDate, err = ParseTime(openDate.String)
		if err != nil {
			return model.Client{}, fmt.Errorf("failed to parse account open date: %w", err)
		}
	}

	return c, nil
}

// GetAccountOpenDate returns the client's account-open date. A zero time
// means the CRM record exists but has no date recorded.
func (r *ClientRepository) GetAccountOpenDate(clientID string) (time.Time, error) {
	var openDate sql.NullString
	err := r.db.QueryRow(`SELECT account_open_date FROM crm WHERE id = ?`, clientID).Scan(&openDate)
	if err == sql.ErrNoRows {
		return time.Time{}, fmt.Errorf("%w: %s", apperrors.ErrClientNotFound, clientID)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to query crm table: %w", err)
	}
	if !openDate.Valid || openDate.String == "" {
		return time.Time{}, nil
	}
	return ParseTime(openDate.String)
}

// ListClients returns the reduced client listing used by the admin account
// selector.
func (r *ClientRepository) ListClients() ([]model.ClientListing, error) {
	rows, err := r.db.Query(`SELECT id, broker_id, client_name FROM crm ORDER BY client_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query crm table: %w", err)
	}
	defer rows.Close()

	listings := []model.ClientListing{}
	for rows.Next() {
		var l model.ClientListing
		if err := rows.Scan(&l.ID, &l.BrokerID, &l.ClientName); err != nil {
			return nil, fmt.Errorf("failed to scan crm table results: %w", err)
		}
		listings = append(listings, l)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating crm table: %w", err)
	}

	return listings, nil
}

// CreateClients inserts a batch of CRM records and returns how many were
// actually inserted. Rows whose broker ID already exists are skipped rather
// than rejected, matching the import-and-reimport workflow of the CSV intake.
func (r *ClientRepository) CreateClients(clients []model.Client) (int, error) {
	query := `
		INSERT OR IGNORE INTO crm
			(id, broker_id, client_name, phone_no, email, address, account_open_date, account_type, account_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	inserted := 0
	for _, c := range clients {
		var openDate any
		if !c.AccountOpenDate.IsZero() {
			openDate = FormatDate(c.AccountOpenDate)
		}
		res, err := r.db.Exec(query,
			c.ID,
			c.BrokerID,
			c.ClientName,
			c.PhoneNo,
			c.Email,
			c.Address,
			openDate,
			c.AccountType,
			c.AccountStatus,
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert crm record: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("failed to count inserted crm records: %w", err)
		}
		inserted += int(n)
	}

	return inserted, nil
}
