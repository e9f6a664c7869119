package replay

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// PayAgreement is one row of the legacy payment ledger. Amount columns are
// kept as raw strings; parsing happens per row inside the pipeline so a
// malformed amount fails only its own row.
type PayAgreement struct {
	ID                  string
	Role                string
	OwnerID             string
	PeerID              string
	TotalAmountDue      string
	TotalAmountAccepted string
	TotalAmountPaid     string
	UpdatedTs           *time.Time
}

// Source reads historical agreement rows from a legacy payment database.
// The database is opened read-only and immutable; the source never writes.
type Source struct {
	db   *sql.DB
	path string
}

// OpenSource opens the legacy payment database at the given path.
func OpenSource(path string) (*Source, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&immutable=1", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open legacy payment database %s; %s", path, err.Error())
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open legacy payment database %s; %s", path, err.Error())
	}
	return &Source{db: db, path: path}, nil
}

// Rows reads the full set of legacy agreement rows up front.
func (s *Source) Rows(ctx context.Context) ([]*PayAgreement, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, role, owner_id, peer_id,
			total_amount_due, total_amount_accepted, total_amount_paid,
			updated_ts
		FROM pay_agreement`)
	if err != nil {
		return nil, fmt.Errorf("failed to read pay_agreement rows from %s; %s", s.path, err.Error())
	}
	defer rows.Close()

	agreements := make([]*PayAgreement, 0)
	for rows.Next() {
		agreement := &PayAgreement{}
		var updatedTs sql.NullTime
		if err := rows.Scan(
			&agreement.ID, &agreement.Role, &agreement.OwnerID, &agreement.PeerID,
			&agreement.TotalAmountDue, &agreement.TotalAmountAccepted, &agreement.TotalAmountPaid,
			&updatedTs,
		); err != nil {
			return nil, err
		}
		if updatedTs.Valid {
			ts := updatedTs.Time
			agreement.UpdatedTs = &ts
		}
		agreements = append(agreements, agreement)
	}
	return agreements, rows.Err()
}

// Close releases the underlying database handle.
func (s *Source) Close() error {
	return s.db.Close()
}
