package registry

import (
	"context"
	"database/sql"
	"time"

	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"

	"github.com/provideplatform/reputation/common"
	"github.com/provideplatform/reputation/status"
)

// Store owns the agreement status and agreement details tables. The
// database handle is provided explicitly by the caller; the store never
// resolves a connection on its own, so tests can hand it a double.
type Store struct {
	db *gorm.DB
}

// NewStore initializes a store around the given database handle.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// UpsertStatus inserts or replaces the status row for the given agreement
// key and reports whether agreement details exist for the key. The write
// and the existence check run in a single transaction so a racing detail
// registration never yields a result inconsistent with both before- and
// after-states. Amount ordering (confirmed <= accepted <= requested) is
// not validated.
func (s *Store) UpsertStatus(role status.Role, nodeID, agreementID string, st *status.Status) (bool, error) {
	tx := s.db.Begin()
	if tx.Error != nil {
		return false, tx.Error
	}

	result := tx.Exec(`INSERT INTO agreement_status (role_id, node_id, agreement_id, requested, accepted, confirmed, updated_ts, reported_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (role_id, node_id, agreement_id)
		DO UPDATE SET
			requested = excluded.requested,
			accepted = excluded.accepted,
			confirmed = excluded.confirmed,
			updated_ts = excluded.updated_ts,
			reported_ts = excluded.reported_ts`,
		role.Code(), nodeID, agreementID,
		st.Requested, st.Accepted, st.Confirmed,
		time.Now().UTC(), st.Ts,
	)
	if errs := result.GetErrors(); len(errs) > 0 {
		tx.Rollback()
		return false, errs[0]
	}

	var count int
	row := tx.Raw("SELECT count(1) FROM agreement_details WHERE role_id = ? AND node_id = ? AND agreement_id = ?",
		role.Code(), nodeID, agreementID).Row()
	if err := row.Scan(&count); err != nil {
		tx.Rollback()
		return false, err
	}

	if err := tx.Commit().Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpsertDetail inserts the details row for the given agreement key and
// reports whether a row was written. Duplicate registrations are ignored,
// not merged; the first write wins and the row is immutable thereafter.
func (s *Store) UpsertDetail(role status.Role, nodeID, agreementID string, detail *status.AgreementDetail) (bool, error) {
	result := s.db.Exec(`INSERT INTO agreement_details (role_id, node_id, agreement_id, peer_id, created_ts, valid_to, runtime, payment_platform, payment_address, subnet, task_package)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (role_id, node_id, agreement_id) DO NOTHING`,
		role.Code(), nodeID, agreementID,
		detail.PeerID, detail.CreatedTs, detail.ValidTo, detail.Runtime,
		detail.PaymentPlatform, detail.PaymentAddress, detail.Subnet, detail.TaskPackage,
	)
	if errs := result.GetErrors(); len(errs) > 0 {
		return false, errs[0]
	}
	return result.RowsAffected > 0, nil
}

// GetDetail resolves the details row for the given agreement key; a nil
// result without error means no detail has been registered.
func (s *Store) GetDetail(role status.Role, nodeID, agreementID string) (*status.AgreementDetail, error) {
	details := &AgreementDetails{}
	result := s.db.Where("role_id = ? AND node_id = ? AND agreement_id = ?",
		role.Code(), nodeID, agreementID).First(details)
	if result.RecordNotFound() {
		return nil, nil
	}
	if errs := result.GetErrors(); len(errs) > 0 {
		return nil, errs[0]
	}
	return details.Detail(), nil
}

// ListNodes returns the distinct node identifiers that have ever reported
// a status under the given role.
func (s *Store) ListNodes(role status.Role) ([]string, error) {
	rows, err := s.db.Raw("SELECT DISTINCT node_id FROM agreement_status WHERE role_id = ? ORDER BY node_id",
		role.Code()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	nodes := make([]string, 0)
	for rows.Next() {
		var nodeID string
		if err := rows.Scan(&nodeID); err != nil {
			return nil, err
		}
		nodes = append(nodes, nodeID)
	}
	return nodes, rows.Err()
}

// ListAgreements returns the agreements reported by the given node,
// ordered by agreement id. Left-join semantics: agreements with a status
// row but no details row still appear with an empty counterparty. A
// non-positive limit returns every agreement.
func (s *Store) ListAgreements(role status.Role, nodeID string, limit int) ([]*AgreementSummary, error) {
	query := `SELECT s.agreement_id, COALESCE(d.peer_id, '') AS peer_id, d.created_ts,
			s.requested, s.accepted, s.confirmed, s.reported_ts
		FROM agreement_status s
		LEFT JOIN agreement_details d
			ON d.role_id = s.role_id AND d.node_id = s.node_id AND d.agreement_id = s.agreement_id
		WHERE s.role_id = ? AND s.node_id = ?
		ORDER BY s.agreement_id`
	args := []interface{}{role.Code(), nodeID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Raw(query, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	agreements := make([]*AgreementSummary, 0)
	for rows.Next() {
		summary := &AgreementSummary{}
		var createdTs sql.NullTime
		if err := rows.Scan(
			&summary.AgreementID, &summary.PeerID, &createdTs,
			&summary.Status.Requested, &summary.Status.Accepted, &summary.Status.Confirmed,
			&summary.Status.Ts,
		); err != nil {
			return nil, err
		}
		if createdTs.Valid {
			ts := createdTs.Time
			summary.CreatedTs = &ts
		}
		agreements = append(agreements, summary)
	}
	return agreements, rows.Err()
}

// StandardScore delegates to the database-resident standard_score function
// and returns its aggregate for the given node; a nil score means the
// function had insufficient data.
func (s *Store) StandardScore(role status.Role, nodeID string) (*decimal.Decimal, error) {
	row := s.db.Raw("SELECT standard_score(?, ?)", role.Code(), nodeID).Row()

	var raw sql.NullString
	if err := row.Scan(&raw); err != nil {
		return nil, err
	}
	if !raw.Valid {
		return nil, nil
	}

	score, err := decimal.NewFromString(raw.String)
	if err != nil {
		return nil, err
	}
	return &score, nil
}

// Report records the given status and classifies the outcome; this is the
// protocol-level report operation shared by the HTTP handler and the
// replay pipeline's local mode. The context is accepted for signature
// parity with remote reporters; the underlying handle does not thread it.
func (s *Store) Report(ctx context.Context, role status.Role, nodeID, agreementID string, st *status.Status) (status.ReportResult, error) {
	haveAgreement, err := s.UpsertStatus(role, nodeID, agreementID, st)
	if err != nil {
		return status.ReportOK, err
	}

	if !haveAgreement {
		return status.ReportUnknownAgreement, nil
	}

	if common.DispatchNATSNotifications {
		dispatchStatusNotification(role, nodeID, agreementID)
	}
	return status.ReportOK, nil
}
