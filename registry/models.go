package registry

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/provideplatform/reputation/status"
)

// AgreementStatus is the latest reported money-flow state for one
// agreement key; it is replaced in place on every report.
type AgreementStatus struct {
	RoleID      string `gorm:"column:role_id;primary_key"`
	NodeID      string `gorm:"column:node_id;primary_key"`
	AgreementID string `gorm:"column:agreement_id;primary_key"`

	Requested decimal.Decimal `gorm:"column:requested;type:DECIMAL(38,18)"`
	Accepted  decimal.Decimal `gorm:"column:accepted;type:DECIMAL(38,18)"`
	Confirmed decimal.Decimal `gorm:"column:confirmed;type:DECIMAL(38,18)"`

	UpdatedTs  time.Time `gorm:"column:updated_ts"`
	ReportedTs time.Time `gorm:"column:reported_ts"`
}

// TableName returns the agreement status table name
func (AgreementStatus) TableName() string {
	return "agreement_status"
}

// AgreementDetails is the one-time registration metadata row for an
// agreement key; immutable once written.
type AgreementDetails struct {
	RoleID      string `gorm:"column:role_id;primary_key"`
	NodeID      string `gorm:"column:node_id;primary_key"`
	AgreementID string `gorm:"column:agreement_id;primary_key"`

	PeerID          string     `gorm:"column:peer_id"`
	CreatedTs       time.Time  `gorm:"column:created_ts"`
	ValidTo         *time.Time `gorm:"column:valid_to"`
	Runtime         *string    `gorm:"column:runtime"`
	PaymentPlatform string     `gorm:"column:payment_platform"`
	PaymentAddress  string     `gorm:"column:payment_address"`
	Subnet          *string    `gorm:"column:subnet"`
	TaskPackage     *string    `gorm:"column:task_package"`
}

// TableName returns the agreement details table name
func (AgreementDetails) TableName() string {
	return "agreement_details"
}

// Detail maps the row to its wire representation.
func (d *AgreementDetails) Detail() *status.AgreementDetail {
	return &status.AgreementDetail{
		PeerID:          d.PeerID,
		CreatedTs:       d.CreatedTs,
		ValidTo:         d.ValidTo,
		Runtime:         d.Runtime,
		PaymentPlatform: d.PaymentPlatform,
		PaymentAddress:  d.PaymentAddress,
		Subnet:          d.Subnet,
		TaskPackage:     d.TaskPackage,
	}
}

// AgreementSummary is one element of an agreement listing: the agreement
// id, the counterparty when detail metadata has been registered, and the
// latest reported status.
type AgreementSummary struct {
	AgreementID string        `json:"agreementId"`
	PeerID      string        `json:"peerId"`
	CreatedTs   *time.Time    `json:"createdTs,omitempty"`
	Status      status.Status `json:"status"`
}

// StandardScore is the aggregate trust score response for a node; a nil
// score means insufficient data, which is not an error.
type StandardScore struct {
	Score *decimal.Decimal `json:"score"`
}
