package status

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Status is a point-in-time snapshot of the money flow reported against
// one agreement. Amounts serialize as exact decimal strings. The
// conventional ordering (confirmed <= accepted <= requested) is not
// enforced; the store records whatever the caller reports.
type Status struct {
	// Requested is the amount of money the provider has requested
	Requested decimal.Decimal `json:"requested"`

	// Accepted is the amount of money the requestor has accepted
	Accepted decimal.Decimal `json:"accepted"`

	// Confirmed is the amount of money the provider has confirmed as paid
	Confirmed decimal.Decimal `json:"confirmed"`

	// Ts is the event timestamp
	Ts time.Time `json:"ts"`

	// PaymentDueTs is the optional payment due timestamp
	PaymentDueTs *time.Time `json:"paymentDueTs,omitempty"`

	// Payment is reserved for future use
	Payment map[string]interface{} `json:"payment,omitempty"`
}

// NewStatus initializes a status with default values: zero amounts and
// the current time.
func NewStatus() *Status {
	return &Status{
		Ts: time.Now().UTC(),
	}
}

// Normalize backfills defaults on a status decoded from the wire; the
// zero decimal already reads as "0" so only the timestamp needs filling.
func (s *Status) Normalize() {
	if s.Ts.IsZero() {
		s.Ts = time.Now().UTC()
	}
}

// AgreementDetail is the one-time registration metadata for an agreement.
type AgreementDetail struct {
	// PeerID identifies the counterparty node
	PeerID string `json:"peerId"`

	// CreatedTs is the agreement creation timestamp
	CreatedTs time.Time `json:"createdTs"`

	// ValidTo is the optional end of the agreement validity window
	ValidTo *time.Time `json:"validTo,omitempty"`

	// Runtime optionally describes the runtime the agreement covers
	Runtime *string `json:"runtime,omitempty"`

	// PaymentPlatform names the payment platform; required
	PaymentPlatform string `json:"paymentPlatform"`

	// PaymentAddress is the payment receiving address; required
	PaymentAddress string `json:"paymentAddress"`

	// Subnet is an optional subnet tag
	Subnet *string `json:"subnet,omitempty"`

	// TaskPackage optionally describes the task package
	TaskPackage *string `json:"taskPackage,omitempty"`
}

// Normalize backfills the creation timestamp when unspecified.
func (d *AgreementDetail) Normalize() {
	if d.CreatedTs.IsZero() {
		d.CreatedTs = time.Now().UTC()
	}
}

// Validate asserts the required registration fields are present.
func (d *AgreementDetail) Validate() error {
	if d.PaymentPlatform == "" {
		return fmt.Errorf("agreement detail requires a payment platform")
	}
	if d.PaymentAddress == "" {
		return fmt.Errorf("agreement detail requires a payment address")
	}
	return nil
}

// ReportResult classifies the outcome of a status report. UnknownAgreement
// is informational, not an error: the status was durably recorded but no
// agreement detail has been registered for the key yet.
type ReportResult int

const (
	// ReportOK indicates the agreement was known when the status was recorded
	ReportOK ReportResult = iota

	// ReportUnknownAgreement indicates the status was recorded without registered agreement detail
	ReportUnknownAgreement
)

// MarshalJSON renders the externally-tagged wire form, i.e. {"ok":{}} or
// {"unknownAgreement":{}}.
func (r ReportResult) MarshalJSON() ([]byte, error) {
	switch r {
	case ReportOK:
		return []byte(`{"ok":{}}`), nil
	case ReportUnknownAgreement:
		return []byte(`{"unknownAgreement":{}}`), nil
	}
	return nil, fmt.Errorf("unrecognized report result: %d", int(r))
}

// UnmarshalJSON decodes the externally-tagged wire form.
func (r *ReportResult) UnmarshalJSON(data []byte) error {
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return err
	}
	if _, ok := tagged["ok"]; ok {
		*r = ReportOK
		return nil
	}
	if _, ok := tagged["unknownAgreement"]; ok {
		*r = ReportUnknownAgreement
		return nil
	}
	return fmt.Errorf("unrecognized report result: %s", string(data))
}
