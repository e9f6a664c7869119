// +build unit

package status

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStatusDefaults(t *testing.T) {
	st := NewStatus()

	assert.True(t, st.Requested.IsZero())
	assert.True(t, st.Accepted.IsZero())
	assert.True(t, st.Confirmed.IsZero())
	assert.False(t, st.Ts.IsZero())
	assert.Nil(t, st.PaymentDueTs)
}

func TestStatusDefaultAmountsSerializeAsZero(t *testing.T) {
	st := &Status{}
	st.Normalize()

	payload, err := json.Marshal(st)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &fields))
	assert.Equal(t, "0", fields["requested"])
	assert.Equal(t, "0", fields["accepted"])
	assert.Equal(t, "0", fields["confirmed"])
}

func TestStatusAmountsSerializeAsExactStrings(t *testing.T) {
	requested, _ := decimal.NewFromString("10")
	st := &Status{
		Requested: requested,
		Ts:        time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	payload, err := json.Marshal(st)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"requested":"10"`)
	assert.Contains(t, string(payload), `"ts":"2021-06-01T12:00:00Z"`)
}

func TestStatusDecodeRejectsMalformedAmount(t *testing.T) {
	st := &Status{}
	err := json.Unmarshal([]byte(`{"requested":"not-a-number"}`), st)
	require.Error(t, err)
}

func TestStatusNormalizeBackfillsTimestamp(t *testing.T) {
	st := &Status{}
	require.NoError(t, json.Unmarshal([]byte(`{"requested":"5"}`), st))
	assert.True(t, st.Ts.IsZero())

	st.Normalize()
	assert.False(t, st.Ts.IsZero())
	assert.Equal(t, "5", st.Requested.String())
}

func TestStatusNormalizePreservesExplicitTimestamp(t *testing.T) {
	ts := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	st := &Status{Ts: ts}
	st.Normalize()
	assert.True(t, ts.Equal(st.Ts))
}

func TestAgreementDetailValidate(t *testing.T) {
	detail := &AgreementDetail{
		PeerID:          "0xpeer",
		PaymentPlatform: "erc20-mainnet-glm",
		PaymentAddress:  "0xabc",
	}
	require.NoError(t, detail.Validate())

	detail.PaymentPlatform = ""
	require.Error(t, detail.Validate())

	detail.PaymentPlatform = "erc20-mainnet-glm"
	detail.PaymentAddress = ""
	require.Error(t, detail.Validate())
}

func TestAgreementDetailNormalize(t *testing.T) {
	detail := &AgreementDetail{}
	detail.Normalize()
	assert.False(t, detail.CreatedTs.IsZero())

	ts := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
	detail = &AgreementDetail{CreatedTs: ts}
	detail.Normalize()
	assert.True(t, ts.Equal(detail.CreatedTs))
}

func TestReportResultRoundTrip(t *testing.T) {
	payload, err := json.Marshal(ReportOK)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":{}}`, string(payload))

	payload, err = json.Marshal(ReportUnknownAgreement)
	require.NoError(t, err)
	assert.JSONEq(t, `{"unknownAgreement":{}}`, string(payload))

	var result ReportResult
	require.NoError(t, json.Unmarshal([]byte(`{"ok":{}}`), &result))
	assert.Equal(t, ReportOK, result)

	require.NoError(t, json.Unmarshal([]byte(`{"unknownAgreement":{}}`), &result))
	assert.Equal(t, ReportUnknownAgreement, result)

	require.Error(t, json.Unmarshal([]byte(`{"rejected":{}}`), &result))
}
