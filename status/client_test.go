// +build unit

package status

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientReport(t *testing.T) {
	var receivedPath string
	var receivedStatus Status

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&receivedStatus))
		w.Header().Set("content-type", "application/json")
		w.Write([]byte(`{"unknownAgreement":{}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second*5)

	requested, _ := decimal.NewFromString("100")
	st := NewStatus()
	st.Requested = requested

	result, err := client.Report(context.Background(), RoleProvider, "0xnode", "agreement-1", st)
	require.NoError(t, err)
	assert.Equal(t, ReportUnknownAgreement, result)
	assert.Equal(t, "/provider/0xnode/agreement/agreement-1/status", receivedPath)
	assert.Equal(t, "100", receivedStatus.Requested.String())
}

func TestClientReportTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second*5)
	_, err := client.Report(context.Background(), RoleRequestor, "0xnode", "agreement-1", NewStatus())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestClientRegisterAgreement(t *testing.T) {
	var receivedPath string
	var receivedDetail AgreementDetail

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&receivedDetail))
		w.WriteHeader(200)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second*5)
	detail := &AgreementDetail{
		PeerID:          "0xpeer",
		PaymentPlatform: "erc20-mainnet-glm",
		PaymentAddress:  "0xabc",
	}
	detail.Normalize()

	err := client.RegisterAgreement(context.Background(), RoleRequestor, "0xnode", "agreement-1", detail)
	require.NoError(t, err)
	assert.Equal(t, "/requestor/0xnode/agreement/agreement-1", receivedPath)
	assert.Equal(t, "0xpeer", receivedDetail.PeerID)
}

func TestClientReportHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Millisecond * 250)
		w.Write([]byte(`{"ok":{}}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*10)
	defer cancel()

	client := NewClient(server.URL, time.Second*5)
	_, err := client.Report(ctx, RoleProvider, "0xnode", "agreement-1", NewStatus())
	require.Error(t, err)
}
