package status

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client reports agreement status to a remote reputation aggregator over
// HTTP. Each call is bounded by the client timeout; a non-2xx response is
// surfaced as a transport error.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient initializes a client against the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Report submits a status report for the given agreement key and returns
// the aggregator's classification of the outcome.
func (c *Client) Report(ctx context.Context, role Role, nodeID, agreementID string, status *Status) (ReportResult, error) {
	uri := fmt.Sprintf("%s/%s/%s/agreement/%s/status",
		c.baseURL,
		role,
		url.PathEscape(nodeID),
		url.PathEscape(agreementID),
	)

	var result ReportResult
	if err := c.post(ctx, uri, status, &result); err != nil {
		return ReportOK, err
	}
	return result, nil
}

// RegisterAgreement registers detail metadata for the given agreement key.
func (c *Client) RegisterAgreement(ctx context.Context, role Role, nodeID, agreementID string, detail *AgreementDetail) error {
	uri := fmt.Sprintf("%s/%s/%s/agreement/%s",
		c.baseURL,
		role,
		url.PathEscape(nodeID),
		url.PathEscape(agreementID),
	)
	return c.post(ctx, uri, detail, nil)
}

func (c *Client) post(ctx context.Context, uri string, body interface{}, response interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("reputation aggregator returned %d for POST %s", resp.StatusCode, uri)
	}

	if response == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(response)
}
