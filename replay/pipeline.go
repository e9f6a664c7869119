package replay

import (
	"context"
	"fmt"
	"sync"
	"time"

	uuid "github.com/kthomas/go.uuid"
	"github.com/shopspring/decimal"

	"github.com/provideplatform/reputation/common"
	"github.com/provideplatform/reputation/status"
)

// DefaultConcurrency caps the number of in-flight report submissions.
const DefaultConcurrency = 4

// Reporter submits one agreement status report; satisfied by the HTTP
// client and by the registry store in local mode.
type Reporter interface {
	Report(ctx context.Context, role status.Role, nodeID, agreementID string, st *status.Status) (status.ReportResult, error)
}

// Result is the outcome of replaying a single legacy row. Unknown marks
// rows recorded without registered agreement detail at the destination;
// it is not a failure.
type Result struct {
	AgreementID string
	Unknown     bool
	Err         error
}

// Pipeline replays legacy agreement rows into a reputation aggregator
// with bounded concurrency and per-row failure isolation: a malformed or
// undeliverable row never cancels or blocks the rest of the batch. Rows
// are never retried within a run; a subsequent run re-submits everything
// and the destination's upsert semantics keep that idempotent.
type Pipeline struct {
	reporter    Reporter
	concurrency int
	timeout     time.Duration
	runID       uuid.UUID
}

// NewPipeline initializes a replay pipeline around the given reporter.
// A non-positive concurrency falls back to DefaultConcurrency.
func NewPipeline(reporter Reporter, concurrency int) *Pipeline {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	runID, _ := uuid.NewV4()
	return &Pipeline{
		reporter:    reporter,
		concurrency: concurrency,
		timeout:     common.DefaultReportTimeout,
		runID:       runID,
	}
}

// Run submits every given row and returns the per-row results in
// completion order. Cancelling the context stops new submissions between
// rows; rows already in flight drain before Run returns.
func (p *Pipeline) Run(ctx context.Context, rows []*PayAgreement) []Result {
	common.Log.Infof("replay run %s starting; %d rows, %d max in flight", p.runID, len(rows), p.concurrency)

	sem := make(chan struct{}, p.concurrency)
	outcomes := make(chan Result, len(rows))

	var wg sync.WaitGroup
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			outcomes <- Result{AgreementID: row.ID, Err: err}
			continue
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(row *PayAgreement) {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes <- p.submit(ctx, row)
		}(row)
	}
	wg.Wait()
	close(outcomes)

	results := make([]Result, 0, len(rows))
	for result := range outcomes {
		if result.Err != nil {
			common.Log.Warningf("replay run %s failed to deliver agreement %s; %s", p.runID, result.AgreementID, result.Err.Error())
		}
		results = append(results, result)
	}
	return results
}

func (p *Pipeline) submit(ctx context.Context, row *PayAgreement) Result {
	common.Log.Debugf("sending: %s", row.ID)

	role, err := status.DecodeRole(row.Role)
	if err != nil {
		return Result{AgreementID: row.ID, Err: err}
	}

	requested, err := decimal.NewFromString(row.TotalAmountDue)
	if err != nil {
		return Result{AgreementID: row.ID, Err: fmt.Errorf("failed to parse requested amount for agreement %s; %s", row.ID, err.Error())}
	}
	accepted, err := decimal.NewFromString(row.TotalAmountAccepted)
	if err != nil {
		return Result{AgreementID: row.ID, Err: fmt.Errorf("failed to parse accepted amount for agreement %s; %s", row.ID, err.Error())}
	}
	confirmed, err := decimal.NewFromString(row.TotalAmountPaid)
	if err != nil {
		return Result{AgreementID: row.ID, Err: fmt.Errorf("failed to parse confirmed amount for agreement %s; %s", row.ID, err.Error())}
	}

	ts := time.Now().UTC()
	if row.UpdatedTs != nil {
		ts = *row.UpdatedTs
	}

	st := &status.Status{
		Requested: requested,
		Accepted:  accepted,
		Confirmed: confirmed,
		Ts:        ts,
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	result, err := p.reporter.Report(callCtx, role, row.OwnerID, row.ID, st)
	if err != nil {
		return Result{AgreementID: row.ID, Err: err}
	}
	if result == status.ReportUnknownAgreement {
		common.Log.Warningf("missing agreement details for: %s", row.ID)
		return Result{AgreementID: row.ID, Unknown: true}
	}
	return Result{AgreementID: row.ID}
}

// Summarize tallies a run's results.
func Summarize(results []Result) (ok, unknown, failed int) {
	for _, result := range results {
		switch {
		case result.Err != nil:
			failed++
		case result.Unknown:
			unknown++
		default:
			ok++
		}
	}
	return ok, unknown, failed
}
