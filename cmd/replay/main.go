package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	dbconf "github.com/kthomas/go-db-config"

	"github.com/provideplatform/reputation/common"
	"github.com/provideplatform/reputation/registry"
	"github.com/provideplatform/reputation/replay"
	"github.com/provideplatform/reputation/status"
)

const defaultAggregatorURL = "http://reputation.dev.golem.network"

func defaultPaymentDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "yagna", "payment.db")
}

func main() {
	paymentDatabase := flag.String("payment-database", defaultPaymentDatabasePath(), "path to the legacy payment database")
	aggregatorURL := flag.String("url", defaultAggregatorURL, "base URL of the reputation aggregator")
	concurrency := flag.Int("concurrency", replay.DefaultConcurrency, "max in-flight report submissions")
	direct := flag.Bool("direct", false, "report into the configured database instead of a remote aggregator")
	flag.Parse()

	common.PanicIfEmpty(*paymentDatabase, "payment database path not provided")

	source, err := replay.OpenSource(*paymentDatabase)
	if err != nil {
		common.Log.Panicf("%s", err.Error())
	}
	defer source.Close()

	rows, err := source.Rows(context.Background())
	if err != nil {
		common.Log.Panicf("failed to read legacy agreement rows; %s", err.Error())
	}

	var reporter replay.Reporter
	if *direct {
		reporter = registry.NewStore(dbconf.DatabaseConnection())
	} else {
		reporter = status.NewClient(*aggregatorURL, common.DefaultReportTimeout)
	}

	pipeline := replay.NewPipeline(reporter, *concurrency)
	results := pipeline.Run(context.Background(), rows)

	ok, unknown, failed := replay.Summarize(results)
	common.Log.Infof("replay complete; %d reported, %d missing agreement details, %d failed", ok, unknown, failed)
}
