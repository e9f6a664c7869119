package common

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	logger "github.com/kthomas/go-logger"
)

var (
	// Log is the configured logger
	Log *logger.Logger

	// ListenAddr is the interface and port the reputation API binds
	ListenAddr string

	// DispatchNATSNotifications toggles JetStream publication of accepted status reports
	DispatchNATSNotifications bool

	// DefaultReportTimeout bounds each outbound report call issued by the replay pipeline
	DefaultReportTimeout time.Duration
)

const defaultListenAddr = "0.0.0.0:8080"
const defaultReportTimeout = time.Second * 10

func init() {
	godotenv.Load()

	requireLogger()
	requireListener()
	requireNotificationsConfig()
	requireReportTimeout()
}

func requireLogger() {
	lvl := os.Getenv("LOG_LEVEL")
	if lvl == "" {
		lvl = "INFO"
	}

	var endpoint *string
	if os.Getenv("SYSLOG_ENDPOINT") != "" {
		endpt := os.Getenv("SYSLOG_ENDPOINT")
		endpoint = &endpt
	}

	Log = logger.NewLogger("reputation", lvl, endpoint)
}

func requireListener() {
	ListenAddr = os.Getenv("LISTEN_ADDR")
	if ListenAddr == "" {
		ListenAddr = defaultListenAddr
	}
}

func requireNotificationsConfig() {
	DispatchNATSNotifications = os.Getenv("NATS_NOTIFICATIONS_ENABLED") == "true"
}

func requireReportTimeout() {
	DefaultReportTimeout = defaultReportTimeout
	if os.Getenv("REPORT_TIMEOUT") != "" {
		timeout, err := time.ParseDuration(os.Getenv("REPORT_TIMEOUT"))
		if err != nil {
			Log.Panicf("failed to parse REPORT_TIMEOUT; %s", err.Error())
		}
		DefaultReportTimeout = timeout
	}
}
