// +build unit

package registry

import (
	"database/sql"
	"sync"
	"testing"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// Tests run against sqlite. Production delegates scoring to a
// database-resident standard_score function; here an equivalent function
// is registered on the test driver, backed by the testScores fixture, so
// the passthrough is exercised end to end.
var (
	testScoresMutex sync.Mutex
	testScores      = map[string]string{}
)

func setTestScore(roleID, nodeID, score string) {
	testScoresMutex.Lock()
	defer testScoresMutex.Unlock()
	testScores[roleID+"/"+nodeID] = score
}

func standardScoreStub(roleID, nodeID string) interface{} {
	testScoresMutex.Lock()
	defer testScoresMutex.Unlock()
	if score, ok := testScores[roleID+"/"+nodeID]; ok {
		return score
	}
	return nil
}

func init() {
	sql.Register("sqlite3_reputation", &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("standard_score", standardScoreStub, true)
		},
	})
}

const testSchema = `
CREATE TABLE agreement_status (
    role_id varchar(1) NOT NULL,
    node_id text NOT NULL,
    agreement_id text NOT NULL,
    requested numeric(38,18) NOT NULL DEFAULT 0,
    accepted numeric(38,18) NOT NULL DEFAULT 0,
    confirmed numeric(38,18) NOT NULL DEFAULT 0,
    updated_ts timestamp NOT NULL,
    reported_ts timestamp NOT NULL,
    PRIMARY KEY (role_id, node_id, agreement_id)
);

CREATE TABLE agreement_details (
    role_id varchar(1) NOT NULL,
    node_id text NOT NULL,
    agreement_id text NOT NULL,
    peer_id text NOT NULL,
    created_ts timestamp NOT NULL,
    valid_to timestamp,
    runtime text,
    payment_platform text NOT NULL,
    payment_address text NOT NULL,
    subnet text,
    task_package text,
    PRIMARY KEY (role_id, node_id, agreement_id)
);
`

func newTestStore(t *testing.T) *Store {
	db, err := sql.Open("sqlite3_reputation", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	gdb, err := gorm.Open("sqlite3", db)
	require.NoError(t, err)
	t.Cleanup(func() { gdb.Close() })

	return NewStore(gdb)
}
