package main

import (
	"flag"
	"os"

	"github.com/golang-migrate/migrate"
	_ "github.com/golang-migrate/migrate/database/postgres"
	_ "github.com/golang-migrate/migrate/source/file"

	"github.com/provideplatform/reputation/common"
)

func main() {
	migrationsDir := flag.String("migrations", "./ops/migrations", "path to the migrations directory")
	down := flag.Int("down", 0, "number of migrations to roll back instead of migrating up")
	flag.Parse()

	databaseURL := os.Getenv("DATABASE_URL")
	common.PanicIfEmpty(databaseURL, "DATABASE_URL not provided")

	m, err := migrate.New("file://"+*migrationsDir, databaseURL)
	if err != nil {
		common.Log.Panicf("failed to initialize migrations; %s", err.Error())
	}

	if *down > 0 {
		err = m.Steps(-*down)
	} else {
		err = m.Up()
	}

	if err == migrate.ErrNoChange {
		common.Log.Info("no pending migrations")
		return
	}
	if err != nil {
		common.Log.Panicf("failed to apply migrations; %s", err.Error())
	}
	common.Log.Info("migrations applied")
}
