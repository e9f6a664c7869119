package main

import (
	"github.com/gin-gonic/gin"
	dbconf "github.com/kthomas/go-db-config"

	"github.com/provideplatform/reputation/common"
	"github.com/provideplatform/reputation/registry"
)

func main() {
	db := dbconf.DatabaseConnection()
	store := registry.NewStore(db)

	r := gin.Default()
	registry.InstallAPI(r, store)

	common.Log.Infof("reputation API listening on %s", common.ListenAddr)
	if err := r.Run(common.ListenAddr); err != nil {
		common.Log.Panicf("failed to run reputation API; %s", err.Error())
	}
}
