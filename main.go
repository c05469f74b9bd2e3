package main

import (
	"time"

	"github.com/cppla/yatube/config"
	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/routes"
	"github.com/cppla/yatube/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db := config.InitDatabase(models.All()...)

	// Redis is optional; without it the index cache lives in process memory
	rc := utils.NewRedis(cfg)
	cache := utils.NewResponseCache(rc, utils.IndexPagePrefix, time.Duration(cfg.IndexCacheSeconds)*time.Second)

	r := routes.SetupRouter(db, cache)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
