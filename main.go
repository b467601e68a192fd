package main

import (
	"context"

	"github.com/skillforge/engage/config"
	"github.com/skillforge/engage/models"
	"github.com/skillforge/engage/routes"
	"github.com/skillforge/engage/services"
	"github.com/skillforge/engage/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.ContentItem{},
		&models.Vote{},
		&models.Bookmark{},
		&models.Review{},
		&models.ReviewLike{},
	)

	// Change-notification hub with cross-instance fan-out over Redis.
	hub := services.NewHub(utils.GetRedis())
	hub.StartRedisBridge(context.Background())

	r := routes.SetupRouter(db, hub)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
