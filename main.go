package main

import (
	"github.com/tracknest/tracknest/config"
	"github.com/tracknest/tracknest/models"
	"github.com/tracknest/tracknest/routes"
	"github.com/tracknest/tracknest/services"
	"github.com/tracknest/tracknest/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Trackable{}, &models.Entry{})

	store := services.NewGormStore(db)
	svc := services.New(store, utils.Sugar)

	r := routes.SetupRouter(svc)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
