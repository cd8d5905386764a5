package main

import (
	"log"

	"github.com/Aravind-733/NutriKart/config"
	"github.com/Aravind-733/NutriKart/controllers"
	"github.com/Aravind-733/NutriKart/routes"
	"github.com/Aravind-733/NutriKart/utils"
)

func main() {
	if err := utils.InitLogger(); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctrl := controllers.New(db, cfg)
	defer ctrl.Notifier.Close()

	router := routes.SetupRouter(ctrl)

	utils.LogInfo("Starting %s on port %s", utils.AppName, cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
