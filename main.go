package main

import (
	"github.com/habitflow/habitflow/config"
	"github.com/habitflow/habitflow/models"
	"github.com/habitflow/habitflow/routes"
	"github.com/habitflow/habitflow/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.TaskTemplate{},
		&models.CheckIn{},
		&models.Challenge{},
		&models.ChallengeParticipant{},
		&models.TrafficStat{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
