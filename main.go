package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"planner/config"
	"planner/connection"
)

func main() {
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	gin.SetMode(gin.ReleaseMode)
	if err := connection.StartServer(cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
