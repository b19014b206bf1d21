package main

import (
	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"github.com/Dashazem/back-end-capstone-project/internal/config"
	"github.com/Dashazem/back-end-capstone-project/internal/logger"
	"github.com/Dashazem/back-end-capstone-project/internal/server"
)

func main() {
	cfg := config.Load()
	log := logger.Init(cfg.Env)
	defer log.Sync()

	app := iris.New()
	server.RegisterRoutes(app, cfg)

	addr := cfg.Server.Addr()
	log.Info("storefront api listening", zap.String("addr", addr))
	if err := app.Run(iris.Addr(addr)); err != nil {
		log.Fatal("failed to run storefront api", zap.Error(err))
	}
}
