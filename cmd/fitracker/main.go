package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/config"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/logger"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/migration"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/internal/server"
	"github.com/tranhuuvinh1109/fitness-nutrition-tracker/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
