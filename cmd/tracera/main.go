package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/tracera/tracera/internal/clock"
	"github.com/tracera/tracera/internal/config"
	"github.com/tracera/tracera/internal/migration"
	"github.com/tracera/tracera/internal/observability"
	"github.com/tracera/tracera/internal/server"
	"github.com/tracera/tracera/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
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
