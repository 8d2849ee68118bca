package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/estilistapro/estilista/internal/clock"
	"github.com/estilistapro/estilista/internal/migration"
	"github.com/estilistapro/estilista/internal/observability"
	"github.com/estilistapro/estilista/internal/server"
	"github.com/estilistapro/estilista/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
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
