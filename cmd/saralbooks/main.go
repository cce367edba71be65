package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/saralbooks/saralbooks/internal/clock"
	"github.com/saralbooks/saralbooks/internal/config"
	"github.com/saralbooks/saralbooks/internal/document"
	"github.com/saralbooks/saralbooks/internal/dutyledger"
	"github.com/saralbooks/saralbooks/internal/migration"
	"github.com/saralbooks/saralbooks/internal/observability"
	"github.com/saralbooks/saralbooks/internal/party"
	"github.com/saralbooks/saralbooks/internal/report"
	"github.com/saralbooks/saralbooks/internal/server"
	"github.com/saralbooks/saralbooks/internal/stock"
	"github.com/saralbooks/saralbooks/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Functional domains
		party.Module,
		stock.Module,
		dutyledger.Module,
		document.Module,
		report.Module,

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
