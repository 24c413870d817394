package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clientdesk/internal/clock"
	"github.com/smallbiznis/clientdesk/internal/migration"
	"github.com/smallbiznis/clientdesk/internal/observability"
	"github.com/smallbiznis/clientdesk/internal/server"
	"github.com/smallbiznis/clientdesk/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		observability.Module,
		fx.Provide(newSnowflakeNode),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func newSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
