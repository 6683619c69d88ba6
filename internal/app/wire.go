//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/eslsoft/parcours/internal/adapter/httpapi"
	"github.com/eslsoft/parcours/internal/infrastructure/config"
	"github.com/eslsoft/parcours/internal/infrastructure/database"
	"github.com/eslsoft/parcours/internal/infrastructure/server"
	"github.com/eslsoft/parcours/internal/usecase"
)

var configSet = wire.NewSet(
	config.Load,
)

var databaseSet = wire.NewSet(
	database.NewDB,
	provideProgressRepository,
)

var contentSet = wire.NewSet(
	provideGraph,
)

var usecaseSet = wire.NewSet(
	provideTuning,
	usecase.NewProgressUsecase,
)

var serviceSet = wire.NewSet(
	httpapi.NewProgressHandler,
)

var serverSet = wire.NewSet(
	server.NewLogger,
	server.NewServer,
)

// Initialize builds the application container using Wire.
func Initialize() (*Container, func(), error) {
	wire.Build(
		configSet,
		databaseSet,
		contentSet,
		usecaseSet,
		serviceSet,
		serverSet,
		wire.Struct(new(Container), "Logger", "Server"),
	)
	return nil, nil, nil
}
