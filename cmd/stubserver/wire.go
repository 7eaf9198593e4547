//go:build wireinject
// +build wireinject

package main

import (
	"go_stub_server/app/http_mock_app"
	"go_stub_server/internal/domain/services"
	configs "go_stub_server/internal/infra/config"

	"github.com/google/wire"
)

func InitializeStubApp(config *configs.StubConfig) (*StubApp, error) {
	wire.Build(
		services.ServiceSet,
		newServerConfig,
		newStubEventLogger,
		newStubServer,
		http_mock_app.NewStubAdmin,
		wire.Bind(new(http_mock_app.FixtureLoader), new(*services.StubFactory)),
		wire.Struct(new(StubApp), "*"),
	)
	return &StubApp{}, nil
}
