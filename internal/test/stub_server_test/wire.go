//go:build wireinject
// +build wireinject

package stubservertest

import (
	"go_stub_server/app/http_mock_app"
	"go_stub_server/internal/domain/iface"
	model "go_stub_server/internal/domain/model/stub_rule"
	"go_stub_server/internal/domain/services"
	configs "go_stub_server/internal/infra/config"

	"github.com/google/wire"
)

type StubServerTestSuite struct {
	Server  *http_mock_app.StubServer
	Service iface.StubService
	Factory *services.StubFactory
}

func NewStubServerTestSuite(server *http_mock_app.StubServer, service iface.StubService, factory *services.StubFactory) *StubServerTestSuite {
	return &StubServerTestSuite{Server: server, Service: service, Factory: factory}
}

func newServerConfig(c *configs.StubConfig) *configs.ServerConfig {
	return &c.Server
}

func newStubServer(engine iface.StubEngine, config *configs.ServerConfig) *http_mock_app.StubServer {
	return http_mock_app.NewStubServer(engine, config)
}

func newStubLogger() model.StubLogger {
	return model.NopStubLogger{}
}

func InitializeStubServerTest(config *configs.StubConfig) (*StubServerTestSuite, error) {
	wire.Build(services.ServiceSet, newServerConfig, newStubServer, newStubLogger, NewStubServerTestSuite)
	return &StubServerTestSuite{}, nil
}
