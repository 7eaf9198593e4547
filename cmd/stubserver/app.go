package main

import (
	"go_stub_server/app/http_mock_app"
	"go_stub_server/internal/domain/iface"
	model "go_stub_server/internal/domain/model/stub_rule"
	"go_stub_server/internal/domain/services"
	configs "go_stub_server/internal/infra/config"
	"go_stub_server/internal/infra/repo"
	"go_stub_server/utils"
)

// StubApp is the assembled server: the stub listener, its admin logic and
// the fixture plumbing used by stub files.
type StubApp struct {
	Config   *configs.StubConfig
	Server   *http_mock_app.StubServer
	Admin    *http_mock_app.StubAdmin
	Factory  *services.StubFactory
	Fixtures repo.FixtureRepoIface
}

func newServerConfig(c *configs.StubConfig) *configs.ServerConfig {
	return &c.Server
}

func newStubEventLogger(c *configs.StubConfig) model.StubLogger {
	return utils.NewStubEventLogger(utils.GetLogger(), c.Log.DisableStubEvents)
}

func newStubServer(engine iface.StubEngine, config *configs.ServerConfig) *http_mock_app.StubServer {
	return http_mock_app.NewStubServer(engine, config)
}
