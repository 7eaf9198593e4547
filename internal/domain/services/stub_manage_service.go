package services

import (
	"context"
	"fmt"

	"go_stub_server/internal/domain/iface"
	model "go_stub_server/internal/domain/model/stub_rule"
	"go_stub_server/utils"
)

type StubManageService struct {
	engine iface.StubEngine
}

var _ iface.StubService = (*StubManageService)(nil)

func NewStubManageService(engine iface.StubEngine) *StubManageService {
	return &StubManageService{
		engine: engine,
	}
}

// CreateStubs 校验并注册规则. Nothing is registered when any rule is invalid.
func (s *StubManageService) CreateStubs(ctx context.Context, rules ...model.StubRule) error {
	for i, rule := range rules {
		if err := s.validateStub(rule); err != nil {
			return fmt.Errorf("stub %d validation failed: %w", i, err)
		}
	}

	s.engine.Register(rules...)
	utils.GetLogger().WithContext(ctx).Infof("registered %d stubs", len(rules))
	return nil
}

func (s *StubManageService) RemoveStubs(ctx context.Context, rules ...model.StubRule) error {
	s.engine.Unregister(rules...)
	utils.GetLogger().WithContext(ctx).Infof("unregistered %d stubs", len(rules))
	return nil
}

func (s *StubManageService) validateStub(rule model.StubRule) error {
	if rule.Pattern.URL == "" {
		return fmt.Errorf("missing 'url' field")
	}
	if err := rule.Pattern.Validate(); err != nil {
		return err
	}
	if rule.Response == nil {
		return fmt.Errorf("response is missing")
	}
	if rule.Delay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}
	// Error 配置验证
	if errResp, ok := rule.Response.(model.ErrorResponse); ok {
		if errResp.Code < 100 || errResp.Code > 599 {
			return fmt.Errorf("invalid error status code %d", errResp.Code)
		}
	}
	return nil
}
