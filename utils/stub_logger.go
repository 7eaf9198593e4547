package utils

import (
	"os"
	"strconv"

	model "go_stub_server/internal/domain/model/stub_rule"

	"github.com/sirupsen/logrus"
)

// StubEventLogEnv turns engine events off when set to a false value.
const StubEventLogEnv = "STUB_EVENT_LOG_ENABLED"

type stubEventLogger struct {
	log logrus.FieldLogger
}

var _ model.StubLogger = (*stubEventLogger)(nil)

// NewStubEventLogger adapts log to the engine's event hooks. It returns the
// nop logger when disabled by config or by STUB_EVENT_LOG_ENABLED.
func NewStubEventLogger(log logrus.FieldLogger, disabled bool) model.StubLogger {
	if disabled || !stubEventsEnabled() || log == nil {
		return model.NopStubLogger{}
	}
	return &stubEventLogger{log: log.WithField("component", "stub_engine")}
}

func stubEventsEnabled() bool {
	raw, ok := os.LookupEnv(StubEventLogEnv)
	if !ok || raw == "" {
		return true
	}
	enabled, err := strconv.ParseBool(raw)
	return err != nil || enabled
}

func requestFields(req model.RequestInfo) logrus.Fields {
	return logrus.Fields{
		"method": req.GetMethod().String(),
		"url":    req.GetURL(),
		"query":  req.GetQuery(),
	}
}

func (l *stubEventLogger) StartProcessing(req model.RequestInfo) {
	l.log.WithFields(requestFields(req)).Info("start processing request")
}

func (l *stubEventLogger) NotFound(req model.RequestInfo) {
	l.log.WithFields(requestFields(req)).Warn("stub not found")
}

func (l *stubEventLogger) JSONResponseFound() {
	l.log.WithField("response", model.ResponseKindJSON).Info("stub found")
}

func (l *stubEventLogger) DataResponseFound() {
	l.log.WithField("response", model.ResponseKindData).Info("stub found")
}

func (l *stubEventLogger) ErrorResponseFound(withJSONPayload bool) {
	l.log.WithFields(logrus.Fields{
		"response":    model.ResponseKindError,
		"jsonPayload": withJSONPayload,
	}).Info("stub found")
}

func (l *stubEventLogger) ConnectionErrorResponseFound() {
	l.log.WithField("response", model.ResponseKindConnectionError).Info("stub found")
}

func (l *stubEventLogger) InvalidBodyRegex(pattern string, err error) {
	l.log.WithError(err).WithField("pattern", pattern).Error("invalid body regex, rule skipped")
}
