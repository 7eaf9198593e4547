package http_mock_app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go_stub_server/internal/domain/iface"
	model "go_stub_server/internal/domain/model/stub_rule"
	configs "go_stub_server/internal/infra/config"
	"go_stub_server/utils"

	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

// StubServer serves the engine's rules over HTTP. Every path and method is
// routed to the engine.
type StubServer struct {
	engine iface.StubEngine
	config *configs.ServerConfig
	log    logrus.FieldLogger

	// onFatal handles stubs that cannot be answered under the fatal
	// connection failure policy.
	onFatal func(msg string)

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
	serveErr chan error
}

type StubServerOption func(*StubServer)

// WithFatalHandler replaces the default fatal handler, which logs and exits
// the process.
func WithFatalHandler(fn func(msg string)) StubServerOption {
	return func(s *StubServer) {
		s.onFatal = fn
	}
}

func NewStubServer(engine iface.StubEngine, config *configs.ServerConfig, opts ...StubServerOption) *StubServer {
	s := &StubServer{
		engine: engine,
		config: config,
		log:    utils.GetLogger().WithField("component", "stub_server"),
	}
	s.onFatal = func(msg string) {
		s.log.Fatal(msg)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start listens on the configured address and serves in the background. It
// returns the bound port, which differs from the configured one when that
// is 0. Starting a running server panics.
func (s *StubServer) Start(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server != nil {
		panic("stub server already started")
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.config.Addr())
	if err != nil {
		return 0, fmt.Errorf("failed to listen on %s: %w", s.config.Addr(), err)
	}

	server := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("stub server stopped unexpectedly")
			serveErr <- err
		}
		close(serveErr)
	}()

	s.server = server
	s.listener = listener
	s.serveErr = serveErr
	port := listener.Addr().(*net.TCPAddr).Port
	s.log.WithField("port", port).Info("stub server started")
	return port, nil
}

// Stop shuts the listener down and clears every rule. History is kept for
// assertions. Stopping a server that is not running panics.
func (s *StubServer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		panic("stub server is not started")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.log.WithError(err).Warn("stub server shutdown timed out, closing")
		s.server.Close()
	}
	<-s.serveErr

	s.server = nil
	s.listener = nil
	s.engine.ClearRules()
	s.log.Info("stub server stopped")
}

// SetStub registers rules on a running server. Calling it before Start panics.
func (s *StubServer) SetStub(rules ...model.StubRule) {
	if !s.Running() {
		panic("stub server is not started, call Start before SetStub")
	}
	s.engine.Register(rules...)
}

func (s *StubServer) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.server != nil
}

// Port returns the bound port, or 0 when stopped.
func (s *StubServer) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return 0
	}
	return s.listener.Addr().(*net.TCPAddr).Port
}

// URL returns the base URL clients should call, e.g. http://127.0.0.1:51234.
func (s *StubServer) URL() string {
	host := s.config.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(s.Port()))
}

func (s *StubServer) Engine() iface.StubEngine {
	return s.engine
}

func (s *StubServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, err := model.NewHTTPRequest(r)
	if err != nil {
		s.log.WithError(err).Error("failed to read request")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := s.engine.Handle(req)

	if delay := result.Delay(); delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-r.Context().Done():
			timer.Stop()
			return
		}
	}

	s.writeResponse(w, result.Response)
}

func (s *StubServer) writeResponse(w http.ResponseWriter, response model.ResponseSpec) {
	switch r := response.(type) {
	case model.JSONResponse:
		s.writeJSON(w, http.StatusOK, r.JSON)
	case model.DataResponse:
		w.Header().Set("Content-Type", r.ContentType)
		w.WriteHeader(http.StatusOK)
		s.write(w, r.Data)
	case model.ErrorResponse:
		if r.HasJSON() {
			s.writeJSON(w, r.Code, r.JSON)
			return
		}
		w.WriteHeader(r.Code)
	case model.ConnectionFailure:
		s.failConnection(w)
	default:
		panic(fmt.Sprintf("unknown response type %T", response))
	}
}

func (s *StubServer) writeJSON(w http.ResponseWriter, code int, json any) {
	data, err := model.MarshalJSONValue(json)
	if err != nil {
		s.log.WithError(err).Error("failed to encode stub json")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", model.ContentTypeJSON)
	w.WriteHeader(code)
	s.write(w, data)
}

func (s *StubServer) write(w http.ResponseWriter, data []byte) {
	if _, err := w.Write(data); err != nil {
		s.log.WithError(err).Debug("client went away before the response was written")
	}
}

func (s *StubServer) failConnection(w http.ResponseWriter) {
	if s.config.ConnectionFailure != configs.ConnectionFailureDrop {
		s.onFatal("connection error stubs are not supported under the fatal connectionFailure policy")
		http.Error(w, "connection error stub", http.StatusInternalServerError)
		return
	}

	hijacker, ok := w.(http.Hijacker)
	if !ok {
		panic(http.ErrAbortHandler)
	}
	conn, _, err := hijacker.Hijack()
	if err != nil {
		s.log.WithError(err).Error("failed to hijack connection")
		panic(http.ErrAbortHandler)
	}
	conn.Close()
}
