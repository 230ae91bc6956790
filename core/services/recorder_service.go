package services

import (
	"context"
	"log"
	"net/http"

	"appscan-traffic-recorder/api"
	"appscan-traffic-recorder/internal/debuglog"
	"appscan-traffic-recorder/internal/logpane"
)

// responseTraceChars bounds the head and tail of response bodies in debug traces.
const responseTraceChars = 200

// RecorderService runs Automation API calls through the Dispatcher.
// It keeps the HTTP client and the worker pool out of AppController.
type RecorderService struct {
	Recorder   *api.Recorder
	Dispatcher *Dispatcher
}

// NewRecorderService creates a service over an existing client and dispatcher.
func NewRecorderService(recorder *api.Recorder, dispatcher *Dispatcher) *RecorderService {
	return &RecorderService{
		Recorder:   recorder,
		Dispatcher: dispatcher,
	}
}

// VerifyServer points the client at url and checks it with Info.
// The verified event is true only for status 200.
func (s *RecorderService) VerifyServer(url string, h Handlers) {
	s.Recorder.SetURL(url)
	s.Dispatcher.Submit("Verify server", func(ctx context.Context) Event {
		resp := s.Recorder.Info(ctx)
		if resp.StatusCode != http.StatusOK {
			log.Printf("RecorderService: verify %s failed with status %d", url, resp.StatusCode)
			return VerifiedEvent(false, resp.Message())
		}
		return VerifiedEvent(true, "")
	}, h)
}

// StartProxy starts a listener described by req.
func (s *RecorderService) StartProxy(req api.StartProxyRequest, h Handlers) {
	s.submitCall("Start proxy", func(ctx context.Context) (*api.Response, error) {
		return s.Recorder.StartProxy(ctx, req)
	}, h)
}

// StopProxy stops the listener on port.
func (s *RecorderService) StopProxy(port int, h Handlers) {
	s.submitCall("Stop proxy", func(ctx context.Context) (*api.Response, error) {
		return s.Recorder.StopProxy(ctx, port)
	}, h)
}

// StopAllProxies stops every listener on the server.
func (s *RecorderService) StopAllProxies(h Handlers) {
	s.submitCall("Stop all proxies", s.Recorder.StopAllProxies, h)
}

// Certificate fetches the recorder's root certificate.
func (s *RecorderService) Certificate(h Handlers) {
	s.submitCall("Download certificate", s.Recorder.Certificate, h)
}

// Traffic fetches the traffic recorded on port.
func (s *RecorderService) Traffic(port int, h Handlers) {
	s.submitCall("Download traffic", func(ctx context.Context) (*api.Response, error) {
		return s.Recorder.Traffic(ctx, port)
	}, h)
}

// submitCall turns a client call into a task: a response becomes a
// ResponseEvent and an error becomes an error LogEvent.
func (s *RecorderService) submitCall(name string, call func(ctx context.Context) (*api.Response, error), h Handlers) {
	s.Dispatcher.Submit(name, func(ctx context.Context) Event {
		resp, err := call(ctx)
		if err != nil {
			log.Printf("RecorderService: %s: %v", name, err)
			return LogEvent(logpane.LevelError, "%s failed: %v", name, err)
		}
		if resp.JSON != nil {
			debuglog.Fragment("RecorderService", debuglog.LevelVerbose, name+" response", string(resp.Body), responseTraceChars)
		}
		return ResponseEvent(resp)
	}, h)
}

// Close stops the dispatcher; see Dispatcher.Close.
func (s *RecorderService) Close() {
	s.Dispatcher.Close(shutdownTimeout)
}
