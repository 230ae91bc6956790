package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"appscan-traffic-recorder/internal/constants"
)

const (
	httpDialTimeoutSeconds = 5
	logTimeFormat          = "2006-01-02 15:04:05"
)

// ErrNotImplemented is returned by Automation API calls the client declares
// but does not perform.
var ErrNotImplemented = errors.New("not implemented")

// Response is a normalized Automation API reply.
type Response struct {
	StatusCode int
	// Body is the raw response body, or the error text for a synthetic 500.
	Body []byte
	// JSON is the decoded body when the server answered with a JSON object.
	JSON map[string]interface{}
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// Message returns the server's "message" field, or the body text.
func (r *Response) Message() string {
	if r == nil {
		return ""
	}
	if msg, ok := r.JSON["message"].(string); ok && msg != "" {
		return msg
	}
	return strings.TrimSpace(string(r.Body))
}

// StartProxyRequest describes a StartProxy call.
type StartProxyRequest struct {
	Port int
	// UpperBound, when non-zero, turns Port into the lower bound of a range.
	UpperBound int
	Encrypted  bool
	// Body, when non-nil, is sent as JSON with a POST instead of a GET.
	Body interface{}
}

// StartProxyResult is the JSON body of a successful StartProxy.
type StartProxyResult struct {
	Port           int    `json:"port"`
	EncryptTraffic bool   `json:"encryptTraffic"`
	Message        string `json:"message"`
}

// StopProxyResult is the JSON body of a successful StopProxy.
type StopProxyResult struct {
	Port    int    `json:"port"`
	Message string `json:"message"`
}

// Recorder is a client for the Traffic Recorder Automation API.
// TLS certificates are not verified: recorder servers use self-signed ones.
type Recorder struct {
	mu      sync.RWMutex
	baseURL string

	client  *http.Client
	timeout time.Duration

	logMu   sync.Mutex
	logFile io.Writer
}

// NewRecorder creates a client for baseURL. timeout bounds each call (0 = none);
// logFile, when non-nil, receives a timestamped trace of every request.
func NewRecorder(baseURL string, timeout time.Duration, logFile io.Writer) *Recorder {
	r := &Recorder{
		client: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout: time.Duration(httpDialTimeoutSeconds) * time.Second,
				}).DialContext,
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
			},
		},
		timeout: timeout,
		logFile: logFile,
	}
	r.SetURL(baseURL)
	return r
}

// NormalizeURL trims spaces and trailing slashes from a server base address.
func NormalizeURL(baseURL string) string {
	return strings.TrimRight(strings.TrimSpace(baseURL), "/")
}

// SetURL changes the server base address.
func (r *Recorder) SetURL(baseURL string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.baseURL = NormalizeURL(baseURL)
}

// URL returns the server base address.
func (r *Recorder) URL() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.baseURL
}

func (r *Recorder) logMsg(format string, a ...interface{}) {
	if r.logFile == nil {
		return
	}
	r.logMu.Lock()
	defer r.logMu.Unlock()
	fmt.Fprintf(r.logFile, "[%s] "+format+"\n", append([]interface{}{time.Now().Format(logTimeFormat)}, a...)...)
}

// Info checks the server. It never fails: transport or decode problems are
// reported as status 500 with the error text as body.
func (r *Recorder) Info(ctx context.Context) *Response {
	resp, body, err := r.do(ctx, http.MethodGet, constants.APIInfoPath, nil, nil)
	if err != nil {
		r.logMsg("Info: ERROR: %v", err)
		return &Response{StatusCode: http.StatusInternalServerError, Body: []byte(err.Error())}
	}
	out, err := jsonResponse("Info", resp.StatusCode, body)
	if err != nil {
		r.logMsg("Info: ERROR: %v", err)
		return &Response{StatusCode: http.StatusInternalServerError, Body: []byte(err.Error())}
	}
	return out
}

// StartProxy starts a recording proxy on the server.
func (r *Recorder) StartProxy(ctx context.Context, req StartProxyRequest) (*Response, error) {
	path := constants.APIStartProxyPath + strconv.Itoa(req.Port)
	if req.UpperBound != 0 {
		path += "," + strconv.Itoa(req.UpperBound)
	}
	query := url.Values{}
	query.Set("encrypted", pyBool(req.Encrypted))

	method := http.MethodGet
	var payload []byte
	if req.Body != nil {
		var err error
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode StartProxy body: %w", err)
		}
		method = http.MethodPost
	}

	resp, body, err := r.do(ctx, method, path, query, payload)
	if err != nil {
		return nil, fmt.Errorf("StartProxy: %w", err)
	}
	return jsonResponse("StartProxy", resp.StatusCode, body)
}

// StopProxy stops the proxy listening on port.
func (r *Recorder) StopProxy(ctx context.Context, port int) (*Response, error) {
	resp, body, err := r.do(ctx, http.MethodGet, constants.APIStopProxyPath+strconv.Itoa(port), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("StopProxy: %w", err)
	}
	return jsonResponse("StopProxy", resp.StatusCode, body)
}

// StopAllProxies stops every proxy on the server.
func (r *Recorder) StopAllProxies(ctx context.Context) (*Response, error) {
	resp, body, err := r.do(ctx, http.MethodGet, constants.APIStopAllProxiesPath, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("StopAllProxies: %w", err)
	}
	return jsonResponse("StopAllProxies", resp.StatusCode, body)
}

// Certificate downloads the recorder's root certificate. A 2xx reply carries
// raw bytes in Body; anything else is decoded as JSON.
func (r *Recorder) Certificate(ctx context.Context) (*Response, error) {
	resp, body, err := r.do(ctx, http.MethodGet, constants.APICertificatePath, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("Certificate: %w", err)
	}
	return binaryResponse("Certificate", resp.StatusCode, body)
}

// Traffic downloads the traffic recorded on port, with the same content
// branching as Certificate.
func (r *Recorder) Traffic(ctx context.Context, port int) (*Response, error) {
	resp, body, err := r.do(ctx, http.MethodGet, constants.APITrafficPath+strconv.Itoa(port), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("Traffic: %w", err)
	}
	return binaryResponse("Traffic", resp.StatusCode, body)
}

// EncryptDastConfig is declared by the Automation API but not supported yet.
func (r *Recorder) EncryptDastConfig(ctx context.Context, dastConfig []byte) (*Response, error) {
	r.logMsg("POST %s: %v", constants.APIEncryptDastConfigPath, ErrNotImplemented)
	return nil, fmt.Errorf("EncryptDastConfig: %w", ErrNotImplemented)
}

// DownloadEncryptedDastConfig is declared by the Automation API but not supported yet.
func (r *Recorder) DownloadEncryptedDastConfig(ctx context.Context, id uuid.UUID) (*Response, error) {
	r.logMsg("GET %s%s: %v", constants.APIDownloadEncryptedPathBase, id, ErrNotImplemented)
	return nil, fmt.Errorf("DownloadEncryptedDastConfig: %w", ErrNotImplemented)
}

// do issues one request and reads the whole body.
func (r *Recorder) do(ctx context.Context, method, path string, query url.Values, payload []byte) (*http.Response, []byte, error) {
	base := r.URL()
	if base == "" {
		return nil, nil, fmt.Errorf("server URL is not set")
	}
	target := base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
		r.logMsg("%s %s request started with payload: %s", method, target, string(payload))
	} else {
		r.logMsg("%s %s request started.", method, target)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		r.logMsg("Error creating request %s %s: %v", method, target, err)
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logMsg("Error executing request %s %s: %v", method, target, err)
		return nil, nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		r.logMsg("Error reading response body %s %s: %v", method, target, err)
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	r.logMsg("%s %s response status: %d (%d bytes)", method, target, resp.StatusCode, len(body))
	return resp, body, nil
}

func jsonResponse(op string, status int, body []byte) (*Response, error) {
	var decoded interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode %s response (status %d): %w", op, status, err)
	}
	out := &Response{StatusCode: status, Body: body}
	if obj, ok := decoded.(map[string]interface{}); ok {
		out.JSON = obj
	}
	return out, nil
}

func binaryResponse(op string, status int, body []byte) (*Response, error) {
	if status >= 200 && status < 300 {
		return &Response{StatusCode: status, Body: body}, nil
	}
	return jsonResponse(op, status, body)
}

// classifyTransportError gives timeouts and refused connections a readable
// message while keeping the cause for errors.Is/As.
func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("network timeout: connection timed out: %w", err)
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Errorf("DNS error: cannot resolve hostname (%s): %w", dnsErr.Name, err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return fmt.Errorf("network error: cannot connect to server: %w", err)
	}
	return fmt.Errorf("request failed: %w", err)
}

// pyBool renders booleans the way the Automation API expects them in queries.
func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
