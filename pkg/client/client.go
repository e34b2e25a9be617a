/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package client implements the operations of the W3C Verifiable
// Credentials HTTP API: issuing, deriving, retrieving, revoking and
// verifying credentials and presentations against remote services.
package client

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/trustbloc/edge-core/pkg/log"

	"github.com/trustbloc/vc-client/pkg/vc"
)

var logger = log.New("vc-client/client")

// request token names recognized in the client's token map.
const (
	issuerTokenName     = "issuer"
	derivationTokenName = "derivation"
	statusTokenName     = "status"
	verifierTokenName   = "verifier"
)

var (
	// ErrRevocation is returned when the status service refuses a revocation request.
	ErrRevocation = errors.New("revocation failed")

	// ErrUnexpectedResponse is returned on a 2xx response whose body is not
	// the expected shape.
	ErrUnexpectedResponse = errors.New("unexpected response")
)

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPError is a non-2xx response from one of the services. The status code
// appears in the message so callers can match on it.
type HTTPError struct {
	StatusCode int
	Body       []byte
	Errors     []string
}

func (e *HTTPError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("http request: %d %s", e.StatusCode, strings.Join(e.Errors, "; "))
	}

	return fmt.Sprintf("http request: %d %s", e.StatusCode, string(e.Body))
}

// Endpoints are the service endpoints the client operates against.
type Endpoints struct {
	Issuer     string
	Derivation string
	Status     string
	Verifier   string
}

// Client is a stateless client for the VC HTTP API services. Operations are
// independent request/response calls and may run concurrently.
type Client struct {
	endpoints     Endpoints
	httpClient    httpClient
	requestTokens map[string]string
}

// New returns a client for the given service endpoints.
func New(endpoints Endpoints, tlsConfig *tls.Config, requestTokens map[string]string) *Client {
	return &Client{
		endpoints:     endpoints,
		httpClient:    &http.Client{Transport: &http.Transport{TLSClientConfig: tlsConfig}},
		requestTokens: requestTokens,
	}
}

// NewFromDiscovery fetches the API configuration from the discovery
// endpoint and returns a client for the endpoints it names.
func NewFromDiscovery(configURL string, tlsConfig *tls.Config, requestTokens map[string]string,
	opts ...CallOption) (*Client, error) {
	client := New(Endpoints{}, tlsConfig, requestTokens)

	options := newCallOptions(opts)

	data, err := client.do(http.MethodGet, configURL, nil, options.requestToken, options)
	if err != nil {
		return nil, fmt.Errorf("fetch api configuration: %w", err)
	}

	var config apiConfiguration

	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: api configuration is not json: %s", ErrUnexpectedResponse, err.Error())
	}

	client.endpoints = Endpoints{
		Issuer:     config.IssuerService,
		Derivation: config.DerivationService,
		Status:     config.StatusService,
		Verifier:   config.VerifierService,
	}

	return client, nil
}

// Endpoints returns the service endpoints the client operates against.
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// do executes one HTTP round trip and returns the response body. Non-2xx
// responses come back as *HTTPError carrying the status code and, when the
// body is a JSON object with an errors array, the reported errors.
func (c *Client) do(method, endpoint string, body interface{}, token string, opts *callOptions) ([]byte, error) {
	var reader io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Add("Authorization", "Bearer "+token)
	}

	client := c.httpClient
	if opts.httpClient != nil {
		client = opts.httpClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request : %w", err)
	}

	defer func() {
		if errClose := resp.Body.Close(); errClose != nil {
			logger.Warnf("failed to close response body")
		}
	}()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		logger.Warnf("failed to read response body for status: %d", resp.StatusCode)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: data, Errors: errorList(data)}
	}

	return data, nil
}

// requestToken resolves the bearer token for a service: a per-call token
// wins over the client's token map.
func (c *Client) requestToken(serviceName string, opts *callOptions) string {
	if opts.requestToken != "" {
		return opts.requestToken
	}

	return c.requestTokens[serviceName]
}

// errorList extracts the errors array from a JSON error body, if there is one.
func errorList(body []byte) []string {
	var parsed struct {
		Errors []string `json:"errors"`
	}

	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil
	}

	return parsed.Errors
}

// CallOption configures a single operation call.
type CallOption func(*callOptions)

type callOptions struct {
	httpClient     httpClient
	requestToken   string
	legacyView     bool
	includeExpired bool
}

// WithHTTPClient overrides the client's transport for this call.
func WithHTTPClient(client httpClient) CallOption {
	return func(o *callOptions) {
		o.httpClient = client
	}
}

// WithRequestToken sends the given bearer token with this call, overriding
// the client's token map.
func WithRequestToken(token string) CallOption {
	return func(o *callOptions) {
		o.requestToken = token
	}
}

// WithoutLegacyView disables the legacy dialect view on credentials and
// presentations returned by this call.
func WithoutLegacyView() CallOption {
	return func(o *callOptions) {
		o.legacyView = false
	}
}

// WithoutExpiredCredentials drops expired credentials from derivation results.
func WithoutExpiredCredentials() CallOption {
	return func(o *callOptions) {
		o.includeExpired = false
	}
}

func newCallOptions(opts []CallOption) *callOptions {
	options := &callOptions{legacyView: true, includeExpired: true}

	for _, opt := range opts {
		opt(options)
	}

	return options
}

func (o *callOptions) parseOptions() []vc.Option {
	if o.legacyView {
		return nil
	}

	return []vc.Option{vc.WithoutLegacyView()}
}
