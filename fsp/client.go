package fsp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	pathEnriched = "record/enriched"
	pathFindByID = "record/findById/enriched"
	pathFindAll  = "record/all/enriched"

	headerRequestID = "X-Request-Id"
)

// Config holds the connection details of the record catalog
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
}

// BaseURL returns http://host[:port]
func (c Config) BaseURL() string {
	if c.Port == "" {
		return "http://" + c.Host
	}
	return fmt.Sprintf("http://%s:%s", c.Host, c.Port)
}

// Client represents a record catalog API client
type Client struct {
	http    *resty.Client
	baseURL string
	logger  zerolog.Logger
	metrics bool
}

// NewClient creates a new record catalog client
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: host is required", ErrInvalidConfig)
	}
	if cfg.Username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidConfig)
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidConfig)
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	var rc *resty.Client
	if options.httpClient != nil {
		rc = resty.NewWithClient(options.httpClient)
		if options.timeoutSet {
			rc.SetTimeout(options.timeout)
		}
	} else {
		rc = resty.New().SetTimeout(options.timeout)
	}

	baseURL := cfg.BaseURL()
	rc.SetBaseURL(baseURL).
		SetBasicAuth(cfg.Username, cfg.Password).
		SetHeader("User-Agent", options.userAgent).
		SetHeader("Content-Type", "application/json").
		SetLogger(restyLogger{logger: options.logger}).
		// the catalog is plain HTTP; resty would warn about basic auth on every call
		SetDisableWarn(true)

	return &Client{
		http:    rc,
		baseURL: baseURL,
		logger:  options.logger,
		metrics: options.metrics,
	}, nil
}

// response is a reply whose status was not mapped to an *Error
type response struct {
	status  int
	body    []byte
	payload any
	raw     *resty.Response
}

// do sends a single request. GET payloads become query parameters, every
// other method sends the payload as a JSON body. Transport errors are
// returned untouched.
func (c *Client) do(ctx context.Context, operation, method, path string, payload any) (*response, error) {
	req := c.http.R().
		SetContext(ctx).
		SetHeader(headerRequestID, uuid.NewString())

	if method == http.MethodGet {
		if q, ok := payload.(queryEncoder); ok {
			req.SetQueryParams(q.queryParams())
		}
	} else {
		req.SetBody(payload)
	}

	start := time.Now()
	raw, err := req.Execute(method, path)
	elapsed := time.Since(start)
	if err != nil {
		c.observe(operation, method, 0, elapsed)
		return nil, err
	}

	resp := &response{
		status:  raw.StatusCode(),
		body:    raw.Body(),
		payload: payload,
		raw:     raw,
	}
	c.observe(operation, method, resp.status, elapsed)

	c.logger.Debug().
		Str("operation", operation).
		Str("method", method).
		Str("path", path).
		Int("status", resp.status).
		Dur("elapsed", elapsed).
		Msg("fsp request")

	if len(resp.body) > 0 {
		var probe json.RawMessage
		if err := json.Unmarshal(resp.body, &probe); err != nil {
			c.logFailure("Got parse response error", resp)
			return nil, NewParseFailedError(resp.status, string(resp.body), err)
		}
	}

	if apiErr, msg := statusError(resp.status, string(resp.body)); apiErr != nil {
		c.logFailure(msg, resp)
		return nil, apiErr
	}

	return resp, nil
}

// decode unmarshals the body into v. An empty body leaves v untouched.
func (c *Client) decode(resp *response, v any) error {
	if len(resp.body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, v); err != nil {
		c.logFailure("Got parse response error", resp)
		return NewParseFailedError(resp.status, string(resp.body), err)
	}
	return nil
}

// Find returns the first record stored for the entity. It returns nil when
// nothing is stored or the service answers with anything but 200.
func (c *Client) Find(ctx context.Context, req FindRequest) (*EnrichedRecord, error) {
	resp, err := c.do(ctx, "find", http.MethodGet, pathEnriched, req)
	if err != nil {
		return nil, err
	}

	if resp.status == http.StatusNotFound {
		return nil, nil
	}
	if resp.status != http.StatusOK {
		c.logStrangeStatus("find", resp)
		return nil, nil
	}

	var records []EnrichedRecord
	if err := c.decode(resp, &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	return &records[0], nil
}

// FindByID returns the record with the given id, or nil
func (c *Client) FindByID(ctx context.Context, req FindByIDRequest) (*EnrichedRecord, error) {
	resp, err := c.do(ctx, "findById", http.MethodGet, pathFindByID, req)
	if err != nil {
		return nil, err
	}

	if resp.status == http.StatusNotFound {
		return nil, nil
	}
	if resp.status != http.StatusOK {
		c.logStrangeStatus("findById", resp)
		return nil, nil
	}

	return c.decodeRecord(resp)
}

// FindAll returns one page of records. When the service does not answer
// with 200 the result is an empty page at the requested offset.
func (c *Client) FindAll(ctx context.Context, req FindAllRequest) (*Page, error) {
	resp, err := c.do(ctx, "findAll", http.MethodGet, pathFindAll, req)
	if err != nil {
		return nil, err
	}

	if resp.status != http.StatusOK {
		c.logStrangeStatus("findAll", resp)
		return emptyPage(req.Offset), nil
	}

	if len(resp.body) == 0 {
		return emptyPage(req.Offset), nil
	}

	var page Page
	if err := c.decode(resp, &page); err != nil {
		return nil, err
	}
	if page.Items == nil {
		page.Items = []EnrichedRecord{}
	}

	return &page, nil
}

// Create stores a new record and returns it as enriched by the service.
// Any status other than 201 yields nil.
func (c *Client) Create(ctx context.Context, req CreateRequest) (*EnrichedRecord, error) {
	resp, err := c.do(ctx, "create", http.MethodPost, pathEnriched, req)
	if err != nil {
		return nil, err
	}

	if resp.status != http.StatusCreated {
		c.logStrangeStatus("create", resp)
		return nil, nil
	}

	return c.decodeRecord(resp)
}

// Edit updates a record. A 404 yields nil; any other unmapped status
// returns whatever record the body holds.
func (c *Client) Edit(ctx context.Context, req EditRequest) (*EnrichedRecord, error) {
	resp, err := c.do(ctx, "edit", http.MethodPatch, pathEnriched, req)
	if err != nil {
		return nil, err
	}

	if resp.status == http.StatusNotFound {
		return nil, nil
	}

	return c.decodeRecord(resp)
}

func (c *Client) decodeRecord(resp *response) (*EnrichedRecord, error) {
	if len(resp.body) == 0 {
		return nil, nil
	}
	var record EnrichedRecord
	if err := c.decode(resp, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *Client) logStrangeStatus(operation string, resp *response) {
	evt := c.logger.Error().
		Str("operation", operation).
		Int("status", resp.status)
	withData(evt, resp.body).Msg("Got strange status")
}

// logFailure logs everything needed to replay a failed exchange
func (c *Client) logFailure(msg string, resp *response) {
	evt := c.logger.Error().Int("status", resp.status)
	withData(evt, resp.body).
		Interface("payload", resp.payload).
		Dict("request", requestSummary(resp.raw)).
		Msg(msg)
}

func withData(evt *zerolog.Event, body []byte) *zerolog.Event {
	if len(body) > 0 && json.Valid(body) {
		return evt.RawJSON("data", body)
	}
	return evt.Str("data", string(body))
}

// requestSummary describes the outgoing request as it was sent
func requestSummary(raw *resty.Response) *zerolog.Event {
	dict := zerolog.Dict()
	if raw == nil || raw.Request == nil {
		return dict
	}

	req := raw.Request
	url, method, header := req.URL, req.Method, req.Header
	if sent := req.RawRequest; sent != nil {
		url, method, header = sent.URL.String(), sent.Method, sent.Header
	}

	return dict.
		Str("url", url).
		Str("method", method).
		Strs("headers", headerLines(header))
}

// headerLines renders headers as "Name: value", credentials redacted
func headerLines(header http.Header) []string {
	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		value := strings.Join(header[name], ", ")
		if strings.EqualFold(name, "Authorization") {
			value = "[redacted]"
		}
		lines = append(lines, name+": "+value)
	}
	return lines
}

// restyLogger routes resty's own messages into zerolog
type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error().Msgf(strings.TrimSpace(format), v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn().Msgf(strings.TrimSpace(format), v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), v...)
}
