// Package client performs the dashboard's authenticated calls to the ventd
// backend and normalizes every response into the canonical models schema.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"roof_vent/internal/logger"
	"roof_vent/internal/models"
)

const apiPrefix = "/api/v1"

// DefaultLimit is the history/log bound used when callers pass limit <= 0.
const DefaultLimit = 50

// CommandKind names a write endpoint on the backend.
type CommandKind string

const (
	CommandVent        CommandKind = "control-vent"
	CommandRain        CommandKind = "set-rain"
	CommandSmoke       CommandKind = "set-smoke"
	CommandSensor      CommandKind = "sensor"
	CommandPullWeather CommandKind = "pull-weather"
	CommandLogout      CommandKind = "logout"
)

// HazardCommand maps a hazard kind onto its toggle endpoint.
func HazardCommand(kind models.HazardKind) CommandKind {
	if kind == models.HazardSmoke {
		return CommandSmoke
	}
	return CommandRain
}

// Fetcher reads the authoritative state. No retries: the caller's next tick retries.
type Fetcher interface {
	FetchStatus(ctx context.Context) (models.StatusSnapshot, error)
	FetchHistory(ctx context.Context, limit int) ([]models.HistoryPoint, error)
	FetchSeries(ctx context.Context, kind models.SeriesKind, limit int) ([]models.SeriesPoint, error)
	FetchLog(ctx context.Context, limit int) ([]models.LogEntry, error)
}

// Commander posts user intents and synthetic inputs.
type Commander interface {
	PostCommand(ctx context.Context, kind CommandKind, payload any) (Ack, error)
}

// API is everything the dashboard needs from the backend.
type API interface {
	Fetcher
	Commander
}

// Client is the HTTP implementation of API.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger

	mu    sync.RWMutex
	token string
}

var _ API = (*Client)(nil)

// New builds a client. timeout <= 0 keeps the transport default (no explicit timeout).
func New(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	hc := &http.Client{}
	if timeout > 0 {
		hc.Timeout = timeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		log:     log,
	}
}

// Login exchanges credentials for a bearer token used by every later call.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/sign-in", nil, body, &out); err != nil {
		return err
	}
	if out.Token == "" {
		return errNoToken
	}
	c.SetToken(out.Token)
	return nil
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// FetchStatus returns a fresh snapshot.
func (c *Client) FetchStatus(ctx context.Context) (models.StatusSnapshot, error) {
	var raw record
	if err := c.getJSON(ctx, "/status", nil, &raw); err != nil {
		return models.StatusSnapshot{}, err
	}
	snap, perrs := normalizeStatus(raw)
	c.logParseErrors("status", perrs)
	return snap, nil
}

// FetchHistory returns temperature/humidity readings, oldest first.
func (c *Client) FetchHistory(ctx context.Context, limit int) ([]models.HistoryPoint, error) {
	var raw []record
	if err := c.getJSON(ctx, "/history", limitParams(limit), &raw); err != nil {
		return nil, err
	}
	points, perrs := normalizeHistory(raw)
	c.logParseErrors("history", perrs)
	return points, nil
}

// FetchSeries returns the rain or smoke series, oldest first.
func (c *Client) FetchSeries(ctx context.Context, kind models.SeriesKind, limit int) ([]models.SeriesPoint, error) {
	var raw []record
	if err := c.getJSON(ctx, "/"+string(kind)+"-history", limitParams(limit), &raw); err != nil {
		return nil, err
	}
	points, perrs := normalizeSeries(kind, raw)
	c.logParseErrors(string(kind)+"_history", perrs)
	return points, nil
}

// FetchLog returns control log entries, newest first as delivered by the backend.
func (c *Client) FetchLog(ctx context.Context, limit int) ([]models.LogEntry, error) {
	var raw []record
	if err := c.getJSON(ctx, "/control-log", limitParams(limit), &raw); err != nil {
		return nil, err
	}
	entries, perrs := normalizeLog(raw)
	c.logParseErrors("control_log", perrs)
	return entries, nil
}

// PostCommand sends payload as JSON to the command endpoint.
func (c *Client) PostCommand(ctx context.Context, kind CommandKind, payload any) (Ack, error) {
	if payload == nil {
		payload = struct{}{}
	}
	ack := Ack{}
	if err := c.do(ctx, http.MethodPost, apiPrefix+"/"+string(kind), nil, payload, &ack); err != nil {
		return nil, err
	}
	return ack, nil
}

func (c *Client) logParseErrors(what string, errs []error) {
	for _, err := range errs {
		c.log.Debugw("parse_degraded", "source", what, "err", err)
	}
}

func limitParams(limit int) url.Values {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return url.Values{"limit": []string{strconv.Itoa(limit)}}
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	return c.do(ctx, http.MethodGet, apiPrefix+path, params, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: method, URL: u, Err: err}
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return &TransportError{Op: method, URL: u, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: method, URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &TransportError{Op: method, URL: u, StatusCode: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: method, URL: u, Err: err}
	}
	return nil
}
