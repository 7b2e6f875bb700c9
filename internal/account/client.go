// Package account implements the JSON/HTTP client of the MHF account service.
package account

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/and161185/mhf-auth/internal/errs"
	"github.com/and161185/mhf-auth/internal/model"
)

// Endpoint paths relative to the server URL.
const (
	PathLogin           = "login"
	PathRegister        = "register"
	PathCreateCharacter = "character/create"
)

// maxBodyBytes bounds how much of a response is read.
const maxBodyBytes = 4 << 20

// Client talks to the account service. Every call is one blocking round-trip,
// no retries are attempted.
type Client struct {
	server string
	http   *http.Client
	log    *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Its transport is wrapped
// for request logging.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New returns a client for the server at base URL server (e.g. http://127.0.0.1:8080).
func New(server string, opts ...Option) *Client {
	c := &Client{server: server, log: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}

	// transport defaults only, no client timeout
	base := &http.Client{}
	if c.http != nil {
		cp := *c.http
		base = &cp
	}
	next := base.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	base.Transport = &loggingTransport{next: next, log: c.log}
	c.http = base
	return c
}

// Login authenticates an existing account.
func (c *Client) Login(ctx context.Context, cred model.Credentials) (*model.SessionBundle, error) {
	return c.authenticate(ctx, PathLogin, cred)
}

// Register creates an account and authenticates it.
func (c *Client) Register(ctx context.Context, cred model.Credentials) (*model.SessionBundle, error) {
	return c.authenticate(ctx, PathRegister, cred)
}

// CreateCharacter asks the server for a new character on the session's account.
func (c *Client) CreateCharacter(ctx context.Context, token string) (*model.Character, error) {
	req := struct {
		Token string `json:"token"`
	}{Token: token}

	var ch model.Character
	if err := c.post(ctx, PathCreateCharacter, req, &ch, errs.ErrCharacterCreationFailed); err != nil {
		return nil, err
	}
	c.log.Info("character created", zap.Uint32("id", ch.ID), zap.String("name", ch.Name))
	return &ch, nil
}

func (c *Client) authenticate(ctx context.Context, action string, cred model.Credentials) (*model.SessionBundle, error) {
	c.log.Info("authenticating",
		zap.String("action", action),
		zap.String("server", c.server),
		zap.String("username", cred.Username),
	)
	var b model.SessionBundle
	if err := c.post(ctx, action, cred, &b, errs.ErrAuthenticationFailed); err != nil {
		return nil, err
	}
	c.log.Info("authenticated",
		zap.Uint32("token_id", b.User.TokenID),
		zap.Int("token_len", len(b.User.Token)),
		zap.Int("characters", len(b.Characters)),
	)
	return &b, nil
}

// post sends in as JSON to path and decodes a 2xx body into out.
// The model types reject missing, null or miscased fields while decoding.
func (c *Client) post(ctx context.Context, path string, in, out any, op error) error {
	url := c.url(path)
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrInvalidServerURL, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("connect to %s: %w: %w", url, errs.ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read response from %s: %w: %w", url, errs.ErrNetwork, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &errs.StatusError{Op: op, Code: resp.StatusCode, Body: string(raw)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s response: %w: %w", path, errs.ErrMalformedResponse, err)
	}
	return nil
}

func (c *Client) url(path string) string {
	return strings.TrimRight(c.server, "/") + "/" + path
}
