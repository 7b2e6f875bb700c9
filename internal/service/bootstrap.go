// Package service contains the launch bootstrap: authenticate, pick a character,
// build the launch configuration and persist it.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/and161185/mhf-auth/internal/launchcfg"
	"github.com/and161185/mhf-auth/internal/model"
	"github.com/and161185/mhf-auth/internal/resolver"
)

// Action selects the account endpoint used to authenticate.
type Action string

const (
	ActionLogin    Action = "login"
	ActionRegister Action = "register"
)

// AccountClient is the account service as seen by the bootstrap.
type AccountClient interface {
	// Login authenticates an existing account.
	Login(ctx context.Context, cred model.Credentials) (*model.SessionBundle, error)
	// Register creates and authenticates a new account.
	Register(ctx context.Context, cred model.Credentials) (*model.SessionBundle, error)
	// CreateCharacter creates a character for the session.
	CreateCharacter(ctx context.Context, token string) (*model.Character, error)
}

// Result describes a completed bootstrap.
type Result struct {
	Config    launchcfg.Configuration
	Selection resolver.Selection
	Path      string
}

// BootstrapService runs one launch bootstrap.
type BootstrapService interface {
	// Run authenticates with cred and writes the launch configuration.
	Run(ctx context.Context, action Action, cred model.Credentials) (Result, error)
}

type BootstrapServiceImpl struct {
	accounts AccountClient
	selector resolver.Selector
	server   string
	path     string
	log      *zap.Logger
}

// NewBootstrapService constructs BootstrapService. server is the account
// service URL, path the configuration destination.
func NewBootstrapService(accounts AccountClient, selector resolver.Selector, server, path string, log *zap.Logger) *BootstrapServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &BootstrapServiceImpl{accounts: accounts, selector: selector, server: server, path: path, log: log}
}

// Run executes the steps in order; the first failure aborts and nothing is
// written unless every earlier step succeeded.
func (s *BootstrapServiceImpl) Run(ctx context.Context, action Action, cred model.Credentials) (Result, error) {
	if _, _, err := launchcfg.ResolveEndpoint(s.server); err != nil {
		return Result{}, fmt.Errorf("server: %w", err)
	}

	bundle, err := s.authenticate(ctx, action, cred)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", action, err)
	}

	sel, err := resolver.New(s.accounts, s.selector, s.log).Resolve(ctx, bundle.User.Token, bundle.Characters)
	if err != nil {
		return Result{}, fmt.Errorf("resolve character: %w", err)
	}

	cfg, err := launchcfg.Build(s.server, bundle, sel.ID, sel.Character)
	if err != nil {
		return Result{}, fmt.Errorf("build config: %w", err)
	}
	if err := launchcfg.Validate(cfg); err != nil {
		return Result{}, fmt.Errorf("validate config: %w", err)
	}
	if err := launchcfg.Save(s.path, cfg); err != nil {
		return Result{}, fmt.Errorf("save config: %w", err)
	}

	s.log.Info("configuration saved",
		zap.String("path", s.path),
		zap.Uint32("char_id", cfg.CharID),
		zap.String("server_host", cfg.ServerHost),
		zap.Uint32("server_port", cfg.ServerPort),
		zap.Int("stalls", len(cfg.MezStalls)),
	)
	return Result{Config: cfg, Selection: sel, Path: s.path}, nil
}

func (s *BootstrapServiceImpl) authenticate(ctx context.Context, action Action, cred model.Credentials) (*model.SessionBundle, error) {
	switch action {
	case ActionLogin:
		return s.accounts.Login(ctx, cred)
	case ActionRegister:
		return s.accounts.Register(ctx, cred)
	default:
		return nil, fmt.Errorf("unknown action %q", action)
	}
}
