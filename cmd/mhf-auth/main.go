// Command mhf-auth authenticates against an MHF account server, picks a
// character and writes the launcher's config.json.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/and161185/mhf-auth/internal/account"
	"github.com/and161185/mhf-auth/internal/config"
	"github.com/and161185/mhf-auth/internal/model"
	"github.com/and161185/mhf-auth/internal/prompt"
	"github.com/and161185/mhf-auth/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func usage(w io.Writer) func() {
	return func() {
		fmt.Fprintf(w, `mhf-auth - fetch launch config from an MHF server
Usage:
  mhf-auth [-server URL] [-config PATH] [-log-level LEVEL] <cmd> [args]

Commands:
  login      [-username U] [-password P]   login with an existing account
  register   [-username U] [-password P]   register a new account
  version

Without a command you are asked whether to login or register.
Missing username/password are prompted for.
`)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run dispatches one invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("mhf-auth", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = usage(stderr)

	cfg, err := config.Load(global, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return fail(stderr, err)
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		return fail(stderr, err)
	}
	defer func() { _ = logger.Sync() }()

	term := prompt.New(stdin, stderr)

	cmd := global.Arg(0)
	if cmd == "" {
		choices := []string{"Login", "Register"}
		idx, err := term.Select("What would you like to do?", choices, 0)
		if err != nil {
			return fail(stderr, err)
		}
		cmd = []string{string(service.ActionLogin), string(service.ActionRegister)}[idx]
	}

	switch cmd {
	case "version":
		fmt.Fprintf(stdout, "mhf-auth %s (%s)\n", version, buildDate)
		return 0

	case string(service.ActionLogin), string(service.ActionRegister):
		var rest []string
		if global.NArg() > 1 {
			rest = global.Args()[1:]
		}
		cred, err := credentials(cmd, rest, term, stderr)
		if err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return 0
			}
			return fail(stderr, err)
		}

		fmt.Fprintf(stdout, "Connecting to %s...\n", cfg.Server)
		client := account.New(cfg.Server, account.WithLogger(logger))
		svc := service.NewBootstrapService(client, term, cfg.Server, cfg.ConfigPath, logger)
		res, err := svc.Run(ctx, service.Action(cmd), cred)
		if err != nil {
			logger.Debug("bootstrap failed", zap.Error(err))
			return fail(stderr, err)
		}

		if res.Selection.Created {
			fmt.Fprintf(stdout, "Character created - ID: %d, Name: %s\n", res.Selection.ID, res.Selection.Character.Name)
		}
		fmt.Fprintf(stdout, "Configuration saved to %s\n", res.Path)
		fmt.Fprintln(stdout, "You can now run: mhf-iel-cli.exe")
		return 0

	default:
		global.Usage()
		return 2
	}
}

// credentials parses subcommand flags and prompts for whatever is missing.
func credentials(cmd string, args []string, term *prompt.Terminal, stderr io.Writer) (model.Credentials, error) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var cred model.Credentials
	fs.StringVar(&cred.Username, "username", "", "username (prompted if empty)")
	fs.StringVar(&cred.Username, "u", "", "username (shorthand)")
	fs.StringVar(&cred.Password, "password", "", "password (prompted if empty)")
	fs.StringVar(&cred.Password, "p", "", "password (shorthand)")
	if err := fs.Parse(args); err != nil {
		return model.Credentials{}, err
	}

	var err error
	if cred.Username == "" {
		if cred.Username, err = term.Input("Username"); err != nil {
			return model.Credentials{}, fmt.Errorf("read username: %w", err)
		}
	}
	if cred.Password == "" {
		if cred.Password, err = term.Password("Password"); err != nil {
			return model.Credentials{}, fmt.Errorf("read password: %w", err)
		}
	}
	return cred, nil
}

func fail(w io.Writer, err error) int {
	fmt.Fprintln(w, "error:", err)
	return 1
}
