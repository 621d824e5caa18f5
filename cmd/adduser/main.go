// Command adduser registers a user from the command line, prompting for
// the password without echo. Useful for bootstrapping an instance before
// the HTTP API is exposed.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/mlisik/walletd/infra"
	infrarepo "github.com/mlisik/walletd/infra/repository"
	"github.com/mlisik/walletd/pkg/config"
	"github.com/mlisik/walletd/pkg/service/auth"
	"github.com/mlisik/walletd/pkg/service/category"
)

func main() {
	email := flag.String("email", "", "email address of the user to create")
	envFile := flag.String("env", ".env", "path to the env file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *email == "" {
		fmt.Fprintln(os.Stderr, "usage: adduser -email user@example.com")
		os.Exit(2)
	}

	if err := run(logger, *envFile, *email); err != nil {
		logger.Error("adduser failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, envFile, email string) error {
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	cfg, err := config.Load(envFile, logger)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	ctx := context.Background()
	uow := infrarepo.NewUoW(db)
	if err := category.New(uow, logger).SeedGlobal(ctx); err != nil {
		return fmt.Errorf("seed global categories: %w", err)
	}

	user, err := auth.New(uow, &cfg.Jwt, logger).Register(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Printf("created user %s (%s)\n", user.Email, user.ID)
	return nil
}

// readPassword reads a password without echo when stdin is a terminal,
// falling back to a plain line read so the command stays scriptable.
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
