package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/desertthunder/vidup/internal/formatter"
	"github.com/desertthunder/vidup/internal/models"
	"github.com/desertthunder/vidup/internal/services"
	"github.com/desertthunder/vidup/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// readPassword and isTerminal are test seams for golang.org/x/term.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// AuthLogin signs in and persists the returned token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	identifier := cmd.String("identifier")
	password := cmd.String("password")

	var err error
	if identifier == "" {
		if identifier, err = r.promptText("Email or username: "); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = r.promptPassword("Password: "); err != nil {
			return err
		}
	}
	if identifier == "" || password == "" {
		return fmt.Errorf("%w: identifier and password are required", shared.ErrMissingArgument)
	}

	if err := r.connect(ctx); err != nil {
		return err
	}

	creds := models.LoginCredentials{Identifier: identifier, Password: password}
	r.logger.Info("logging in", "identifier", identifier, "email", creds.IsEmail())

	resp, err := r.auth.Login(ctx, creds)
	if err != nil {
		r.writeFieldErrors(err)
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if err := r.session.Login(ctx, resp.User, resp.Token); err != nil {
		return err
	}

	return r.writePlain("✓ Logged in as %s (@%s)\n", resp.User.Name, resp.User.Username)
}

// AuthRegister creates an account. When the server answers with only a message
// (e.g. pending email verification) the message is shown and no session is started.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	reg := models.Registration{
		Name:     cmd.String("name"),
		Username: cmd.String("username"),
		Email:    cmd.String("email"),
		Password: cmd.String("password"),
	}
	reg.PasswordConfirmation = reg.Password

	if reg.Password == "" {
		var err error
		if reg.Password, err = r.promptPassword("Password: "); err != nil {
			return err
		}
		if reg.PasswordConfirmation, err = r.promptPassword("Confirm password: "); err != nil {
			return err
		}
		if reg.Password != reg.PasswordConfirmation {
			return fmt.Errorf("%w: passwords do not match", shared.ErrInvalidInput)
		}
	}
	if reg.Password == "" {
		return fmt.Errorf("%w: password is required", shared.ErrMissingArgument)
	}

	if err := r.connect(ctx); err != nil {
		return err
	}

	r.logger.Info("registering", "username", reg.Username)

	resp, err := r.auth.Register(ctx, reg)
	if err != nil {
		r.writeFieldErrors(err)
		return err
	}

	if !resp.Authenticated() {
		return r.writePlain("✓ %s\n", resp.Message)
	}

	if err := r.session.Login(ctx, resp.User, resp.Token); err != nil {
		return err
	}
	return r.writePlain("✓ Registered and logged in as %s (@%s)\n", resp.User.Name, resp.User.Username)
}

// AuthLogout ends the session. Local state is cleared even when the server call fails.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	if r.session.Token() == "" {
		return r.writePlain("Not logged in.\n")
	}

	r.session.Logout(ctx)
	return r.writePlain("✓ Logged out\n")
}

// AuthStatus restores the session and prints the signed-in user.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(ctx); err != nil {
		return err
	}

	if err := r.session.Restore(ctx); err != nil && !isSessionError(err) {
		return err
	}

	snap := r.session.Snapshot()
	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"authenticated": snap.Authenticated,
			"user":          snap.User,
		}, cmd.Bool("pretty"))
	}
	return r.writePlain("%s", formatter.UserSummary(snap.User))
}

// isSessionError reports failures that mean "no usable session" rather than an outage.
func isSessionError(err error) bool {
	return errors.Is(err, shared.ErrNotAuthenticated) || errors.Is(err, shared.ErrInvalidSession)
}

func (r *Runner) writeFieldErrors(err error) {
	var apiErr *services.APIError
	if !errors.As(err, &apiErr) {
		return
	}
	for _, fe := range apiErr.FieldErrors() {
		r.writePlain("  - %s\n", fe)
	}
}

func (r *Runner) promptText(label string) (string, error) {
	r.writePlain("%s", label)
	line, err := r.input.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo from a terminal and falls back to a plain line read otherwise.
func (r *Runner) promptPassword(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !r.interactive || !isTerminal(fd) {
		return r.promptText(label)
	}

	r.writePlain("%s", label)
	pw, err := readPassword(fd)
	r.writePlain("\n")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pw), nil
}
