package commands

import (
	"LostFound/internal/cli/api"
	"LostFound/internal/config"
	"context"
	"errors"
	"fmt"
	"net/http"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Login and store auth token" }
func (loginCmd) Usage() string       { return "login <email> <password>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	var lr loginResponse
	resp, err := anonClient(cfg).Do(ctx, http.MethodPost, "/api/auth/login", LoginRequest{Email: args[0], Password: args[1]}, &lr)
	if err != nil {
		if api.IsStatus(err, http.StatusUnauthorized) {
			return errors.New("invalid email or password")
		}
		return err
	}
	store := tokenStore(cfg)
	if err := api.PersistAuthFromResponse(resp, store); err != nil {
		// сервер мог не поставить cookie — берём токен из тела
		if lr.Token == "" {
			return fmt.Errorf("saving auth: %w", err)
		}
		if err := store.Save(lr.Token); err != nil {
			return fmt.Errorf("saving auth: %w", err)
		}
	}
	fmt.Fprintln(Out, "Logged in successfully")
	return nil
}

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Forget the stored auth token" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	if err := tokenStore(cfg).Clear(); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Logged out")
	return nil
}

func init() {
	RegisterGroup(GroupAccount, loginCmd{}, logoutCmd{})
}
