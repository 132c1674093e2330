package commands

import (
	"LostFound/internal/cli/api"
	"LostFound/internal/config"
	"context"
	"errors"
	"fmt"
	"net/http"
)

type RegisterRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	TermsAccepted bool   `json:"terms_accepted"`
}

type registeredUser struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Approved bool   `json:"approved"`
}

type registerCmd struct{}

func (registerCmd) Name() string        { return "register" }
func (registerCmd) Description() string { return "Create an account (accepts the terms)" }
func (registerCmd) Usage() string       { return "register <name> <email> <password>" }

func (registerCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 3 {
		return ErrUsage
	}
	req := RegisterRequest{Name: args[0], Email: args[1], Password: args[2], TermsAccepted: true}
	var u registeredUser
	_, err := anonClient(cfg).Do(ctx, http.MethodPost, "/api/auth/register", req, &u)
	if err != nil {
		if api.IsStatus(err, http.StatusConflict) {
			return errors.New("email already in use")
		}
		return err
	}
	if u.Approved {
		fmt.Fprintf(Out, "Registered %s, you can log in now\n", u.Email)
	} else {
		fmt.Fprintf(Out, "Registered %s, waiting for admin approval\n", u.Email)
	}
	return nil
}

func init() { RegisterGroup(GroupAccount, registerCmd{}) }
