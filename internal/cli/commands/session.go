package commands

import (
	"LostFound/internal/cli/api"
	fsrepo "LostFound/internal/cli/repo/fs"
	"LostFound/internal/config"
	"errors"
	"fmt"
)

func tokenStore(cfg *config.Config) fsrepo.TokenFileStore {
	return fsrepo.TokenFileStore{Path: cfg.TokenFile}
}

// anonClient — клиент без токена (регистрация, вход, публичные списки).
func anonClient(cfg *config.Config) *api.Client {
	return api.NewClient(cfg.ServerURL, "")
}

// authClient — клиент с сохранённым токеном; без входа команда не выполняется.
func authClient(cfg *config.Config) (*api.Client, error) {
	token, err := tokenStore(cfg).Load()
	if err != nil {
		if errors.Is(err, fsrepo.ErrNoToken) {
			return nil, errors.New("not logged in, run: login <email> <password>")
		}
		return nil, fmt.Errorf("load token: %w", err)
	}
	return api.NewClient(cfg.ServerURL, token), nil
}
