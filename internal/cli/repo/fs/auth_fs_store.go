package fs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"LostFound/internal/cli/repo"
)

// ErrNoToken — токен ещё не сохранён (пользователь не входил или вышел).
var ErrNoToken = errors.New("not logged in")

// TokenFileStore — файловое хранилище токена для CLI. Путь берётся из конфигурации (TOKEN_FILE).
type TokenFileStore struct {
	Path string
}

var _ repo.TokenStore = TokenFileStore{}

// Save сохраняет auth‑токен в файл с правами 0600.
func (s TokenFileStore) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("empty token")
	}
	if s.Path == "" {
		return errors.New("token file path is not configured")
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.Path, []byte(token), 0o600)
}

// Load читает auth‑токен из файла.
func (s TokenFileStore) Load() (string, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoToken
		}
		return "", err
	}
	// обрезаем завершающие переводы строки/пробелы
	token := strings.TrimSpace(string(b))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Clear удаляет файл токена. Отсутствие файла не считается ошибкой.
func (s TokenFileStore) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
