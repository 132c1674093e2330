package commands

import (
	"LostFound/internal/config"
	"bytes"
	"path/filepath"
	"testing"
)

// testConfig направляет CLI на тестовый сервер и хранит токен во временном каталоге.
func testConfig(t *testing.T, serverURL string) *config.Config {
	t.Helper()
	return &config.Config{ServerURL: serverURL, TokenFile: filepath.Join(t.TempDir(), "token")}
}

// loggedIn — конфигурация с уже сохранённым токеном.
func loggedIn(t *testing.T, serverURL string) *config.Config {
	t.Helper()
	cfg := testConfig(t, serverURL)
	if err := tokenStore(cfg).Save("tok-1"); err != nil {
		t.Fatalf("save token: %v", err)
	}
	return cfg
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}
