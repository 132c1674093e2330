package main

import (
	"bytes"
	"testing"

	"LostFound/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestRun_Version(t *testing.T) {
	var buf bytes.Buffer
	code := run(&config.Config{Version: true, ServerURL: "http://localhost:8080", TokenFile: "/tmp/lf.token"}, nil, &buf)

	assert.Equal(t, 0, code)
	assert.Contains(t, buf.String(), "lfcli dev")
	assert.Contains(t, buf.String(), "server: http://localhost:8080")
	assert.Contains(t, buf.String(), "token:  /tmp/lf.token")
}
