// Package main provides tests for the contratos CLI.
package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/contratos/internal/cli"
	"github.com/leapstack-labs/contratos/internal/testutil"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "contratos v")
}

func TestHelpCommand(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	for _, want := range []string{"serve", "list", "browse", "completion", "--api-url"} {
		assert.Contains(t, out, want)
	}
}

func TestListCommandJSON(t *testing.T) {
	b := testutil.NewBackend(t)
	b.JSON("GET /suppliers", http.StatusOK, map[string]any{
		"items": []map[string]any{{"id": 7, "nome": "Acme Ltda", "cnpj": "12345678000190"}},
		"total": 1,
	})

	out, err := execute(t, "list", "companies", "--api-url", b.URL, "--token", "t0k", "-o", "json", "--log-level", "error")
	require.NoError(t, err)

	var page struct {
		Resource string              `json:"resource"`
		Total    int                 `json:"total"`
		Rows     []map[string]string `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, "companies", page.Resource)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Rows, 1)

	req, ok := b.Last("GET", "/suppliers")
	require.True(t, ok)
	assert.Equal(t, "Bearer t0k", req.Header.Get("Authorization"))
}

func TestListCommandWithoutCredentials(t *testing.T) {
	t.Setenv("CONTRATOS_API_TOKEN", "")
	b := testutil.NewBackend(t)
	b.JSON("GET /contracts", http.StatusUnauthorized, map[string]any{"message": "Acesso negado"})

	_, err := execute(t, "list", "contracts", "--api-url", b.URL, "--log-level", "error")
	assert.EqualError(t, err, "Acesso negado")

	req, ok := b.Last("GET", "/contracts")
	require.True(t, ok, "the request is sent and the backend decides")
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestListCommandUnknownResource(t *testing.T) {
	_, err := execute(t, "list", "invoices", "--token", "t")
	assert.ErrorContains(t, err, "unknown resource")
}

func TestInvalidConfigFile(t *testing.T) {
	_, err := execute(t, "list", "contracts", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "contratos")
}
