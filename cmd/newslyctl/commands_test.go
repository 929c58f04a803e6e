package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dom/newsly/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, ts *testutil.TestServer, session string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--api", ts.BaseURL(), "--session", session}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_SessionFlow(t *testing.T) {
	ts := testutil.NewTestServer(t)
	session := filepath.Join(t.TempDir(), "session")

	out, err := run(t, ts, session, "signup", "--name", "Asha", "--email", "asha@example.com", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "Signup successful!")

	out, err = run(t, ts, session, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")

	_, err = run(t, ts, session, "signin", "--email", "asha@example.com", "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid email or password")

	out, err = run(t, ts, session, "signin", "--email", "asha@example.com", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Asha <asha@example.com>")
	assert.FileExists(t, session)

	out, err = run(t, ts, session, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Asha")

	out, err = run(t, ts, session, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	_, statErr := os.Stat(session)
	assert.True(t, os.IsNotExist(statErr), "logout should remove the stored session")
}

func TestCLI_News(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ts.News.Articles = testutil.Articles(2)
	session := filepath.Join(t.TempDir(), "session")

	out, err := run(t, ts, session, "headlines")
	require.NoError(t, err)
	assert.Contains(t, out, "Story 1")
	assert.Contains(t, out, "Story 2")

	out, err = run(t, ts, session, "regional", "kerala")
	require.NoError(t, err)
	assert.Contains(t, out, "Region: kerala (lang ml)")

	_, err = run(t, ts, session, "search", " ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Query is required")
}

func TestCLI_Epapers(t *testing.T) {
	ts := testutil.NewTestServer(t)
	session := filepath.Join(t.TempDir(), "session")

	out, err := run(t, ts, session, "epapers")
	require.NoError(t, err)
	assert.Contains(t, out, "lokmat")

	out, err = run(t, ts, session, "pdf", "lokmat")
	require.NoError(t, err)
	assert.Contains(t, out, "No PDF link found")

	ts.PDF.URL = "https://cdn.example.com/lokmat.pdf"
	out, err = run(t, ts, session, "pdf", "lokmat")
	require.NoError(t, err)
	assert.Contains(t, out, "https://cdn.example.com/lokmat.pdf")

	_, err = run(t, ts, session, "pdf", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Epaper not found")
}

func TestCLI_Stream(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ts.News.Articles = testutil.Articles(1)

	client := NewAPIClient(ts.BaseURL(), "")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var events []SSEEvent
	err := client.Stream(ctx, func(ev SSEEvent) error {
		events = append(events, ev)
		if len(events) == 2 {
			cancel()
		}
		return nil
	})

	assert.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "headlines", events[0].Type)
}
