package api

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readEvent returns the name and data of the next SSE event.
func readEvent(t *testing.T, lines <-chan string) (string, string) {
	t.Helper()

	var name, data string
	for {
		select {
		case line, ok := <-lines:
			require.True(t, ok, "stream closed")
			switch {
			case strings.HasPrefix(line, "event: "):
				name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "" && name != "":
				return name, data
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestEvents_StreamsOwnChanges(t *testing.T) {
	ts := setupTestServer(t, Options{})
	srv := httptest.NewServer(ts.Server)
	t.Cleanup(srv.Close)

	adaAuth := ts.authHeader(t, ada)
	graceAuth := ts.authHeader(t, grace)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", strings.TrimPrefix(adaAuth, "Authorization: "))

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	name, _ := readEvent(t, lines)
	require.Equal(t, "connected", name)

	ts.createBook(t, graceAuth, "Grace's Pies")
	ts.createBook(t, adaAuth, "Ada's Breads")

	name, data := readEvent(t, lines)
	assert.Equal(t, "book.created", name)
	assert.Contains(t, data, "Ada's Breads")
	assert.NotContains(t, data, "Grace")
}

func TestEvents_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/events")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Equal(t, "UNAUTHORIZED", decode[errorBody](t, resp).Code)
}
