package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/alpha/internal/contracts"
	"github.com/wonny/alpha/pkg/config"
	"github.com/wonny/alpha/pkg/httputil"
	"github.com/wonny/alpha/pkg/logger"
)

func testReport() *contracts.Report {
	rep := contracts.NewReport(time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC))
	rep.GeneratedAt = time.Now()
	return rep
}

func githubPublisher(baseURL string) *GitHubPublisher {
	cfg := config.GitHubConfig{
		Token:      "test-token",
		Repository: "wonny/digests",
		BaseURL:    baseURL,
	}
	return NewGitHubPublisher(cfg, httputil.New(logger.Nop()).DisableRetry(), logger.Nop())
}

func TestPublish_CreatesNewIssue(t *testing.T) {
	var created map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			w.Write([]byte(`[]`))
		case r.Method == http.MethodPost:
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			json.NewDecoder(r.Body).Decode(&created)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"number": 42}`))
		}
	}))
	defer srv.Close()

	err := githubPublisher(srv.URL).Publish(context.Background(), testReport(), "# body")
	require.NoError(t, err, "publish failed")

	assert.Equal(t, "Daily Digest 2026-08-24", created["title"])
	assert.Equal(t, "# body", created["body"])
}

func TestPublish_UpdatesExistingIssue(t *testing.T) {
	var patchedPath string
	var patched map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`[{"number": 7, "title": "Daily Digest 2026-08-24"}]`))
		case http.MethodPatch:
			patchedPath = r.URL.Path
			json.NewDecoder(r.Body).Decode(&patched)
			w.Write([]byte(`{"number": 7}`))
		case http.MethodPost:
			t.Error("Must update, not create")
		}
	}))
	defer srv.Close()

	err := githubPublisher(srv.URL).Publish(context.Background(), testReport(), "# updated")
	require.NoError(t, err, "publish failed")

	assert.True(t, strings.HasSuffix(patchedPath, "/issues/7"), "unexpected patch path %s", patchedPath)
	assert.Equal(t, "# updated", patched["body"])
}

func TestPublish_PartialReportGetsLabel(t *testing.T) {
	var created struct {
		Labels []string `json:"labels"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write([]byte(`[]`))
		case http.MethodPost:
			json.NewDecoder(r.Body).Decode(&created)
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"number": 1}`))
		}
	}))
	defer srv.Close()

	rep := testReport()
	rep.MarkUnavailable(contracts.SectionMetalsAdvice, "down")

	err := githubPublisher(srv.URL).Publish(context.Background(), rep, "# body")
	require.NoError(t, err, "publish failed")

	assert.Contains(t, created.Labels, "partial")
}

func TestTelegramNotify(t *testing.T) {
	var gotPath string
	var payload map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&payload)
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	cfg := config.TelegramConfig{BotToken: "bot-token", ChatID: "12345"}
	notifier := NewTelegramNotifier(cfg, httputil.New(logger.Nop()).DisableRetry(), logger.Nop()).WithBaseURL(srv.URL)

	err := notifier.Notify(context.Background(), "Digest 2026-08-24 [COMPLETE]")
	require.NoError(t, err, "notify failed")

	assert.Equal(t, "/botbot-token/sendMessage", gotPath)
	assert.Equal(t, "12345", payload["chat_id"])
	assert.Equal(t, "Digest 2026-08-24 [COMPLETE]", payload["text"])
}

func TestTelegramNotify_RejectedMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": false, "description": "chat not found"}`))
	}))
	defer srv.Close()

	cfg := config.TelegramConfig{BotToken: "t", ChatID: "1"}
	notifier := NewTelegramNotifier(cfg, httputil.New(logger.Nop()).DisableRetry(), logger.Nop()).WithBaseURL(srv.URL)

	err := notifier.Notify(context.Background(), "hi")
	assert.Error(t, err, "rejected message must surface")
}

func TestFilePublisher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")

	err := NewFilePublisher(path, logger.Nop()).Publish(context.Background(), testReport(), "# digest")
	require.NoError(t, err, "publish failed")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# digest", string(data))
}
