// Package delivery publishes the rendered report and sends the
// notification summary.
package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wonny/alpha/internal/contracts"
	"github.com/wonny/alpha/pkg/config"
	"github.com/wonny/alpha/pkg/httputil"
	"github.com/wonny/alpha/pkg/logger"
)

// GitHubPublisher publishes each day's report as a GitHub issue,
// updating in place when the day's issue already exists
// ⭐ SSOT: GitHub 이슈 발행은 여기서만
type GitHubPublisher struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cfg        config.GitHubConfig
}

// NewGitHubPublisher creates an issue publisher
func NewGitHubPublisher(cfg config.GitHubConfig, httpClient *httputil.Client, log *logger.Logger) *GitHubPublisher {
	return &GitHubPublisher{
		httpClient: httpClient,
		logger:     log,
		cfg:        cfg,
	}
}

type issue struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
}

func (p *GitHubPublisher) headers() map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + p.cfg.Token,
		"Accept":        "application/vnd.github+json",
	}
}

func issueTitle(date time.Time) string {
	return fmt.Sprintf("Daily Digest %s", date.Format("2006-01-02"))
}

// Publish creates the day's issue, or updates its body when a rerun
// publishes the same date twice.
func (p *GitHubPublisher) Publish(ctx context.Context, report *contracts.Report, rendered string) error {
	title := issueTitle(report.Date)

	existing, err := p.findIssue(ctx, title)
	if err != nil {
		return fmt.Errorf("find existing issue: %w", err)
	}

	if existing != nil {
		return p.updateIssue(ctx, existing.Number, rendered)
	}
	return p.createIssue(ctx, title, rendered, report.Status)
}

// findIssue looks for an open issue with the exact day title
func (p *GitHubPublisher) findIssue(ctx context.Context, title string) (*issue, error) {
	apiURL := fmt.Sprintf("%s/repos/%s/issues?state=open&labels=digest&per_page=50",
		p.cfg.BaseURL, p.cfg.Repository)

	resp, err := p.httpClient.GetWithHeaders(ctx, apiURL, p.headers())
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("list issues: status %d: %s", resp.StatusCode, string(body))
	}

	var issues []issue
	if err := json.NewDecoder(resp.Body).Decode(&issues); err != nil {
		return nil, fmt.Errorf("decode issue list: %w", err)
	}

	for i := range issues {
		if issues[i].Title == title {
			return &issues[i], nil
		}
	}
	return nil, nil
}

func (p *GitHubPublisher) createIssue(ctx context.Context, title, body string, status contracts.ReportStatus) error {
	apiURL := fmt.Sprintf("%s/repos/%s/issues", p.cfg.BaseURL, p.cfg.Repository)

	labels := []string{"digest"}
	if status == contracts.StatusPartial {
		labels = append(labels, "partial")
	}

	payload := map[string]interface{}{
		"title":  title,
		"body":   body,
		"labels": labels,
	}

	resp, err := p.httpClient.PostJSON(ctx, apiURL, payload, p.headers())
	if err != nil {
		return fmt.Errorf("create issue: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("create issue: status %d: %s", resp.StatusCode, string(respBody))
	}

	p.logger.WithField("title", title).Info("Published report issue")
	return nil
}

func (p *GitHubPublisher) updateIssue(ctx context.Context, number int, body string) error {
	apiURL := fmt.Sprintf("%s/repos/%s/issues/%d", p.cfg.BaseURL, p.cfg.Repository, number)

	payload := map[string]interface{}{"body": body}

	resp, err := p.httpClient.PatchJSON(ctx, apiURL, payload, p.headers())
	if err != nil {
		return fmt.Errorf("update issue #%d: %w", number, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("update issue #%d: status %d: %s", number, resp.StatusCode, string(respBody))
	}

	p.logger.WithField("issue", number).Info("Updated report issue")
	return nil
}
