package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"bbdash/internal/config"

	"golang.org/x/oauth2/clientcredentials"
)

// Client talks to the build master's JSON status API. Codebase branch
// selection is appended to every request as <codebase>_branch query
// parameters, the way the master's web UI does it.
type Client struct {
	mu        sync.RWMutex
	baseURL   string
	codebases map[string]string
	http      *http.Client
}

func New(cfg *config.Config) *Client {
	httpClient := &http.Client{Timeout: 15 * time.Second}

	if cfg.Auth.TokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.Auth.ClientID,
			ClientSecret: cfg.Auth.ClientSecret,
			TokenURL:     cfg.Auth.TokenURL,
		}
		httpClient = cc.Client(context.Background())
		httpClient.Timeout = 15 * time.Second
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.MasterURL, "/"),
		codebases: cfg.Codebases,
		http:      httpClient,
	}
}

// SetCodebases swaps the branch selection, used on config reload.
func (c *Client) SetCodebases(codebases map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.codebases = codebases
}

func (c *Client) buildURL(path string, extra url.Values) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	q := url.Values{}
	for codebase, branch := range c.codebases {
		q.Set(codebase+"_branch", branch)
	}
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}

	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	return u
}

// Raw performs a GET against the master and returns the undecoded body.
func (c *Client) Raw(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(path, nil), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach master: %w", err)
	}

	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("master returned %s for %s", resp.Status, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read master response: %w", err)
	}

	return body, nil
}

func ProjectPath(project string) string {
	return "/json/projects/" + url.PathEscape(project)
}

func BuilderPath(builder string) string {
	return "/json/builders/" + url.PathEscape(builder)
}

// RecentBuildsPath selects the last n builds of a builder. The master spells
// "last n" as a <n path element.
func RecentBuildsPath(builder string, n int) string {
	return fmt.Sprintf("/json/builders/%s/builds/%s",
		url.PathEscape(builder), url.PathEscape(fmt.Sprintf("<%d", n)))
}

func PendingPath(builder string) string {
	return "/json/pending/" + url.PathEscape(builder)
}

const (
	SlavesPath       = "/json/slaves"
	GlobalStatusPath = "/json/globalstatus"
	BuildQueuePath   = "/json/buildqueue"
)

// CancelBuild asks the master to stop a running build.
func (c *Client) CancelBuild(ctx context.Context, builder string, number int, reason string) error {
	path := fmt.Sprintf("/builders/%s/builds/%d/stop", url.PathEscape(builder), number)
	return c.postForm(ctx, path, url.Values{"comments": {reason}})
}

// ForceBuild requests a new build on a builder for the selected branch.
func (c *Client) ForceBuild(ctx context.Context, builder, branch, reason string) error {
	form := url.Values{"reason": {reason}}
	if branch != "" {
		form.Set("branch", branch)
	}

	path := fmt.Sprintf("/builders/%s/force", url.PathEscape(builder))
	return c.postForm(ctx, path, form)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.buildURL(path, nil), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach master: %w", err)
	}

	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	// The master answers build actions with a redirect back to the builder
	// page; anything below 400 counts as accepted.
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("master rejected %s: %s", path, resp.Status)
	}

	return nil
}
