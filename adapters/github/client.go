package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/allandacasin/devconnector-api/internal/application/service"
	"github.com/allandacasin/devconnector-api/internal/config"
	"github.com/allandacasin/devconnector-api/pkg/apperror"
	"github.com/allandacasin/devconnector-api/pkg/logger"
)

const defaultBaseURL = "https://api.github.com"

// Client fetches the five most recently created repositories of a user.
// The client id/secret pair is service configuration, never caller input.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	logger       logger.Logger
}

func NewClient(cfg config.Config, log logger.Logger) service.RepoLister {
	return &Client{
		baseURL:      defaultBaseURL,
		clientID:     cfg.GitHub.ClientID,
		clientSecret: cfg.GitHub.ClientSecret,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		logger:       log,
	}
}

// NewClientWithBaseURL is for tests pointing at a local server.
func NewClientWithBaseURL(baseURL string, cfg config.Config, log logger.Logger) service.RepoLister {
	c := NewClient(cfg, log).(*Client)
	c.baseURL = baseURL
	return c
}

func (c *Client) ListRepos(ctx context.Context, username string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("per_page", "5")
	q.Set("sort", "created:asc")
	q.Set("client_id", c.clientID)
	q.Set("client_secret", c.clientSecret)

	endpoint := fmt.Sprintf("%s/users/%s/repos?%s", c.baseURL, url.PathEscape(username), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperror.NewInternal("failed to build github request", err)
	}
	req.Header.Set("User-Agent", "devconnector-api")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperror.NewUpstream("No Github profile found.", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("github lookup returned non-success status",
			zap.String("username", username),
			zap.Int("status", resp.StatusCode))
		return nil, apperror.NewNotFound("No Github profile found.")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.NewUpstream("No Github profile found.", err)
	}

	return json.RawMessage(body), nil
}
