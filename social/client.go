// Package social announces approved articles on X.
package social

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"newsdesk/config"
	"newsdesk/helper"
	"newsdesk/models"
)

const defaultTimeout = 5 * time.Second

type Client struct {
	cfg  config.SocialConfig
	http *http.Client
	log  *slog.Logger
}

func NewClient(cfg config.SocialConfig, log *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log,
	}
}

// Enabled reports whether posting is switched on and fully configured.
func (c *Client) Enabled() bool {
	return c.cfg.Enabled && c.cfg.APIURL != "" && c.cfg.BearerToken != ""
}

// PostText renders the announcement for an article.
func PostText(article *models.Article, baseURL string) string {
	return fmt.Sprintf("%s\n\nRead: %s", article.Title, models.ArticleURL(baseURL, article.ID))
}

// Post sends the announcement and reports whether the API accepted it.
// Disabled posting returns false without making a request.
func (c *Client) Post(ctx context.Context, article *models.Article, baseURL string) bool {
	if !c.Enabled() {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	if err := c.post(ctx, PostText(article, baseURL)); err != nil {
		c.log.Warn("social post failed", slog.Uint64("article_id", uint64(article.ID)), helper.Err(err))
		return false
	}
	return true
}

func (c *Client) post(ctx context.Context, text string) error {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.BearerToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
