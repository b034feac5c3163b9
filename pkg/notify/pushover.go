package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/sharktamer/gtsnotifier/pkg/config"
	"github.com/sharktamer/gtsnotifier/pkg/watch"
)

const (
	pushoverMessagesPath = "/1/messages.json"
	pushoverValidatePath = "/1/users/validate.json"
)

// PushoverClient dispatches push notifications through the Pushover API.
type PushoverClient struct {
	cfg    *config.PushoverConfig
	http   *http.Client
	logger *zap.Logger
}

// NewPushoverClient creates a Pushover dispatcher.
func NewPushoverClient(cfg *config.PushoverConfig, logger *zap.Logger) *PushoverClient {
	return &PushoverClient{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger,
	}
}

// Channel returns the push channel kind.
func (c *PushoverClient) Channel() watch.Channel {
	return watch.ChannelPush
}

// Send posts a message to the user's Pushover key.
func (c *PushoverClient) Send(ctx context.Context, destination, message string) error {
	form := url.Values{
		"token":   {c.cfg.AppToken},
		"user":    {destination},
		"message": {message},
	}

	if err := c.postForm(ctx, pushoverMessagesPath, form); err != nil {
		return &DispatchError{Channel: watch.ChannelPush, Destination: destination, Err: err}
	}
	return nil
}

// Validate asks the provider whether the user key exists. The check is
// skipped when destination validation is disabled in configuration.
func (c *PushoverClient) Validate(ctx context.Context, destination string) error {
	if !c.cfg.ValidateDestination {
		return nil
	}

	form := url.Values{
		"token": {c.cfg.AppToken},
		"user":  {destination},
	}
	if err := c.postForm(ctx, pushoverValidatePath, form); err != nil {
		return fmt.Errorf("pushover user validation: %w", err)
	}
	return nil
}

func (c *PushoverClient) postForm(ctx context.Context, path string, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
