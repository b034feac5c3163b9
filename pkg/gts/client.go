package gts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/sharktamer/gtsnotifier/pkg/config"
)

const (
	tradeListPath = "/frontendApi/mypage/getGtsTradeList"

	// The provider caps the response to the most recent trades; a single
	// record is all the reconciliation engine ever looks at.
	tradeListCount = "1"
)

// Client talks to the game service over plain HTTP. It covers the two
// queries the notifier needs: the trade list for a registered profile and
// the public profile page used during registration.
type Client struct {
	cfg    *config.GTSConfig
	http   *http.Client
	logger *zap.Logger
}

// TradeQuery identifies a profile on the game service. AccountID and
// SaveDataID are the sub-identifiers scraped from the profile page at
// registration time.
type TradeQuery struct {
	ProfileID  string
	AccountID  string
	SaveDataID string
}

// TradeResult is the most recent completed trade for a profile.
type TradeResult struct {
	// SentItem is the name of the item the user deposited.
	SentItem string
	// ReceivedItem is the name of the item the user received.
	ReceivedItem string
	// TradeDate is the provider's completion identifier, an opaque
	// timestamp string. It is compared for equality only.
	TradeDate string
}

// NewClient creates a game service client with per-request timeouts.
func NewClient(cfg *config.GTSConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger,
	}
}

// tradeListResponse mirrors the provider's JSON payload. Only the fields
// the notifier consumes are mapped.
type tradeListResponse struct {
	TradeList []struct {
		PostSimple struct {
			Name string `json:"name"`
		} `json:"postSimple"`
		TradePokemon struct {
			Name string `json:"name"`
		} `json:"tradePokemon"`
		TradeDate string `json:"tradeDate"`
	} `json:"tradeList"`
}

// FetchTradeState fetches the most recent trade for the given profile.
// A nil result with a nil error means the profile has no completed trade
// yet; that case is not an error.
func (c *Client) FetchTradeState(ctx context.Context, query TradeQuery) (*TradeResult, error) {
	form := url.Values{
		"languageId":           {c.cfg.LanguageID},
		"memberSavedataIdCode": {query.ProfileID},
		"accountId":            {query.AccountID},
		"savedataId":           {query.SaveDataID},
		"count":                {tradeListCount},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+tradeListPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, serviceError(query.ProfileID, "trade list request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Referer", c.profileURL(query.ProfileID))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, serviceError(query.ProfileID, "trade list request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, serviceError(query.ProfileID, "trade list request",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var payload tradeListResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, serviceError(query.ProfileID, "trade list decode", err)
	}

	if len(payload.TradeList) == 0 {
		c.logger.Debug("No completed trade yet", zap.String("profile_id", query.ProfileID))
		return nil, nil
	}

	latest := payload.TradeList[0]
	if latest.TradeDate == "" {
		return nil, serviceError(query.ProfileID, "trade list decode",
			fmt.Errorf("trade record missing tradeDate"))
	}

	return &TradeResult{
		SentItem:     latest.PostSimple.Name,
		ReceivedItem: latest.TradePokemon.Name,
		TradeDate:    latest.TradeDate,
	}, nil
}

// FetchProfilePage fetches a user's public profile page. Redirects are
// followed; the final resolved URL is preserved so callers can detect the
// provider bouncing invalid or private profiles back to its homepage.
func (c *Client) FetchProfilePage(ctx context.Context, profileID string) (*ProfilePage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.profileURL(profileID), nil)
	if err != nil {
		return nil, serviceError(profileID, "profile request", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, serviceError(profileID, "profile request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, serviceError(profileID, "profile request",
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, serviceError(profileID, "profile read", err)
	}

	return &ProfilePage{
		ProfileID: profileID,
		FinalURL:  resp.Request.URL.String(),
		RootURL:   c.rootURL(),
		Body:      body,
	}, nil
}

func (c *Client) profileURL(profileID string) string {
	return fmt.Sprintf("%s/user/%s/gts/", strings.TrimRight(c.cfg.BaseURL, "/"), profileID)
}

func (c *Client) rootURL() string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/"
}
