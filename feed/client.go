package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultResearchLimit = 100
	IPOsPerPage          = 10
)

var ErrRemote = errors.ErrRemote

// Client fetches the public content feeds. Research lives on the auth service,
// everything else on the feed host.
type Client struct {
	authBaseURL string
	feedBaseURL string
	httpClient  *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func New(authBaseURL, feedBaseURL string, options ...Option) *Client {
	c := &Client{
		authBaseURL: strings.TrimRight(authBaseURL, "/"),
		feedBaseURL: strings.TrimRight(feedBaseURL, "/"),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *Client) Research(ctx context.Context, skip, limit int) ([]ResearchItem, error) {
	if limit <= 0 {
		limit = DefaultResearchLimit
	}
	query := url.Values{}
	query.Set("skip", strconv.Itoa(max(skip, 0)))
	query.Set("limit", strconv.Itoa(limit))

	var items []ResearchItem
	if err := c.getJSON(ctx, c.authBaseURL+"/researcher/?"+query.Encode(), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) News(ctx context.Context) ([]NewsItem, error) {
	var items []NewsItem
	if err := c.getJSON(ctx, c.feedBaseURL+"/news/home", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// IPOs lists IPOs for key. The upcoming key returns open issues and draft filings separately.
func (c *Client) IPOs(ctx context.Context, key string) (*IPOList, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.getJSON(ctx, c.feedBaseURL+"/ipo?"+url.Values{"key": {key}}.Encode(), &envelope); err != nil {
		return nil, err
	}

	list := &IPOList{Key: key}
	if isNull(envelope.Data) {
		return list, nil
	}

	if key == UpcomingIPOKey {
		var upcoming struct {
			UpcomingOpen []Record `json:"upcoming_open"`
			DraftIssues  []Record `json:"draft_issues"`
		}
		if err := json.Unmarshal(envelope.Data, &upcoming); err != nil {
			return nil, fmt.Errorf("%w: invalid upcoming IPO payload: %w", ErrRemote, err)
		}
		list.Items, list.DraftIssues = upcoming.UpcomingOpen, upcoming.DraftIssues
		return list, nil
	}

	if err := json.Unmarshal(envelope.Data, &list.Items); err != nil {
		return nil, fmt.Errorf("%w: invalid IPO payload: %w", ErrRemote, err)
	}
	return list, nil
}

func (c *Client) CorporateActions(ctx context.Context, key string) ([]Record, error) {
	var envelope struct {
		Data []Record `json:"data"`
	}
	if err := c.getJSON(ctx, c.feedBaseURL+"/corporate-action?"+url.Values{"key": {key}}.Encode(), &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

func (c *Client) CorporateCalendar(ctx context.Context) ([]CalendarItem, error) {
	var envelope struct {
		Data []CalendarItem `json:"data"`
	}
	if err := c.getJSON(ctx, c.feedBaseURL+"/corporate-calendar", &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// Home loads research and news concurrently. Either failure cancels the other.
func (c *Client) Home(ctx context.Context) (*HomeFeed, error) {
	g, ctx := errgroup.WithContext(ctx)

	var home HomeFeed
	g.Go(func() error {
		research, err := c.Research(ctx, 0, DefaultResearchLimit)
		if err != nil {
			return errors.Wrapf(err, "research")
		}
		home.Research = research
		return nil
	})
	g.Go(func() error {
		news, err := c.News(ctx)
		if err != nil {
			return errors.Wrapf(err, "news")
		}
		home.News = news
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &home, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: request aborted: %w", ErrRemote, ctxErr)
		}
		return fmt.Errorf("%w: cannot reach %s: %w", ErrRemote, req.URL.Host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
		log.Debug().Int("status", resp.StatusCode).Str("path", req.URL.Path).Msg("feed request failed")
		return errors.Wrapf(ErrRemote, "%s returned status %d", req.URL.Path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: invalid response from %s: %w", ErrRemote, req.URL.Path, err)
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}
