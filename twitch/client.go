package twitch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/whisper-darkly/tuitch/logger"
	"github.com/whisper-darkly/tuitch/units"
)

const defaultEndpoint = "https://gql.twitch.tv/gql"

// Config holds the fixed request headers and transport knobs.
type Config struct {
	Endpoint string        // empty = production endpoint
	ClientID string        // required by the server; the id of the webapp
	DeviceID string        // required for some requests; can be anything
	Locale   string        // Accept-Language, drives recommendations and title localization
	Timeout  time.Duration // per-request; 0 = 15s
}

// Client issues persisted-query POSTs and plain manifest GETs.
type Client struct {
	http     *http.Client
	endpoint string
	cfg      Config
	log      *logger.Logger
}

// New creates a Client. log may not be nil.
func New(cfg Config, log *logger.Logger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		http:     &http.Client{Timeout: cfg.Timeout},
		endpoint: cfg.Endpoint,
		cfg:      cfg,
		log:      log,
	}
}

// post sends one or more request bodies (the server accepts a batch array)
// and returns the raw response bytes.
func (c *Client) post(ctx context.Context, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Client-Id", c.cfg.ClientID)
	req.Header.Set("X-Device-Id", c.cfg.DeviceID)
	req.Header.Set("Accept-Language", c.cfg.Locale)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: http %d: %s", ErrTransport, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	c.log.Debug("gql response: %s", units.FormatSize(len(b)))
	return b, nil
}

// Fetch runs one catalog request and decodes the envelope.
func (c *Client) Fetch(ctx context.Context, req Request) (*Envelope, error) {
	body, err := c.post(ctx, req)
	if err != nil {
		return nil, err
	}
	return DecodeEnvelope(body)
}

// ClipToken exchanges a clip slug for its playback token and rendition list.
func (c *Client) ClipToken(ctx context.Context, slug string) (PlaybackAccessToken, []ClipQuality, error) {
	body, err := c.post(ctx, ClipTokenRequest(slug))
	if err != nil {
		return PlaybackAccessToken{}, nil, err
	}

	var resp clipTokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return PlaybackAccessToken{}, nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if resp.Data == nil || resp.Data.Clip == nil || len(resp.Data.Clip.VideoQualities) == 0 {
		return PlaybackAccessToken{}, nil, fmt.Errorf("%w: clip token for %q", ErrMalformedResponse, slug)
	}
	return resp.Data.Clip.PlaybackAccessToken, resp.Data.Clip.VideoQualities, nil
}

// VODToken exchanges a VOD id for its signed manifest token.
func (c *Client) VODToken(ctx context.Context, id string) (PlaybackAccessToken, error) {
	body, err := c.post(ctx, VODTokenRequest(id))
	if err != nil {
		return PlaybackAccessToken{}, err
	}

	var resp vodTokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return PlaybackAccessToken{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if resp.Data == nil || resp.Data.VideoPlaybackAccessToken == nil {
		return PlaybackAccessToken{}, fmt.Errorf("%w: vod token for %q", ErrMalformedResponse, id)
	}
	return *resp.Data.VideoPlaybackAccessToken, nil
}

// ChannelID resolves a login to the numeric channel id used in pubsub topics.
func (c *Client) ChannelID(ctx context.Context, login string) (string, error) {
	body, err := c.post(ctx, ChannelShellRequest(login))
	if err != nil {
		return "", err
	}

	var resp channelShellResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if resp.Data == nil || resp.Data.UserOrError == nil || resp.Data.UserOrError.ID == "" {
		return "", fmt.Errorf("%w: channel id for %q", ErrMalformedResponse, login)
	}
	return resp.Data.UserOrError.ID, nil
}

// OnlineLogins checks the given channels in one batched request and returns
// the subset that is currently live, in input order. Channels whose status
// cannot be read (banned, deleted) are skipped silently.
func (c *Client) OnlineLogins(ctx context.Context, logins []string) ([]string, error) {
	batch := make([]Request, len(logins))
	for i, login := range logins {
		batch[i] = LiveStatusRequest(login)
	}

	body, err := c.post(ctx, batch)
	if err != nil {
		return nil, err
	}

	var resps []liveStatusResponse
	if err := json.Unmarshal(body, &resps); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var online []string
	for i, r := range resps {
		if i >= len(logins) {
			break
		}
		if r.Data.User != nil && r.Data.User.Stream != nil {
			online = append(online, logins[i])
		}
	}
	return online, nil
}

// FetchManifest GETs a playlist URL and returns the raw body. VOD manifests
// are served unauthenticated once the signed URL is built.
func (c *Client) FetchManifest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: http %d fetching manifest", ErrTransport, resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read manifest: %v", ErrTransport, err)
	}
	c.log.Debug("manifest: %s", units.FormatSize(len(b)))
	return b, nil
}
