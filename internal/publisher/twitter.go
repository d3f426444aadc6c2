package publisher

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jmeerdink/nieuwsbot/internal/post"
)

const twitterBaseURL = "https://api.twitter.com"

// TwitterPublisher posts tweets via the v2 API with OAuth 1.0a user
// context. Twitter does not process media asynchronously for text posts,
// so publishing is a single call.
type TwitterPublisher struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	apiSecret    string
	accessToken  string
	accessSecret string
}

// TwitterConfig holds credentials for the Twitter publisher.
type TwitterConfig struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// NewTwitterPublisher creates a new Twitter publisher.
func NewTwitterPublisher(cfg TwitterConfig) *TwitterPublisher {
	return &TwitterPublisher{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:      twitterBaseURL,
		apiKey:       cfg.APIKey,
		apiSecret:    cfg.APISecret,
		accessToken:  cfg.AccessToken,
		accessSecret: cfg.AccessSecret,
	}
}

// Platform returns the platform name.
func (t *TwitterPublisher) Platform() post.Platform {
	return post.PlatformTwitter
}

// ValidateCredentials checks that all four OAuth credentials are present.
func (t *TwitterPublisher) ValidateCredentials(ctx context.Context) error {
	if t.apiKey == "" || t.apiSecret == "" || t.accessToken == "" || t.accessSecret == "" {
		return &ConfigurationError{Platform: string(post.PlatformTwitter)}
	}
	return nil
}

// createTweetRequest is the request body for POST /2/tweets.
type createTweetRequest struct {
	Text string `json:"text"`
}

// createTweetResponse is the response from POST /2/tweets.
type createTweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// Publish posts the rendered tweet and returns the tweet ID and URL.
func (t *TwitterPublisher) Publish(ctx context.Context, p post.Post) (*Result, error) {
	if err := t.ValidateCredentials(ctx); err != nil {
		return nil, err
	}

	text := post.Render(p)

	body, err := json.Marshal(createTweetRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := t.baseURL + "/2/tweets"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", t.authorizationHeader("POST", url))

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusBadRequest {
		return nil, &ValidationError{
			Platform: string(post.PlatformTwitter),
			Reason:   strings.TrimSpace(string(respBody)),
		}
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tweet failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	var created createTweetResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if created.Data.ID == "" {
		slog.Warn("tweet not confirmed by API", "title", p.Title)
		return &Result{}, nil
	}

	result := &Result{
		RemoteID: created.Data.ID,
		URL:      fmt.Sprintf("https://twitter.com/i/web/status/%s", created.Data.ID),
	}

	slog.Info("posted tweet", "id", result.RemoteID, "url", result.URL)
	return result, nil
}

// authorizationHeader builds the OAuth 1.0a Authorization header for a
// request with a JSON body (body parameters are excluded from the
// signature base string).
func (t *TwitterPublisher) authorizationHeader(method, url string) string {
	params := map[string]string{
		"oauth_consumer_key":     t.apiKey,
		"oauth_nonce":            nonce(),
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        strconv.FormatInt(time.Now().Unix(), 10),
		"oauth_token":            t.accessToken,
		"oauth_version":          "1.0",
	}

	params["oauth_signature"] = t.sign(method, url, params)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("OAuth ")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, `%s="%s"`, percentEncode(k), percentEncode(params[k]))
	}
	return b.String()
}

func (t *TwitterPublisher) sign(method, url string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, percentEncode(k)+"="+percentEncode(params[k]))
	}

	base := strings.ToUpper(method) + "&" + percentEncode(url) + "&" + percentEncode(strings.Join(pairs, "&"))
	key := percentEncode(t.apiSecret) + "&" + percentEncode(t.accessSecret)

	mac := hmac.New(sha1.New, []byte(key))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func nonce() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is unrecoverable; a timestamp nonce keeps
		// the request well-formed.
		return strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	return hex.EncodeToString(b)
}

// percentEncode applies RFC 3986 percent-encoding as required by OAuth 1.0a.
func percentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') || c == '-' || c == '.' || c == '_' || c == '~' {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}
