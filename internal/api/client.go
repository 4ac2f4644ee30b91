package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"contactapp/cterm/internal/models"
)

const (
	DefaultBaseURL = "http://localhost:8080"
	DefaultTimeout = 15 * time.Second

	maxBodyBytes = 4 << 20
)

// Client talks to the contact backend over HTTP. The bearer token is shared by
// all requests once set.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	logger     *slog.Logger

	mu    sync.RWMutex
	token string
}

func NewClient(config Config, logger *slog.Logger) (*Client, error) {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	base, err := url.Parse(strings.TrimRight(config.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url scheme: %q", base.Scheme)
	}

	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		baseURL:    base,
		logger:     logger,
	}, nil
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Register creates an account. The backend answers 400 when the email is taken.
func (c *Client) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", reg, &user, false); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for a bearer token. The token is returned, not
// stored; callers decide whether to keep it.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/auth/login", creds, false)
	if err != nil {
		return "", err
	}

	token := strings.TrimSpace(string(body))
	if strings.HasPrefix(token, `"`) {
		if err := json.Unmarshal([]byte(token), &token); err != nil {
			return "", NewDecodeError("login token", err)
		}
	}
	if token == "" {
		return "", NewDecodeError("login token", fmt.Errorf("empty token"))
	}
	return token, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, http.MethodPut, "/auth/profile", update, &user, true); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListContacts(ctx context.Context) ([]models.Contact, error) {
	var contacts []models.Contact
	if err := c.doJSON(ctx, http.MethodGet, "/contacts", nil, &contacts, true); err != nil {
		return nil, err
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}
	return contacts, nil
}

func (c *Client) CreateContact(ctx context.Context, contact models.Contact) (*models.Contact, error) {
	contact.ID = nil
	var created models.Contact
	if err := c.doJSON(ctx, http.MethodPost, "/contacts", contact, &created, true); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateContact(ctx context.Context, id int64, contact models.Contact) (*models.Contact, error) {
	contact.ID = &id
	var updated models.Contact
	if err := c.doJSON(ctx, http.MethodPut, contactPath(id), contact, &updated, true); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteContact(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, contactPath(id), nil, true)
	return err
}

func contactPath(id int64) string {
	return "/contacts/" + strconv.FormatInt(id, 10)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any, auth bool) error {
	body, err := c.do(ctx, method, path, in, auth)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return NewDecodeError("response from "+path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in any, auth bool) ([]byte, error) {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		token := c.Token()
		if token == "" {
			return nil, NewAPIError(ErrNotAuthenticated, "no session token", nil)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("request_id", requestID),
			slog.Any("error", err))
		return nil, ClassifyError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, NewNetworkError("failed to read response", err)
	}

	c.logger.Debug("request completed",
		slog.String("method", method),
		slog.String("path", path),
		slog.String("request_id", requestID),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, NewStatusError(resp.StatusCode, errorMessage(body))
	}
	return body, nil
}

func errorMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Message != "" {
			return eb.Message
		}
		return eb.Error
	}
	return ""
}
