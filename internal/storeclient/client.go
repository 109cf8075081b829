// Package storeclient talks to the guest record store over HTTP.
package storeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"wedding-rsvp/internal/models"
)

// AdminTokenHeader carries the admin API token
const AdminTokenHeader = "X-Admin-Token"

// StatusError is returned when the store answers with a non-2xx status.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("store returned status %d", e.Code)
	}
	return fmt.Sprintf("store returned status %d: %s", e.Code, e.Message)
}

// AppError is returned when the store accepted the request but reported
// success false.
type AppError struct {
	Message string
}

func (e *AppError) Error() string {
	if e.Message == "" {
		return "store reported failure"
	}
	return e.Message
}

// IsNotFound reports whether err is a 404 from the store
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

type envelope struct {
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
	ID      string        `json:"id,omitempty"`
	Guest   *models.Guest `json:"guest,omitempty"`
}

// Client is a guest record store client
type Client struct {
	baseURL    string
	httpClient *http.Client
	adminToken string
}

// Option configures a Client
type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.httpClient = c }
}

// WithAdminToken sets the token sent on admin routes
func WithAdminToken(token string) Option {
	return func(cl *Client) { cl.adminToken = token }
}

// New creates a client for the store at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListGuests returns every guest record
func (c *Client) ListGuests(ctx context.Context) ([]models.Guest, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/admin/guests", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	guests := make([]models.Guest, 0)
	if err := json.NewDecoder(resp.Body).Decode(&guests); err != nil {
		return nil, fmt.Errorf("decode guest list: %w", err)
	}
	return guests, nil
}

// CreateGuest submits one RSVP entry and returns the stored record
func (c *Client) CreateGuest(ctx context.Context, guest models.Guest) (models.Guest, error) {
	env, err := c.call(ctx, http.MethodPost, "/rsvp", guest)
	if err != nil {
		return models.Guest{}, err
	}
	if env.Guest != nil {
		return *env.Guest, nil
	}
	guest.ID = env.ID
	return guest, nil
}

// UpdateGuest replaces the editable fields of the record with guest.ID
func (c *Client) UpdateGuest(ctx context.Context, guest models.Guest) (models.Guest, error) {
	if guest.ID == "" {
		return models.Guest{}, fmt.Errorf("guest id is required")
	}
	env, err := c.call(ctx, http.MethodPut, "/api/admin/guests/"+url.PathEscape(guest.ID), guest)
	if err != nil {
		return models.Guest{}, err
	}
	if env.Guest != nil {
		return *env.Guest, nil
	}
	return guest, nil
}

// DeleteGuest removes the record with id
func (c *Client) DeleteGuest(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("guest id is required")
	}
	_, err := c.call(ctx, http.MethodDelete, "/api/admin/guests/"+url.PathEscape(id), nil)
	return err
}

// ExportGuests downloads the guest spreadsheet
func (c *Client) ExportGuests(ctx context.Context) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/admin/guests/export", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	return data, nil
}

// call sends body and decodes the {success, error} envelope
func (c *Client) call(ctx context.Context, method, path string, body any) (envelope, error) {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return envelope{}, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return envelope{}, fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	if !env.Success {
		return env, &AppError{Message: env.Error}
	}
	return env, nil
}

// do sends the request and turns non-2xx answers into a StatusError. The
// caller closes the body on success.
func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.adminToken != "" && strings.HasPrefix(path, "/api/admin/") {
		req.Header.Set(AdminTokenHeader, c.adminToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		se := &StatusError{Code: resp.StatusCode}
		var env envelope
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		if json.Unmarshal(data, &env) == nil && env.Error != "" {
			se.Message = env.Error
		} else {
			se.Message = strings.TrimSpace(string(data))
		}
		return nil, se
	}
	return resp, nil
}
