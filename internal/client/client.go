// Package client provides a Go client for the newsbrief API.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Errors
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Client is a newsbrief API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
}

// New creates a new newsbrief client.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Signup registers a new account.
func (c *Client) Signup(name, email, password string, preferences []string) error {
	reqBody := map[string]any{
		"name":     name,
		"email":    email,
		"password": password,
	}
	if preferences != nil {
		reqBody["preferences"] = preferences
	}

	resp, err := c.doRequest(http.MethodPost, "/users/signup", reqBody)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusCreated {
		return nil
	}
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusBadRequest && bytes.Contains(respBody, []byte("already exists")) {
		return ErrEmailTaken
	}
	return fmt.Errorf("signup failed (%d): %s", resp.StatusCode, string(respBody))
}

// Login exchanges credentials for a bearer token and stores it on the client.
func (c *Client) Login(email, password string) error {
	reqBody := map[string]string{"email": email, "password": password}

	resp, err := c.doRequest(http.MethodPost, "/users/login", reqBody)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("login failed (%d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	if result.Token == "" {
		return errors.New("login response missing token")
	}
	c.Token = result.Token
	return nil
}

// GetPreferences fetches the authenticated user's saved preferences.
func (c *Client) GetPreferences() ([]string, error) {
	resp, err := c.doRequest(http.MethodGet, "/users/preferences", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get preferences failed (%d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Preferences []string `json:"preferences"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return result.Preferences, nil
}

// UpdatePreferences replaces the authenticated user's preferences.
func (c *Client) UpdatePreferences(preferences []string) ([]string, error) {
	reqBody := map[string]any{"preferences": preferences}

	resp, err := c.doRequest(http.MethodPut, "/users/preferences", reqBody)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("update preferences failed (%d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Preferences []string `json:"preferences"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return result.Preferences, nil
}

// GetNews fetches the authenticated user's preference-filtered feed.
// Articles are returned as raw payloads.
func (c *Client) GetNews() ([]json.RawMessage, error) {
	resp, err := c.doRequest(http.MethodGet, "/news", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get news failed (%d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		News []json.RawMessage `json:"news"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return result.News, nil
}

// doRequest performs an HTTP request with the stored bearer token, if any.
func (c *Client) doRequest(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	return c.HTTPClient.Do(req)
}

// TestHelper provides utilities for creating authenticated clients in tests.
type TestHelper struct {
	BaseURL string
}

// NewTestHelper creates a new test helper for the given base URL.
func NewTestHelper(baseURL string) *TestHelper {
	return &TestHelper{BaseURL: baseURL}
}

// CreateAuthenticatedClient signs up a user (ignoring an already-registered
// account) and returns a logged-in client. This is a convenience for tests.
func (h *TestHelper) CreateAuthenticatedClient(name, email, password string, preferences []string) (*Client, error) {
	c := New(h.BaseURL)
	if err := c.Signup(name, email, password, preferences); err != nil && !errors.Is(err, ErrEmailTaken) {
		return nil, fmt.Errorf("signup: %w", err)
	}
	if err := c.Login(email, password); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return c, nil
}

// GetToken signs up and logs in, returning just the token string.
func (h *TestHelper) GetToken(name, email, password string) (string, error) {
	c, err := h.CreateAuthenticatedClient(name, email, password, nil)
	if err != nil {
		return "", err
	}
	return c.Token, nil
}
