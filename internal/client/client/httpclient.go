package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// do sends the request and returns the raw body of a 2xx response.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, in any) ([]byte, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		_ = json.Unmarshal(raw, &env)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Error}
	}
	return raw, nil
}

// call performs the request and decodes the envelope's data into out.
func (c *HTTPClient) call(ctx context.Context, method, path, token string, in, out any) error {
	raw, err := c.do(ctx, method, path, token, in)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// Ping checks that the server answers its health endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/health", "", nil)
	return err
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*Session, error) {
	in := map[string]string{"name": name, "email": email, "password": password}
	var s Session
	if err := c.call(ctx, http.MethodPost, "/api/auth/register", "", in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*Session, error) {
	in := map[string]string{"email": email, "password": password}
	var s Session
	if err := c.call(ctx, http.MethodPost, "/api/auth/login", "", in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*User, error) {
	var u User
	if err := c.call(ctx, http.MethodGet, "/api/auth/me", token, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListPosts fetches one page. Zero page or limit lets the server choose.
func (c *HTTPClient) ListPosts(ctx context.Context, page, limit int) (*PostList, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/posts"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	raw, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}
	var list PostList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &list, nil
}

func (c *HTTPClient) GetPost(ctx context.Context, id string) (*Post, error) {
	var p Post
	if err := c.call(ctx, http.MethodGet, "/api/posts/"+url.PathEscape(id), "", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) CreatePost(ctx context.Context, token, title, content string) (*Post, error) {
	in := map[string]string{"title": title, "content": content}
	var p Post
	if err := c.call(ctx, http.MethodPost, "/api/posts", token, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePost sends only the non-nil fields.
func (c *HTTPClient) UpdatePost(ctx context.Context, token, id string, title, content *string) (*Post, error) {
	in := map[string]string{}
	if title != nil {
		in["title"] = *title
	}
	if content != nil {
		in["content"] = *content
	}
	var p Post
	if err := c.call(ctx, http.MethodPut, "/api/posts/"+url.PathEscape(id), token, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) DeletePost(ctx context.Context, token, id string) error {
	return c.call(ctx, http.MethodDelete, "/api/posts/"+url.PathEscape(id), token, nil, nil)
}
