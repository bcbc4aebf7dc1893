package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/swapsafe/swapsafe-backend/internal/auth"
	"github.com/swapsafe/swapsafe-backend/internal/dashboard"
	"github.com/swapsafe/swapsafe-backend/internal/notifications"
	products "github.com/swapsafe/swapsafe-backend/internal/products"
	"github.com/swapsafe/swapsafe-backend/internal/transactions"
	"github.com/swapsafe/swapsafe-backend/pkg/pagination"
)

// apiError mirrors the error envelope written by the API.
type apiError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

type apiClient struct {
	base  string
	http  *http.Client
	token string
}

func newAPIClient(base string) *apiClient {
	return &apiClient{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *apiClient) withToken(token string) *apiClient {
	cp := *c
	cp.token = token
	return &cp
}

func (c *apiClient) login(ctx context.Context, email, password string) (*auth.Session, error) {
	var out auth.Session
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", auth.LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil)
}

func (c *apiClient) transactions(ctx context.Context, query url.Values) (*transactions.ListResult, error) {
	var out transactions.ListResult
	path := "/api/v1/transactions"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) notifications(ctx context.Context, unreadOnly bool) (*notifications.ListResult, error) {
	var out notifications.ListResult
	path := "/api/v1/notifications"
	if unreadOnly {
		path += "?unreadOnly=true"
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) products(ctx context.Context, query url.Values) (*pagination.Page[products.ProductDTO], error) {
	var out pagination.Page[products.ProductDTO]
	path := "/api/v1/products"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) dashboard(ctx context.Context) (*dashboard.Summary, error) {
	var out dashboard.Summary
	if err := c.do(ctx, http.MethodGet, "/api/v1/dashboard", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var envelope struct {
			Error apiError `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			return &apiError{Status: resp.StatusCode, Code: "UNKNOWN", Message: resp.Status}
		}
		envelope.Error.Status = resp.StatusCode
		return &envelope.Error
	}

	if out == nil {
		return nil
	}
	envelope := struct {
		Data any `json:"data"`
	}{Data: out}
	return json.NewDecoder(resp.Body).Decode(&envelope)
}
