package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/teukusulthan/ninetyn-client/internal/model"
)

// Login exchanges credentials for a bearer token. Backends have shipped the
// token as data.token, as a bare token field, and as an Authorization
// response header; all three are accepted, in that order.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", fmt.Errorf("marshal login payload: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/auth/login", bytes.NewReader(payload), "application/json")
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read login response: %w", err)
	}

	var env envelope
	_ = json.Unmarshal(body, &env)

	if !isNull(env.Data) {
		var data struct {
			Token string `json:"token"`
		}
		if json.Unmarshal(env.Data, &data) == nil && data.Token != "" {
			return data.Token, nil
		}
	}
	if env.Token != "" {
		return env.Token, nil
	}
	if h := resp.Header.Get("Authorization"); h != "" {
		token := h
		if len(h) >= 7 && strings.EqualFold(h[:7], "Bearer ") {
			token = strings.TrimSpace(h[7:])
		}
		if token != "" {
			return token, nil
		}
	}
	return "", fmt.Errorf("login response carried no token")
}

// Register creates an account. The response body is opaque to this client.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	payload, err := json.Marshal(map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("marshal register payload: %w", err)
	}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", bytes.NewReader(payload), "application/json", nil); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

type rawProfile struct {
	ID      flexString  `json:"id"`
	Name    string      `json:"name"`
	Email   string      `json:"email"`
	Role    string      `json:"role"`
	Points  *float64    `json:"points"`
	Balance *float64    `json:"balance"`
	User    *rawProfile `json:"user"`
}

// Me fetches and normalizes the authenticated profile. Fields may arrive at
// the top level or nested under user; points may be spelled balance.
func (c *Client) Me(ctx context.Context) (*model.UserProfile, error) {
	var raw rawProfile
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, "", &raw); err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	nested := raw.User
	if nested == nil {
		nested = &rawProfile{}
	}

	u := &model.UserProfile{
		ID:    firstNonEmpty(string(raw.ID), string(nested.ID)),
		Name:  firstNonEmpty(raw.Name, nested.Name),
		Email: firstNonEmpty(raw.Email, nested.Email),
		Role:  model.NormalizeRole(firstNonEmpty(raw.Role, nested.Role)),
	}
	for _, pts := range []*float64{raw.Points, nested.Points, raw.Balance, nested.Balance} {
		if pts != nil {
			u.Points = int64(*pts)
			break
		}
	}
	return u, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
