package api

import (
	"context"
	"net/http"

	"github.com/hammamikhairi/pocketchef/internal/domain"
)

// authResponse is the envelope returned by /login and /register.
type authResponse struct {
	User domain.User `json:"user"`
}

// Register creates an account. The backend rejects taken usernames.
func (c *Client) Register(ctx context.Context, username, password, role string) (domain.User, error) {
	body := map[string]string{"username": username, "password": password, "role": role}
	return c.auth(ctx, "/register", body)
}

// Login checks credentials and returns the account identity.
func (c *Client) Login(ctx context.Context, username, password string) (domain.User, error) {
	body := map[string]string{"username": username, "password": password}
	return c.auth(ctx, "/login", body)
}

func (c *Client) auth(ctx context.Context, path string, body map[string]string) (domain.User, error) {
	req, err := jsonRequest(http.MethodPost, path, nil, body)
	if err != nil {
		return domain.User{}, err
	}
	var out authResponse
	if err := c.do(ctx, req, &out); err != nil {
		return domain.User{}, err
	}
	return out.User, nil
}
