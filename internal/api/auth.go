package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// DefaultRegisterPath is where new accounts are created.
const DefaultRegisterPath = "/auth/register"

// Auth is the outcome of a successful login.
type Auth struct {
	AccessToken string
	Name        string
	Email       string
}

// loginBody is the login response. Token and user fields come under several
// names depending on the backend version.
type loginBody struct {
	AccessTokenSnake string    `json:"access_token"`
	AccessTokenCamel string    `json:"accessToken"`
	Token            string    `json:"token"`
	Nome             string    `json:"nome"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	User             *userBody `json:"user"`
}

type userBody struct {
	Nome  string `json:"nome"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (b loginBody) auth() Auth {
	a := Auth{
		AccessToken: firstNonEmpty(b.AccessTokenSnake, b.AccessTokenCamel, b.Token),
		Name:        firstNonEmpty(b.Nome, b.Name),
		Email:       b.Email,
	}
	if b.User != nil {
		a.Name = firstNonEmpty(a.Name, b.User.Nome, b.User.Name)
		a.Email = firstNonEmpty(a.Email, b.User.Email)
	}
	return a
}

// Login authenticates with e-mail and password.
func (c *Client) Login(ctx context.Context, email, password string) (*Auth, error) {
	payload := map[string]string{
		"email":    strings.TrimSpace(email),
		"password": password,
	}
	_, data, err := c.do(ctx, http.MethodPost, "/auth/login", nil, payload)
	if err != nil {
		return nil, err
	}

	var body loginBody
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("invalid login response: %w", err)
	}
	auth := body.auth()
	if auth.Email == "" {
		auth.Email = strings.TrimSpace(email)
	}
	return &auth, nil
}

// Registration is a new account.
type Registration struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// Register creates an account at path and returns the server's message, if any.
func (c *Client) Register(ctx context.Context, path string, reg Registration) (string, error) {
	if path == "" {
		path = DefaultRegisterPath
	}
	_, data, err := c.do(ctx, http.MethodPost, path, nil, reg)
	if err != nil {
		return "", err
	}
	var body struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(data, &body)
	return body.Message, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
