package central

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"shelter-registry/internal/platform/httpclient"
	"shelter-registry/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("central auth client not configured")
	ErrUnauthorized  = errors.New("central auth unauthorized")
	ErrUpstream      = errors.New("central auth upstream error")
)

// Config del cliente contra el servicio central de cuentas.
type Config struct {
	BaseURL string
	APIKey  string

	// Opcional: header de la API key. Vacío => "X-Api-Key".
	APIKeyHeader string
	Timeout      time.Duration
}

type Client struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		http:         hc,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != ""
}

// VerifyToken valida el token contra el servicio central y trae los claims.
func (c *Client) VerifyToken(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrUnauthorized
	}

	headers := map[string]string{
		"Authorization": "Bearer " + token,
	}
	if c.apiKey != "" {
		headers[c.apiKeyHeader] = c.apiKey
	}

	var out struct {
		UserID    string `json:"user_id"`
		Email     string `json:"email"`
		Role      string `json:"role"`
		ShelterID string `json:"shelter_id"`
	}

	err := c.http.DoJSON(ctx, http.MethodPost, "/v1/tokens/verify",
		headers, map[string]string{"token": token}, &out)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			switch httpErr.StatusCode {
			case http.StatusUnauthorized, http.StatusForbidden:
				return auth.Claims{}, ErrUnauthorized
			}
			return auth.Claims{}, fmt.Errorf("%w: status=%d", ErrUpstream, httpErr.StatusCode)
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	out.UserID = strings.TrimSpace(out.UserID)
	if out.UserID == "" {
		return auth.Claims{}, errors.New("central auth response missing user_id")
	}

	return auth.Claims{
		UserID:    out.UserID,
		Email:     strings.TrimSpace(out.Email),
		Role:      strings.TrimSpace(out.Role),
		ShelterID: strings.TrimSpace(out.ShelterID),
	}, nil
}
