package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-client/internal/errors"
	"golang.org/x/oauth2"
)

const (
	DefaultTokenPath = "/auth/login"
	DefaultCountry   = "+91"

	registerPath       = "/auth/register"
	verifyOTPPath      = "/auth/verify-otp"
	resendOTPPath      = "/auth/resend-otp"
	forgotPasswordPath = "/auth/forgot-password"
	resetPasswordPath  = "/auth/reset-password"
)

// Tokens is the credential pair returned by a successful login or refresh.
type Tokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// Registration is the sign-up form.
type Registration struct {
	Name        string `json:"name"`
	Service     string `json:"service"`
	CountryCode string `json:"country_code"`
	PhoneNumber string `json:"phone_number"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// Client talks to the account endpoints of the auth service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	oauth      *oauth2.Config
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithOAuthClient sets the client credentials and scopes sent with token requests.
func WithOAuthClient(clientID, clientSecret string, scopes ...string) Option {
	return func(c *Client) {
		c.oauth.ClientID = clientID
		c.oauth.ClientSecret = clientSecret
		c.oauth.Scopes = scopes
	}
}

func WithTokenPath(path string) Option {
	return func(c *Client) {
		if path != "" {
			c.oauth.Endpoint.TokenURL = c.baseURL + "/" + strings.TrimLeft(path, "/")
		}
	}
}

func New(baseURL string, options ...Option) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		oauth: &oauth2.Config{
			Endpoint: oauth2.Endpoint{
				TokenURL:  baseURL + DefaultTokenPath,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Login exchanges a username and password for tokens with the password grant.
func (c *Client) Login(ctx context.Context, username, password string) (*Tokens, error) {
	tok, err := c.oauth.PasswordCredentialsToken(c.oauthContext(ctx), username, password)
	if err != nil {
		return nil, c.tokenError(ctx, err)
	}
	return tokensFrom(tok), nil
}

// Refresh exchanges a refresh token for a new access token. When the server
// does not rotate the refresh token the one passed in is returned.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	if refreshToken == "" {
		return nil, errors.Wrapf(ErrValidation, "refresh token is empty")
	}
	tok, err := c.oauth.TokenSource(c.oauthContext(ctx), &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, c.tokenError(ctx, err)
	}
	return tokensFrom(tok), nil
}

func (c *Client) Register(ctx context.Context, reg Registration) error {
	if reg.CountryCode == "" {
		reg.CountryCode = DefaultCountry
	}
	return c.postJSON(ctx, registerPath, reg)
}

func (c *Client) VerifyOTP(ctx context.Context, phoneNumber, otp string) error {
	return c.postJSON(ctx, verifyOTPPath, map[string]string{"phone_number": phoneNumber, "otp": otp})
}

func (c *Client) ResendOTP(ctx context.Context, phoneNumber string) error {
	return c.postJSON(ctx, resendOTPPath, map[string]string{"phone_number": phoneNumber})
}

// ForgotPassword asks the service to send a reset OTP. It is also used to resend that OTP.
func (c *Client) ForgotPassword(ctx context.Context, phoneNumber string) error {
	return c.postJSON(ctx, forgotPasswordPath, map[string]string{"phone_number": phoneNumber})
}

func (c *Client) ResetPassword(ctx context.Context, phoneNumber, otp, newPassword string) error {
	return c.postJSON(ctx, resetPasswordPath, map[string]string{
		"phone_number": phoneNumber,
		"otp":          otp,
		"new_password": newPassword,
	})
}

func (c *Client) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleErrorResponse(resp)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// handleRequestError converts transport failures into ErrRemote errors
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: request aborted: %w", ErrRemote, ctxErr)
	}
	return fmt.Errorf("%w: cannot connect to auth service at %s: %w", ErrRemote, c.baseURL, err)
}

func (c *Client) handleErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	return newAPIError(resp.StatusCode, body)
}

func (c *Client) tokenError(ctx context.Context, err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		return newAPIError(retrieveErr.Response.StatusCode, retrieveErr.Body)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: request aborted: %w", ErrRemote, ctxErr)
	}
	return fmt.Errorf("%w: token request failed: %w", ErrRemote, err)
}

func tokensFrom(tok *oauth2.Token) *Tokens {
	return &Tokens{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
	}
}
