package authapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-auth-client/authapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthServer(t *testing.T, handler http.HandlerFunc) *authapi.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return authapi.New(srv.URL)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestClient_Login(t *testing.T) {
	t.Run("password grant", func(t *testing.T) {
		client := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/auth/login", r.URL.Path)
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "password", r.PostForm.Get("grant_type"))
			assert.Equal(t, "user@example.com", r.PostForm.Get("username"))
			assert.Equal(t, "secret1", r.PostForm.Get("password"))
			writeJSON(w, http.StatusOK, map[string]string{
				"access_token":  "access-1",
				"refresh_token": "refresh-1",
				"token_type":    "bearer",
			})
		})

		tokens, err := client.Login(context.Background(), "user@example.com", "secret1")
		require.NoError(t, err)
		require.Equal(t, "access-1", tokens.AccessToken)
		require.Equal(t, "refresh-1", tokens.RefreshToken)
		require.Equal(t, "bearer", tokens.TokenType)
	})

	t.Run("client credentials are sent in the form", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "app", r.PostForm.Get("client_id"))
			assert.Equal(t, "shh", r.PostForm.Get("client_secret"))
			assert.Equal(t, "read write", r.PostForm.Get("scope"))
			writeJSON(w, http.StatusOK, map[string]string{"access_token": "a", "token_type": "bearer"})
		}))
		t.Cleanup(srv.Close)

		client := authapi.New(srv.URL, authapi.WithOAuthClient("app", "shh", "read", "write"))
		tokens, err := client.Login(context.Background(), "user@example.com", "secret1")
		require.NoError(t, err)
		require.Empty(t, tokens.RefreshToken)
	})

	t.Run("rejected credentials surface the detail message", func(t *testing.T) {
		client := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect email or password"})
		})

		_, err := client.Login(context.Background(), "user@example.com", "wrong-pass")
		require.ErrorIs(t, err, authapi.ErrRemote)

		var apiErr *authapi.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		require.Equal(t, "Incorrect email or password", apiErr.Message)
	})
}

func TestClient_Refresh(t *testing.T) {
	t.Run("rotated refresh token", func(t *testing.T) {
		client := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
			assert.Equal(t, "refresh-1", r.PostForm.Get("refresh_token"))
			writeJSON(w, http.StatusOK, map[string]string{"access_token": "access-2", "refresh_token": "refresh-2", "token_type": "bearer"})
		})

		tokens, err := client.Refresh(context.Background(), "refresh-1")
		require.NoError(t, err)
		require.Equal(t, "access-2", tokens.AccessToken)
		require.Equal(t, "refresh-2", tokens.RefreshToken)
	})

	t.Run("refresh token kept when not rotated", func(t *testing.T) {
		client := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"access_token": "access-2", "token_type": "bearer"})
		})

		tokens, err := client.Refresh(context.Background(), "refresh-1")
		require.NoError(t, err)
		require.Equal(t, "refresh-1", tokens.RefreshToken)
	})

	t.Run("empty refresh token", func(t *testing.T) {
		_, err := authapi.New("http://127.0.0.1:1").Refresh(context.Background(), "")
		require.ErrorIs(t, err, authapi.ErrValidation)
	})
}

func TestClient_AccountFlows(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		call     func(c *authapi.Client) error
		expected map[string]string
	}{
		{
			name: "register defaults country code",
			path: "/auth/register",
			call: func(c *authapi.Client) error {
				return c.Register(context.Background(), authapi.Registration{
					Name: "Asha", Service: "equity_cash", PhoneNumber: "9876543210", Email: "asha@example.com", Password: "Secret123",
				})
			},
			expected: map[string]string{
				"name": "Asha", "service": "equity_cash", "country_code": "+91",
				"phone_number": "9876543210", "email": "asha@example.com", "password": "Secret123",
			},
		},
		{
			name:     "verify otp",
			path:     "/auth/verify-otp",
			call:     func(c *authapi.Client) error { return c.VerifyOTP(context.Background(), "9876543210", "123456") },
			expected: map[string]string{"phone_number": "9876543210", "otp": "123456"},
		},
		{
			name:     "resend otp",
			path:     "/auth/resend-otp",
			call:     func(c *authapi.Client) error { return c.ResendOTP(context.Background(), "9876543210") },
			expected: map[string]string{"phone_number": "9876543210"},
		},
		{
			name:     "forgot password",
			path:     "/auth/forgot-password",
			call:     func(c *authapi.Client) error { return c.ForgotPassword(context.Background(), "9876543210") },
			expected: map[string]string{"phone_number": "9876543210"},
		},
		{
			name: "reset password",
			path: "/auth/reset-password",
			call: func(c *authapi.Client) error {
				return c.ResetPassword(context.Background(), "9876543210", "1234", "NewSecret1")
			},
			expected: map[string]string{"phone_number": "9876543210", "otp": "1234", "new_password": "NewSecret1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]string
			client := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, tt.path, r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
				writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
			})

			require.NoError(t, tt.call(client))
			require.Equal(t, tt.expected, got)
		})
	}
}

func TestClient_ErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "detail string", status: http.StatusBadRequest, body: `{"detail":"Phone number already registered"}`, message: "Phone number already registered"},
		{name: "detail list", status: http.StatusUnprocessableEntity, body: `{"detail":[{"msg":"field required"},{"msg":"invalid email"}]}`, message: "field required; invalid email"},
		{name: "error field", status: http.StatusBadRequest, body: `{"error":"Invalid OTP"}`, message: "Invalid OTP"},
		{name: "no body", status: http.StatusServiceUnavailable, body: ``, message: "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newAuthServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := client.VerifyOTP(context.Background(), "9876543210", "000000")
			require.ErrorIs(t, err, authapi.ErrRemote)

			var apiErr *authapi.APIError
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, tt.status, apiErr.StatusCode)
			require.Equal(t, tt.message, apiErr.Message)
		})
	}
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := authapi.New(url)
	require.ErrorIs(t, client.ResendOTP(context.Background(), "9876543210"), authapi.ErrRemote)

	_, err := client.Login(context.Background(), "user@example.com", "secret1")
	require.ErrorIs(t, err, authapi.ErrRemote)
}
