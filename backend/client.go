// Package backend is the HTTP JSON client for the remote product API. The
// backend itself is an external collaborator; this package only speaks its
// request/response pairs and maps every failure onto a small error taxonomy.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"cargoflow/logger"
	"cargoflow/session"
)

var (
	// ErrUnavailable covers transport failures and malformed or 5xx
	// responses. Callers surface it as a user-visible message, never as a
	// crash.
	ErrUnavailable = errors.New("backend: service unavailable")
	// ErrUnauthenticated covers expired or invalid tokens.
	ErrUnauthenticated = errors.New("backend: not authenticated")
	// ErrInvalidCredentials signals a rejected email/password pair.
	ErrInvalidCredentials = errors.New("backend: invalid credentials")
	// ErrRejected signals the backend refused an otherwise well-formed
	// request, e.g. a duplicate registration.
	ErrRejected = errors.New("backend: request rejected")
)

// Client talks to the product backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient builds a client for the given base URL. An empty URL is a
// configuration error reported up front.
func NewClient(baseURL string, log *logger.Logger) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("backend: empty base URL")
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}, nil
}

// VerifyToken asks the backend who the bearer token belongs to. Any failure
// mode (transport, malformed body, explicit rejection) reads as "not
// authenticated".
func (c *Client) VerifyToken(ctx context.Context, token string) (session.Identity, error) {
	var resp verifyResponse
	status, err := c.do(ctx, http.MethodPost, "/api/auth/verify", token, nil, &resp)
	if err != nil {
		return session.Identity{}, err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return session.Identity{}, ErrUnauthenticated
	}
	if status != http.StatusOK || !resp.Success || resp.User == nil {
		return session.Identity{}, ErrUnauthenticated
	}
	return resp.User.toIdentity(), nil
}

// Login exchanges credentials for a token and identity.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	body := map[string]string{"email": email, "password": password}

	var resp loginResponse
	status, err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &resp)
	if err != nil {
		return LoginResult{}, err
	}
	if status == http.StatusUnauthorized || !resp.Success {
		if resp.Message != "" {
			return LoginResult{}, fmt.Errorf("%w: %s", ErrInvalidCredentials, resp.Message)
		}
		return LoginResult{}, ErrInvalidCredentials
	}
	if status != http.StatusOK || resp.Token == "" || resp.User == nil {
		return LoginResult{}, fmt.Errorf("%w: malformed login response", ErrUnavailable)
	}
	return LoginResult{Token: resp.Token, User: resp.User.toIdentity(), Message: resp.Message}, nil
}

// Register creates an account. The backend returns no token; the caller
// switches the user to the login flow afterwards.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var resp registerResponse
	status, err := c.do(ctx, http.MethodPost, "/api/auth/register", "", req, &resp)
	if err != nil {
		return "", err
	}
	if status >= http.StatusBadRequest || !resp.Success {
		if resp.Message != "" {
			return "", fmt.Errorf("%w: %s", ErrRejected, resp.Message)
		}
		return "", ErrRejected
	}
	return resp.Message, nil
}

// SubmitBooking sends the booking form. The tracking id is client-generated
// and echoed back in the receipt.
func (c *Client) SubmitBooking(ctx context.Context, token string, req BookingRequest) (BookingReceipt, error) {
	var resp bookingResponse
	status, err := c.do(ctx, http.MethodPost, "/api/bookings", token, req, &resp)
	if err != nil {
		return BookingReceipt{}, err
	}
	if status == http.StatusUnauthorized {
		return BookingReceipt{}, ErrUnauthenticated
	}
	if status >= http.StatusBadRequest || resp.Status != "success" {
		if resp.Message != "" {
			return BookingReceipt{}, fmt.Errorf("%w: %s", ErrRejected, resp.Message)
		}
		return BookingReceipt{}, ErrRejected
	}
	return BookingReceipt{TrackingID: resp.TrackingID, Message: resp.Message}, nil
}

// ListShipments returns the caller's shipment dashboard rows.
func (c *Client) ListShipments(ctx context.Context, token string) ([]Shipment, error) {
	var resp shipmentsResponse
	if err := c.getList(ctx, "/api/shipments", token, &resp, func() bool { return resp.Success }); err != nil {
		return nil, err
	}
	return resp.Shipments, nil
}

// ListPayments returns the caller's payment dashboard rows.
func (c *Client) ListPayments(ctx context.Context, token string) ([]Payment, error) {
	var resp paymentsResponse
	if err := c.getList(ctx, "/api/payments", token, &resp, func() bool { return resp.Success }); err != nil {
		return nil, err
	}
	return resp.Payments, nil
}

// ListUsers returns the admin user listing.
func (c *Client) ListUsers(ctx context.Context, token string) ([]AccountSummary, error) {
	var resp usersResponse
	if err := c.getList(ctx, "/api/admin/users", token, &resp, func() bool { return resp.Success }); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (c *Client) getList(ctx context.Context, path, token string, out interface{}, ok func() bool) error {
	status, err := c.do(ctx, http.MethodGet, path, token, nil, out)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return ErrUnauthenticated
	}
	if status != http.StatusOK || !ok() {
		return fmt.Errorf("%w: status %d", ErrUnavailable, status)
	}
	return nil
}

// do issues one JSON request and decodes the body into out when present.
// It returns the HTTP status so callers can map semantic failures; transport
// and 5xx failures are already folded into ErrUnavailable.
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) (int, error) {
	var payload *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("backend: encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return 0, fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("backend request failed", "method", method, "path", path, "error", err)
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return resp.StatusCode, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
		}
	}
	return resp.StatusCode, nil
}
