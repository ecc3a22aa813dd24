package api

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

	"github.com/sirupsen/logrus"

	"github.com/coffeekz/appstate/internal/domain/entity"
)

// TokenSource supplies the current bearer token, or "" when unauthenticated.
type TokenSource func() string

// HTTPClient implements Client over the backend's JSON API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
	logger     *logrus.Logger
}

// NewHTTPClient constructs a backend client. token may be nil for flows that
// never touch authenticated endpoints.
func NewHTTPClient(baseURL string, timeout time.Duration, token TokenSource, logger *logrus.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		token:      token,
		logger:     logger,
	}
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if t := c.token(); t != "" {
			req.Header.Set("Authorization", "Bearer "+t)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.asError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// asError converts a non-2xx response into an *Error, preferring the
// backend's message field when the body parses.
func (c *HTTPClient) asError(resp *http.Response) error {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(b, &parsed)
	msg := parsed.Message
	if msg == "" {
		msg = parsed.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.Path,
		}).Debug("api error response")
	}
	return &Error{Code: resp.StatusCode, Message: msg}
}

func (c *HTTPClient) Signin(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/signin", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Signup(ctx context.Context, reg Registration) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/signup", reg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) GetProfile(ctx context.Context) (*entity.UserProfile, error) {
	var out entity.UserProfile
	if err := c.doJSON(ctx, http.MethodGet, "/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*entity.UserProfile, error) {
	var out entity.UserProfile
	if err := c.doJSON(ctx, http.MethodPatch, "/profile", upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ChangePassword(ctx context.Context, chg PasswordChange) error {
	return c.doJSON(ctx, http.MethodPost, "/profile/password", chg, nil)
}

func (c *HTTPClient) DeleteAccount(ctx context.Context, del AccountDeletion) error {
	return c.doJSON(ctx, http.MethodDelete, "/profile", del, nil)
}

func (c *HTTPClient) GetCities(ctx context.Context) ([]entity.City, error) {
	var out []entity.City
	if err := c.doJSON(ctx, http.MethodGet, "/cities", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) SearchCities(ctx context.Context, query string) ([]entity.City, error) {
	var out []entity.City
	path := "/cities/search?q=" + url.QueryEscape(query)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetCategories(ctx context.Context) ([]entity.Category, error) {
	var out []entity.Category
	if err := c.doJSON(ctx, http.MethodGet, "/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetPaymentMethods(ctx context.Context) ([]entity.PaymentMethod, error) {
	var out []entity.PaymentMethod
	if err := c.doJSON(ctx, http.MethodGet, "/payment-methods", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreatePaymentMethod(ctx context.Context, in PaymentMethodInput) (*entity.PaymentMethod, error) {
	var out entity.PaymentMethod
	if err := c.doJSON(ctx, http.MethodPost, "/payment-methods", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdatePaymentMethod(ctx context.Context, id string, in PaymentMethodInput) (*entity.PaymentMethod, error) {
	var out entity.PaymentMethod
	if err := c.doJSON(ctx, http.MethodPatch, "/payment-methods/"+id, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeletePaymentMethod(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/payment-methods/"+id, nil, nil)
}

func (c *HTTPClient) SetDefaultPaymentMethod(ctx context.Context, id string) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/payment-methods/"+id+"/default", nil, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		out.ID = id
	}
	return out.ID, nil
}

func (c *HTTPClient) GetCart(ctx context.Context) ([]entity.CartItem, error) {
	var out []entity.CartItem
	if err := c.doJSON(ctx, http.MethodGet, "/cart", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) AddCartItem(ctx context.Context, in CartItemInput) (*entity.CartItem, error) {
	var out entity.CartItem
	if err := c.doJSON(ctx, http.MethodPost, "/cart/items", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateCartItem(ctx context.Context, id string, quantity int) (*entity.CartItem, error) {
	payload := map[string]int{"quantity": quantity}
	var out entity.CartItem
	if err := c.doJSON(ctx, http.MethodPatch, "/cart/items/"+id, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RemoveCartItem(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/cart/items/"+id, nil, nil)
}

func (c *HTTPClient) ClearCart(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/cart", nil, nil)
}
