// Package apitest provides an in-memory api.Client with scriptable failures,
// used by the state-layer tests and the demo driver.
package apitest

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/coffeekz/appstate/internal/api"
	"github.com/coffeekz/appstate/internal/domain/entity"
)

// Client fakes the backend. Zero value is usable; seed the exported fields
// before use. FailWith schedules an error for the next call of an operation.
type Client struct {
	mu sync.Mutex

	Token    string
	User     *entity.User
	Profile  *entity.UserProfile
	Password string

	Cities     []entity.City
	Categories []entity.Category
	Methods    []entity.PaymentMethod
	CartItems  []entity.CartItem

	failures map[string]error
	calls    map[string]int
}

// FailWith makes the next invocation of op (method name, e.g. "Signin")
// return err instead of succeeding.
func (c *Client) FailWith(op string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failures == nil {
		c.failures = make(map[string]error)
	}
	c.failures[op] = err
}

// Calls reports how many times op was invoked.
func (c *Client) Calls(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[op]
}

// fail records the call and pops a scheduled failure, if any. Caller holds
// the mutex.
func (c *Client) fail(op string) error {
	if c.calls == nil {
		c.calls = make(map[string]int)
	}
	c.calls[op]++
	err, ok := c.failures[op]
	if !ok {
		return nil
	}
	delete(c.failures, op)
	return err
}

func (c *Client) Signin(ctx context.Context, creds api.Credentials) (*api.AuthResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail("Signin"); err != nil {
		return nil, err
	}
	if c.User == nil || creds.Email != c.User.Email || (c.Password != "" && creds.Password != c.Password) {
		return nil, api.NewError(http.StatusUnauthorized, "invalid email or password")
	}
	u := *c.User
	return &api.AuthResponse{AccessToken: c.Token, Client: &u}, nil
}

func (c *Client) Signup(ctx context.Context, reg api.Registration) (*api.AuthResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail("Signup"); err != nil {
		return nil, err
	}
	if c.User != nil && reg.Email == c.User.Email {
		return nil, api.NewError(http.StatusConflict, "email already registered")
	}
	u := &entity.User{
		ID:        uuid.NewString(),
		Email:     reg.Email,
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Phone:     reg.Phone,
	}
	c.User = u
	c.Password = reg.Password
	if c.Token == "" {
		c.Token = "tok-" + u.ID
	}
	out := *u
	return &api.AuthResponse{AccessToken: c.Token, Client: &out}, nil
}

func (c *Client) GetProfile(ctx context.Context) (*entity.UserProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail("GetProfile"); err != nil {
		return nil, err
	}
	if c.Profile == nil {
		return nil, api.NewError(http.StatusUnauthorized, "not authenticated")
	}
	p := *c.Profile
	return &p, nil
}

func (c *Client) UpdateProfile(ctx context.Context, upd api.ProfileUpdate) (*entity.UserProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail("UpdateProfile"); err != nil {
		return nil, err
	}
	if c.Profile == nil {
		return nil, api.NewError(http.StatusUnauthorized, "not authenticated")
	}
	p := *c.Profile
	if upd.FirstName != "" {
		p.FirstName = upd.FirstName
	}
	if upd.LastName != "" {
		p.LastName = upd.LastName
	}
	if upd.Phone != "" {
		p.Phone = upd.Phone
	}
	if upd.AvatarURL != "" {
		p.AvatarURL = upd.AvatarURL
	}
	c.Profile = &p
	out := p
	return &out, nil
}

func (c *Client) ChangePassword(ctx context.Context, chg api.PasswordChange) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail("ChangePassword"); err != nil {
		return err
	}
	if c.Password != "" && chg.CurrentPassword != c.Password {
		return api.NewError(http.StatusForbidden, "current password is incorrect")
	}
	c.Password = chg.NewPassword
	return nil
}

func (c *Client) DeleteAccount(ctx context.Context, del api.AccountDeletion) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail("DeleteAccount"); err != nil {
		return err
	}
	if c.Password != "" && del.Password != c.Password {
		return api.NewError(http.StatusForbidden, "password is incorrect")
	}
	c.User = nil
	c.Profile = nil
	c.Password = ""
	return nil
}

func (c *Client) GetCities(ctx context.Context) ([]entity.City, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail("GetCities"); err != nil {
		return nil, err
	}
	return append([]entity.City(nil), c.Cities...), nil
}

func (c *Client) SearchCities(ctx context.Context, query string) ([]entity.City, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail("SearchCities"); err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	var out []entity.City
	for _, city := range c.Cities {
		if q == "" ||
			strings.Contains(strings.ToLower(city.Name), q) ||
			strings.Contains(strings.ToLower(city.NameRu), q) ||
			strings.Contains(strings.ToLower(city.NameKz), q) {
			out = append(out, city)
		}
	}
	return out, nil
}

func (c *Client) GetCategories(ctx context.Context) ([]entity.Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail("GetCategories"); err != nil {
		return nil, err
	}
	return append([]entity.Category(nil), c.Categories...), nil
}

func (c *Client) GetPaymentMethods(ctx context.Context) ([]entity.PaymentMethod, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail("GetPaymentMethods"); err != nil {
		return nil, err
	}
	return append([]entity.PaymentMethod(nil), c.Methods...), nil
}

func (c *Client) CreatePaymentMethod(ctx context.Context, in api.PaymentMethodInput) (*entity.PaymentMethod, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail("CreatePaymentMethod"); err != nil {
		return nil, err
	}
	m := entity.PaymentMethod{
		ID:        uuid.NewString(),
		Type:      in.Type,
		Title:     in.Title,
		Last4:     in.Last4,
		IsDefault: in.IsDefault,
		IsActive:  true,
	}
	if in.IsDefault {
		for i := range c.Methods {
			c.Methods[i].IsDefault = false
		}
	}
	c.Methods = append(c.Methods, m)
	out := m
	return &out, nil
}

func (c *Client) UpdatePaymentMethod(ctx context.Context, id string, in api.PaymentMethodInput) (*entity.PaymentMethod, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail("UpdatePaymentMethod"); err != nil {
		return nil, err
	}
	for i := range c.Methods {
		if c.Methods[i].ID != id {
			continue
		}
		if in.IsDefault {
			for j := range c.Methods {
				c.Methods[j].IsDefault = false
			}
		}
		c.Methods[i].Type = in.Type
		c.Methods[i].Title = in.Title
		c.Methods[i].Last4 = in.Last4
		c.Methods[i].IsDefault = in.IsDefault
		out := c.Methods[i]
		return &out, nil
	}
	return nil, api.NewError(http.StatusNotFound, "payment method not found")
}

func (c *Client) DeletePaymentMethod(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail("DeletePaymentMethod"); err != nil {
		return err
	}
	for i := range c.Methods {
		if c.Methods[i].ID == id {
			c.Methods = append(c.Methods[:i], c.Methods[i+1:]...)
			return nil
		}
	}
	return api.NewError(http.StatusNotFound, "payment method not found")
}

func (c *Client) SetDefaultPaymentMethod(ctx context.Context, id string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail("SetDefaultPaymentMethod"); err != nil {
		return "", err
	}
	found := false
	for i := range c.Methods {
		c.Methods[i].IsDefault = c.Methods[i].ID == id
		if c.Methods[i].IsDefault {
			found = true
		}
	}
	if !found {
		return "", api.NewError(http.StatusNotFound, "payment method not found")
	}
	return id, nil
}

func (c *Client) GetCart(ctx context.Context) ([]entity.CartItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail("GetCart"); err != nil {
		return nil, err
	}
	return append([]entity.CartItem(nil), c.CartItems...), nil
}

func (c *Client) AddCartItem(ctx context.Context, in api.CartItemInput) (*entity.CartItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail("AddCartItem"); err != nil {
		return nil, err
	}
	if in.Quantity < 1 {
		return nil, api.NewError(http.StatusBadRequest, "quantity must be at least 1")
	}
	// Same product with no customizations merges into the existing line.
	if len(in.Customizations) == 0 {
		for i := range c.CartItems {
			if c.CartItems[i].ProductID == in.ProductID && len(c.CartItems[i].Customizations) == 0 {
				c.CartItems[i].Quantity += in.Quantity
				c.CartItems[i].TotalPrice = c.CartItems[i].UnitPrice * float64(c.CartItems[i].Quantity)
				out := c.CartItems[i]
				return &out, nil
			}
		}
	}
	item := entity.CartItem{
		ID:             uuid.NewString(),
		ProductID:      in.ProductID,
		Quantity:       in.Quantity,
		UnitPrice:      in.UnitPrice,
		Customizations: in.Customizations,
		Notes:          in.Notes,
		TotalPrice:     in.UnitPrice * float64(in.Quantity),
	}
	c.CartItems = append(c.CartItems, item)
	out := item
	return &out, nil
}

func (c *Client) UpdateCartItem(ctx context.Context, id string, quantity int) (*entity.CartItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail("UpdateCartItem"); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, api.NewError(http.StatusBadRequest, "quantity must be at least 1")
	}
	for i := range c.CartItems {
		if c.CartItems[i].ID == id {
			c.CartItems[i].Quantity = quantity
			c.CartItems[i].TotalPrice = c.CartItems[i].UnitPrice * float64(quantity)
			out := c.CartItems[i]
			return &out, nil
		}
	}
	return nil, api.NewError(http.StatusNotFound, "cart item not found")
}

func (c *Client) RemoveCartItem(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail("RemoveCartItem"); err != nil {
		return err
	}
	for i := range c.CartItems {
		if c.CartItems[i].ID == id {
			c.CartItems = append(c.CartItems[:i], c.CartItems[i+1:]...)
			return nil
		}
	}
	return api.NewError(http.StatusNotFound, "cart item not found")
}

func (c *Client) ClearCart(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fail("ClearCart"); err != nil {
		return err
	}
	c.CartItems = nil
	return nil
}

var _ api.Client = (*Client)(nil)
