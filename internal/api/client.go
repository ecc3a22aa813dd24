// Package api defines the outbound collaborator the state layer calls for
// every remote operation, plus its HTTP implementation. Slices depend on the
// Client interface only; tests and the demo driver use apitest.Client.
package api

import (
	"context"

	"github.com/coffeekz/appstate/internal/domain/entity"
)

// Credentials is the signin payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the signup payload.
type Registration struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// AuthResponse is returned by signin and signup. A usable session requires
// both AccessToken and Client to be present.
type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	Client      *entity.User `json:"client"`
	Message     string       `json:"message,omitempty"`
}

// ProfileUpdate carries the editable profile fields; empty strings mean
// "leave unchanged" server-side.
type ProfileUpdate struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// PasswordChange carries a password rotation request.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// AccountDeletion confirms account removal with the current password.
type AccountDeletion struct {
	Password string `json:"password"`
}

// PaymentMethodInput is the create/update payload for a payment method.
type PaymentMethodInput struct {
	Type      entity.PaymentMethodType `json:"type"`
	Title     string                   `json:"title"`
	Last4     string                   `json:"last4,omitempty"`
	IsDefault bool                     `json:"isDefault"`
}

// CartItemInput is the payload for adding or updating a cart line.
type CartItemInput struct {
	ProductID      string   `json:"productId"`
	Quantity       int      `json:"quantity"`
	UnitPrice      float64  `json:"unitPrice"`
	Customizations []string `json:"customizations,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

// Client is the backend API surface the state layer depends on. Every method
// either returns a payload or an error carrying a human-readable message.
type Client interface {
	Signin(ctx context.Context, creds Credentials) (*AuthResponse, error)
	Signup(ctx context.Context, reg Registration) (*AuthResponse, error)

	GetProfile(ctx context.Context) (*entity.UserProfile, error)
	UpdateProfile(ctx context.Context, upd ProfileUpdate) (*entity.UserProfile, error)
	ChangePassword(ctx context.Context, chg PasswordChange) error
	DeleteAccount(ctx context.Context, del AccountDeletion) error

	GetCities(ctx context.Context) ([]entity.City, error)
	SearchCities(ctx context.Context, query string) ([]entity.City, error)
	GetCategories(ctx context.Context) ([]entity.Category, error)

	GetPaymentMethods(ctx context.Context) ([]entity.PaymentMethod, error)
	CreatePaymentMethod(ctx context.Context, in PaymentMethodInput) (*entity.PaymentMethod, error)
	UpdatePaymentMethod(ctx context.Context, id string, in PaymentMethodInput) (*entity.PaymentMethod, error)
	DeletePaymentMethod(ctx context.Context, id string) error
	SetDefaultPaymentMethod(ctx context.Context, id string) (string, error)

	GetCart(ctx context.Context) ([]entity.CartItem, error)
	AddCartItem(ctx context.Context, in CartItemInput) (*entity.CartItem, error)
	UpdateCartItem(ctx context.Context, id string, quantity int) (*entity.CartItem, error)
	RemoveCartItem(ctx context.Context, id string) error
	ClearCart(ctx context.Context) error
}
