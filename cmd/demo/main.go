// Command demo drives a scripted shopping session against a seeded fake
// backend: sign in, browse cities and categories, pick drinks through the
// sticky selection, commit them to the cart, set a default payment method
// and sign out. State is printed through the view layer after each step.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/coffeekz/appstate/config"
	"github.com/coffeekz/appstate/internal/api"
	"github.com/coffeekz/appstate/internal/api/apitest"
	"github.com/coffeekz/appstate/internal/domain/entity"
	"github.com/coffeekz/appstate/internal/state"
	"github.com/coffeekz/appstate/internal/view"
	"github.com/coffeekz/appstate/pkg/debounce"
	"github.com/coffeekz/appstate/pkg/helpers"
	"github.com/coffeekz/appstate/pkg/kvstore"
	"github.com/coffeekz/appstate/pkg/validation"
)

// staticThemeSource reports a fixed OS appearance. A real client would bridge
// the platform appearance API here.
type staticThemeSource struct{ dark bool }

func (s staticThemeSource) Current() bool               { return s.dark }
func (s staticThemeSource) Subscribe(func(bool)) func() { return func() {} }

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	kv, closeKV, err := openStorage(cfg)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	defer closeKV()

	client := seededClient()

	store := state.New(client, kv, logger)
	views := view.New(store)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	unsubscribe, err := store.Bootstrap(ctx, staticThemeSource{dark: true})
	if err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}
	defer unsubscribe()

	stopWatch := store.Persistor().Watch()
	defer stopWatch()

	if err := run(ctx, cfg, store, views, logger); err != nil {
		logger.WithError(err).Fatal("demo session failed")
	}
}

func run(ctx context.Context, cfg *config.Config, store *state.Store, views *view.Views, logger *logrus.Logger) error {
	// Sign in. The form is validated before the operation is dispatched,
	// the same as a screen would do.
	form := validation.SigninForm{Email: "aruzhan@example.kz", Password: "secret123"}
	if err := validation.Check(&form); err != nil {
		return fmt.Errorf("signin form: %v", validation.ToDetails(err))
	}
	if err := store.Auth.Login(ctx, api.Credentials{Email: form.Email, Password: form.Password}); err != nil {
		return err
	}
	session := views.Session()
	expires := store.Auth.State().ExpiresAt
	fmt.Printf("signed in as %s <%s>, session until %s\n", session.DisplayName, session.Email, expires.Format("2006-01-02"))

	// Browse reference data loaded during bootstrap.
	fmt.Println("cities:")
	for _, c := range views.ActiveCities() {
		fmt.Printf("  %s (%s)\n", c.Name, c.NameRu)
	}
	fmt.Println("categories:")
	for _, c := range views.ActiveCategoriesSorted() {
		fmt.Printf("  %s\n", c.Name)
	}
	// Throttled search, the way a search box dispatches keystrokes.
	throttle := debounce.NewThrottler(cfg.SearchInterval)
	store.Cities.SetQuery("алм")
	throttle.Do(func() {
		if err := store.Cities.Search(ctx, "алм"); err != nil {
			logger.WithError(err).Warn("city search failed")
		}
	})
	for _, c := range views.CitiesForDisplay() {
		fmt.Printf("  search match: %s\n", c.NameRu)
	}
	store.Cities.Select("city-almaty")

	// Pick drinks on the menu screen. The selection is sticky: re-adding a
	// product replaces its quantity instead of stacking.
	store.Sticky.AddOrUpdate("prod-latte", 2, 1690)
	store.Sticky.AddOrUpdate("prod-raf", 1, 1890)
	store.Sticky.AddOrUpdate("prod-latte", 3, 1690)
	totals := views.StickyTotals()
	fmt.Printf("selected %d items, %.0f KZT\n", totals.Items, totals.Amount)

	// Commit the selection into the cart.
	result := store.Sticky.Commit(ctx, store.Cart)
	if len(result.Failed) > 0 {
		logger.WithField("failed", len(result.Failed)).Warn("some items were not added")
	}
	cart := views.Cart()
	fmt.Printf("cart: %d items, %.0f KZT\n", cart.TotalItems, cart.Total)

	// Payment methods: load, add a card and make it the default.
	if err := store.Payments.Load(ctx); err != nil {
		return err
	}
	if err := store.Payments.Create(ctx, api.PaymentMethodInput{
		Type:      entity.PaymentCard,
		Title:     "Visa Gold",
		Last4:     "4242",
		IsDefault: true,
	}); err != nil {
		return err
	}
	if def := views.DefaultPaymentMethod(); def != nil {
		fmt.Printf("paying with %s\n", def.Title)
	}

	// Sign out. Local state is cleared even if storage misbehaves.
	store.Auth.Logout(ctx)
	fmt.Printf("signed out, authenticated=%v\n", views.Session().Authenticated)
	return nil
}

// openStorage builds the persistence backend selected by configuration.
func openStorage(cfg *config.Config) (kvstore.Store, func(), error) {
	switch cfg.Storage {
	case config.StorageRedis:
		r := kvstore.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix)
		return r, func() { _ = r.Close() }, nil
	case config.StorageFile:
		f, err := kvstore.OpenFile(cfg.StorageFile)
		if err != nil {
			return nil, nil, err
		}
		return f, func() {}, nil
	default:
		return kvstore.NewMemory(), func() {}, nil
	}
}

// seededClient returns a fake backend with a small Kazakhstani coffee-shop
// dataset.
func seededClient() *apitest.Client {
	return &apitest.Client{
		Token:    demoToken,
		Password: "secret123",
		User: &entity.User{
			ID:        "user-1",
			Email:     "aruzhan@example.kz",
			FirstName: "Aruzhan",
			LastName:  "Bekova",
		},
		Profile: &entity.UserProfile{
			ID:        "user-1",
			Email:     "aruzhan@example.kz",
			FirstName: "Aruzhan",
			LastName:  "Bekova",
			Phone:     "+77001234567",
		},
		Cities: []entity.City{
			{ID: "city-almaty", Name: "Almaty", NameRu: "Алматы", NameKz: "Алматы", IsActive: true},
			{ID: "city-astana", Name: "Astana", NameRu: "Астана", NameKz: "Астана", IsActive: true},
			{ID: "city-shymkent", Name: "Shymkent", NameRu: "Шымкент", NameKz: "Шымкент", IsActive: false},
		},
		Categories: []entity.Category{
			{ID: "cat-coffee", Name: "Coffee", SortOrder: 1, IsActive: true},
			{ID: "cat-tea", Name: "Tea", SortOrder: 2, IsActive: true},
			{ID: "cat-desserts", Name: "Desserts", SortOrder: 3, IsActive: true},
		},
		Methods: []entity.PaymentMethod{
			{ID: "pm-kaspi", Type: entity.PaymentKaspi, Title: "Kaspi Gold", IsDefault: true, IsActive: true},
		},
	}
}

// demoToken is an unsigned session token carrying only display claims. The
// client never verifies signatures.
const demoToken = "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0." +
	"eyJ1aWQiOiJ1c2VyLTEiLCJleHAiOjQ4NzA0NDgwMDB9."
