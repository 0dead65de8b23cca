package views

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/znsio/specmatic-product-catalog-go/internal/models"
)

// ProductClient is everything the views need from the backend.
type ProductClient interface {
	ProductFetcher
	ProductCreator
}

type ProductEventPublisher interface {
	PublishProductCreated(ctx context.Context, product models.Product) error
}

type AppSnapshot struct {
	RefreshToken int          `json:"refreshToken"`
	List         ListSnapshot `json:"list"`
	Form         FormSnapshot `json:"form"`
}

// App composes the form and the list. Every created product bumps the
// refresh token and re-fetches the list.
type App struct {
	List *ProductList
	Form *ProductForm

	publisher ProductEventPublisher
	log       logrus.FieldLogger

	mu           sync.RWMutex
	refreshToken int
}

type AppOption func(*App)

func WithEventPublisher(p ProductEventPublisher) AppOption {
	return func(a *App) {
		a.publisher = p
	}
}

func NewApp(client ProductClient, log logrus.FieldLogger, opts ...AppOption) *App {
	a := &App{log: log.WithField("component", "app")}
	for _, opt := range opts {
		opt(a)
	}

	a.List = NewProductList(client, log)
	a.Form = NewProductForm(client, a.HandleProductCreated, log)
	return a
}

// Mount performs the initial list load.
func (a *App) Mount(ctx context.Context) {
	a.List.Load(ctx)
}

func (a *App) HandleProductCreated(ctx context.Context, product models.Product) {
	a.mu.Lock()
	a.refreshToken++
	token := a.refreshToken
	a.mu.Unlock()

	a.log.WithFields(logrus.Fields{
		"product_id":    product.ID,
		"refresh_token": token,
	}).Info("product created, refreshing list")

	a.List.Refresh(ctx)

	if a.publisher == nil {
		return
	}
	if err := a.publisher.PublishProductCreated(ctx, product); err != nil {
		a.log.WithError(err).WithField("product_id", product.ID).Warn("failed to publish product-created event")
	}
}

func (a *App) RefreshToken() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.refreshToken
}

func (a *App) Snapshot() AppSnapshot {
	return AppSnapshot{
		RefreshToken: a.RefreshToken(),
		List:         a.List.Snapshot(),
		Form:         a.Form.Snapshot(),
	}
}

func (a *App) Close() {
	a.List.Close()
}
