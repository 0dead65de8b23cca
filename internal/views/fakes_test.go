package views

import (
	"context"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/znsio/specmatic-product-catalog-go/internal/models"
)

type fetchResult struct {
	products []models.Product
	err      error
}

// fakeClient replays queued fetch results (the last one repeats) and answers
// creates with createFn.
type fakeClient struct {
	mu          sync.Mutex
	fetches     []fetchResult
	fetchCalls  int
	createCalls []models.NewProduct
	createFn    func(ctx context.Context, np models.NewProduct) (models.Product, error)
}

func (c *fakeClient) FetchProducts(ctx context.Context) ([]models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fetchCalls++
	if len(c.fetches) == 0 {
		return []models.Product{}, nil
	}
	res := c.fetches[0]
	if len(c.fetches) > 1 {
		c.fetches = c.fetches[1:]
	}
	return res.products, res.err
}

func (c *fakeClient) CreateProduct(ctx context.Context, np models.NewProduct) (models.Product, error) {
	c.mu.Lock()
	c.createCalls = append(c.createCalls, np)
	fn := c.createFn
	c.mu.Unlock()

	if fn == nil {
		return models.Product{ID: 1, Name: np.Name}, nil
	}
	return fn(ctx, np)
}

func (c *fakeClient) FetchCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetchCalls
}

func (c *fakeClient) CreateCalls() []models.NewProduct {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.NewProduct, len(c.createCalls))
	copy(out, c.createCalls)
	return out
}

func newTestLogger() (*logrus.Logger, *test.Hook) {
	log, hook := test.NewNullLogger()
	log.SetOutput(io.Discard)
	return log, hook
}
