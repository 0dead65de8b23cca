package views

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/znsio/specmatic-product-catalog-go/internal/models"
)

const (
	LoadingMessage   = "Loading products..."
	EmptyMessage     = "No products found."
	LoadErrorMessage = "Error loading products. Please try again later."
)

type ListState string

const (
	ListLoading   ListState = "loading"
	ListError     ListState = "error"
	ListEmpty     ListState = "empty"
	ListPopulated ListState = "populated"
)

type ProductFetcher interface {
	FetchProducts(ctx context.Context) ([]models.Product, error)
}

// ListSnapshot is a copy of the list's render state.
type ListSnapshot struct {
	State    ListState        `json:"state"`
	Message  string           `json:"message,omitempty"`
	Products []models.Product `json:"products"`
	Lines    []string         `json:"lines"`
}

// ProductList holds the most recent fetch outcome. It starts in ListLoading
// and only leaves it once a fetch settles.
type ProductList struct {
	fetcher ProductFetcher
	log     logrus.FieldLogger

	// loadMu keeps two fetches from overlapping.
	loadMu sync.Mutex

	mu       sync.RWMutex
	state    ListState
	products []models.Product
	closed   bool
}

func NewProductList(fetcher ProductFetcher, log logrus.FieldLogger) *ProductList {
	return &ProductList{
		fetcher: fetcher,
		log:     log.WithField("component", "product_list"),
		state:   ListLoading,
	}
}

// Load clears the previous outcome and fetches once.
func (l *ProductList) Load(ctx context.Context) {
	l.loadMu.Lock()
	defer l.loadMu.Unlock()

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.state = ListLoading
	l.products = nil
	l.mu.Unlock()

	products, err := l.fetcher.FetchProducts(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}

	if err != nil {
		logFailure(l.log, err, "failed to fetch products")
		l.state = ListError
		return
	}

	l.products = products
	if len(products) == 0 {
		l.state = ListEmpty
	} else {
		l.state = ListPopulated
	}
}

func (l *ProductList) Refresh(ctx context.Context) {
	l.Load(ctx)
}

// Close discards any fetch still in flight and stops further loads.
func (l *ProductList) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
}

func (l *ProductList) State() ListState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

func (l *ProductList) Snapshot() ListSnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snap := ListSnapshot{
		State:    l.state,
		Products: []models.Product{},
		Lines:    []string{},
	}

	switch l.state {
	case ListLoading:
		snap.Message = LoadingMessage
	case ListError:
		snap.Message = LoadErrorMessage
	case ListEmpty:
		snap.Message = EmptyMessage
	case ListPopulated:
		snap.Products = make([]models.Product, len(l.products))
		copy(snap.Products, l.products)
		snap.Lines = make([]string, len(l.products))
		for i, p := range l.products {
			snap.Lines[i] = p.Line()
		}
	}

	return snap
}
