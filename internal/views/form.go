package views

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/znsio/specmatic-product-catalog-go/internal/models"
	"github.com/znsio/specmatic-product-catalog-go/internal/services"
)

const (
	CreateErrorMessage = "Failed to create product. Please try again."
	SubmitLabel        = "Create Product"
	SubmittingLabel    = "Creating..."

	KeyEnter = "Enter"
)

var (
	ErrBlankName      = errors.New("product name is blank")
	ErrSubmitInFlight = errors.New("a submission is already in flight")
)

type ProductCreator interface {
	CreateProduct(ctx context.Context, newProduct models.NewProduct) (models.Product, error)
}

// CreatedFunc receives the product exactly as the backend returned it.
type CreatedFunc func(ctx context.Context, product models.Product)

type FormSnapshot struct {
	Name           string `json:"name"`
	Error          string `json:"error,omitempty"`
	Submitting     bool   `json:"submitting"`
	InputDisabled  bool   `json:"inputDisabled"`
	SubmitDisabled bool   `json:"submitDisabled"`
	SubmitLabel    string `json:"submitLabel"`
}

type ProductForm struct {
	creator   ProductCreator
	onCreated CreatedFunc
	log       logrus.FieldLogger

	mu         sync.RWMutex
	name       string
	errMsg     string
	submitting bool
}

// NewProductForm builds an empty form. onCreated may be nil.
func NewProductForm(creator ProductCreator, onCreated CreatedFunc, log logrus.FieldLogger) *ProductForm {
	return &ProductForm{
		creator:   creator,
		onCreated: onCreated,
		log:       log.WithField("component", "product_form"),
	}
}

// SetName replaces the draft and clears a shown error. Input is disabled
// while a submission is pending, so edits are dropped then.
func (f *ProductForm) SetName(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitting {
		return
	}
	f.name = name
	f.errMsg = ""
}

// KeyPress submits on Enter and ignores everything else.
func (f *ProductForm) KeyPress(ctx context.Context, key string) error {
	if key != KeyEnter {
		return nil
	}
	return f.Submit(ctx)
}

// Submit sends the trimmed draft to the backend. A blank draft is a no-op
// reported as ErrBlankName. Backend failures are logged, shown as a fixed
// message and returned.
func (f *ProductForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	name := strings.TrimSpace(f.name)
	if name == "" {
		f.mu.Unlock()
		return ErrBlankName
	}
	f.submitting = true
	f.errMsg = ""
	f.mu.Unlock()

	created, err := f.creator.CreateProduct(ctx, models.NewProduct{Name: name})

	f.mu.Lock()
	if err != nil {
		f.errMsg = CreateErrorMessage
		f.submitting = false
		f.mu.Unlock()
		logFailure(f.log.WithField("name", name), err, "failed to create product")
		return err
	}
	f.name = ""
	f.mu.Unlock()

	if f.onCreated != nil {
		f.onCreated(ctx, created)
	}

	f.mu.Lock()
	f.submitting = false
	f.mu.Unlock()

	return nil
}

func (f *ProductForm) Name() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.name
}

func (f *ProductForm) Error() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.errMsg
}

func (f *ProductForm) Submitting() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.submitting
}

func (f *ProductForm) Snapshot() FormSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()

	label := SubmitLabel
	if f.submitting {
		label = SubmittingLabel
	}

	return FormSnapshot{
		Name:           f.name,
		Error:          f.errMsg,
		Submitting:     f.submitting,
		InputDisabled:  f.submitting,
		SubmitDisabled: f.submitting,
		SubmitLabel:    label,
	}
}

// logFailure records the full error, including backend status and body.
func logFailure(log logrus.FieldLogger, err error, msg string) {
	entry := log.WithError(err)

	var apiErr *services.APIError
	if errors.As(err, &apiErr) {
		entry = entry.WithFields(logrus.Fields{
			"status": apiErr.StatusCode,
			"body":   string(apiErr.Body),
		})
	}

	entry.Error(msg)
}
