package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"github.com/znsio/specmatic-product-catalog-go/internal/models"
)

const productsPath = "/api/products"

// APIError is returned for any non-2xx backend response. The status and raw
// body stay available to callers through errors.As.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte

	// Message is the backend's {"error": ...} field, when it sent one.
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type BackendService struct {
	BaseURL string
	client  *resty.Client
}

// NewBackendService builds a client bound to baseURL. A zero timeout leaves
// the transport default in place. Requests are never retried.
func NewBackendService(baseURL string, timeout time.Duration) *BackendService {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &BackendService{BaseURL: baseURL, client: client}
}

func (s *BackendService) FetchProducts(ctx context.Context) ([]models.Product, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		Get(productsPath)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, newAPIError(resp)
	}

	var products []models.Product
	if err := json.Unmarshal(resp.Body(), &products); err != nil {
		return nil, fmt.Errorf("error decoding products: %w", err)
	}

	return products, nil
}

func (s *BackendService) CreateProduct(ctx context.Context, newProduct models.NewProduct) (models.Product, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(newProduct).
		Post(productsPath)
	if err != nil {
		return models.Product{}, err
	}
	if !resp.IsSuccess() {
		return models.Product{}, newAPIError(resp)
	}

	var created models.Product
	if err := json.Unmarshal(resp.Body(), &created); err != nil {
		return models.Product{}, fmt.Errorf("error decoding created product: %w", err)
	}

	return created, nil
}

func (s *BackendService) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		Get(productsPath + "/{id}")
	if err != nil {
		return models.Product{}, err
	}
	if !resp.IsSuccess() {
		return models.Product{}, newAPIError(resp)
	}

	var product models.Product
	if err := json.Unmarshal(resp.Body(), &product); err != nil {
		return models.Product{}, fmt.Errorf("error decoding product %d: %w", id, err)
	}

	return product, nil
}

func newAPIError(resp *resty.Response) *APIError {
	apiErr := &APIError{
		Method:     resp.Request.Method,
		Path:       resp.Request.URL,
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}
	if gjson.ValidBytes(apiErr.Body) {
		apiErr.Message = gjson.GetBytes(apiErr.Body, "error").String()
	}
	return apiErr
}
