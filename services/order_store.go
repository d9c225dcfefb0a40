package services

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
	"github.com/yeremiapane/paint-queue/models"
)

// DuplicateQuery holds the fields the store matches duplicates on.
type DuplicateQuery struct {
	CustomerName  string
	ClientContact string
	PaintType     string
	Category      models.Category
}

// OrderStore is the remote backend owning orders and the employee directory.
type OrderStore interface {
	EmployeeResolver
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListActiveOrders(ctx context.Context) ([]models.Order, error)
	CreateOrder(ctx context.Context, order models.NewOrder) (models.Order, error)
	UpdateOrder(ctx context.Context, transactionID string, patch models.StatusPatch) (models.Order, error)
	CheckDuplicate(ctx context.Context, q DuplicateQuery) (bool, error)
}

// OrderStoreConfig is passed explicitly; the client keeps no package state.
type OrderStoreConfig struct {
	BaseURL string
	Timeout time.Duration
}

// HTTPOrderStore talks to the Order Store REST API.
type HTTPOrderStore struct {
	config     OrderStoreConfig
	httpClient *http.Client
	log        *logrus.Logger
}

func NewHTTPOrderStore(config OrderStoreConfig, log *logrus.Logger) *HTTPOrderStore {
	if config.Timeout == 0 {
		config.Timeout = 20 * time.Second
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &HTTPOrderStore{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		log:        log,
	}
}

// WithHTTPClient swaps the underlying client, mainly for tests.
func (s *HTTPOrderStore) WithHTTPClient(c *http.Client) *HTTPOrderStore {
	s.httpClient = c
	return s
}

func (s *HTTPOrderStore) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if _, err := s.do(ctx, http.MethodGet, "/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *HTTPOrderStore) ListActiveOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if _, err := s.do(ctx, http.MethodGet, "/orders/active", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *HTTPOrderStore) CreateOrder(ctx context.Context, order models.NewOrder) (models.Order, error) {
	var created models.Order
	status, err := s.do(ctx, http.MethodPost, "/orders", order, &created)
	if err != nil {
		if status == http.StatusConflict {
			return models.Order{}, ErrTransactionIDTaken
		}
		return models.Order{}, err
	}
	if created.TransactionID == "" {
		return models.Order{}, storeUnavailable(fmt.Errorf("order data missing in response"))
	}
	return created, nil
}

func (s *HTTPOrderStore) UpdateOrder(ctx context.Context, transactionID string, patch models.StatusPatch) (models.Order, error) {
	var updated models.Order
	status, err := s.do(ctx, http.MethodPut, "/orders/"+url.PathEscape(transactionID), patch, &updated)
	if err != nil {
		switch status {
		case http.StatusNotFound:
			return models.Order{}, ErrOrderNotFound
		case http.StatusForbidden:
			return models.Order{}, ErrForbidden
		case http.StatusConflict:
			return models.Order{}, ErrInvalidTransition
		case http.StatusUnprocessableEntity:
			return models.Order{}, ErrMissingColourCode
		}
		return models.Order{}, err
	}
	return updated, nil
}

func (s *HTTPOrderStore) LookupEmployee(ctx context.Context, code string) (string, error) {
	var resp struct {
		EmployeeName string `json:"employee_name"`
	}
	q := url.Values{"code": {code}}
	status, err := s.do(ctx, http.MethodGet, "/employees?"+q.Encode(), nil, &resp)
	if err != nil {
		if status == http.StatusNotFound {
			return "", ErrEmployeeNotFound
		}
		return "", err
	}
	if resp.EmployeeName == "" {
		return "", ErrEmployeeNotFound
	}
	return resp.EmployeeName, nil
}

func (s *HTTPOrderStore) CheckDuplicate(ctx context.Context, dq DuplicateQuery) (bool, error) {
	var resp struct {
		Exists bool `json:"exists"`
	}
	q := url.Values{
		"customer_name":  {dq.CustomerName},
		"client_contact": {dq.ClientContact},
		"paint_type":     {dq.PaintType},
		"category":       {string(dq.Category)},
	}
	if _, err := s.do(ctx, http.MethodGet, "/orders/check-duplicate?"+q.Encode(), nil, &resp); err != nil {
		return false, err
	}
	return resp.Exists, nil
}

// do sends one request and decodes a 2xx JSON body into out. Any transport
// failure or non-2xx answer comes back as StoreUnavailable together with
// the status code so callers can map the ones they understand.
func (s *HTTPOrderStore) do(ctx context.Context, method, path string, in, out interface{}) (int, error) {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("error marshaling request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.config.BaseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.WithFields(logrus.Fields{"method": method, "path": path}).Errorf("order store request failed: %v", err)
		return 0, storeUnavailable(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, storeUnavailable(fmt.Errorf("error reading response: %w", err))
	}

	s.log.WithFields(logrus.Fields{
		"method":  method,
		"path":    path,
		"status":  resp.StatusCode,
		"latency": time.Since(start),
	}).Debug("order store call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, storeUnavailable(fmt.Errorf("order store returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, storeUnavailable(fmt.Errorf("error unmarshaling response: %w", err))
		}
	}
	return resp.StatusCode, nil
}
