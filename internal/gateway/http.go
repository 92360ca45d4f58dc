package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gopkg.in/resty.v1"

	"customer-onboarding/internal/domain"
	"customer-onboarding/internal/logger"
	"customer-onboarding/internal/metrics"
	"customer-onboarding/internal/wire"
)

// Config points the HTTP gateway at each record service.
type Config struct {
	CustomerURL      string
	AddressURL       string
	ContactMediumURL string
	CityURL          string
	Timeout          time.Duration
	RateLimit        float64
	RateBurst        int
}

// HTTP is a RecordGateway over the record services' JSON API.
type HTTP struct {
	customers *resty.Client
	addresses *resty.Client
	contacts  *resty.Client
	cities    *resty.Client
	limiter   *rate.Limiter
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

var _ RecordGateway = (*HTTP)(nil)

// NewHTTP builds a gateway. logger and m may be nil.
func NewHTTP(cfg Config, l *zap.Logger, m *metrics.Metrics) *HTTP {
	l = logger.OrNop(l)
	g := &HTTP{
		logger:  l,
		metrics: m,
	}
	g.customers = g.newClient(cfg.CustomerURL, cfg.Timeout)
	g.addresses = g.newClient(cfg.AddressURL, cfg.Timeout)
	g.contacts = g.newClient(cfg.ContactMediumURL, cfg.Timeout)
	g.cities = g.newClient(cfg.CityURL, cfg.Timeout)
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return g
}

func (g *HTTP) newClient(baseURL string, timeout time.Duration) *resty.Client {
	client := resty.New()
	client.SetHostURL(baseURL)
	client.SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	client.OnAfterResponse(func(c *resty.Client, r *resty.Response) error {
		fields := []zap.Field{
			zap.String("method", r.Request.Method),
			zap.String("url", r.Request.URL),
			zap.Int("status", r.StatusCode()),
			zap.Duration("duration", r.Time()),
		}
		if r.StatusCode() > 299 {
			g.logger.Warn("outbound response", append(fields, zap.ByteString("body", r.Body()))...)
			return nil
		}
		g.logger.Debug("outbound response", fields...)
		return nil
	})
	return client
}

func (g *HTTP) do(ctx context.Context, op string, req *resty.Request, method, path string) error {
	start := time.Now()
	err := g.execute(ctx, op, req, method, path)
	g.metrics.ObserveGateway(op, err, time.Since(start))
	return err
}

func (g *HTTP) execute(ctx context.Context, op string, req *resty.Request, method, path string) error {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return &Error{Op: op, Err: err}
		}
	}
	var apiErr wire.ErrorResponse
	req.SetContext(ctx).SetError(&apiErr)
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		req.SetHeader(logger.RequestIDHeader, id)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	if !resp.IsError() {
		return nil
	}
	gerr := &Error{Op: op, Status: resp.StatusCode(), Message: apiErr.Message}
	switch resp.StatusCode() {
	case http.StatusNotFound:
		gerr.Err = domain.ErrNotFound
	case http.StatusConflict:
		gerr.Err = domain.ErrAlreadyExists
	}
	return gerr
}

type requestIDKey struct{}

// WithRequestID makes outbound calls made with ctx carry id in the request id header.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func (g *HTTP) CreateCustomer(ctx context.Context, c domain.Customer) (string, error) {
	body, err := wire.NewCustomerRequest(c)
	if err != nil {
		return "", &Error{Op: OpCreateCustomer, Err: err}
	}
	var out wire.CreatedResponse
	req := g.customers.R().SetBody(body).SetResult(&out)
	if err := g.do(ctx, OpCreateCustomer, req, http.MethodPost, "/customers"); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", &Error{Op: OpCreateCustomer, Err: errors.New("response carried no id")}
	}
	return out.ID, nil
}

func (g *HTTP) UpdateCustomer(ctx context.Context, id string, c domain.Customer) error {
	body, err := wire.NewCustomerRequest(c)
	if err != nil {
		return &Error{Op: OpUpdateCustomer, Err: err}
	}
	req := g.customers.R().SetBody(body)
	return g.do(ctx, OpUpdateCustomer, req, http.MethodPut, "/customers/"+id)
}

func (g *HTTP) DeleteCustomer(ctx context.Context, id string) error {
	return g.do(ctx, OpDeleteCustomer, g.customers.R(), http.MethodDelete, "/customers/"+id)
}

func (g *HTTP) ListCustomers(ctx context.Context, filter domain.CustomerFilter) ([]domain.CustomerRecord, error) {
	var out []wire.CustomerResponse
	req := g.customers.R().SetQueryParams(wire.FilterQuery(filter)).SetResult(&out)
	if err := g.do(ctx, OpListCustomers, req, http.MethodGet, "/customers"); err != nil {
		return nil, err
	}
	records := make([]domain.CustomerRecord, 0, len(out))
	for _, r := range out {
		rec, err := r.Record()
		if err != nil {
			return nil, &Error{Op: OpListCustomers, Err: fmt.Errorf("customer %s: %w", r.ID, err)}
		}
		records = append(records, rec)
	}
	return records, nil
}

func (g *HTTP) CreateAddress(ctx context.Context, a domain.Address) (string, error) {
	var out wire.CreatedResponse
	req := g.addresses.R().SetBody(wire.NewAddressRequest(a)).SetResult(&out)
	if err := g.do(ctx, OpCreateAddress, req, http.MethodPost, "/addresses"); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", &Error{Op: OpCreateAddress, Err: errors.New("response carried no id")}
	}
	return out.ID, nil
}

func (g *HTTP) UpdateAddress(ctx context.Context, id string, a domain.Address) error {
	req := g.addresses.R().SetBody(wire.NewAddressRequest(a))
	return g.do(ctx, OpUpdateAddress, req, http.MethodPut, "/addresses/"+id)
}

func (g *HTTP) DeleteAddress(ctx context.Context, id string) error {
	return g.do(ctx, OpDeleteAddress, g.addresses.R(), http.MethodDelete, "/addresses/"+id)
}

func (g *HTTP) CreateContactMedium(ctx context.Context, c domain.ContactMedium) (string, error) {
	var out wire.CreatedResponse
	req := g.contacts.R().SetBody(wire.NewContactMediumRequest(c)).SetResult(&out)
	if err := g.do(ctx, OpCreateContactMedium, req, http.MethodPost, "/contactmediums"); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", &Error{Op: OpCreateContactMedium, Err: errors.New("response carried no id")}
	}
	return out.ID, nil
}

func (g *HTTP) UpdateContactMedium(ctx context.Context, id string, c domain.ContactMedium) error {
	req := g.contacts.R().SetBody(wire.NewContactMediumRequest(c))
	return g.do(ctx, OpUpdateContactMedium, req, http.MethodPut, "/contactmediums/"+id)
}

func (g *HTTP) ListCities(ctx context.Context) ([]domain.City, error) {
	var out []wire.CityResponse
	req := g.cities.R().SetResult(&out)
	if err := g.do(ctx, OpListCities, req, http.MethodGet, "/cities"); err != nil {
		return nil, err
	}
	cities := make([]domain.City, 0, len(out))
	for _, c := range out {
		cities = append(cities, domain.City{ID: c.ID, Name: c.Name})
	}
	return cities, nil
}
