package httpserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"customer-onboarding/internal/domain"
	"customer-onboarding/internal/logger"
	"customer-onboarding/internal/metrics"
	"customer-onboarding/internal/validation"
)

// BasePath prefixes every record route.
const BasePath = "/customerservice/api"

type CustomerService interface {
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	Update(ctx context.Context, id string, c domain.Customer) (*domain.Customer, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, filter domain.CustomerFilter) ([]domain.CustomerRecord, error)
}

type AddressService interface {
	Create(ctx context.Context, a domain.Address) (*domain.Address, error)
	Update(ctx context.Context, id string, a domain.Address) (*domain.Address, error)
	Delete(ctx context.Context, id string) error
}

type ContactMediumService interface {
	Create(ctx context.Context, c domain.ContactMedium) (*domain.ContactMedium, error)
	Update(ctx context.Context, id string, c domain.ContactMedium) (*domain.ContactMedium, error)
}

type CityService interface {
	List(ctx context.Context) ([]domain.City, error)
}

// Deps are the services behind the routes.
type Deps struct {
	CustomerSvc CustomerService
	AddressSvc  AddressService
	ContactSvc  ContactMediumService
	CitySvc     CityService
	Metrics     *metrics.Metrics
	CORSOrigins []string
	MinAge      int
	Now         func() time.Time
}

// buildRouter wires routes for the API.
func buildRouter(log *zap.Logger, db Pinger, deps Deps) (*gin.Engine, error) {
	if deps.CustomerSvc == nil || deps.AddressSvc == nil || deps.ContactSvc == nil || deps.CitySvc == nil {
		return nil, errors.New("httpserver: every service dependency is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if deps.MinAge <= 0 {
		deps.MinAge = validation.DefaultMinAge
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := validation.Register(engine, deps.MinAge, deps.Now); err != nil {
			return nil, fmt.Errorf("httpserver: %w", err)
		}
	}

	router := gin.New()
	router.Use(logger.GinMiddleware(log), gin.Recovery())
	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  deps.CORSOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", logger.RequestIDHeader},
			ExposeHeaders: []string{logger.RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	h := &handlers{deps: deps}
	api := router.Group(BasePath)
	{
		api.GET("/customers", h.listCustomers)
		api.POST("/customers", h.createCustomer)
		api.PUT("/customers/:id", h.updateCustomer)
		api.DELETE("/customers/:id", h.deleteCustomer)

		api.POST("/addresses", h.createAddress)
		api.PUT("/addresses/:id", h.updateAddress)
		api.DELETE("/addresses/:id", h.deleteAddress)

		api.POST("/contactmediums", h.createContactMedium)
		api.PUT("/contactmediums/:id", h.updateContactMedium)

		api.GET("/cities", h.listCities)
	}

	return router, nil
}
