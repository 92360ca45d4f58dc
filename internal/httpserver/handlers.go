package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"customer-onboarding/internal/domain"
	"customer-onboarding/internal/logger"
	addresssvc "customer-onboarding/internal/service/address"
	cmsvc "customer-onboarding/internal/service/contactmedium"
	customersvc "customer-onboarding/internal/service/customer"
	"customer-onboarding/internal/validation"
	"customer-onboarding/internal/wire"
)

type handlers struct {
	deps Deps
}

func (h *handlers) listCustomers(c *gin.Context) {
	filter := wire.ParseFilter(c.Query)
	records, err := h.deps.CustomerSvc.Search(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]wire.CustomerResponse, 0, len(records))
	for _, rec := range records {
		resp, err := wire.NewCustomerResponse(rec)
		if err != nil {
			h.fail(c, fmt.Errorf("render customer %s: %w", rec.ID, err))
			return
		}
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) bindCustomer(c *gin.Context) (domain.Customer, bool) {
	var req wire.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return domain.Customer{}, false
	}
	customer, err := req.Customer()
	if err != nil {
		h.badRequest(c, err)
		return domain.Customer{}, false
	}
	if !validation.OldEnough(customer.BirthDate, h.deps.MinAge, h.deps.Now()) {
		c.JSON(http.StatusBadRequest, wire.ErrorResponse{
			Message: fmt.Sprintf("dateOfBirth: Customer must be at least %d years old", h.deps.MinAge),
		})
		return domain.Customer{}, false
	}
	return customer, true
}

func (h *handlers) createCustomer(c *gin.Context) {
	customer, ok := h.bindCustomer(c)
	if !ok {
		return
	}
	created, err := h.deps.CustomerSvc.Create(c.Request.Context(), customer)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, wire.CreatedResponse{ID: created.ID})
}

func (h *handlers) updateCustomer(c *gin.Context) {
	customer, ok := h.bindCustomer(c)
	if !ok {
		return
	}
	if _, err := h.deps.CustomerSvc.Update(c.Request.Context(), c.Param("id"), customer); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) deleteCustomer(c *gin.Context) {
	if err := h.deps.CustomerSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) createAddress(c *gin.Context) {
	var req wire.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	created, err := h.deps.AddressSvc.Create(c.Request.Context(), req.Address())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, wire.CreatedResponse{ID: created.ID})
}

func (h *handlers) updateAddress(c *gin.Context) {
	var req wire.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if _, err := h.deps.AddressSvc.Update(c.Request.Context(), c.Param("id"), req.Address()); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) deleteAddress(c *gin.Context) {
	if err := h.deps.AddressSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) createContactMedium(c *gin.Context) {
	var req wire.ContactMediumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	created, err := h.deps.ContactSvc.Create(c.Request.Context(), req.ContactMedium())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, wire.CreatedResponse{ID: created.ID})
}

func (h *handlers) updateContactMedium(c *gin.Context) {
	var req wire.ContactMediumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if _, err := h.deps.ContactSvc.Update(c.Request.Context(), c.Param("id"), req.ContactMedium()); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listCities(c *gin.Context) {
	cities, err := h.deps.CitySvc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]wire.CityResponse, 0, len(cities))
	for _, city := range cities {
		out = append(out, wire.CityResponse{ID: city.ID, Name: city.Name})
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) badRequest(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, wire.ErrorResponse{Message: "Invalid request body"})
		return
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Field()+": "+validation.Message(fe, h.deps.MinAge))
	}
	c.JSON(http.StatusBadRequest, wire.ErrorResponse{Message: strings.Join(parts, "; ")})
}

func (h *handlers) fail(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error("request failed", zap.Error(err))
		_ = c.Error(err)
	}
	c.JSON(status, wire.ErrorResponse{Message: msg})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Record not found"
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, "A customer with this national id already exists"
	case errors.Is(err, domain.ErrInvalidReference):
		return http.StatusBadRequest, "Referenced customer or city does not exist"
	case errors.Is(err, customersvc.ErrInvalidID),
		errors.Is(err, addresssvc.ErrMissingCustomer),
		errors.Is(err, cmsvc.ErrMissingCustomer):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
