package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-onboarding/internal/domain"
	"customer-onboarding/internal/metrics"
	"customer-onboarding/internal/wire"
)

func newTestGateway(t *testing.T, handler http.HandlerFunc) *HTTP {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	base := srv.URL + "/customerservice/api"
	return NewHTTP(Config{
		CustomerURL:      base,
		AddressURL:       base,
		ContactMediumURL: base,
		CityURL:          base,
	}, nil, metrics.New())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestCreateCustomer_SendsWireDate(t *testing.T) {
	var got wire.CustomerRequest
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/customerservice/api/customers", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusCreated, wire.CreatedResponse{ID: "cust-1"})
	})

	id, err := g.CreateCustomer(context.Background(), domain.Customer{
		FirstName:  "Ayse",
		LastName:   "Kaya",
		Gender:     "female",
		BirthDate:  "1990-04-23",
		NationalID: "10000000146",
	})
	require.NoError(t, err)
	assert.Equal(t, "cust-1", id)
	assert.Equal(t, "23/04/1990", got.DateOfBirth)
	assert.Equal(t, "10000000146", got.NatID)
}

func TestCreateCustomer_InvalidDateNeverLeaves(t *testing.T) {
	calls := 0
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	})

	_, err := g.CreateCustomer(context.Background(), domain.Customer{BirthDate: "not-a-date"})
	require.Error(t, err)
	assert.Zero(t, calls)
}

func TestErrorPayloadSurfacesAsUserMessage(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, wire.ErrorResponse{Message: "street is required"})
	})

	_, err := g.CreateAddress(context.Background(), domain.Address{CustomerID: "c1"})
	require.Error(t, err)

	var gerr *Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, OpCreateAddress, gerr.Op)
	assert.Equal(t, http.StatusBadRequest, gerr.Status)
	assert.Equal(t, "street is required", UserMessage(err))
}

func TestNotFoundMapsToDomainError(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	err := g.DeleteAddress(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, FallbackMessage, UserMessage(err))
}

func TestListCustomers_ConvertsRecords(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cust-9", r.URL.Query().Get(wire.QueryID))
		writeJSON(w, http.StatusOK, []wire.CustomerResponse{{
			ID:          "cust-9",
			DateOfBirth: "05/06/1970",
			ContactMediums: []wire.ContactMediumResponse{
				{ID: "cm-1", Email: "x@example.com", MobilePhone: "555", CustomerID: "cust-9"},
			},
			AddressSearches: []wire.AddressResponse{
				{ID: "a-1", CityID: "6", CityName: "Ankara", IsDefault: true, CustomerID: "cust-9"},
			},
		}})
	})

	recs, err := g.ListCustomers(context.Background(), domain.CustomerFilter{ID: "cust-9"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "1970-06-05", recs[0].BirthDate)
	assert.Equal(t, "cm-1", recs[0].ContactMediums[0].ID)
	assert.Equal(t, "Ankara", recs[0].Addresses[0].CityName)
}

func TestUpdateContactMedium_UsesPut(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/customerservice/api/contactmediums/cm-1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, g.UpdateContactMedium(context.Background(), "cm-1", domain.ContactMedium{CustomerID: "c", Email: "e@x.io", MobilePhone: "1"}))
}

func TestListCities(t *testing.T) {
	g := newTestGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []wire.CityResponse{{ID: "34", Name: "Istanbul"}})
	})

	cities, err := g.ListCities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.City{{ID: "34", Name: "Istanbul"}}, cities)
}

func TestRateLimiterHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	g := NewHTTP(Config{CustomerURL: srv.URL, RateLimit: 0.001, RateBurst: 1}, nil, nil)

	require.NoError(t, g.DeleteCustomer(context.Background(), "c1"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := g.DeleteCustomer(ctx, "c2")
	require.Error(t, err)
	assert.Equal(t, FallbackMessage, UserMessage(err))
}
