package onboarding

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-onboarding/internal/domain"
	"customer-onboarding/internal/gateway"
	"customer-onboarding/internal/handoff"
)

func TestSearchFilter_Exclusivity(t *testing.T) {
	assert.NoError(t, SearchFilter{NationalID: "10000000146", FirstName: "Ayse"}.Validate())
	assert.ErrorIs(t, SearchFilter{NationalID: "1", GSMNumber: "5"}.Validate(), ErrConflictingFilter)
	assert.NoError(t, SearchFilter{NationalID: "1", GSMNumber: "  "}.Validate())

	f := SearchFilter{CustomerNumber: "1001"}
	assert.Equal(t, SearchCustomerNumber, f.Primary())
	assert.ElementsMatch(t, []string{SearchNationalID, SearchCustomerID, SearchAccountNumber, SearchGSMNumber, SearchOrderNumber}, f.Disabled())
	assert.Nil(t, SearchFilter{FirstName: "Ayse"}.Disabled())
}

func TestSearchFilter_AccountAndOrderNumberArePrimaries(t *testing.T) {
	assert.ErrorIs(t, SearchFilter{AccountNumber: "ACC-1", OrderNumber: "ORD-1"}.Validate(), ErrConflictingFilter)
	assert.ErrorIs(t, SearchFilter{AccountNumber: "ACC-1", NationalID: "10000000146"}.Validate(), ErrConflictingFilter)
	assert.NoError(t, SearchFilter{AccountNumber: "ACC-1", LastName: "Yilmaz"}.Validate())

	assert.Equal(t, SearchAccountNumber, SearchFilter{AccountNumber: "ACC-1"}.Primary())
	assert.Equal(t, SearchOrderNumber, SearchFilter{OrderNumber: "ORD-1"}.Primary())
	assert.Contains(t, SearchFilter{OrderNumber: "ORD-1"}.Disabled(), SearchAccountNumber)
}

func TestSearch_PassesAccountNumberToGateway(t *testing.T) {
	gw := newStubGateway()
	s := NewSearch(testDeps(gw), 20)

	require.NoError(t, s.Run(context.Background(), SearchFilter{AccountNumber: " ACC-1 "}))

	lists := gw.callsFor(gateway.OpListCustomers)
	require.Len(t, lists, 1)
	assert.Equal(t, "ACC-1", lists[0].Filter.AccountNumber)
	assert.Empty(t, lists[0].Filter.OrderNumber)
}

func TestSearch_RejectsEmptyFilterBeforeCalling(t *testing.T) {
	gw := newStubGateway()
	s := NewSearch(testDeps(gw), 20)

	assert.ErrorIs(t, s.Run(context.Background(), SearchFilter{}), ErrEmptyFilter)
	assert.ErrorIs(t, s.Run(context.Background(), SearchFilter{FirstName: "  ", GSMNumber: "\t"}), ErrEmptyFilter)
	assert.Empty(t, gw.ops())
	assert.True(t, SearchFilter{LastName: " "}.IsEmpty())
	assert.False(t, SearchFilter{OrderNumber: "ORD-1"}.IsEmpty())
}

func TestSearch_RunAndPage(t *testing.T) {
	gw := newStubGateway()
	for i := 0; i < 45; i++ {
		gw.records = append(gw.records, domain.CustomerRecord{Customer: domain.Customer{ID: fmt.Sprintf("c%d", i)}})
	}
	s := NewSearch(testDeps(gw), 0)
	ctx := context.Background()

	require.NoError(t, s.Run(ctx, SearchFilter{FirstName: " Ayse "}))

	lists := gw.callsFor(gateway.OpListCustomers)
	require.Len(t, lists, 1)
	assert.Equal(t, "Ayse", lists[0].Filter.FirstName)
	assert.Equal(t, 45, s.Total())
	assert.Equal(t, 3, s.TotalPages())
	assert.Len(t, s.Page(), 20)
	assert.True(t, s.GoTo(3))
	assert.Len(t, s.Page(), 5)
	assert.False(t, s.Next())
	assert.True(t, s.Prev())

	require.NoError(t, s.Run(ctx, SearchFilter{LastName: "Yilmaz"}))
	assert.Equal(t, 1, s.Cursor().Current())
}

func TestSearch_RejectsConflictBeforeCalling(t *testing.T) {
	gw := newStubGateway()
	s := NewSearch(testDeps(gw), 20)

	err := s.Run(context.Background(), SearchFilter{CustomerID: "a", CustomerNumber: "b"})

	assert.ErrorIs(t, err, ErrConflictingFilter)
	assert.Empty(t, gw.ops())
}

func TestSearch_NoResults(t *testing.T) {
	s := NewSearch(testDeps(newStubGateway()), 20)
	assert.False(t, s.NoResults())
	require.NoError(t, s.Run(context.Background(), SearchFilter{NationalID: "10000000146"}))
	assert.True(t, s.NoResults())
	s.Clear()
	assert.False(t, s.NoResults())
}

func TestSearch_SelectWritesHandoff(t *testing.T) {
	gw := newStubGateway()
	gw.records = []domain.CustomerRecord{sampleRecord()}
	deps := testDeps(gw)
	s := NewSearch(deps, 20)
	ctx := context.Background()
	require.NoError(t, s.Run(ctx, SearchFilter{CustomerNumber: "1001"}))

	require.NoError(t, s.Select(ctx, "cust-a"))
	assert.ErrorIs(t, s.Select(ctx, "nope"), ErrCustomerNotFound)

	id, err := deps.Handoff.Get(ctx, handoff.SelectedCustomerID)
	require.NoError(t, err)
	assert.Equal(t, "cust-a", id)
	number, err := deps.Handoff.Get(ctx, handoff.SelectedCustomerNumber)
	require.NoError(t, err)
	assert.Equal(t, "1001", number)

	e := NewEditor(deps, nil)
	require.NoError(t, e.LoadCustomerData(ctx))
	assert.Equal(t, "Ayse", e.Value(FieldFirstName))
}
