package onboarding

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"customer-onboarding/internal/domain"
	"customer-onboarding/internal/gateway"
	"customer-onboarding/internal/handoff"
)

func loadedEditor(t *testing.T) (*Editor, *stubGateway, Deps) {
	t.Helper()
	gw := newStubGateway()
	gw.records = []domain.CustomerRecord{sampleRecord()}
	deps := testDeps(gw)
	require.NoError(t, deps.Handoff.Set(context.Background(), handoff.SelectedCustomerID, "cust-a"))
	e := NewEditor(deps, NewSession(2))
	require.NoError(t, e.LoadCustomerData(context.Background()))
	gw.reset()
	return e, gw, deps
}

func TestEditor_LoadCustomerData(t *testing.T) {
	e, _, _ := loadedEditor(t)

	assert.Equal(t, "female", e.Value(FieldGender))
	assert.Equal(t, "ayse@example.com", e.Value(FieldEmail), "first contact medium only")
	assert.Equal(t, "cm-1", e.ContactMediumID())
	assert.Equal(t, "1001", e.Customer().CustomerNumber)
	assert.Equal(t, e.Values(), e.Backup())
	for _, f := range AllFields() {
		assert.True(t, e.Locked(f), f)
	}
	assert.Equal(t, 2, e.Addresses().Len())
	def, ok := e.Addresses().Default()
	require.True(t, ok)
	assert.Equal(t, "addr-y", def.ID)
}

func TestEditor_LoadByCustomerNumber(t *testing.T) {
	gw := newStubGateway()
	gw.records = []domain.CustomerRecord{sampleRecord()}
	deps := testDeps(gw)
	require.NoError(t, deps.Handoff.Set(context.Background(), handoff.SelectedCustomerNumber, "1001"))
	e := NewEditor(deps, nil)

	require.NoError(t, e.LoadCustomerData(context.Background()))

	lists := gw.callsFor(gateway.OpListCustomers)
	require.Len(t, lists, 1)
	assert.Equal(t, domain.CustomerFilter{CustomerNumber: "1001"}, lists[0].Filter)
	assert.Equal(t, "cust-a", e.Customer().ID)
}

func TestEditor_LoadFailures(t *testing.T) {
	gw := newStubGateway()
	deps := testDeps(gw)
	e := NewEditor(deps, nil)
	ctx := context.Background()

	assert.ErrorIs(t, e.LoadCustomerData(ctx), ErrNoCustomerSelected)

	require.NoError(t, deps.Handoff.Set(ctx, handoff.SelectedCustomerID, "missing"))
	assert.ErrorIs(t, e.LoadCustomerData(ctx), ErrCustomerNotFound)

	gw.failing(gateway.OpListCustomers, errors.New("down"))
	var remote *RemoteError
	assert.ErrorAs(t, e.LoadCustomerData(ctx), &remote)
}

func TestEditor_StepGating(t *testing.T) {
	e, _, _ := loadedEditor(t)

	require.NoError(t, e.EnableEdit(StepDemographic))
	assert.ErrorIs(t, e.SelectStep(StepContact), ErrStepLocked)
	assert.Equal(t, StepDemographic, e.CurrentStep())
	assert.ErrorIs(t, e.EnableEdit(StepContact), ErrStepLocked)

	require.NoError(t, e.CancelEdit(StepDemographic))
	require.NoError(t, e.SelectStep(StepContact))
	assert.Equal(t, StepContact, e.CurrentStep())

	assert.ErrorIs(t, e.EnableEdit(StepAccount), ErrStepReadOnly)
	assert.ErrorIs(t, e.EnableEdit(StepAddress), ErrStepReadOnly)
	assert.ErrorIs(t, e.SelectStep(Step(9)), ErrUnknownStep)
	assert.ErrorIs(t, e.CancelEdit(StepContact), ErrNotEditing)
}

func TestEditor_SubFormBlocksStepChange(t *testing.T) {
	e, _, _ := loadedEditor(t)
	require.NoError(t, e.SelectStep(StepAddress))
	require.NoError(t, e.Addresses().OpenAdd())

	assert.ErrorIs(t, e.SelectStep(StepContact), ErrSubFormOpen)

	require.NoError(t, e.Addresses().CloseForm())
	assert.NoError(t, e.SelectStep(StepContact))
}

func TestEditor_EnteringAddressStepResetsPage(t *testing.T) {
	e, _, _ := loadedEditor(t)
	items := append(sampleRecord().Addresses, domain.Address{ID: "addr-z", Title: "Summer"})
	e.Addresses().Load("cust-a", items)
	require.NoError(t, e.SelectStep(StepAddress))
	require.True(t, e.Addresses().NextPage())
	require.NoError(t, e.SelectStep(StepDemographic))

	require.NoError(t, e.SelectStep(StepAddress))
	assert.Equal(t, 1, e.Addresses().Cursor().Current())
}

func TestEditor_CancelRestoresSnapshot(t *testing.T) {
	e, gw, _ := loadedEditor(t)
	before := e.Values()

	require.NoError(t, e.EnableEdit(StepDemographic))
	require.NoError(t, e.SetField(FieldFirstName, "Zeynep"))
	require.NoError(t, e.SetField(FieldLastName, "Kaya"))
	require.NoError(t, e.CancelEdit(StepDemographic))

	assert.Equal(t, before, e.Values())
	assert.False(t, e.IsEditing(StepDemographic))
	assert.True(t, e.Locked(FieldFirstName))
	assert.ErrorIs(t, e.SetField(FieldFirstName, "x"), ErrFieldLocked)
	assert.Empty(t, gw.ops())

	// A second round trip leaves the same state.
	require.NoError(t, e.EnableEdit(StepDemographic))
	require.NoError(t, e.CancelEdit(StepDemographic))
	assert.Equal(t, before, e.Values())
}

func TestEditor_SaveValidationKeepsEditMode(t *testing.T) {
	e, gw, _ := loadedEditor(t)
	require.NoError(t, e.EnableEdit(StepContact))
	require.NoError(t, e.SetField(FieldEmail, "not-an-email"))

	err := e.SaveChanges(context.Background(), StepContact)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.True(t, e.IsEditing(StepContact))
	assert.True(t, e.Touched(FieldEmail))
	assert.Empty(t, gw.ops())
}

func TestEditor_SaveDemographic(t *testing.T) {
	e, gw, _ := loadedEditor(t)
	require.NoError(t, e.EnableEdit(StepDemographic))
	require.NoError(t, e.SetField(FieldFirstName, "Zeynep"))

	require.NoError(t, e.SaveChanges(context.Background(), StepDemographic))

	updates := gw.callsFor(gateway.OpUpdateCustomer)
	require.Len(t, updates, 1)
	assert.Equal(t, "cust-a", updates[0].ID)
	assert.Equal(t, "Zeynep", updates[0].Customer.FirstName)
	assert.Equal(t, "female", updates[0].Customer.Gender)
	assert.Equal(t, "1001", updates[0].Customer.CustomerNumber)
	assert.False(t, e.IsEditing(StepDemographic))
	assert.True(t, e.Locked(FieldFirstName))
	assert.Equal(t, "Zeynep", e.Backup()[FieldFirstName])
	assert.Equal(t, "Zeynep", e.Customer().FirstName)
}

func TestEditor_SaveRemoteFailureRollsBack(t *testing.T) {
	e, gw, _ := loadedEditor(t)
	gw.failing(gateway.OpUpdateCustomer, &gateway.Error{Op: gateway.OpUpdateCustomer, Status: 500, Message: "Service unavailable"})
	require.NoError(t, e.EnableEdit(StepDemographic))
	require.NoError(t, e.SetField(FieldFirstName, "Zeynep"))

	err := e.SaveChanges(context.Background(), StepDemographic)

	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "Service unavailable", UserMessage(err))
	assert.Equal(t, "Ayse", e.Value(FieldFirstName))
	assert.False(t, e.IsEditing(StepDemographic))
	assert.True(t, e.Locked(FieldFirstName))
}

func TestEditor_SaveContactUpdatesKnownMedium(t *testing.T) {
	e, gw, _ := loadedEditor(t)
	require.NoError(t, e.EnableEdit(StepContact))
	require.NoError(t, e.SetField(FieldMobilePhone, "5559998877"))

	require.NoError(t, e.SaveChanges(context.Background(), StepContact))

	updates := gw.callsFor(gateway.OpUpdateContactMedium)
	require.Len(t, updates, 1)
	assert.Equal(t, "cm-1", updates[0].ID)
	assert.Equal(t, "5559998877", updates[0].Contact.MobilePhone)
	assert.Empty(t, gw.callsFor(gateway.OpCreateContactMedium))
}

func TestEditor_SaveContactCreatesMissingMedium(t *testing.T) {
	gw := newStubGateway()
	rec := sampleRecord()
	rec.ContactMediums = nil
	gw.records = []domain.CustomerRecord{rec}
	deps := testDeps(gw)
	require.NoError(t, deps.Handoff.Set(context.Background(), handoff.SelectedCustomerID, "cust-a"))
	e := NewEditor(deps, nil)
	require.NoError(t, e.LoadCustomerData(context.Background()))
	assert.Empty(t, e.ContactMediumID())

	require.NoError(t, e.EnableEdit(StepContact))
	require.NoError(t, e.SetField(FieldEmail, "new@example.com"))
	require.NoError(t, e.SetField(FieldMobilePhone, "5550001122"))
	require.NoError(t, e.SaveChanges(context.Background(), StepContact))

	creates := gw.callsFor(gateway.OpCreateContactMedium)
	require.Len(t, creates, 1)
	assert.Equal(t, "cust-a", creates[0].Contact.CustomerID)
	assert.NotEmpty(t, e.ContactMediumID())
}

func TestEditor_SaveRequiresEditMode(t *testing.T) {
	e, _, _ := loadedEditor(t)
	ctx := context.Background()
	assert.ErrorIs(t, e.SaveChanges(ctx, StepDemographic), ErrNotEditing)
	assert.ErrorIs(t, e.SaveChanges(ctx, StepAccount), ErrStepReadOnly)
}

type blockingUpdates struct {
	*stubGateway
	entered chan struct{}
	release chan struct{}
}

func (b *blockingUpdates) UpdateCustomer(ctx context.Context, id string, c domain.Customer) error {
	close(b.entered)
	<-b.release
	return b.stubGateway.UpdateCustomer(ctx, id, c)
}

func TestEditor_SaveRejectsReentry(t *testing.T) {
	gw := &blockingUpdates{stubGateway: newStubGateway(), entered: make(chan struct{}), release: make(chan struct{})}
	gw.records = []domain.CustomerRecord{sampleRecord()}
	deps := testDeps(gw.stubGateway)
	deps.Gateway = gw
	ctx := context.Background()
	require.NoError(t, deps.Handoff.Set(ctx, handoff.SelectedCustomerID, "cust-a"))
	e := NewEditor(deps, nil)
	require.NoError(t, e.LoadCustomerData(ctx))
	require.NoError(t, e.EnableEdit(StepDemographic))
	require.NoError(t, e.SetField(FieldFirstName, "Zeynep"))

	done := make(chan error, 1)
	go func() { done <- e.SaveChanges(ctx, StepDemographic) }()
	<-gw.entered

	assert.ErrorIs(t, e.SaveChanges(ctx, StepDemographic), ErrBusy)
	assert.ErrorIs(t, e.SetField(FieldLastName, "Kaya"), ErrBusy)

	close(gw.release)
	require.NoError(t, <-done)
	assert.Len(t, gw.callsFor(gateway.OpUpdateCustomer), 1)
	assert.Equal(t, "Zeynep", e.Customer().FirstName)
}

func TestEditor_Accounts(t *testing.T) {
	e, gw, _ := loadedEditor(t)

	accounts := e.Accounts()
	require.Len(t, accounts, 2)
	assert.Equal(t, "ACC-1", accounts[0].AccountNumber)
	assert.Equal(t, "addr-y", accounts[0].AddressID)
	accounts[0].AccountName = "changed"
	assert.Equal(t, "Main", e.Accounts()[0].AccountName, "callers get a copy")
	assert.Nil(t, StepAccount.Fields())
	assert.Empty(t, gw.ops())
}

func TestEditor_ToggleAccount(t *testing.T) {
	e, _, _ := loadedEditor(t)
	assert.Empty(t, e.OpenedAccount())

	require.NoError(t, e.ToggleAccount("ACC-1"))
	assert.Equal(t, "ACC-1", e.OpenedAccount())
	require.NoError(t, e.ToggleAccount("ACC-2"))
	assert.Equal(t, "ACC-2", e.OpenedAccount(), "one account open at a time")
	require.NoError(t, e.ToggleAccount("ACC-2"))
	assert.Empty(t, e.OpenedAccount())

	assert.ErrorIs(t, e.ToggleAccount("ACC-9"), ErrAccountNotFound)
	assert.Empty(t, e.OpenedAccount())

	require.NoError(t, e.ToggleAccount("ACC-1"))
	require.NoError(t, e.DeleteCustomer(context.Background()))
	assert.Empty(t, e.Accounts())
	assert.Empty(t, e.OpenedAccount())
	assert.ErrorIs(t, e.ToggleAccount("ACC-1"), ErrSessionEnded)
}

func TestEditor_DeleteEndsSession(t *testing.T) {
	e, gw, deps := loadedEditor(t)
	ctx := context.Background()

	require.NoError(t, e.DeleteCustomer(ctx))

	deletes := gw.callsFor(gateway.OpDeleteCustomer)
	require.Len(t, deletes, 1)
	assert.Equal(t, "cust-a", deletes[0].ID)
	assert.True(t, e.Ended())
	assert.Zero(t, e.Addresses().Len())
	_, err := deps.Handoff.Get(ctx, handoff.SelectedCustomerID)
	assert.ErrorIs(t, err, handoff.ErrNotSet)

	assert.ErrorIs(t, e.SelectStep(StepContact), ErrSessionEnded)
	assert.ErrorIs(t, e.EnableEdit(StepDemographic), ErrSessionEnded)
	assert.ErrorIs(t, e.DeleteCustomer(ctx), ErrSessionEnded)
	assert.ErrorIs(t, e.LoadCustomerData(ctx), ErrSessionEnded)
}

func TestEditor_DeleteFailureKeepsSession(t *testing.T) {
	e, gw, _ := loadedEditor(t)
	gw.failing(gateway.OpDeleteCustomer, errors.New("down"))

	err := e.DeleteCustomer(context.Background())

	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.False(t, e.Ended())
	assert.Equal(t, "cust-a", e.Customer().ID)
}

func TestNormalizeGender(t *testing.T) {
	cases := map[string]string{
		"K": "female", "Female": "female",
		"E": "male", "Male": "male",
		"": "other", "X": "other",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeGender(in), in)
	}
}
