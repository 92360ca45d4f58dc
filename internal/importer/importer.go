package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"customer-onboarding/internal/onboarding"
)

// Column names of the customer CSV. Customer columns use the wizard field names.
const (
	ColAddressTitle       = "address.title"
	ColAddressCityID      = "address.cityId"
	ColAddressStreet      = "address.street"
	ColAddressHouseNumber = "address.houseNumber"
	ColAddressDescription = "address.description"
	ColAddressIsDefault   = "address.isDefault"
)

// NewCreator returns a fresh create wizard for one customer.
type NewCreator func() *onboarding.Creator

// Failure is a customer the importer could not create.
type Failure struct {
	Line       int
	NationalID string
	Stage      onboarding.Stage
	CustomerID string // set when the customer exists but dependents failed
	Err        error
}

// Summary reports the result of a Run.
type Summary struct {
	Imported int
	Failures []Failure
}

// CSVImporter reads customer rows and creates each customer through the create wizard.
// A row with a national id starts a customer; rows without one carry further addresses
// for the customer above them.
type CSVImporter struct {
	reader     *csv.Reader
	newCreator NewCreator
	logger     *zap.Logger
}

func NewCSVImporter(r io.Reader, newCreator NewCreator, logger *zap.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // continuation rows may be short
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVImporter{
		reader:     csvr,
		newCreator: newCreator,
		logger:     logger,
	}
}

type customerRow struct {
	line      int
	values    onboarding.Values
	addresses []onboarding.AddressInput
}

// Run creates every customer in the input. Per-customer failures are collected in the
// summary; only read errors and context cancellation abort the run.
func (i *CSVImporter) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	headers, err := i.reader.Read()
	if err != nil {
		return sum, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index[string(onboarding.FieldNationalityID)]; !ok {
		return sum, fmt.Errorf("missing %q column", onboarding.FieldNationalityID)
	}

	var current *customerRow
	flush := func() error {
		if current == nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if f := i.save(ctx, current); f != nil {
			sum.Failures = append(sum.Failures, *f)
		} else {
			sum.Imported++
		}
		return nil
	}

	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sum, fmt.Errorf("read row: %w", err)
		}
		line++

		values := parseValues(record, index)
		addr, hasAddr := parseAddress(record, index)

		if values[onboarding.FieldNationalityID] != "" {
			if err := flush(); err != nil {
				return sum, err
			}
			current = &customerRow{line: line, values: values}
		} else if current == nil || !hasAddr {
			continue
		}
		if hasAddr {
			current.addresses = append(current.addresses, addr)
		}
	}
	if err := flush(); err != nil {
		return sum, err
	}

	return sum, nil
}

func (i *CSVImporter) save(ctx context.Context, row *customerRow) *Failure {
	natID := row.values[onboarding.FieldNationalityID]
	fail := func(stage onboarding.Stage, customerID string, err error) *Failure {
		i.logger.Warn("customer import failed",
			zap.Int("line", row.line), zap.String("national_id", natID), zap.Error(err))
		return &Failure{Line: row.line, NationalID: natID, Stage: stage, CustomerID: customerID, Err: err}
	}

	c := i.newCreator()
	for f, v := range row.values {
		if err := c.SetField(f, v); err != nil {
			return fail(onboarding.StageNone, "", err)
		}
	}
	for _, in := range row.addresses {
		if _, err := c.Addresses().Add(ctx, in); err != nil {
			return fail(onboarding.StageNone, "", fmt.Errorf("address %q: %w", in.Title, err))
		}
	}

	out, err := c.Submit(ctx)
	if err != nil {
		return fail(onboarding.StageNone, "", err)
	}
	if err := out.Err(); err != nil {
		return fail(out.Stage, out.CustomerID, err)
	}
	i.logger.Info("customer imported",
		zap.Int("line", row.line), zap.String("customer_id", out.CustomerID), zap.Int("addresses", len(out.AddressIDs)))
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseValues(record []string, index map[string]int) onboarding.Values {
	values := onboarding.Values{}
	for _, f := range onboarding.AllFields() {
		if v := pick(record, index, string(f)); v != "" {
			values[f] = v
		}
	}
	return values
}

func parseAddress(record []string, index map[string]int) (onboarding.AddressInput, bool) {
	in := onboarding.AddressInput{
		Title:       pick(record, index, ColAddressTitle),
		CityID:      pick(record, index, ColAddressCityID),
		Street:      pick(record, index, ColAddressStreet),
		HouseNumber: pick(record, index, ColAddressHouseNumber),
		Description: pick(record, index, ColAddressDescription),
	}
	in.IsDefault, _ = strconv.ParseBool(pick(record, index, ColAddressIsDefault))
	empty := in.Title == "" && in.CityID == "" && in.Street == "" && in.HouseNumber == "" && in.Description == ""
	return in, !empty
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
