package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToWireDate(t *testing.T) {
	got, err := ToWireDate("1990-04-23")
	require.NoError(t, err)
	assert.Equal(t, "23/04/1990", got)

	got, err = ToWireDate("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ToWireDate("23/04/1990")
	assert.Error(t, err)
}

func TestFromWireDate(t *testing.T) {
	got, err := FromWireDate("01/12/2001")
	require.NoError(t, err)
	assert.Equal(t, "2001-12-01", got)

	_, err = FromWireDate("2001-12-01")
	assert.Error(t, err)
}

func TestAgeOn(t *testing.T) {
	birth := time.Date(2000, time.June, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 17, AgeOn(birth, time.Date(2018, time.June, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 18, AgeOn(birth, time.Date(2018, time.June, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 18, AgeOn(birth, time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC)))
}
