package stn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waterscope/floodwatch/pkg/errs"
)

func TestParseDataType(t *testing.T) {
	for _, name := range []string{"instruments", "peaks", "hwms", "sites"} {
		dt, err := ParseDataType(name)
		require.NoError(t, err)
		assert.Equal(t, name, dt.String())
	}
}

func TestParseDataType_Invalid(t *testing.T) {
	_, err := ParseDataType("sensors")
	require.Error(t, err)

	var ive *errs.InputValueError
	require.ErrorAs(t, err, &ive)
	assert.Equal(t, "data_type", ive.Name)
	assert.ElementsMatch(t, []string{"instruments", "peaks", "hwms", "sites"}, ive.Valid)
}

func TestValidateParams_Accepted(t *testing.T) {
	err := ValidateParams(Sites, map[string]string{"State": "CA"})
	assert.NoError(t, err)
}

func TestValidateParams_UnknownKey(t *testing.T) {
	err := ValidateParams(Sites, map[string]string{"NotAKey": "x"})
	require.Error(t, err)

	var ive *errs.InputValueError
	require.ErrorAs(t, err, &ive)
	assert.Equal(t, "query_param", ive.Name)
	assert.Contains(t, ive.Valid, "State")
	assert.Contains(t, err.Error(), "State")
}

func TestValidateParams_AllOrNothing(t *testing.T) {
	// A single bad key rejects the whole set even when others are valid.
	err := ValidateParams(Peaks, map[string]string{"States": "SC, CA", "Bogus": "1"})
	require.Error(t, err)
}

func TestValidateParams_EmptyAndNil(t *testing.T) {
	assert.NoError(t, ValidateParams(Instruments, nil))
	assert.NoError(t, ValidateParams(Instruments, map[string]string{}))
}

func TestAllowedParams_Sorted(t *testing.T) {
	got := AllowedParams(Peaks)
	require.NotEmpty(t, got)
	assert.IsIncreasing(t, got)
	assert.Contains(t, got, "StartDate")
}
