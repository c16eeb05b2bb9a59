package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateConversionRoundTrip(t *testing.T) {
	for _, iso := range []string{"2025-01-02", "2025-12-31", "2024-02-29"} {
		native, err := ToProviderDate(iso)
		require.NoError(t, err)

		back, err := ToInternalDate(native)
		require.NoError(t, err)

		assert.Equal(t, iso, back, "round trip for %s via %s", iso, native)
	}
}

func TestDateConversionEmptyStaysEmpty(t *testing.T) {
	native, err := ToProviderDate("")
	require.NoError(t, err)
	assert.Equal(t, "", native)

	iso, err := ToInternalDate("")
	require.NoError(t, err)
	assert.Equal(t, "", iso)
}

func TestDateConversionRejectsWrongFormat(t *testing.T) {
	_, err := ToProviderDate("01/02/2025")
	assert.Error(t, err)

	_, err = ToInternalDate("2025-01-02")
	assert.Error(t, err)
}

func TestCriteriaWithProviderDatesLeavesOriginalUntouched(t *testing.T) {
	criteria := &SearchCriteria{
		Keywords:    "radar",
		PostedFrom:  "2025-03-01",
		PostedTo:    "2025-03-31",
		ClosingFrom: "2025-04-01",
		ClosingTo:   "2025-05-15",
	}

	native, err := criteria.WithProviderDates()
	require.NoError(t, err)

	assert.Equal(t, "03/01/2025", native.PostedFrom)
	assert.Equal(t, "03/31/2025", native.PostedTo)
	assert.Equal(t, "04/01/2025", native.ClosingFrom)
	assert.Equal(t, "05/15/2025", native.ClosingTo)
	assert.Equal(t, "radar", native.Keywords)

	// the receiver is not mutated
	assert.Equal(t, "2025-03-01", criteria.PostedFrom)

	back, err := native.WithInternalDates()
	require.NoError(t, err)
	assert.Equal(t, criteria, back)
}
