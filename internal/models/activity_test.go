package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewActivityCode_Valid(t *testing.T) {
	code, err := NewActivityCode("m")
	require.NoError(t, err)
	assert.Equal(t, ActivityCode("M"), code)

	code, err = NewActivityCode("KK")
	require.NoError(t, err)
	assert.Equal(t, ActivityCode("KK"), code)
}

func TestNewActivityCode_Invalid(t *testing.T) {
	for _, raw := range []string{"", "ABC", "M1", "1", "M "} {
		_, err := NewActivityCode(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseActivities_Basic(t *testing.T) {
	activities, report := ParseActivities("M20 S30", 0)
	assert.Equal(t, Activities{"M": 20, "S": 30}, activities)
	assert.Empty(t, report.Skipped)
	assert.Empty(t, report.Flagged)
}

func TestParseActivities_DuplicatesSum(t *testing.T) {
	activities, _ := ParseActivities("M20 M10", 0)
	assert.Equal(t, Activities{"M": 30}, activities)
}

func TestParseActivities_EmptyInputIsEmptyDay(t *testing.T) {
	activities, report := ParseActivities("", 0)
	require.NotNil(t, activities)
	assert.Empty(t, activities)
	assert.Empty(t, report.Skipped)

	activities, _ = ParseActivities("   ", 0)
	require.NotNil(t, activities)
	assert.Empty(t, activities)
}

func TestParseActivities_SkipsInvalidTokens(t *testing.T) {
	activities, report := ParseActivities("M0 S-10 Y20", 0)
	assert.Equal(t, Activities{"Y": 20}, activities)
	assert.ElementsMatch(t, []string{"M0", "S-10"}, report.Skipped)
}

func TestParseActivities_SkipsMalformed(t *testing.T) {
	activities, report := ParseActivities("XYZ20 M 20 run M2x M5", 0)
	assert.Equal(t, Activities{"M": 5}, activities)
	assert.ElementsMatch(t, []string{"XYZ20", "M", "20", "run", "M2x"}, report.Skipped)
}

func TestParseActivities_CaseInsensitive(t *testing.T) {
	activities, _ := ParseActivities("m20 s30", 0)
	assert.Equal(t, Activities{"M": 20, "S": 30}, activities)
}

func TestParseActivities_FlagsOutsizedValues(t *testing.T) {
	activities, report := ParseActivities("M20000 S30", 10000)
	// Flagged values are still counted.
	assert.Equal(t, Activities{"M": 20000, "S": 30}, activities)
	assert.Equal(t, []string{"M20000"}, report.Flagged)
}

func TestParseActivities_TwoLetterCodes(t *testing.T) {
	activities, _ := ParseActivities("KK45 M20", 0)
	assert.Equal(t, Activities{"KK": 45, "M": 20}, activities)
}

func TestActivities_TotalUnitsAndSortedCodes(t *testing.T) {
	a := Activities{"S": 30, "M": 20, "KK": 5}
	assert.Equal(t, 55, a.TotalUnits())
	assert.Equal(t, []ActivityCode{"KK", "M", "S"}, a.SortedCodes())
}

func TestActivities_CloneIsIndependent(t *testing.T) {
	a := Activities{"M": 20}
	b := a.Clone()
	b["M"] = 99
	assert.Equal(t, 20, a["M"])
}
