package calculations

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestValidateEMI(t *testing.T) {
	tests := []struct {
		name        string
		observed    float64
		expected    float64
		tolerance   float64
		wantValid   bool
		wantDiff    float64
		wantPercent float64
	}{
		{
			name:        "exact match",
			observed:    12399,
			expected:    12399,
			tolerance:   DefaultTolerancePercent,
			wantValid:   true,
			wantDiff:    0,
			wantPercent: 0,
		},
		{
			name:        "inside one percent",
			observed:    12400,
			expected:    12399,
			tolerance:   1,
			wantValid:   true,
			wantDiff:    1,
			wantPercent: 100.0 / 12399,
		},
		{
			name:        "exactly at tolerance",
			observed:    1010,
			expected:    1000,
			tolerance:   1,
			wantValid:   true,
			wantDiff:    10,
			wantPercent: 1,
		},
		{
			name:        "outside default tolerance",
			observed:    1002,
			expected:    1000,
			tolerance:   DefaultTolerancePercent,
			wantValid:   false,
			wantDiff:    2,
			wantPercent: 0.2,
		},
		{
			name:        "below expected",
			observed:    900,
			expected:    1000,
			tolerance:   5,
			wantValid:   false,
			wantDiff:    100,
			wantPercent: 10,
		},
	}

	c := NewComparator(zap.NewNop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.ValidateEMI(tt.observed, tt.expected, tt.tolerance)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, got.IsValid)
			assert.Equal(t, tt.wantDiff, got.Difference)
			assert.InDelta(t, tt.wantPercent, got.DifferencePercent, 1e-9)
		})
	}
}

func TestValidateEMIZeroTolerance(t *testing.T) {
	c := NewComparator(nil)

	same, err := c.ValidateEMI(12399, 12399, 0)
	require.NoError(t, err)
	assert.True(t, same.IsValid)

	off, err := c.ValidateEMI(12400, 12399, 0)
	require.NoError(t, err)
	assert.False(t, off.IsValid)
}

func TestValidateEMIUndefined(t *testing.T) {
	c := NewComparator(nil)

	tests := []struct {
		name     string
		observed float64
		expected float64
	}{
		{name: "zero expected", observed: 10, expected: 0},
		{name: "zero both", observed: 0, expected: 0},
		{name: "NaN observed", observed: math.NaN(), expected: 10},
		{name: "infinite expected", observed: 10, expected: math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.ValidateEMI(tt.observed, tt.expected, 1)
			assert.True(t, errors.Is(err, ErrComparisonUndefined), "got %v", err)

			_, err = c.ValidateInterest(tt.observed, tt.expected, 1)
			assert.True(t, errors.Is(err, ErrComparisonUndefined), "got %v", err)

			_, err = c.ValidateTotalAmount(tt.observed, tt.expected, 1)
			assert.True(t, errors.Is(err, ErrComparisonUndefined), "got %v", err)
		})
	}
}

func TestValidateInterestAndTotal(t *testing.T) {
	c := NewComparator(nil)

	ok, err := c.ValidateInterest(487880, 487880, DefaultTolerancePercent)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.ValidateInterest(490000, 487880, DefaultTolerancePercent)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.ValidateTotalAmount(1487000, 1487880, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	// отрицательная переплата при нулевой ставке сравнивается по модулю
	ok, err = c.ValidateInterest(-4, -4, 0)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestValidateEMILogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := NewComparator(zap.New(core))

	_, err := c.ValidateEMI(12399, 12399, 1)
	require.NoError(t, err)
	_, err = c.ValidateEMI(13000, 12399, 1)
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Contains(t, entries[0].Message, "EMI validation passed")
	assert.Equal(t, 12399.0, entries[0].ContextMap()["expected"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "EMI validation failed", entries[1].Message)
	fields := entries[1].ContextMap()
	assert.Equal(t, 13000.0, fields["calculated"])
	assert.Equal(t, 601.0, fields["difference"])
	assert.Equal(t, "4.85%", fields["difference_percent"])
}

func TestValidateEMIErrorIsNotLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := NewComparator(zap.New(core))

	_, err := c.ValidateEMI(10, 0, 1)
	require.Error(t, err)
	assert.Zero(t, logs.Len())
}
