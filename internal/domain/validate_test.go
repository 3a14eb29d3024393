package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tiagocanilhas/WaveCoach-sub000/internal/domain"
)

func TestParseDate(t *testing.T) {
	millis, err := domain.ParseDate("05-06-2025")
	require.NoError(t, err)
	require.Equal(t, "05-06-2025", domain.FormatDate(millis))

	_, err = domain.ParseDate("31-02-2025")
	require.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = domain.ParseDate("2025-06-05")
	require.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = domain.ParseDate("")
	require.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestValidName(t *testing.T) {
	require.True(t, domain.ValidName("Kai"))
	require.True(t, domain.ValidName(strings.Repeat("a", 64)))
	require.False(t, domain.ValidName(""))
	require.False(t, domain.ValidName("   "))
	require.False(t, domain.ValidName(strings.Repeat("a", 65)))
}

func TestValidCategory(t *testing.T) {
	require.True(t, domain.ValidCategory("legs"))
	require.True(t, domain.ValidCategory("Chest"))
	require.True(t, domain.ValidCategory(" cardio "))
	require.False(t, domain.ValidCategory("yoga"))
	require.False(t, domain.ValidCategory(""))
}

func TestValidActivityKind(t *testing.T) {
	require.True(t, domain.ValidActivityKind("gym"))
	require.True(t, domain.ValidActivityKind("Water"))
	require.False(t, domain.ValidActivityKind("bike"))
}

func TestScalarRanges(t *testing.T) {
	require.True(t, domain.ValidSet(0, 0, 0))
	require.False(t, domain.ValidSet(-1, 10, 60))
	require.False(t, domain.ValidSet(10, -0.5, 60))

	require.True(t, domain.ValidRPE(1))
	require.True(t, domain.ValidRPE(10))
	require.False(t, domain.ValidRPE(0))
	require.False(t, domain.ValidRPE(11))

	require.True(t, domain.ValidTRIMP(1))
	require.True(t, domain.ValidTRIMP(200))
	require.False(t, domain.ValidTRIMP(0))
	require.False(t, domain.ValidTRIMP(201))

	require.True(t, domain.ValidDuration(1))
	require.False(t, domain.ValidDuration(0))

	require.True(t, domain.ValidQuestionnaireScore(1))
	require.True(t, domain.ValidQuestionnaireScore(5))
	require.False(t, domain.ValidQuestionnaireScore(0))
	require.False(t, domain.ValidQuestionnaireScore(6))
}
