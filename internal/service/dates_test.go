package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAvailableDate_SourcesSortTogether(t *testing.T) {
	fetched := normalizeAvailableDate("2024-03-01T10:00:00")
	pushed := normalizeAvailableDate("2024-03-01 09:00:00")
	require.NotNil(t, fetched)
	require.NotNil(t, pushed)

	assert.Equal(t, "2024-03-01 10:00:00", *fetched)
	assert.Greater(t, *fetched, *pushed)

	// same instant in two notations stores identically
	assert.Equal(t, *normalizeAvailableDate("2024-03-01T10:00:00+01:00"), *pushed)
}
