package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	parsed, ok := parseDate("2024-06-15")
	require.True(t, ok)
	assert.Equal(t, 2024, parsed.Year())
	assert.Equal(t, time.June, parsed.Month())
	assert.Equal(t, 15, parsed.Day())
	assert.Equal(t, time.Local, parsed.Location())

	parsed, ok = parseDate("  2024-06-15 ")
	require.True(t, ok)
	assert.Equal(t, 15, parsed.Day())

	_, ok = parseDate("15/06/2024")
	assert.False(t, ok)
	_, ok = parseDate("2024-13-01")
	assert.False(t, ok)
	_, ok = parseDate("")
	assert.False(t, ok)
}

func TestToday(t *testing.T) {
	day := today()
	assert.Zero(t, day.Hour())
	assert.Zero(t, day.Minute())
	assert.Zero(t, day.Second())

	now := time.Now().In(time.Local)
	assert.Equal(t, now.Day(), day.Day())
}

func TestParsePagination(t *testing.T) {
	page, size := parsePagination("", "")
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, size)

	page, size = parsePagination("3", "25")
	assert.Equal(t, 3, page)
	assert.Equal(t, 25, size)

	// out of range values fall back to defaults
	page, size = parsePagination("0", "500")
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, size)

	page, size = parsePagination("abc", "-1")
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, size)
}
