package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePosition(t *testing.T) {
	p, err := parsePosition("-3.186874, 55.944494")
	require.NoError(t, err)
	assert.Equal(t, -3.186874, p.Lng)
	assert.Equal(t, 55.944494, p.Lat)

	for _, bad := range []string{"", "1", "1,2,3", "x,2", "1,y"} {
		_, err := parsePosition(bad)
		assert.Error(t, err, bad)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}
