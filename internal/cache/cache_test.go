package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKey_StableAndDistinct(t *testing.T) {
	a := CacheKey("https://files.example/lease.pdf")
	b := CacheKey("https://files.example/lease.pdf")
	c := CacheKey("https://files.example/other.pdf")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, "leasescan:report:"))
	// sha256 hex digest after the prefix
	assert.Len(t, strings.TrimPrefix(a, "leasescan:report:"), 64)
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *ReportCache

	key, ok := c.Lookup(context.Background(), "https://files.example/lease.pdf")
	assert.False(t, ok)
	assert.Empty(t, key)

	c.Store(context.Background(), "https://files.example/lease.pdf", "abc/report.txt")
	assert.NoError(t, c.Close())
}
