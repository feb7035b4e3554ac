package plans

import (
	"omigec/cmd/internal/domain/entity"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	require.Len(t, c.All(), 3)

	starter, ok := c.Get(entity.PlanStarter)
	require.True(t, ok)
	assert.Equal(t, 5, starter.MaxOffers)
	assert.False(t, starter.Unlimited())
	assert.Equal(t, 30*24*time.Hour, starter.Duration())

	premium, ok := c.Get(entity.PlanPremium)
	require.True(t, ok)
	assert.True(t, premium.Unlimited())

	_, ok = c.Get("gold")
	assert.False(t, ok)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("plans: []"))
	assert.Error(t, err)

	_, err = Parse([]byte("plans:\n  - name: x\n    duration_days: 0\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("plans: [oops"))
	assert.Error(t, err)
}
