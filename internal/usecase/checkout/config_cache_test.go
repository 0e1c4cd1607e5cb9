package checkout

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCache_ServesCachedValueWithinTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	fetches := 0
	c := NewConfigCache(func() (GatewayConfig, error) {
		fetches++
		return GatewayConfig{ClientKey: "ck", Environment: "sandbox"}, nil
	}, 10*time.Minute, func() time.Time { return now })

	for i := 0; i < 3; i++ {
		v, err := c.GetOrRefresh()
		require.NoError(t, err)
		assert.Equal(t, "ck", v.ClientKey)
	}
	assert.Equal(t, 1, fetches)
}

func TestConfigCache_RefreshesAfterTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	fetches := 0
	c := NewConfigCache(func() (GatewayConfig, error) {
		fetches++
		return GatewayConfig{ClientKey: "ck", Environment: "sandbox"}, nil
	}, 10*time.Minute, func() time.Time { return now })

	_, err := c.GetOrRefresh()
	require.NoError(t, err)

	now = now.Add(11 * time.Minute)
	_, err = c.GetOrRefresh()
	require.NoError(t, err)
	assert.Equal(t, 2, fetches)
}

func TestConfigCache_FailedRefreshFallsBackToLastGoodValue(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	fail := false
	c := NewConfigCache(func() (GatewayConfig, error) {
		if fail {
			return GatewayConfig{}, errors.New("config source down")
		}
		return GatewayConfig{ClientKey: "ck", Environment: "sandbox"}, nil
	}, 10*time.Minute, func() time.Time { return now })

	_, err := c.GetOrRefresh()
	require.NoError(t, err)

	fail = true
	now = now.Add(11 * time.Minute)
	v, err := c.GetOrRefresh()
	require.NoError(t, err)
	assert.Equal(t, "ck", v.ClientKey)
}

func TestConfigCache_FirstFetchFailurePropagates(t *testing.T) {
	c := NewConfigCache(func() (GatewayConfig, error) {
		return GatewayConfig{}, errors.New("config source down")
	}, 10*time.Minute, nil)

	_, err := c.GetOrRefresh()
	assert.Error(t, err)
}
