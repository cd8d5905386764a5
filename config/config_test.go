package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRewardTiers(t *testing.T) {
	tiers, err := parseRewardTiers("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRewardTiers, tiers)

	tiers, err = parseRewardTiers("5:40,10:30,20:15,50:10,100:5")
	require.NoError(t, err)
	require.Len(t, tiers, 5)
	assert.Equal(t, int64(5), tiers[0].Coins)
	assert.Equal(t, 40.0, tiers[0].Weight)
	assert.Equal(t, int64(100), tiers[4].Coins)

	_, err = parseRewardTiers("5")
	require.Error(t, err)
	_, err = parseRewardTiers("abc:40")
	require.Error(t, err)
	_, err = parseRewardTiers("5:-1")
	require.Error(t, err)
	_, err = parseRewardTiers("0:40")
	require.Error(t, err)
}
