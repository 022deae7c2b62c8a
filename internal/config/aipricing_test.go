package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCostForDefaults(t *testing.T) {
	holder, err := NewAIPricingHolder()
	require.NoError(t, err)

	cost, paid := holder.CostFor("Go AI")
	assert.True(t, paid)
	assert.True(t, cost.Equal(decimal.NewFromInt(500)))

	// Model matching ignores case.
	cost, paid = holder.CostFor("go ai")
	assert.True(t, paid)
	assert.True(t, cost.Equal(decimal.NewFromInt(500)))

	_, paid = holder.CostFor("gpt-4o-mini")
	assert.False(t, paid)

	_, paid = holder.CostFor("")
	assert.False(t, paid)
}

func TestValidatePricingConfig(t *testing.T) {
	assert.NoError(t, validateAIPricingConfig(DefaultAIPricingConfig()))

	assert.Error(t, validateAIPricingConfig(AIPricingConfig{
		Models: []ModelPrice{{Model: "", Cost: 10}},
	}))
	assert.Error(t, validateAIPricingConfig(AIPricingConfig{
		Models: []ModelPrice{{Model: "Go AI", Cost: -1}},
	}))
}
