package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankFor(t *testing.T) {
	cases := []struct {
		name       string
		totalSpent decimal.Decimal
		wantRank   string
	}{
		{name: "zero spent", totalSpent: decimal.Zero, wantRank: "Newbie"},
		{name: "just below bronze", totalSpent: decimal.NewFromFloat(99.99), wantRank: "Newbie"},
		{name: "exact bronze threshold", totalSpent: decimal.NewFromInt(100), wantRank: "Bronze"},
		{name: "between silver and gold", totalSpent: decimal.NewFromInt(1999), wantRank: "Silver"},
		{name: "exact gold threshold", totalSpent: decimal.NewFromInt(2000), wantRank: "Gold"},
		{name: "platinum", totalSpent: decimal.NewFromInt(10000), wantRank: "Platinum"},
		{name: "way above diamond", totalSpent: decimal.NewFromInt(1000000), wantRank: "Diamond"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.wantRank, RankFor(c.totalSpent).Name)
		})
	}
}

// Таблица рангов должна быть строго возрастающей по порогу, иначе выбор ранга неоднозначен.
func TestRanksMonotonic(t *testing.T) {
	for i := 1; i < len(Ranks); i++ {
		assert.True(t, Ranks[i].Threshold.GreaterThan(Ranks[i-1].Threshold),
			"threshold of %s must be greater than %s", Ranks[i].Name, Ranks[i-1].Name)
	}
}

func TestRankByName(t *testing.T) {
	gold := RankByName("Gold")
	assert.Equal(t, "Gold", gold.Name)
	assert.True(t, gold.DiscountPercent.Equal(decimal.NewFromInt(3)))

	// неизвестное имя откатывается к базовому рангу
	unknown := RankByName("Emperor")
	assert.Equal(t, Ranks[0].Name, unknown.Name)
}

func TestAffiliateLevelForReferrals(t *testing.T) {
	cases := []struct {
		referrals int64
		wantLevel string
	}{
		{referrals: 0, wantLevel: "Starter"},
		{referrals: 24, wantLevel: "Starter"},
		{referrals: 25, wantLevel: "Partner"},
		{referrals: 99, wantLevel: "Partner"},
		{referrals: 100, wantLevel: "Elite"},
		{referrals: 100500, wantLevel: "Elite"},
	}

	for _, c := range cases {
		assert.Equal(t, c.wantLevel, AffiliateLevelForReferrals(c.referrals).Name,
			"referrals=%d", c.referrals)
	}
}

func TestServiceByID(t *testing.T) {
	svc, err := ServiceByID(101)
	require.NoError(t, err)
	assert.Equal(t, int64(101), svc.ID)
	assert.NotEmpty(t, svc.Name)
	assert.True(t, svc.Price.IsPositive())
	assert.Less(t, svc.Min, svc.Max)

	_, notFoundErr := ServiceByID(999999)
	assert.ErrorIs(t, notFoundErr, ErrServiceNotFound)
}
