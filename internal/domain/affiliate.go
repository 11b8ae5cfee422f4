package domain

import "github.com/shopspring/decimal"

// AffiliateLevel уровень реферера, определяющий процент его комиссии с заказов
// приведенных юзеров.
type AffiliateLevel struct {
	Name              string
	CommissionPercent decimal.Decimal
	// MinReferrals минимальное число рефералов для получения уровня.
	MinReferrals int64
}

// AffiliateLevels таблица уровней, отсортирована по возрастанию MinReferrals.
var AffiliateLevels = []AffiliateLevel{
	{Name: "Starter", CommissionPercent: decimal.NewFromInt(5), MinReferrals: 0},
	{Name: "Partner", CommissionPercent: decimal.NewFromInt(10), MinReferrals: 25},
	{Name: "Elite", CommissionPercent: decimal.NewFromInt(15), MinReferrals: 100},
}

// AffiliateLevelByName ищет уровень по имени, хранящемуся на юзере. Для неизвестного
// имени возвращает стартовый уровень.
func AffiliateLevelByName(name string) AffiliateLevel {
	for _, l := range AffiliateLevels {
		if l.Name == name {
			return l
		}
	}
	return AffiliateLevels[0]
}

// AffiliateLevelForReferrals возвращает уровень по числу рефералов.
func AffiliateLevelForReferrals(count int64) AffiliateLevel {
	current := AffiliateLevels[0]
	for _, l := range AffiliateLevels[1:] {
		if count < l.MinReferrals {
			break
		}
		current = l
	}
	return current
}
