package domain

import "github.com/shopspring/decimal"

// Rank ранг юзера, зависящий от суммы его пожизненных трат. Дает скидку на заказы
// и разовый бонус на рекламный баланс при повышении.
type Rank struct {
	Name            string
	Threshold       decimal.Decimal
	DiscountPercent decimal.Decimal
	// Bonus начисляется на AdBalance один раз, при первом достижении порога.
	Bonus decimal.Decimal
}

// Ranks таблица рангов, отсортирована по возрастанию порога. Первый элемент обязан
// иметь нулевой порог, чтобы RankFor была тотальной.
var Ranks = []Rank{
	{Name: "Newbie", Threshold: decimal.Zero, DiscountPercent: decimal.Zero, Bonus: decimal.Zero},
	{Name: "Bronze", Threshold: decimal.NewFromInt(100), DiscountPercent: decimal.NewFromInt(1), Bonus: decimal.NewFromInt(2)},
	{Name: "Silver", Threshold: decimal.NewFromInt(500), DiscountPercent: decimal.NewFromInt(2), Bonus: decimal.NewFromInt(5)},
	{Name: "Gold", Threshold: decimal.NewFromInt(2000), DiscountPercent: decimal.NewFromInt(3), Bonus: decimal.NewFromInt(10)},
	{Name: "Platinum", Threshold: decimal.NewFromInt(10000), DiscountPercent: decimal.NewFromInt(5), Bonus: decimal.NewFromInt(25)},
	{Name: "Diamond", Threshold: decimal.NewFromInt(50000), DiscountPercent: decimal.NewFromInt(7), Bonus: decimal.NewFromInt(100)},
}

// RankFor возвращает ранг для указанной суммы трат: последний ранг таблицы, чей порог
// не превышает totalSpent. Функция чистая и тотальная, отрицательные значения
// трактуются как ноль.
func RankFor(totalSpent decimal.Decimal) Rank {
	current := Ranks[0]
	for _, r := range Ranks[1:] {
		if totalSpent.LessThan(r.Threshold) {
			break
		}
		current = r
	}
	return current
}

// RankByName ищет ранг по имени. Для неизвестного имени возвращает базовый ранг,
// чтобы старые записи в БД не ломали расчет скидки.
func RankByName(name string) Rank {
	for _, r := range Ranks {
		if r.Name == name {
			return r
		}
	}
	return Ranks[0]
}
