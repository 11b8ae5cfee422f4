package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/internal/repository/repoargs"
	"github.com/fsdevblog/groph-smm/pkg/uow"
	"github.com/shopspring/decimal"
)

const moneyScale = 2

var (
	thousand = decimal.NewFromInt(1000)
	hundred  = decimal.NewFromInt(100)
)

type OrderService struct {
	uow       uow.UOW
	orderRepo OrderRepository
}

func NewOrderService(u uow.UOW) (*OrderService, error) {
	orderRepo, err := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if err != nil {
		return nil, err
	}
	return &OrderService{
		uow:       u,
		orderRepo: orderRepo,
	}, nil
}

type PlaceOrderArgs struct {
	UserID    int64
	ServiceID int64
	Link      string
	Quantity  int64
}

// Promotion разовое уведомление о повышении ранга. Возвращается только вызывающему
// клиенту и нигде не сохраняется: если клиент его не показал, оно потеряно.
type Promotion struct {
	Rank  string
	Bonus decimal.Decimal
}

// Place размещает заказ: списывает деньги, двигает пожизненные траты и ранг,
// создает запись заказа и, при наличии реферера, партнерское начисление.
//
// Алгоритм работы (целиком внутри одной uow-транзакции):
//  1. Читает строку юзера и цену услуги (оверрайд поверх каталога) из транзакции,
//     а не значения, которые мог показывать UI.
//  2. Считает списание по актуальной скидке ранга; при charge > balance возвращает
//     domain.ErrNotEnoughBalance, не записав ничего.
//  3. Пишет новые balance/total_spent/rank и заказ. Если ранг вырос и у нового ранга
//     есть бонус, AdBalance увеличивается на бонус ровно один раз.
//  4. Если юзера привел реферер, создает запись в журнале партнерских начислений и
//     увеличивает заработок реферера по проценту его уровня.
//
// Количество проверяется по лимитам услуги до любых записей.
func (o *OrderService) Place(ctx context.Context, args PlaceOrderArgs) (*domain.Order, *Promotion, error) {
	svc, svcErr := domain.ServiceByID(args.ServiceID)
	if svcErr != nil {
		return nil, nil, svcErr
	}
	if args.Quantity < svc.Min || args.Quantity > svc.Max {
		return nil, nil, domain.NewQuantityRangeError(args.Quantity, svc.Min, svc.Max)
	}

	var order *domain.Order
	var promotion *Promotion

	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		// uow.Do может выполнить колбэк повторно, результат прошлой попытки сбрасываем.
		order, promotion = nil, nil

		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}

		user, userErr := userRepo.FindByID(c, args.UserID)
		if userErr != nil {
			return userErr //nolint:wrapcheck
		}

		price, priceErr := o.servicePrice(c, tx, svc)
		if priceErr != nil {
			return priceErr
		}

		charge := chargeFor(args.Quantity, price, domain.RankByName(user.Rank).DiscountPercent)
		if charge.GreaterThan(user.Balance) {
			return domain.ErrNotEnoughBalance
		}

		newTotalSpent := user.TotalSpent.Add(charge)
		newRank := domain.RankFor(newTotalSpent)
		newAdBalance := user.AdBalance

		if newRank.Name != user.Rank && newRank.Bonus.IsPositive() {
			newAdBalance = newAdBalance.Add(newRank.Bonus)
			promotion = &Promotion{Rank: newRank.Name, Bonus: newRank.Bonus}
		}

		if updErr := userRepo.UpdateSpending(c, repoargs.UserSpendingUpdate{
			UserID:     user.ID,
			Balance:    user.Balance.Sub(charge),
			AdBalance:  newAdBalance,
			TotalSpent: newTotalSpent,
			Rank:       newRank.Name,
		}); updErr != nil {
			return updErr //nolint:wrapcheck
		}

		var orderErr error
		order, orderErr = orderRepo.Create(c, repoargs.OrderCreate{
			UserID:      user.ID,
			ServiceID:   svc.ID,
			ServiceName: svc.Name,
			Link:        args.Link,
			Quantity:    args.Quantity,
			Charge:      charge,
		})
		if orderErr != nil {
			return orderErr //nolint:wrapcheck
		}

		return o.postAffiliateCommission(c, tx, userRepo, user, order)
	})

	if txErr != nil {
		return nil, nil, fmt.Errorf("placing order: %w", txErr)
	}
	return order, promotion, nil
}

// postAffiliateCommission создает запись журнала начислений и увеличивает заработок
// реферера. Вызывается внутри транзакции размещения заказа: комиссия либо
// фиксируется вместе с заказом, либо не фиксируется вовсе.
func (o *OrderService) postAffiliateCommission(
	ctx context.Context,
	tx uow.TX,
	userRepo UserRepository,
	buyer *domain.User,
	order *domain.Order,
) error {
	if buyer.ReferrerID == nil {
		return nil
	}

	referrer, referrerErr := userRepo.FindByID(ctx, *buyer.ReferrerID)
	if referrerErr != nil {
		return referrerErr //nolint:wrapcheck
	}

	level := domain.AffiliateLevelByName(referrer.AffiliateLevel)
	commission := order.Charge.Mul(level.CommissionPercent).Div(hundred).Round(moneyScale)
	if !commission.IsPositive() {
		return nil
	}

	affRepo, affRepoErr := uow.GetAs[AffiliateTxRepository](tx, uow.RepositoryName(repoargs.AffiliateTxRepoName))
	if affRepoErr != nil {
		return affRepoErr //nolint:wrapcheck
	}

	if _, createErr := affRepo.Create(ctx, repoargs.AffiliateTransactionCreate{
		ReferrerID: referrer.ID,
		ReferredID: buyer.ID,
		OrderID:    order.ID,
		Amount:     commission,
		Level:      level.Name,
	}); createErr != nil {
		return createErr //nolint:wrapcheck
	}

	return userRepo.CreditAffiliateEarnings(ctx, referrer.ID, commission) //nolint:wrapcheck
}

// servicePrice возвращает цену услуги с учетом оверрайда, прочитанного в текущей транзакции.
func (o *OrderService) servicePrice(ctx context.Context, tx uow.TX, svc *domain.Service) (decimal.Decimal, error) {
	overrideRepo, repoErr :=
		uow.GetAs[PriceOverrideRepository](tx, uow.RepositoryName(repoargs.PriceOverrideRepoName))
	if repoErr != nil {
		return decimal.Zero, repoErr //nolint:wrapcheck
	}
	overrides, overridesErr := overrideRepo.GetAll(ctx)
	if overridesErr != nil {
		return decimal.Zero, overridesErr //nolint:wrapcheck
	}
	for _, override := range overrides {
		if override.ServiceID == svc.ID {
			return override.Price, nil
		}
	}
	return svc.Price, nil
}

// chargeFor считает итоговую сумму списания: quantity/1000 * price * (1 - discount/100),
// округленную до валютной точности.
func chargeFor(quantity int64, price, discountPercent decimal.Decimal) decimal.Decimal {
	gross := decimal.NewFromInt(quantity).Div(thousand).Mul(price)
	discounted := gross.Mul(decimal.NewFromInt(1).Sub(discountPercent.Div(hundred)))
	return discounted.Round(moneyScale)
}

// GetByUserID Возвращает заказы юзера отсортированные по дате создания по убыванию.
func (o *OrderService) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, err := o.orderRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return orders, nil
}

// FindForUser возвращает заказ, только если он принадлежит userID.
func (o *OrderService) FindForUser(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	order, err := o.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if order.UserID != userID {
		return nil, domain.ErrRecordNotFound
	}
	return order, nil
}

// UpdateStatus меняет статус заказа (админская операция). Сумма и количество
// заказа неизменны с момента создания.
func (o *OrderService) UpdateStatus(ctx context.Context, args repoargs.OrderStatusUpdate) (*domain.Order, error) {
	order, err := o.orderRepo.UpdateStatus(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("updating order status: %w", err)
	}
	return order, nil
}
