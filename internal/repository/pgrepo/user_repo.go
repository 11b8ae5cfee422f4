package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/internal/repository/repoargs"
	"github.com/fsdevblog/groph-smm/pkg/uow"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const userColumns = `id, created_at, updated_at, username, password, admin,
	balance, ad_balance, total_spent, rank,
	referral_code, referrer_id, referrals_count, affiliate_earnings, affiliate_level, api_key`

type UserRepository struct {
	conn uow.DBTX
}

func NewUserRepository(conn uow.DBTX) *UserRepository {
	return &UserRepository{conn: conn}
}

// CreateUser создает юзера. В случае конфликта юзернейма/кода возвращает ошибку
// domain.ErrDuplicateKey, во всех других случаях - domain.ErrUnknown.
func (u *UserRepository) CreateUser(ctx context.Context, args repoargs.CreateUser) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `
		INSERT INTO users (username, password, referral_code, api_key, referrer_id, rank, affiliate_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		args.Username, args.Password, args.ReferralCode, args.APIKey, args.ReferrerID,
		args.Rank, args.AffiliateLevel,
	)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "creating user")
	}
	return user, nil
}

func (u *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by id %d", id)
	}
	return user, nil
}

func (u *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by username %s", username)
	}
	return user, nil
}

func (u *UserRepository) FindByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE referral_code = $1`, code)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by referral code")
	}
	return user, nil
}

func (u *UserRepository) FindByAPIKey(ctx context.Context, key string) (*domain.User, error) {
	row := u.conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE api_key = $1`, key)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by api key")
	}
	return user, nil
}

// UpdateSpending записывает абсолютные значения денежных полей после размещения заказа.
// Вызывается только внутри uow.Do, в той же транзакции, где строка юзера была прочитана.
func (u *UserRepository) UpdateSpending(ctx context.Context, args repoargs.UserSpendingUpdate) error {
	_, err := u.conn.Exec(ctx, `
		UPDATE users
		SET balance = $2, ad_balance = $3, total_spent = $4, rank = $5, updated_at = now()
		WHERE id = $1`,
		args.UserID, args.Balance, args.AdBalance, args.TotalSpent, args.Rank,
	)
	return convertErr(err, "updating spending for user %d", args.UserID)
}

// UpdateWallets записывает абсолютные значения обоих кошельков (перевод между балансами,
// резервирование бюджета кампании).
func (u *UserRepository) UpdateWallets(ctx context.Context, userID int64, balance, adBalance decimal.Decimal) error {
	_, err := u.conn.Exec(ctx, `
		UPDATE users SET balance = $2, ad_balance = $3, updated_at = now() WHERE id = $1`,
		userID, balance, adBalance,
	)
	return convertErr(err, "updating wallets for user %d", userID)
}

func (u *UserRepository) CreditBalance(ctx context.Context, userID int64, amount decimal.Decimal) error {
	_, err := u.conn.Exec(ctx, `
		UPDATE users SET balance = balance + $2, updated_at = now() WHERE id = $1`,
		userID, amount,
	)
	return convertErr(err, "crediting balance for user %d", userID)
}

func (u *UserRepository) CreditAdBalance(ctx context.Context, userID int64, amount decimal.Decimal) error {
	_, err := u.conn.Exec(ctx, `
		UPDATE users SET ad_balance = ad_balance + $2, updated_at = now() WHERE id = $1`,
		userID, amount,
	)
	return convertErr(err, "crediting ad balance for user %d", userID)
}

func (u *UserRepository) CreditAffiliateEarnings(ctx context.Context, userID int64, amount decimal.Decimal) error {
	_, err := u.conn.Exec(ctx, `
		UPDATE users SET affiliate_earnings = affiliate_earnings + $2, updated_at = now() WHERE id = $1`,
		userID, amount,
	)
	return convertErr(err, "crediting affiliate earnings for user %d", userID)
}

// IncrementReferralsCount увеличивает счетчик рефералов и возвращает новое значение.
func (u *UserRepository) IncrementReferralsCount(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := u.conn.QueryRow(ctx, `
		UPDATE users SET referrals_count = referrals_count + 1, updated_at = now()
		WHERE id = $1
		RETURNING referrals_count`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, convertErr(err, "incrementing referrals count for user %d", userID)
	}
	return count, nil
}

func (u *UserRepository) SetAffiliateLevel(ctx context.Context, userID int64, level string) error {
	_, err := u.conn.Exec(ctx, `
		UPDATE users SET affiliate_level = $2, updated_at = now() WHERE id = $1`,
		userID, level,
	)
	return convertErr(err, "setting affiliate level for user %d", userID)
}

// List возвращает юзеров по убыванию даты регистрации (админский листинг).
func (u *UserRepository) List(ctx context.Context, limit uint) ([]domain.User, error) {
	safeLimit, limitErr := safeConvertUintToInt32(limit)
	if limitErr != nil {
		return nil, convertErr(limitErr, "converting limit to int32")
	}
	rows, err := u.conn.Query(ctx, `
		SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1`, safeLimit)
	if err != nil {
		return nil, convertErr(err, "listing users")
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, scanErr := scanUser(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning user row")
		}
		users = append(users, *user)
	}
	return users, convertErr(rows.Err(), "listing users")
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt, &user.Username, &user.Password, &user.Admin,
		&user.Balance, &user.AdBalance, &user.TotalSpent, &user.Rank,
		&user.ReferralCode, &user.ReferrerID, &user.ReferralsCount,
		&user.AffiliateEarnings, &user.AffiliateLevel, &user.APIKey,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &user, nil
}
