package repository

import (
	"context"
	"errors"
	"time"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"github.com/driftpad/driftpad/internal/domain"
	"github.com/driftpad/driftpad/internal/infra/database/models"
)

// AccountRepository persists accounts in postgres with a short in-process
// read-through cache. Accounts are created once and never overwritten by the
// bootstrap path, so stale reads only delay visibility of out-of-band edits.
type AccountRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{
		db:    db,
		cache: cache.New(10*time.Minute, 15*time.Minute),
	}
}

func (r *AccountRepository) Get(ctx context.Context, address string) (domain.Account, error) {

	if cached, ok := r.cache.Get(address); ok {
		return cached.(domain.Account), nil
	}

	var account models.Account
	err := r.db.WithContext(ctx).
		Where("address = ?", address).
		Take(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Account{}, domain.NotFoundError{Resource: "account"}
		}
		return domain.Account{}, err
	}

	result := domain.Account{
		Address:        account.Address,
		Kind:           domain.AccountKind(account.Kind),
		PasswordDigest: account.PasswordDigest,
		SharedSecret:   account.SharedSecret,
		Locale:         account.Locale,
	}
	r.cache.SetDefault(address, result)

	return result, nil
}

func (r *AccountRepository) Put(ctx context.Context, account domain.Account) error {

	record := models.Account{
		Address:        account.Address,
		Kind:           string(account.Kind),
		PasswordDigest: account.PasswordDigest,
		SharedSecret:   account.SharedSecret,
		Locale:         account.Locale,
	}

	err := r.db.WithContext(ctx).Create(&record).Error
	if err != nil {
		return err
	}

	r.cache.SetDefault(account.Address, account)
	return nil
}
