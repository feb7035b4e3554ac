package repository

import (
	"errors"
	"omigec/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultPaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *DefaultPaymentRepository {
	return &DefaultPaymentRepository{db: db}
}

// FindCotisation returns the newest membership fee payment of a profile.
func (p *DefaultPaymentRepository) FindCotisation(profileID int64) (*entity.Payment, error) {
	var payment entity.Payment
	err := p.db.
		Where("payer_kind = ? AND payer_id = ? AND purpose = ?", entity.PayerProfile, profileID, entity.PurposeCotisation).
		Order("id DESC").
		First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (p *DefaultPaymentRepository) FindBySubscription(subscriptionID int64) (*entity.Payment, error) {
	var payment entity.Payment
	err := p.db.Where("subscription_id = ?", subscriptionID).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (p *DefaultPaymentRepository) Save(payment *entity.Payment) error {
	return p.db.Save(payment).Error
}
