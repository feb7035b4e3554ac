package repository

import (
	"errors"
	"omigec/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultSubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *DefaultSubscriptionRepository {
	return &DefaultSubscriptionRepository{db: db}
}

func (r *DefaultSubscriptionRepository) FindByID(id int64) (*entity.Subscription, error) {
	var sub entity.Subscription
	err := r.db.First(&sub, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// FindActive returns the newest row that is active, verified and not
// yet expired at 'now'.
func (r *DefaultSubscriptionRepository) FindActive(entrepriseID, now int64) (*entity.Subscription, error) {
	var sub entity.Subscription
	err := r.db.
		Where("entreprise_id = ? AND is_active = ? AND payment_status = ? AND expires_at > ?",
			entrepriseID, true, entity.PaymentVerified, now).
		Order("created_at DESC").
		Order("id DESC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *DefaultSubscriptionRepository) FindPending(entrepriseID int64) (*entity.Subscription, error) {
	var sub entity.Subscription
	err := r.db.
		Where("entreprise_id = ? AND payment_status = ? AND is_active = ?", entrepriseID, entity.PaymentPending, false).
		Order("created_at DESC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// CreateRequest deactivates every active row of the entreprise and inserts
// the new pending request with its payment, all in one transaction.
// The pending check is repeated inside the transaction so two concurrent
// requests cannot both get in.
func (r *DefaultSubscriptionRepository) CreateRequest(sub *entity.Subscription, payment *entity.Payment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var pending int64
		err := tx.Model(&entity.Subscription{}).
			Where("entreprise_id = ? AND payment_status = ? AND is_active = ?", sub.EntrepriseID, entity.PaymentPending, false).
			Count(&pending).Error
		if err != nil {
			return err
		}

		if pending > 0 {
			return ErrPendingRequestExists
		}

		err = tx.Model(&entity.Subscription{}).
			Where("entreprise_id = ? AND is_active = ?", sub.EntrepriseID, true).
			Updates(map[string]any{"is_active": false, "updated_at": sub.CreatedAt}).Error
		if err != nil {
			return err
		}

		if err = tx.Omit("Entreprise").Create(sub).Error; err != nil {
			return err
		}

		payment.SubscriptionID = &sub.ID
		return tx.Create(payment).Error
	})
}

// Activate flips 'sub' to active and verified after deactivating its
// siblings, and verifies the linked payment. 'sub' must already carry the
// new dates and verifier stamps.
func (r *DefaultSubscriptionRepository) Activate(sub *entity.Subscription) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&entity.Subscription{}).
			Where("entreprise_id = ? AND is_active = ? AND id <> ?", sub.EntrepriseID, true, sub.ID).
			Updates(map[string]any{"is_active": false, "updated_at": sub.UpdatedAt}).Error
		if err != nil {
			return err
		}

		if err = tx.Omit("Entreprise").Save(sub).Error; err != nil {
			return err
		}
		return updateSubscriptionPayment(tx, sub.ID, entity.PaymentVerified, sub.UpdatedAt)
	})
}

// Reject persists a rejected request and its payment.
func (r *DefaultSubscriptionRepository) Reject(sub *entity.Subscription) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Entreprise").Save(sub).Error; err != nil {
			return err
		}
		return updateSubscriptionPayment(tx, sub.ID, entity.PaymentRejected, sub.UpdatedAt)
	})
}

func (r *DefaultSubscriptionRepository) Save(sub *entity.Subscription) error {
	return r.db.Omit("Entreprise").Save(sub).Error
}

// FindByPaymentStatus lists subscriptions with their entreprise, newest
// first. An empty status lists all.
func (r *DefaultSubscriptionRepository) FindByPaymentStatus(status entity.PaymentStatus, limit, offset int) ([]*entity.Subscription, int64, error) {
	query := r.db.Model(&entity.Subscription{})
	if status != "" {
		query = query.Where("payment_status = ?", status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var subs []*entity.Subscription
	err := query.
		Preload("Entreprise").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&subs).Error
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// CountActiveByEntreprise is never above one while the activation and
// request transactions hold.
func (r *DefaultSubscriptionRepository) CountActiveByEntreprise(entrepriseID int64) (int64, error) {
	var n int64
	err := r.db.Model(&entity.Subscription{}).
		Where("entreprise_id = ? AND is_active = ?", entrepriseID, true).
		Count(&n).Error
	return n, err
}

// DeactivateExpired turns off active rows whose expiry has passed and
// returns how many were touched.
func (r *DefaultSubscriptionRepository) DeactivateExpired(now int64) (int64, error) {
	result := r.db.Model(&entity.Subscription{}).
		Where("is_active = ? AND expires_at <= ?", true, now).
		Updates(map[string]any{"is_active": false, "updated_at": now})
	return result.RowsAffected, result.Error
}

func updateSubscriptionPayment(tx *gorm.DB, subID int64, status entity.PaymentStatus, now int64) error {
	return tx.Model(&entity.Payment{}).
		Where("subscription_id = ?", subID).
		Updates(map[string]any{"status": status, "updated_at": now}).Error
}
