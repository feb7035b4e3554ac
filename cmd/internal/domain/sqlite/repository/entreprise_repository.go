package repository

import (
	"errors"
	"omigec/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultEntrepriseRepository struct {
	db *gorm.DB
}

func NewEntrepriseRepository(db *gorm.DB) *DefaultEntrepriseRepository {
	return &DefaultEntrepriseRepository{db: db}
}

func (r *DefaultEntrepriseRepository) FindByID(id int64) (*entity.Entreprise, error) {
	var ent entity.Entreprise
	err := r.db.First(&ent, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &ent, nil
}

func (r *DefaultEntrepriseRepository) FindByUserID(userID int64) (*entity.Entreprise, error) {
	var ent entity.Entreprise
	err := r.db.Where("user_id = ?", userID).First(&ent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &ent, nil
}

func (r *DefaultEntrepriseRepository) ExistsByNIF(nif string) (bool, error) {
	var exists int
	err := r.db.
		Raw("SELECT EXISTS(SELECT 1 FROM entreprises WHERE nif = ?)", nif).
		Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

// FindByStatus lists entreprises, newest first. An empty status lists all.
func (r *DefaultEntrepriseRepository) FindByStatus(status entity.EntrepriseStatus, limit, offset int) ([]*entity.Entreprise, int64, error) {
	query := r.db.Model(&entity.Entreprise{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ents []*entity.Entreprise
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&ents).Error
	if err != nil {
		return nil, 0, err
	}
	return ents, total, nil
}

func (r *DefaultEntrepriseRepository) Save(ent *entity.Entreprise) error {
	return r.db.Save(ent).Error
}
