package repository

import (
	"errors"
	"omigec/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultSponsorRepository struct {
	db *gorm.DB
}

func NewSponsorRepository(db *gorm.DB) *DefaultSponsorRepository {
	return &DefaultSponsorRepository{db: db}
}

// FindAllActive orders gold first, then silver, then bronze.
func (s *DefaultSponsorRepository) FindAllActive() ([]*entity.Sponsor, error) {
	var sponsors []*entity.Sponsor
	err := s.db.
		Where("is_active = ?", true).
		Order("CASE tier WHEN 'gold' THEN 0 WHEN 'silver' THEN 1 ELSE 2 END").
		Order("name ASC").
		Find(&sponsors).Error
	if err != nil {
		return nil, err
	}
	return sponsors, nil
}

func (s *DefaultSponsorRepository) FindByID(id int64) (*entity.Sponsor, error) {
	var sponsor entity.Sponsor
	err := s.db.First(&sponsor, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &sponsor, nil
}

func (s *DefaultSponsorRepository) Save(sponsor *entity.Sponsor) error {
	return s.db.Save(sponsor).Error
}

func (s *DefaultSponsorRepository) Delete(sponsor *entity.Sponsor) error {
	return s.db.Delete(sponsor).Error
}
