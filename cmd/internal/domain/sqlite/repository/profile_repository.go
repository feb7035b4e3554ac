package repository

import (
	"errors"
	"omigec/cmd/internal/domain/entity"
	"strings"

	"gorm.io/gorm"
)

type DefaultProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *DefaultProfileRepository {
	return &DefaultProfileRepository{db: db}
}

func (p *DefaultProfileRepository) FindByID(id int64) (*entity.Profile, error) {
	var profile entity.Profile
	err := p.db.First(&profile, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (p *DefaultProfileRepository) FindByUserID(userID int64) (*entity.Profile, error) {
	var profile entity.Profile
	err := p.db.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (p *DefaultProfileRepository) ExistsByNNI(nni string) (bool, error) {
	var exists int
	err := p.db.
		Raw("SELECT EXISTS(SELECT 1 FROM profiles WHERE nni = ?)", nni).
		Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

func (p *DefaultProfileRepository) Save(profile *entity.Profile) error {
	return p.db.Save(profile).Error
}

// Search lists validated engineers ordered by name. 'query' matches the
// name, city or diploma title, 'domain' a single tag.
func (p *DefaultProfileRepository) Search(query, domain string, limit, offset int) ([]*entity.Profile, int64, error) {
	q := p.db.Model(&entity.Profile{}).Where("status = ?", entity.ProfileStatusValidated)

	if query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		q = q.Where("(LOWER(full_name) LIKE ? OR LOWER(city) LIKE ? OR LOWER(diploma_title) LIKE ?)", pattern, pattern, pattern)
	}

	if domain != "" {
		q = q.Where("(' ' || domains || ' ') LIKE ?", "% "+strings.ToLower(domain)+" %")
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []*entity.Profile
	err := q.
		Order("full_name ASC").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error
	if err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

// FindByStatus lists profiles for the admin queue, oldest first so the
// longest-waiting applicants come up on top. An empty status lists all.
func (p *DefaultProfileRepository) FindByStatus(status entity.ProfileStatus, limit, offset int) ([]*entity.Profile, int64, error) {
	q := p.db.Model(&entity.Profile{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var profiles []*entity.Profile
	err := q.
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error
	if err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}
