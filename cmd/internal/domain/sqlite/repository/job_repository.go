package repository

import (
	"errors"
	"omigec/cmd/internal/domain/entity"
	"strings"

	"gorm.io/gorm"
)

// JobFilter narrows the public listing. Domains match on overlap,
// Search is a case-insensitive substring of title or description.
type JobFilter struct {
	Domains []string
	Search  string
	Today   int64
	Limit   int
	Offset  int
}

type DefaultJobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *DefaultJobRepository {
	return &DefaultJobRepository{db: db}
}

func (d *DefaultJobRepository) FindByID(id int64) (*entity.JobOffer, error) {
	var job entity.JobOffer
	err := d.db.Preload("Entreprise").First(&job, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (d *DefaultJobRepository) CountActive(entrepriseID int64) (int64, error) {
	var n int64
	err := d.db.Model(&entity.JobOffer{}).
		Where("entreprise_id = ? AND is_active = ?", entrepriseID, true).
		Count(&n).Error
	return n, err
}

// CreateWithinQuota inserts the offer only if the entreprise still has
// fewer than 'maxOffers' active offers. A non-positive max means unlimited.
func (d *DefaultJobRepository) CreateWithinQuota(job *entity.JobOffer, maxOffers int) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if maxOffers > 0 {
			var n int64
			err := tx.Model(&entity.JobOffer{}).
				Where("entreprise_id = ? AND is_active = ?", job.EntrepriseID, true).
				Count(&n).Error
			if err != nil {
				return err
			}

			if n >= int64(maxOffers) {
				return ErrQuotaExceeded
			}
		}
		return tx.Omit("Entreprise").Create(job).Error
	})
}

func (d *DefaultJobRepository) Save(job *entity.JobOffer) error {
	return d.db.Omit("Entreprise").Save(job).Error
}

// FindActive lists open offers of valid entreprises, newest first, with
// the total count before pagination.
func (d *DefaultJobRepository) FindActive(f JobFilter) ([]*entity.JobOffer, int64, error) {
	query := d.db.Model(&entity.JobOffer{}).
		Joins("JOIN entreprises ON entreprises.id = job_offers.entreprise_id").
		Where("job_offers.is_active = ? AND job_offers.deadline >= ?", true, f.Today).
		Where("entreprises.status = ?", entity.EntrepriseStatusValid)

	if len(f.Domains) > 0 {
		cond := d.db
		for i, domain := range f.Domains {
			clause := "(' ' || job_offers.domains || ' ') LIKE ?"
			pattern := "% " + strings.ToLower(domain) + " %"
			if i == 0 {
				cond = cond.Where(clause, pattern)
			} else {
				cond = cond.Or(clause, pattern)
			}
		}
		query = query.Where(cond)
	}

	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where("(LOWER(job_offers.title) LIKE ? OR LOWER(job_offers.description) LIKE ?)", pattern, pattern)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []*entity.JobOffer
	err := query.
		Select("job_offers.*").
		Preload("Entreprise").
		Order("job_offers.created_at DESC").
		Order("job_offers.id DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (d *DefaultJobRepository) FindByEntreprise(entrepriseID int64) ([]*entity.JobOffer, error) {
	var jobs []*entity.JobOffer
	err := d.db.
		Where("entreprise_id = ?", entrepriseID).
		Order("created_at DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (d *DefaultJobRepository) IncrementViews(id int64) error {
	return d.db.Model(&entity.JobOffer{}).
		Where("id = ?", id).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
}

// CloseExpired soft-deletes active offers whose deadline is before 'today'.
func (d *DefaultJobRepository) CloseExpired(today int64) (int64, error) {
	result := d.db.Model(&entity.JobOffer{}).
		Where("is_active = ? AND deadline < ?", true, today).
		Updates(map[string]any{"is_active": false, "updated_at": today})
	return result.RowsAffected, result.Error
}
