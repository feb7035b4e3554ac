package repository

import (
	"errors"
	"omigec/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *DefaultApplicationRepository {
	return &DefaultApplicationRepository{db: db}
}

func (a *DefaultApplicationRepository) FindByID(id int64) (*entity.Application, error) {
	var app entity.Application
	err := a.db.Preload("Job").First(&app, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (a *DefaultApplicationRepository) Exists(engineerID, jobID int64) (bool, error) {
	var exists int
	err := a.db.
		Raw("SELECT EXISTS(SELECT 1 FROM applications WHERE engineer_id = ? AND job_id = ?)", engineerID, jobID).
		Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists == 1, nil
}

func (a *DefaultApplicationRepository) Save(app *entity.Application) error {
	return a.db.Omit("Engineer", "Job").Save(app).Error
}

// FindByEngineer lists the engineer's applications with their job offer
// and its entreprise, newest first.
func (a *DefaultApplicationRepository) FindByEngineer(engineerID int64) ([]*entity.Application, error) {
	var apps []*entity.Application
	err := a.db.
		Preload("Job").
		Preload("Job.Entreprise").
		Where("engineer_id = ?", engineerID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (a *DefaultApplicationRepository) FindByJob(jobID int64) ([]*entity.Application, error) {
	var apps []*entity.Application
	err := a.db.
		Preload("Engineer").
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}
