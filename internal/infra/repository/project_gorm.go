package repository

import (
	"context"
	"errors"

	"projectbazaar/internal/domain/model"
	repo "projectbazaar/internal/repository"

	"gorm.io/gorm"
)

type ProjectGormRepository struct {
	db *gorm.DB
}

func NewProjectGormRepository(db *gorm.DB) *ProjectGormRepository {
	return &ProjectGormRepository{db: db}
}

func (r *ProjectGormRepository) FindByID(ctx context.Context, projectID int64) (model.Project, error) {
	var p model.Project
	err := r.db.WithContext(ctx).Where("id = ?", projectID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Project{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Project{}, err
	}
	return p, nil
}
