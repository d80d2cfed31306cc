package repository

import (
	"context"
	"errors"
	"fmt"

	"gator.dev/studygator/internal/entity"
	"gator.dev/studygator/pkg/apperror"
	"gorm.io/gorm"
)

type SubjectRepository interface {
	FindAll(ctx context.Context) ([]*entity.Subject, error)
	FindByID(ctx context.Context, id uint) (*entity.Subject, error)
}

type subjectRepository struct {
	db *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) SubjectRepository {
	return &subjectRepository{db: db}
}

func (r *subjectRepository) FindAll(ctx context.Context) ([]*entity.Subject, error) {
	var subjects []*entity.Subject
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("find subjects: %w", err)
	}
	return subjects, nil
}

func (r *subjectRepository) FindByID(ctx context.Context, id uint) (*entity.Subject, error) {
	var subject entity.Subject
	if err := r.db.WithContext(ctx).First(&subject, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, fmt.Errorf("find subject %d: %w", id, err)
	}
	return &subject, nil
}
