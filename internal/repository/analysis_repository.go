package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/newscheck/internal/model"
)

// ErrAnalysisNotFound is returned when an analysis does not exist or does
// not belong to the requesting user; the two cases are indistinguishable.
var ErrAnalysisNotFound = errors.New("analysis not found")

type AnalysisRepository interface {
	// Create persists one write-once row and fills in ID and CreatedAt.
	Create(ctx context.Context, a *model.NewsAnalysis) error
	// ListByUser returns a page of the user's analyses ordered by
	// created_at descending, content omitted. Offset paging is not stable
	// under concurrent inserts between page fetches.
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.NewsAnalysis, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	// GetByID fetches one row scoped to its owner, content included.
	GetByID(ctx context.Context, id, userID string) (*model.NewsAnalysis, error)
}

type analysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) AnalysisRepository { return &analysisRepository{db: db} }

func (r *analysisRepository) Create(ctx context.Context, a *model.NewsAnalysis) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.CreatedAt = time.Now()
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *analysisRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.NewsAnalysis, error) {
	var res []*model.NewsAnalysis
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Omit("content").
		Find(&res).Error
	return res, err
}

func (r *analysisRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.NewsAnalysis{}).
		Where("user_id = ?", userID).
		Count(&cnt).Error
	return cnt, err
}

func (r *analysisRepository) GetByID(ctx context.Context, id, userID string) (*model.NewsAnalysis, error) {
	var a model.NewsAnalysis
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAnalysisNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
