package service

import (
	"context"
	"errors"
	"math"

	"go.uber.org/zap"

	"github.com/d60-Lab/newscheck/internal/ml"
	"github.com/d60-Lab/newscheck/internal/model"
	"github.com/d60-Lab/newscheck/internal/repository"
)

var ErrNotFound = errors.New("not found")

// maxHistoryLimit caps a single history page.
const maxHistoryLimit = 100

// Predictor is the external classifier collaborator. *ml.Client satisfies it.
type Predictor interface {
	Predict(ctx context.Context, text string) (*ml.Prediction, error)
}

// HistoryPage is one page of a user's analysis metadata.
type HistoryPage struct {
	Analyses []*model.NewsAnalysis
	Page     int
	Limit    int
	Total    int64
	Pages    int64
}

// NewsService runs the analysis pipeline: classify first, persist only on
// success. A failed prediction leaves no record behind.
type NewsService interface {
	Analyze(ctx context.Context, userID, content string) (*model.NewsAnalysis, error)
	History(ctx context.Context, userID string, page, limit int) (*HistoryPage, error)
	Get(ctx context.Context, id, userID string) (*model.NewsAnalysis, error)
}

type newsService struct {
	analysisRepo repository.AnalysisRepository
	predictor    Predictor
	log          *zap.Logger
}

func NewNewsService(analysisRepo repository.AnalysisRepository, predictor Predictor, log *zap.Logger) NewsService {
	return &newsService{analysisRepo: analysisRepo, predictor: predictor, log: log}
}

func (s *newsService) Analyze(ctx context.Context, userID, content string) (*model.NewsAnalysis, error) {
	pred, err := s.predictor.Predict(ctx, content)
	if err != nil {
		s.log.Warn("prediction failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	a := &model.NewsAnalysis{
		UserID:         userID,
		Content:        content,
		Prediction:     pred.Prediction,
		Confidence:     pred.Confidence,
		ModelUsed:      pred.ModelUsed,
		ProcessingTime: pred.ProcessingTime,
	}
	if err := s.analysisRepo.Create(ctx, a); err != nil {
		return nil, err
	}
	s.log.Info("analysis stored",
		zap.String("id", a.ID),
		zap.String("user_id", userID),
		zap.String("prediction", a.Prediction))
	return a, nil
}

func (s *newsService) History(ctx context.Context, userID string, page, limit int) (*HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	offset := (page - 1) * limit

	analyses, err := s.analysisRepo.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.analysisRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &HistoryPage{
		Analyses: analyses,
		Page:     page,
		Limit:    limit,
		Total:    total,
		Pages:    int64(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func (s *newsService) Get(ctx context.Context, id, userID string) (*model.NewsAnalysis, error) {
	a, err := s.analysisRepo.GetByID(ctx, id, userID)
	if errors.Is(err, repository.ErrAnalysisNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}
