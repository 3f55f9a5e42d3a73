package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/newscheck/internal/ml"
	"github.com/d60-Lab/newscheck/internal/model"
	"github.com/d60-Lab/newscheck/internal/repository"
)

type fakePredictor struct {
	result *ml.Prediction
	err    error
	calls  int
}

func (f *fakePredictor) Predict(ctx context.Context, text string) (*ml.Prediction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newTestService(t *testing.T, p Predictor) (NewsService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.NewsAnalysis{}))
	return NewNewsService(repository.NewAnalysisRepository(db), p, zap.NewNop()), db
}

func TestAnalyzePersistsAfterPrediction(t *testing.T) {
	pred := &fakePredictor{result: &ml.Prediction{
		Prediction: "fake", Confidence: 0.91, ModelUsed: "v2", ProcessingTime: 45,
	}}
	svc, _ := newTestService(t, pred)
	ctx := context.Background()

	a, err := svc.Analyze(ctx, "u1", "definitely suspicious article text")
	require.NoError(t, err)
	assert.Equal(t, 1, pred.calls)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "fake", a.Prediction)

	got, err := svc.Get(ctx, a.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, a.Prediction, got.Prediction)
	assert.Equal(t, a.Confidence, got.Confidence)
	assert.Equal(t, a.ModelUsed, got.ModelUsed)
	assert.Equal(t, a.ProcessingTime, got.ProcessingTime)
}

func TestAnalyzeFailedPredictionPersistsNothing(t *testing.T) {
	pred := &fakePredictor{err: ml.ErrUnavailable}
	svc, db := newTestService(t, pred)

	_, err := svc.Analyze(context.Background(), "u1", "some article text here")
	assert.ErrorIs(t, err, ml.ErrUnavailable)

	var cnt int64
	require.NoError(t, db.Model(&model.NewsAnalysis{}).Count(&cnt).Error)
	assert.EqualValues(t, 0, cnt)
}

func TestHistoryPagingMath(t *testing.T) {
	pred := &fakePredictor{result: &ml.Prediction{Prediction: "real", Confidence: 0.6, ModelUsed: "v1", ProcessingTime: 10}}
	svc, _ := newTestService(t, pred)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := svc.Analyze(ctx, "u1", "article body with enough characters")
		require.NoError(t, err)
	}

	hp, err := svc.History(ctx, "u1", 2, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, hp.Page)
	assert.Equal(t, 5, hp.Limit)
	assert.EqualValues(t, 12, hp.Total)
	assert.EqualValues(t, 3, hp.Pages) // ceil(12/5)
	assert.Len(t, hp.Analyses, 5)

	// Permissive defaults for nonsense paging input.
	hp, err = svc.History(ctx, "u1", 0, -3)
	require.NoError(t, err)
	assert.Equal(t, 1, hp.Page)
	assert.Equal(t, 10, hp.Limit)

	// Oversized limit is capped.
	hp, err = svc.History(ctx, "u1", 1, 100000)
	require.NoError(t, err)
	assert.Equal(t, 100, hp.Limit)
}

func TestGetMapsNotFound(t *testing.T) {
	svc, _ := newTestService(t, &fakePredictor{})
	_, err := svc.Get(context.Background(), "missing", "u1")
	assert.ErrorIs(t, err, ErrNotFound)
}
