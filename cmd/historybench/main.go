package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/newscheck/config"
	"github.com/d60-Lab/newscheck/internal/model"
	"github.com/d60-Lab/newscheck/internal/repository"
	"github.com/d60-Lab/newscheck/internal/service"
	"github.com/d60-Lab/newscheck/pkg/database"
	"github.com/d60-Lab/newscheck/pkg/logger"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// Measures offset-paged history reads against a seeded analyses table.
// Knobs: N (rows), CONC (readers), PAGES (distinct pages to sample), LIMIT.
func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	_ = logger.Init("warn", true)

	analysisRepo := repository.NewAnalysisRepository(db)
	newsSvc := service.NewNewsService(analysisRepo, nil, logger.L())
	ctx := context.Background()

	n := envInt("N", 10000)
	conc := envInt("CONC", 4)
	pages := envInt("PAGES", 200)
	limit := envInt("LIMIT", 10)

	userID := "bench-user"
	fmt.Printf("seeding %d analyses for %s...\n", n, userID)
	batch := make([]*model.NewsAnalysis, 0, 500)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := db.Create(&batch).Error; err != nil {
			panic(err)
		}
		batch = batch[:0]
	}
	base := time.Now().Add(-time.Duration(n) * time.Second)
	for i := 0; i < n; i++ {
		batch = append(batch, &model.NewsAnalysis{
			ID:             uuid.New().String(),
			UserID:         userID,
			Content:        fmt.Sprintf("benchmark article %d body text", i),
			Prediction:     model.PredictionReal,
			Confidence:     0.5,
			ModelUsed:      "bench",
			ProcessingTime: 1,
			CreatedAt:      base.Add(time.Duration(i) * time.Second),
		})
		if len(batch) == cap(batch) {
			flush()
		}
	}
	flush()

	maxPage := n/limit + 1
	durs := make([]time.Duration, 0, pages*conc)
	var mu sync.Mutex
	var wg sync.WaitGroup
	start := time.Now()
	for w := 0; w < conc; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			local := make([]time.Duration, 0, pages)
			for i := 0; i < pages; i++ {
				page := 1 + rng.Intn(maxPage)
				t0 := time.Now()
				if _, err := newsSvc.History(ctx, userID, page, limit); err != nil {
					panic(err)
				}
				local = append(local, time.Since(t0))
			}
			mu.Lock()
			durs = append(durs, local...)
			mu.Unlock()
		}(int64(w) + 1)
	}
	wg.Wait()
	elapsed := time.Since(start)

	sort.Slice(durs, func(i, j int) bool { return durs[i] < durs[j] })
	pct := func(p float64) time.Duration {
		if len(durs) == 0 {
			return 0
		}
		idx := int(p * float64(len(durs)-1))
		return durs[idx]
	}
	fmt.Printf("reads=%d conc=%d limit=%d elapsed=%v qps=%.0f\n",
		len(durs), conc, limit, elapsed, float64(len(durs))/elapsed.Seconds())
	fmt.Printf("p50=%v p95=%v p99=%v max=%v\n", pct(0.50), pct(0.95), pct(0.99), durs[len(durs)-1])
}
