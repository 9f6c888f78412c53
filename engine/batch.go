package engine

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/courserec/core"
)

// RecommendBatch 并发为多个学习者推荐，任一请求失败则整体返回错误。
func (e *Engine) RecommendBatch(ctx context.Context, activities map[string]core.ActivityLog, topK int) (map[string]*Result, error) {
	var (
		mu      sync.Mutex
		results = make(map[string]*Result, len(activities))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for learnerID, log := range activities {
		learnerID, log := learnerID, log
		g.Go(func() error {
			res, err := e.recommend(gctx, learnerID, log, topK)
			if err != nil {
				return err
			}
			mu.Lock()
			results[learnerID] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
