package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"cyberquiz_backend/internals/features/progress/leaderboard/cache"
	"cyberquiz_backend/internals/features/progress/progress/service"
	categoryService "cyberquiz_backend/internals/features/quiz/categories/service"
	userModel "cyberquiz_backend/internals/features/users/user/model"
)

const (
	reconcileWorkers = 4
	reconcileTimeout = 10 * time.Minute
)

// Report summarises one reconciliation run.
type Report struct {
	CategoriesChanged int
	UsersRebuilt      int64
	UsersFailed       int64
}

// ReconcileAll recomputes category totals, then rebuilds every user's
// aggregates from the attempt log. A failing user is logged and counted; the
// others are still processed.
func ReconcileAll(ctx context.Context, db *gorm.DB) (*Report, error) {
	changed, err := categoryService.RecalculateTotalQuestions(ctx, db)
	if err != nil {
		return nil, err
	}
	rep := &Report{CategoriesChanged: changed}

	var userIDs []uint
	if err := db.WithContext(ctx).Model(&userModel.UserModel{}).
		Order("user_id ASC").
		Pluck("user_id", &userIDs).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var rebuilt, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(reconcileWorkers)
	for _, id := range userIDs {
		g.Go(func() error {
			if err := service.RebuildUserAggregates(gctx, db, id); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Printf("[RECONCILE] user=%d: %v", id, err)
				failed.Add(1)
				return nil
			}
			rebuilt.Add(1)
			return nil
		})
	}
	err = g.Wait()
	rep.UsersRebuilt = rebuilt.Load()
	rep.UsersFailed = failed.Load()
	return rep, err
}

// StartReconcileCron runs ReconcileAll on schedule, a standard 5-field cron
// expression. The leaderboard cache is dropped after each run. The caller stops
// the returned cron on shutdown.
func StartReconcileCron(db *gorm.DB, schedule string, lb *cache.LeaderboardCache) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reconcileTimeout)
		defer cancel()

		start := time.Now()
		rep, err := ReconcileAll(ctx, db)
		if err != nil {
			log.Printf("[RECONCILE] run failed: %v", err)
			return
		}
		if err := lb.Invalidate(ctx); err != nil {
			log.Printf("[RECONCILE] leaderboard cache invalidate: %v", err)
		}
		log.Printf("[RECONCILE] done categories_changed=%d users=%d failed=%d dur=%s",
			rep.CategoriesChanged, rep.UsersRebuilt, rep.UsersFailed, time.Since(start))
	})
	if err != nil {
		return nil, fmt.Errorf("add reconcile schedule %q: %w", schedule, err)
	}
	log.Printf("[RECONCILE] started schedule=%q", schedule)
	c.Start()
	return c, nil
}
