package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"backoffice-agent/internal/domain/entity"
	"backoffice-agent/internal/infrastructure/httpclient"
)

const defaultActivityLimit = 10

type DashboardUsecase interface {
	Stats(ctx context.Context) (*entity.DashboardStats, error)
	Activity(ctx context.Context, limit int) ([]entity.Activity, error)
	// Overview loads stats and activity concurrently
	Overview(ctx context.Context, activityLimit int) (*entity.DashboardOverview, error)
}

type dashboardUsecase struct {
	client httpclient.HTTPClient
	logger *zap.Logger
}

func NewDashboardUsecase(client httpclient.HTTPClient, logger *zap.Logger) DashboardUsecase {
	return &dashboardUsecase{
		client: client,
		logger: logger,
	}
}

func (u *dashboardUsecase) Stats(ctx context.Context) (*entity.DashboardStats, error) {
	var response entity.Response[entity.DashboardStats]
	if err := u.client.Get(ctx, "/dashboard/stats", nil, &response); err != nil {
		return nil, fmt.Errorf("failed to get dashboard stats: %w", err)
	}
	return &response.Data, nil
}

func (u *dashboardUsecase) Activity(ctx context.Context, limit int) ([]entity.Activity, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}

	var response entity.Response[[]entity.Activity]
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := u.client.Get(ctx, "/dashboard/activity", query, &response); err != nil {
		return nil, fmt.Errorf("failed to get dashboard activity: %w", err)
	}
	return response.Data, nil
}

func (u *dashboardUsecase) Overview(ctx context.Context, activityLimit int) (*entity.DashboardOverview, error) {
	var overview entity.DashboardOverview

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := u.Stats(gctx)
		if err != nil {
			return err
		}
		overview.Stats = *stats
		return nil
	})
	g.Go(func() error {
		activity, err := u.Activity(gctx, activityLimit)
		if err != nil {
			return err
		}
		overview.Activity = activity
		return nil
	})

	if err := g.Wait(); err != nil {
		u.logger.Error("Failed to load dashboard", zap.Error(err))
		return nil, err
	}
	return &overview, nil
}
