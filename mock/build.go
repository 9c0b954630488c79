package mock

import (
	"context"

	"github.com/fwojciec/kbase"
)

var _ kbase.BuildService = (*BuildService)(nil)

// BuildService is a mock implementation of kbase.BuildService.
type BuildService struct {
	CreateBuildFn func(ctx context.Context, report *kbase.Report) error
	FindBuildsFn  func(ctx context.Context, filter kbase.BuildFilter) ([]*kbase.Report, error)
}

func (s *BuildService) CreateBuild(ctx context.Context, report *kbase.Report) error {
	return s.CreateBuildFn(ctx, report)
}

func (s *BuildService) FindBuilds(ctx context.Context, filter kbase.BuildFilter) ([]*kbase.Report, error) {
	return s.FindBuildsFn(ctx, filter)
}
