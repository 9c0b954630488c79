package mock

import (
	"context"

	"github.com/fwojciec/kbase"
)

var _ kbase.FragmentService = (*FragmentService)(nil)

// FragmentService is a mock implementation of kbase.FragmentService.
type FragmentService struct {
	SaveFragmentFn  func(ctx context.Context, frag *kbase.Fragment) error
	FindFragmentsFn func(ctx context.Context) ([]*kbase.Fragment, error)
}

func (s *FragmentService) SaveFragment(ctx context.Context, frag *kbase.Fragment) error {
	return s.SaveFragmentFn(ctx, frag)
}

func (s *FragmentService) FindFragments(ctx context.Context) ([]*kbase.Fragment, error) {
	return s.FindFragmentsFn(ctx)
}
