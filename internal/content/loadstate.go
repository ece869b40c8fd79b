package content

import (
	"context"
	"fmt"
)

// Phase is where an async fetch stands.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseErrored
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseErrored:
		return "errored"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// LoadState tracks one fetch: idle -> loading -> loaded | errored, and
// errored -> loading on Retry. Pages pick their template branch from it.
type LoadState[T any] struct {
	phase Phase
	data  T
	err   error
}

func (s *LoadState[T]) transition(from, to Phase) error {
	if s.phase != from {
		return fmt.Errorf("invalid load transition %s -> %s", s.phase, to)
	}
	s.phase = to
	return nil
}

func (s *LoadState[T]) Start() error { return s.transition(PhaseIdle, PhaseLoading) }

func (s *LoadState[T]) Retry() error {
	if err := s.transition(PhaseErrored, PhaseLoading); err != nil {
		return err
	}
	s.err = nil
	return nil
}

func (s *LoadState[T]) Succeed(data T) error {
	if err := s.transition(PhaseLoading, PhaseLoaded); err != nil {
		return err
	}
	s.data = data
	return nil
}

func (s *LoadState[T]) Fail(err error) error {
	if terr := s.transition(PhaseLoading, PhaseErrored); terr != nil {
		return terr
	}
	s.err = err
	return nil
}

func (s *LoadState[T]) Phase() Phase { return s.phase }
func (s *LoadState[T]) Data() T      { return s.data }
func (s *LoadState[T]) Err() error   { return s.err }
func (s *LoadState[T]) Loaded() bool { return s.phase == PhaseLoaded }
func (s *LoadState[T]) Errored() bool {
	return s.phase == PhaseErrored
}

// Load runs fetch from idle and returns the settled state.
func Load[T any](ctx context.Context, fetch func(context.Context) (T, error)) *LoadState[T] {
	s := &LoadState[T]{}
	_ = s.Start()
	s.settle(ctx, fetch)
	return s
}

// Reload retries an errored state with fetch.
func (s *LoadState[T]) Reload(ctx context.Context, fetch func(context.Context) (T, error)) error {
	if err := s.Retry(); err != nil {
		return err
	}
	s.settle(ctx, fetch)
	return nil
}

func (s *LoadState[T]) settle(ctx context.Context, fetch func(context.Context) (T, error)) {
	data, err := fetch(ctx)
	if err != nil {
		_ = s.Fail(err)
		return
	}
	_ = s.Succeed(data)
}
