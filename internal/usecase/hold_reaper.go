package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	repo "app/internal/repository"
)

// HoldReaper periodically returns expired hold groups that still have
// pending holds. It is optional: with the reaper disabled, expired groups
// simply wait for a manual Return, which is the original behavior.
type HoldReaper struct {
	holds    *HoldUsecase
	groups   repo.HoldGroupRepository
	clock    Clock
	interval time.Duration
	log      zerolog.Logger
}

func NewHoldReaper(holds *HoldUsecase, groups repo.HoldGroupRepository, clock Clock, interval time.Duration, log zerolog.Logger) *HoldReaper {
	return &HoldReaper{
		holds:    holds,
		groups:   groups,
		clock:    clock,
		interval: interval,
		log:      log,
	}
}

func (s *HoldReaper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.log.Info().Msg("hold reaper stopped")
				return
			case <-ticker.C:
				n, err := s.SweepOnce(ctx)
				if err != nil {
					s.log.Error().Err(err).Msg("hold reaper sweep failed")
				} else if n > 0 {
					s.log.Info().Int("groups", n).Msg("expired hold groups returned")
				}
			}
		}
	}()
}

// SweepOnce returns every expired group with pending holds and reports how
// many groups it touched.
func (s *HoldReaper) SweepOnce(ctx context.Context) (int, error) {
	expired, err := s.groups.ListExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}

	n := 0
	for _, g := range expired {
		if err := s.holds.ReturnGroup(ctx, g.ID); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
