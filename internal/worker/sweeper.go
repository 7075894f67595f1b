package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	room_service "github.com/xenn00/pair-chat/internal/use-case/room-case"
)

// Sweeper runs the periodic expiry scan. It is the only time-driven status
// transition in the system; everything else is request-driven.
type Sweeper struct {
	Service  room_service.RoomServiceContract
	Interval time.Duration
}

func NewSweeper(service room_service.RoomServiceContract, interval time.Duration) *Sweeper {
	return &Sweeper{
		Service:  service,
		Interval: interval,
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	log.Info().Dur("interval", s.Interval).Msg("Expiry sweeper started")

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Expiry sweeper stopping")
			return
		case <-ticker.C:
			if _, err := s.Service.SweepExpired(ctx, time.Now()); err != nil {
				log.Error().Str("reason", err.Message).Msg("expiry sweep failed")
			}
		}
	}
}
