package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// StreamTrimmer caps a stream's length.
type StreamTrimmer interface {
	Trim(ctx context.Context) (int64, error)
}

type Scheduler struct {
	cron     *cron.Cron
	trimmer  StreamTrimmer
	schedule string
	log      zerolog.Logger
}

func NewScheduler(trimmer StreamTrimmer, schedule string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		trimmer:  trimmer,
		schedule: schedule,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if s.trimmer == nil {
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.trimActivity); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the scheduler and returns a context done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) trimActivity() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.trimmer.Trim(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("trim activity stream failed")
		return
	}
	s.log.Debug().Int64("removed", removed).Msg("activity stream trimmed")
}
