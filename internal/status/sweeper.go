package status

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Sweeper prunes fully-expired content on a slow cadence. Pruning itself is
// StoryStore.PruneExpired and needs no scheduler; the Sweeper only supplies
// the clock.
type Sweeper struct {
	store    *StoryStore
	schedule string
	cron     *cron.Cron
	log      zerolog.Logger
}

// NewSweeper creates a sweeper running on the default one minute cadence
func NewSweeper(store *StoryStore, log zerolog.Logger) *Sweeper {
	return &Sweeper{
		store:    store,
		schedule: "@every 1m",
		log:      log,
	}
}

// Start begins the periodic sweep. Starting an already-started sweeper is a
// no-op.
func (s *Sweeper) Start() error {
	if s.cron != nil {
		return nil
	}
	c := cron.New()
	if _, err := c.AddFunc(s.schedule, s.sweep); err != nil {
		return err
	}
	c.Start()
	s.cron = c
	s.log.Info().Str("schedule", s.schedule).Msg("expiration sweep started")
	return nil
}

// Stop cancels the periodic sweep and waits for an in-flight run to finish
func (s *Sweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.cron = nil
	s.log.Info().Msg("expiration sweep stopped")
}

func (s *Sweeper) sweep() {
	pruned := s.store.PruneExpired(time.Now())
	if pruned > 0 {
		s.log.Info().Int("pruned", pruned).Msg("expired content removed")
	}
}
