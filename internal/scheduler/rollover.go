package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"agenda-system/internal/events"
	"agenda-system/pkg/eventbus"
)

// Rollover публикует DayRolledOverEvent по расписанию (по умолчанию в полночь),
// чтобы сводка пересчиталась для нового дня без изменений в данных.
type Rollover struct {
	bus    *eventbus.Bus
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger

	parser  cron.Parser
	c       *cron.Cron
	entryID cron.EntryID
}

func NewRollover(bus *eventbus.Bus, loc *time.Location, logger *zap.Logger) *Rollover {
	if loc == nil {
		loc = time.Local
	}
	return &Rollover{
		bus:    bus,
		loc:    loc,
		now:    time.Now,
		logger: logger.Named("rollover"),
		parser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
}

// Start разбирает выражение и запускает cron; повторный Start заменяет расписание.
func (r *Rollover) Start(spec string) error {
	schedule, err := r.parser.Parse(spec)
	if err != nil {
		return fmt.Errorf("неверное расписание %q: %w", spec, err)
	}

	r.Stop()
	r.c = cron.New(cron.WithParser(r.parser), cron.WithLocation(r.loc))
	r.entryID = r.c.Schedule(schedule, cron.FuncJob(r.Fire))
	r.c.Start()

	next := r.c.Entry(r.entryID).Next
	r.logger.Info("Расписание смены дня запущено", zap.String("spec", spec), zap.Time("next", next))
	return nil
}

// Fire публикует событие немедленно.
func (r *Rollover) Fire() {
	now := r.now().In(r.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, r.loc)
	r.bus.Publish(context.Background(), events.DayRolledOverEvent{Today: today})
}

func (r *Rollover) Stop() {
	if r.c == nil {
		return
	}
	<-r.c.Stop().Done()
	r.c = nil
}
