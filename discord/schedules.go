package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// BotScheduleI defines the interface for scheduled tasks in the bot
type BotScheduleI interface {
	// GetName returns the name of the schedule
	GetName() string
	// GetCronExpression returns the cron expression for when this schedule should run
	GetCronExpression() string
	// Execute runs the scheduled task
	Execute(ctx context.Context) error
}

// GenericBotSchedule is a generic implementation of BotScheduleI
type GenericBotSchedule struct {
	Name           string
	CronExpression string
	Handler        func(ctx context.Context) error
}

// GetName returns the schedule's name
func (bs *GenericBotSchedule) GetName() string {
	return bs.Name
}

// GetCronExpression returns the schedule's cron expression
func (bs *GenericBotSchedule) GetCronExpression() string {
	return bs.CronExpression
}

// Execute runs the scheduled task
func (bs *GenericBotSchedule) Execute(ctx context.Context) error {
	return bs.Handler(ctx)
}

// NewBotSchedule creates a new scheduled task with the given name, cron expression, and handler
func NewBotSchedule(name string, cronExpr string, handler func(ctx context.Context) error) BotScheduleI {
	return &GenericBotSchedule{
		Name:           name,
		CronExpression: cronExpr,
		Handler:        handler,
	}
}

// scheduleManager handles scheduling and executing tasks
type scheduleManager struct {
	cron       *cron.Cron
	schedules  []BotScheduleI
	ctx        context.Context
	cancelFunc context.CancelFunc
}

// newScheduleManager registers every schedule with a seconds-enabled cron.
// Descriptors such as "@every 1m" are accepted as well.
func newScheduleManager(schedules []BotScheduleI) (*scheduleManager, error) {
	ctx, cancel := context.WithCancel(context.Background())
	sm := &scheduleManager{
		cron:       cron.New(cron.WithSeconds()),
		schedules:  schedules,
		ctx:        ctx,
		cancelFunc: cancel,
	}

	for _, schedule := range schedules {
		sched := schedule
		_, err := sm.cron.AddFunc(sched.GetCronExpression(), func() {
			sm.executeSchedule(sched)
		})
		if err != nil {
			cancel()
			return nil, fmt.Errorf("failed to add schedule %s: %w", sched.GetName(), err)
		}
		slog.Info("registered schedule", "name", sched.GetName(), "cron", sched.GetCronExpression())
	}

	return sm, nil
}

func (sm *scheduleManager) start() {
	sm.cron.Start()
	slog.Info("schedule manager started", "schedules", len(sm.schedules))
}

// executeAll runs every schedule once, outside of its cron cadence.
func (sm *scheduleManager) executeAll() {
	for _, schedule := range sm.schedules {
		sm.executeSchedule(schedule)
	}
}

func (sm *scheduleManager) executeSchedule(schedule BotScheduleI) {
	if sm.ctx.Err() != nil {
		return
	}

	slog.Debug("executing schedule", "name", schedule.GetName(), "cron", schedule.GetCronExpression())

	if err := schedule.Execute(sm.ctx); err != nil {
		slog.Error("failed to execute schedule",
			"name", schedule.GetName(),
			"error", err)
	}
}

// stop cancels running tasks and waits for the cron goroutine to finish
func (sm *scheduleManager) stop() {
	sm.cancelFunc()
	<-sm.cron.Stop().Done()
	slog.Info("schedule manager stopped")
}
