// Package scheduler runs the periodic still-waiting reminder sweep over the
// pending claim queue.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/adhocore/gronx"

	"github.com/nextlevelbuilder/deskrelay/internal/desk"
)

const stillWaitingMessage = "Our agents are currently busy, but someone will respond to you shortly! Thank you for your patience."

// PendingSource yields a snapshot of the current pending claims.
type PendingSource interface {
	PendingSnapshot() []desk.PendingClaim
}

// ScheduleSource yields the current sweep cadence: a fixed interval and an
// optional cron expression that overrides it. Re-read every cycle so config
// hot reload applies without restart.
type ScheduleSource interface {
	ReminderSchedule() (time.Duration, string)
}

// Reminder periodically notifies users whose requests are still unclaimed.
// Queue membership is never changed by the sweep.
type Reminder struct {
	pending  PendingSource
	gw       desk.Gateway
	schedule ScheduleSource
	gron     *gronx.Gronx
}

// NewReminder creates a Reminder over the pending queue.
func NewReminder(pending PendingSource, gw desk.Gateway, schedule ScheduleSource) *Reminder {
	return &Reminder{
		pending:  pending,
		gw:       gw,
		schedule: schedule,
		gron:     gronx.New(),
	}
}

// Run loops for the process lifetime. In cron mode the expression is
// evaluated once a minute; otherwise the configured interval is slept
// directly. Returns nil when ctx is cancelled.
func (r *Reminder) Run(ctx context.Context) error {
	slog.Info("reminder scheduler started")
	for {
		every, cronExpr := r.schedule.ReminderSchedule()
		wait := every
		if cronExpr != "" {
			wait = time.Minute
		}

		select {
		case <-ctx.Done():
			slog.Info("reminder scheduler stopped")
			return nil
		case <-time.After(wait):
		}

		if cronExpr != "" && !r.cronDue(cronExpr, time.Now()) {
			continue
		}

		r.Sweep(ctx)
	}
}

// cronDue evaluates the cron expression against at. An invalid expression is
// logged and treated as not due, so a bad hot-reloaded value degrades to
// no reminders rather than a tight sweep loop.
func (r *Reminder) cronDue(expr string, at time.Time) bool {
	due, err := r.gron.IsDue(expr, at)
	if err != nil {
		slog.Warn("invalid reminder cron expression", "cron", expr, "error", err)
		return false
	}
	return due
}

// Sweep notifies every currently pending user once. The snapshot is taken
// up front so sends happen without holding the store lock and entries
// claimed mid-sweep are not re-notified. Per-recipient failures are
// isolated: one unreachable user never aborts the rest.
func (r *Reminder) Sweep(ctx context.Context) {
	claims := r.pending.PendingSnapshot()
	if len(claims) == 0 {
		return
	}

	sent := 0
	for _, c := range claims {
		if d := r.gw.SendText(ctx, c.UserID, stillWaitingMessage); d == desk.Failed {
			slog.Debug("reminder delivery failed", "user_id", c.UserID, "claim_id", c.ID)
			continue
		}
		sent++
	}
	slog.Info("reminder sweep complete", "pending", len(claims), "sent", sent)
}
