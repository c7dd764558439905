package services

import (
	"context"
	"fmt"
	"log/slog"

	"moneta/internal/core"
	"moneta/internal/storage"
)

// Scheduler materializes recurring obligations into concrete transactions.
// Each obligation fires at most once per calendar month, in its own unit of
// work, so one bad obligation never blocks or corrupts the rest of the batch.
type Scheduler struct {
	gw storage.Gateway
}

func NewScheduler(gw storage.Gateway) *Scheduler {
	return &Scheduler{gw: gw}
}

// Result reports the outcome for a single obligation in a processing run.
type Result struct {
	ObligationID int64
	Description  string
	Fired        bool
	FireDate     core.Date // set when fired
	Err          error     // set when the obligation's unit of work failed
}

// Process runs one scheduling pass as of referenceDate. An obligation fires
// when its clamped scheduled day has been reached, it has not already fired
// this month, and the scheduled day is not before its start date. The created
// transaction is dated at the scheduled fire date; the obligation's last
// processed marker is set to referenceDate.
//
// The returned error covers only the initial obligation listing; per
// obligation failures are carried in the Result list. There are no retries.
func (s *Scheduler) Process(ctx context.Context, referenceDate core.Date) ([]Result, error) {
	active, err := s.gw.Recurring().FindActiveAsOf(ctx, nil, referenceDate)
	if err != nil {
		return nil, fmt.Errorf("list active obligations: %w", err)
	}

	results := make([]Result, 0, len(active))
	for _, obligation := range active {
		res := Result{ObligationID: obligation.ID, Description: obligation.Description}

		fireDate := core.ScheduledFireDate(referenceDate.Year(), referenceDate.Month(), obligation.DayOfMonth)
		switch {
		case referenceDate.Before(fireDate.Time):
			// Not due yet this month.
		case !obligation.LastProcessed.IsZero() && obligation.LastProcessed.SameMonth(referenceDate):
			// Already fired this month.
		case fireDate.Before(obligation.StartDate.Time):
			// Clamped day lands before the obligation begins.
		default:
			if err := s.fire(ctx, obligation, fireDate, referenceDate); err != nil {
				res.Err = err
				slog.ErrorContext(ctx, "recurring obligation failed",
					"obligation_id", obligation.ID, "error", err)
			} else {
				res.Fired = true
				res.FireDate = fireDate
				slog.InfoContext(ctx, "recurring obligation fired",
					"obligation_id", obligation.ID, "fire_date", fireDate.String())
			}
		}
		results = append(results, res)
	}
	return results, nil
}

// fire creates the obligation's transaction and advances its last processed
// marker inside a single unit of work.
func (s *Scheduler) fire(ctx context.Context, obligation core.RecurringTransaction, fireDate, referenceDate core.Date) error {
	tx, err := s.gw.Begin(ctx)
	if err != nil {
		return err
	}
	defer rollback(ctx, tx, "scheduler")

	category, err := s.gw.Categories().GetByID(ctx, tx, obligation.CategoryID)
	if err != nil {
		return fmt.Errorf("load category: %w", err)
	}
	if category.Kind != obligation.Kind {
		return core.Consistencyf("obligation kind %s does not match category %q kind %s",
			obligation.Kind, category.Name, category.Kind)
	}

	t := core.Transaction{
		Description: obligation.Description,
		Amount:      obligation.Amount,
		Date:        fireDate,
		Kind:        obligation.Kind,
		CategoryID:  &obligation.CategoryID,
		AccountID:   obligation.AccountID,
	}
	if err := s.gw.Transactions().Create(ctx, tx, &t); err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}

	obligation.LastProcessed = referenceDate
	if err := s.gw.Recurring().Update(ctx, tx, obligation); err != nil {
		return fmt.Errorf("advance last processed: %w", err)
	}
	return tx.Commit()
}
