package orders

import (
	"context"
	"log/slog"
	"time"
)

// Step is a single unit of work in the checkout saga. Each step must have a
// compensating action that undoes its effects.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

// JournalStatus is the lifecycle state of a saga execution.
type JournalStatus string

const (
	JournalStarted      JournalStatus = "STARTED"
	JournalStepDone     JournalStatus = "STEP_DONE"
	JournalCompleted    JournalStatus = "COMPLETED"
	JournalCompensating JournalStatus = "COMPENSATING"
	JournalFailed       JournalStatus = "FAILED"
)

// JournalEntry is one row in the append-only checkout journal. The latest
// entry per saga id is the current state.
type JournalEntry struct {
	SagaID      string
	Status      JournalStatus
	CurrentStep string
	ErrorMsg    string
	CreatedAt   time.Time
}

// Journal persists saga state transitions. May be nil, in which case
// transitions are not recorded.
type Journal interface {
	Append(ctx context.Context, entry JournalEntry) error
}

// Orchestrator runs saga steps sequentially. If a step fails it compensates
// all previously successful steps in reverse order.
type Orchestrator struct {
	sagaID  string
	steps   []Step
	journal Journal
}

func NewOrchestrator(sagaID string, steps []Step, journal Journal) *Orchestrator {
	return &Orchestrator{sagaID: sagaID, steps: steps, journal: journal}
}

func (o *Orchestrator) Start(ctx context.Context) error {
	o.record(ctx, JournalStarted, "", "")

	var successfulSteps []Step
	for _, step := range o.steps {
		slog.Info("executing checkout step", slog.String("SagaID", o.sagaID), slog.String("Step", step.Name()))
		if err := step.Execute(ctx); err != nil {
			slog.Error("checkout step failed, starting rollback",
				slog.String("SagaID", o.sagaID), slog.String("Step", step.Name()), slog.String("ERROR", err.Error()))
			o.record(ctx, JournalCompensating, step.Name(), err.Error())
			o.rollback(ctx, successfulSteps)
			o.record(ctx, JournalFailed, step.Name(), err.Error())
			return err
		}
		o.record(ctx, JournalStepDone, step.Name(), "")
		successfulSteps = append(successfulSteps, step)
	}

	o.record(ctx, JournalCompleted, "", "")
	return nil
}

func (o *Orchestrator) rollback(ctx context.Context, steps []Step) {
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		slog.Info("compensating checkout step", slog.String("SagaID", o.sagaID), slog.String("Step", step.Name()))
		if err := step.Compensate(ctx); err != nil {
			slog.Error("CRITICAL: failed to compensate checkout step",
				slog.String("SagaID", o.sagaID), slog.String("Step", step.Name()), slog.String("ERROR", err.Error()))
		}
	}
}

func (o *Orchestrator) record(ctx context.Context, status JournalStatus, step, errMsg string) {
	if o.journal == nil {
		return
	}
	entry := JournalEntry{
		SagaID:      o.sagaID,
		Status:      status,
		CurrentStep: step,
		ErrorMsg:    errMsg,
		CreatedAt:   time.Now().UTC(),
	}
	if err := o.journal.Append(ctx, entry); err != nil {
		slog.Error("failed to append checkout journal entry",
			slog.String("SagaID", o.sagaID), slog.String("ERROR", err.Error()))
	}
}
