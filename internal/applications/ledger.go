package applications

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobassist-backend/internal/jobs"
	"jobassist-backend/internal/resumes"
	"jobassist-backend/internal/shared/apperr"
	"jobassist-backend/internal/shared/metrics"
	"jobassist-backend/internal/shared/telemetry"
)

// ResumeSource supplies the user's active résumé.
type ResumeSource interface {
	GetActive(ctx context.Context, userID string) (*resumes.Resume, error)
}

// JobResolver resolves a job id for a user.
type JobResolver interface {
	Lookup(ctx context.Context, userID, jobID string) (jobs.Job, error)
}

// Notifier appends a user notification.
type Notifier interface {
	Notify(ctx context.Context, userID, level, message string) error
}

// Tailorer builds the job-specific résumé that goes out with an application.
type Tailorer interface {
	TailorApplication(ctx context.Context, app Application) error
}

// Ledger is the per-user application history.
type Ledger struct {
	Repo      Repo
	Resumes   ResumeSource
	Jobs      JobResolver
	Submitter Submitter
	Notifier  Notifier
	// Tailor is optional. A failure is logged and the submission proceeds
	// with the original file.
	Tailor Tailorer
	Now    func() time.Time
}

// NewLedger constructs a Ledger.
func NewLedger(repo Repo, resumeSrc ResumeSource, jobResolver JobResolver, submitter Submitter, notifier Notifier) *Ledger {
	return &Ledger{
		Repo:      repo,
		Resumes:   resumeSrc,
		Jobs:      jobResolver,
		Submitter: submitter,
		Notifier:  notifier,
		Now:       time.Now,
	}
}

// Apply submits the user's active résumé to jobID. The application keeps a
// deep copy of the résumé as it was at this moment.
func (l *Ledger) Apply(ctx context.Context, userID, jobID string) (Application, error) {
	const op = "applications.Apply"
	if strings.TrimSpace(userID) == "" {
		return Application{}, apperr.Validation(op, "user id is required")
	}
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return Application{}, apperr.Validation(op, "job id is required")
	}

	active, err := l.Resumes.GetActive(ctx, userID)
	if err != nil {
		return Application{}, err
	}
	if active == nil {
		return Application{}, apperr.E(apperr.KindPreconditionFailed, op, "upload a résumé before applying", nil)
	}
	job, err := l.Jobs.Lookup(ctx, userID, jobID)
	if err != nil {
		return Application{}, err
	}

	now := l.Now().UTC()
	app := Application{
		ID:             uuid.NewString(),
		JobID:          job.ID,
		UserID:         userID,
		Status:         StatusProcessing,
		SubmissionDate: now,
		UpdatedAt:      now,
		Attempts:       1,
		ResumeSnapshot: active.Clone(),
		Job:            JobSummary{Title: job.Title, Company: job.Company},
	}
	app, err = l.Repo.Insert(ctx, app)
	if err != nil {
		return Application{}, apperr.RemoteStore(op, "failed to record the application", err)
	}

	l.tailor(ctx, app)
	return l.submit(ctx, op, app, app.Attempts)
}

// submit asks the Submitter for an outcome and moves app out of its current status.
func (l *Ledger) submit(ctx context.Context, op string, app Application, attempts int) (Application, error) {
	outcome, err := l.Submitter.Submit(ctx, app)
	if err != nil {
		telemetry.Warn("application.submit_error", map[string]any{
			"user_id":        app.UserID,
			"application_id": app.ID,
			"error":          err,
		})
		outcome = StatusSubmissionFailed
	}
	if !isSubmissionOutcome(outcome) {
		return Application{}, apperr.E(apperr.KindInternal, op, "unexpected submission outcome", fmt.Errorf("submitter returned %q", outcome))
	}

	from := app.Status
	updated, err := l.move(ctx, op, app, outcome, attempts)
	if err != nil {
		return Application{}, err
	}

	metrics.IncApplicationOutcome(outcome == StatusSubmittedSuccessfully)
	telemetry.Info("application.submitted", map[string]any{
		"user_id":        app.UserID,
		"application_id": app.ID,
		"job_id":         app.JobID,
		"from":           string(from),
		"to":             string(outcome),
		"attempts":       attempts,
	})
	if outcome == StatusSubmittedSuccessfully {
		l.notify(ctx, app.UserID, "success", fmt.Sprintf("Your application for %s at %s was submitted successfully.", app.Job.Title, app.Job.Company))
	} else {
		l.notify(ctx, app.UserID, "error", fmt.Sprintf("Your application for %s at %s could not be submitted. You can retry it from your applications.", app.Job.Title, app.Job.Company))
	}
	return updated, nil
}

func (l *Ledger) move(ctx context.Context, op string, app Application, to Status, attempts int) (Application, error) {
	if !CanTransition(app.Status, to) {
		return Application{}, apperr.E(apperr.KindInvalidStateTransition, op,
			fmt.Sprintf("cannot move an application from %q to %q", app.Status, to), nil)
	}
	now := l.Now().UTC()
	err := l.Repo.UpdateStatus(ctx, StatusUpdate{
		UserID:    app.UserID,
		ID:        app.ID,
		From:      app.Status,
		To:        to,
		Attempts:  attempts,
		UpdatedAt: now,
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		return Application{}, apperr.NotFound(op, "application not found")
	case errors.Is(err, ErrStatusChanged):
		return Application{}, apperr.E(apperr.KindInvalidStateTransition, op, "application status changed concurrently", err)
	default:
		return Application{}, apperr.RemoteStore(op, "failed to update the application", err)
	}
	app.Status = to
	app.Attempts = attempts
	app.UpdatedAt = now
	return app, nil
}

func (l *Ledger) tailor(ctx context.Context, app Application) {
	if l.Tailor == nil {
		return
	}
	if err := l.Tailor.TailorApplication(ctx, app); err != nil {
		telemetry.Warn("application.tailor_failed", map[string]any{
			"user_id":        app.UserID,
			"application_id": app.ID,
			"error":          err,
		})
	}
}

func (l *Ledger) notify(ctx context.Context, userID, level, message string) {
	if l.Notifier == nil {
		return
	}
	if err := l.Notifier.Notify(ctx, userID, level, message); err != nil {
		telemetry.Warn("application.notify_failed", map[string]any{"user_id": userID, "error": err})
	}
}

// List returns the user's applications, most recent submission first.
func (l *Ledger) List(ctx context.Context, userID string) ([]Application, error) {
	items, err := l.ListInserted(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].SubmissionDate.Equal(items[j].SubmissionDate) {
			return items[i].SubmissionDate.After(items[j].SubmissionDate)
		}
		return items[i].Seq > items[j].Seq
	})
	return items, nil
}

// ListInserted returns the user's applications in the order they were recorded.
func (l *Ledger) ListInserted(ctx context.Context, userID string) ([]Application, error) {
	const op = "applications.List"
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Validation(op, "user id is required")
	}
	items, err := l.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.RemoteStore(op, "failed to load applications", err)
	}
	if items == nil {
		items = []Application{}
	}
	sortBySeq(items)
	return items, nil
}

// Get returns one application of the user.
func (l *Ledger) Get(ctx context.Context, userID, id string) (Application, error) {
	return l.get(ctx, "applications.Get", userID, id)
}

func (l *Ledger) get(ctx context.Context, op, userID, id string) (Application, error) {
	if strings.TrimSpace(userID) == "" {
		return Application{}, apperr.Validation(op, "user id is required")
	}
	app, err := l.Repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Application{}, apperr.NotFound(op, "application not found")
		}
		return Application{}, apperr.RemoteStore(op, "failed to load the application", err)
	}
	return app, nil
}

// Retry re-submits a failed application with its original snapshot. An
// application left in Processing by an interrupted Apply is retryable too.
func (l *Ledger) Retry(ctx context.Context, userID, id string) (Application, error) {
	const op = "applications.Retry"
	app, err := l.get(ctx, op, userID, id)
	if err != nil {
		return Application{}, err
	}
	if !retryable(app.Status) {
		return Application{}, apperr.E(apperr.KindInvalidStateTransition, op,
			fmt.Sprintf("only failed applications can be retried, this one is %q", app.Status), nil)
	}
	metrics.IncApplicationRetry()
	l.tailor(ctx, app)
	return l.submit(ctx, op, app, app.Attempts+1)
}

// Transition moves an application along the status graph, ex: to Shortlisted.
func (l *Ledger) Transition(ctx context.Context, userID, id string, to Status) (Application, error) {
	const op = "applications.Transition"
	if _, err := ParseStatus(string(to)); err != nil {
		return Application{}, apperr.Validation(op, err.Error())
	}
	if isSubmissionOutcome(to) {
		return Application{}, apperr.E(apperr.KindInvalidStateTransition, op, "submission outcomes are set by submitting or retrying", nil)
	}
	app, err := l.get(ctx, op, userID, id)
	if err != nil {
		return Application{}, err
	}
	updated, err := l.move(ctx, op, app, to, app.Attempts)
	if err != nil {
		return Application{}, err
	}
	telemetry.Info("application.transitioned", map[string]any{
		"user_id":        userID,
		"application_id": id,
		"from":           string(app.Status),
		"to":             string(to),
	})
	if to == StatusShortlisted {
		l.notify(ctx, userID, "success", fmt.Sprintf("Congratulations! You have been shortlisted for %s at %s.", app.Job.Title, app.Job.Company))
	}
	return updated, nil
}
