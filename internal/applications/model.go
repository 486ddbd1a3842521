package applications

import (
	"errors"
	"time"

	"jobassist-backend/internal/resumes"
)

var (
	// ErrNotFound is returned when an application id is unknown for the user.
	ErrNotFound = errors.New("application not found")
	// ErrStatusChanged is returned by a guarded update whose expected status no longer holds.
	ErrStatusChanged = errors.New("application status changed")
)

// JobSummary is the part of the job kept with the application.
type JobSummary struct {
	Title   string `json:"title"`
	Company string `json:"company"`
}

// Application is one submission of the user's résumé to a job.
type Application struct {
	ID             string         `json:"id"`
	JobID          string         `json:"jobId"`
	UserID         string         `json:"userId"`
	Status         Status         `json:"status"`
	SubmissionDate time.Time      `json:"submissionDate"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	Attempts       int            `json:"attempts"`
	Seq            int64          `json:"seq"` // per-store insertion sequence
	ResumeSnapshot resumes.Resume `json:"resume"`
	Job            JobSummary     `json:"job"`
}

// Clone returns a deep copy of a.
func (a Application) Clone() Application {
	out := a
	out.ResumeSnapshot = a.ResumeSnapshot.Clone()
	return out
}
