// Package applications records job applications and their submission state.
//
// Status graph:
//
//	Processing ──► Submitted Successfully ──► Shortlisted
//	    │                  ▲
//	    │                  │ (retry)
//	    └──► Submission Failed ◄─┐
//	              │              │ (retry)
//	              └──────────────┘
//
// Shortlisted is terminal. A record stuck in Processing after a failed
// write is retried like a failed one.
package applications

import "fmt"

// Status is the lifecycle state of an application.
type Status string

const (
	StatusProcessing            Status = "Processing"
	StatusSubmittedSuccessfully Status = "Submitted Successfully"
	StatusSubmissionFailed      Status = "Submission Failed"
	StatusShortlisted           Status = "Shortlisted"
)

var validTransitions = map[Status][]Status{
	StatusProcessing:            {StatusSubmittedSuccessfully, StatusSubmissionFailed},
	StatusSubmissionFailed:      {StatusSubmittedSuccessfully, StatusSubmissionFailed},
	StatusSubmittedSuccessfully: {StatusShortlisted},
	// Shortlisted is terminal
}

// ParseStatus converts a raw string to a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusProcessing, StatusSubmittedSuccessfully, StatusSubmissionFailed, StatusShortlisted:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// CanTransition reports whether moving from -> to is permitted.
func CanTransition(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// isSubmissionOutcome reports whether s is a result a Submitter may return.
func isSubmissionOutcome(s Status) bool {
	return s == StatusSubmittedSuccessfully || s == StatusSubmissionFailed
}

// retryable reports whether a submission may be attempted again from s.
func retryable(s Status) bool {
	return s == StatusSubmissionFailed || s == StatusProcessing
}
