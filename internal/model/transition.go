package model

import (
	"errors"
	"fmt"
)

// ErrIllegalTransition is returned when a status change is not allowed by the active policy.
var ErrIllegalTransition = errors.New("illegal status transition")

// TransitionPolicy decides which status changes an update may perform.
type TransitionPolicy string

// Policies
const (
	TransitionsStrict TransitionPolicy = "strict"
	TransitionsOpen   TransitionPolicy = "open"
)

// ParseTransitionPolicy falls back to strict for anything but "open".
func ParseTransitionPolicy(s string) TransitionPolicy {
	if TransitionPolicy(s) == TransitionsOpen {
		return TransitionsOpen
	}
	return TransitionsStrict
}

var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusDraft:  {JobStatusActive, JobStatusCancelled},
	JobStatusActive: {JobStatusPaused, JobStatusClosed, JobStatusCancelled},
	JobStatusPaused: {JobStatusActive, JobStatusClosed, JobStatusCancelled},
	JobStatusClosed: {JobStatusActive},
}

var interviewTransitions = map[InterviewStatus][]InterviewStatus{
	InterviewStatusScheduled: {
		InterviewStatusInProgress, InterviewStatusCompleted, InterviewStatusCancelled, InterviewStatusRescheduled,
	},
	InterviewStatusRescheduled: {
		InterviewStatusScheduled, InterviewStatusInProgress, InterviewStatusCompleted, InterviewStatusCancelled,
	},
	InterviewStatusInProgress: {InterviewStatusCompleted, InterviewStatusCancelled},
}

func allowed[T comparable](table map[T][]T, from, to T) bool {
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckJob validates a job status change.
func (p TransitionPolicy) CheckJob(from, to JobStatus) error {
	if p == TransitionsOpen || from == to || allowed(jobTransitions, from, to) {
		return nil
	}
	return fmt.Errorf("%w: job cannot move from %s to %s", ErrIllegalTransition, from, to)
}

// CheckApplication validates an application status change. Any non-terminal
// stage may move to any other stage, terminal stages are final.
func (p TransitionPolicy) CheckApplication(from, to ApplicationStatus) error {
	if p == TransitionsOpen || from == to || !from.Terminal() {
		return nil
	}
	return fmt.Errorf("%w: application cannot move from %s to %s", ErrIllegalTransition, from, to)
}

// CheckInterview validates an interview status change.
func (p TransitionPolicy) CheckInterview(from, to InterviewStatus) error {
	if p == TransitionsOpen || from == to || allowed(interviewTransitions, from, to) {
		return nil
	}
	return fmt.Errorf("%w: interview cannot move from %s to %s", ErrIllegalTransition, from, to)
}
