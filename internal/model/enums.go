package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// enumNames maps an ordinal to its member name. Index 0 is unused, ordinals start at 1.
type enumNames []string

func (n enumNames) name(v int) string {
	if v <= 0 || v >= len(n) {
		return strconv.Itoa(v)
	}
	return n[v]
}

func (n enumNames) valid(v int) bool {
	return v > 0 && v < len(n)
}

func (n enumNames) parse(s string) (int, bool) {
	for i := 1; i < len(n); i++ {
		if strings.EqualFold(n[i], s) {
			return i, true
		}
	}
	return 0, false
}

// decode accepts either the ordinal or the member name.
func (n enumNames) decode(data []byte, kind string) (int, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, err
		}
		if v, ok := n.parse(s); ok {
			return v, nil
		}
		if v, err := strconv.Atoi(s); err == nil && n.valid(v) {
			return v, nil
		}
		return 0, fmt.Errorf("invalid %s %q", kind, s)
	}

	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, fmt.Errorf("invalid %s: %w", kind, err)
	}
	if !n.valid(v) {
		return 0, fmt.Errorf("invalid %s %d", kind, v)
	}
	return v, nil
}

// JobStatus is the lifecycle state of a job opening.
type JobStatus int

// Job statuses
const (
	JobStatusDraft JobStatus = iota + 1
	JobStatusActive
	JobStatusPaused
	JobStatusClosed
	JobStatusCancelled
)

var jobStatusNames = enumNames{"", "Draft", "Active", "Paused", "Closed", "Cancelled"}

func (s JobStatus) String() string { return jobStatusNames.name(int(s)) }

// Valid reports whether s is a declared member.
func (s JobStatus) Valid() bool { return jobStatusNames.valid(int(s)) }

// UnmarshalJSON accepts the ordinal or the name.
func (s *JobStatus) UnmarshalJSON(data []byte) error {
	v, err := jobStatusNames.decode(data, "job status")
	if err != nil {
		return err
	}
	*s = JobStatus(v)
	return nil
}

// JobStatuses lists all members in ordinal order.
func JobStatuses() []JobStatus {
	out := make([]JobStatus, 0, len(jobStatusNames)-1)
	for i := 1; i < len(jobStatusNames); i++ {
		out = append(out, JobStatus(i))
	}
	return out
}

// ApplicationStatus is the pipeline stage of an application.
type ApplicationStatus int

// Application statuses
const (
	ApplicationStatusApplied ApplicationStatus = iota + 1
	ApplicationStatusScreeningInProgress
	ApplicationStatusInterviewScheduled
	ApplicationStatusInterviewCompleted
	ApplicationStatusOfferExtended
	ApplicationStatusHired
	ApplicationStatusRejected
	ApplicationStatusWithdrawn
)

var applicationStatusNames = enumNames{
	"", "Applied", "ScreeningInProgress", "InterviewScheduled", "InterviewCompleted",
	"OfferExtended", "Hired", "Rejected", "Withdrawn",
}

func (s ApplicationStatus) String() string { return applicationStatusNames.name(int(s)) }

// Valid reports whether s is a declared member.
func (s ApplicationStatus) Valid() bool { return applicationStatusNames.valid(int(s)) }

// Terminal statuses end the pipeline.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationStatusHired || s == ApplicationStatusRejected || s == ApplicationStatusWithdrawn
}

// UnmarshalJSON accepts the ordinal or the name.
func (s *ApplicationStatus) UnmarshalJSON(data []byte) error {
	v, err := applicationStatusNames.decode(data, "application status")
	if err != nil {
		return err
	}
	*s = ApplicationStatus(v)
	return nil
}

// ApplicationStatuses lists all members in ordinal order.
func ApplicationStatuses() []ApplicationStatus {
	out := make([]ApplicationStatus, 0, len(applicationStatusNames)-1)
	for i := 1; i < len(applicationStatusNames); i++ {
		out = append(out, ApplicationStatus(i))
	}
	return out
}

// InterviewStatus is the state of a single interview.
type InterviewStatus int

// Interview statuses
const (
	InterviewStatusScheduled InterviewStatus = iota + 1
	InterviewStatusInProgress
	InterviewStatusCompleted
	InterviewStatusCancelled
	InterviewStatusRescheduled
)

var interviewStatusNames = enumNames{"", "Scheduled", "InProgress", "Completed", "Cancelled", "Rescheduled"}

func (s InterviewStatus) String() string { return interviewStatusNames.name(int(s)) }

// Valid reports whether s is a declared member.
func (s InterviewStatus) Valid() bool { return interviewStatusNames.valid(int(s)) }

// UnmarshalJSON accepts the ordinal or the name.
func (s *InterviewStatus) UnmarshalJSON(data []byte) error {
	v, err := interviewStatusNames.decode(data, "interview status")
	if err != nil {
		return err
	}
	*s = InterviewStatus(v)
	return nil
}

// InterviewType is the format of an interview.
type InterviewType int

// Interview types
const (
	InterviewTypePhone InterviewType = iota + 1
	InterviewTypeVideo
	InterviewTypeInPerson
	InterviewTypeTechnical
	InterviewTypeHR
	InterviewTypeFinal
)

var interviewTypeNames = enumNames{"", "Phone", "Video", "InPerson", "Technical", "HR", "Final"}

func (t InterviewType) String() string { return interviewTypeNames.name(int(t)) }

// Valid reports whether t is a declared member.
func (t InterviewType) Valid() bool { return interviewTypeNames.valid(int(t)) }

// UnmarshalJSON accepts the ordinal or the name.
func (t *InterviewType) UnmarshalJSON(data []byte) error {
	v, err := interviewTypeNames.decode(data, "interview type")
	if err != nil {
		return err
	}
	*t = InterviewType(v)
	return nil
}

// UserRole is the access level of a staff account.
type UserRole int

// Roles
const (
	RoleHR UserRole = iota + 1
	RoleManager
	RoleCandidate
)

var userRoleNames = enumNames{"", "HR", "Manager", "Candidate"}

func (r UserRole) String() string { return userRoleNames.name(int(r)) }

// Valid reports whether r is a declared member.
func (r UserRole) Valid() bool { return userRoleNames.valid(int(r)) }

// UnmarshalJSON accepts the ordinal or the name.
func (r *UserRole) UnmarshalJSON(data []byte) error {
	v, err := userRoleNames.decode(data, "role")
	if err != nil {
		return err
	}
	*r = UserRole(v)
	return nil
}

// ExperienceLevel is the seniority a job asks for.
type ExperienceLevel int

// Experience levels
const (
	ExperienceLevelEntry ExperienceLevel = iota + 1
	ExperienceLevelJunior
	ExperienceLevelMid
	ExperienceLevelSenior
	ExperienceLevelLead
	ExperienceLevelPrincipal
)

var experienceLevelNames = enumNames{"", "Entry", "Junior", "Mid", "Senior", "Lead", "Principal"}

func (l ExperienceLevel) String() string { return experienceLevelNames.name(int(l)) }

// Valid reports whether l is a declared member.
func (l ExperienceLevel) Valid() bool { return experienceLevelNames.valid(int(l)) }

// UnmarshalJSON accepts the ordinal or the name.
func (l *ExperienceLevel) UnmarshalJSON(data []byte) error {
	v, err := experienceLevelNames.decode(data, "experience level")
	if err != nil {
		return err
	}
	*l = ExperienceLevel(v)
	return nil
}

// EmploymentType is the contract form of a job.
type EmploymentType int

// Employment types
const (
	EmploymentTypeFullTime EmploymentType = iota + 1
	EmploymentTypePartTime
	EmploymentTypeContract
	EmploymentTypeTemporary
	EmploymentTypeInternship
)

var employmentTypeNames = enumNames{"", "FullTime", "PartTime", "Contract", "Temporary", "Internship"}

func (e EmploymentType) String() string { return employmentTypeNames.name(int(e)) }

// Valid reports whether e is a declared member.
func (e EmploymentType) Valid() bool { return employmentTypeNames.valid(int(e)) }

// UnmarshalJSON accepts the ordinal or the name.
func (e *EmploymentType) UnmarshalJSON(data []byte) error {
	v, err := employmentTypeNames.decode(data, "employment type")
	if err != nil {
		return err
	}
	*e = EmploymentType(v)
	return nil
}

// ParseUserRole resolves a role by name, case insensitive.
func ParseUserRole(s string) (UserRole, error) {
	v, ok := userRoleNames.parse(s)
	if !ok {
		return 0, fmt.Errorf("invalid role %q", s)
	}
	return UserRole(v), nil
}

// ParseJobStatus resolves a job status by name, case insensitive.
func ParseJobStatus(s string) (JobStatus, error) {
	v, ok := jobStatusNames.parse(s)
	if !ok {
		return 0, fmt.Errorf("invalid job status %q", s)
	}
	return JobStatus(v), nil
}

// ParseExperienceLevel resolves an experience level by name, case insensitive.
func ParseExperienceLevel(s string) (ExperienceLevel, error) {
	v, ok := experienceLevelNames.parse(s)
	if !ok {
		return 0, fmt.Errorf("invalid experience level %q", s)
	}
	return ExperienceLevel(v), nil
}

// ParseEmploymentType resolves an employment type by name, case insensitive.
func ParseEmploymentType(s string) (EmploymentType, error) {
	v, ok := employmentTypeNames.parse(s)
	if !ok {
		return 0, fmt.Errorf("invalid employment type %q", s)
	}
	return EmploymentType(v), nil
}
