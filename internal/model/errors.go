package model

import (
	"errors"
	"fmt"
)

// Domain errors returned by the write paths. Handlers map them onto status codes.
var (
	ErrVersionConflict   = errors.New("record was modified by another request")
	ErrJobNotAccepting   = errors.New("job is not accepting applications")
	ErrMaxApplications   = errors.New("job has reached its maximum number of applications")
	ErrApplicationClosed = errors.New("application is closed")
	ErrDeleteRestricted  = errors.New("record is still referenced")
	ErrUnknownReference  = errors.New("referenced record does not exist")
	ErrDuplicate         = errors.New("record already exists")
)

// VersionConflictError reports the version currently stored for a row that lost an update race.
type VersionConflictError struct {
	CurrentVersion uint
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("%s (current version %d)", ErrVersionConflict, e.CurrentVersion)
}

// Is makes errors.Is(err, ErrVersionConflict) match.
func (e *VersionConflictError) Is(target error) bool {
	return target == ErrVersionConflict
}
