package registrations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/eventpass/backend/internal/models"
)

const (
	// DefaultListLimit applies when no limit is given.
	DefaultListLimit = 50
	// MaxListLimit caps a single page.
	MaxListLimit = 200
)

// Filter narrows List. Non-empty fields are AND-combined case-insensitive substring matches.
type Filter struct {
	Email     string
	FirstName string
	LastName  string
}

// Page clamps limit and offset to the accepted range.
func Page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Bucket selects a dashboard count.
type Bucket string

const (
	BucketAll      Bucket = "all"
	BucketToday    Bucket = "today"
	BucketThisWeek Bucket = "thisWeek"
)

// Window returns the half-open [from, to) creation range for b, computed in
// now's location. bounded is false for BucketAll.
// today is the current calendar day; thisWeek is the last 7 calendar days including today.
func (b Bucket) Window(now time.Time) (from, to time.Time, bounded bool, err error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch b {
	case BucketAll:
		return time.Time{}, time.Time{}, false, nil
	case BucketToday:
		return midnight, midnight.AddDate(0, 0, 1), true, nil
	case BucketThisWeek:
		return midnight.AddDate(0, 0, -6), midnight.AddDate(0, 0, 1), true, nil
	default:
		return time.Time{}, time.Time{}, false, fmt.Errorf("%w: %q", ErrInvalidBucket, string(b))
	}
}

// Stats is the dashboard aggregate.
type Stats struct {
	Total    int `json:"total"`
	Today    int `json:"today"`
	ThisWeek int `json:"thisWeek"`
}

// Store persists registrations. Implementations translate a uniqueness
// violation on email into ErrDuplicateEmail and a missing row into ErrNotFound.
type Store interface {
	Insert(ctx context.Context, reg *models.AttendeeRegistration) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.AttendeeRegistration, error)
	FindByEmail(ctx context.Context, email string) (*models.AttendeeRegistration, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]models.AttendeeRegistration, error)
	CountApprox(ctx context.Context, bucket Bucket, now time.Time) (int, error)
}
