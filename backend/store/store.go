// Package store persists courses, transactions and per-user course progress.
// Two backends implement it: DynamoDB, which is what production runs on, and
// a gorm-backed SQL store for local development.
package store

import (
	"context"
	"errors"

	"learnhub/backend/models"
)

var (
	ErrNotFound = errors.New("store: item not found")
	ErrConflict = errors.New("store: item already exists")
)

type Courses interface {
	// List returns every course, or only those in category when it is set.
	List(ctx context.Context, category string) ([]models.Course, error)
	Get(ctx context.Context, courseID string) (*models.Course, error)
	// BatchGet returns the courses that exist among ids, in the order given.
	BatchGet(ctx context.Context, ids []string) ([]models.Course, error)
	// Put writes the whole course, replacing any stored copy.
	Put(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, courseID string) error
}

type Transactions interface {
	List(ctx context.Context) ([]models.Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]models.Transaction, error)
}

type Progress interface {
	Get(ctx context.Context, userID, courseID string) (*models.UserCourseProgress, error)
	ListByUser(ctx context.Context, userID string) ([]models.UserCourseProgress, error)
	Put(ctx context.Context, progress *models.UserCourseProgress) error
}

type Purchases interface {
	// Fulfill records the transaction, the initial progress and the course
	// enrollment as a single unit. It returns ErrConflict when the
	// transaction id is already recorded and ErrNotFound when the course is
	// gone; in both cases nothing is written. When the user is already
	// enrolled only the transaction is recorded.
	Fulfill(ctx context.Context, tx *models.Transaction, progress *models.UserCourseProgress, enrollment models.Enrollment) error
}

type Migrator interface {
	Migrate(ctx context.Context) error
}

// Store bundles the collections a backend provides.
type Store struct {
	Courses      Courses
	Transactions Transactions
	Progress     Progress
	Purchases    Purchases
	Migrator     Migrator
}
