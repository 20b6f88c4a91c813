package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"learnhub/backend/models"
	"learnhub/backend/payments"
	"learnhub/backend/store"
	"learnhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCourses struct {
	store.Courses
	courses map[string]*models.Course
}

func (f *fakeCourses) Get(ctx context.Context, courseID string) (*models.Course, error) {
	course, ok := f.courses[courseID]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *course
	return &copied, nil
}

type fakeProgress struct {
	store.Progress
	records map[string]*models.UserCourseProgress
}

func (f *fakeProgress) Get(ctx context.Context, userID, courseID string) (*models.UserCourseProgress, error) {
	record, ok := f.records[userID+"/"+courseID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return record, nil
}

type fakePurchases struct {
	calls      int
	tx         *models.Transaction
	progress   *models.UserCourseProgress
	enrollment models.Enrollment
	err        error
}

func (f *fakePurchases) Fulfill(ctx context.Context, tx *models.Transaction, progress *models.UserCourseProgress, enrollment models.Enrollment) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.tx, f.progress, f.enrollment = tx, progress, enrollment
	return nil
}

type fakeVerifier struct {
	payments.Provider
	err      error
	verified []string
}

func (f *fakeVerifier) VerifyPayment(ctx context.Context, paymentID string, amount int64) error {
	f.verified = append(f.verified, paymentID)
	return f.err
}

func newTestService(purchases *fakePurchases, verifier payments.Provider) *PurchaseService {
	courses := &fakeCourses{courses: map[string]*models.Course{
		"c1": {
			CourseID: "c1",
			Price:    4999,
			Sections: []models.Section{
				{SectionID: "s1", Chapters: []models.Chapter{{ChapterID: "ch1"}, {ChapterID: "ch2"}}},
			},
		},
		"c2": {
			CourseID:    "c2",
			Price:       4999,
			Enrollments: []models.Enrollment{{UserID: "u1"}},
			Sections: []models.Section{
				{SectionID: "s1", Chapters: []models.Chapter{{ChapterID: "ch1"}, {ChapterID: "ch2"}}},
			},
		},
	}}
	progress := &fakeProgress{records: map[string]*models.UserCourseProgress{
		"u1/c2": {
			UserID:          "u1",
			CourseID:        "c2",
			OverallProgress: 0.5,
			Sections: []models.SectionProgress{
				{SectionID: "s1", Chapters: []models.ChapterProgress{{ChapterID: "ch1", Completed: true}, {ChapterID: "ch2"}}},
			},
		},
	}}
	svc := NewPurchaseService(zap.NewNop(), &store.Store{Courses: courses, Progress: progress, Purchases: purchases}, verifier)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func request() models.CreateTransactionRequest {
	return models.CreateTransactionRequest{UserID: "u1", CourseID: "c1", TransactionID: "pi_1", Amount: 4999}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var apiErr *utils.APIError
	require.ErrorAs(t, err, &apiErr)
	return apiErr.Status
}

func TestPurchase(t *testing.T) {
	purchases := &fakePurchases{}
	verifier := &fakeVerifier{}
	svc := newTestService(purchases, verifier)

	result, err := svc.Purchase(context.Background(), request())

	require.NoError(t, err)
	assert.Equal(t, []string{"pi_1"}, verifier.verified)
	assert.Equal(t, models.Transaction{
		UserID:          "u1",
		TransactionID:   "pi_1",
		DateTime:        "2024-03-01T12:00:00.000Z",
		CourseID:        "c1",
		PaymentProvider: models.PaymentProviderStripe,
		Amount:          4999,
	}, result.Transaction)
	assert.Equal(t, "2024-03-01T12:00:00.000Z", result.CourseProgress.EnrollmentDate)
	assert.Zero(t, result.CourseProgress.OverallProgress)
	assert.Equal(t, []models.SectionProgress{
		{SectionID: "s1", Chapters: []models.ChapterProgress{{ChapterID: "ch1"}, {ChapterID: "ch2"}}},
	}, result.CourseProgress.Sections)
	assert.Equal(t, models.Enrollment{UserID: "u1"}, purchases.enrollment)
	assert.Equal(t, &result.Transaction, purchases.tx)
}

func TestPurchaseAlreadyEnrolledReturnsStoredProgress(t *testing.T) {
	purchases := &fakePurchases{}
	svc := newTestService(purchases, &fakeVerifier{})
	req := request()
	req.CourseID = "c2"
	req.TransactionID = "pi_2"

	result, err := svc.Purchase(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 1, purchases.calls)
	assert.Equal(t, "pi_2", result.Transaction.TransactionID)
	assert.Equal(t, 0.5, result.CourseProgress.OverallProgress)
	assert.True(t, result.CourseProgress.Sections[0].Chapters[0].Completed)
}

func TestPurchaseFailures(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*models.CreateTransactionRequest)
		purchases  *fakePurchases
		verifier   *fakeVerifier
		wantStatus int
		wantWrites int
	}{
		{
			name:       "unknown course",
			mutate:     func(r *models.CreateTransactionRequest) { r.CourseID = "missing" },
			purchases:  &fakePurchases{},
			verifier:   &fakeVerifier{},
			wantStatus: fiber.StatusNotFound,
		},
		{
			name:       "payment not settled",
			purchases:  &fakePurchases{},
			verifier:   &fakeVerifier{err: payments.ErrPaymentNotVerified},
			wantStatus: fiber.StatusPaymentRequired,
		},
		{
			name:       "amount below price",
			mutate:     func(r *models.CreateTransactionRequest) { r.Amount = 100 },
			purchases:  &fakePurchases{},
			verifier:   &fakeVerifier{},
			wantStatus: fiber.StatusPaymentRequired,
		},
		{
			name:       "stripe unavailable",
			purchases:  &fakePurchases{},
			verifier:   &fakeVerifier{err: errors.New("timeout")},
			wantStatus: fiber.StatusInternalServerError,
		},
		{
			name:       "duplicate transaction",
			purchases:  &fakePurchases{err: store.ErrConflict},
			verifier:   &fakeVerifier{},
			wantStatus: fiber.StatusConflict,
			wantWrites: 1,
		},
		{
			name:       "course deleted mid purchase",
			purchases:  &fakePurchases{err: store.ErrNotFound},
			verifier:   &fakeVerifier{},
			wantStatus: fiber.StatusNotFound,
			wantWrites: 1,
		},
		{
			name:       "store failure",
			purchases:  &fakePurchases{err: errors.New("throttled")},
			verifier:   &fakeVerifier{},
			wantStatus: fiber.StatusInternalServerError,
			wantWrites: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request()
			if tt.mutate != nil {
				tt.mutate(&req)
			}
			svc := newTestService(tt.purchases, tt.verifier)

			_, err := svc.Purchase(context.Background(), req)

			assert.Equal(t, tt.wantStatus, statusOf(t, err))
			assert.Equal(t, tt.wantWrites, tt.purchases.calls)
		})
	}
}

func TestPurchaseWithoutVerifier(t *testing.T) {
	purchases := &fakePurchases{}
	svc := newTestService(purchases, nil)
	req := request()
	req.Amount = 0

	_, err := svc.Purchase(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 1, purchases.calls)
}
