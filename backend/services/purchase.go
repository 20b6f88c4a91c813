package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learnhub/backend/models"
	"learnhub/backend/payments"
	"learnhub/backend/store"
	"learnhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PurchaseService turns a paid checkout into a transaction record, initial
// course progress and a course enrollment.
type PurchaseService struct {
	log       *zap.Logger
	courses   store.Courses
	progress  store.Progress
	purchases store.Purchases
	verifier  payments.Provider
	now       func() time.Time
}

// NewPurchaseService wires the service. A nil verifier skips payment
// verification, which is only meant for local development.
func NewPurchaseService(log *zap.Logger, st *store.Store, verifier payments.Provider) *PurchaseService {
	return &PurchaseService{
		log:       log.With(zap.String("service", "PurchaseService")),
		courses:   st.Courses,
		progress:  st.Progress,
		purchases: st.Purchases,
		verifier:  verifier,
		now:       time.Now,
	}
}

func (s *PurchaseService) Purchase(ctx context.Context, req models.CreateTransactionRequest) (*models.PurchaseResult, error) {
	course, err := s.courses.Get(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, utils.ErrNotFound("Course not found")
		}
		return nil, utils.ErrInternal("Error creating transaction and enrollment", err)
	}

	if s.verifier != nil {
		if req.Amount < course.Price {
			return nil, utils.NewAPIError(fiber.StatusPaymentRequired, "Payment not verified",
				fmt.Errorf("%w: amount %d is below course price %d", payments.ErrPaymentNotVerified, req.Amount, course.Price))
		}
		if err := s.verifier.VerifyPayment(ctx, req.TransactionID, req.Amount); err != nil {
			if errors.Is(err, payments.ErrPaymentNotVerified) {
				return nil, utils.NewAPIError(fiber.StatusPaymentRequired, "Payment not verified", err)
			}
			return nil, utils.ErrInternal("Error verifying payment", err)
		}
	}

	now := utils.Timestamp(s.now())
	provider := req.PaymentProvider
	if provider == "" {
		provider = models.PaymentProviderStripe
	}

	result := &models.PurchaseResult{
		Transaction: models.Transaction{
			UserID:          req.UserID,
			TransactionID:   req.TransactionID,
			DateTime:        now,
			CourseID:        req.CourseID,
			PaymentProvider: provider,
			Amount:          req.Amount,
		},
		CourseProgress: models.UserCourseProgress{
			UserID:                req.UserID,
			CourseID:              req.CourseID,
			EnrollmentDate:        now,
			OverallProgress:       0,
			Sections:              utils.InitialProgress(course),
			LastAccessedTimestamp: now,
		},
	}

	err = s.purchases.Fulfill(ctx, &result.Transaction, &result.CourseProgress, models.Enrollment{UserID: req.UserID})
	switch {
	case errors.Is(err, store.ErrConflict):
		return nil, utils.NewAPIError(fiber.StatusConflict, "Transaction already recorded", err)
	case errors.Is(err, store.ErrNotFound):
		return nil, utils.ErrNotFound("Course not found")
	case err != nil:
		return nil, utils.ErrInternal("Error creating transaction and enrollment", err)
	}

	// Re-purchases leave the stored progress alone; report that instead of
	// the fresh record that was not written.
	if course.IsEnrolled(req.UserID) {
		existing, err := s.progress.Get(ctx, req.UserID, req.CourseID)
		switch {
		case err == nil:
			result.CourseProgress = *existing
		case !errors.Is(err, store.ErrNotFound):
			s.log.Warn("load progress after repurchase", zap.String("user_id", req.UserID), zap.Error(err))
		}
	}

	s.log.Info("course purchased",
		zap.String("user_id", req.UserID),
		zap.String("course_id", req.CourseID),
		zap.String("transaction_id", req.TransactionID),
		zap.Int64("amount", req.Amount),
	)
	return result, nil
}
