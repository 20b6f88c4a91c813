package controllers

import (
	"errors"

	"learnhub/backend/middleware"
	"learnhub/backend/models"
	"learnhub/backend/payments"
	"learnhub/backend/services"
	"learnhub/backend/store"
	"learnhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TransactionsController struct {
	Transactions store.Transactions
	Payments     payments.Provider
	Purchases    *services.PurchaseService
	Log          *zap.Logger
}

func NewTransactionsController(transactions store.Transactions, provider payments.Provider, purchases *services.PurchaseService, log *zap.Logger) *TransactionsController {
	return &TransactionsController{Transactions: transactions, Payments: provider, Purchases: purchases, Log: log}
}

// ListTransactions godoc
// @Summary List transactions
// @Description Lists the transactions of one user, or every transaction when userId is omitted
// @Tags transactions
// @Produce json
// @Param userId query string false "User ID"
// @Success 200 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Security ApiKeyAuth
// @Router /transactions [get]
func (tc *TransactionsController) ListTransactions(c *fiber.Ctx) error {
	var (
		transactions []models.Transaction
		err          error
	)
	if userID := c.Query("userId"); userID != "" {
		transactions, err = tc.Transactions.ListByUser(c.UserContext(), userID)
	} else {
		transactions, err = tc.Transactions.List(c.UserContext())
	}
	if err != nil {
		return utils.InternalServerError(c, "Error retrieving transactions", err)
	}
	return utils.Success(c, "Transactions retrieved successfully", transactions)
}

// CreateStripePaymentIntent godoc
// @Summary Create payment intent
// @Description Creates a USD payment intent; a missing or non-positive amount is charged as 50 cents
// @Tags transactions
// @Accept json
// @Produce json
// @Param input body models.PaymentIntentRequest true "Amount in cents"
// @Success 200 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Security ApiKeyAuth
// @Router /transactions/payment-intent [post]
func (tc *TransactionsController) CreateStripePaymentIntent(c *fiber.Ctx) error {
	var input models.PaymentIntentRequest
	if len(c.Body()) > 0 {
		if err := utils.ParseBody(c, &input); err != nil {
			return utils.HandleError(c, err, "Error creating stripe payment intent")
		}
	}

	if tc.Payments == nil {
		return utils.InternalServerError(c, "Error creating stripe payment intent", errors.New("payments are not configured"))
	}

	secret, err := tc.Payments.CreatePaymentIntent(c.UserContext(), input.Amount)
	if err != nil {
		tc.Log.Error("create payment intent", zap.Int64("amount", input.Amount), zap.Error(err))
		return utils.InternalServerError(c, "Error creating stripe payment intent", err)
	}
	return utils.Success(c, "", models.PaymentIntentResponse{ClientSecret: secret})
}

// CreateTransaction godoc
// @Summary Purchase course
// @Description Records a paid transaction, enrolls the user and initializes their course progress in one atomic write
// @Tags transactions
// @Accept json
// @Produce json
// @Param input body models.CreateTransactionRequest true "Transaction"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 402 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Security ApiKeyAuth
// @Router /transactions [post]
func (tc *TransactionsController) CreateTransaction(c *fiber.Ctx) error {
	var input models.CreateTransactionRequest
	if err := utils.ParseBody(c, &input); err != nil {
		return utils.HandleError(c, err, "Error creating transaction and enrollment")
	}

	if input.UserID != middleware.CurrentUserID(c) {
		return utils.Forbidden(c, "Not authorized to purchase for another user")
	}

	result, err := tc.Purchases.Purchase(c.UserContext(), input)
	if err != nil {
		return utils.HandleError(c, err, "Error creating transaction and enrollment")
	}
	return utils.Success(c, "Purchased Course successfully", result)
}
