package models

const PaymentProviderStripe = "stripe"

type Transaction struct {
	UserID          string `json:"userId" dynamodbav:"userId"`
	TransactionID   string `json:"transactionId" dynamodbav:"transactionId"`
	DateTime        string `json:"dateTime" dynamodbav:"dateTime"`
	CourseID        string `json:"courseId" dynamodbav:"courseId"`
	PaymentProvider string `json:"paymentProvider" dynamodbav:"paymentProvider"`
	Amount          int64  `json:"amount" dynamodbav:"amount"` // minor units (cents)
}
