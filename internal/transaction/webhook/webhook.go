// Package webhook reconciles asynchronous bank payment notifications
// against pending transactions.
package webhook

import (
	"context"

	"github.com/shopspring/decimal"
)

// Notification is the payload the bank gateway posts on every inbound
// transfer. Content carries the free text the payer typed, which is the
// only field matched against a transaction code.
type Notification struct {
	Gateway         string          `json:"gateway"`
	TransactionDate string          `json:"transactionDate"`
	AccountNumber   string          `json:"accountNumber"`
	SubAccount      string          `json:"subAccount"`
	Code            string          `json:"code"`
	Content         string          `json:"content"`
	TransferType    string          `json:"transferType"`
	Description     string          `json:"description"`
	TransferAmount  decimal.Decimal `json:"transferAmount"`
	ReferenceCode   string          `json:"referenceCode"`
	Accumulated     decimal.Decimal `json:"accumulated"`
	NotificationID  int64           `json:"id"`
}

// Result is always returned with HTTP 200; Success reports whether the
// notification produced (or previously produced) a balance credit.
type Result struct {
	Success         bool    `json:"success"`
	Message         string  `json:"message"`
	TransactionCode *string `json:"transaction_id"`
}

type Service interface {
	// Process never returns an error: every failure mode is folded into
	// the Result so the payment rail can safely redeliver.
	Process(ctx context.Context, n Notification) Result
}
