package notifier

import (
	"context"

	"github.com/shopspring/decimal"
)

// 注文確定の通知内容
type OrderPlaced struct {
	Email        string
	CustomerName string
	OrderNumber  string
	Total        decimal.Decimal
}

// 依頼ステータス変更の通知内容
type CommissionUpdated struct {
	Email        string
	CustomerName string
	CommissionID int64
	Status       string
}

// Notifier は顧客への通知。失敗しても注文などは取り消さない
type Notifier interface {
	OrderPlaced(ctx context.Context, n OrderPlaced) error
	CommissionUpdated(ctx context.Context, n CommissionUpdated) error
}
