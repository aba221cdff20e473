package notifier

import (
	"context"

	"github.com/labstack/gommon/log"
)

// LogNotifier は送信せずにログに出すだけ（開発・SES未設定時）
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (LogNotifier) OrderPlaced(_ context.Context, o OrderPlaced) error {
	log.Infof("notify order placed: to=%s order=%s total=%s", o.Email, o.OrderNumber, o.Total.StringFixed(2))
	return nil
}

func (LogNotifier) CommissionUpdated(_ context.Context, c CommissionUpdated) error {
	log.Infof("notify commission updated: to=%s id=%d status=%s", c.Email, c.CommissionID, c.Status)
	return nil
}
