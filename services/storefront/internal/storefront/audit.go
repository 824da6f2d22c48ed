package storefront

import (
	"context"
	"time"

	"github.com/aquamarinepk/aqm"
)

const (
	ActionVoiceOrder  = "voice-order"
	ActionOrderRevise = "order-revise"
	ActionOrderCancel = "order-cancel"
)

// AuditEntry is one customer action worth keeping a trace of.
type AuditEntry struct {
	CustomerID int64
	SessionID  string
	Action     string
	Target     string
	Detail     string
	Timestamp  time.Time
	Success    bool
	Error      string
}

type AuditLogger struct {
	logger aqm.Logger
}

func NewAuditLogger(logger aqm.Logger) *AuditLogger {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &AuditLogger{logger: logger}
}

func (a *AuditLogger) Log(ctx context.Context, entry AuditEntry) {
	if a == nil {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	a.logger.Info("audit",
		"customer_id", entry.CustomerID,
		"voice_session", entry.SessionID,
		"action", entry.Action,
		"target", entry.Target,
		"detail", entry.Detail,
		"success", entry.Success,
		"timestamp", entry.Timestamp.Format(time.RFC3339),
		"error", entry.Error,
	)
}

// LogVoiceOrder records how a confirmed voice order landed in the cart.
func (a *AuditLogger) LogVoiceOrder(ctx context.Context, customerID int64, sessionID, outcome string, success bool, errorMsg string) {
	a.Log(ctx, AuditEntry{
		CustomerID: customerID,
		SessionID:  sessionID,
		Action:     ActionVoiceOrder,
		Target:     "cart",
		Detail:     outcome,
		Success:    success,
		Error:      errorMsg,
	})
}

func (a *AuditLogger) LogOrderChange(ctx context.Context, action, orderID string, success bool, errorMsg string) {
	a.Log(ctx, AuditEntry{
		Action:  action,
		Target:  orderID,
		Success: success,
		Error:   errorMsg,
	})
}
