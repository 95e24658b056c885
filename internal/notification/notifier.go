// Package notification bridges domain events to the email side channel.
package notification

import (
	"context"

	"github.com/anphu-security/guardops/internal/domain/event"
	"github.com/anphu-security/guardops/internal/email"
	"go.uber.org/zap"
)

// Notifier subscribes email delivery to domain events
type Notifier struct {
	sender         *email.Sender
	alertThreshold float64
	logger         *zap.Logger
}

// NewNotifier creates the notifier. alertThreshold is the validation match
// percentage below which an alert email goes out.
func NewNotifier(sender *email.Sender, alertThreshold float64, logger *zap.Logger) *Notifier {
	return &Notifier{
		sender:         sender,
		alertThreshold: alertThreshold,
		logger:         logger,
	}
}

// Subscribe registers the notifier's handlers on the dispatcher
func (n *Notifier) Subscribe(d *event.Dispatcher) {
	d.Subscribe(event.TypeShiftBulkCancelled, "email-bulk-cancellation", n.handleBulkCancelled)
	d.Subscribe(event.TypeContractValidated, "email-validation-alert", n.handleContractValidated)
}

func (n *Notifier) handleBulkCancelled(_ context.Context, evt *event.Event) error {
	return n.sender.SendBulkCancellationNotice(email.BulkCancellationNotice{
		GuardName:      evt.GetString("guard_name"),
		GuardEmail:     evt.GetString("guard_email"),
		CancelledCount: int(evt.GetInt("cancelled")),
		From:           evt.GetString("from"),
		To:             evt.GetString("to"),
		Reason:         evt.GetString("reason"),
	})
}

func (n *Notifier) handleContractValidated(_ context.Context, evt *event.Event) error {
	pct := evt.GetFloat("match_percentage")
	if pct >= n.alertThreshold {
		return nil
	}

	n.logger.Info("Validation below alert threshold, sending alert",
		zap.String("contract_number", evt.GetString("contract_number")),
		zap.Float64("match_percentage", pct))

	return n.sender.SendValidationAlert(email.ValidationAlert{
		ContractNumber:  evt.GetString("contract_number"),
		MatchPercentage: pct,
		DifferenceCount: int(evt.GetInt("differences")),
	})
}
