package jobqueue

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/dinefront/dinefront/app/models"
	"github.com/dinefront/dinefront/app/repository"
	"github.com/dinefront/dinefront/internal/pkg/mail"
	"github.com/dinefront/dinefront/internal/pkg/payments"
)

const reconcileBatchSize = 50

// PaymentReconciler polls the payment provider for orders whose payment is
// still pending and reconciles the local status. Orders the provider still
// reports as in-flight stay pending and are picked up again on the next run.
type PaymentReconciler struct {
	orders repository.OrderRepository
	client *payments.Client
}

// NewPaymentReconciler creates a reconciler over the order store and
// provider client.
func NewPaymentReconciler(orders repository.OrderRepository, client *payments.Client) *PaymentReconciler {
	return &PaymentReconciler{orders: orders, client: client}
}

// Run processes one reconciliation batch. Per-order failures are logged and
// skipped; the order is retried on the next tick.
func (p *PaymentReconciler) Run() error {
	pending, err := p.orders.GetPendingPayment(reconcileBatchSize)
	if err != nil {
		return fmt.Errorf("loading pending orders: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	for i := range pending {
		if err := p.reconcileOrder(ctx, &pending[i]); err != nil {
			log.Errorf("[Payment Reconciler] Order %s: %v", pending[i].UUID, err)
		}
	}
	return nil
}

func (p *PaymentReconciler) reconcileOrder(ctx context.Context, order *models.Order) error {
	intent, err := p.client.GetIntent(ctx, order.PaymentIntentID)
	if err != nil {
		return fmt.Errorf("fetching intent %s: %w", order.PaymentIntentID, err)
	}

	status := payments.LocalStatus(intent.Status)
	if status == models.PaymentStatusPending {
		// Still in flight at the provider; next tick will check again.
		return nil
	}

	var paidAt *time.Time
	if status == models.PaymentStatusPaid {
		now := time.Now()
		paidAt = &now
	}
	if err := p.orders.MarkPaymentStatus(order.ID, status, paidAt); err != nil {
		return fmt.Errorf("updating payment status: %w", err)
	}
	log.Infof("[Payment Reconciler] Order %s reconciled to %s", order.UUID, status)

	if status == models.PaymentStatusPaid && order.CustomerEmail != "" && order.NotifiedAt == nil {
		p.sendConfirmation(order)
	}
	return nil
}

func (p *PaymentReconciler) sendConfirmation(order *models.Order) {
	subject := fmt.Sprintf("Your order %s is confirmed", order.UUID)
	body := fmt.Sprintf(
		"<p>Thanks for your order!</p><p>Order total: &pound;%.2f<br>Delivery charge: &pound;%.2f</p>",
		order.Total, order.DeliveryCharge,
	)
	if err := mail.SendMail(order.CustomerEmail, subject, body); err != nil {
		// Mail failure must not block reconciliation; the order stays
		// unnotified and a later run retries.
		log.Errorf("[Payment Reconciler] Confirmation mail for %s failed: %v", order.UUID, err)
		return
	}
	if err := p.orders.MarkNotified(order.ID, time.Now()); err != nil {
		log.Errorf("[Payment Reconciler] Marking order %s notified failed: %v", order.UUID, err)
	}
}
