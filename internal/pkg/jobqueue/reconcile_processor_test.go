package jobqueue

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dinefront/dinefront/app/models"
	"github.com/dinefront/dinefront/internal/pkg/payments"
)

type fakeOrderRepo struct {
	pending  []models.Order
	statuses map[uint]string
	paidAt   map[uint]*time.Time
}

func newFakeOrderRepo(pending ...models.Order) *fakeOrderRepo {
	return &fakeOrderRepo{
		pending:  pending,
		statuses: make(map[uint]string),
		paidAt:   make(map[uint]*time.Time),
	}
}

func (f *fakeOrderRepo) Create(*models.Order) error { return nil }
func (f *fakeOrderRepo) GetByID(uint) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeOrderRepo) GetByUUID(string) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeOrderRepo) GetPendingPayment(limit int) ([]models.Order, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}
func (f *fakeOrderRepo) Update(*models.Order) error { return nil }
func (f *fakeOrderRepo) MarkPaymentStatus(id uint, status string, paidAt *time.Time) error {
	f.statuses[id] = status
	f.paidAt[id] = paidAt
	return nil
}
func (f *fakeOrderRepo) MarkNotified(id uint, at time.Time) error { return nil }

func newIntentServer(t *testing.T, statuses map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/v1/payment_intents/"):]
		status, ok := statuses[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = fmt.Fprintf(w, `{"id":%q,"status":%q,"amount":1000}`, id, status)
	}))
}

func TestPaymentReconcilerRun(t *testing.T) {
	server := newIntentServer(t, map[string]string{
		"pi_paid":     "succeeded",
		"pi_failed":   "requires_payment_method",
		"pi_inflight": "processing",
	})
	defer server.Close()

	repo := newFakeOrderRepo(
		models.Order{ID: 1, UUID: "o1", PaymentIntentID: "pi_paid", PaymentStatus: models.PaymentStatusPending},
		models.Order{ID: 2, UUID: "o2", PaymentIntentID: "pi_failed", PaymentStatus: models.PaymentStatusPending},
		models.Order{ID: 3, UUID: "o3", PaymentIntentID: "pi_inflight", PaymentStatus: models.PaymentStatusPending},
	)
	client := &payments.Client{SecretKey: "sk_test", BaseURL: server.URL, HTTPClient: server.Client()}

	reconciler := NewPaymentReconciler(repo, client)
	require.NoError(t, reconciler.Run())

	assert.Equal(t, models.PaymentStatusPaid, repo.statuses[1])
	require.NotNil(t, repo.paidAt[1], "paid orders record a paid timestamp")

	assert.Equal(t, models.PaymentStatusFailed, repo.statuses[2])
	assert.Nil(t, repo.paidAt[2])

	_, touched := repo.statuses[3]
	assert.False(t, touched, "in-flight orders stay pending for the next tick")
}

func TestPaymentReconcilerProviderFailureSkipsOrder(t *testing.T) {
	server := newIntentServer(t, map[string]string{"pi_ok": "succeeded"})
	defer server.Close()

	repo := newFakeOrderRepo(
		models.Order{ID: 1, UUID: "o1", PaymentIntentID: "pi_missing", PaymentStatus: models.PaymentStatusPending},
		models.Order{ID: 2, UUID: "o2", PaymentIntentID: "pi_ok", PaymentStatus: models.PaymentStatusPending},
	)
	client := &payments.Client{SecretKey: "sk_test", BaseURL: server.URL, HTTPClient: server.Client()}

	reconciler := NewPaymentReconciler(repo, client)
	require.NoError(t, reconciler.Run(), "per-order failures must not abort the batch")

	_, touched := repo.statuses[1]
	assert.False(t, touched)
	assert.Equal(t, models.PaymentStatusPaid, repo.statuses[2])
}

func TestPaymentReconcilerNoPendingOrders(t *testing.T) {
	repo := newFakeOrderRepo()
	client := &payments.Client{SecretKey: "sk_test", BaseURL: "http://unused", HTTPClient: http.DefaultClient}

	require.NoError(t, NewPaymentReconciler(repo, client).Run())
}
