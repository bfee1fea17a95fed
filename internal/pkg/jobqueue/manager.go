package jobqueue

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/dinefront/dinefront/app/repository"
	"github.com/dinefront/dinefront/internal/pkg/env"
	metrics "github.com/dinefront/dinefront/internal/pkg/metrics/counter"
	"github.com/dinefront/dinefront/internal/pkg/payments"
)

// Manager runs the background workers: payment status reconciliation and
// the Redis counter flush.
type Manager struct {
	reconciler *PaymentReconciler

	reconcileTicker    *time.Ticker
	counterFlushTicker *time.Ticker
	stopCh             chan struct{}
	wg                 sync.WaitGroup
	mu                 sync.Mutex
	running            bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global background worker manager (singleton)
func GetManager() *Manager {
	managerOnce.Do(func() {
		repos := repository.GetGlobalRepositories()
		globalManager = &Manager{
			reconciler: NewPaymentReconciler(repos.Order, payments.NewClientFromEnv()),
			stopCh:     make(chan struct{}),
		}
	})
	return globalManager
}

// Start starts the background workers
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so the manager can be
	// restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[Worker Manager] Starting background workers")

	reconcileInterval := 2 * time.Minute
	if v, err := strconv.Atoi(env.GetEnv("PAYMENT_RECONCILE_INTERVAL_MINUTES", "2")); err == nil && v > 0 {
		reconcileInterval = time.Duration(v) * time.Minute
	}
	m.reconcileTicker = time.NewTicker(reconcileInterval)
	m.wg.Add(1)
	go m.reconcileWorker()

	// Counter flush worker (Redis -> DB) every 5 seconds
	m.counterFlushTicker = time.NewTicker(5 * time.Second)
	m.wg.Add(1)
	go m.counterFlushWorker()

	log.Info("[Worker Manager] Started successfully")
}

// Stop stops the background workers
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[Worker Manager] Stopping background workers...")

	if m.reconcileTicker != nil {
		m.reconcileTicker.Stop()
	}
	if m.counterFlushTicker != nil {
		m.counterFlushTicker.Stop()
	}

	// Signal workers to stop
	close(m.stopCh)
	m.running = false

	// Wait for background workers to finish
	m.wg.Wait()

	log.Info("[Worker Manager] Stopped successfully")
}

// reconcileWorker periodically reconciles pending order payments against
// the payment provider. A failed tick is simply retried on the next one.
func (m *Manager) reconcileWorker() {
	defer m.wg.Done()
	log.Info("[Worker Manager] Started payment reconcile worker")

	for {
		select {
		case <-m.stopCh:
			log.Info("[Worker Manager] Payment reconcile worker stopping")
			return
		case <-m.reconcileTicker.C:
			if err := m.reconciler.Run(); err != nil {
				log.Errorf("[Worker Manager] Payment reconciliation failed: %v", err)
			}
		}
	}
}

// counterFlushWorker flushes the pending Redis counters to the database
func (m *Manager) counterFlushWorker() {
	defer m.wg.Done()
	log.Info("[Worker Manager] Started counter flush worker")

	for {
		select {
		case <-m.stopCh:
			// Final flush so counts are not lost on shutdown
			if err := metrics.FlushAll(); err != nil {
				log.Errorf("[Worker Manager] Final counter flush failed: %v", err)
			}
			log.Info("[Worker Manager] Counter flush worker stopping")
			return
		case <-m.counterFlushTicker.C:
			if err := metrics.FlushAll(); err != nil {
				log.Errorf("[Worker Manager] Counter flush failed: %v", err)
			}
		}
	}
}
