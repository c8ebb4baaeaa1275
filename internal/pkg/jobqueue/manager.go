package jobqueue

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"coursebox/internal/pkg/env"
	"coursebox/internal/pkg/metrics/counter"
)

// Manager manages the global job queue and scheduled background tasks
type Manager struct {
	queue       *Queue
	sweepTicker *time.Ticker
	flushTicker *time.Ticker
	stopCh      chan struct{}
	wg          sync.WaitGroup
	mu          sync.Mutex
	running     bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global job queue manager (singleton)
func GetManager() *Manager {
	managerOnce.Do(func() {
		workerCount := 3
		if v, err := strconv.Atoi(env.GetEnv("JOB_QUEUE_WORKERS", "3")); err == nil && v > 0 {
			workerCount = v
		}

		globalManager = &Manager{
			queue:  NewQueue(workerCount),
			stopCh: make(chan struct{}),
		}
	})
	return globalManager
}

// GetQueue returns the managed job queue
func (m *Manager) GetQueue() *Queue {
	return m.queue
}

// Start starts the job queue and the scheduled background tasks
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so manager can be restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[JobQueue Manager] Starting job queue and background tasks")

	m.queue.Start()

	// Schedule the inactive-user sweep; default once a day.
	sweepInterval := 24 * time.Hour
	if v, err := strconv.Atoi(env.GetEnv("DEACTIVATION_SWEEP_HOURS", "24")); err == nil && v > 0 {
		sweepInterval = time.Duration(v) * time.Hour
	}
	m.sweepTicker = time.NewTicker(sweepInterval)
	m.wg.Add(1)
	go m.sweepWorker(m.stopCh, m.sweepTicker)

	// Drain pending view counters into the database; default every 5 minutes.
	flushInterval := 5 * time.Minute
	if v, err := strconv.Atoi(env.GetEnv("COUNTER_FLUSH_MINUTES", "5")); err == nil && v > 0 {
		flushInterval = time.Duration(v) * time.Minute
	}
	m.flushTicker = time.NewTicker(flushInterval)
	m.wg.Add(1)
	go m.flushWorker(m.stopCh, m.flushTicker)

	// Run one sweep at boot so a long-stopped instance catches up.
	EnqueueDeactivationSweep(m.queue)

	log.Info("[JobQueue Manager] Started successfully")
}

// Stop stops the job queue and background tasks
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[JobQueue Manager] Stopping job queue and background tasks...")

	if m.sweepTicker != nil {
		m.sweepTicker.Stop()
	}
	if m.flushTicker != nil {
		m.flushTicker.Stop()
	}

	close(m.stopCh)
	m.running = false

	m.wg.Wait()
	m.queue.Stop()

	log.Info("[JobQueue Manager] Stopped successfully")
}

// sweepWorker enqueues a deactivation sweep on every tick
func (m *Manager) sweepWorker(stopCh <-chan struct{}, ticker *time.Ticker) {
	defer m.wg.Done()
	for {
		select {
		case <-stopCh:
			log.Info("[JobQueue Manager] Sweep worker stopping")
			return
		case <-ticker.C:
			EnqueueDeactivationSweep(m.queue)
		}
	}
}

// flushWorker drains pending view counters on every tick
func (m *Manager) flushWorker(stopCh <-chan struct{}, ticker *time.Ticker) {
	defer m.wg.Done()
	for {
		select {
		case <-stopCh:
			log.Info("[JobQueue Manager] Counter flush worker stopping")
			return
		case <-ticker.C:
			if err := counter.FlushAll(); err != nil {
				log.Errorf("[JobQueue Manager] Failed to flush view counters: %v", err)
			}
		}
	}
}

// IsRunning returns whether the manager is currently running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
