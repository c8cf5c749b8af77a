package audit

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sewasmart/sewasmart/internal/affordability"
	"github.com/sewasmart/sewasmart/internal/monitoring"
)

// Sink appends audit records off the request path. Persistence failures are
// logged and counted, never propagated: an audit outage must not turn
// evaluation responses into errors.
type Sink struct {
	store   *Store
	metrics *monitoring.Metrics
	logger  *monitoring.Logger
	records chan Record
	dropped atomic.Int64

	mu      sync.Mutex
	closing bool
	done    chan struct{}
}

// NewSink starts the background writer over store. Every append attempt is
// counted so /metrics reflects audit health.
func NewSink(store *Store, metrics *monitoring.Metrics, logger *monitoring.Logger) *Sink {
	s := &Sink{
		store:   store,
		metrics: metrics,
		logger:  logger,
		records: make(chan Record, 256),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// FromVerdict builds an audit record for one evaluation outcome.
func FromVerdict(v *affordability.Verdict, clientIP string) Record {
	return Record{
		ID:                   uuid.New().String(),
		Model:                v.Model,
		Z:                    v.Z,
		P:                    v.P,
		Income:               v.Income,
		Rent:                 v.Rent,
		RentRatio:            v.RentRatio,
		ProbabilityThreshold: v.ProbabilityThreshold,
		ThresholdRM:          v.ThresholdRM,
		ConditionA:           v.ConditionA,
		ConditionB:           v.ConditionB,
		Overall:              v.Overall,
		ClientIP:             clientIP,
		CreatedAt:            time.Now().UTC(),
	}
}

// Record enqueues one record. If the queue is full the record is dropped
// with a warning rather than blocking the caller.
func (s *Sink) Record(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return
	}

	select {
	case s.records <- rec:
	default:
		s.dropped.Add(1)
		slog.Warn("Audit queue full, dropping record", "id", rec.ID, "model", rec.Model)
	}
}

// Dropped reports how many records were lost to a full queue.
func (s *Sink) Dropped() int64 {
	return s.dropped.Load()
}

// Recent proxies the store's newest-first listing.
func (s *Sink) Recent(limit int) ([]Record, error) {
	return s.store.Recent(limit)
}

// Count proxies the store's record count.
func (s *Sink) Count() (int64, error) {
	return s.store.Count()
}

// Close stops accepting records, drains the queue, and closes the store.
func (s *Sink) Close() error {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		return nil
	}
	s.closing = true
	s.mu.Unlock()

	close(s.records)
	<-s.done

	return s.store.Close()
}

func (s *Sink) run() {
	defer close(s.done)

	for rec := range s.records {
		err := s.store.Append(rec)
		s.metrics.RecordAuditAppend(err == nil)
		s.logger.AuditLogger("append", rec.ID, err)
	}
}
