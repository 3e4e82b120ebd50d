package game

import (
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	EventBufferSize    = 4096                   // Circular buffer size
	BatchFlushSize     = 256                    // Events per batch write
	BatchFlushInterval = 100 * time.Millisecond // How often to flush
)

// EventLog is a bounded EventSink that writes newline-delimited JSON on a
// background goroutine. When the writer falls behind, the oldest pending
// events are dropped.
type EventLog struct {
	buffer    [EventBufferSize]Event
	writeHead uint64 // atomic - producer position
	readHead  uint64 // atomic - consumer position

	// limiter caps accepted events per second; rate.Inf disables it.
	limiter *rate.Limiter

	writerWg sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	filePath string
	file     *os.File
	fileMu   sync.Mutex

	droppedCount uint64 // atomic
	totalCount   uint64 // atomic
}

// NewEventLog creates an unlimited event log.
func NewEventLog() *EventLog {
	return NewEventLogWithLimit(rate.Inf)
}

// NewEventLogWithLimit creates an event log accepting at most perSec events
// per second.
func NewEventLogWithLimit(perSec rate.Limit) *EventLog {
	burst := int(perSec / 10)
	if perSec == rate.Inf || burst < 1 {
		burst = 1
	}
	return &EventLog{
		limiter:  rate.NewLimiter(perSec, burst),
		stopChan: make(chan struct{}),
	}
}

// Start begins the async writer goroutine. An empty path keeps events in the
// ring buffer only.
func (el *EventLog) Start(filePath string) error {
	if el.running.Load() {
		return nil
	}

	el.filePath = filePath
	if filePath != "" {
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		el.file = file
	}

	el.running.Store(true)
	el.writerWg.Add(1)
	go el.writerLoop()

	return nil
}

// Stop flushes pending events and closes the file.
func (el *EventLog) Stop() {
	el.stopOnce.Do(func() {
		el.running.Store(false)
		close(el.stopChan)
		el.writerWg.Wait()

		el.fileMu.Lock()
		if el.file != nil {
			el.file.Close()
		}
		el.fileMu.Unlock()
	})
}

// Emit adds an event. Returns false if the log is stopped or rate limited.
func (el *EventLog) Emit(event Event) bool {
	if !el.running.Load() {
		return false
	}
	if !el.limiter.Allow() {
		atomic.AddUint64(&el.droppedCount, 1)
		return false
	}

	head := atomic.AddUint64(&el.writeHead, 1)
	tail := atomic.LoadUint64(&el.readHead)
	if head-tail >= EventBufferSize {
		atomic.AddUint64(&el.readHead, 1)
		atomic.AddUint64(&el.droppedCount, 1)
	}

	event.Sequence = head
	el.buffer[head%EventBufferSize] = event

	atomic.AddUint64(&el.totalCount, 1)
	return true
}

func (el *EventLog) writerLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(BatchFlushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, BatchFlushSize)

	for {
		select {
		case <-el.stopChan:
			for {
				batch = el.collectBatch(batch[:0])
				if len(batch) == 0 {
					return
				}
				el.flushBatch(batch)
			}

		case <-ticker.C:
			batch = el.collectBatch(batch[:0])
			if len(batch) > 0 {
				el.flushBatch(batch)
			}
		}
	}
}

// collectBatch reads available events from the circular buffer.
func (el *EventLog) collectBatch(batch []Event) []Event {
	head := atomic.LoadUint64(&el.writeHead)
	tail := atomic.LoadUint64(&el.readHead)

	for i := tail + 1; i <= head && len(batch) < BatchFlushSize; i++ {
		batch = append(batch, el.buffer[i%EventBufferSize])
	}
	if len(batch) > 0 {
		atomic.AddUint64(&el.readHead, uint64(len(batch)))
	}
	return batch
}

// flushBatch writes events to disk (newline-delimited JSON).
func (el *EventLog) flushBatch(batch []Event) {
	el.fileMu.Lock()
	defer el.fileMu.Unlock()

	if el.file == nil {
		return
	}
	for _, event := range batch {
		data, err := json.Marshal(event)
		if err != nil {
			continue
		}
		el.file.Write(append(data, '\n'))
	}
}

// GetStats returns counters for monitoring.
func (el *EventLog) GetStats() map[string]interface{} {
	head := atomic.LoadUint64(&el.writeHead)
	tail := atomic.LoadUint64(&el.readHead)

	return map[string]interface{}{
		"total":   atomic.LoadUint64(&el.totalCount),
		"dropped": atomic.LoadUint64(&el.droppedCount),
		"pending": head - tail,
		"running": el.running.Load(),
	}
}

// GetDroppedCount returns the number of dropped events
func (el *EventLog) GetDroppedCount() uint64 {
	return atomic.LoadUint64(&el.droppedCount)
}

// GetTotalCount returns the total number of accepted events
func (el *EventLog) GetTotalCount() uint64 {
	return atomic.LoadUint64(&el.totalCount)
}
