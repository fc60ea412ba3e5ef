package notification

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSchedulerClosed = errors.New("notification scheduler is shut down")
	ErrQueueFull       = errors.New("notification queue is full")
)

type Worker struct {
	ID         int
	WorkerPool chan chan Message
	JobChannel chan Message
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan Message, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Message),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(Message)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			select {
			case w.WorkerPool <- w.JobChannel:
			case <-ctx.Done():
				w.Logger.Debug("notification worker shutting down", "worker_id", w.ID)
				return
			}

			select {
			case msg := <-w.JobChannel:
				w.Logger.Debug("worker delivering notification", "worker_id", w.ID, "notification_id", msg.ID)
				processFunc(msg)
			case <-ctx.Done():
				w.Logger.Debug("notification worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

type SchedulerConfig struct {
	MaxWorkers  int
	QueueSize   int
	SendTimeout time.Duration
}

// Scheduler delivers messages through a fixed worker pool. Messages due in the
// future wait on a timer and join the queue when due. Nothing is retried.
type Scheduler struct {
	sender      Sender
	logger      *slog.Logger
	sendTimeout time.Duration

	jobQueue   chan Message
	workerPool chan chan Message
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once

	// mu orders timer registration against Shutdown's wait.
	mu     sync.Mutex
	closed bool
	timers sync.WaitGroup
}

func NewScheduler(sender Sender, config SchedulerConfig, logger *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = 256
	}

	sendTimeout := config.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = 30 * time.Second
	}

	s := &Scheduler{
		sender:      sender,
		logger:      logger,
		sendTimeout: sendTimeout,
		maxWorkers:  maxWorkers,
		jobQueue:    make(chan Message, queueSize),
		workerPool:  make(chan chan Message, maxWorkers),
		ctx:         ctx,
		cancel:      cancel,
	}

	s.start()

	return s
}

func (s *Scheduler) start() {
	s.once.Do(func() {
		for i := 0; i < s.maxWorkers; i++ {
			worker := NewWorker(i, s.workerPool, s.logger)
			worker.Start(s.ctx, &s.wg, s.deliver)
		}

		s.wg.Add(1)
		go s.dispatch()

		s.logger.Info("notification worker pool started",
			"max_workers", s.maxWorkers,
			"queue_size", cap(s.jobQueue))
	})
}

func (s *Scheduler) dispatch() {
	defer s.wg.Done()

	for {
		select {
		case msg := <-s.jobQueue:
			select {
			case jobChannel := <-s.workerPool:
				select {
				case jobChannel <- msg:
				case <-s.ctx.Done():
					s.logDropped(msg, "shutdown")
					return
				}
			case <-s.ctx.Done():
				s.logDropped(msg, "shutdown")
				return
			}
		case <-s.ctx.Done():
			s.logger.Info("notification dispatcher shutting down")
			return
		}
	}
}

// Enqueue schedules msg for delivery at at. A zero or past time means now.
func (s *Scheduler) Enqueue(ctx context.Context, msg Message, at time.Time) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.logDropped(msg, "shutdown")
		return ErrSchedulerClosed
	}

	delay := time.Until(at)
	if at.IsZero() || delay <= 0 {
		return s.push(msg)
	}

	s.logger.Debug("notification scheduled",
		"notification_id", msg.ID,
		"kind", msg.Kind,
		"delay", delay.String())

	s.timers.Add(1)
	go func() {
		defer s.timers.Done()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-timer.C:
			_ = s.push(msg)
		case <-s.ctx.Done():
			s.logDropped(msg, "shutdown")
		}
	}()

	return nil
}

func (s *Scheduler) push(msg Message) error {
	select {
	case s.jobQueue <- msg:
		return nil
	default:
		s.logDropped(msg, "queue full")
		return ErrQueueFull
	}
}

func (s *Scheduler) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(s.ctx, s.sendTimeout)
	defer cancel()

	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Error("notification delivery failed",
			"notification_id", msg.ID,
			"kind", msg.Kind,
			"to", strings.Join(msg.To, ","),
			"error", err)
		return
	}

	s.logger.Info("notification delivered", "notification_id", msg.ID, "kind", msg.Kind)
}

func (s *Scheduler) logDropped(msg Message, reason string) {
	s.logger.Warn("notification dropped",
		"notification_id", msg.ID,
		"kind", msg.Kind,
		"reason", reason)
}

// Shutdown stops the pool. Pending and scheduled messages are dropped.
func (s *Scheduler) Shutdown() {
	s.logger.Info("shutting down notification scheduler")
	s.mu.Lock()
	s.closed = true
	s.cancel()
	s.mu.Unlock()

	s.timers.Wait()
	s.wg.Wait()
	s.logger.Info("notification scheduler shutdown complete")
}
