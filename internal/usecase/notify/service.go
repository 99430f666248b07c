package notify

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"devnest-backend/internal/domain/entity"
	"devnest-backend/internal/resilience/circuitbreaker"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const requestIDKey contextKey = "request_id"

const (
	workerPoolTimeout   = 5 * time.Second  // Timeout for acquiring a worker slot
	notificationTimeout = 30 * time.Second // Timeout for an individual notification
)

// Service handles notification dispatching to multiple channels.
// Dispatch methods are non-blocking and return immediately; sends happen in
// background goroutines and failures are logged but never propagated.
type Service interface {
	// NotifyContact dispatches a contact inquiry notification to all
	// enabled channels. Always returns nil; errors are handled internally.
	NotifyContact(ctx context.Context, msg *entity.ContactMessage) error

	// NotifyDigest dispatches a content digest to all enabled channels.
	NotifyDigest(ctx context.Context, title string, posts []entity.Post) error

	// GetChannelHealth returns the health status of all channels, for
	// monitoring and readiness endpoints.
	GetChannelHealth() []ChannelHealthStatus

	// Shutdown gracefully stops the service, waiting for in-flight
	// notifications to complete or the context to expire.
	Shutdown(ctx context.Context) error
}

// ChannelHealthStatus represents the health of one notification channel.
type ChannelHealthStatus struct {
	Name               string
	Enabled            bool
	CircuitBreakerOpen bool
}

// service is the concrete implementation of the Service interface.
type service struct {
	channels       []Channel
	breakers       map[string]*circuitbreaker.CircuitBreaker
	workerPool     chan struct{} // semaphore limiting concurrent sends
	wg             sync.WaitGroup
	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
}

// NewService creates a notification service over the given channels with at
// most maxConcurrent sends in flight. Each channel gets its own circuit
// breaker so a dead webhook cannot burn goroutines on a healthy one.
func NewService(channels []Channel, maxConcurrent int) Service {
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	svc := &service{
		channels:       channels,
		breakers:       make(map[string]*circuitbreaker.CircuitBreaker),
		workerPool:     make(chan struct{}, maxConcurrent),
		shutdownCtx:    shutdownCtx,
		shutdownCancel: shutdownCancel,
	}

	for _, ch := range channels {
		cfg := circuitbreaker.WebhookConfig()
		cfg.Name = ch.Name()
		svc.breakers[ch.Name()] = circuitbreaker.New(cfg)
	}

	return svc
}

// NotifyContact implements Service.NotifyContact.
func (s *service) NotifyContact(ctx context.Context, msg *entity.ContactMessage) error {
	if msg == nil {
		slog.Warn("Invalid contact notification input: nil message")
		return nil
	}

	s.dispatch(ctx, "contact", func(ctx context.Context, ch Channel) error {
		return ch.SendContact(ctx, msg)
	})
	return nil
}

// NotifyDigest implements Service.NotifyDigest.
func (s *service) NotifyDigest(ctx context.Context, title string, posts []entity.Post) error {
	if len(posts) == 0 {
		slog.Debug("Skipping digest notification: no posts")
		return nil
	}

	s.dispatch(ctx, "digest", func(ctx context.Context, ch Channel) error {
		return ch.SendDigest(ctx, title, posts)
	})
	return nil
}

// dispatch fans the send out to every enabled channel in its own goroutine.
func (s *service) dispatch(ctx context.Context, kind string, send func(context.Context, Channel) error) {
	requestID, ok := ctx.Value(requestIDKey).(string)
	if !ok || requestID == "" {
		requestID = uuid.New().String()
	}

	enabledCount := 0
	for _, ch := range s.channels {
		if ch.IsEnabled() {
			enabledCount++
		}
	}
	SetChannelsEnabled(float64(enabledCount))

	if enabledCount == 0 {
		slog.Debug("No notification channels enabled",
			slog.String("request_id", requestID),
			slog.String("kind", kind))
		return
	}

	slog.Info("Dispatching notification",
		slog.String("request_id", requestID),
		slog.String("kind", kind),
		slog.Int("enabled_channels", enabledCount))

	for _, ch := range s.channels {
		if ch.IsEnabled() {
			channel := ch
			s.wg.Add(1)
			go s.notifyChannel(requestID, kind, channel, send)
		}
	}
}

// notifyChannel sends one notification to a single channel.
func (s *service) notifyChannel(requestID, kind string, channel Channel, send func(context.Context, Channel) error) {
	defer s.wg.Done()

	IncrementActiveGoroutines()
	defer DecrementActiveGoroutines()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic in notification channel",
				slog.String("request_id", requestID),
				slog.String("channel", channel.Name()),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
		}
	}()

	// Acquire a worker slot, dropping the notification if the pool stays
	// saturated.
	select {
	case s.workerPool <- struct{}{}:
		defer func() { <-s.workerPool }()
	case <-time.After(workerPoolTimeout):
		slog.Warn("Notification dropped: worker pool full",
			slog.String("request_id", requestID),
			slog.String("channel", channel.Name()))
		RecordDropped(channel.Name(), "pool_full")
		return
	}

	// Send on the shutdown context, not the request context: the HTTP
	// response has already been written by the time this runs.
	ctx, cancel := context.WithTimeout(s.shutdownCtx, notificationTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, requestIDKey, requestID)

	breaker := s.breakers[channel.Name()]

	startTime := time.Now()
	RecordDispatch(channel.Name())

	_, err := breaker.Execute(func() (interface{}, error) {
		return nil, send(ctx, channel)
	})
	duration := time.Since(startTime)

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		slog.Warn("Notification dropped: circuit open",
			slog.String("request_id", requestID),
			slog.String("channel", channel.Name()),
			slog.String("kind", kind))
		RecordDropped(channel.Name(), "circuit_open")
		return
	}

	if err != nil {
		RecordFailure(channel.Name(), duration)
		if breaker.IsOpen() {
			RecordCircuitBreakerOpen(channel.Name())
		}
		slog.Warn("Channel notification failed",
			slog.String("request_id", requestID),
			slog.String("channel", channel.Name()),
			slog.String("kind", kind),
			slog.Duration("send_duration", duration),
			slog.Any("error", err))
		return
	}

	RecordSuccess(channel.Name(), duration)
	slog.Info("Channel notification sent successfully",
		slog.String("request_id", requestID),
		slog.String("channel", channel.Name()),
		slog.String("kind", kind),
		slog.Duration("send_duration", duration))
}

// GetChannelHealth implements Service.GetChannelHealth.
func (s *service) GetChannelHealth() []ChannelHealthStatus {
	statuses := make([]ChannelHealthStatus, 0, len(s.channels))
	for _, ch := range s.channels {
		statuses = append(statuses, ChannelHealthStatus{
			Name:               ch.Name(),
			Enabled:            ch.IsEnabled(),
			CircuitBreakerOpen: s.breakers[ch.Name()].IsOpen(),
		})
	}
	return statuses
}

// Shutdown implements Service.Shutdown.
func (s *service) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down notification service")

	s.shutdownCancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("Notification service shutdown complete")
		return nil
	case <-ctx.Done():
		slog.Warn("Notification service shutdown timeout")
		return ctx.Err()
	}
}
