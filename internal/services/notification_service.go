package services

import (
	"sync"
	"time"

	"fintrack/internal/logger"
)

// Notification is an event delivered to subscribers, such as a budget alert
// threshold being crossed.
type Notification struct {
	UserID    uint                   `json:"user_id"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// NotificationTypeBudgetAlert is published when an expense pushes spending
// past an enabled budget alert threshold.
const NotificationTypeBudgetAlert = "budget_alert"

// Notifier defines explicit subscribe/publish semantics for in-process
// notifications. Implementations are injected into services rather than
// reached through globals so tests can observe published events.
type Notifier interface {
	// Subscribe registers a handler and returns a function that removes it.
	Subscribe(handler func(Notification)) func()
	// Publish delivers the notification to all current subscribers.
	Publish(n Notification)
}

// notificationService is a synchronous in-process Notifier.
type notificationService struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]func(Notification)
}

// NewNotificationService creates a new Notifier.
func NewNotificationService() Notifier {
	return &notificationService{handlers: make(map[int]func(Notification))}
}

// Subscribe registers a handler for all future notifications.
func (s *notificationService) Subscribe(handler func(Notification)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.handlers[id] = handler

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.handlers, id)
	}
}

// Publish delivers the notification to all subscribers. Delivery order is
// not guaranteed; handlers must not block.
func (s *notificationService) Publish(n Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	logger.Get().Infow("notification published",
		"type", n.Type,
		"user_id", n.UserID,
		"title", n.Title,
	)

	for _, handler := range s.handlers {
		handler(n)
	}
}
