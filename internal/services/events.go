package services

import "go.uber.org/zap"

// EventPublisher publishes marketplace events. *rabbitmq.Client satisfies it.
type EventPublisher interface {
	Publish(eventType string, payload interface{}) error
}

// publish sends an event if a publisher is configured. Failures are logged
// and never reach the caller.
func publish(p EventPublisher, log *zap.Logger, eventType string, payload interface{}) {
	if p == nil {
		return
	}
	if err := p.Publish(eventType, payload); err != nil {
		log.Warn("event publish failed", zap.String("type", eventType), zap.Error(err))
	}
}
