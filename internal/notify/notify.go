// Package notify delivers verification codes out-of-band. Persistence of a
// code is the source of truth; delivery is best-effort and must never block
// or fail the HTTP response path.
package notify

import (
	"github.com/mdrrmo/bantay-api/internal/domain"
)

// Dispatcher is the single interface the auth service depends on.
type Dispatcher interface {
	SendCode(channel domain.Channel, destination, recipientName, code string) error
}

// Service routes a code to the sender for its channel.
type Service struct {
	email Dispatcher
	sms   Dispatcher
}

func New(email, sms Dispatcher) *Service {
	return &Service{email: email, sms: sms}
}

func (s *Service) SendCode(channel domain.Channel, destination, recipientName, code string) error {
	if channel == domain.ChannelPhone {
		return s.sms.SendCode(channel, destination, recipientName, code)
	}
	return s.email.SendCode(channel, destination, recipientName, code)
}
