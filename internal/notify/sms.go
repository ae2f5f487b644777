package notify

import (
	"github.com/mdrrmo/bantay-api/internal/domain"
	"github.com/mdrrmo/bantay-api/internal/logger"
)

// SMSSender is a stand-in for an SMS gateway. It records the send in the
// log and reports success; the persisted code stays the source of truth.
// TODO: wire a real gateway (Semaphore or Twilio) once the LGU account is
// provisioned.
type SMSSender struct{}

func NewSMSSender() *SMSSender {
	return &SMSSender{}
}

func (s *SMSSender) SendCode(_ domain.Channel, destination, recipientName, _ string) error {
	logger.Log.Info("sms verification code queued",
		"destination", destination,
		"recipient", recipientName,
	)
	return nil
}
