// Package verification issues and validates one-time channel verification
// codes. A code is 6 ASCII digits, lives for a configured TTL, and is
// consumed exactly once; issuing a new code for a channel supersedes the
// previous one.
package verification

import (
	"time"

	"github.com/mdrrmo/bantay-api/internal/domain"
	internal_errors "github.com/mdrrmo/bantay-api/internal/errors"
	"github.com/mdrrmo/bantay-api/internal/utils"
)

const CodeLength = 6

type Storage interface {
	SaveVerificationCode(code domain.PendingCode) error
	ConsumeVerificationCode(userId domain.UserId, channel domain.Channel, submitted string, now time.Time) error
}

type Manager struct {
	storage Storage
	ttl     time.Duration

	now func() time.Time // injectable for tests
}

func NewManager(storage Storage, ttl time.Duration) *Manager {
	return &Manager{storage: storage, ttl: ttl, now: time.Now}
}

// Issue generates a fresh code for the channel and persists it with
// expiry now+TTL. The persisted code is the source of truth; delivery is
// the caller's concern.
func (m *Manager) Issue(userId domain.UserId, channel domain.Channel) (string, error) {
	code := utils.GenerateVerificationCode(CodeLength)
	err := m.storage.SaveVerificationCode(domain.PendingCode{
		UserId:  userId,
		Channel: channel,
		Code:    code,
		Expires: m.now().Add(m.ttl),
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// Verify consumes the pending code for the channel. Any mismatch, expiry or
// absence of a pending code yields the same InvalidOrExpiredCode error and
// leaves state untouched.
func (m *Manager) Verify(userId domain.UserId, channel domain.Channel, submitted string) error {
	if !validCodeFormat(submitted) {
		return internal_errors.InvalidOrExpiredCode()
	}
	return m.storage.ConsumeVerificationCode(userId, channel, submitted, m.now())
}

func validCodeFormat(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return false
		}
	}
	return true
}
