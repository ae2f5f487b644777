// Package memory is an in-process Credential Store with the same interface
// and semantics as the postgres implementation. It backs tests and
// database-less development runs.
package memory

import (
	"strings"
	"sync"
	"time"

	"github.com/mdrrmo/bantay-api/internal/domain"
	internal_errors "github.com/mdrrmo/bantay-api/internal/errors"
)

type pending struct {
	code    string
	expires time.Time
}

type record struct {
	user         domain.User
	emailPending *pending
	phonePending *pending
}

type Storage struct {
	mu     sync.Mutex
	nextID domain.UserId
	users  map[domain.UserId]*record
}

func New() *Storage {
	return &Storage{nextID: 1, users: make(map[domain.UserId]*record)}
}

func (s *Storage) SaveUser(user domain.User) (domain.UserId, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.users {
		if strings.EqualFold(r.user.Email, user.Email) {
			return 0, internal_errors.Conflict("Email already exists.")
		}
		if r.user.Phone == user.Phone {
			return 0, internal_errors.Conflict("Phone number already exists.")
		}
	}

	user.Id = s.nextID
	s.nextID++
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.Id] = &record{user: user}
	return user.Id, nil
}

func (s *Storage) UserByEmail(email string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.users {
		if strings.EqualFold(r.user.Email, email) {
			return r.user, nil
		}
	}
	return domain.User{}, internal_errors.NotFound("User not found.")
}

func (s *Storage) UserByID(id domain.UserId) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.users[id]
	if !ok {
		return domain.User{}, internal_errors.NotFound("User not found.")
	}
	return r.user, nil
}

func (s *Storage) EmailExists(email string) (bool, error) {
	_, err := s.UserByEmail(email)
	if err != nil {
		if internal_errors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Storage) PhoneExists(phone string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.users {
		if r.user.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (s *Storage) UpdateAddress(id domain.UserId, addr domain.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.users[id]
	if !ok {
		return internal_errors.NotFound("User not found.")
	}
	r.user.Address = addr
	r.user.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Storage) SaveVerificationCode(code domain.PendingCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.users[code.UserId]
	if !ok {
		return internal_errors.NotFound("User not found.")
	}
	p := &pending{code: code.Code, expires: code.Expires}
	if code.Channel == domain.ChannelPhone {
		r.phonePending = p
	} else {
		r.emailPending = p
	}
	r.user.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Storage) ConsumeVerificationCode(userId domain.UserId, channel domain.Channel, submitted string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.users[userId]
	if !ok {
		return internal_errors.InvalidOrExpiredCode()
	}

	p := r.emailPending
	if channel == domain.ChannelPhone {
		p = r.phonePending
	}
	if p == nil || p.code != submitted || !p.expires.After(now) {
		return internal_errors.InvalidOrExpiredCode()
	}

	if channel == domain.ChannelPhone {
		r.user.PhoneVerified = true
		r.phonePending = nil
	} else {
		r.user.EmailVerified = true
		r.emailPending = nil
	}
	r.user.UpdatedAt = time.Now().UTC()
	return nil
}
