package service

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mdrrmo/bantay-api/internal/domain"
	internal_errors "github.com/mdrrmo/bantay-api/internal/errors"
	"github.com/mdrrmo/bantay-api/internal/logger"
	"github.com/mdrrmo/bantay-api/internal/notify"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(name, email, phone, password string) (domain.User, error)
	Login(email, password string) (domain.User, string, error)
	UpdateAddress(userId domain.UserId, addr domain.Address) error
	SendVerification(userId domain.UserId, channel domain.Channel, destination, recipientName string) (string, error)
	VerifyCode(userId domain.UserId, channel domain.Channel, code string) error
	Profile(userId domain.UserId) (domain.User, error)
}

type UserStorage interface {
	SaveUser(user domain.User) (domain.UserId, error)
	UserByEmail(email string) (domain.User, error)
	UserByID(id domain.UserId) (domain.User, error)
	EmailExists(email string) (bool, error)
	PhoneExists(phone string) (bool, error)
	UpdateAddress(id domain.UserId, addr domain.Address) error
}

// CodeManager is satisfied by verification.Manager.
type CodeManager interface {
	Issue(userId domain.UserId, channel domain.Channel) (string, error)
	Verify(userId domain.UserId, channel domain.Channel, submitted string) error
}

type TokenIssuer interface {
	NewToken(user domain.User) (string, error)
}

type Auth struct {
	storage  UserStorage
	codes    CodeManager
	notifier notify.Dispatcher
	jwt      TokenIssuer

	// sanitizer strips any markup from free-text fields before they are
	// persisted and later echoed back to clients.
	sanitizer *bluemonday.Policy
}

func NewAuth(storage UserStorage, codes CodeManager, notifier notify.Dispatcher, jwt TokenIssuer) *Auth {
	return &Auth{
		storage:   storage,
		codes:     codes,
		notifier:  notifier,
		jwt:       jwt,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (a *Auth) clean(s string) string {
	return strings.TrimSpace(a.sanitizer.Sanitize(s))
}

// Register creates a new unverified account. Duplicate email is reported
// before duplicate phone; the storage's unique constraints remain the
// authority when two registrations race past the pre-checks.
func (a *Auth) Register(name, email, phone, password string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = a.clean(name)
	phone = strings.TrimSpace(phone)

	if name == "" {
		return domain.User{}, internal_errors.Validation("Invalid input data.")
	}
	if err := ValidatePassword(password); err != nil {
		return domain.User{}, err
	}

	if exists, err := a.storage.EmailExists(email); err != nil {
		return domain.User{}, err
	} else if exists {
		return domain.User{}, internal_errors.Conflict("Email already exists.")
	}
	if exists, err := a.storage.PhoneExists(phone); err != nil {
		return domain.User{}, err
	} else if exists {
		return domain.User{}, internal_errors.Conflict("Phone number already exists.")
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return domain.User{}, err
	}

	user := domain.User{Name: name, Email: email, Phone: phone, PassHash: string(passHash)}
	id, err := a.storage.SaveUser(user)
	if err != nil {
		return domain.User{}, err
	}
	user.Id = id

	logger.Log.Info("user registered", "user_id", id)
	return user, nil
}

// Login authenticates by email and password and returns the user together
// with a bearer token. Unknown email and wrong password are reported
// identically so the endpoint cannot be used to enumerate accounts.
func (a *Auth) Login(email, password string) (domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := a.storage.UserByEmail(email)
	if err != nil {
		if internal_errors.IsNotFound(err) {
			return domain.User{}, "", internal_errors.InvalidCredentials()
		}
		return domain.User{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(password)); err != nil {
		logger.Log.Debug("password verification failed", "user_id", user.Id)
		return domain.User{}, "", internal_errors.InvalidCredentials()
	}

	token, err := a.jwt.NewToken(user)
	if err != nil {
		logger.Log.Error("failed to create token", "user_id", user.Id, "error", err)
		return domain.User{}, "", err
	}

	return user, token, nil
}

func (a *Auth) UpdateAddress(userId domain.UserId, addr domain.Address) error {
	addr.FullAddress = a.clean(addr.FullAddress)
	addr.Barangay = a.clean(addr.Barangay)
	addr.City = a.clean(addr.City)
	return a.storage.UpdateAddress(userId, addr)
}

// SendVerification issues a fresh code for the channel and hands it to the
// dispatcher off the request path. The operation succeeds once the code is
// persisted; a delivery failure is logged, never surfaced.
func (a *Auth) SendVerification(userId domain.UserId, channel domain.Channel, destination, recipientName string) (string, error) {
	user, err := a.storage.UserByID(userId)
	if err != nil {
		return "", err
	}
	if destination == "" {
		if channel == domain.ChannelPhone {
			destination = user.Phone
		} else {
			destination = user.Email
		}
	}
	if recipientName == "" {
		recipientName = user.Name
	}

	code, err := a.codes.Issue(userId, channel)
	if err != nil {
		return "", err
	}

	go func() {
		if err := a.notifier.SendCode(channel, destination, recipientName, code); err != nil {
			logger.Log.Warn("verification code delivery failed",
				"user_id", userId,
				"channel", channel,
				"error", err)
		}
	}()

	return code, nil
}

func (a *Auth) VerifyCode(userId domain.UserId, channel domain.Channel, code string) error {
	if err := a.codes.Verify(userId, channel, code); err != nil {
		return err
	}
	logger.Log.Info("channel verified", "user_id", userId, "channel", channel)
	return nil
}

func (a *Auth) Profile(userId domain.UserId) (domain.User, error) {
	return a.storage.UserByID(userId)
}
