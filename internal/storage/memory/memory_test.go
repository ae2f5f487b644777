package memory

import (
	"net/http"
	"testing"
	"time"

	"github.com/mdrrmo/bantay-api/internal/domain"
	internal_errors "github.com/mdrrmo/bantay-api/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveTestUser(t *testing.T, s *Storage, email, phone string) domain.UserId {
	t.Helper()
	id, err := s.SaveUser(domain.User{Name: "Jane Cruz", Email: email, Phone: phone, PassHash: "hash"})
	require.NoError(t, err)
	return id
}

func TestSaveUser_Uniqueness(t *testing.T) {
	s := New()
	saveTestUser(t, s, "jane@x.com", "+639170000000")

	_, err := s.SaveUser(domain.User{Email: "JANE@X.COM", Phone: "+639171111111"})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, internal_errors.StatusCode(err))
	assert.Equal(t, "Email already exists.", err.Error())

	_, err = s.SaveUser(domain.User{Email: "other@x.com", Phone: "+639170000000"})
	require.Error(t, err)
	assert.Equal(t, "Phone number already exists.", err.Error())
}

func TestUserLookups(t *testing.T) {
	s := New()
	id := saveTestUser(t, s, "jane@x.com", "+639170000000")

	byEmail, err := s.UserByEmail("Jane@X.com")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.Id)

	byId, err := s.UserByID(id)
	require.NoError(t, err)
	assert.Equal(t, "jane@x.com", byId.Email)

	_, err = s.UserByID(999)
	assert.True(t, internal_errors.IsNotFound(err))

	exists, err := s.EmailExists("jane@x.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.PhoneExists("+639999999999")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUpdateAddress(t *testing.T) {
	s := New()
	id := saveTestUser(t, s, "jane@x.com", "+639170000000")

	addr := domain.Address{FullAddress: "123 Rizal St", City: "Bantay", Zone: "north"}
	require.NoError(t, s.UpdateAddress(id, addr))

	user, err := s.UserByID(id)
	require.NoError(t, err)
	assert.Equal(t, addr, user.Address)

	err = s.UpdateAddress(999, addr)
	assert.True(t, internal_errors.IsNotFound(err))
}

func TestConsumeVerificationCode(t *testing.T) {
	s := New()
	id := saveTestUser(t, s, "jane@x.com", "+639170000000")
	now := time.Now()

	require.NoError(t, s.SaveVerificationCode(domain.PendingCode{
		UserId: id, Channel: domain.ChannelEmail, Code: "123456", Expires: now.Add(10 * time.Minute),
	}))

	// wrong code leaves state untouched
	err := s.ConsumeVerificationCode(id, domain.ChannelEmail, "000000", now)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, internal_errors.StatusCode(err))

	require.NoError(t, s.ConsumeVerificationCode(id, domain.ChannelEmail, "123456", now))

	user, err := s.UserByID(id)
	require.NoError(t, err)
	assert.True(t, user.EmailVerified)
	assert.False(t, user.PhoneVerified)

	// single use
	err = s.ConsumeVerificationCode(id, domain.ChannelEmail, "123456", now)
	assert.Error(t, err)
}

func TestConsumeVerificationCode_Expired(t *testing.T) {
	s := New()
	id := saveTestUser(t, s, "jane@x.com", "+639170000000")
	now := time.Now()

	require.NoError(t, s.SaveVerificationCode(domain.PendingCode{
		UserId: id, Channel: domain.ChannelPhone, Code: "123456", Expires: now.Add(10 * time.Minute),
	}))

	err := s.ConsumeVerificationCode(id, domain.ChannelPhone, "123456", now.Add(10*time.Minute+time.Second))
	require.Error(t, err)

	user, err := s.UserByID(id)
	require.NoError(t, err)
	assert.False(t, user.PhoneVerified)
}

func TestSaveVerificationCode_SupersedesPrevious(t *testing.T) {
	s := New()
	id := saveTestUser(t, s, "jane@x.com", "+639170000000")
	now := time.Now()

	require.NoError(t, s.SaveVerificationCode(domain.PendingCode{
		UserId: id, Channel: domain.ChannelEmail, Code: "111111", Expires: now.Add(10 * time.Minute),
	}))
	require.NoError(t, s.SaveVerificationCode(domain.PendingCode{
		UserId: id, Channel: domain.ChannelEmail, Code: "222222", Expires: now.Add(10 * time.Minute),
	}))

	assert.Error(t, s.ConsumeVerificationCode(id, domain.ChannelEmail, "111111", now))
	assert.NoError(t, s.ConsumeVerificationCode(id, domain.ChannelEmail, "222222", now))
}

func TestVerificationChannelsIndependent(t *testing.T) {
	s := New()
	id := saveTestUser(t, s, "jane@x.com", "+639170000000")
	now := time.Now()

	require.NoError(t, s.SaveVerificationCode(domain.PendingCode{
		UserId: id, Channel: domain.ChannelEmail, Code: "111111", Expires: now.Add(10 * time.Minute),
	}))
	require.NoError(t, s.SaveVerificationCode(domain.PendingCode{
		UserId: id, Channel: domain.ChannelPhone, Code: "222222", Expires: now.Add(time.Minute),
	}))

	// the phone code cannot verify the email channel
	assert.Error(t, s.ConsumeVerificationCode(id, domain.ChannelEmail, "222222", now))
	require.NoError(t, s.ConsumeVerificationCode(id, domain.ChannelEmail, "111111", now))

	user, err := s.UserByID(id)
	require.NoError(t, err)
	assert.True(t, user.EmailVerified)
	assert.False(t, user.PhoneVerified)
}
