package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mdrrmo/bantay-api/internal/config"
	"github.com/mdrrmo/bantay-api/internal/domain"
	internal_errors "github.com/mdrrmo/bantay-api/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockAuthService struct {
	RegisterFunc         func(name, email, phone, password string) (domain.User, error)
	LoginFunc            func(email, password string) (domain.User, string, error)
	UpdateAddressFunc    func(userId domain.UserId, addr domain.Address) error
	SendVerificationFunc func(userId domain.UserId, channel domain.Channel, destination, recipientName string) (string, error)
	VerifyCodeFunc       func(userId domain.UserId, channel domain.Channel, code string) error
	ProfileFunc          func(userId domain.UserId) (domain.User, error)
}

func (m *MockAuthService) Register(name, email, phone, password string) (domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(name, email, phone, password)
	}
	return domain.User{Id: 1, Name: name, Email: email, Phone: phone}, nil
}

func (m *MockAuthService) Login(email, password string) (domain.User, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(email, password)
	}
	return domain.User{Id: 1, Email: email}, "token", nil
}

func (m *MockAuthService) UpdateAddress(userId domain.UserId, addr domain.Address) error {
	if m.UpdateAddressFunc != nil {
		return m.UpdateAddressFunc(userId, addr)
	}
	return nil
}

func (m *MockAuthService) SendVerification(userId domain.UserId, channel domain.Channel, destination, recipientName string) (string, error) {
	if m.SendVerificationFunc != nil {
		return m.SendVerificationFunc(userId, channel, destination, recipientName)
	}
	return "123456", nil
}

func (m *MockAuthService) VerifyCode(userId domain.UserId, channel domain.Channel, code string) error {
	if m.VerifyCodeFunc != nil {
		return m.VerifyCodeFunc(userId, channel, code)
	}
	return nil
}

func (m *MockAuthService) Profile(userId domain.UserId) (domain.User, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(userId)
	}
	return domain.User{Id: userId}, nil
}

func newTestHandler(auth *MockAuthService, devMode bool) *Handler {
	cfg := &config.Config{}
	cfg.Public.DevMode = devMode
	return New(auth, cfg)
}

func post(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// --- Register ---

func TestRegisterHandler_Created(t *testing.T) {
	h := newTestHandler(&MockAuthService{}, false)

	w := post(t, h.Register, `{"name":"Jane Cruz","email":"jane@x.com","phone":"+639170000000","password":"Abcd123!"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "Registration successful.", body["message"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "jane@x.com", user["email"])
	assert.NotContains(t, user, "passHash")
}

func TestRegisterHandler_MissingFields(t *testing.T) {
	called := false
	h := newTestHandler(&MockAuthService{
		RegisterFunc: func(name, email, phone, password string) (domain.User, error) {
			called = true
			return domain.User{}, nil
		},
	}, false)

	for _, body := range []string{
		`{"email":"jane@x.com","phone":"+639170000000","password":"Abcd123!"}`,
		`{"name":"Jane","email":"not-an-email","phone":"+639170000000","password":"Abcd123!"}`,
		`not json`,
		``,
	} {
		w := post(t, h.Register, body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "body %q", body)
	}
	assert.False(t, called)
}

func TestRegisterHandler_Conflict(t *testing.T) {
	h := newTestHandler(&MockAuthService{
		RegisterFunc: func(name, email, phone, password string) (domain.User, error) {
			return domain.User{}, internal_errors.Conflict("Email already exists.")
		},
	}, false)

	w := post(t, h.Register, `{"name":"Jane","email":"jane@x.com","phone":"+639170000000","password":"Abcd123!"}`)

	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Email already exists.", decodeBody(t, w)["error"])
}

// --- Login ---

func TestLoginHandler_Success(t *testing.T) {
	h := newTestHandler(&MockAuthService{
		LoginFunc: func(email, password string) (domain.User, string, error) {
			return domain.User{Id: 1, Name: "Jane", Email: email, EmailVerified: true}, "jwt-token", nil
		},
	}, false)

	w := post(t, h.Login, `{"email":"jane@x.com","password":"Abcd123!"}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "jwt-token", body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, true, user["emailVerified"])
	assert.Equal(t, false, user["phoneVerified"])
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	h := newTestHandler(&MockAuthService{
		LoginFunc: func(email, password string) (domain.User, string, error) {
			return domain.User{}, "", internal_errors.InvalidCredentials()
		},
	}, false)

	w := post(t, h.Login, `{"email":"jane@x.com","password":"wrong"}`)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password.", decodeBody(t, w)["error"])
}

// --- UpdateAddress ---

func TestUpdateAddressHandler(t *testing.T) {
	var gotId domain.UserId
	var gotAddr domain.Address
	h := newTestHandler(&MockAuthService{
		UpdateAddressFunc: func(userId domain.UserId, addr domain.Address) error {
			gotId = userId
			gotAddr = addr
			return nil
		},
	}, false)

	w := post(t, h.UpdateAddress, `{"user_id":3,"fullAddress":"123 Rizal St","barangay":"Poblacion","city":"Bantay","zone":"south","latitude":17.59,"longitude":120.39}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.UserId(3), gotId)
	assert.Equal(t, "south", gotAddr.Zone)
	assert.Equal(t, float64(3), decodeBody(t, w)["user_id"])
}

func TestUpdateAddressHandler_BadZone(t *testing.T) {
	h := newTestHandler(&MockAuthService{}, false)

	w := post(t, h.UpdateAddress, `{"user_id":3,"fullAddress":"123 Rizal St","city":"Bantay","zone":"east"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// --- SendVerification ---

func TestSendVerificationHandler_HidesCodeByDefault(t *testing.T) {
	h := newTestHandler(&MockAuthService{}, false)

	w := post(t, h.SendVerification, `{"user_id":1,"type":"email"}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "email", body["type"])
	assert.NotContains(t, body, "dev_code")
}

func TestSendVerificationHandler_DevModeExposesCode(t *testing.T) {
	h := newTestHandler(&MockAuthService{}, true)

	w := post(t, h.SendVerification, `{"user_id":1,"type":"email"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "123456", decodeBody(t, w)["dev_code"])
}

func TestSendVerificationHandler_BadType(t *testing.T) {
	h := newTestHandler(&MockAuthService{}, false)

	w := post(t, h.SendVerification, `{"user_id":1,"type":"carrier-pigeon"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// --- VerifyCode ---

func TestVerifyCodeHandler(t *testing.T) {
	h := newTestHandler(&MockAuthService{}, false)

	w := post(t, h.VerifyCode, `{"user_id":1,"code":"123456","type":"phone"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Phone verified successfully.", decodeBody(t, w)["message"])
}

func TestVerifyCodeHandler_InvalidCode(t *testing.T) {
	h := newTestHandler(&MockAuthService{
		VerifyCodeFunc: func(userId domain.UserId, channel domain.Channel, code string) error {
			return internal_errors.InvalidOrExpiredCode()
		},
	}, false)

	w := post(t, h.VerifyCode, `{"user_id":1,"code":"000000","type":"email"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid or expired verification code.", decodeBody(t, w)["error"])
}

// --- Dispatch ---

func TestDispatch(t *testing.T) {
	hit := ""
	routes := map[string]http.HandlerFunc{
		"register": func(w http.ResponseWriter, r *http.Request) { hit = "register" },
		"login":    func(w http.ResponseWriter, r *http.Request) { hit = "login" },
	}
	h := Dispatch(routes)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth?action=login", nil)
	h(httptest.NewRecorder(), req)
	assert.Equal(t, "login", hit)

	req = httptest.NewRequest(http.MethodPost, "/v1/auth?action=delete-everything", nil)
	w := httptest.NewRecorder()
	h(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Endpoint not found.", decodeBody(t, w)["error"])

	req = httptest.NewRequest(http.MethodPost, "/v1/auth", nil)
	w = httptest.NewRecorder()
	h(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
