package handler

import (
	"net/http"

	"github.com/mdrrmo/bantay-api/internal/domain"
	internal_errors "github.com/mdrrmo/bantay-api/internal/errors"
	"github.com/mdrrmo/bantay-api/internal/middleware"
	"github.com/mdrrmo/bantay-api/internal/utils"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateAddressRequest struct {
	UserId      domain.UserId `json:"user_id" validate:"required"`
	FullAddress string        `json:"fullAddress" validate:"required"`
	Barangay    string        `json:"barangay"`
	City        string        `json:"city" validate:"required"`
	Zone        string        `json:"zone" validate:"required,oneof=north south"`
	Latitude    float64       `json:"latitude"`
	Longitude   float64       `json:"longitude"`
}

type sendVerificationRequest struct {
	UserId domain.UserId `json:"user_id" validate:"required"`
	Type   string        `json:"type" validate:"required,oneof=email phone"`
	Email  string        `json:"email"`
	Phone  string        `json:"phone"`
	Name   string        `json:"name"`
}

type verifyCodeRequest struct {
	UserId domain.UserId `json:"user_id" validate:"required"`
	Code   string        `json:"code" validate:"required"`
	Type   string        `json:"type" validate:"required,oneof=email phone"`
}

type userSummary struct {
	Id    domain.UserId `json:"id"`
	Name  string        `json:"name"`
	Email string        `json:"email"`
	Phone string        `json:"phone"`
}

type userProfile struct {
	Id            domain.UserId `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	EmailVerified bool          `json:"emailVerified"`
	Phone         string        `json:"phone"`
	PhoneVerified bool          `json:"phoneVerified"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	user, err := h.auth.Register(req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]any{
		"id":      user.Id,
		"message": "Registration successful.",
		"user":    userSummary{user.Id, user.Name, user.Email, user.Phone},
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	user, token, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful.",
		"token":   token,
		"user": userProfile{
			Id:            user.Id,
			Name:          user.Name,
			Email:         user.Email,
			EmailVerified: user.EmailVerified,
			Phone:         user.Phone,
			PhoneVerified: user.PhoneVerified,
		},
	})
}

func (h *Handler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	var req updateAddressRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	addr := domain.Address{
		FullAddress: req.FullAddress,
		Barangay:    req.Barangay,
		City:        req.City,
		Zone:        req.Zone,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}
	if err := h.auth.UpdateAddress(req.UserId, addr); err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Address updated successfully.",
		"user_id": req.UserId,
	})
}

func (h *Handler) SendVerification(w http.ResponseWriter, r *http.Request) {
	var req sendVerificationRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	channel, ok := domain.ParseChannel(req.Type)
	if !ok {
		utils.WriteError(w, internal_errors.Validation("Invalid input data."))
		return
	}
	destination := req.Email
	if channel == domain.ChannelPhone {
		destination = req.Phone
	}

	code, err := h.auth.SendVerification(req.UserId, channel, destination, req.Name)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	resp := map[string]any{
		"message": "Verification code sent.",
		"type":    req.Type,
	}
	// Testing aid for local builds only. DevMode defaults to off and the
	// production config must never enable it.
	if h.cfg.Public.DevMode {
		resp["dev_code"] = code
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req verifyCodeRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteError(w, err)
		return
	}

	channel, ok := domain.ParseChannel(req.Type)
	if !ok {
		utils.WriteError(w, internal_errors.Validation("Invalid input data."))
		return
	}

	if err := h.auth.VerifyCode(req.UserId, channel, req.Code); err != nil {
		utils.WriteError(w, err)
		return
	}

	message := "Email verified successfully."
	if channel == domain.ChannelPhone {
		message = "Phone verified successfully."
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"message": message,
		"type":    req.Type,
	})
}

// Me returns the authenticated user's profile with address fields.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userId, ok := middleware.UserIdFromContext(r)
	if !ok {
		utils.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "Please sign in."})
		return
	}

	user, err := h.auth.Profile(userId)
	if err != nil {
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"user": userProfile{
			Id:            user.Id,
			Name:          user.Name,
			Email:         user.Email,
			EmailVerified: user.EmailVerified,
			Phone:         user.Phone,
			PhoneVerified: user.PhoneVerified,
		},
		"address": user.Address,
	})
}
