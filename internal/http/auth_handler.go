package httpapi

import (
	"net/http"

	"parkwatch/internal/domain"
	"parkwatch/internal/service"
	"parkwatch/internal/store"

	"go.uber.org/zap"
)

// AuthHandler serves registration, login, logout, and the profile endpoints.
// Profile routes resolve the caller from the bearer session token.
type AuthHandler struct {
	authService service.AuthService
	sessions    store.SessionStore
	logger      *zap.Logger
}

func NewAuthHandler(authService service.AuthService, sessions store.SessionStore, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, logger: logger}
}

type registerRequest struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	Role            string `json:"role"`
	UserType        string `json:"userType"`
	UnitNumber      string `json:"unitNumber"`
	HostInformation string `json:"hostInformation"`
	Vehicle         *struct {
		Province     string `json:"province"`
		LicensePlate string `json:"licensePlate"`
		LotID        string `json:"lotId"`
	} `json:"vehicle"`
}

type registerResponse struct {
	Result
	UserID string `json:"userId"`
}

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginResponse struct {
	Result
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

type profileResponse struct {
	Result
	User *service.UserDTO `json:"user"`
}

type updateProfileRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}

	svcReq := service.RegisterRequest{
		Name:            req.Name,
		Phone:           req.Phone,
		Password:        req.Password,
		Role:            req.Role,
		UserType:        req.UserType,
		UnitNumber:      req.UnitNumber,
		HostInformation: req.HostInformation,
	}
	if req.Vehicle != nil {
		svcReq.Vehicle = &service.VehicleRegistration{
			Province:     req.Vehicle.Province,
			LicensePlate: req.Vehicle.LicensePlate,
			LotID:        req.Vehicle.LotID,
		}
	}

	resp, err := h.authService.Register(r.Context(), svcReq)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, registerResponse{Result: Ok(), UserID: resp.UserID})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}

	resp, err := h.authService.Login(r.Context(), service.LoginRequest{
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Result: Ok(),
		Token:  resp.Token,
		UserID: resp.UserID,
		Name:   resp.Name,
		Role:   resp.Role,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), bearerToken(r)); err != nil {
		h.logger.Warn("logout failed", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, Ok())
}

// sessionUser resolves the caller from the bearer token. A missing or
// expired session writes 401 and returns "".
func (h *AuthHandler) sessionUser(w http.ResponseWriter, r *http.Request) string {
	token := bearerToken(r)
	if token == "" {
		writeError(w, domain.ErrUnauthorized)
		return ""
	}
	sess, err := h.sessions.Get(r.Context(), token)
	if err != nil {
		writeError(w, domain.ErrUnauthorized)
		return ""
	}
	return sess.UserID
}

func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionUser(w, r)
	if userID == "" {
		return
	}

	user, err := h.authService.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Result: Ok(), User: user})
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionUser(w, r)
	if userID == "" {
		return
	}

	var req updateProfileRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}

	err := h.authService.UpdateProfile(r.Context(), service.UpdateProfileRequest{
		UserID:   userID,
		Name:     req.Name,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok())
}
