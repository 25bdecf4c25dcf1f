package httpapi

import (
	"net/http"

	"parkwatch/internal/service"

	"go.uber.org/zap"
)

// PassHandler serves visitor pass issuance, listing, and quota.
type PassHandler struct {
	passService service.PassService
	logger      *zap.Logger
}

func NewPassHandler(passService service.PassService, logger *zap.Logger) *PassHandler {
	return &PassHandler{passService: passService, logger: logger}
}

type issuePassRequest struct {
	UserID       string `json:"userId"`
	Hours        int    `json:"hours"`
	VisitorPlate string `json:"visitorPlate"`
}

type issuePassResponse struct {
	Result
	Pass *service.PassDTO `json:"visitorPass"`
}

type listPassesResponse struct {
	Result
	Passes []*service.PassDTO `json:"visitorPasses"`
}

type quotaResponse struct {
	Result
	Quota []service.TierQuotaDTO `json:"quota"`
}

func (h *PassHandler) IssuePass(w http.ResponseWriter, r *http.Request) {
	var req issuePassRequest
	if err := readBodyJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid request body"))
		return
	}

	resp, err := h.passService.IssuePass(r.Context(), service.IssuePassRequest{
		UserID:       req.UserID,
		Hours:        req.Hours,
		VisitorPlate: req.VisitorPlate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, issuePassResponse{Result: Ok(), Pass: resp.Pass})
}

func (h *PassHandler) ListUserPasses(w http.ResponseWriter, r *http.Request, userID string) {
	resp, err := h.passService.ListUserPasses(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listPassesResponse{Result: Ok(), Passes: resp.Passes})
}

func (h *PassHandler) GetQuota(w http.ResponseWriter, r *http.Request, userID string) {
	resp, err := h.passService.GetQuota(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quotaResponse{Result: Ok(), Quota: resp.Quota})
}
