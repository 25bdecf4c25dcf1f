package httpapi

import (
	"net/http"

	"parkwatch/internal/service"

	"go.uber.org/zap"
)

// VerifyHandler serves license plate verification for enforcement clients.
type VerifyHandler struct {
	verifyService service.VerifyService
	logger        *zap.Logger
}

func NewVerifyHandler(verifyService service.VerifyService, logger *zap.Logger) *VerifyHandler {
	return &VerifyHandler{verifyService: verifyService, logger: logger}
}

type verifyResponse struct {
	Result
	Valid   bool                `json:"valid"`
	Reason  string              `json:"reason,omitempty"`
	Vehicle *service.VehicleDTO `json:"vehicle,omitempty"`
}

func (h *VerifyHandler) VerifyPlate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.verifyService.VerifyPlate(r.Context(), service.VerifyPlateRequest{
		Plate:  q.Get("plate"),
		Region: q.Get("region"),
		LotID:  q.Get("lotId"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{
		Result:  Ok(),
		Valid:   resp.Valid,
		Reason:  resp.Reason,
		Vehicle: resp.Vehicle,
	})
}
