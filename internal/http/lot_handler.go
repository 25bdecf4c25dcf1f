package httpapi

import (
	"net/http"

	"parkwatch/internal/service"

	"go.uber.org/zap"
)

// LotHandler serves parking lot listings.
type LotHandler struct {
	lotService service.LotService
	logger     *zap.Logger
}

func NewLotHandler(lotService service.LotService, logger *zap.Logger) *LotHandler {
	return &LotHandler{lotService: lotService, logger: logger}
}

type listLotsResponse struct {
	Result
	Lots []*service.LotDTO `json:"lots"`
}

func (h *LotHandler) ListLots(w http.ResponseWriter, r *http.Request) {
	resp, err := h.lotService.ListLots(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listLotsResponse{Result: Ok(), Lots: resp.Lots})
}
