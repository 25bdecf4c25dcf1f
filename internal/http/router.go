package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Router wraps the standard library http.ServeMux.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func requireMethod(method string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h(w, req)
	}
}

// RegisterPassRoutes registers visitor pass endpoints.
func (r *Router) RegisterPassRoutes(h *PassHandler) {
	r.Handle("/visitorPasses", requireMethod(http.MethodPost, h.IssuePass))

	r.Handle("/visitorPasses/user/", requireMethod(http.MethodGet, func(w http.ResponseWriter, req *http.Request) {
		userID := pathTail(req.URL.Path, "/visitorPasses/user/")
		if userID == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.ListUserPasses(w, req, userID)
	}))

	r.Handle("/visitorPasses/quota/", requireMethod(http.MethodGet, func(w http.ResponseWriter, req *http.Request) {
		userID := pathTail(req.URL.Path, "/visitorPasses/quota/")
		if userID == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.GetQuota(w, req, userID)
	}))
}

// RegisterVerifyRoutes registers the plate verification endpoint.
func (r *Router) RegisterVerifyRoutes(h *VerifyHandler) {
	r.Handle("/verify-vehicle", requireMethod(http.MethodGet, h.VerifyPlate))
}

// RegisterViolationRoutes registers ticket endpoints. The trailing-slash
// pattern serves both the per-user listing and the status update.
func (r *Router) RegisterViolationRoutes(h *ViolationHandler) {
	r.Handle("/violations", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodPost:
			h.CreateViolation(w, req)
		case http.MethodGet:
			h.ListViolations(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	r.Handle("/violations/", func(w http.ResponseWriter, req *http.Request) {
		path := strings.TrimPrefix(req.URL.Path, "/violations/")

		if userID := strings.TrimPrefix(path, "user/"); userID != path {
			if req.Method != http.MethodGet || userID == "" || strings.Contains(userID, "/") {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			h.ListUserViolations(w, req, userID)
			return
		}

		if ticketID := strings.TrimSuffix(path, "/status"); ticketID != path {
			if req.Method != http.MethodPut || ticketID == "" || strings.Contains(ticketID, "/") {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			h.UpdateStatus(w, req, ticketID)
			return
		}

		w.WriteHeader(http.StatusNotFound)
	})
}

// RegisterPaymentRoutes registers payment endpoints.
func (r *Router) RegisterPaymentRoutes(h *PaymentHandler) {
	r.Handle("/payments", requireMethod(http.MethodPost, h.RecordPayment))

	r.Handle("/payments/user/", requireMethod(http.MethodGet, func(w http.ResponseWriter, req *http.Request) {
		userID := pathTail(req.URL.Path, "/payments/user/")
		if userID == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.ListUserPayments(w, req, userID)
	}))
}

// RegisterAuthRoutes registers account and profile endpoints.
func (r *Router) RegisterAuthRoutes(h *AuthHandler) {
	r.Handle("/auth/register", requireMethod(http.MethodPost, h.Register))
	r.Handle("/auth/login", requireMethod(http.MethodPost, h.Login))
	r.Handle("/auth/logout", requireMethod(http.MethodPost, h.Logout))

	r.Handle("/users/profile", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodGet:
			h.GetProfile(w, req)
		case http.MethodPut:
			h.UpdateProfile(w, req)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

// RegisterLotRoutes registers parking lot endpoints.
func (r *Router) RegisterLotRoutes(h *LotHandler) {
	r.Handle("/lots", requireMethod(http.MethodGet, h.ListLots))
}

// RegisterReportRoutes registers admin report exports.
func (r *Router) RegisterReportRoutes(h *ReportHandler) {
	r.Handle("/reports/violations/export", requireMethod(http.MethodGet, h.ExportViolations))
}
