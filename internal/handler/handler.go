package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dkempf/fintrack/internal/apperr"
	"github.com/dkempf/fintrack/internal/middleware"
	"github.com/dkempf/fintrack/internal/models"
	"github.com/dkempf/fintrack/internal/service"
	"github.com/dkempf/fintrack/internal/token"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("Failed to encode response: %v", err)
	}
}

// writeError maps an application error onto its HTTP status. Internal
// causes are logged, never exposed.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal(err)
	}

	status := http.StatusInternalServerError
	switch appErr.Kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindAuthentication:
		status = http.StatusUnauthorized
	case apperr.KindAuthorization:
		status = http.StatusForbidden
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusConflict
	}
	if appErr.Kind == apperr.KindInternal {
		h.log.Errorf("Internal error: %v", appErr.Err)
	}
	h.writeJSON(w, status, errorResponse{Error: appErr.Message, Fields: appErr.Fields})
}

func (h *Handler) claims(w http.ResponseWriter, r *http.Request) (*token.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		h.writeError(w, apperr.Authentication("authentication required"))
		return nil, false
	}
	return claims, true
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperr.Validation(map[string]string{"body": "must be valid JSON"}))
		return
	}

	user, err := h.svc.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperr.Validation(map[string]string{"body": "must be valid JSON"}))
		return
	}

	result, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":      result.User,
		"token":     result.Token,
		"expiresIn": result.ExpiresIn,
	})
}

// Me returns the authenticated user
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}
	user, err := h.svc.Me(r.Context(), claims)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, user)
}

// CreateAccount handles account creation
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperr.Validation(map[string]string{"body": "must be valid JSON"}))
		return
	}

	account, err := h.svc.CreateAccount(r.Context(), claims, req.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, account)
}

// CreateTransaction handles transaction creation
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}
	var in service.CreateTransactionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, apperr.Validation(map[string]string{"body": "must be valid JSON"}))
		return
	}

	tx, err := h.svc.CreateTransaction(r.Context(), claims, &in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, tx)
}

// ListTransactions returns the named user's transactions (self or admin)
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(w, r)
	if !ok {
		return
	}
	username := mux.Vars(r)["username"]

	txs, err := h.svc.ListTransactionsForUser(r.Context(), claims, username)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	h.writeJSON(w, http.StatusOK, txs)
}

// ListCategories returns the fixed category set
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, models.Categories)
}

// ListPaymentMethods returns the fixed payment method set
func (h *Handler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, models.PaymentMethods)
}
