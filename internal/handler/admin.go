package handler

import (
	"net/http"

	"github.com/dkempf/fintrack/internal/models"
)

// Admin listing endpoints. Routing puts these behind the admin gate.

// AdminListUsers returns every registered user
func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	h.writeJSON(w, http.StatusOK, users)
}

// AdminListAccounts returns every account
func (h *Handler) AdminListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.ListAccounts(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	h.writeJSON(w, http.StatusOK, accounts)
}

// AdminListTransactions returns every transaction in the system
func (h *Handler) AdminListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.ListAllTransactions(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	h.writeJSON(w, http.StatusOK, txs)
}
