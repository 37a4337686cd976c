package http

import (
	"net/http"

	"budget/internal/core"
	"budget/internal/log"
)

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email, err := userEmailParam(r)
	if err != nil {
		writeError(ctx, w, log.OpCreate, err)
		return
	}

	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(ctx, w, log.OpCreate, err)
		return
	}
	draft, err := req.draft()
	if err != nil {
		writeError(ctx, w, log.OpCreate, err)
		return
	}

	tx, err := s.transactions.AddTransaction(ctx, draft, email)
	if err != nil {
		writeError(ctx, w, log.OpCreate, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email, err := userEmailParam(r)
	if err != nil {
		writeError(ctx, w, log.OpList, err)
		return
	}

	txs, err := s.transactions.ListAll(ctx, email)
	if err != nil {
		writeError(ctx, w, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(txs))
}

func (s *Server) handleListByDateRange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email, err := userEmailParam(r)
	if err != nil {
		writeError(ctx, w, log.OpList, err)
		return
	}
	start, err := dateParam(r, "startDate")
	if err != nil {
		writeError(ctx, w, log.OpList, err)
		return
	}
	end, err := dateParam(r, "endDate")
	if err != nil {
		writeError(ctx, w, log.OpList, err)
		return
	}

	txs, err := s.transactions.ListByDateRange(ctx, email, start, end)
	if err != nil {
		writeError(ctx, w, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(txs))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email, err := userEmailParam(r)
	if err != nil {
		writeError(ctx, w, log.OpSummarize, err)
		return
	}

	summary, err := s.transactions.GetDashboardSummary(ctx, email)
	if err != nil {
		writeError(ctx, w, log.OpSummarize, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email, err := userEmailParam(r)
	if err != nil {
		writeError(ctx, w, log.OpDelete, err)
		return
	}
	id, err := idParam(r)
	if err != nil {
		writeError(ctx, w, log.OpDelete, err)
		return
	}

	if err := s.transactions.DeleteTransaction(ctx, id, email); err != nil {
		writeError(ctx, w, log.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil(txs []core.Transaction) []core.Transaction {
	if txs == nil {
		return []core.Transaction{}
	}
	return txs
}
