package http

import (
	"net/http"

	"budget/internal/core"
	"budget/internal/log"
)

func (s *Server) handleListActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	email, err := userEmailParam(r)
	if err != nil {
		writeError(ctx, w, log.OpList, err)
		return
	}
	limit, err := limitParam(r)
	if err != nil {
		writeError(ctx, w, log.OpList, err)
		return
	}

	user, found, err := s.directory.FindUserByEmail(ctx, core.NormalizeEmail(email))
	if err != nil {
		writeError(ctx, w, log.OpList, err)
		return
	}
	if !found {
		writeError(ctx, w, log.OpList, core.ErrUserNotFound)
		return
	}

	entries, err := s.activity.ListActivity(ctx, user.ID, limit)
	if err != nil {
		writeError(ctx, w, log.OpList, err)
		return
	}
	if entries == nil {
		entries = []core.Activity{}
	}
	writeJSON(w, http.StatusOK, entries)
}
