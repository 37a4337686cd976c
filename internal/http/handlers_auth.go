package http

import (
	"net/http"

	"budget/internal/log"
)

type registerResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
}

type loginResponse struct {
	Message  string `json:"message"`
	UserID   int64  `json:"userId"`
	Fullname string `json:"fullname"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(ctx, w, log.OpRegister, err)
		return
	}

	user, err := s.users.Register(ctx, req.Email, sanitizeInput(req.Fullname), req.Password)
	if err != nil {
		writeError(ctx, w, log.OpRegister, err)
		return
	}

	log.FromContext(ctx).InfoContext(ctx, "User registered", log.FieldUserID, user.ID)
	writeJSON(w, http.StatusOK, registerResponse{
		Message: "User registered successfully",
		UserID:  user.ID,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(ctx, w, log.OpLogin, err)
		return
	}

	user, err := s.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		writeError(ctx, w, log.OpLogin, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Message:  "Login successful",
		UserID:   user.ID,
		Fullname: user.Fullname,
	})
}
