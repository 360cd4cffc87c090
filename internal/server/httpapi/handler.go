package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/agentdesk/internal/common"
	"github.com/dmitrijs2005/agentdesk/internal/server/services"
)

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeFieldErrors(w, []services.FieldError{{Loc: []string{"body"}, Msg: "Invalid JSON body"}})
		return false
	}
	return true
}

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := s.users.Register(ctx, services.RegisterInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			writeFieldErrors(w, verr.Fields)
		case errors.Is(err, services.ErrEmailTaken):
			writeDetail(w, http.StatusBadRequest, "Email already registered")
		case errors.Is(err, services.ErrUsernameTaken):
			writeDetail(w, http.StatusBadRequest, "Username already taken")
		case errors.Is(err, common.ErrorAlreadyExists):
			writeDetail(w, http.StatusBadRequest, "User already exists")
		default:
			s.internalError(w, r, err)
		}
		return
	}

	s.logger.Info(ctx, "Registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, newUserResponse(user))
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var missing []services.FieldError
	if req.UsernameOrEmail == "" {
		missing = append(missing, fieldRequired("body", "username_or_email"))
	}
	if req.Password == "" {
		missing = append(missing, fieldRequired("body", "password"))
	}
	if len(missing) > 0 {
		writeFieldErrors(w, missing)
		return
	}

	tokens, err := s.users.Login(r.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			unauthorized(w, "Incorrect username or password")
			return
		}
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newTokenResponse(tokens))
}

func (s *HTTPServer) refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken := r.URL.Query().Get(common.RefreshTokenParam)
	if refreshToken == "" {
		writeFieldErrors(w, []services.FieldError{fieldRequired("query", common.RefreshTokenParam)})
		return
	}

	tokens, err := s.users.RefreshToken(r.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRefreshTokenExpired):
			unauthorized(w, "Refresh token expired")
		case errors.Is(err, common.ErrorUnauthorized):
			unauthorized(w, "Invalid refresh token")
		default:
			s.internalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, newTokenResponse(tokens))
}

func (s *HTTPServer) me(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.Profile(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeDetail(w, http.StatusNotFound, "User not found")
			return
		}
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(user))
}

func (s *HTTPServer) logout(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Logout(r.Context(), userIDFromContext(r.Context())); err != nil {
		s.internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeDetail(w, http.StatusInternalServerError, "Internal server error")
}
