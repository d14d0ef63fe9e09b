package rest

import (
	"errors"
	"mime"
	"net/http"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/server/auth"
)

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// token implements the OAuth2 password grant: username is the email.
// Both form-encoded and JSON bodies are accepted.
func (s *Server) token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		if err := decodeJSON(r, &req); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid json")
			return
		}
	default:
		if err := r.ParseForm(); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "invalid form")
			return
		}
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
	}

	if req.Username == "" || req.Password == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "username and password are required")
		return
	}

	token, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeUnauthorized(w, "Incorrect email or password")
			return
		}
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: auth.TokenType})
}
