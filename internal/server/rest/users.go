package rest

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/dmitrijs2005/gophnotes/internal/server/auth"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
)

const userNotFound = "User not found"

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req createUserRequest) validate() error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("name is required")
	}
	if err := validateEmail(req.Email); err != nil {
		return err
	}
	if req.Password == "" {
		return errors.New("password is required")
	}
	return validatePasswordLength(req.Password)
}

func validateUpdate(upd models.UserUpdate) error {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return errors.New("name must not be empty")
	}
	if upd.Email != nil {
		if err := validateEmail(*upd.Email); err != nil {
			return err
		}
	}
	if upd.Password != nil {
		if *upd.Password == "" {
			return errors.New("password must not be empty")
		}
		return validatePasswordLength(*upd.Password)
	}
	return nil
}

func validatePasswordLength(password string) error {
	if len(password) > auth.MaxPasswordBytes {
		return fmt.Errorf("password must be at most %d bytes", auth.MaxPasswordBytes)
	}
	return nil
}

// validateEmail accepts a bare address only, without a display name.
func validateEmail(email string) error {
	a, err := mail.ParseAddress(email)
	if err != nil || a.Address != email {
		return errors.New("email is not a valid address")
	}
	return nil
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid json")
		return
	}
	if err := req.validate(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	u, err := s.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err, userNotFound)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid id")
		return
	}

	u, err := s.users.GetUser(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, userNotFound)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid id")
		return
	}

	var upd models.UserUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid json")
		return
	}
	if err := validateUpdate(upd); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	u, err := s.users.UpdateUser(r.Context(), id, upd)
	if err != nil {
		s.writeError(w, r, err, userNotFound)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid id")
		return
	}

	u, err := s.users.DeleteUser(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, userNotFound)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
