package fakeapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/tiernerd/internal/client/models"
	"github.com/dmitrijs2005/tiernerd/internal/common"
	"github.com/dmitrijs2005/tiernerd/internal/cryptox"
	"github.com/dmitrijs2005/tiernerd/internal/fakeapi/auth"
	"github.com/gorilla/mux"
)

const (
	msgUserExists    = "A user with this email already exists"
	msgBadLogin      = "Incorrect email or password"
	msgListExists    = "A list with this title already exists"
	msgListNotFound  = "List not found"
	msgItemNotFound  = "Item not found or does not belong to current user"
	msgInternalError = "Internal Server Error"

	loginFormUsername = "username"
	loginFormPassword = "password"
)

type registerBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Username string `json:"username" validate:"omitempty,min=3,max=50"`
}

type createListQuery struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type createItemBody struct {
	Name        string `json:"name" validate:"required,max=100"`
	TierSet     string `json:"tier_set" validate:"required,oneof=good mid bad"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url" validate:"omitempty,http_url"`
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var body registerBody
	if !decodeBody(w, r, &body) {
		return
	}
	body.Email = strings.TrimSpace(body.Email)
	body.Username = strings.TrimSpace(body.Username)
	if err := s.validate.Struct(body); err != nil {
		writeIssues(w, validationIssues(err, "body")...)
		return
	}

	hash, err := cryptox.HashPasswordWith(body.Password, s.hashParams)
	if err != nil {
		s.logger.Error(r.Context(), "hash password", "error", err)
		writeDetail(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	u, err := s.store.CreateUser(body.Email, body.Username, hash)
	if errors.Is(err, common.ErrorAlreadyExists) {
		writeDetail(w, http.StatusConflict, msgUserExists)
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	s.logger.Info(r.Context(), "user registered", "user_id", u.UserID)
	writeJSON(w, http.StatusCreated, u)
}

// token is the OAuth2 password flow: form fields username (the email) and
// password.
func (s *Server) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeIssues(w, fieldIssue{Loc: []string{"body"}, Msg: "Invalid form body", Type: "value_error"})
		return
	}
	email := strings.TrimSpace(r.PostForm.Get(loginFormUsername))
	password := r.PostForm.Get(loginFormPassword)

	var issues []fieldIssue
	if email == "" {
		issues = append(issues, missing("body", loginFormUsername))
	}
	if password == "" {
		issues = append(issues, missing("body", loginFormPassword))
	}
	if len(issues) > 0 {
		writeIssues(w, issues...)
		return
	}

	u, hash, err := s.store.UserByEmail(email)
	if err != nil {
		hash = s.dummyHash
	}
	ok, verr := cryptox.VerifyPassword(hash, password)
	if err != nil || verr != nil || !ok {
		unauthorized(w, msgBadLogin)
		return
	}

	tok, err := auth.GenerateToken(u.UserID.String(), u.Email, s.jwtSecret, s.tokenTTL)
	if err != nil {
		s.logger.Error(r.Context(), "generate token", "error", err)
		writeDetail(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	writeJSON(w, http.StatusOK, models.Token{AccessToken: tok, TokenType: common.TokenTypeBearer})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	u, err := s.store.UserByID(userIDFrom(r.Context()))
	if err != nil {
		unauthorized(w, msgBadCredentials)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) getLists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Lists(userIDFrom(r.Context())))
}

func (s *Server) createList(w http.ResponseWriter, r *http.Request) {
	q := createListQuery{
		Name:        strings.TrimSpace(r.URL.Query().Get("name")),
		Description: strings.TrimSpace(r.URL.Query().Get("description")),
	}
	if err := s.validate.Struct(q); err != nil {
		writeIssues(w, validationIssues(err, "query")...)
		return
	}

	l, err := s.store.CreateList(userIDFrom(r.Context()), q.Name, optional(q.Description))
	if errors.Is(err, common.ErrorAlreadyExists) {
		writeDetail(w, http.StatusConflict, msgListExists)
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (s *Server) deleteList(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	if err := s.store.DeleteList(userIDFrom(r.Context()), id); err != nil {
		writeDetail(w, http.StatusNotFound, msgListNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])
	items, err := s.store.Items(userIDFrom(r.Context()), id)
	if err != nil {
		writeDetail(w, http.StatusNotFound, msgListNotFound)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	listTitle := strings.TrimSpace(r.URL.Query().Get("list_title"))
	if listTitle == "" {
		writeIssues(w, missing("query", "list_title"))
		return
	}

	var body createItemBody
	if !decodeBody(w, r, &body) {
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if err := s.validate.Struct(body); err != nil {
		writeIssues(w, validationIssues(err, "body")...)
		return
	}

	res, err := s.store.CreateItem(userIDFrom(r.Context()), listTitle, models.CreateItemRequest{
		Name:        body.Name,
		TierSet:     models.TierSet(body.TierSet),
		Description: strings.TrimSpace(body.Description),
		ImageURL:    body.ImageURL,
	})
	if err != nil {
		writeDetail(w, http.StatusNotFound, msgListNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	id := models.ID(mux.Vars(r)["id"])

	var req models.UpdateItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := s.validate.Var(name, "required,max=100"); err != nil {
			issues := validationIssues(err, "body")
			for i := range issues {
				issues[i].Loc = []string{"body", "name"}
			}
			writeIssues(w, issues...)
			return
		}
		req.Name = &name
	}

	it, err := s.store.UpdateItem(userIDFrom(r.Context()), id, req)
	if err != nil {
		writeDetail(w, http.StatusNotFound, msgItemNotFound)
		return
	}
	writeJSON(w, http.StatusOK, it)
}
