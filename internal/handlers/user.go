package handlers

import (
	"LostFound/internal/config"
	"LostFound/internal/middleware"
	"LostFound/internal/model"
	"LostFound/internal/service"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserHandler обрабатывает регистрацию и вход.
type UserHandler struct {
	UserService *service.UserService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewUserHandler(userService *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{UserService: userService, Logger: logger, Config: cfg}
}

type registerRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Department    string `json:"department"`
	ContactNo     string `json:"contact_no"`
	TermsAccepted bool   `json:"terms_accepted"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register регистрация пользователя
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, h.Logger, "Register", &req) {
		return
	}

	user, err := h.UserService.Register(r.Context(), service.RegisterInput{
		Name:          req.Name,
		Email:         req.Email,
		Password:      req.Password,
		Department:    req.Department,
		ContactNo:     req.ContactNo,
		TermsAccepted: req.TermsAccepted,
	})
	if err != nil {
		writeError(w, h.Logger, "Register", err)
		return
	}
	h.Logger.Infow("user registered", "user_id", user.ID, "approved", user.Approved)
	writeJSON(w, http.StatusCreated, user)
}

// Login вход; токен уходит и в cookie, и в теле ответа
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, h.Logger, "Login", &req) {
		return
	}

	user, err := h.UserService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.Logger, "Login", err)
		return
	}

	token, err := middleware.IssueLoginCookie(w, user.ID, h.Config.AuthSecret)
	if err != nil {
		h.Logger.Errorw("Login: token error", "user_id", user.ID, "error", err)
		writeMessage(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// Me возвращает текущего пользователя
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	user, err := h.UserService.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, h.Logger, "Me", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// AdminHandler — модерация учётных записей.
type AdminHandler struct {
	UserService *service.UserService
	Logger      *zap.SugaredLogger
}

func NewAdminHandler(userService *service.UserService, logger *zap.SugaredLogger) *AdminHandler {
	return &AdminHandler{UserService: userService, Logger: logger}
}

func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	userID, ok := requireUser(w, r)
	if !ok {
		return false
	}
	if _, err := h.UserService.RequireAdmin(r.Context(), userID); err != nil {
		writeError(w, h.Logger, "Admin", err)
		return false
	}
	return true
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	users, err := h.UserService.ListUsers(r.Context())
	if err != nil {
		writeError(w, h.Logger, "ListUsers", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	users, err := h.UserService.ListPending(r.Context())
	if err != nil {
		writeError(w, h.Logger, "ListPending", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// Moderate — approve | ignore | block | unblock
func (h *AdminHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var user *model.User
	switch chi.URLParam(r, "action") {
	case "approve":
		user, err = h.UserService.SetApproved(r.Context(), id, true)
	case "ignore":
		user, err = h.UserService.SetIgnored(r.Context(), id, true)
	case "block":
		user, err = h.UserService.SetBlocked(r.Context(), id, true)
	case "unblock":
		user, err = h.UserService.SetBlocked(r.Context(), id, false)
	default:
		writeMessage(w, http.StatusNotFound, "unknown action")
		return
	}
	if err != nil {
		writeError(w, h.Logger, "Moderate", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
