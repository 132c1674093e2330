package handlers

import (
	"LostFound/internal/middleware"
	"LostFound/internal/service"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

type errorBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Message: msg})
}

// writeError переводит ошибку сервиса в HTTP-ответ. Неизвестные ошибки логируются и отдаются как 500.
func writeError(w http.ResponseWriter, logger *zap.SugaredLogger, op string, err error) {
	var fe *service.ForbiddenError
	switch {
	case errors.As(err, &fe):
		writeMessage(w, http.StatusForbidden, fe.Error())
	case errors.Is(err, service.ErrForbidden):
		writeMessage(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		writeMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, err.Error())
	default:
		logger.Errorw(op+": service error", "error", err)
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}

// requireUser достаёт user_id из контекста или отвечает 401.
func requireUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return 0, false
	}
	return userID, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, logger *zap.SugaredLogger, op string, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.Warnw(op+": invalid request body", "error", err)
		writeMessage(w, http.StatusBadRequest, "invalid request")
		return false
	}
	return true
}
