package handlers

import (
	"LostFound/internal/model"
	"LostFound/internal/service"
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ChatHandler — переписки и сообщения.
type ChatHandler struct {
	ChatService *service.ChatService
	Logger      *zap.SugaredLogger
}

func NewChatHandler(chatService *service.ChatService, logger *zap.SugaredLogger) *ChatHandler {
	return &ChatHandler{ChatService: chatService, Logger: logger}
}

type startRequest struct {
	ItemID     string `json:"item_id"`
	OtherEmail string `json:"other_email"`
}

type sendRequest struct {
	Content string `json:"content"`
}

func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	convs, err := h.ChatService.ListConversations(r.Context(), userID)
	if err != nil {
		writeError(w, h.Logger, "ListConversations", err)
		return
	}
	writeJSON(w, http.StatusOK, convs)
}

// Start открывает переписку или возвращает существующую
func (h *ChatHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req startRequest
	if !decodeJSON(w, r, h.Logger, "StartConversation", &req) {
		return
	}
	conv, err := h.ChatService.StartConversation(r.Context(), req.ItemID, userID, req.OtherEmail)
	if err != nil {
		writeError(w, h.Logger, "StartConversation", err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	msgs, err := h.ChatService.ListMessages(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, h.Logger, "ListMessages", err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req sendRequest
	if !decodeJSON(w, r, h.Logger, "SendMessage", &req) {
		return
	}
	msg, err := h.ChatService.SendMessage(r.Context(), chi.URLParam(r, "id"), userID, req.Content)
	if err != nil {
		writeError(w, h.Logger, "SendMessage", err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	n, err := h.ChatService.MarkRead(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, h.Logger, "MarkRead", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"marked": n})
}

func (h *ChatHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Approve", h.ChatService.ApproveConversation)
}

func (h *ChatHandler) Block(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Block", h.ChatService.BlockInConversation)
}

func (h *ChatHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "Unblock", h.ChatService.UnblockInConversation)
}

func (h *ChatHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op string,
	fn func(ctx context.Context, convID string, callerID int64) (*model.Conversation, error),
) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	conv, err := fn(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, h.Logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}
