package handlers

import (
	"LostFound/internal/model"
	"LostFound/internal/repo"
	"LostFound/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ItemHandler обрабатывает заявки, совпадения и статистику.
type ItemHandler struct {
	ItemService *service.ItemService
	Logger      *zap.SugaredLogger
}

// NewItemHandler создаёт хендлер items
func NewItemHandler(itemService *service.ItemService, logger *zap.SugaredLogger) *ItemHandler {
	return &ItemHandler{ItemService: itemService, Logger: logger}
}

type itemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Tags        string `json:"tags"`
	Location    string `json:"location"`
	Color       string `json:"color"`
	ImageURL    string `json:"image_url"`
}

type itemPatchRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Tags        *string `json:"tags"`
	Location    *string `json:"location"`
	Color       *string `json:"color"`
	ImageURL    *string `json:"image_url"`
	Status      *string `json:"status"`
	Matched     *bool   `json:"matched"`
	Flagged     *bool   `json:"flagged"`
}

func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.ItemService.List(r.Context(), repo.ItemFilter{
		Type:     model.ItemType(q.Get("type")),
		Category: q.Get("category"),
		Location: q.Get("location"),
	})
	if err != nil {
		writeError(w, h.Logger, "ListItems", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req itemRequest
	if !decodeJSON(w, r, h.Logger, "CreateItem", &req) {
		return
	}
	it, err := h.ItemService.Create(r.Context(), userID, service.ItemInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        model.ItemType(req.Type),
		Category:    req.Category,
		Tags:        req.Tags,
		Location:    req.Location,
		Color:       req.Color,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		writeError(w, h.Logger, "CreateItem", err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	it, err := h.ItemService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "GetItem", err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req itemPatchRequest
	if !decodeJSON(w, r, h.Logger, "UpdateItem", &req) {
		return
	}
	patch := service.ItemPatch{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		Location:    req.Location,
		Color:       req.Color,
		ImageURL:    req.ImageURL,
		Matched:     req.Matched,
		Flagged:     req.Flagged,
	}
	if req.Status != nil {
		st := model.ItemStatus(*req.Status)
		patch.Status = &st
	}
	it, err := h.ItemService.Update(r.Context(), chi.URLParam(r, "id"), userID, patch)
	if err != nil {
		writeError(w, h.Logger, "UpdateItem", err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := h.ItemService.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		writeError(w, h.Logger, "DeleteItem", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Matches — ранжированные кандидаты противоположного вида
func (h *ItemHandler) Matches(w http.ResponseWriter, r *http.Request) {
	matches, err := h.ItemService.FindMatches(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "Matches", err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

func (h *ItemHandler) Flag(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	it, err := h.ItemService.Flag(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, h.Logger, "Flag", err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *ItemHandler) Unflag(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	it, err := h.ItemService.Unflag(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, h.Logger, "Unflag", err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *ItemHandler) ListFlagged(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	items, err := h.ItemService.ListFlagged(r.Context(), userID)
	if err != nil {
		writeError(w, h.Logger, "ListFlagged", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.ItemService.Summary(r.Context())
	if err != nil {
		writeError(w, h.Logger, "Summary", err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *ItemHandler) UserSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	sum, err := h.ItemService.UserSummary(r.Context(), userID)
	if err != nil {
		writeError(w, h.Logger, "UserSummary", err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
