package board

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/easelhq/easel/internal/auth"
	mw "github.com/easelhq/easel/internal/middleware"
	"github.com/easelhq/easel/internal/typeid"
)

var ErrForbidden = errors.New("forbidden")

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

type createRequest struct {
	Name string `json:"name"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		mw.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		mw.RespondError(w, http.StatusBadRequest, "name is required")
		return
	}

	b, err := h.store.CreateBoard(r.Context(), typeid.NewBoardID(), req.Name, userID)
	if err != nil {
		slog.Error("create board failed", "error", err)
		mw.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// A fresh board starts from an empty canvas snapshot.
	if _, err := h.store.SaveSnapshot(r.Context(), typeid.NewSnapshotID(), b.ID, json.RawMessage("[]")); err != nil {
		slog.Error("seed snapshot failed", "error", err, "board", b.ID)
		mw.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	mw.RespondJSON(w, http.StatusCreated, b)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.authorizedBoard(r)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	mw.RespondJSON(w, http.StatusOK, b)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	boards, err := h.store.ListBoards(r.Context(), userID)
	if err != nil {
		slog.Error("list boards failed", "error", err)
		mw.RespondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if boards == nil {
		boards = []Board{}
	}

	mw.RespondJSON(w, http.StatusOK, boards)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	b, err := h.authorizedBoard(r)
	if err != nil {
		handleStoreError(w, err)
		return
	}

	if err := h.store.DeleteBoard(r.Context(), b.ID); err != nil {
		handleStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	b, err := h.authorizedBoard(r)
	if err != nil {
		handleStoreError(w, err)
		return
	}

	snap, err := h.store.LatestSnapshot(r.Context(), b.ID)
	if err != nil {
		handleStoreError(w, err)
		return
	}

	mw.RespondJSON(w, http.StatusOK, snap)
}

// authorizedBoard loads the routed board and checks the caller owns it.
func (h *Handler) authorizedBoard(r *http.Request) (Board, error) {
	userID := auth.UserIDFromContext(r.Context())
	boardID := mux.Vars(r)["boardId"]

	b, err := h.store.GetBoard(r.Context(), boardID)
	if err != nil {
		return Board{}, err
	}
	if b.OwnerID != userID {
		return Board{}, ErrForbidden
	}
	return b, nil
}

func handleStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		mw.RespondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, ErrForbidden):
		mw.RespondError(w, http.StatusForbidden, "forbidden")
	default:
		slog.Error("board store error", "error", err)
		mw.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}
