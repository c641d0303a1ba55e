package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"

	"github.com/simplextcg/duel-services/internal/gamesvc/service"
)

type Handler struct {
	tokenAuth   *jwtauth.JWTAuth
	gameService *service.GameService
	initService *service.InitService
}

func NewHandler(gameService *service.GameService, initService *service.InitService) *Handler {
	return &Handler{
		gameService: gameService,
		initService: initService,
	}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)

	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

// CreateGameHandler registers a new game against an opponent. The creator's
// identity comes from the verified JWT, never from the payload.
func (h *Handler) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := h.callerUserID(w, r)
	if !ok {
		return
	}

	var req struct {
		OpponentUserID string `json:"opponent_user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: "invalid request body"})
		return
	}

	gameID, err := h.gameService.CreateGame(r.Context(), creatorID, req.OpponentUserID)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.CreateResponse(w, Response{
		Message: "Game created successfully!",
		Code:    http.StatusOK,
		Data:    map[string]string{"game_id": gameID},
	})
}

// InitializeGameStateHandler runs the full initialization protocol for a
// lobby game: deck composition, high-card draw, opening hands, turn commit.
func (h *Handler) InitializeGameStateHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.callerUserID(w, r); !ok {
		return
	}

	gameID := chi.URLParam(r, "gameID")

	firstPlayerUserID, err := h.initService.InitializeGame(r.Context(), gameID)
	if err != nil {
		h.serviceError(w, err)
		return
	}

	h.CreateResponse(w, Response{
		Message: "Game initialized successfully! First player: " + firstPlayerUserID,
		Code:    http.StatusOK,
		Data:    map[string]string{"game_id": gameID, "first_player_user_id": firstPlayerUserID},
	})
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	rsp := Response{
		Message: "game service is running at port " + os.Getenv("GAME_SERVICE_PORT"),
		Code:    200,
	}
	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode health response: %v", err)
	}
}

// callerUserID resolves the authenticated caller from the JWT claims.
func (h *Handler) callerUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: "authentication required"})
		return "", false
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: "authentication required"})
		return "", false
	}

	return userID, true
}

// serviceError maps the service error taxonomy onto HTTP statuses: validation
// and state errors are 4xx, unknown games 404, everything else 500.
func (h *Handler) serviceError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, service.ErrGameNotFound):
		code = http.StatusNotFound
	case errors.Is(err, service.ErrOpponentRequired),
		errors.Is(err, service.ErrSelfPlayNotAllowed),
		errors.Is(err, service.ErrOpponentNotFound),
		errors.Is(err, service.ErrInvalidGameState),
		errors.Is(err, service.ErrPlayerCountInvalid),
		errors.Is(err, service.ErrInsufficientCards),
		errors.Is(err, service.ErrDeckExhausted):
		code = http.StatusBadRequest
	}

	if code == http.StatusInternalServerError {
		log.Errorf("request failed: %v", err)
	}

	h.CreateResponse(w, Response{Code: code, Error: err.Error()})
}
