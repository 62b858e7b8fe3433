package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/moviechain/moviechain/internal/errors"
	"github.com/moviechain/moviechain/internal/modules/gamemodule"
)

// Handler provides HTTP handlers for the game's presentation boundary:
// suggestion search, session state, and turn submission. The
// interactive UI itself is an external collaborator.
type Handler struct {
	service *gamemodule.Service
}

// NewHandler creates a new API handler
func NewHandler(service *gamemodule.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the game API routes
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/movies/search", h.SearchMovies)
		api.GET("/movies/:id", h.GetMovie)
		api.GET("/genres", h.GetGenres)

		game := api.Group("/game")
		{
			game.POST("/sessions", h.CreateSession)
			game.GET("/sessions/:id", h.GetSession)
			game.POST("/sessions/:id/turns", h.SubmitTurn)
		}
	}
}

// SearchMovies handles GET /api/movies/search?q=
func (h *Handler) SearchMovies(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		errors.HandleValidationError(c, "Missing search query", "q")
		return
	}

	results := h.service.SearchMoviesByPrefix(c.Request.Context(), query)
	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"results": results,
	})
}

// GetMovie handles GET /api/movies/:id
func (h *Handler) GetMovie(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleValidationError(c, "Invalid movie id", "id")
		return
	}

	movie := h.service.GetMovieByID(c.Request.Context(), id)
	if movie == nil {
		errors.HandleNotFound(c, "movie", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, movie)
}

// GetGenres handles GET /api/genres
func (h *Handler) GetGenres(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"genres": h.service.Genres().AllGenres(),
	})
}

type createSessionRequest struct {
	Player1Name string `json:"player1_name" binding:"required"`
	Player2Name string `json:"player2_name" binding:"required"`
}

// CreateSession handles POST /api/game/sessions
func (h *Handler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleValidationError(c, "Both player names are required", "player1_name")
		return
	}

	session, err := h.service.CreateSession(c.Request.Context(), req.Player1Name, req.Player2Name)
	if err != nil {
		errors.HandleInternalError(c, "Failed to create session", err)
		return
	}

	c.JSON(http.StatusCreated, h.sessionState(session))
}

// GetSession handles GET /api/game/sessions/:id
func (h *Handler) GetSession(c *gin.Context) {
	session, ok := h.service.GetSession(c.Param("id"))
	if !ok {
		errors.HandleNotFound(c, "session", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, h.sessionState(session))
}

type submitTurnRequest struct {
	Title string `json:"title" binding:"required"`
}

// SubmitTurn handles POST /api/game/sessions/:id/turns. The selected
// title string is resolved back to a movie via prefix search before the
// turn transition runs. All rejections are non-fatal: the turn is
// re-promptable and the session state is unchanged.
func (h *Handler) SubmitTurn(c *gin.Context) {
	session, ok := h.service.GetSession(c.Param("id"))
	if !ok {
		errors.HandleNotFound(c, "session", c.Param("id"))
		return
	}

	var req submitTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.HandleValidationError(c, "A movie title is required", "title")
		return
	}

	ctx := c.Request.Context()
	movie := h.service.ResolveTitle(ctx, req.Title)
	if movie == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"accepted": false,
			"reason":   "movie_not_found",
		})
		return
	}

	result := h.service.SubmitTurn(ctx, session, movie)
	status := http.StatusOK
	if !result.Accepted {
		status = http.StatusUnprocessableEntity
	}

	c.JSON(status, gin.H{
		"result":  result,
		"session": h.sessionState(session),
	})
}

// sessionState renders the session fields the presentation layer
// observes: current movie, players and progress, and recent history.
func (h *Handler) sessionState(session *gamemodule.GameSession) gin.H {
	player1, player2 := session.PlayerNames()
	return gin.H{
		"id":             session.ID(),
		"current_movie":  session.CurrentMovie(),
		"current_step":   session.CurrentStep(),
		"in_setup_phase": session.InSetupPhase(),
		"current_player": session.CurrentPlayerName(),
		"won":            session.HasWon(),
		"players": []gin.H{
			{"name": player1, "win_condition": session.Player1WinCondition()},
			{"name": player2, "win_condition": session.Player2WinCondition()},
		},
		"recent_history": session.RecentHistory(),
	}
}
