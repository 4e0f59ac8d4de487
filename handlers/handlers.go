package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"metro-rent-assistant/apperrors"
	"metro-rent-assistant/models"
	"metro-rent-assistant/services"
	"metro-rent-assistant/utils"
)

// Handler serves the chat and query endpoints.
type Handler struct {
	assistant *services.Assistant
	store     *services.DatasetStore
	insights  *services.InsightService
	logger    *utils.Logger
}

func NewHandler(assistant *services.Assistant, store *services.DatasetStore, insights *services.InsightService, logger *utils.Logger) *Handler {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Handler{assistant: assistant, store: store, insights: insights, logger: logger}
}

type chatRequest struct {
	Message string            `json:"message"`
	History []models.ChatTurn `json:"history"`
}

type chatResponse struct {
	Reply     string `json:"reply"`
	RequestID string `json:"request_id"`
}

type rowsResponse struct {
	Count int                   `json:"count"`
	Rows  []*models.MetroRecord `json:"rows"`
}

// GET /health
func (h *Handler) Health(c *gin.Context) {
	if _, err := h.store.Load(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// POST /chat
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	reply, err := h.assistant.Chat(c.Request.Context(), req.Message, req.History)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, chatResponse{Reply: reply, RequestID: c.GetString(requestIDKey)})
}

// GET /metros/cheapest?state=&limit=
func (h *Handler) Cheapest(c *gin.Context) {
	state, limit, ok := h.stateAndLimit(c)
	if !ok {
		return
	}
	rows, err := h.assistant.Recommender().CheapestMetros(limit, state)
	h.respondRows(c, rows, err)
}

// GET /metros/most-expensive?state=&limit=
func (h *Handler) MostExpensive(c *gin.Context) {
	state, limit, ok := h.stateAndLimit(c)
	if !ok {
		return
	}
	rows, err := h.assistant.Recommender().MostExpensiveMetros(limit, state)
	h.respondRows(c, rows, err)
}

// GET /metros/growth?horizon=3y|5y&direction=up|down&state=&limit=
func (h *Handler) Growth(c *gin.Context) {
	state, limit, ok := h.stateAndLimit(c)
	if !ok {
		return
	}
	horizon, err := models.ParseHorizon(c.Query("horizon"))
	if err != nil {
		h.fail(c, err)
		return
	}
	direction, err := models.ParseDirection(c.Query("direction"))
	if err != nil {
		h.fail(c, err)
		return
	}
	rows, err := h.assistant.Recommender().BestRentGrowth(limit, horizon, direction, state)
	h.respondRows(c, rows, err)
}

// GET /metros/budget?budget=&state=&trend=&limit=
func (h *Handler) Budget(c *gin.Context) {
	state, limit, ok := h.stateAndLimit(c)
	if !ok {
		return
	}
	budget, err := strconv.ParseFloat(c.Query("budget"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "budget must be a number"})
		return
	}
	rows, err := h.assistant.Recommender().FilterByBudget(services.BudgetQuery{
		Budget: budget,
		State:  state,
		Trend:  models.TrendLabel(c.Query("trend")),
		Limit:  limit,
	})
	h.respondRows(c, rows, err)
}

// GET /metros/compare?a=&b=
func (h *Handler) Compare(c *gin.Context) {
	a, b := c.Query("a"), c.Query("b")
	if a == "" || b == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a and b required"})
		return
	}
	res, err := h.assistant.Recommender().CompareMetros(a, b)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"outcome":         res.Outcome(),
		"a":               res.A,
		"b":               res.B,
		"rent_difference": res.RentDifference,
	})
}

// GET /metros/resolve?name=
func (h *Handler) Resolve(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	m, err := h.assistant.Recommender().Resolve(name)
	if err != nil {
		h.fail(c, err)
		return
	}
	if m == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "metro not found"})
		return
	}
	c.JSON(http.StatusOK, m)
}

// GET /insights
func (h *Handler) Insights(c *gin.Context) {
	table, err := h.store.Load()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, h.insights.Generate(table))
}

// stateAndLimit reads the optional state and limit parameters, writing a
// 400 response when either is malformed.
func (h *Handler) stateAndLimit(c *gin.Context) (string, int, bool) {
	state, ok := services.NormalizeState(c.Query("state"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state must be a two-letter US state code"})
		return "", 0, false
	}

	limit := h.assistant.Recommender().RowLimit()
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return "", 0, false
		}
		limit = n
	}
	return state, limit, true
}

func (h *Handler) respondRows(c *gin.Context, rows []*models.MetroRecord, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	if rows == nil {
		rows = []*models.MetroRecord{}
	}
	c.JSON(http.StatusOK, rowsResponse{Count: len(rows), Rows: rows})
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrDataUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, apperrors.ErrInvalidHorizon),
		errors.Is(err, apperrors.ErrInvalidDirection),
		errors.Is(err, apperrors.ErrInvalidBudget),
		errors.Is(err, apperrors.ErrInvalidTrend):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("[http] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
