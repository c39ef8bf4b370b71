package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"callboard/internal/auth"
	"callboard/internal/models"
	"callboard/internal/repository"
	"callboard/internal/services"

	"github.com/gin-gonic/gin"
)

// PredictionHandler handles HTTP requests for predictions
type PredictionHandler struct {
	predictionService *services.PredictionService
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(predictionService *services.PredictionService) *PredictionHandler {
	return &PredictionHandler{
		predictionService: predictionService,
	}
}

// CreatePrediction handles POST /predictions
func (h *PredictionHandler) CreatePrediction(c *gin.Context) {
	var req models.CreatePredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	expiresAt, err := models.ParseTimestamp(req.ExpiresAt)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "expires_at: " + err.Error()})
		return
	}

	stake := int64(models.DefaultStake)
	if req.Stake != nil {
		stake = *req.Stake
	}

	prediction, err := h.predictionService.Submit(c.Request.Context(), services.SubmitInput{
		Username:  req.Username,
		Title:     req.Title,
		Category:  req.Category,
		Stake:     stake,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, prediction.ToResponse())
}

// ListPredictions handles GET /predictions?status=&username=
func (h *PredictionHandler) ListPredictions(c *gin.Context) {
	var filter repository.PredictionFilter

	if status, ok := c.GetQuery("status"); ok && status != "" {
		s := models.PredictionStatus(status)
		filter.Status = &s
	}
	if username, ok := c.GetQuery("username"); ok && username != "" {
		filter.Username = &username
	}

	predictions, err := h.predictionService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.PredictionResponse, len(predictions))
	for i := range predictions {
		responses[i] = predictions[i].ToResponse()
	}

	c.JSON(http.StatusOK, responses)
}

// ResolvePrediction handles POST /predictions/:id/resolve
func (h *PredictionHandler) ResolvePrediction(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid prediction id"})
		return
	}

	var req models.ResolvePredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	prediction, err := h.predictionService.Resolve(c.Request.Context(), uint(id), req.Outcome)
	if err != nil {
		respondError(c, err)
		return
	}

	if resolver, ok := auth.GetResolver(c); ok {
		log.Printf("[Handlers] Prediction %d resolved by %s", prediction.ID, resolver)
	}

	c.JSON(http.StatusOK, prediction.ToResponse())
}

// respondError maps service errors onto status codes
func respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": validationErr.Error()})
	case errors.Is(err, services.ErrPredictionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Prediction not found"})
	case errors.Is(err, services.ErrAlreadyResolved):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prediction already resolved"})
	case errors.Is(err, services.ErrNotYetExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prediction has not expired yet"})
	case errors.Is(err, services.ErrPointsOverflow):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Points total out of range"})
	default:
		log.Printf("[Handlers] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
