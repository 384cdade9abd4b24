package routing

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// BestPaymentRequest carries the optional timestamp to score. Missing
// timestamps fall back to the current server time.
type BestPaymentRequest struct {
	Timestamp string `json:"timestamp,omitempty"`
}

// BestPaymentResponse ranks the payment methods for the timestamp.
type BestPaymentResponse struct {
	Timestamp         string             `json:"timestamp"`
	BestPaymentMethod string             `json:"best_payment_method"`
	Score             float64            `json:"score"`
	Probs             map[string]float64 `json:"probs"`
	Note              string             `json:"note,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler serves payment-routing predictions.
type Handler struct {
	model  *Model
	logger *zap.Logger
}

// NewHandler creates the handler around a loaded model.
func NewHandler(model *Model, logger *zap.Logger) *Handler {
	return &Handler{model: model, logger: logger}
}

// InitRoutes registers the routing endpoints.
func InitRoutes(e *echo.Echo, h *Handler) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "suara-smartrouting",
		})
	})
	e.POST("/best_payment", h.bestPayment)
}

func (h *Handler) bestPayment(c echo.Context) error {
	var req BestPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid JSON payload: object required",
		})
	}

	var (
		at          time.Time
		usedDefault bool
	)
	if req.Timestamp == "" {
		at = time.Now()
		req.Timestamp = at.Format(time.RFC3339)
		usedDefault = true
	} else {
		var err error
		at, err = ParseTimestamp(req.Timestamp)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		}
	}

	prediction := h.model.Predict(at)

	h.logger.Info("Scored payment methods",
		zap.String("timestamp", req.Timestamp),
		zap.String("best", prediction.Best),
		zap.Float64("score", prediction.Score))

	resp := BestPaymentResponse{
		Timestamp:         req.Timestamp,
		BestPaymentMethod: prediction.Best,
		Score:             prediction.Score,
		Probs:             prediction.Probs,
	}
	if usedDefault {
		resp.Note = "No timestamp provided; used current server time"
	}

	return c.JSON(http.StatusOK, resp)
}
