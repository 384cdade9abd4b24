package api

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/suara/domain/entities"
	"github.com/satriahrh/suara/internal/auth"
	"github.com/satriahrh/suara/usecase"
)

// Handler holds the services behind the voice-auth HTTP surface.
type Handler struct {
	enrollment   *usecase.EnrollmentService
	verification *usecase.VerificationService
	variant      usecase.Variant
	logger       *zap.Logger
}

// NewHandler creates the HTTP handler set.
func NewHandler(
	enrollment *usecase.EnrollmentService,
	verification *usecase.VerificationService,
	variant usecase.Variant,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		enrollment:   enrollment,
		verification: verification,
		variant:      variant,
		logger:       logger,
	}
}

// InitRoutes registers all voice-auth routes. When jwtSecret is non-empty
// the /user routes require a valid service bearer token, mirroring the
// authenticated gateway that fronts this service; an empty secret leaves
// them open for local development. The deletion route exists only for
// the variants that support sample management.
func InitRoutes(e *echo.Echo, h *Handler, jwtSecret []byte) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "suara-voiceauth",
			"variant": string(h.variant),
		})
	})

	group := e.Group("")
	if len(jwtSecret) > 0 {
		group.Use(serviceAuth(jwtSecret, h.logger))
	}

	group.POST("/user", h.enroll)
	group.GET("/user", h.listSamples)
	group.POST("/user/authenticate", h.verify)

	if h.variant != usecase.VariantClassifier {
		group.DELETE("/user", h.deleteSample)
	}
}

// serviceAuth validates the Bearer token on every request.
func serviceAuth(secret []byte, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			var token string
			if len(header) > 7 && header[:7] == "Bearer " {
				token = header[7:]
			}
			if token == "" {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Error:   "missing_token",
					Message: "Service token is required in Authorization header",
				})
			}
			if _, err := auth.ValidateToken(secret, token); err != nil {
				logger.Warn("Request rejected: invalid service token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Error:   "invalid_token",
					Message: "Invalid or expired service token",
				})
			}
			return next(c)
		}
	}
}

func (h *Handler) enroll(c echo.Context) error {
	var req EnrollRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}
	if req.UserID == "" || (req.StorageKey == "" && req.AudioBase64 == "") {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "user_id and either storage_key or audio_base64 are required",
		})
	}

	var audioData []byte
	if req.AudioBase64 != "" {
		var err error
		audioData, err = base64.StdEncoding.DecodeString(req.AudioBase64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_audio",
				Message: "audio_base64 is not valid base64",
			})
		}
	}

	result, err := h.enrollment.Enroll(c.Request().Context(), usecase.EnrollParams{
		UserID:     req.UserID,
		StorageKey: req.StorageKey,
		AudioData:  audioData,
		Filename:   req.Filename,
		PIN:        req.PIN,
	})
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, EnrollResponse{
		Message:      "User registered successfully",
		StorageKey:   result.StorageKey,
		ExtractedPIN: result.ExtractedPIN,
	})
}

func (h *Handler) listSamples(c echo.Context) error {
	userID := c.QueryParam("user_id")
	if userID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "user_id query parameter is required",
		})
	}

	keys, err := h.enrollment.ListSamples(c.Request().Context(), userID)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, ListResponse{StorageKeys: keys})
}

func (h *Handler) deleteSample(c echo.Context) error {
	var req DeleteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}
	if req.UserID == "" || req.StorageKey == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "user_id and storage_key are required",
		})
	}

	if err := h.enrollment.DeleteSample(c.Request().Context(), req.UserID, req.StorageKey); err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Sample deleted successfully"})
}

func (h *Handler) verify(c echo.Context) error {
	var req VerifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}
	if req.UserID == "" || req.StorageKey == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "user_id and storage_key are required",
		})
	}

	result, err := h.verification.Verify(c.Request().Context(), req.UserID, req.StorageKey)
	if err != nil {
		return h.writeError(c, err)
	}

	resp := VerifyResponse{
		Authenticated: result.Authenticated,
		StorageKey:    result.StorageKey,
		Reason:        result.Reason,
	}
	switch h.variant {
	case usecase.VariantCosine:
		resp.SimilarityScore = &result.VoiceSimilarity
	case usecase.VariantMultifactor:
		resp.CombinedScore = &result.CombinedScore
		resp.PinMatch = &result.PinMatch
		resp.VoiceSimilarity = &result.VoiceSimilarity
		resp.ExtractedPIN = &result.ExtractedPIN
		resp.ExpectedPIN = &result.ExpectedPIN
	}

	return c.JSON(http.StatusOK, resp)
}

// writeError maps domain errors to HTTP responses. Gating and
// client-input failures are 400s with a reason; unknown users are 404s;
// anything else is logged in full and surfaced as a generic 500.
func (h *Handler) writeError(c echo.Context, err error) error {
	var fetchErr *entities.AudioFetchError
	var livenessErr *entities.LivenessError
	var pinErr *entities.PinMismatchError

	switch {
	case errors.As(err, &fetchErr):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "audio_fetch_failed",
			Message: fetchErr.Error(),
		})
	case errors.As(err, &livenessErr):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "liveness_rejected",
			Message: "Audio is a deepfake",
		})
	case errors.As(err, &pinErr):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "pin_mismatch",
			Message: pinErr.Error(),
		})
	case errors.Is(err, usecase.ErrPinRequired):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "pin_required",
			Message: "A pin is required for the first enrollment",
		})
	case errors.Is(err, entities.ErrUnknownUser), errors.Is(err, usecase.ErrSampleNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "user_not_found",
			Message: "User not found",
		})
	default:
		h.logger.Error("Request failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Internal server error",
		})
	}
}
