package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/attrio/attribution-service/docs"
	"github.com/attrio/attribution-service/internal/attribution"
	"github.com/attrio/attribution-service/internal/dto"
	"github.com/attrio/attribution-service/internal/ingest"
	"github.com/attrio/attribution-service/internal/service"
)

type Handler struct {
	attributionService service.AttributionServicer
	router             *gin.Engine
	maxUploadBytes     int64
	log                *zap.Logger
}

func NewHandler(attributionService service.AttributionServicer, maxUploadBytes int64, log *zap.Logger) *Handler {
	h := &Handler{
		attributionService: attributionService,
		router:             gin.Default(),
		maxUploadBytes:     maxUploadBytes,
		log:                log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.POST("/attribution/analyze", h.analyze)
	h.router.GET("/attribution/analyses", h.listAnalyses)
	h.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// analyze handles POST /attribution/analyze
// @Summary Run an attribution analysis
// @Description Upload a touchpoint file (CSV, JSON or Parquet) and compute multi-touch attribution
// @Tags attribution
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Touchpoint data file"
// @Param model_type formData string true "Attribution model (first_touch, last_touch, linear, time_decay, position_based)"
// @Param linking_method formData string false "Identity linking method (auto, customer_id, session_email, email_only, aggregate)"
// @Param attribution_window_days formData int false "Look-back window in days (1-365)"
// @Param confidence_threshold formData number false "Advisory confidence floor (0-1)"
// @Param half_life_days formData number false "Time-decay half-life in days"
// @Param first_touch_weight formData number false "Position-based first touch weight"
// @Param last_touch_weight formData number false "Position-based last touch weight"
// @Success 200 {object} dto.AnalyzeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 415 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /attribution/analyze [post]
func (h *Handler) analyze(c *gin.Context) {
	var req dto.AnalyzeRequest

	if err := c.ShouldBind(&req); err != nil {
		h.log.Warn("Invalid analysis request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.log.Warn("Missing upload file", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: "file is required",
		})
		return
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		h.log.Warn("Upload too large",
			zap.Int64("size", fileHeader.Size),
			zap.Int64("limit", h.maxUploadBytes))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: "uploaded file exceeds the size limit",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			h.log.Error("Failed to close upload file", zap.Error(err))
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	response, err := h.attributionService.AnalyzeUpload(fileHeader.Filename, data, &req)
	if err != nil {
		h.writeAnalysisError(c, &req, fileHeader.Filename, err)
		return
	}

	h.log.Info("Analysis request served",
		zap.String("analysis_id", response.AnalysisID),
		zap.String("model", req.ModelType),
		zap.Int64("processing_time_ms", response.ProcessingTimeMs))

	c.JSON(http.StatusOK, response)
}

// writeAnalysisError maps analysis failures onto HTTP statuses. Bad inputs
// are the caller's fault; everything else is ours.
func (h *Handler) writeAnalysisError(c *gin.Context, req *dto.AnalyzeRequest, filename string, err error) {
	var (
		invalidParam *attribution.InvalidParameterError
		insufficient *attribution.InsufficientDataError
		unsupported  *ingest.UnsupportedFormatError
		schema       *ingest.SchemaError
	)

	switch {
	case errors.As(err, &invalidParam):
		h.log.Warn("Invalid analysis parameter",
			zap.String("parameter", invalidParam.Parameter),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_parameter",
			Message: err.Error(),
		})
	case errors.As(err, &insufficient):
		h.log.Warn("Insufficient data for analysis",
			zap.String("filename", filename),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "insufficient_data",
			Message: err.Error(),
		})
	case errors.As(err, &schema):
		h.log.Warn("Uploaded file schema invalid",
			zap.String("filename", filename),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_schema",
			Message: err.Error(),
		})
	case errors.As(err, &unsupported):
		h.log.Warn("Unsupported upload format",
			zap.String("filename", filename),
			zap.Error(err))
		c.JSON(http.StatusUnsupportedMediaType, dto.ErrorResponse{
			Error:   "unsupported_format",
			Message: err.Error(),
		})
	default:
		h.log.Error("Failed to run analysis",
			zap.String("model", req.ModelType),
			zap.String("filename", filename),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
	}
}

// listAnalyses handles GET /attribution/analyses
// @Summary List recent analyses
// @Description Retrieve the most recent attribution analysis runs from the history store
// @Tags attribution
// @Produce json
// @Param limit query int false "Maximum number of entries to return (default 20, max 100)"
// @Success 200 {object} dto.ListAnalysesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /attribution/analyses [get]
func (h *Handler) listAnalyses(c *gin.Context) {
	var req dto.ListAnalysesRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		h.log.Warn("Invalid history request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	response, err := h.attributionService.ListAnalyses(&req)
	if err != nil {
		h.log.Error("Failed to list analyses",
			zap.Int("limit", req.Limit),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}
