package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shenikar/emergency_response_system/internal/config"
	"github.com/shenikar/emergency_response_system/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	reportService service.ReportService
	userService   service.UserService
	logger        *logrus.Logger
	validate      *validator.Validate
	cfg           *config.Config
}

func NewHandler(reportService service.ReportService, userService service.UserService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		reportService: reportService,
		userService:   userService,
		logger:        logger,
		validate:      validator.New(),
		cfg:           cfg,
	}
}

// @Summary Submit an emergency report
// @Description Submit a new emergency report. The nearest capable responder is assigned at creation and a dispatch event is queued.
// @Tags Reports
// @Accept json
// @Produce json
// @Param report body CreateReportRequest true "Report submission request"
// @Success 200 {object} CreateReportResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reports [post]
func (h *Handler) createReport(c *gin.Context) {
	var input CreateReportRequest
	log := h.logger.WithField("method", "createReport")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model := DTOToReportModel(input)
	result, err := h.reportService.CreateReport(c.Request.Context(), model)
	if err != nil {
		if service.IsValidation(err) {
			log.WithError(err).Warn("Report rejected by service validation")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.WithError(err).Error("Failed to create report in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit report"})
		return
	}
	c.JSON(http.StatusOK, ResultToCreateReportResponse(result))
}

// @Summary Get all reports
// @Description Get all emergency reports, newest first.
// @Tags Reports
// @Accept json
// @Produce json
// @Success 200 {array} ReportResponse
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reports [get]
func (h *Handler) listReports(c *gin.Context) {
	log := h.logger.WithField("method", "listReports")

	reports, err := h.reportService.ListReports(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list reports from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToReportResponses(reports))
}

// @Summary Get report by ID
// @Description Get a single emergency report by its ID.
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} ReportResponse
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reports/{id} [get]
func (h *Handler) getReport(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "getReport").WithField("id", id)

	report, err := h.reportService.GetReport(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
			return
		}
		log.WithError(err).Error("Failed to get report from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelToReportResponse(report))
}

// @Summary Delete a report
// @Description Delete a report by its ID and return the removed record.
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} ReportResponse
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reports/{id} [delete]
func (h *Handler) deleteReport(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "deleteReport").WithField("id", id)

	report, err := h.reportService.DeleteReport(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
			return
		}
		log.WithError(err).Error("Failed to delete report in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete report"})
		return
	}

	c.JSON(http.StatusOK, ModelToReportResponse(report))
}

// @Summary Update report status
// @Description Set a new status on a report; all other fields are preserved.
// @Tags Reports
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param status body UpdateReportStatusRequest true "Status update request"
// @Success 200 {object} ReportResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /reports/{id}/status [patch]
func (h *Handler) updateReportStatus(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "updateReportStatus").WithField("id", id)

	var input UpdateReportStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reportService.UpdateReportStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		if errors.Is(err, service.ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
			return
		}
		log.WithError(err).Error("Failed to update report status in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update report status"})
		return
	}

	c.JSON(http.StatusOK, ModelToReportResponse(report))
}

// @Summary Get dashboard statistics
// @Description Get the dashboard counters, recomputed from current store state. Requires API key.
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} StatsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /dashboard/stats [get]
func (h *Handler) getStats(c *gin.Context) {
	log := h.logger.WithField("method", "getStats")

	stats, err := h.reportService.GetStats(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to get stats from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, StatsToResponse(stats))
}

// @Summary Register a new user
// @Description Register a new reporter account.
// @Tags Users
// @Accept json
// @Produce json
// @Param user body SignupRequest true "Signup request"
// @Success 201 {object} UserResponse
// @Failure 400 {object} map[string]string "Invalid request body or email already registered"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /signup [post]
func (h *Handler) signup(c *gin.Context) {
	var input SignupRequest
	log := h.logger.WithField("method", "signup")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := DTOToUserModel(input)
	if err := h.userService.Signup(c.Request.Context(), user, input.Password); err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
			return
		}
		log.WithError(err).Error("Failed to register user in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, ModelToUserResponse(user))
}

// @Summary Log a user in
// @Description Verify credentials and return the account.
// @Tags Users
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login request"
// @Success 200 {object} UserResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /login [post]
func (h *Handler) login(c *gin.Context) {
	var input LoginRequest
	log := h.logger.WithField("method", "login")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		log.WithError(err).Error("Failed to log user in")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelToUserResponse(user))
}

// @Summary Get all users
// @Description Get all registered accounts, password hashes excluded. Requires API key.
// @Tags Admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} UserResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users [get]
func (h *Handler) listUsers(c *gin.Context) {
	log := h.logger.WithField("method", "listUsers")

	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list users from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToUserResponses(users))
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
