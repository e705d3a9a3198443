package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "alphastock/internal/errors"
	"alphastock/internal/models"
	"alphastock/internal/services"
)

// AlertHandler handles price alert requests.
type AlertHandler struct {
	alertService services.AlertServicer
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alertService services.AlertServicer) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// CreateAlertRequest represents the request payload for creating an alert.
type CreateAlertRequest struct {
	Ticker      string  `json:"ticker" binding:"required,ticker"`
	Condition   string  `json:"condition" binding:"required,alert_condition"`
	TargetPrice float64 `json:"target_price" binding:"required,gt=0"`
}

// ToggleAlertRequest represents the request payload for arming or
// disarming an alert.
type ToggleAlertRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// CreateAlert registers a new price alert.
// @Summary     Create a price alert
// @Description Create an alert that fires when the price crosses the target
// @Tags        alerts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAlertRequest true "Alert details"
// @Success     201 {object} models.Alert "Alert created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /alerts [post]
func (h *AlertHandler) CreateAlert(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	alert, err := h.alertService.CreateAlert(
		c.Request.Context(),
		userID,
		req.Ticker,
		models.AlertCondition(req.Condition),
		req.TargetPrice,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"alert": alert})
}

// GetAlerts returns all of the user's alerts.
// @Summary     List alerts
// @Description Return all of the user's alerts, newest first
// @Tags        alerts
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Alert "Alerts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /alerts [get]
func (h *AlertHandler) GetAlerts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	alerts, err := h.alertService.GetUserAlerts(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

// ToggleAlert arms or disarms an alert.
// @Summary     Toggle an alert
// @Description Arm or disarm an alert without deleting it
// @Tags        alerts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Alert ID"
// @Param       request body ToggleAlertRequest true "Desired state"
// @Success     200 {object} models.Alert "Alert updated"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Alert not found"
// @Router      /alerts/{id}/toggle [patch]
func (h *AlertHandler) ToggleAlert(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	alertID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ToggleAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	alert, err := h.alertService.SetAlertActive(userID, alertID, *req.IsActive)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alert": alert})
}

// DeleteAlert removes an alert.
// @Summary     Delete an alert
// @Description Delete one of the user's alerts
// @Tags        alerts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Alert ID"
// @Success     200 {object} map[string]string "Alert deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Alert not found"
// @Router      /alerts/{id} [delete]
func (h *AlertHandler) DeleteAlert(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	alertID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.alertService.DeleteAlert(userID, alertID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Alert deleted"})
}

// CheckAlerts runs an evaluation pass over all armed alerts.
// @Summary     Check alerts
// @Description Evaluate every active untriggered alert against fresh quotes
// @Tags        alerts
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.AlertCheckResult "Check outcome"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /alerts/check [post]
func (h *AlertHandler) CheckAlerts(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.alertService.CheckAlerts(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
