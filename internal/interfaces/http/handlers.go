package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finverge/payflow/internal/application/port"
	"github.com/finverge/payflow/internal/application/service"
	"github.com/finverge/payflow/internal/domain/entity"
	"github.com/finverge/payflow/internal/domain/workflow"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	requestService   service.RequestService
	sweepService     service.SweepService
	notificationRepo port.NotificationRepository
	directory        port.Directory
	logger           Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	requestService service.RequestService,
	sweepService service.SweepService,
	notificationRepo port.NotificationRepository,
	directory port.Directory,
	logger Logger,
) *Handlers {
	return &Handlers{
		requestService:   requestService,
		sweepService:     sweepService,
		notificationRepo: notificationRepo,
		directory:        directory,
		logger:           logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// CreateRequestBody is the payload for raising a payment request.
type CreateRequestBody struct {
	EntityID         string   `json:"entity_id" binding:"required"`
	VendorName       string   `json:"vendor_name"`
	Description      string   `json:"description"`
	Amount           float64  `json:"amount" binding:"required"`
	CurrencyCode     string   `json:"currency_code" binding:"required"`
	ExchangeRate     float64  `json:"exchange_rate" binding:"required"`
	NetPayableAmount *float64 `json:"net_payable_amount"`
	IsCritical       bool     `json:"is_critical"`
	GSTApplicable    bool     `json:"gst_applicable"`
	TDSApplicable    bool     `json:"tds_applicable"`
	Submit           bool     `json:"submit"`
}

// DecideBody is the payload for recording an approval decision.
type DecideBody struct {
	Level    string `json:"level" binding:"required"`
	Decision string `json:"decision" binding:"required"`
	Comments string `json:"comments"`
}

// DisburseBody is the payload for finalizing payment.
type DisburseBody struct {
	PaymentReferenceNumber string    `json:"payment_reference_number"`
	PaymentMode            string    `json:"payment_mode"`
	PaymentDate            time.Time `json:"payment_date"`
}

// ListQuery represents pagination query parameters.
type ListQuery struct {
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
	Status string `form:"status"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// CreateRequest handles POST /api/requests
func (h *Handlers) CreateRequest(c *gin.Context) {
	var body CreateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	req, err := h.requestService.Create(c.Request.Context(), service.CreateRequestInput{
		RequesterID:      actorID(c),
		EntityID:         body.EntityID,
		VendorName:       body.VendorName,
		Description:      body.Description,
		Amount:           body.Amount,
		CurrencyCode:     body.CurrencyCode,
		ExchangeRate:     body.ExchangeRate,
		NetPayableAmount: body.NetPayableAmount,
		IsCritical:       body.IsCritical,
		GSTApplicable:    body.GSTApplicable,
		TDSApplicable:    body.TDSApplicable,
		SubmitNow:        body.Submit,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: req})
}

// ListRequests handles GET /api/requests
func (h *Handlers) ListRequests(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid query parameters"})
		return
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	var requests []*entity.PaymentRequest
	var err error
	if q.Status != "" {
		requests, err = h.requestService.ListByStatus(c.Request.Context(), q.Status, q.Limit, q.Offset)
	} else {
		requests, err = h.requestService.List(c.Request.Context(), q.Limit, q.Offset)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: requests})
}

// GetRequest handles GET /api/requests/:ref
func (h *Handlers) GetRequest(c *gin.Context) {
	req, err := h.requestService.Get(c.Request.Context(), c.Param("ref"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: req})
}

// GetHistory handles GET /api/requests/:ref/history
func (h *Handlers) GetHistory(c *gin.Context) {
	actions, err := h.requestService.History(c.Request.Context(), c.Param("ref"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: actions})
}

// GetSteps handles GET /api/requests/:ref/steps
func (h *Handlers) GetSteps(c *gin.Context) {
	steps, err := h.requestService.Steps(c.Request.Context(), c.Param("ref"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: steps})
}

// SubmitRequest handles POST /api/requests/:ref/submit
func (h *Handlers) SubmitRequest(c *gin.Context) {
	req, err := h.requestService.Submit(c.Request.Context(), c.Param("ref"), actorID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: req})
}

// Decide handles POST /api/requests/:ref/decisions
func (h *Handlers) Decide(c *gin.Context) {
	var body DecideBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	req, err := h.requestService.Decide(c.Request.Context(),
		c.Param("ref"), workflow.Level(body.Level), body.Decision, actorID(c), body.Comments)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: req})
}

// ResubmitRequest handles POST /api/requests/:ref/resubmit
func (h *Handlers) ResubmitRequest(c *gin.Context) {
	req, err := h.requestService.Resubmit(c.Request.Context(), c.Param("ref"), actorID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: req})
}

// ClearAdminReview handles POST /api/requests/:ref/clear-review
func (h *Handlers) ClearAdminReview(c *gin.Context) {
	req, err := h.requestService.ClearAdminReview(c.Request.Context(), c.Param("ref"), actorID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: req})
}

// Disburse handles POST /api/requests/:ref/disburse
func (h *Handlers) Disburse(c *gin.Context) {
	var body DisburseBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	req, err := h.requestService.Disburse(c.Request.Context(), c.Param("ref"), service.DisbursementProof{
		PaymentReferenceNumber: body.PaymentReferenceNumber,
		PaymentMode:            body.PaymentMode,
		PaymentDate:            body.PaymentDate,
	}, actorID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: req})
}

// DeleteRequest handles DELETE /api/requests/:ref
func (h *Handlers) DeleteRequest(c *gin.Context) {
	if err := h.requestService.Delete(c.Request.Context(), c.Param("ref"), actorID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true})
}

// RunSweep handles POST /api/admin/sla-sweep. Restricted to administrators.
func (h *Handlers) RunSweep(c *gin.Context) {
	admin, err := h.directory.IsAdmin(c.Request.Context(), actorID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !admin {
		c.JSON(http.StatusForbidden, Response{Success: false, Error: "administrator role required"})
		return
	}

	logged, err := h.sweepService.Run(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: gin.H{"new_breaches": logged}})
}

// ListNotifications handles GET /api/notifications for the calling user.
func (h *Handlers) ListNotifications(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid query parameters"})
		return
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	notifications, err := h.notificationRepo.ListByRecipient(c.Request.Context(), actorID(c), q.Limit, q.Offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: notifications})
}

// respondError maps domain and port errors onto HTTP statuses.
func (h *Handlers) respondError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, workflow.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, workflow.ErrUnauthorized), errors.Is(err, workflow.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, port.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, port.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, workflow.ErrIllegalTransition), errors.Is(err, workflow.ErrInvalidStatus):
		status = http.StatusUnprocessableEntity
	default:
		h.logger.Error("Unhandled error", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "internal server error"})
		return
	}

	c.JSON(status, Response{Success: false, Error: err.Error()})
}
