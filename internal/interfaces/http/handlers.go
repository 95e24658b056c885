package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/anphu-security/guardops/internal/contract"
	"github.com/anphu-security/guardops/internal/mediator"
	"github.com/anphu-security/guardops/internal/models"
	"github.com/anphu-security/guardops/internal/shift"
)

const dateLayout = "2006-01-02"

// Handlers contains all HTTP request handlers
type Handlers struct {
	mediator *mediator.Mediator
	logger   *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(m *mediator.Mediator, logger *zap.Logger) *Handlers {
	return &Handlers{mediator: m, logger: logger}
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

// ContractRequest is the JSON body for creating or updating a contract
type ContractRequest struct {
	ContractNumber string `json:"contract_number" binding:"required"`
	CustomerID     int64  `json:"customer_id" binding:"required"`
	StartDate      string `json:"start_date" binding:"required"`
	EndDate        string `json:"end_date" binding:"required"`
	Status         string `json:"status"`
	Notes          string `json:"notes"`
}

// CreateContract handles POST /api/contracts
func (h *Handlers) CreateContract(c *gin.Context) {
	var req ContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}

	result, err := h.mediator.Send(c.Request.Context(), contract.CreateCommand{Input: contract.CreateInput{
		ContractNumber: req.ContractNumber,
		CustomerID:     req.CustomerID,
		StartDate:      start,
		EndDate:        end,
		Notes:          req.Notes,
	}})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: result})
}

// ListContractsRequest represents query parameters for listing contracts
type ListContractsRequest struct {
	Status string `form:"status"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

// ListContracts handles GET /api/contracts
func (h *Handlers) ListContracts(c *gin.Context) {
	var req ListContractsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, "invalid query parameters")
		return
	}

	result, err := h.mediator.Send(c.Request.Context(), contract.ListQuery{
		Status: req.Status,
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// GetContract handles GET /api/contracts/:id
func (h *Handlers) GetContract(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	result, err := h.mediator.Send(c.Request.Context(), contract.GetQuery{ID: id})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// UpdateContract handles PUT /api/contracts/:id
func (h *Handlers) UpdateContract(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req ContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}

	result, err := h.mediator.Send(c.Request.Context(), contract.UpdateCommand{
		ID: id,
		Input: contract.UpdateInput{
			ContractNumber: req.ContractNumber,
			CustomerID:     req.CustomerID,
			StartDate:      start,
			EndDate:        end,
			Status:         req.Status,
			Notes:          req.Notes,
		},
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// DeleteContract handles DELETE /api/contracts/:id
func (h *Handlers) DeleteContract(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	result, err := h.mediator.Send(c.Request.Context(), contract.DeleteCommand{ID: id})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// AddLocationRequest is the JSON body for attaching a location
type AddLocationRequest struct {
	Name           string `json:"name" binding:"required"`
	GuardsRequired int    `json:"guards_required"`
}

// AddLocation handles POST /api/contracts/:id/locations
func (h *Handlers) AddLocation(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req AddLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	result, err := h.mediator.Send(c.Request.Context(), contract.AddLocationCommand{
		ContractID:     id,
		LocationName:   req.Name,
		GuardsRequired: req.GuardsRequired,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: result})
}

// AddScheduleRequest is the JSON body for attaching a shift schedule
type AddScheduleRequest struct {
	Name      string `json:"name" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// AddSchedule handles POST /api/contracts/:id/schedules
func (h *Handlers) AddSchedule(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req AddScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	start, err := models.ParseTimeOfDay(req.StartTime)
	if err != nil {
		h.badRequest(c, "invalid start_time, expected HH:MM")
		return
	}
	end, err := models.ParseTimeOfDay(req.EndTime)
	if err != nil {
		h.badRequest(c, "invalid end_time, expected HH:MM")
		return
	}

	result, err := h.mediator.Send(c.Request.Context(), contract.AddScheduleCommand{
		ContractID: id,
		Schedule:   req.Name,
		StartTime:  start,
		EndTime:    end,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: result})
}

// ValidateDocument handles POST /api/contracts/:id/validate. The document
// comes in as multipart form field "document". Extraction and comparison
// failures are reported inside the result body with a 200 status; only
// transport-level problems produce an error response.
func (h *Handlers) ValidateDocument(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		h.badRequest(c, "multipart field 'document' is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.respondError(c, fmt.Errorf("failed to open uploaded document: %w", err))
		return
	}
	defer file.Close()

	result, err := h.mediator.Send(c.Request.Context(), contract.ValidateCommand{
		ContractID: id,
		Document:   file,
		Filename:   fileHeader.Filename,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// FillTemplate handles GET /api/contracts/:id/document?template=<name>
// and streams the filled .docx back as an attachment
func (h *Handlers) FillTemplate(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	templateName := c.Query("template")
	if templateName == "" {
		h.badRequest(c, "query parameter 'template' is required")
		return
	}

	// Fill into a buffer so a late error still gets a clean JSON response
	var buf bytes.Buffer
	if _, err := h.mediator.Send(c.Request.Context(), contract.FillTemplateCommand{
		ContractID:   id,
		TemplateName: templateName,
		Out:          &buf,
	}); err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", templateName))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", buf.Bytes())
}

// ExportRoster handles GET /api/contracts/:id/roster?from=&to=
// and streams the roster workbook as an attachment
func (h *Handlers) ExportRoster(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	from, to, err := parseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}

	result, err := h.mediator.Send(c.Request.Context(), shift.RosterQuery{
		ContractID: id,
		From:       from,
		To:         to,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	workbook := result.(*excelize.File)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=roster-%d.xlsx", id))
	if _, err := workbook.WriteTo(c.Writer); err != nil {
		h.logger.Error("Roster download failed", zap.Int64("contract_id", id), zap.Error(err))
		c.Abort()
	}
}

// CreateShiftRequest is the JSON body for creating one dated shift
type CreateShiftRequest struct {
	ContractID int64  `json:"contract_id" binding:"required"`
	ScheduleID int64  `json:"schedule_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
}

// CreateShift handles POST /api/shifts
func (h *Handlers) CreateShift(c *gin.Context) {
	var req CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		h.badRequest(c, "invalid date, expected YYYY-MM-DD")
		return
	}

	result, err := h.mediator.Send(c.Request.Context(), shift.CreateCommand{
		ContractID: req.ContractID,
		ScheduleID: req.ScheduleID,
		Date:       date,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: result})
}

// GenerateShiftsRequest is the JSON body for generating shifts from schedules
type GenerateShiftsRequest struct {
	ContractID int64  `json:"contract_id" binding:"required"`
	From       string `json:"from" binding:"required"`
	To         string `json:"to" binding:"required"`
}

// GenerateShifts handles POST /api/shifts/generate
func (h *Handlers) GenerateShifts(c *gin.Context) {
	var req GenerateShiftsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}

	result, err := h.mediator.Send(c.Request.Context(), shift.GenerateCommand{
		ContractID: req.ContractID,
		From:       from,
		To:         to,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: result})
}

// ListShiftsRequest represents query parameters for listing shifts
type ListShiftsRequest struct {
	ContractID int64  `form:"contract_id" binding:"required"`
	From       string `form:"from" binding:"required"`
	To         string `form:"to" binding:"required"`
}

// ListShifts handles GET /api/shifts
func (h *Handlers) ListShifts(c *gin.Context) {
	var req ListShiftsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.badRequest(c, "contract_id, from and to are required")
		return
	}

	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}

	result, err := h.mediator.Send(c.Request.Context(), shift.ListQuery{
		ContractID: req.ContractID,
		From:       from,
		To:         to,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// AssignGuardRequest is the JSON body for assigning a guard
type AssignGuardRequest struct {
	GuardID int64 `json:"guard_id" binding:"required"`
}

// AssignGuard handles POST /api/shifts/:id/assign
func (h *Handlers) AssignGuard(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req AssignGuardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	result, err := h.mediator.Send(c.Request.Context(), shift.AssignGuardCommand{
		ShiftID: id,
		GuardID: req.GuardID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// UpdateShiftStatusRequest is the JSON body for a status change
type UpdateShiftStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateShiftStatus handles PUT /api/shifts/:id/status
func (h *Handlers) UpdateShiftStatus(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req UpdateShiftStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	result, err := h.mediator.Send(c.Request.Context(), shift.UpdateStatusCommand{
		ShiftID: id,
		Status:  req.Status,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// BulkCancelRequest is the JSON body for the bulk cancellation workflow
type BulkCancelRequest struct {
	GuardID int64  `json:"guard_id" binding:"required"`
	From    string `json:"from" binding:"required"`
	To      string `json:"to" binding:"required"`
	Reason  string `json:"reason" binding:"required"`
}

// BulkCancelShifts handles POST /api/shifts/bulk-cancel
func (h *Handlers) BulkCancelShifts(c *gin.Context) {
	var req BulkCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body")
		return
	}

	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		h.badRequest(c, err.Error())
		return
	}

	result, err := h.mediator.Send(c.Request.Context(), shift.BulkCancelCommand{Input: shift.BulkCancelInput{
		GuardID: req.GuardID,
		From:    from,
		To:      to,
		Reason:  req.Reason,
	}})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// pathID parses the :id path parameter, responding 400 on failure
func (h *Handlers) pathID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.logger.Error("Invalid path ID", zap.String("id", idStr), zap.Error(err))
		h.badRequest(c, "invalid ID")
		return 0, false
	}
	return id, true
}

func (h *Handlers) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}

// respondError maps service errors onto HTTP statuses
func (h *Handlers) respondError(c *gin.Context, err error) {
	msg := err.Error()
	status := http.StatusInternalServerError
	switch {
	case strings.Contains(msg, "not found"):
		status = http.StatusNotFound
	case strings.Contains(msg, "invalid") || strings.Contains(msg, "required") ||
		strings.Contains(msg, "must"):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}

	c.JSON(status, Response{Success: false, Error: msg})
}

// parseDateRange parses two YYYY-MM-DD strings
func parseDateRange(fromStr, toStr string) (time.Time, time.Time, error) {
	from, err := time.Parse(dateLayout, fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid from date, expected YYYY-MM-DD")
	}
	to, err := time.Parse(dateLayout, toStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid to date, expected YYYY-MM-DD")
	}
	return from, to, nil
}
