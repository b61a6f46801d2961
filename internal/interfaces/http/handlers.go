package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Cventura12/Clarify-AI-sub000/internal/application/service"
	"github.com/Cventura12/Clarify-AI-sub000/internal/domain/entity"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	interpretationService service.InterpretationService
	planService           service.PlanService
	stepService           service.StepService
	executionService      service.ExecutionService
	logger                Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	interpretationService service.InterpretationService,
	planService service.PlanService,
	stepService service.StepService,
	executionService service.ExecutionService,
	logger Logger,
) *Handlers {
	return &Handlers{
		interpretationService: interpretationService,
		planService:           planService,
		stepService:           stepService,
		executionService:      executionService,
		logger:                logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CreateRequestBody is the payload for submitting a new request
type CreateRequestBody struct {
	UserID string `json:"user_id" binding:"required"`
	Input  string `json:"input" binding:"required"`
}

// RequestWithTasks pairs a request with its interpreted tasks
type RequestWithTasks struct {
	Request *entity.Request `json:"request"`
	Tasks   []*entity.Task  `json:"tasks"`
}

// PlanWithSteps pairs a plan with its ordered steps
type PlanWithSteps struct {
	Plan  *entity.Plan   `json:"plan"`
	Steps []*entity.Step `json:"steps"`
}

// ListQuery represents pagination query parameters
type ListQuery struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

func (q *ListQuery) clamp() {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// CreateRequest handles POST /api/requests
func (h *Handlers) CreateRequest(c *gin.Context) {
	var body CreateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "user_id and input are required",
		})
		return
	}

	request, tasks, err := h.interpretationService.CreateRequest(c.Request.Context(), body.UserID, body.Input)
	if err != nil {
		h.fail(c, err, "failed to interpret request")
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    RequestWithTasks{Request: request, Tasks: tasks},
	})
}

// ListRequests handles GET /api/requests
func (h *Handlers) ListRequests(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid query parameters"})
		return
	}
	query.clamp()

	requests, err := h.interpretationService.ListRequests(c.Request.Context(), query.Limit, query.Offset)
	if err != nil {
		h.fail(c, err, "failed to list requests")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: requests})
}

// GetRequest handles GET /api/requests/:id
func (h *Handlers) GetRequest(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	request, tasks, err := h.interpretationService.GetRequest(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "failed to get request")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    RequestWithTasks{Request: request, Tasks: tasks},
	})
}

// ListTasks handles GET /api/tasks
func (h *Handlers) ListTasks(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid query parameters"})
		return
	}
	query.clamp()

	tasks, err := h.interpretationService.ListTasks(c.Request.Context(), query.Limit, query.Offset)
	if err != nil {
		h.fail(c, err, "failed to list tasks")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: tasks})
}

// GetTask handles GET /api/tasks/:id
func (h *Handlers) GetTask(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	task, err := h.interpretationService.GetTask(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "failed to get task")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: task})
}

// AbandonTask handles POST /api/tasks/:id/abandon
func (h *Handlers) AbandonTask(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	task, err := h.interpretationService.AbandonTask(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "failed to abandon task")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: task})
}

// CreatePlan handles POST /api/tasks/:id/plan
func (h *Handlers) CreatePlan(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	plan, steps, err := h.planService.CreatePlan(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "failed to create plan")
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    PlanWithSteps{Plan: plan, Steps: steps},
	})
}

// GetPlanForTask handles GET /api/tasks/:id/plan
func (h *Handlers) GetPlanForTask(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	plan, steps, err := h.planService.GetPlanForTask(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "failed to get plan")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    PlanWithSteps{Plan: plan, Steps: steps},
	})
}

// GetPlan handles GET /api/plans/:id
func (h *Handlers) GetPlan(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	plan, steps, err := h.planService.GetPlan(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "failed to get plan")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    PlanWithSteps{Plan: plan, Steps: steps},
	})
}

// ExecutePlan handles POST /api/plans/:id/execute
func (h *Handlers) ExecutePlan(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.executionService.ExecutePlan(c.Request.Context(), id)
	if err != nil {
		// A fail-fast abort still carries the partial counters.
		svcErr := service.AsError(err)
		c.JSON(svcErr.HTTPStatus(), Response{
			Success: false,
			Data:    result,
			Error:   svcErr.Message,
		})
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// GetPlanLogs handles GET /api/plans/:id/logs
func (h *Handlers) GetPlanLogs(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	logs, err := h.executionService.PlanLogs(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "failed to get plan logs")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: logs})
}

// GetPlanRuns handles GET /api/plans/:id/runs
func (h *Handlers) GetPlanRuns(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	runs, err := h.executionService.PlanRuns(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "failed to get plan runs")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: runs})
}

// GetStep handles GET /api/steps/:id
func (h *Handlers) GetStep(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	step, err := h.stepService.GetStep(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "failed to get step")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: step})
}

// AuthorizeStep handles POST /api/steps/:id/authorize
func (h *Handlers) AuthorizeStep(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	step, err := h.stepService.Authorize(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "failed to authorize step")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: step})
}

// RejectStep handles POST /api/steps/:id/reject
func (h *Handlers) RejectStep(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	step, err := h.stepService.Reject(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "failed to reject step")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: step})
}

// ExecuteStep handles POST /api/steps/:id/execute
func (h *Handlers) ExecuteStep(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.executionService.ExecuteStep(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "failed to execute step")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// GetStepLogs handles GET /api/steps/:id/logs
func (h *Handlers) GetStepLogs(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	logs, err := h.executionService.StepLogs(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "failed to get step logs")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: logs})
}

// GetStepArtifacts handles GET /api/steps/:id/artifacts
func (h *Handlers) GetStepArtifacts(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	artifacts, err := h.executionService.StepArtifacts(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "failed to get step artifacts")
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: artifacts})
}

// DownloadArtifact handles GET /api/steps/:id/artifacts/:artifactID/content
func (h *Handlers) DownloadArtifact(c *gin.Context) {
	stepID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	artifactID, ok := h.pathID(c, "artifactID")
	if !ok {
		return
	}

	artifact, content, err := h.executionService.ArtifactContent(c.Request.Context(), stepID, artifactID)
	if err != nil {
		h.fail(c, err, "failed to read artifact")
		return
	}

	c.Data(http.StatusOK, artifact.ContentType, content)
}

// pathID parses a path parameter as an int64 ID
func (h *Handlers) pathID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid " + name + " parameter",
		})
		return 0, false
	}
	return id, true
}

// fail translates a service error into the response envelope with the status
// code its kind maps to.
func (h *Handlers) fail(c *gin.Context, err error, logMsg string) {
	svcErr := service.AsError(err)
	if svcErr.HTTPStatus() >= http.StatusInternalServerError {
		h.logger.Error(logMsg, "error", err, "path", c.Request.URL.Path)
	}
	c.JSON(svcErr.HTTPStatus(), Response{
		Success: false,
		Error:   svcErr.Message,
	})
}
