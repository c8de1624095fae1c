package rest

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cecilvega/kverse-sub000/internal/api/shared/dto"
	"github.com/cecilvega/kverse-sub000/internal/api/shared/executor"
	"github.com/cecilvega/kverse-sub000/internal/domain"
)

// Handler defines the interface for REST API handlers
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// GetComponentHistory retrieves the linked change-outs of a component serial
	// GET /api/v1/components/:serial/history
	GetComponentHistory(c *gin.Context)

	// GetComponentReparations retrieves the repairs of a component serial
	// GET /api/v1/components/:serial/reparations
	GetComponentReparations(c *gin.Context)

	// GetPartLifecycle retrieves the stored lifecycle of a part of interest
	// GET /api/v1/parts/:serial/lifecycle
	GetPartLifecycle(c *gin.Context)

	// GetFleetBounds retrieves the fleet bounds of every part type
	// GET /api/v1/fleet/bounds
	GetFleetBounds(c *gin.Context)

	// TracePart traces one starting report against the current pivot and overrides
	// POST /api/v1/traces
	TracePart(c *gin.Context)

	// TriggerReconciliation starts a reconciliation workflow
	// POST /api/v1/runs
	TriggerReconciliation(c *gin.Context)

	// GetWorkflowStatus retrieves the status of a reconciliation workflow execution
	// GET /api/v1/runs/:workflow_id/:run_id
	GetWorkflowStatus(c *gin.Context)

	// GetRun retrieves the audit record of a run
	// GET /api/v1/reconciliation-runs/:run_id
	GetRun(c *gin.Context)

	// GetLatestRun retrieves the audit record of the most recent run
	// GET /api/v1/reconciliation-runs/latest
	GetLatestRun(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	executor executor.Executor
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(exec executor.Executor) Handler {
	return &handler{
		executor: exec,
	}
}

// serialParam reads and trims the :serial path parameter
func serialParam(c *gin.Context) (string, bool) {
	serial := strings.TrimSpace(c.Param("serial"))
	if serial == "" {
		respondBadRequest(c, "serial is required")
		return "", false
	}
	return serial, true
}

func (h *handler) GetComponentHistory(c *gin.Context) {
	serial, ok := serialParam(c)
	if !ok {
		return
	}

	resp, err := h.executor.GetComponentHistory(c.Request.Context(), serial)
	if err != nil {
		respondError(c, err, "Failed to get component history")
		return
	}
	if resp == nil {
		respondNotFound(c, "Component not found", serial)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetComponentReparations(c *gin.Context) {
	serial, ok := serialParam(c)
	if !ok {
		return
	}

	resp, err := h.executor.GetComponentReparations(c.Request.Context(), serial)
	if err != nil {
		respondError(c, err, "Failed to get component reparations")
		return
	}
	if resp == nil {
		respondNotFound(c, "Component not found", serial)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetPartLifecycle(c *gin.Context) {
	serial, ok := serialParam(c)
	if !ok {
		return
	}

	resp, err := h.executor.GetPartLifecycle(c.Request.Context(), serial)
	if err != nil {
		respondError(c, err, "Failed to get part lifecycle")
		return
	}
	if resp == nil {
		respondNotFound(c, "Part not found", serial)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) GetFleetBounds(c *gin.Context) {
	resp, err := h.executor.GetFleetBounds(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get fleet bounds")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) TracePart(c *gin.Context) {
	var report domain.StartingReport
	if err := c.ShouldBindJSON(&report); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	resp, err := h.executor.TracePart(c.Request.Context(), report)
	if err != nil {
		respondError(c, err, "Failed to trace part")
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) TriggerReconciliation(c *gin.Context) {
	var req dto.TriggerReconciliationRequest
	// an empty body reconciles without publishing
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
			return
		}
	}
	if err := req.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	resp, err := h.executor.TriggerReconciliation(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to trigger reconciliation")
		return
	}

	c.JSON(http.StatusAccepted, resp)
}

func (h *handler) GetWorkflowStatus(c *gin.Context) {
	workflowID := c.Param("workflow_id")
	if workflowID == "" {
		respondBadRequest(c, "workflow_id is required")
		return
	}

	runID := c.Param("run_id")
	if runID == "" {
		respondBadRequest(c, "run_id is required")
		return
	}

	status, err := h.executor.GetWorkflowStatus(c.Request.Context(), workflowID, runID)
	if err != nil {
		respondError(c, err, "Failed to get workflow status")
		return
	}
	if status == nil {
		respondNotFound(c, "Workflow not found", workflowID)
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *handler) GetRun(c *gin.Context) {
	runID := c.Param("run_id")
	if runID == "" {
		respondBadRequest(c, "run_id is required")
		return
	}
	h.respondRun(c, runID)
}

func (h *handler) GetLatestRun(c *gin.Context) {
	h.respondRun(c, "")
}

func (h *handler) respondRun(c *gin.Context, runID string) {
	run, err := h.executor.GetRun(c.Request.Context(), runID)
	if err != nil {
		respondError(c, err, "Failed to get run")
		return
	}
	if run == nil {
		respondNotFound(c, "Run not found", runID)
		return
	}

	c.JSON(http.StatusOK, run)
}

func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "kverse-api",
	})
}
