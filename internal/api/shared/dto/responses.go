package dto

import (
	"encoding/json"
	"time"

	"github.com/cecilvega/kverse-sub000/internal/domain"
	"github.com/cecilvega/kverse-sub000/internal/store/schema"
)

// ComponentHistoryResponse lists the linked change-outs of a component serial
type ComponentHistoryResponse struct {
	ComponentSerial string                    `json:"component_serial"`
	History         []domain.ComponentHistory `json:"history"`
}

// ComponentReparationsResponse lists the repairs of a component serial
type ComponentReparationsResponse struct {
	ComponentSerial string                       `json:"component_serial"`
	Reparations     []domain.ComponentReparation `json:"reparations"`
}

// PartLifecycleResponse lists the lifecycle events of a part, most recent visit first
type PartLifecycleResponse struct {
	PartOfInterest string                      `json:"part_of_interest"`
	Events         []domain.PartLifecycleEvent `json:"events"`
}

// FleetBoundsResponse lists the fleet bounds of every part type
type FleetBoundsResponse struct {
	Bounds []domain.FleetBound `json:"bounds"`
}

// TriggerReconciliationResponse identifies the started workflow
type TriggerReconciliationResponse struct {
	WorkflowID string `json:"workflow_id"`
	RunID      string `json:"run_id"`
}

// WorkflowStatusResponse represents the status of a Temporal workflow execution
type WorkflowStatusResponse struct {
	WorkflowID    string     `json:"workflow_id"`
	RunID         string     `json:"run_id"`
	Status        string     `json:"status"`
	StartTime     *time.Time `json:"start_time,omitempty"`
	CloseTime     *time.Time `json:"close_time,omitempty"`
	ExecutionTime *uint64    `json:"execution_time_ms,omitempty"` // Execution time in milliseconds
}

// RunResponse is the audit record of a reconciliation run
type RunResponse struct {
	ID         string          `json:"id"`
	Status     string          `json:"status"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
	Summary    json.RawMessage `json:"summary,omitempty"`
	Error      *string         `json:"error,omitempty"`
}

// MapRunToDTO maps a run row to its response
func MapRunToDTO(run *schema.ReconciliationRun) *RunResponse {
	resp := &RunResponse{
		ID:         run.ID,
		Status:     string(run.Status),
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Error:      run.Error,
	}
	if len(run.Summary) > 0 {
		resp.Summary = json.RawMessage(run.Summary)
	}
	return resp
}
