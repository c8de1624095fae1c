package logger

import (
	"go.temporal.io/sdk/workflow"
	"go.uber.org/zap"
)

// WorkflowInfo identifies a workflow execution in log entries and Sentry events
type WorkflowInfo struct {
	WorkflowType string
	WorkflowID   string
	RunID        string
	Namespace    string
	TaskQueue    string
}

// GetWorkflowInfo extracts workflow information from workflow.Context
// Returns nil if workflow info is not available
func GetWorkflowInfo(ctx workflow.Context) *WorkflowInfo {
	info := workflow.GetInfo(ctx)
	if info == nil {
		return nil
	}

	workflowTypeName := info.WorkflowType.Name
	if workflowTypeName == "" {
		workflowTypeName = "unknown"
	}

	return &WorkflowInfo{
		WorkflowType: workflowTypeName,
		WorkflowID:   info.WorkflowExecution.ID,
		RunID:        info.WorkflowExecution.RunID,
		Namespace:    info.Namespace,
		TaskQueue:    info.TaskQueueName,
	}
}

// WithWorkflowInfo returns the global logger annotated with the workflow execution
func WithWorkflowInfo(info WorkflowInfo) *zap.Logger {
	return log.With(
		zap.String("workflow_type", info.WorkflowType),
		zap.String("workflow_id", info.WorkflowID),
		zap.String("run_id", info.RunID),
		zap.String("namespace", info.Namespace),
		zap.String("task_queue", info.TaskQueue),
	)
}

// FromWorkflow returns a logger annotated with the workflow execution
// Usage:
//
//	logger.FromWorkflow(ctx, nil).Info("Publishing curated tables", ...)
func FromWorkflow(ctx workflow.Context, info *WorkflowInfo) *zap.Logger {
	if info == nil {
		info = GetWorkflowInfo(ctx)
	}
	if info == nil {
		return log
	}
	return WithWorkflowInfo(*info)
}

// InfoWf logs an info message with workflow context
func InfoWf(ctx workflow.Context, msg string, fields ...zap.Field) {
	FromWorkflow(ctx, nil).Info(msg, fields...)
}

// ErrorWf logs an error with workflow context
func ErrorWf(ctx workflow.Context, err error, fields ...zap.Field) {
	l := FromWorkflow(ctx, nil)
	if err != nil {
		l.Error(err.Error(), fields...)
		return
	}
	l.Error("error occurred", fields...)
}

// WarnWf logs a warning message with workflow context
func WarnWf(ctx workflow.Context, msg string, fields ...zap.Field) {
	FromWorkflow(ctx, nil).Warn(msg, fields...)
}

// DebugWf logs a debug message with workflow context
func DebugWf(ctx workflow.Context, msg string, fields ...zap.Field) {
	FromWorkflow(ctx, nil).Debug(msg, fields...)
}
