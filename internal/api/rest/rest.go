package rest

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cecilvega/kverse-sub000/internal/api/middleware"
)

// SetupRoutes configures all REST API routes.
// A nil authenticator leaves the run trigger open.
func SetupRoutes(router *gin.Engine, handler Handler, authenticator *middleware.Authenticator) {
	trigger := []gin.HandlerFunc{handler.TriggerReconciliation}
	if authenticator != nil {
		trigger = append([]gin.HandlerFunc{middleware.Auth(authenticator)}, trigger...)
	}

	// Unversioned operational endpoints
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		// Curated table lookups
		v1.GET("/components/:serial/history", handler.GetComponentHistory)
		v1.GET("/components/:serial/reparations", handler.GetComponentReparations)
		v1.GET("/parts/:serial/lifecycle", handler.GetPartLifecycle)
		v1.GET("/fleet/bounds", handler.GetFleetBounds)

		// On-demand trace against the current pivot
		v1.POST("/traces", handler.TracePart)

		// Reconciliation workflows
		v1.POST("/runs", trigger...)
		v1.GET("/runs/:workflow_id/:run_id", handler.GetWorkflowStatus)

		// Run audit records
		v1.GET("/reconciliation-runs/latest", handler.GetLatestRun)
		v1.GET("/reconciliation-runs/:run_id", handler.GetRun)
	}
}
