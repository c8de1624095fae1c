package rest_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cecilvega/kverse-sub000/internal/api/rest"
	"github.com/cecilvega/kverse-sub000/internal/api/shared/dto"
	apierrors "github.com/cecilvega/kverse-sub000/internal/api/shared/errors"
	"github.com/cecilvega/kverse-sub000/internal/domain"
	"github.com/cecilvega/kverse-sub000/internal/mocks"
)

func setupRouter(t *testing.T) (*gin.Engine, *mocks.MockAPIExecutor) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	exec := mocks.NewMockAPIExecutor(ctrl)

	router := gin.New()
	rest.SetupRoutes(router, rest.NewHandler(exec), nil)
	return router, exec
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierrors.APIError {
	t.Helper()
	var apiErr apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	return apiErr
}

func TestHealthCheck(t *testing.T) {
	router, _ := setupRouter(t)

	w := doRequest(router, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","service":"kverse-api"}`, w.Body.String())
}

func TestGetComponentHistory(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		setupMocks func(*mocks.MockAPIExecutor)
		wantStatus int
		wantCode   apierrors.ErrorCode
	}{
		{
			name: "found",
			path: "/api/v1/components/MOTOR_A/history",
			setupMocks: func(exec *mocks.MockAPIExecutor) {
				exec.EXPECT().GetComponentHistory(gomock.Any(), "MOTOR_A").Return(&dto.ComponentHistoryResponse{
					ComponentSerial: "MOTOR_A",
					History:         []domain.ComponentHistory{{ResoMerge: domain.MergeDirect}},
				}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "blank serial",
			path:       "/api/v1/components/%20/history",
			setupMocks: func(exec *mocks.MockAPIExecutor) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   apierrors.ErrCodeBadRequest,
		},
		{
			name: "not found",
			path: "/api/v1/components/MOTOR_Z/history",
			setupMocks: func(exec *mocks.MockAPIExecutor) {
				exec.EXPECT().GetComponentHistory(gomock.Any(), "MOTOR_Z").Return(nil, nil)
			},
			wantStatus: http.StatusNotFound,
			wantCode:   apierrors.ErrCodeNotFound,
		},
		{
			name: "database error",
			path: "/api/v1/components/MOTOR_A/history",
			setupMocks: func(exec *mocks.MockAPIExecutor) {
				exec.EXPECT().GetComponentHistory(gomock.Any(), "MOTOR_A").
					Return(nil, apierrors.NewDatabaseError("Failed to get component history"))
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   apierrors.ErrCodeDatabaseError,
		},
		{
			name: "unexpected error",
			path: "/api/v1/components/MOTOR_A/history",
			setupMocks: func(exec *mocks.MockAPIExecutor) {
				exec.EXPECT().GetComponentHistory(gomock.Any(), "MOTOR_A").Return(nil, errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   apierrors.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, exec := setupRouter(t)
			tt.setupMocks(exec)

			w := doRequest(router, http.MethodGet, tt.path, "")

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, w).Code)
				return
			}

			var resp dto.ComponentHistoryResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "MOTOR_A", resp.ComponentSerial)
			assert.Len(t, resp.History, 1)
		})
	}
}

func TestGetPartLifecycle_NotFound(t *testing.T) {
	router, exec := setupRouter(t)
	exec.EXPECT().GetPartLifecycle(gomock.Any(), "P404").Return(nil, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/parts/P404/lifecycle", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetFleetBounds(t *testing.T) {
	router, exec := setupRouter(t)
	exec.EXPECT().GetFleetBounds(gomock.Any()).Return(&dto.FleetBoundsResponse{
		Bounds: []domain.FleetBound{{SubcomponentTag: "5A30", PartName: "sun_gear"}},
	}, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/fleet/bounds", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.FleetBoundsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Bounds, 1)
}

func TestTracePart(t *testing.T) {
	report := domain.StartingReport{ComponentSerial: "MOTOR_A", ServiceOrder: 4, PartName: "sun_gear"}

	tests := []struct {
		name       string
		body       string
		setupMocks func(*mocks.MockAPIExecutor)
		wantStatus int
		wantCode   apierrors.ErrorCode
	}{
		{
			name: "success",
			body: `{"component_serial":"MOTOR_A","service_order":4,"part_name":"sun_gear"}`,
			setupMocks: func(exec *mocks.MockAPIExecutor) {
				exec.EXPECT().TracePart(gomock.Any(), report).Return(&dto.PartLifecycleResponse{
					PartOfInterest: "P101",
					Events:         []domain.PartLifecycleEvent{{PartOfInterest: "P101"}},
				}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing part name",
			body:       `{"component_serial":"MOTOR_A","service_order":4}`,
			setupMocks: func(exec *mocks.MockAPIExecutor) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   apierrors.ErrCodeValidationFailed,
		},
		{
			name:       "malformed body",
			body:       `{"component_serial":`,
			setupMocks: func(exec *mocks.MockAPIExecutor) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   apierrors.ErrCodeValidationFailed,
		},
		{
			name: "inconsistent history",
			body: `{"component_serial":"MOTOR_A","service_order":4,"part_name":"sun_gear"}`,
			setupMocks: func(exec *mocks.MockAPIExecutor) {
				exec.EXPECT().TracePart(gomock.Any(), report).
					Return(nil, apierrors.NewDataIntegrityError("Part history is inconsistent"))
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   apierrors.ErrCodeDataIntegrity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, exec := setupRouter(t)
			tt.setupMocks(exec)

			w := doRequest(router, http.MethodPost, "/api/v1/traces", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, w).Code)
				return
			}

			var resp dto.PartLifecycleResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "P101", resp.PartOfInterest)
		})
	}
}

func TestTriggerReconciliation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMocks func(*mocks.MockAPIExecutor)
		wantStatus int
	}{
		{
			name: "empty body",
			setupMocks: func(exec *mocks.MockAPIExecutor) {
				exec.EXPECT().TriggerReconciliation(gomock.Any(), dto.TriggerReconciliationRequest{}).
					Return(&dto.TriggerReconciliationResponse{WorkflowID: "reconcile-1", RunID: "wf-run-1"}, nil)
			},
			wantStatus: http.StatusAccepted,
		},
		{
			name: "publish and notify",
			body: `{"publish":true,"notify":true}`,
			setupMocks: func(exec *mocks.MockAPIExecutor) {
				exec.EXPECT().TriggerReconciliation(gomock.Any(), dto.TriggerReconciliationRequest{Publish: true, Notify: true}).
					Return(&dto.TriggerReconciliationResponse{WorkflowID: "reconcile-1", RunID: "wf-run-1"}, nil)
			},
			wantStatus: http.StatusAccepted,
		},
		{
			name:       "notify without publish",
			body:       `{"notify":true}`,
			setupMocks: func(exec *mocks.MockAPIExecutor) {},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "orchestrator unavailable",
			body: `{"publish":true}`,
			setupMocks: func(exec *mocks.MockAPIExecutor) {
				exec.EXPECT().TriggerReconciliation(gomock.Any(), gomock.Any()).
					Return(nil, apierrors.NewServiceError("Failed to trigger reconciliation"))
			},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, exec := setupRouter(t)
			tt.setupMocks(exec)

			w := doRequest(router, http.MethodPost, "/api/v1/runs", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusAccepted {
				var resp dto.TriggerReconciliationResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "reconcile-1", resp.WorkflowID)
			}
		})
	}
}

func TestGetWorkflowStatus(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		router, exec := setupRouter(t)
		exec.EXPECT().GetWorkflowStatus(gomock.Any(), "reconcile-1", "wf-run-1").
			Return(&dto.WorkflowStatusResponse{WorkflowID: "reconcile-1", RunID: "wf-run-1", Status: "Completed"}, nil)

		w := doRequest(router, http.MethodGet, "/api/v1/runs/reconcile-1/wf-run-1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"Completed"`)
	})

	t.Run("not found", func(t *testing.T) {
		router, exec := setupRouter(t)
		exec.EXPECT().GetWorkflowStatus(gomock.Any(), "reconcile-1", "wf-run-1").Return(nil, nil)

		w := doRequest(router, http.MethodGet, "/api/v1/runs/reconcile-1/wf-run-1", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetRuns(t *testing.T) {
	t.Run("latest", func(t *testing.T) {
		router, exec := setupRouter(t)
		exec.EXPECT().GetRun(gomock.Any(), "").Return(&dto.RunResponse{ID: "RUN2", Status: "succeeded"}, nil)

		w := doRequest(router, http.MethodGet, "/api/v1/reconciliation-runs/latest", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"RUN2"`)
	})

	t.Run("by id", func(t *testing.T) {
		router, exec := setupRouter(t)
		exec.EXPECT().GetRun(gomock.Any(), "RUN1").Return(&dto.RunResponse{ID: "RUN1", Status: "failed"}, nil)

		w := doRequest(router, http.MethodGet, "/api/v1/reconciliation-runs/RUN1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"failed"`)
	})

	t.Run("missing", func(t *testing.T) {
		router, exec := setupRouter(t)
		exec.EXPECT().GetRun(gomock.Any(), "RUN9").Return(nil, nil)

		w := doRequest(router, http.MethodGet, "/api/v1/reconciliation-runs/RUN9", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
