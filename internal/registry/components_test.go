package registry_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cecilvega/kverse-sub000/internal/domain"
	"github.com/cecilvega/kverse-sub000/internal/mocks"
	"github.com/cecilvega/kverse-sub000/internal/registry"
)

func TestComponentRegistryLoader_Load(t *testing.T) {
	tests := []struct {
		name         string
		setupMocks   func(*mocks.MockFileSystem, *mocks.MockJSON)
		expectedErr  string // Error message to assert, empty means no error expected
		validateFunc func(t *testing.T, reg registry.ComponentRegistry)
	}{
		{
			name: "successful load with valid JSON",
			setupMocks: func(mockFS *mocks.MockFileSystem, mockJSON *mocks.MockJSON) {
				mockFS.
					EXPECT().
					ReadFile("components.json").
					Return([]byte(`{"mappings": [
						{"main_component": "Transmisión", "subcomponent_tag": "0980", "component_name": "transmision", "subcomponent_name": "transmision"},
						{"main_component": "Mando Final", "subcomponent_tag": "5A30", "component_name": "mando_final", "subcomponent_name": "mando_final"}
					]}`), nil)
				mockJSON.
					EXPECT().
					Unmarshal(gomock.Any(), gomock.Any()).
					DoAndReturn(func(data []byte, v interface{}) error {
						return json.Unmarshal(data, v)
					})
			},
			validateFunc: func(t *testing.T, reg registry.ComponentRegistry) {
				m, ok := reg.Lookup("  mando final ")
				require.True(t, ok)
				assert.Equal(t, "5A30", m.SubcomponentTag)
				assert.Equal(t, "mando_final", m.ComponentName)

				_, ok = reg.Lookup("motor")
				assert.False(t, ok)

				mappings := reg.Mappings()
				require.Len(t, mappings, 2)
				assert.Equal(t, "0980", mappings[0].SubcomponentTag)
			},
		},
		{
			name: "read error",
			setupMocks: func(mockFS *mocks.MockFileSystem, mockJSON *mocks.MockJSON) {
				mockFS.
					EXPECT().
					ReadFile("components.json").
					Return(nil, errors.New("no such file"))
			},
			expectedErr: "failed to read component mapping file",
		},
		{
			name: "invalid JSON",
			setupMocks: func(mockFS *mocks.MockFileSystem, mockJSON *mocks.MockJSON) {
				mockFS.
					EXPECT().
					ReadFile("components.json").
					Return([]byte(`{`), nil)
				mockJSON.
					EXPECT().
					Unmarshal(gomock.Any(), gomock.Any()).
					DoAndReturn(func(data []byte, v interface{}) error {
						return json.Unmarshal(data, v)
					})
			},
			expectedErr: "failed to parse component mapping JSON",
		},
		{
			name: "duplicate main component",
			setupMocks: func(mockFS *mocks.MockFileSystem, mockJSON *mocks.MockJSON) {
				mockFS.
					EXPECT().
					ReadFile("components.json").
					Return([]byte(`{"mappings": [
						{"main_component": "Mando Final", "subcomponent_tag": "5A30", "component_name": "mando_final", "subcomponent_name": "mando_final"},
						{"main_component": "MANDO FINAL", "subcomponent_tag": "5A31", "component_name": "mando_final", "subcomponent_name": "mando_final"}
					]}`), nil)
				mockJSON.
					EXPECT().
					Unmarshal(gomock.Any(), gomock.Any()).
					DoAndReturn(func(data []byte, v interface{}) error {
						return json.Unmarshal(data, v)
					})
			},
			expectedErr: "duplicate component mapping",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockFS := mocks.NewMockFileSystem(ctrl)
			mockJSON := mocks.NewMockJSON(ctrl)
			tt.setupMocks(mockFS, mockJSON)

			loader := registry.NewComponentRegistryLoader(mockFS, mockJSON)
			reg, err := loader.Load("components.json")

			if tt.expectedErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)
				assert.Nil(t, reg)
				return
			}

			require.NoError(t, err)
			tt.validateFunc(t, reg)
		})
	}
}

func TestNewComponentRegistry_IncompleteMapping(t *testing.T) {
	_, err := registry.NewComponentRegistry([]registry.ComponentMapping{{MainComponent: "Motor"}})
	assert.ErrorIs(t, err, domain.ErrComponentMappingNotFound)
}
