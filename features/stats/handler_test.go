package stats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockKBRepo struct{ mock.Mock }

func (m *MockKBRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockDocRepo struct{ mock.Mock }

func (m *MockDocRepo) CountDocuments(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockDocRepo) CountChunks(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestHandler_GetStats(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(*MockKBRepo, *MockDocRepo)
		wantStatus int
		wantBody   *StatsResponse
	}{
		{
			name: "Success",
			setupMocks: func(kb *MockKBRepo, docs *MockDocRepo) {
				kb.On("Count", mock.Anything).Return(2, nil)
				docs.On("CountDocuments", mock.Anything).Return(5, nil)
				docs.On("CountChunks", mock.Anything).Return(40, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   &StatsResponse{KnowledgeBases: 2, Documents: 5, Chunks: 40},
		},
		{
			name: "KB count fails",
			setupMocks: func(kb *MockKBRepo, docs *MockDocRepo) {
				kb.On("Count", mock.Anything).Return(0, errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "Chunk count fails",
			setupMocks: func(kb *MockKBRepo, docs *MockDocRepo) {
				kb.On("Count", mock.Anything).Return(2, nil)
				docs.On("CountDocuments", mock.Anything).Return(5, nil)
				docs.On("CountChunks", mock.Anything).Return(0, errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kbRepo := &MockKBRepo{}
			docRepo := &MockDocRepo{}
			tt.setupMocks(kbRepo, docRepo)

			handler := NewHandler(kbRepo, docRepo)
			req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
			w := httptest.NewRecorder()
			handler.GetStats(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != nil {
				var resp struct {
					Data StatsResponse `json:"data"`
				}
				assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				assert.Equal(t, *tt.wantBody, resp.Data)
			}

			kbRepo.AssertExpectations(t)
			docRepo.AssertExpectations(t)
		})
	}
}
