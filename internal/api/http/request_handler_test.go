package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"identity-console/internal/domain"
	"identity-console/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAccessRequestService struct {
	mock.Mock
}

func (m *MockAccessRequestService) Submit(ctx context.Context, in service.SubmitRequestInput) (*domain.AccessRequest, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessRequest), args.Error(1)
}

func (m *MockAccessRequestService) Approve(ctx context.Context, id string) (*domain.AccessRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessRequest), args.Error(1)
}

func (m *MockAccessRequestService) Reject(ctx context.Context, id string) (*domain.AccessRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessRequest), args.Error(1)
}

func (m *MockAccessRequestService) Get(ctx context.Context, id string) (*domain.AccessRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessRequest), args.Error(1)
}

func (m *MockAccessRequestService) List(ctx context.Context) ([]domain.AccessRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccessRequest), args.Error(1)
}

func newRequestRouter(svc service.AccessRequestService) http.Handler {
	return NewRouter(Services{Requests: svc})
}

func TestAccessRequestHandler_Submit(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		mockSvc := new(MockAccessRequestService)
		mockSvc.On("Submit", mock.Anything, service.SubmitRequestInput{
			FullName:   "Jane Doe",
			Email:      "jane@example.com",
			Department: "Engineering",
		}).Return(&domain.AccessRequest{ID: "req-1", Status: domain.RequestStatusPending}, nil).Once()

		body := `{"fullName":"Jane Doe","email":"jane@example.com","department":"Engineering"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(body))
		rec := httptest.NewRecorder()
		newRequestRouter(mockSvc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		var got domain.AccessRequest
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "req-1", got.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("ValidationFailure", func(t *testing.T) {
		mockSvc := new(MockAccessRequestService)
		mockSvc.On("Submit", mock.Anything, mock.Anything).
			Return(nil, domain.ErrInvalidInput).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		newRequestRouter(mockSvc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		mockSvc := new(MockAccessRequestService)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(`{`))
		rec := httptest.NewRecorder()
		newRequestRouter(mockSvc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockSvc.AssertNotCalled(t, "Submit")
	})
}

func TestAccessRequestHandler_Decisions(t *testing.T) {
	t.Run("Approve", func(t *testing.T) {
		mockSvc := new(MockAccessRequestService)
		mockSvc.On("Approve", mock.Anything, "req-1").
			Return(&domain.AccessRequest{ID: "req-1", Status: domain.RequestStatusApproved}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/requests/req-1/approve", nil)
		rec := httptest.NewRecorder()
		newRequestRouter(mockSvc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("AlreadyDecidedConflict", func(t *testing.T) {
		mockSvc := new(MockAccessRequestService)
		mockSvc.On("Approve", mock.Anything, "req-1").
			Return(nil, domain.ErrAlreadyDecided).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/requests/req-1/approve", nil)
		rec := httptest.NewRecorder()
		newRequestRouter(mockSvc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("RejectNotFound", func(t *testing.T) {
		mockSvc := new(MockAccessRequestService)
		mockSvc.On("Reject", mock.Anything, "missing").
			Return(nil, domain.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/v1/requests/missing/reject", nil)
		rec := httptest.NewRecorder()
		newRequestRouter(mockSvc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAccessRequestHandler_List(t *testing.T) {
	t.Run("EmptyStoreYieldsEmptyArray", func(t *testing.T) {
		mockSvc := new(MockAccessRequestService)
		mockSvc.On("List", mock.Anything).Return(nil, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/requests", nil)
		rec := httptest.NewRecorder()
		newRequestRouter(mockSvc).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
	})
}

func TestHealthz(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	NewRouter(Services{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
