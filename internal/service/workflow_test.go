package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"identity-console/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// workflowSettings returns a settings repo whose workflow URL points at the
// given test server.
func workflowSettings(url string) *MockSettingsRepo {
	repo := new(MockSettingsRepo)
	repo.On("Get", mock.Anything, domain.SettingWorkflowURL).Return(url, nil)
	return repo
}

func TestWorkflowService_Test(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		var received ProvisionInput
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		settingsSvc := NewSettingsService(workflowSettings(server.URL), stubAudit{})
		svc := NewWorkflowService(5*time.Second, settingsSvc, nil, stubAudit{})

		err := svc.Test(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "test@example.com", received.Email)
		assert.Equal(t, "Test User", received.FullName)
	})

	t.Run("ServerError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		settingsSvc := NewSettingsService(workflowSettings(server.URL), stubAudit{})
		svc := NewWorkflowService(5*time.Second, settingsSvc, nil, stubAudit{})

		err := svc.Test(ctx)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("NoURLConfigured", func(t *testing.T) {
		mockRepo := new(MockSettingsRepo)
		mockRepo.On("Get", mock.Anything, domain.SettingWorkflowURL).Return("", domain.ErrNotFound)
		settingsSvc := NewSettingsService(mockRepo, stubAudit{})
		svc := NewWorkflowService(5*time.Second, settingsSvc, nil, stubAudit{})

		err := svc.Test(ctx)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Contains(t, err.Error(), "no workflow URL configured")
	})
}

func TestWorkflowService_Pull(t *testing.T) {
	ctx := context.Background()

	t.Run("ProvisionsValidRecords", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode([]ProvisionInput{
				{Email: "a@example.com", FullName: "A", Department: "IT"},
				{Email: "b@example.com", FullName: "B"},
			})
		}))
		defer server.Close()

		mockIdentityRepo := new(MockIdentityRepo)
		mockIdentityRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

		settingsRepo := workflowSettings(server.URL)
		settingsRepo.On("Get", mock.Anything, domain.SettingDirectory).Return("", domain.ErrNotFound)
		settingsSvc := NewSettingsService(settingsRepo, stubAudit{})
		identitySvc := NewIdentityService(mockIdentityRepo, settingsSvc, NewNoopProvisioner(), stubAudit{}, newTestSyncRecorder())
		svc := NewWorkflowService(5*time.Second, settingsSvc, identitySvc, stubAudit{})

		result, err := svc.Pull(ctx)
		assert.NoError(t, err)
		// The record without a department is skipped, not fatal.
		assert.Equal(t, 1, result.Provisioned)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, []string{"a@example.com"}, result.Emails)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"not":"an array"}`))
		}))
		defer server.Close()

		settingsSvc := NewSettingsService(workflowSettings(server.URL), stubAudit{})
		svc := NewWorkflowService(5*time.Second, settingsSvc, nil, stubAudit{})

		_, err := svc.Pull(ctx)
		assert.Error(t, err)
	})

	t.Run("ServerError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		settingsSvc := NewSettingsService(workflowSettings(server.URL), stubAudit{})
		svc := NewWorkflowService(5*time.Second, settingsSvc, nil, stubAudit{})

		_, err := svc.Pull(ctx)
		assert.Error(t, err)
	})
}
