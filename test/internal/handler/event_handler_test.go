package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"event-content-service/internal/handler"
	"event-content-service/internal/model"
	services "event-content-service/test/internal/mocks/services"

	apperrors "event-content-service/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupEventTestRouter(mockService *services.EventServiceMock, mockSubscriptions *services.SubscriptionServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	eventHandler := handler.NewEventHandler(mockService, mockSubscriptions)
	eventHandler.RegisterRoutes(router, testJWTSecret)

	return router
}

func sampleEvent(userID int) *model.Event {
	return &model.Event{
		ID:                     1,
		State:                  model.EventStateCreated,
		Title:                  "Our Wedding",
		PictureSet:             model.PictureSet{Pictures: []model.Picture{}},
		SubEventDetails:        model.DefaultSubEventDetails(),
		UiState:                model.UiState{ShowSetupWizard: true},
		UserID:                 userID,
		CurrentActiveSubDomain: "event-abc123",
	}
}

func TestCreateEvent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := services.NewEventServiceMock()
		router := setupEventTestRouter(mockService, services.NewSubscriptionServiceMock())

		mockService.On("Create", mock.Anything, 1, model.CreateEventRequest{Title: "Our Wedding"}, mock.Anything).
			Return(sampleEvent(1), nil).Once()

		req := createAuthedJSONHTTPRequest("POST", "/private/events", model.CreateEventRequest{Title: "Our Wedding"}, 1)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - ErrEventAlreadyExists", func(t *testing.T) {
		mockService := services.NewEventServiceMock()
		router := setupEventTestRouter(mockService, services.NewSubscriptionServiceMock())

		mockService.On("Create", mock.Anything, 1, mock.Anything, mock.Anything).
			Return(nil, apperrors.ErrEventAlreadyExists).Once()

		req := createAuthedJSONHTTPRequest("POST", "/private/events", model.CreateEventRequest{Title: "Second"}, 1)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - BindingError", func(t *testing.T) {
		mockService := services.NewEventServiceMock()
		router := setupEventTestRouter(mockService, services.NewSubscriptionServiceMock())

		req := createAuthedJSONHTTPRequest("POST", "/private/events", InvalidJSON, 1)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Create")
	})

	t.Run("Failed - MissingToken", func(t *testing.T) {
		mockService := services.NewEventServiceMock()
		router := setupEventTestRouter(mockService, services.NewSubscriptionServiceMock())

		req := createJSONHTTPRequest("POST", "/private/events", model.CreateEventRequest{Title: "Our Wedding"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockService.AssertNotCalled(t, "Create")
	})

	t.Run("Failed - BadToken", func(t *testing.T) {
		mockService := services.NewEventServiceMock()
		router := setupEventTestRouter(mockService, services.NewSubscriptionServiceMock())

		req := createJSONHTTPRequest("POST", "/private/events", model.CreateEventRequest{Title: "Our Wedding"})
		req.Header.Set("Authorization", "Bearer not-a-token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockService.AssertNotCalled(t, "Create")
	})
}

func TestGetEvent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := services.NewEventServiceMock()
		router := setupEventTestRouter(mockService, services.NewSubscriptionServiceMock())

		mockService.On("GetByUser", mock.Anything, 1).Return(sampleEvent(1), nil).Once()

		req := createAuthedJSONHTTPRequest("GET", "/private/events", nil, 1)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - NotFound", func(t *testing.T) {
		mockService := services.NewEventServiceMock()
		router := setupEventTestRouter(mockService, services.NewSubscriptionServiceMock())

		mockService.On("GetByUser", mock.Anything, 1).Return(nil, apperrors.ErrEventNotFound).Once()

		req := createAuthedJSONHTTPRequest("GET", "/private/events", nil, 1)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - Removed", func(t *testing.T) {
		mockService := services.NewEventServiceMock()
		router := setupEventTestRouter(mockService, services.NewSubscriptionServiceMock())

		mockService.On("GetByUser", mock.Anything, 1).Return(nil, apperrors.ErrEventRemoved).Once()

		req := createAuthedJSONHTTPRequest("GET", "/private/events", nil, 1)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusGone, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestUpdateEvent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := services.NewEventServiceMock()
		router := setupEventTestRouter(mockService, services.NewSubscriptionServiceMock())

		mockService.On("Update", mock.Anything, 1, mock.Anything, mock.Anything).
			Return(sampleEvent(1), nil).Once()

		title := "Renamed Wedding"
		req := createAuthedJSONHTTPRequest("PUT", "/private/events", model.UpdateEventRequest{Title: &title}, 1)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - EmptyBody", func(t *testing.T) {
		mockService := services.NewEventServiceMock()
		router := setupEventTestRouter(mockService, services.NewSubscriptionServiceMock())

		req := createAuthedJSONHTTPRequest("PUT", "/private/events", model.UpdateEventRequest{}, 1)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Update")
	})

	t.Run("Failed - ErrSubDomainInUse", func(t *testing.T) {
		mockService := services.NewEventServiceMock()
		router := setupEventTestRouter(mockService, services.NewSubscriptionServiceMock())

		mockService.On("Update", mock.Anything, 1, mock.Anything, mock.Anything).
			Return(nil, apperrors.ErrSubDomainInUse).Once()

		subdomain := "contested"
		req := createAuthedJSONHTTPRequest("PUT", "/private/events", model.UpdateEventRequest{CurrentActiveSubDomain: &subdomain}, 1)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - Removed", func(t *testing.T) {
		mockService := services.NewEventServiceMock()
		router := setupEventTestRouter(mockService, services.NewSubscriptionServiceMock())

		mockService.On("Update", mock.Anything, 1, mock.Anything, mock.Anything).
			Return(nil, apperrors.ErrEventRemoved).Once()

		title := "Too Late"
		req := createAuthedJSONHTTPRequest("PUT", "/private/events", model.UpdateEventRequest{Title: &title}, 1)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusGone, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestSkipSetupWizard(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := services.NewEventServiceMock()
		router := setupEventTestRouter(mockService, services.NewSubscriptionServiceMock())

		mockService.On("SkipSetupWizard", mock.Anything, 1, mock.Anything).
			Return(sampleEvent(1), nil).Once()

		req := createAuthedJSONHTTPRequest("POST", "/private/events/skip-setup-wizard", nil, 1)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Failed - NotFound", func(t *testing.T) {
		mockService := services.NewEventServiceMock()
		router := setupEventTestRouter(mockService, services.NewSubscriptionServiceMock())

		mockService.On("SkipSetupWizard", mock.Anything, 1, mock.Anything).
			Return(nil, apperrors.ErrEventNotFound).Once()

		req := createAuthedJSONHTTPRequest("POST", "/private/events/skip-setup-wizard", nil, 1)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestRequestSubscription(t *testing.T) {
	t.Run("Accepted", func(t *testing.T) {
		mockSubscriptions := services.NewSubscriptionServiceMock()
		router := setupEventTestRouter(services.NewEventServiceMock(), mockSubscriptions)

		mockSubscriptions.On("Request", mock.Anything, 1).
			Return(&model.ProvisionJob{RequestID: "req-1", EventID: 1, UserID: 1}, nil).Once()

		req := createAuthedJSONHTTPRequest("POST", "/private/events/subscription", nil, 1)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusAccepted, w.Code)
		mockSubscriptions.AssertExpectations(t)
	})

	t.Run("Failed - AlreadySubscribed", func(t *testing.T) {
		mockSubscriptions := services.NewSubscriptionServiceMock()
		router := setupEventTestRouter(services.NewEventServiceMock(), mockSubscriptions)

		mockSubscriptions.On("Request", mock.Anything, 1).
			Return(nil, apperrors.ErrEventAlreadyExists).Once()

		req := createAuthedJSONHTTPRequest("POST", "/private/events/subscription", nil, 1)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		mockSubscriptions.AssertExpectations(t)
	})
}
