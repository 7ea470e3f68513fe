package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"caseable-catalog/internal/model"
	"caseable-catalog/internal/transport"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testOrderBody() []byte {
	body, _ := json.Marshal(map[string]any{
		"address": map[string]any{
			"firstName": "Ada", "lastName": "Lovelace", "street": "Main Street 1",
			"postcode": "10115", "city": "Berlin", "country": "DE",
		},
		"customer": map[string]any{"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com"},
		"items":    []map[string]any{{"sku": "HC01", "quantity": 1}},
	})
	return body
}

func TestOrderHandler_Place(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		body           []byte
		mockReturn     model.OrderStatus
		mockError      error
		expectedStatus int
		expectedCode   string
		expectService  bool
	}{
		{
			name:           "Success",
			body:           testOrderBody(),
			mockReturn:     model.OrderStatus{ID: 42, Status: model.StatusProduction, StatusChanged: 1500000000},
			expectedStatus: http.StatusCreated,
			expectService:  true,
		},
		{
			name:           "Invalid JSON",
			body:           []byte("{invalid"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidJSON,
		},
		{
			name:           "Validation failure",
			body:           []byte(`{"items":[]}`),
			mockError:      model.NewValidationError("invalid order: items"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeValidation,
			expectService:  true,
		},
		{
			name:           "Rejected by catalog service",
			body:           testOrderBody(),
			mockError:      &transport.InvalidStatusError{StatusCode: 401},
			expectedStatus: http.StatusBadGateway,
			expectedCode:   model.ErrCodeUpstream,
			expectService:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			if tt.expectService {
				mockService.On("Place", mock.Anything, mock.AnythingOfType("*model.OrderRequest")).
					Return(tt.mockReturn, tt.mockError)
			}

			handler := NewOrderHandler(mockService, logger)
			req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.Place(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Error)
			} else {
				var got model.OrderStatus
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
				assert.Equal(t, tt.mockReturn, got)
			}

			if tt.expectService {
				mockService.AssertExpectations(t)
			} else {
				mockService.AssertNotCalled(t, "Place", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestOrderHandler_Place_DecodesRequest(t *testing.T) {
	mockService := new(MockOrderService)
	mockService.On("Place", mock.Anything, mock.MatchedBy(func(req *model.OrderRequest) bool {
		return req.Customer.Email == "ada@example.com" &&
			len(req.Items) == 1 && req.Items[0].SKU == "HC01" &&
			req.Address.City == "Berlin"
	})).Return(model.OrderStatus{ID: 1, Status: model.StatusProduction}, nil)

	handler := NewOrderHandler(mockService, zerolog.Nop())
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader(testOrderBody()))
	w := httptest.NewRecorder()

	handler.Place(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestOrderHandler_Get(t *testing.T) {
	statuses := []model.OrderStatus{
		{ID: 1, Status: model.StatusPaid},
		{ID: 2, Status: model.StatusProduction},
	}

	tests := []struct {
		name           string
		query          string
		expectedIDs    []string
		expectedStatus int
	}{
		{
			name:           "Comma separated",
			query:          "ids=1,2",
			expectedIDs:    []string{"1", "2"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Repeated parameter with blanks",
			query:          "ids=1&ids=+2+,",
			expectedIDs:    []string{"1", "2"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Missing ids",
			query:          "",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Only separators",
			query:          "ids=,,",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			if tt.expectedIDs != nil {
				mockService.On("Get", mock.Anything, tt.expectedIDs).Return(statuses, nil)
			}

			handler := NewOrderHandler(mockService, zerolog.Nop())
			req := httptest.NewRequest(http.MethodGet, "/api/orders?"+tt.query, nil)
			w := httptest.NewRecorder()

			handler.Get(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedIDs == nil {
				assert.Equal(t, model.ErrCodeValidation, decodeError(t, w).Error)
				mockService.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_Update(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		body           string
		mockReturn     model.OrderStatus
		mockError      error
		expectService  bool
		expectedStatus int
	}{
		{
			name:           "Cancel",
			id:             "42",
			body:           `{"status":"cancelled"}`,
			mockReturn:     model.OrderStatus{ID: 42, Status: model.StatusCancelled},
			expectService:  true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Status not updatable",
			id:             "42",
			body:           `{"status":"production"}`,
			mockError:      model.NewValidationError("invalid status"),
			expectService:  true,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid JSON",
			id:             "42",
			body:           `status=paid`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			if tt.expectService {
				var status UpdateOrderRequest
				require.NoError(t, json.Unmarshal([]byte(tt.body), &status))
				mockService.On("Update", mock.Anything, tt.id, status.Status).Return(tt.mockReturn, tt.mockError)
			}

			handler := NewOrderHandler(mockService, zerolog.Nop())
			req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+tt.id, strings.NewReader(tt.body))
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()

			handler.Update(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var got model.OrderStatus
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
				assert.Equal(t, tt.mockReturn, got)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_Journal(t *testing.T) {
	entries := []model.JournalEntry{
		{
			OrderStatus: model.OrderStatus{ID: 1, Status: model.StatusPaid, StatusChanged: 1500000000},
			RecordedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	tests := []struct {
		name           string
		query          string
		limit          int
		offset         int
		expectService  bool
		mockError      error
		expectedStatus int
	}{
		{name: "Defaults", query: "", limit: 10, offset: 0, expectService: true, expectedStatus: http.StatusOK},
		{name: "Custom paging", query: "limit=5&offset=20", limit: 5, offset: 20, expectService: true, expectedStatus: http.StatusOK},
		{name: "Invalid limit", query: "limit=abc", expectedStatus: http.StatusBadRequest},
		{name: "Negative offset", query: "offset=-1", expectedStatus: http.StatusBadRequest},
		{
			name:           "Repository failure",
			query:          "",
			limit:          10,
			expectService:  true,
			mockError:      errors.New("failed to list order journal: connection refused"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			if tt.expectService {
				if tt.mockError != nil {
					mockService.On("Journal", mock.Anything, tt.limit, tt.offset).Return(nil, tt.mockError)
				} else {
					mockService.On("Journal", mock.Anything, tt.limit, tt.offset).Return(entries, nil)
				}
			}

			handler := NewOrderHandler(mockService, zerolog.Nop())
			req := httptest.NewRequest(http.MethodGet, "/api/orders/journal?"+tt.query, nil)
			w := httptest.NewRecorder()

			handler.Journal(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusInternalServerError {
				resp := decodeError(t, w)
				assert.Equal(t, model.ErrCodeInternalError, resp.Error)
				assert.NotContains(t, resp.Message, "connection refused")
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_Journal_ByIDs(t *testing.T) {
	entries := []model.JournalEntry{
		{OrderStatus: model.OrderStatus{ID: 7, Status: model.StatusPaid, StatusChanged: 2000}},
	}

	tests := []struct {
		name           string
		query          string
		ids            []int64
		expectedStatus int
	}{
		{name: "Comma separated", query: "ids=7,8", ids: []int64{7, 8}, expectedStatus: http.StatusOK},
		{name: "Repeated", query: "ids=7&ids=8&limit=1", ids: []int64{7, 8}, expectedStatus: http.StatusOK},
		{name: "Not a number", query: "ids=7,abc", expectedStatus: http.StatusBadRequest},
		{name: "Empty", query: "ids=", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			if tt.ids != nil {
				mockService.On("JournalByIDs", mock.Anything, tt.ids).Return(entries, nil)
			}

			handler := NewOrderHandler(mockService, zerolog.Nop())
			req := httptest.NewRequest(http.MethodGet, "/api/orders/journal?"+tt.query, nil)
			w := httptest.NewRecorder()

			handler.Journal(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusBadRequest {
				assert.Equal(t, model.ErrCodeValidation, decodeError(t, w).Error)
			}
			mockService.AssertNotCalled(t, "Journal", mock.Anything, mock.Anything, mock.Anything)
			mockService.AssertExpectations(t)
		})
	}
}
