package monthly_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/rewards-aggregator/internal/http-server/handlers/monthly"
	"github.com/magabrotheeeer/rewards-aggregator/internal/http-server/response"
	"github.com/magabrotheeeer/rewards-aggregator/internal/models"
	"github.com/magabrotheeeer/rewards-aggregator/internal/services/rewards"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) MonthlyRewards(ctx context.Context, q models.Query) (models.Page[models.MonthlyRewardRecord], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(models.Page[models.MonthlyRewardRecord]), args.Error(1)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger { return slog.New(discardHandler{}) }

func TestMonthlyHandler(t *testing.T) {
	page := models.Page[models.MonthlyRewardRecord]{
		Count:       1,
		Page:        0,
		RowsPerPage: 5,
		Rows: []models.MonthlyRewardRecord{
			{CustomerID: "1", CustomerName: "Joe", Year: 2023, Month: 2, MonthName: "February", RewardPoints: 370},
		},
	}

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "defaults",
			url:  "/api/v1/rewards/monthly",
			setupMock: func(m *MockService) {
				m.On("MonthlyRewards", mock.Anything, models.Query{
					Sort:    monthly.DefaultSort,
					Page:    models.PageSpec{Page: 0, RowsPerPage: 5},
					Columns: map[string]string{},
				}).Return(page, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"monthName":"February"`,
		},
		{
			name: "filters and column filters",
			url:  "/api/v1/rewards/monthly?customer_name=joe&month=2&year=2023&sort_column=rewardPoints&sort_order=desc&page=0&rows_per_page=10",
			setupMock: func(m *MockService) {
				m.On("MonthlyRewards", mock.Anything, models.Query{
					Filter:  models.Filter{CustomerName: "joe"},
					Sort:    models.SortSpec{Column: models.ColumnRewardPoints, Order: models.OrderDesc},
					Page:    models.PageSpec{Page: 0, RowsPerPage: 10},
					Columns: map[string]string{"month": "2", "year": "2023"},
				}).Return(page, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"rewardPoints":370`,
		},
		{
			name:           "invalid sort order",
			url:            "/api/v1/rewards/monthly?sort_order=sideways",
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "field sort_order must be one of: asc desc",
		},
		{
			name:           "negative page",
			url:            "/api/v1/rewards/monthly?page=-1",
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "field page must be at least 0",
		},
		{
			name:           "non-numeric month",
			url:            "/api/v1/rewards/monthly?month=feb",
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "field month can contain only numbers",
		},
		{
			name:           "rows per page above maximum",
			url:            "/api/v1/rewards/monthly?rows_per_page=1000",
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "maximum is 100",
		},
		{
			name: "source failure",
			url:  "/api/v1/rewards/monthly",
			setupMock: func(m *MockService) {
				m.On("MonthlyRewards", mock.Anything, mock.Anything).
					Return(models.Page[models.MonthlyRewardRecord]{}, fmt.Errorf("op: %w", rewards.ErrSourceUnavailable))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "failed to load transactions",
		},
		{
			name: "unexpected failure",
			url:  "/api/v1/rewards/monthly",
			setupMock: func(m *MockService) {
				m.On("MonthlyRewards", mock.Anything, mock.Anything).
					Return(models.Page[models.MonthlyRewardRecord]{}, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()

			monthly.New(makeLogger(), svc, 5, 100).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestMonthlyHandler_Envelope(t *testing.T) {
	svc := new(MockService)
	svc.On("MonthlyRewards", mock.Anything, mock.Anything).Return(models.Page[models.MonthlyRewardRecord]{
		Count: 7, Page: 1, RowsPerPage: 5, Rows: []models.MonthlyRewardRecord{},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rewards/monthly?page=1", nil)
	w := httptest.NewRecorder()
	monthly.New(makeLogger(), svc, 5, 100).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, response.StatusOK, resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(7), data["count"])
	assert.Equal(t, float64(1), data["page"])
	assert.Equal(t, float64(5), data["rows_per_page"])
	assert.Equal(t, []any{}, data["rows"])
}
