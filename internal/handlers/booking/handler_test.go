package booking_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tablebook/infras/otel/mocks"
	"tablebook/internal/domains/booking/model"
	"tablebook/internal/domains/booking/model/dto"
	serviceMocks "tablebook/internal/domains/booking/service/mocks"
	"tablebook/internal/handlers/booking"
	"tablebook/shared/constant"
	gDto "tablebook/shared/dto"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const createBody = `{
	"restaurant_id": "5d0c2a41-6f0e-4a8e-9f43-2f4b8b7c1e01",
	"table_id": "9a1f6c3e-8b2d-4c7a-a5e4-0d3b2c1a9f02",
	"booking_date": "2025-03-14",
	"start_time": "19:00",
	"end_time": "21:00",
	"number_of_people": 4
}`

func TestHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := serviceMocks.NewMockBooking(ctrl)

	handler := booking.New(service, mocks.NewOtel())
	router := chi.NewRouter()
	handler.Router(router)

	tests := []struct {
		name      string
		method    string
		path      string
		body      string
		setupMock func()
		wantCode  int
		wantBody  string
	}{
		{
			name:   "create",
			method: http.MethodPost,
			path:   "/bookings/",
			body:   createBody,
			setupMock: func() {
				service.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.BookingResponse{ID: "b1"}, nil)
			},
			wantCode: http.StatusCreated,
			wantBody: `"id":"b1"`,
		},
		{
			name:     "create with missing fields",
			method:   http.MethodPost,
			path:     "/bookings/",
			body:     `{"table_id":"9a1f6c3e-8b2d-4c7a-a5e4-0d3b2c1a9f02"}`,
			wantCode: http.StatusBadRequest,
			wantBody: "restaurant_id is required",
		},
		{
			name:   "create on a taken slot",
			method: http.MethodPost,
			path:   "/bookings/",
			body:   createBody,
			setupMock: func() {
				service.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.BookingResponse{}, model.ErrSlotTaken)
			},
			wantCode: http.StatusConflict,
			wantBody: model.ErrSlotTaken.Error(),
		},
		{
			name:   "list applies paging and filters",
			method: http.MethodGet,
			path:   "/bookings/?page=2&limit=5&booking_date=2025-03-14",
			setupMock: func() {
				params := gDto.QueryParams{Page: 2, Limit: 5, SortBy: constant.DefaultValueSortBy, SortDir: constant.DefaultValueSortDir}
				filter := dto.BookingFilter{BookingDate: "2025-03-14"}

				service.EXPECT().GetAll(gomock.Any(), params, filter).Return(dto.GetBookingsResponse{TotalData: 6, TotalPage: 2}, nil)
			},
			wantCode: http.StatusOK,
			wantBody: `"total_page":2`,
		},
		{
			name:     "list with a malformed filter",
			method:   http.MethodGet,
			path:     "/bookings/?table_id=seven",
			wantCode: http.StatusBadRequest,
		},
		{
			name:   "read someone else's booking",
			method: http.MethodGet,
			path:   "/bookings/b2",
			setupMock: func() {
				service.EXPECT().Get(gomock.Any(), "b2").Return(dto.BookingResponse{}, model.ErrForbidden)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name:   "export",
			method: http.MethodGet,
			path:   "/bookings/export",
			setupMock: func() {
				service.EXPECT().Export(gomock.Any(), dto.BookingFilter{}).Return([]byte("PK"), nil)
			},
			wantCode: http.StatusOK,
			wantBody: "PK",
		},
		{
			name:   "delete",
			method: http.MethodDelete,
			path:   "/bookings/b1",
			setupMock: func() {
				service.EXPECT().Delete(gomock.Any(), "b1").Return(nil)
			},
			wantCode: http.StatusOK,
			wantBody: "Booking deleted successfully",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setupMock != nil {
				tt.setupMock()
			}

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.wantBody)
		})
	}
}
