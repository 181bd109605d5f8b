package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DriveLinkRental/DriveLinkRental/internal/booking"
	"github.com/DriveLinkRental/DriveLinkRental/internal/common/config"
	"github.com/DriveLinkRental/DriveLinkRental/internal/common/server"
	"github.com/DriveLinkRental/DriveLinkRental/internal/payment"
	"github.com/DriveLinkRental/DriveLinkRental/internal/report"
)

// fakeStore 网关测试用的 booking.Store 假实现：
// 单车单预约即可覆盖调度与错误映射路径。
type fakeStore struct {
	carAvailable bool
	carPrice     int64

	booking *booking.Booking

	reserveErr error
}

func (f *fakeStore) CarQuote(context.Context, string) (bool, int64, error) {
	return f.carAvailable, f.carPrice, nil
}

func (f *fakeStore) Reserve(_ context.Context, b *booking.Booking, _ *payment.Payment) error {
	if f.reserveErr != nil {
		return f.reserveErr
	}
	if !f.carAvailable {
		return booking.ErrCarUnavailable
	}
	bc := *b
	f.booking = &bc
	f.carAvailable = false
	return nil
}

func (f *fakeStore) FindByID(_ context.Context, id string) (*booking.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, booking.ErrBookingNotFound
	}
	bc := *f.booking
	return &bc, nil
}

func (f *fakeStore) Cancel(_ context.Context, id string, now time.Time) (*booking.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, booking.ErrBookingNotFound
	}
	wasCompleted := f.booking.Status == booking.StatusCompleted
	if err := booking.ApplyTransition(f.booking, booking.StatusCanceled, now); err != nil {
		return nil, err
	}
	if !wasCompleted {
		f.carAvailable = true
	}
	bc := *f.booking
	return &bc, nil
}

func (f *fakeStore) Sweep(context.Context, time.Time) (booking.SweepResult, error) {
	return booking.SweepResult{}, nil
}

func newTestGateway(store booking.Store) *Gateway {
	g := &Gateway{
		cfg: &config.Config{
			Server: config.ServerConfig{CORSOrigin: "http://localhost:5173"},
			Auth:   config.AuthConfig{Enabled: true},
		},
		reports: report.NewRepo(nil),
		engine: booking.NewService(store, booking.WithClock(func() time.Time {
			return time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
		})),
	}
	g.registerActions()
	return g
}

func doRequest(g *Gateway, method, target, body, userID string) *httptest.ResponseRecorder {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	if userID != "" {
		r = r.WithContext(server.ContextWithAuth(r.Context(), server.AuthInfo{UserID: userID}))
	}
	w := httptest.NewRecorder()
	g.dispatch(w, r)
	return w
}

func TestDispatchUnknownAction(t *testing.T) {
	g := newTestGateway(&fakeStore{})
	w := doRequest(g, http.MethodGet, "/api?action=doesNotExist", "", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestDispatchPreflight(t *testing.T) {
	g := newTestGateway(&fakeStore{})
	w := doRequest(g, http.MethodOptions, "/api?action=createBooking", "", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("expected CORS origin header, got %q", got)
	}
}

func TestCreateBookingRequiresAuth(t *testing.T) {
	g := newTestGateway(&fakeStore{carAvailable: true, carPrice: 50})
	w := doRequest(g, http.MethodPost, "/api?action=createBooking",
		`{"car_id":"c1","card_id":"k1","book_place":"A","drop_place":"B","start_date":"2024-02-01","end_date":"2024-02-03"}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestCreateBookingSuccess(t *testing.T) {
	store := &fakeStore{carAvailable: true, carPrice: 50}
	g := newTestGateway(store)

	w := doRequest(g, http.MethodPost, "/api?action=createBooking",
		`{"car_id":"c1","card_id":"k1","book_place":"A","drop_place":"B","start_date":"2024-02-01","end_date":"2024-02-03"}`, "u1")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		BookID string `json:"book_id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.BookID == "" || resp.Status != string(booking.StatusPendingPickup) {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if store.booking == nil || store.booking.UserID != "u1" {
		t.Fatalf("expected booking stored for u1")
	}
}

func TestCreateBookingErrorMapping(t *testing.T) {
	cases := []struct {
		name  string
		store *fakeStore
		body  string
		want  int
	}{
		{
			name:  "car unavailable",
			store: &fakeStore{carAvailable: false, carPrice: 50},
			body:  `{"car_id":"c1","card_id":"k1","book_place":"A","drop_place":"B","start_date":"2024-02-01","end_date":"2024-02-03"}`,
			want:  http.StatusBadRequest,
		},
		{
			name:  "missing fields",
			store: &fakeStore{carAvailable: true, carPrice: 50},
			body:  `{"car_id":"c1","card_id":"k1","start_date":"2024-02-01","end_date":"2024-02-03"}`,
			want:  http.StatusBadRequest,
		},
		{
			name:  "reversed dates",
			store: &fakeStore{carAvailable: true, carPrice: 50},
			body:  `{"car_id":"c1","card_id":"k1","book_place":"A","drop_place":"B","start_date":"2024-02-05","end_date":"2024-02-01"}`,
			want:  http.StatusBadRequest,
		},
		{
			name:  "malformed date",
			store: &fakeStore{carAvailable: true, carPrice: 50},
			body:  `{"car_id":"c1","card_id":"k1","book_place":"A","drop_place":"B","start_date":"02/01/2024","end_date":"2024-02-03"}`,
			want:  http.StatusBadRequest,
		},
		{
			name:  "storage failure",
			store: &fakeStore{carAvailable: true, carPrice: 50, reserveErr: booking.ErrBookingInsertFailed},
			body:  `{"car_id":"c1","card_id":"k1","book_place":"A","drop_place":"B","start_date":"2024-02-01","end_date":"2024-02-03"}`,
			want:  http.StatusInternalServerError,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g := newTestGateway(c.store)
			w := doRequest(g, http.MethodPost, "/api?action=createBooking", c.body, "u1")
			if w.Code != c.want {
				t.Fatalf("expected %d, got %d body=%s", c.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestGetReportByCustomerRequiresCustomerID(t *testing.T) {
	g := newTestGateway(&fakeStore{})
	w := doRequest(g, http.MethodGet, "/api?action=getReport&report=reservations_by_customer", "", "u1")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without customer_id, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestCancelReservation(t *testing.T) {
	store := &fakeStore{carAvailable: true, carPrice: 50}
	g := newTestGateway(store)

	w := doRequest(g, http.MethodPost, "/api?action=createBooking",
		`{"car_id":"c1","card_id":"k1","book_place":"A","drop_place":"B","start_date":"2024-02-01","end_date":"2024-02-03"}`, "u1")
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", w.Code)
	}
	bookID := store.booking.ID

	// 他人的预约按不存在处理
	w = doRequest(g, http.MethodPost, "/api?action=cancelReservation&book_id="+bookID, "", "someone-else")
	if w.Code != http.StatusNotFound {
		t.Fatalf("foreign cancel: expected 404, got %d", w.Code)
	}

	w = doRequest(g, http.MethodPost, "/api?action=cancelReservation&book_id="+bookID, "", "u1")
	if w.Code != http.StatusOK {
		t.Fatalf("cancel: expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	if store.booking.Status != booking.StatusCanceled || !store.carAvailable {
		t.Fatalf("expected canceled booking and released car")
	}

	w = doRequest(g, http.MethodPost, "/api?action=cancelReservation&book_id=missing", "", "u1")
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing booking: expected 404, got %d", w.Code)
	}
}
