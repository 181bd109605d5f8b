package gateway

import (
	"net/http"
	"strings"

	"github.com/DriveLinkRental/DriveLinkRental/internal/booking"
)

type createBookingRequest struct {
	CarID     string `json:"car_id"`
	CardID    string `json:"card_id"`
	BookPlace string `json:"book_place"`
	DropPlace string `json:"drop_place"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

func (g *Gateway) createBooking(w http.ResponseWriter, r *http.Request) {
	ai, ok := g.requireUser(w, r)
	if !ok {
		return
	}

	var req createBookingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	in := booking.CreateBookingInput{
		UserID:    ai.UserID,
		CarID:     req.CarID,
		CardID:    req.CardID,
		BookPlace: req.BookPlace,
		DropPlace: req.DropPlace,
	}
	// 日期格式错误与缺失统一由引擎按零值上报（ErrMissingField），
	// 这里只在格式非法且非空时提前报 400，错误信息更明确
	if s := strings.TrimSpace(req.StartDate); s != "" {
		t, err := parseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid start_date, expected YYYY-MM-DD.")
			return
		}
		in.StartDate = t
	}
	if s := strings.TrimSpace(req.EndDate); s != "" {
		t, err := parseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end_date, expected YYYY-MM-DD.")
			return
		}
		in.EndDate = t
	}

	b, err := g.engine.CreateBooking(r.Context(), in)
	if err != nil {
		g.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"book_id":     b.ID,
		"status":      b.Status,
		"book_date":   b.BookDate.Format(dateLayout),
		"return_date": b.ReturnDate.Format(dateLayout),
		"pay_id":      b.PayID,
	})
}

// cancelReservation 取消预约：只允许取消自己的预约，他人的按不存在处理。
func (g *Gateway) cancelReservation(w http.ResponseWriter, r *http.Request) {
	ai, ok := g.requireUser(w, r)
	if !ok {
		return
	}
	bookID := strings.TrimSpace(r.URL.Query().Get("book_id"))
	if bookID == "" {
		writeError(w, http.StatusBadRequest, "book_id is required.")
		return
	}

	b, err := g.engine.GetBooking(r.Context(), bookID)
	if err != nil {
		g.writeDomainError(w, err)
		return
	}
	if b.UserID != ai.UserID {
		writeError(w, http.StatusNotFound, "Booking not found.")
		return
	}

	canceled, err := g.engine.CancelBooking(r.Context(), bookID)
	if err != nil {
		g.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"book_id": canceled.ID,
		"status":  canceled.Status,
	})
}
