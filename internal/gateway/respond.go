package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/DriveLinkRental/DriveLinkRental/internal/booking"
	"github.com/DriveLinkRental/DriveLinkRental/internal/report"
	"github.com/DriveLinkRental/DriveLinkRental/internal/user"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError 领域错误 -> HTTP 状态码。
// 校验类失败 400，找不到 404，其余（含存储失败）一律 500 且不透出内部细节。
func (g *Gateway) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrCarUnavailable):
		writeError(w, http.StatusBadRequest, "Car is not available for booking.")
	case errors.Is(err, booking.ErrMissingField):
		writeError(w, http.StatusBadRequest, "Missing required booking fields.")
	case errors.Is(err, booking.ErrInvalidDateRange):
		writeError(w, http.StatusBadRequest, "Invalid booking date range.")
	case errors.Is(err, booking.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, "Booking not found.")
	case errors.Is(err, user.ErrNoUpdatableFields):
		writeError(w, http.StatusBadRequest, "No valid fields provided for update.")
	case errors.Is(err, report.ErrUnknownReport):
		writeError(w, http.StatusBadRequest, "Unknown report.")
	case errors.Is(err, report.ErrMissingParam):
		writeError(w, http.StatusBadRequest, "Missing report parameter.")
	case errors.Is(err, gorm.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "Not found.")
	default:
		if g.log != nil {
			g.log.Errorf("request failed: %v", err)
		}
		writeError(w, http.StatusInternalServerError, "Internal server error.")
	}
}

// decodeBody 解析 JSON 请求体。空体不算错（参数全在 query 的 action 也会走到这）。
func decodeBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
