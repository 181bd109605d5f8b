package booking

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCanTransitionAndApply(t *testing.T) {
	if !CanTransition(StatusPendingPickup, StatusPickedUp) {
		t.Fatalf("expected pending_pickup -> picked_up allowed")
	}
	if !CanTransition(StatusReserved, StatusPickedUp) {
		t.Fatalf("expected legacy reserved -> picked_up allowed")
	}
	if CanTransition(StatusPickedUp, StatusPendingPickup) {
		t.Fatalf("expected picked_up -> pending_pickup not allowed")
	}
	if CanTransition(StatusCanceled, StatusPickedUp) {
		t.Fatalf("expected canceled to be terminal")
	}
	if !CanTransition(StatusCompleted, StatusCanceled) {
		t.Fatalf("expected completed -> canceled allowed")
	}

	b := &Booking{Status: StatusPendingPickup}
	now := time.Now()
	if err := ApplyTransition(b, StatusPickedUp, now); err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}
	if b.Status != StatusPickedUp || b.PickedUpAt == nil {
		t.Fatalf("expected picked_up with timestamp, got %s", b.Status)
	}

	if err := ApplyTransition(b, StatusPendingPickup, now); err == nil {
		t.Fatalf("expected backward transition to fail")
	}
}

func TestApplyTransitionCancelIdempotent(t *testing.T) {
	b := &Booking{Status: StatusPickedUp}
	first := date("2024-03-01")
	if err := ApplyTransition(b, StatusCanceled, first); err != nil {
		t.Fatalf("ApplyTransition: %v", err)
	}
	if b.CanceledAt == nil || !b.CanceledAt.Equal(first) {
		t.Fatalf("expected canceled_at = %v, got %v", first, b.CanceledAt)
	}

	// 重复取消：no-op，时间戳不被覆盖
	if err := ApplyTransition(b, StatusCanceled, date("2024-03-05")); err != nil {
		t.Fatalf("repeat cancel: %v", err)
	}
	if !b.CanceledAt.Equal(first) {
		t.Fatalf("expected canceled_at unchanged, got %v", b.CanceledAt)
	}
}

func TestDeriveStatus(t *testing.T) {
	start, end := date("2024-05-10"), date("2024-05-12")
	cases := []struct {
		today string
		want  Status
	}{
		{"2024-05-09", StatusPendingPickup},
		{"2024-05-10", StatusPickedUp},
		{"2024-05-11", StatusPickedUp},
		{"2024-05-12", StatusPickedUp},
		{"2024-05-13", StatusCompleted},
	}
	for _, c := range cases {
		if got := DeriveStatus(date(c.today), start, end); got != c.want {
			t.Fatalf("DeriveStatus(%s): got %s, want %s", c.today, got, c.want)
		}
	}
}

func TestDays(t *testing.T) {
	cases := []struct {
		start, end string
		want       int
	}{
		{"2024-01-01", "2024-01-01", 1}, // 当天取还也算一天
		{"2024-01-01", "2024-01-03", 3}, // 首尾两天都计费
		{"2024-01-01", "2024-01-07", 7},
	}
	for _, c := range cases {
		if got := Days(date(c.start), date(c.end)); got != c.want {
			t.Fatalf("Days(%s, %s): got %d, want %d", c.start, c.end, got, c.want)
		}
	}

	if got := Days(date("2024-01-05"), date("2024-01-01")); got >= 1 {
		t.Fatalf("expected reversed range to yield < 1 day, got %d", got)
	}
}
