package report

import (
	"context"
	"errors"
	"testing"
)

func TestRunUnknownReport(t *testing.T) {
	r := NewRepo(nil)
	if _, err := r.Run(context.Background(), "no_such_report", Params{}); !errors.Is(err, ErrUnknownReport) {
		t.Fatalf("expected ErrUnknownReport, got %v", err)
	}
	if _, err := r.Run(context.Background(), "  reservations_in_period  ", Params{}); errors.Is(err, ErrUnknownReport) {
		t.Fatalf("expected name to be trimmed before lookup")
	}
}

func TestRunReservationsByCustomerRequiresCustomerID(t *testing.T) {
	r := NewRepo(nil)
	if _, err := r.Run(context.Background(), ReservationsByCustomer, Params{}); !errors.Is(err, ErrMissingParam) {
		t.Fatalf("expected ErrMissingParam, got %v", err)
	}
	if _, err := r.Run(context.Background(), ReservationsByCustomer, Params{CustomerID: "  "}); !errors.Is(err, ErrMissingParam) {
		t.Fatalf("expected ErrMissingParam for blank customer_id, got %v", err)
	}
}
