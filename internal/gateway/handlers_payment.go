package gateway

import (
	"errors"
	"net/http"
	"strings"

	"github.com/DriveLinkRental/DriveLinkRental/internal/payment"
	"github.com/DriveLinkRental/DriveLinkRental/internal/report"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (g *Gateway) getAllCreditCards(w http.ResponseWriter, r *http.Request) {
	ai, ok := g.requireUser(w, r)
	if !ok {
		return
	}
	cards, err := g.payments.ListCards(r.Context(), ai.UserID)
	if err != nil {
		g.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"cards": cards})
}

type addCardRequest struct {
	CardNumber     string `json:"card_number"`
	ExpirationDate string `json:"expiration_date"`
	CardholderName string `json:"cardholder_name"`
	CVV            string `json:"cvv"`
}

func (g *Gateway) addCreditCard(w http.ResponseWriter, r *http.Request) {
	ai, ok := g.requireUser(w, r)
	if !ok {
		return
	}

	var req addCardRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	req.CardNumber = strings.TrimSpace(req.CardNumber)
	req.ExpirationDate = strings.TrimSpace(req.ExpirationDate)
	req.CardholderName = strings.TrimSpace(req.CardholderName)
	req.CVV = strings.TrimSpace(req.CVV)
	if req.CardNumber == "" || req.ExpirationDate == "" || req.CardholderName == "" || req.CVV == "" {
		writeError(w, http.StatusBadRequest, "All card fields are required.")
		return
	}

	c := &payment.CreditCard{
		ID:             uuid.NewString(),
		UserID:         ai.UserID,
		CardNumber:     req.CardNumber,
		ExpirationDate: req.ExpirationDate,
		CardholderName: req.CardholderName,
		CVV:            req.CVV,
	}
	if err := g.payments.AddCard(r.Context(), c); err != nil {
		g.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"card_id": c.ID})
}

// deleteCard 删除支付方式。他人的卡按不存在处理，不泄露归属信息。
func (g *Gateway) deleteCard(w http.ResponseWriter, r *http.Request) {
	ai, ok := g.requireUser(w, r)
	if !ok {
		return
	}
	cardID := strings.TrimSpace(r.URL.Query().Get("card_id"))
	if cardID == "" {
		writeError(w, http.StatusBadRequest, "card_id is required.")
		return
	}

	c, err := g.payments.FindCard(r.Context(), cardID)
	if err != nil || c.UserID != ai.UserID {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			g.writeDomainError(w, err)
			return
		}
		writeError(w, http.StatusNotFound, "Card not found.")
		return
	}

	if err := g.payments.DeleteCard(r.Context(), cardID); err != nil {
		g.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Card deleted."})
}

// getReport 报表入口：report 参数选择报表，日期参数按需传入。
func (g *Gateway) getReport(w http.ResponseWriter, r *http.Request) {
	if _, ok := g.requireUser(w, r); !ok {
		return
	}

	q := r.URL.Query()
	var p report.Params
	if s := q.Get("start_date"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid start_date, expected YYYY-MM-DD.")
			return
		}
		p.StartDate = t
	}
	if s := q.Get("end_date"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end_date, expected YYYY-MM-DD.")
			return
		}
		p.EndDate = t
	}
	if s := q.Get("day"); s != "" {
		t, err := parseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid day, expected YYYY-MM-DD.")
			return
		}
		p.Day = t
	}
	p.CustomerID = strings.TrimSpace(q.Get("customer_id"))

	rows, err := g.reports.Run(r.Context(), q.Get("report"), p)
	if err != nil {
		g.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"rows": rows})
}
