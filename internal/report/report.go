package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// 报表名称（对外暴露的 report 参数取值）。
const (
	ReservationsInPeriod   = "reservations_in_period"
	CarStatusOnDay         = "car_status_on_day"
	ReservationsByCustomer = "reservations_by_customer"
	DailyPaymentsInPeriod  = "daily_payments_in_period"
)

// ErrUnknownReport 未知的报表名称。
var ErrUnknownReport = fmt.Errorf("unknown report")

// ErrMissingParam 报表必需的参数缺失。
var ErrMissingParam = fmt.Errorf("missing report parameter")

// Params 报表入参：按报表类型取用其中的子集。
type Params struct {
	StartDate  time.Time // reservations_in_period / daily_payments_in_period
	EndDate    time.Time
	Day        time.Time // car_status_on_day
	CustomerID string    // reservations_by_customer
}

// Repo 只读的报表查询层，全部走参数化原生 SQL。
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) withCtx(ctx context.Context) *gorm.DB {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.WithContext(ctx)
}

// ReservationRow 区间内的预约明细行。
type ReservationRow struct {
	BookID     string    `json:"book_id"`
	Customer   string    `json:"customer"`
	CarID      string    `json:"car_id"`
	CarName    string    `json:"car_name"`
	BookDate   time.Time `json:"book_date"`
	ReturnDate time.Time `json:"return_date"`
	Status     string    `json:"status"`
}

// CarStatusRow 指定日期每辆车的占用情况。
type CarStatusRow struct {
	CarID   string `json:"car_id"`
	CarName string `json:"car_name"`
	Status  string `json:"status"` // Reserved / Available
}

// PaymentRow 区间内按天汇总的支付额。
type PaymentRow struct {
	Day   time.Time `json:"day"`
	Total int64     `json:"total"` // 单位：分
}

// Run 按名称执行报表，结果是可直接 JSON 序列化的行切片。
func (r *Repo) Run(ctx context.Context, name string, p Params) (interface{}, error) {
	switch strings.TrimSpace(name) {
	case ReservationsInPeriod:
		return r.reservationsInPeriod(ctx, p.StartDate, p.EndDate)
	case CarStatusOnDay:
		return r.carStatusOnDay(ctx, p.Day)
	case ReservationsByCustomer:
		customerID := strings.TrimSpace(p.CustomerID)
		if customerID == "" {
			return nil, fmt.Errorf("%w: customer_id", ErrMissingParam)
		}
		return r.reservationsByCustomer(ctx, customerID)
	case DailyPaymentsInPeriod:
		return r.dailyPaymentsInPeriod(ctx, p.StartDate, p.EndDate)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownReport, name)
	}
}

func (r *Repo) reservationsInPeriod(ctx context.Context, start, end time.Time) ([]ReservationRow, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var rows []ReservationRow
	err := db.Raw(`
		SELECT b.id AS book_id,
		       CONCAT(u.fname, ' ', u.lname) AS customer,
		       c.id AS car_id,
		       CONCAT(c.manufacturer, ' ', c.model) AS car_name,
		       b.book_date, b.return_date, b.status
		FROM bookings b
		JOIN users u ON b.user_id = u.id
		JOIN cars c ON b.car_id = c.id
		WHERE b.book_date >= ? AND b.book_date <= ?
		ORDER BY b.book_date`, start, end).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repo) carStatusOnDay(ctx context.Context, day time.Time) ([]CarStatusRow, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var rows []CarStatusRow
	// 日期区间重叠判定：book_date <= day <= return_date，取消的预约不算占用
	err := db.Raw(`
		SELECT c.id AS car_id,
		       CONCAT(c.manufacturer, ' ', c.model) AS car_name,
		       CASE WHEN EXISTS (
		           SELECT 1 FROM bookings b
		           WHERE b.car_id = c.id
		             AND b.status <> 'canceled'
		             AND b.book_date <= ? AND b.return_date >= ?
		       ) THEN 'Reserved' ELSE 'Available' END AS status
		FROM cars c
		ORDER BY c.manufacturer, c.model`, day, day).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// reservationsByCustomer 单个客户的预约明细。
func (r *Repo) reservationsByCustomer(ctx context.Context, customerID string) ([]ReservationRow, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var rows []ReservationRow
	err := db.Raw(`
		SELECT b.id AS book_id,
		       CONCAT(u.fname, ' ', u.lname) AS customer,
		       c.id AS car_id,
		       CONCAT(c.manufacturer, ' ', c.model) AS car_name,
		       b.book_date, b.return_date, b.status
		FROM bookings b
		JOIN users u ON b.user_id = u.id
		JOIN cars c ON b.car_id = c.id
		WHERE b.user_id = ?
		ORDER BY b.book_date`, customerID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repo) dailyPaymentsInPeriod(ctx context.Context, start, end time.Time) ([]PaymentRow, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var rows []PaymentRow
	err := db.Raw(`
		SELECT p.payment_date AS day, SUM(p.price) AS total
		FROM payments p
		WHERE p.payment_date >= ? AND p.payment_date <= ?
		GROUP BY p.payment_date
		ORDER BY p.payment_date`, start, end).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
