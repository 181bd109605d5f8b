package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DriveLinkRental/DriveLinkRental/internal/payment"
	"github.com/google/uuid"
)

// Service 封装预约领域的核心用例（不依赖 HTTP），便于复用和测试。
type Service struct {
	store Store
	now   func() time.Time
}

// Option Service 可选配置。
type Option func(*Service)

// WithClock 注入时钟（测试用）。
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, apply := range opts {
		if apply != nil {
			apply(s)
		}
	}
	return s
}

// CreateBookingInput 创建预约的入参。
// 标识符与日期由网关预先校验/解析（日期为 YYYY-MM-DD）。
type CreateBookingInput struct {
	UserID string
	CarID  string
	CardID string // 支付方式

	BookPlace string // 取车地点
	DropPlace string // 还车地点

	StartDate time.Time // 起租日
	EndDate   time.Time // 还车日
}

// CreateBooking 创建预约。
// 校验按序执行，第一个失败的检查即返回，提交前不产生任何写入：
//  1. 车辆存在且可用（不存在同样按「不可用」上报）
//  2. 必填字段齐全
//  3. 日期区间合法（计费天数 >= 1）
//
// 提交阶段由 Store.Reserve 作为单个事务完成：支付流水、预约行、
// 可用性翻转要么全部生效、要么全部回滚（不会留下孤儿支付）。
func (s *Service) CreateBooking(ctx context.Context, in CreateBookingInput) (*Booking, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}

	in.UserID = strings.TrimSpace(in.UserID)
	in.CarID = strings.TrimSpace(in.CarID)
	in.CardID = strings.TrimSpace(in.CardID)
	in.BookPlace = strings.TrimSpace(in.BookPlace)
	in.DropPlace = strings.TrimSpace(in.DropPlace)

	available, pricePerDay, err := s.store.CarQuote(ctx, in.CarID)
	if err != nil {
		if errors.Is(err, ErrCarNotFound) {
			return nil, ErrCarUnavailable
		}
		return nil, fmt.Errorf("query car: %w", err)
	}
	if !available {
		return nil, ErrCarUnavailable
	}

	if in.BookPlace == "" || in.DropPlace == "" || in.CardID == "" ||
		in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, ErrMissingField
	}

	days := Days(in.StartDate, in.EndDate)
	if days < 1 {
		return nil, ErrInvalidDateRange
	}
	price := int64(days) * pricePerDay

	now := s.now()
	p := &payment.Payment{
		ID:          uuid.NewString(),
		Price:       price,
		PaymentDate: DateOnly(in.StartDate), // 记账日期 = 起租日
		CardID:      in.CardID,
	}
	b := &Booking{
		ID:         uuid.NewString(),
		CarID:      in.CarID,
		UserID:     in.UserID,
		BookPlace:  in.BookPlace,
		DropPlace:  in.DropPlace,
		BookDate:   DateOnly(in.StartDate),
		ReturnDate: DateOnly(in.EndDate),
		PayID:      p.ID,
		Status:     DeriveStatus(now, in.StartDate, in.EndDate),
	}

	if err := s.store.Reserve(ctx, b, p); err != nil {
		return nil, err
	}
	return b, nil
}

// CancelBooking 取消预约：状态置 canceled（粘性终态），车辆恢复可用
// （completed 的预约除外，见 Store.Cancel）。
// 对已取消的预约重复调用是安全的 no-op。
func (s *Service) CancelBooking(ctx context.Context, id string) (*Booking, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrBookingNotFound
	}
	return s.store.Cancel(ctx, id, s.now())
}

// GetBooking 查询单个预约。
func (s *Service) GetBooking(ctx context.Context, id string) (*Booking, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrBookingNotFound
	}
	return s.store.FindByID(ctx, id)
}

// Sweep 按当前日期批量推进预约状态（幂等）。
func (s *Service) Sweep(ctx context.Context) (SweepResult, error) {
	if s == nil || s.store == nil {
		return SweepResult{}, fmt.Errorf("service not initialized")
	}
	return s.store.Sweep(ctx, s.now())
}
