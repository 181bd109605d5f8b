package booking

import (
	"context"
	"time"

	"github.com/DriveLinkRental/DriveLinkRental/internal/payment"
)

// Store 预约引擎的存储边界。
// GORM 实现见 Repo；测试用内存实现见 service_test.go。
//
// 约束：
// - Reserve / Cancel / Sweep 各自必须是一个原子事务
// - Reserve 内部对车辆可用性做 compare-and-set：同一辆车并发下单只允许一个成功，
//   失败方拿到 ErrCarUnavailable，且不留下任何写入
type Store interface {
	// CarQuote 返回车辆可用性与日租金（分）；车辆不存在返回 ErrCarNotFound。
	CarQuote(ctx context.Context, carID string) (available bool, pricePerDay int64, err error)

	// Reserve 原子提交一笔预约：支付流水 + 预约行 + 车辆置为不可用。
	Reserve(ctx context.Context, b *Booking, p *payment.Payment) error

	// FindByID 查询预约；不存在返回 ErrBookingNotFound。
	FindByID(ctx context.Context, id string) (*Booking, error)

	// Cancel 原子取消：状态置 canceled（幂等），车辆恢复可用。
	// completed 的预约已不占用车辆，取消时不动可用性（车可能已被新预约持有）。
	// 预约不存在返回 ErrBookingNotFound。
	Cancel(ctx context.Context, id string, now time.Time) (*Booking, error)

	// Sweep 按日期批量推进状态（幂等，只向前）。canceled 行不参与。
	Sweep(ctx context.Context, today time.Time) (SweepResult, error)
}
