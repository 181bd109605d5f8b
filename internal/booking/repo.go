package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DriveLinkRental/DriveLinkRental/internal/car"
	"github.com/DriveLinkRental/DriveLinkRental/internal/payment"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repo 是 Store 的 GORM/MySQL 实现。
// 写路径（Reserve / Cancel / Sweep）全部跑在单个事务里，
// 车辆行通过可用性 CAS / 行锁串行化。
type Repo struct {
	db *gorm.DB
}

var _ Store = (*Repo)(nil)

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) withCtx(ctx context.Context) *gorm.DB {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.WithContext(ctx)
}

func (r *Repo) CarQuote(ctx context.Context, carID string) (bool, int64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return false, 0, fmt.Errorf("repo db is nil")
	}
	var c car.Car
	if err := db.Where("id = ?", carID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, ErrCarNotFound
		}
		return false, 0, err
	}
	return c.IsAvailable(), c.PricePerDay, nil
}

func (r *Repo) Reserve(ctx context.Context, b *Booking, p *payment.Payment) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Transaction(func(tx *gorm.DB) error {
		// 可用性 CAS：WHERE available='Y' 保证同一辆车并发下单只有一个翻转成功，
		// 失败方整个事务回滚、零写入
		res := tx.Model(&car.Car{}).
			Where("id = ? AND available = ?", b.CarID, car.AvailableYes).
			Update("available", car.AvailableNo)
		if res.Error != nil {
			return fmt.Errorf("update availability: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrCarUnavailable
		}

		if err := payment.NewRepo(tx).Record(ctx, p); err != nil {
			return fmt.Errorf("%w: %v", ErrPaymentRecordFailed, err)
		}
		if err := tx.Create(b).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrBookingInsertFailed, err)
		}

		// 租期已整体过去的预约（创建即 completed）不占用车辆
		if b.Status == StatusCompleted {
			if err := tx.Model(&car.Car{}).
				Where("id = ?", b.CarID).
				Update("available", car.AvailableYes).Error; err != nil {
				return fmt.Errorf("restore availability: %w", err)
			}
		}
		return nil
	})
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Booking, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var b Booking
	if err := db.Where("id = ?", id).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *Repo) Cancel(ctx context.Context, id string, now time.Time) (*Booking, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var out *Booking
	err := db.Transaction(func(tx *gorm.DB) error {
		var b Booking
		// 行锁：与并发的 sweep / 重复取消互斥
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&b).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		wasCompleted := b.Status == StatusCompleted
		if err := ApplyTransition(&b, StatusCanceled, now); err != nil {
			return err
		}
		if err := tx.Save(&b).Error; err != nil {
			return err
		}

		// 恢复车辆可用。completed 的预约早已不占用车辆，
		// 车可能已被新预约持有，跳过以免错放别人的占用；
		// 其余状态由创建时的 CAS 保证同车同时最多一个进行中预约
		if !wasCompleted {
			if err := tx.Model(&car.Car{}).
				Where("id = ?", b.CarID).
				Update("available", car.AvailableYes).Error; err != nil {
				return err
			}
		}
		out = &b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) Sweep(ctx context.Context, today time.Time) (SweepResult, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return SweepResult{}, fmt.Errorf("repo db is nil")
	}
	day := DateOnly(today)
	var result SweepResult

	err := db.Transaction(func(tx *gorm.DB) error {
		// 起租日已到：pending_pickup/reserved -> picked_up
		up := tx.Model(&Booking{}).
			Where("status IN ? AND book_date <= ?", []Status{StatusReserved, StatusPendingPickup}, day).
			Updates(map[string]interface{}{"status": StatusPickedUp, "picked_up_at": today})
		if up.Error != nil {
			return up.Error
		}
		result.PickedUp = up.RowsAffected

		// 还车日已过：picked_up -> completed，并释放对应车辆。
		// 先取车辆 ID 再批量更新，两步在同一事务内。
		var carIDs []string
		if err := tx.Model(&Booking{}).
			Where("status = ? AND return_date < ?", StatusPickedUp, day).
			Pluck("car_id", &carIDs).Error; err != nil {
			return err
		}

		done := tx.Model(&Booking{}).
			Where("status = ? AND return_date < ?", StatusPickedUp, day).
			Updates(map[string]interface{}{"status": StatusCompleted, "completed_at": today})
		if done.Error != nil {
			return done.Error
		}
		result.Completed = done.RowsAffected

		if len(carIDs) > 0 {
			if err := tx.Model(&car.Car{}).
				Where("id IN ?", carIDs).
				Update("available", car.AvailableYes).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return SweepResult{}, err
	}
	return result, nil
}

// ReservedRanges 车辆详情页展示的已预约区间（取消的不算）。
func (r *Repo) ReservedRanges(ctx context.Context, carID string) ([]DateRange, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var ranges []DateRange
	err := db.Model(&Booking{}).
		Select("book_date, return_date").
		Where("car_id = ? AND status <> ?", carID, StatusCanceled).
		Order("book_date").
		Scan(&ranges).Error
	if err != nil {
		return nil, err
	}
	return ranges, nil
}

// UserBookingRow 用户主页的预约列表行（带车辆信息）。
type UserBookingRow struct {
	BookID       string    `json:"book_id"`
	BookPlace    string    `json:"book_place"`
	DropPlace    string    `json:"drop_place"`
	BookDate     time.Time `json:"book_date"`
	ReturnDate   time.Time `json:"return_date"`
	Status       Status    `json:"status"`
	Manufacturer string    `json:"manufacturer"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	FuelType     string    `json:"fuel_type"`
	Capacity     int       `json:"capacity"`
}

// ListByUser 列出用户的全部预约（含已取消，按创建时间倒序）。
func (r *Repo) ListByUser(ctx context.Context, userID string) ([]UserBookingRow, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var rows []UserBookingRow
	err := db.Raw(`
		SELECT b.id AS book_id, b.book_place, b.drop_place, b.book_date, b.return_date, b.status,
		       c.manufacturer, c.model, c.year, c.fuel_type, c.capacity
		FROM bookings b
		JOIN cars c ON b.car_id = c.id
		WHERE b.user_id = ?
		ORDER BY b.created_at DESC`, userID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
