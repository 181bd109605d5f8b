package booking

import "time"

// Status 预约状态枚举（持久化为字符串）。
type Status string

const (
	StatusReserved      Status = "reserved"       // 历史数据兼容，语义等同 pending_pickup
	StatusPendingPickup Status = "pending_pickup" // 已预约，待取车
	StatusPickedUp      Status = "picked_up"      // 已取车（租期进行中）
	StatusCompleted     Status = "completed"      // 已完成（租期结束）
	StatusCanceled      Status = "canceled"       // 已取消（终态，sweep 不再触碰）
)

// Booking 预约 GORM 模型。
// 状态只允许 booking 引擎写入：创建时由 DeriveStatus 给初值，
// 之后由 sweep 单向推进，取消走 CancelBooking。
// 取消不删行（支付流水与预约记录都保留审计）。
type Booking struct {
	ID string `gorm:"primaryKey;size:36"`

	CarID  string `gorm:"index;size:36;not null"`
	UserID string `gorm:"index;size:36;not null"`

	// 取还车地点
	BookPlace string `gorm:"size:255;not null"`
	DropPlace string `gorm:"size:255;not null"`

	// 租期（日粒度，首尾两天都计费）
	BookDate   time.Time `gorm:"type:date;index;not null"` // 起租日
	ReturnDate time.Time `gorm:"type:date;index;not null"` // 还车日

	PayID  string `gorm:"size:36;not null"`                // 对应 payments 行，一单一笔
	Status Status `gorm:"type:varchar(16);index;not null"` // 当前状态

	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime"`
	PickedUpAt  *time.Time // 取车时间
	CompletedAt *time.Time // 完成时间
	CanceledAt  *time.Time // 取消时间
}

// IsActive 进行中的预约（非取消、非完成）。
func (b Booking) IsActive() bool {
	return b.Status != StatusCanceled && b.Status != StatusCompleted
}

// DateRange 车辆详情页展示的已预约区间。
type DateRange struct {
	BookDate   time.Time `json:"book_date"`
	ReturnDate time.Time `json:"return_date"`
}

// SweepResult 一次 sweep 推进的行数。
type SweepResult struct {
	PickedUp  int64 // pending_pickup/reserved -> picked_up
	Completed int64 // picked_up -> completed
}
