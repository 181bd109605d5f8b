package car

import (
	"time"
)

// 可用性标记（cars.available，单字符，沿用 Y/N 约定）。
const (
	AvailableYes = "Y"
	AvailableNo  = "N"
)

// Car 是 cars 表的 GORM 模型。
// available 为派生状态：当且仅当存在一个进行中的预约时为 N，
// 只允许 booking 引擎修改（创建/取消预约时翻转）。
type Car struct {
	ID           string `gorm:"primaryKey;size:36"`
	Manufacturer string `gorm:"index;size:64;not null"`
	Model        string `gorm:"index;size:64;not null"`
	Year         int    `gorm:"not null"`
	PricePerDay  int64  `gorm:"not null;default:0"` // 日租金（单位：分）
	FuelType     string `gorm:"size:16"`
	Capacity     int    `gorm:"not null;default:0"`
	Available    string `gorm:"type:char(1);index;not null;default:'Y'"`
	BranchID     string `gorm:"index;size:36"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// IsAvailable 判断车辆当前是否可被预约。
func (c Car) IsAvailable() bool {
	return c.Available == AvailableYes
}

// AvailableFlag bool -> Y/N。
func AvailableFlag(available bool) string {
	if available {
		return AvailableYes
	}
	return AvailableNo
}

// CarReview 是 car_reviews 表的 GORM 模型（1-5 星 + 可选文字评价）。
type CarReview struct {
	ID     string  `gorm:"primaryKey;size:36"`
	UserID string  `gorm:"index;size:36;not null"`
	CarID  string  `gorm:"index;size:36;not null"`
	Rate   int     `gorm:"not null"`
	Review *string `gorm:"size:1024"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
