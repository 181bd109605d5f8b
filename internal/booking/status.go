package booking

import (
	"fmt"
	"math"
	"time"
)

// AllowTransition 定义预约状态机的允许流转关系。
// 任何非终态都可以进入 canceled；canceled 之后不再流转。
var AllowTransition = map[Status][]Status{
	StatusReserved:      {StatusPickedUp, StatusCanceled},
	StatusPendingPickup: {StatusPickedUp, StatusCanceled},
	StatusPickedUp:      {StatusCompleted, StatusCanceled},
	StatusCompleted:     {StatusCanceled},
	StatusCanceled:      {},
}

// CanTransition 判断 from -> to 是否是一个允许的状态流转。
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	allowed, ok := AllowTransition[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// ApplyTransition 对预约应用状态变更，并维护关键时间字段。
// from == to 时为幂等 no-op（重复取消安全）。
func ApplyTransition(b *Booking, to Status, now time.Time) error {
	if b == nil {
		return fmt.Errorf("booking is nil")
	}
	from := b.Status
	if !CanTransition(from, to) {
		return fmt.Errorf("invalid booking status transition: %s -> %s", from, to)
	}

	b.Status = to

	switch to {
	case StatusPickedUp:
		if b.PickedUpAt == nil {
			t := now
			b.PickedUpAt = &t
		}
	case StatusCompleted:
		if b.CompletedAt == nil {
			t := now
			b.CompletedAt = &t
		}
	case StatusCanceled:
		if b.CanceledAt == nil {
			t := now
			b.CanceledAt = &t
		}
	}
	return nil
}

// DeriveStatus 按当前日期推导预约状态（日粒度）。
// 这是唯一的状态推导函数：创建时给初值，sweep 用同样的日期判定推进，
// 两边不会给出互相矛盾的结果。
func DeriveStatus(today, start, end time.Time) Status {
	d := DateOnly(today)
	s := DateOnly(start)
	e := DateOnly(end)
	switch {
	case d.Before(s):
		return StatusPendingPickup
	case d.After(e):
		return StatusCompleted
	default:
		return StatusPickedUp
	}
}

// Days 计费天数 = ceil((end-start)/86400) + 1。
// 首尾两天都计费是既定业务规则（起租日和还车日各算一天），不是差一错误。
func Days(start, end time.Time) int {
	secs := end.Sub(start).Seconds()
	return int(math.Ceil(secs/86400)) + 1
}

// DateOnly 截断到日（预约的所有日期比较都在日粒度进行）。
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
