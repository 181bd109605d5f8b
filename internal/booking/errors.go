package booking

import "errors"

// 业务错误（网关按 errors.Is 映射 HTTP 状态码：
// 校验/冲突类 -> 400，找不到 -> 404，存储失败 -> 500）。
var (
	ErrCarUnavailable      = errors.New("car is not available")
	ErrCarNotFound         = errors.New("car not found")
	ErrMissingField        = errors.New("all fields are required")
	ErrInvalidDateRange    = errors.New("invalid booking dates")
	ErrPaymentRecordFailed = errors.New("failed to record payment")
	ErrBookingInsertFailed = errors.New("failed to create booking")
	ErrBookingNotFound     = errors.New("booking not found")
)
