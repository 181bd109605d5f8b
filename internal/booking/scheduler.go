package booking

import (
	"context"
	"errors"
	"time"

	"github.com/DriveLinkRental/DriveLinkRental/internal/common/logger"
	"github.com/DriveLinkRental/DriveLinkRental/internal/common/middleware"
)

// Scheduler 周期性执行 sweep 的调度器。
// 旧系统在每个请求入口跑一遍状态更新；这里改成独立的定时批处理，
// sweep 本身幂等，因此周期长短只影响状态推进的及时性，不影响正确性。
// 数据库持续出错时由熔断器暂停一段时间，避免空转打日志。
type Scheduler struct {
	svc      *Service
	interval time.Duration
	log      logger.Logger
	breaker  *middleware.CircuitBreaker
}

func NewScheduler(svc *Service, interval time.Duration, log logger.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{
		svc:      svc,
		interval: interval,
		log:      log,
		breaker:  middleware.NewCircuitBreaker("booking-sweep", 5, 3*interval),
	}
}

// Run 阻塞运行直到 ctx 取消。启动时先跑一次，之后按周期执行。
func (s *Scheduler) Run(ctx context.Context) {
	if s == nil || s.svc == nil {
		return
	}
	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	err := s.breaker.Call(ctx, func() error {
		res, err := s.svc.Sweep(ctx)
		if err != nil {
			return err
		}
		if s.log != nil && (res.PickedUp > 0 || res.Completed > 0) {
			s.log.Infof("booking sweep: %d picked up, %d completed", res.PickedUp, res.Completed)
		}
		return nil
	})
	if err != nil && s.log != nil {
		if errors.Is(err, middleware.ErrCircuitOpen) {
			s.log.Debug("booking sweep skipped: circuit open")
			return
		}
		s.log.Warnf("booking sweep failed: %v", err)
	}
}
