package main

import (
	"context"
	"flag"
	"net/http"
	"os"

	"github.com/DriveLinkRental/DriveLinkRental/internal/booking"
	"github.com/DriveLinkRental/DriveLinkRental/internal/branch"
	"github.com/DriveLinkRental/DriveLinkRental/internal/car"
	"github.com/DriveLinkRental/DriveLinkRental/internal/common/config"
	"github.com/DriveLinkRental/DriveLinkRental/internal/common/db"
	"github.com/DriveLinkRental/DriveLinkRental/internal/common/logger"
	"github.com/DriveLinkRental/DriveLinkRental/internal/common/middleware"
	"github.com/DriveLinkRental/DriveLinkRental/internal/common/server"
	"github.com/DriveLinkRental/DriveLinkRental/internal/common/tracing"
	"github.com/DriveLinkRental/DriveLinkRental/internal/gateway"
	"github.com/DriveLinkRental/DriveLinkRental/internal/payment"
	"github.com/DriveLinkRental/DriveLinkRental/internal/user"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "configs/rental-service.json", "配置文件路径")
	consulConfigKey := flag.String("consul-config-key", "", "从 Consul KV 读取配置的 key（设置后优先于配置文件）")
	consulHost := flag.String("consul-host", "localhost", "读取 KV 配置用的 Consul 地址")
	consulPort := flag.Int("consul-port", 8500, "读取 KV 配置用的 Consul 端口")
	migrate := flag.Bool("migrate", true, "启动时执行 AutoMigrate")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *consulConfigKey != "" {
		cfg, err = config.LoadConfigFromConsulKV(*consulHost, *consulPort, *consulConfigKey)
	} else {
		cfg, err = config.LoadConfig(*configPath)
	}
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.Path)
	if err != nil {
		logrus.Fatalf("init logger: %v", err)
	}

	// Jaeger：失败只告警，不阻塞启动
	if _, closer, err := tracing.InitTracer(cfg.Server.Name, cfg.Jaeger.Endpoint, cfg.Jaeger.Sampler); err != nil {
		log.Warnf("init tracer: %v", err)
	} else {
		defer closer.Close()
	}

	gdb, err := db.NewMySQL(
		cfg.Database.Host, cfg.Database.Port,
		cfg.Database.User, cfg.Database.Password, cfg.Database.Database,
		cfg.Database.MaxIdle, cfg.Database.MaxOpen,
	)
	if err != nil {
		log.Fatalf("connect mysql: %v", err)
	}

	if *migrate {
		if err := gdb.AutoMigrate(
			&user.User{},
			&car.Car{},
			&car.CarReview{},
			&branch.Branch{},
			&payment.Payment{},
			&payment.CreditCard{},
			&booking.Booking{},
		); err != nil {
			log.Fatalf("auto migrate: %v", err)
		}
	}

	// 后台 sweep：按日期推进预约状态（幂等），随进程退出
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := booking.NewService(booking.NewRepo(gdb))
	go booking.NewScheduler(engine, cfg.Sweep.Interval(), log).Run(ctx)

	gw := gateway.New(cfg, log, gdb)

	var limiter middleware.RateLimiter
	if cfg.Server.RateLimit > 0 {
		limiter = middleware.NewTokenBucket(cfg.Server.RateLimit, cfg.Server.RateLimit)
	}

	handler := server.Chain(gw.Handler(),
		server.Recovery(log),
		server.Tracing(cfg.Server.Name),
		server.AccessLog(log),
		func(next http.Handler) http.Handler {
			return middleware.RateLimitHandler(limiter, next)
		},
		server.JWTAuth(cfg.Auth, log),
	)

	if err := server.RunHTTPServer(cfg, log, handler); err != nil {
		log.Errorf("server exited: %v", err)
		os.Exit(1)
	}
}
