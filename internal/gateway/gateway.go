package gateway

import (
	"net/http"

	"github.com/DriveLinkRental/DriveLinkRental/internal/booking"
	"github.com/DriveLinkRental/DriveLinkRental/internal/branch"
	"github.com/DriveLinkRental/DriveLinkRental/internal/car"
	"github.com/DriveLinkRental/DriveLinkRental/internal/common/config"
	"github.com/DriveLinkRental/DriveLinkRental/internal/common/logger"
	"github.com/DriveLinkRental/DriveLinkRental/internal/common/server"
	"github.com/DriveLinkRental/DriveLinkRental/internal/payment"
	"github.com/DriveLinkRental/DriveLinkRental/internal/report"
	"github.com/DriveLinkRental/DriveLinkRental/internal/user"
	"gorm.io/gorm"
)

// Gateway 对外的 HTTP 入口：单端点 `/api?action=<name>`，JSON 进出。
// action 名称沿用旧前端的约定，便于前端零改动迁移。
type Gateway struct {
	cfg *config.Config
	log logger.Logger

	users    *user.Repo
	cars     *car.Repo
	branches *branch.Repo
	payments *payment.Repo
	reports  *report.Repo
	bookings *booking.Repo
	engine   *booking.Service

	actions map[string]http.HandlerFunc
}

// New 基于同一个 *gorm.DB 组装所有仓储与预约引擎。
func New(cfg *config.Config, log logger.Logger, db *gorm.DB) *Gateway {
	store := booking.NewRepo(db)
	g := &Gateway{
		cfg:      cfg,
		log:      log,
		users:    user.NewRepo(db),
		cars:     car.NewRepo(db),
		branches: branch.NewRepo(db),
		payments: payment.NewRepo(db),
		reports:  report.NewRepo(db),
		bookings: store,
		engine:   booking.NewService(store),
	}
	g.registerActions()
	return g
}

func (g *Gateway) registerActions() {
	g.actions = map[string]http.HandlerFunc{
		// 账号
		"registerUser":   g.registerUser,
		"loginUser":      g.loginUser,
		"getUserData":    g.getUserData,
		"updateUserInfo": g.updateUserInfo,
		"deleteUser":     g.deleteUser,

		// 车辆
		"getAllCars":    g.getAllCars,
		"searchCars":    g.searchCars,
		"registerCar":   g.registerCar,
		"getCarById":    g.getCarByID,
		"getRandomCars": g.getRandomCars,
		"addReview":     g.addReview,

		// 门店 / 报表
		"getAllBranches": g.getAllBranches,
		"getReport":      g.getReport,

		// 支付方式
		"getAllCreditCards": g.getAllCreditCards,
		"addCreditCard":     g.addCreditCard,
		"deleteCard":        g.deleteCard,

		// 预约
		"createBooking":     g.createBooking,
		"cancelReservation": g.cancelReservation,
	}
}

// Handler 返回挂载完成的 http.Handler（仅业务路由，中间件由 main 串接）。
func (g *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api", g.dispatch)
	return mux
}

func (g *Gateway) dispatch(w http.ResponseWriter, r *http.Request) {
	g.setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	action := r.URL.Query().Get("action")
	h, ok := g.actions[action]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown action.")
		return
	}
	h(w, r)
}

func (g *Gateway) setCORS(w http.ResponseWriter) {
	origin := "*"
	if g.cfg != nil && g.cfg.Server.CORSOrigin != "" {
		origin = g.cfg.Server.CORSOrigin
	}
	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
}

// currentUser 取当前登录用户。鉴权关闭时（开发环境）退回 user_id 参数。
func (g *Gateway) currentUser(r *http.Request) (server.AuthInfo, bool) {
	if ai, ok := server.AuthFromContext(r.Context()); ok {
		return ai, true
	}
	if g.cfg != nil && !g.cfg.Auth.Enabled {
		if id := r.URL.Query().Get("user_id"); id != "" {
			return server.AuthInfo{UserID: id}, true
		}
	}
	return server.AuthInfo{}, false
}

// requireUser currentUser 的 401 便捷封装。
func (g *Gateway) requireUser(w http.ResponseWriter, r *http.Request) (server.AuthInfo, bool) {
	ai, ok := g.currentUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
	}
	return ai, ok
}
