package gateway

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/DriveLinkRental/DriveLinkRental/internal/car"
	"github.com/google/uuid"
)

func (g *Gateway) getAllCars(w http.ResponseWriter, r *http.Request) {
	cars, err := g.cars.ListAvailable(r.Context(), r.URL.Query().Get("branch_id"))
	if err != nil {
		g.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"cars": cars})
}

func (g *Gateway) searchCars(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := car.SearchParams{
		Manufacturer: strings.TrimSpace(q.Get("manufacturer")),
		Model:        strings.TrimSpace(q.Get("model")),
	}
	p.MinPrice, _ = strconv.ParseInt(q.Get("min_price"), 10, 64)
	p.MaxPrice, _ = strconv.ParseInt(q.Get("max_price"), 10, 64)
	p.Year, _ = strconv.Atoi(q.Get("year"))

	cars, err := g.cars.Search(r.Context(), p)
	if err != nil {
		g.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"cars": cars})
}

type registerCarRequest struct {
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	PricePerDay  int64  `json:"price_per_day"` // 分
	FuelType     string `json:"fuel_type"`
	Capacity     int    `json:"capacity"`
	BranchID     string `json:"branch_id"`
}

func (g *Gateway) registerCar(w http.ResponseWriter, r *http.Request) {
	if _, ok := g.requireUser(w, r); !ok {
		return
	}

	var req registerCarRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	req.Manufacturer = strings.TrimSpace(req.Manufacturer)
	req.Model = strings.TrimSpace(req.Model)
	if req.Manufacturer == "" || req.Model == "" || req.Year <= 0 || req.PricePerDay <= 0 {
		writeError(w, http.StatusBadRequest, "Missing required car fields.")
		return
	}

	c := &car.Car{
		ID:           uuid.NewString(),
		Manufacturer: req.Manufacturer,
		Model:        req.Model,
		Year:         req.Year,
		PricePerDay:  req.PricePerDay,
		FuelType:     strings.TrimSpace(req.FuelType),
		Capacity:     req.Capacity,
		Available:    car.AvailableYes,
		BranchID:     strings.TrimSpace(req.BranchID),
	}
	if err := g.cars.Create(r.Context(), c); err != nil {
		g.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"car_id": c.ID})
}

// getCarByID 车辆详情聚合：基本信息 + 评价 + 已预约区间。
func (g *Gateway) getCarByID(w http.ResponseWriter, r *http.Request) {
	carID := strings.TrimSpace(r.URL.Query().Get("car_id"))
	if carID == "" {
		writeError(w, http.StatusBadRequest, "car_id is required.")
		return
	}

	c, err := g.cars.FindByID(r.Context(), carID)
	if err != nil {
		g.writeDomainError(w, err)
		return
	}
	reviews, err := g.cars.ListReviews(r.Context(), carID)
	if err != nil {
		g.writeDomainError(w, err)
		return
	}
	ranges, err := g.bookings.ReservedRanges(r.Context(), carID)
	if err != nil {
		g.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"car":             c,
		"reviews":         reviews,
		"reserved_ranges": ranges,
	})
}

func (g *Gateway) getRandomCars(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	cars, err := g.cars.Random(r.Context(), r.URL.Query().Get("branch_id"), limit)
	if err != nil {
		g.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"cars": cars})
}

type addReviewRequest struct {
	CarID  string  `json:"car_id"`
	Rate   int     `json:"rate"`
	Review *string `json:"review"`
}

func (g *Gateway) addReview(w http.ResponseWriter, r *http.Request) {
	ai, ok := g.requireUser(w, r)
	if !ok {
		return
	}

	var req addReviewRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	req.CarID = strings.TrimSpace(req.CarID)
	if req.CarID == "" {
		writeError(w, http.StatusBadRequest, "car_id is required.")
		return
	}
	if req.Rate < 1 || req.Rate > 5 {
		writeError(w, http.StatusBadRequest, "Rate must be between 1 and 5.")
		return
	}

	rv := &car.CarReview{
		ID:     uuid.NewString(),
		UserID: ai.UserID,
		CarID:  req.CarID,
		Rate:   req.Rate,
		Review: req.Review,
	}
	if err := g.cars.AddReview(r.Context(), rv); err != nil {
		g.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"review_id": rv.ID})
}

func (g *Gateway) getAllBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := g.branches.List(r.Context())
	if err != nil {
		g.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"branches": branches})
}
