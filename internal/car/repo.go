package car

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) withCtx(ctx context.Context) *gorm.DB {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.WithContext(ctx)
}

func (r *Repo) Create(ctx context.Context, c *Car) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(c).Error
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Car, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var c Car
	if err := db.Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// GetAvailability 返回车辆可用性与日租金（分）。车辆不存在时返回 gorm.ErrRecordNotFound。
func (r *Repo) GetAvailability(ctx context.Context, id string) (bool, int64, error) {
	c, err := r.FindByID(ctx, id)
	if err != nil {
		return false, 0, err
	}
	return c.IsAvailable(), c.PricePerDay, nil
}

// SetAvailability 设置可用性标记（幂等）。车辆不存在时返回 gorm.ErrRecordNotFound。
func (r *Repo) SetAvailability(ctx context.Context, id string, available bool) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	// 先确认存在：重复设置同一值时 MySQL 的 affected rows 为 0，不能据此判断 NotFound
	var c Car
	if err := db.Select("id").Where("id = ?", id).First(&c).Error; err != nil {
		return err
	}
	return db.Model(&Car{}).Where("id = ?", id).Update("available", AvailableFlag(available)).Error
}

// ListAvailable 列出所有可预约车辆，branchID 非空时按门店过滤。
func (r *Repo) ListAvailable(ctx context.Context, branchID string) ([]Car, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	q := db.Where("available = ?", AvailableYes)
	if branchID != "" {
		q = q.Where("branch_id = ?", branchID)
	}
	var cars []Car
	if err := q.Order("created_at desc").Find(&cars).Error; err != nil {
		return nil, err
	}
	return cars, nil
}

// Random 随机返回 limit 辆可预约车辆（首页推荐位）。
func (r *Repo) Random(ctx context.Context, branchID string, limit int) ([]Car, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	if limit <= 0 {
		limit = 3
	}
	q := db.Where("available = ?", AvailableYes)
	if branchID != "" {
		q = q.Where("branch_id = ?", branchID)
	}
	var cars []Car
	if err := q.Order("RAND()").Limit(limit).Find(&cars).Error; err != nil {
		return nil, err
	}
	return cars, nil
}

// SearchParams 车辆搜索条件（零值表示不过滤）。
type SearchParams struct {
	MinPrice     int64  // 分
	MaxPrice     int64  // 分
	Manufacturer string
	Model        string
	Year         int
}

// Search 按条件搜索可预约车辆。所有条件都走参数绑定，不做字符串拼接。
func (r *Repo) Search(ctx context.Context, p SearchParams) ([]Car, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}

	q := db.Where("available = ?", AvailableYes)
	if p.MinPrice > 0 {
		q = q.Where("price_per_day >= ?", p.MinPrice)
	}
	if p.MaxPrice > 0 {
		q = q.Where("price_per_day <= ?", p.MaxPrice)
	}
	if p.Manufacturer != "" {
		q = q.Where("manufacturer LIKE ?", "%"+p.Manufacturer+"%")
	}
	if p.Model != "" {
		q = q.Where("model LIKE ?", "%"+p.Model+"%")
	}
	if p.Year > 0 {
		q = q.Where("year = ?", p.Year)
	}

	var cars []Car
	if err := q.Find(&cars).Error; err != nil {
		return nil, err
	}
	return cars, nil
}

// AddReview 新增车辆评价（评分合法性由网关校验）。
func (r *Repo) AddReview(ctx context.Context, rv *CarReview) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(rv).Error
}

// ReviewRow 评价列表行（带评价人姓名）。
type ReviewRow struct {
	UserName string  `json:"user_name"`
	Rate     int     `json:"rate"`
	Review   *string `json:"review"`
}

// ListReviews 列出车辆评价（关联 users 表拿评价人姓名）。
func (r *Repo) ListReviews(ctx context.Context, carID string) ([]ReviewRow, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var rows []ReviewRow
	err := db.Raw(`
		SELECT CONCAT(u.fname, ' ', u.lname) AS user_name, r.rate, r.review
		FROM car_reviews r
		JOIN users u ON r.user_id = u.id
		WHERE r.car_id = ?
		ORDER BY r.created_at DESC`, carID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
