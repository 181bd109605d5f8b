package payment

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

// Record 追加一条支付流水。账本只追加，不提供 update/delete。
// booking 引擎在创建预约的事务内调用（传入 tx 构造的 Repo）。
func (r *Repo) Record(ctx context.Context, p *Payment) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(p).Error
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Payment, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var p Payment
	if err := db.Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// CardRow 返回给前端的卡片信息（不含 CVV）。
type CardRow struct {
	ID             string `json:"card_id"`
	CardNumber     string `json:"card_number"`
	ExpirationDate string `json:"expiration_date"`
	CardholderName string `json:"cardholder_name"`
}

// ListCards 列出用户的支付方式。
func (r *Repo) ListCards(ctx context.Context, userID string) ([]CardRow, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var rows []CardRow
	err := db.Model(&CreditCard{}).
		Select("id, card_number, expiration_date, cardholder_name").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repo) AddCard(ctx context.Context, c *CreditCard) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(c).Error
}

// DeleteCard 删除支付方式。卡不存在时返回 gorm.ErrRecordNotFound。
func (r *Repo) DeleteCard(ctx context.Context, cardID string) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	var c CreditCard
	if err := db.Select("id").Where("id = ?", cardID).First(&c).Error; err != nil {
		return err
	}
	return db.Where("id = ?", cardID).Delete(&CreditCard{}).Error
}

// FindCard 校验卡归属（预约前确认 card_id 属于当前用户）。
func (r *Repo) FindCard(ctx context.Context, cardID string) (*CreditCard, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var c CreditCard
	if err := db.Where("id = ?", cardID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}
