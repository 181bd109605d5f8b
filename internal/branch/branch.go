package branch

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Branch 是 branches 表的 GORM 模型（门店）。
type Branch struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Name      string    `gorm:"size:64;not null"`
	City      string    `gorm:"size:64"`
	Address   string    `gorm:"size:255"`
	Phone     string    `gorm:"size:32"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// List 返回全部门店。
func (r *Repo) List(ctx context.Context) ([]Branch, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var branches []Branch
	if err := r.db.WithContext(ctx).Order("name").Find(&branches).Error; err != nil {
		return nil, err
	}
	return branches, nil
}
