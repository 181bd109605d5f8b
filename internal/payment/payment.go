package payment

import (
	"time"
)

// Payment 是 payments 表的 GORM 模型。
// 仅追加：预约成功创建时写入一条，之后不再修改/删除（取消预约也保留，作为审计记录）。
type Payment struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Price       int64     `gorm:"not null"`            // 金额（单位：分）
	PaymentDate time.Time `gorm:"type:date;not null"`  // 记账日期 = 预约起始日
	CardID      string    `gorm:"index;size:36;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// CreditCard 是 credit_cards 表的 GORM 模型（存储的支付方式）。
type CreditCard struct {
	ID             string    `gorm:"primaryKey;size:36"`
	UserID         string    `gorm:"index;size:36;not null"`
	CardNumber     string    `gorm:"size:32;not null"`
	ExpirationDate string    `gorm:"size:8;not null"` // MM/YY
	CardholderName string    `gorm:"size:64;not null"`
	CVV            string    `gorm:"size:8;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}
