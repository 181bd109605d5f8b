package user

import (
	"strings"
	"time"
)

// User 是 users 表的 GORM 模型。
// 口令存储沿用 salt + 多轮哈希；登录成功后由网关签发 JWT，
// 不再把邮箱当作凭证放在 Authorization 头里。
type User struct {
	ID           string    `gorm:"primaryKey;size:36"`
	FName        string    `gorm:"column:fname;size:64;not null"`
	LName        string    `gorm:"column:lname;size:64;not null"`
	Email        string    `gorm:"uniqueIndex;size:128;not null"`
	LicNum       string    `gorm:"size:32;not null"` // 驾照号
	PhoneNumber  string    `gorm:"size:32;not null"`
	Gender       string    `gorm:"size:16"`
	PasswordHash string    `gorm:"size:128;not null"`
	PasswordSalt string    `gorm:"size:64;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// FullName 姓名拼接（评价、报表展示用）。
func (u User) FullName() string {
	return strings.TrimSpace(u.FName + " " + u.LName)
}
