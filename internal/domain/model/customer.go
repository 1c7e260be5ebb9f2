package model

import "time"

// 顧客。CRM側が持ち主だが、loyalty_pointsだけは注文側が更新する。
// loyalty_pointsはLoyaltyTransactionの合計と常に突き合わせ可能であること。
type Customer struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID int64  `gorm:"not null;index" json:"tenant_id"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Email    string `gorm:"type:varchar(255);not null;index" json:"email"`
	Phone    string `gorm:"type:varchar(30)" json:"phone"`

	//ポイント残高（非正規化）。負になってはいけない
	LoyaltyPoints int64 `gorm:"not null;default:0" json:"loyalty_points"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
