package model

import "time"

type CartStatus string

const (
	CartStatusActive    CartStatus = "ACTIVE"
	CartStatusAbandoned CartStatus = "ABANDONED"
)

// 1顧客（テナント内）につきACTIVEは1つ。
// 注文確定時は明細だけ消してカート自体は使い回す。
type Cart struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID   int64      `gorm:"not null;index" json:"tenant_id"`
	CustomerID int64      `gorm:"not null;index" json:"customer_id"`
	Status     CartStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt  time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
