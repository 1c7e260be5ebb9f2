package model

import "time"

type TrackingStatus string

const (
	TrackingStatusCreated       TrackingStatus = "CREATED"
	TrackingStatusPaymentPaid   TrackingStatus = "PAYMENT_PAID"
	TrackingStatusStatusChanged TrackingStatus = "STATUS_CHANGED"
	TrackingStatusCancelled     TrackingStatus = "CANCELLED"
	TrackingStatusDelivered     TrackingStatus = "DELIVERED"
)

// 注文の追跡ログ（追記のみ）。
// 状態を変える操作1回につき1行。更新・削除はしない。
type OrderTracking struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64          `gorm:"not null;index" json:"order_id"`
	Status    TrackingStatus `gorm:"type:varchar(30);not null" json:"status"`
	Note      string         `gorm:"type:text" json:"note"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime;index" json:"created_at"`
}
