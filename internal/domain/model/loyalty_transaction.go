package model

import "time"

type LoyaltyTxType string

const (
	LoyaltyTxEarned   LoyaltyTxType = "EARNED"
	LoyaltyTxRedeemed LoyaltyTxType = "REDEEMED"
)

// ポイント台帳（追記のみ）。残高の監査上の正本。
// pointsは常に正。符号はtypeで表す。
// customers.loyalty_points == sum(EARNED) - sum(REDEEMED)（0でクランプ）が不変条件。
type LoyaltyTransaction struct {
	ID         int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID   int64         `gorm:"not null;index" json:"tenant_id"`
	CustomerID int64         `gorm:"not null;index" json:"customer_id"`
	OrderID    *int64        `gorm:"index" json:"order_id,omitempty"`
	Type       LoyaltyTxType `gorm:"type:varchar(10);not null" json:"type"`
	Points     int64         `gorm:"not null" json:"points"`
	Note       string        `gorm:"type:varchar(255)" json:"note"`
	CreatedAt  time.Time     `gorm:"not null;autoCreateTime;index" json:"created_at"`
}
