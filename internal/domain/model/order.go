package model

import "time"

// 配送ステータス。DELIVERED / CANCELLED は終端で以降の遷移は不可。
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// 支払いステータス。PENDING→PAID の一方向のみ。
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// 支払い方法
type PaymentMode string

const (
	PaymentModeCOD    PaymentMode = "COD"
	PaymentModeOnline PaymentMode = "ONLINE"
)

// 注文。金額の正本。作成後にハード削除はしない。
// total_amount = max(0, subtotal + shipping_fee - discount)
type Order struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID   int64 `gorm:"not null;index" json:"tenant_id"`
	CustomerID int64 `gorm:"not null;index" json:"customer_id"`

	Subtotal       int64 `gorm:"not null" json:"subtotal"`
	Discount       int64 `gorm:"not null;default:0" json:"discount"`
	ShippingFee    int64 `gorm:"not null;default:0" json:"shipping_fee"`
	TotalAmount    int64 `gorm:"not null" json:"total_amount"`
	PointsRedeemed int64 `gorm:"not null;default:0" json:"points_redeemed"`

	PaymentMode   PaymentMode   `gorm:"type:varchar(10);not null" json:"payment_mode"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(10);not null;index" json:"payment_status"`
	Status        OrderStatus   `gorm:"type:varchar(20);not null;index" json:"status"`

	//住所スナップショット。後から住所が編集・削除されても注文は変わらない
	ShipName    string `gorm:"type:varchar(255);not null" json:"ship_name"`
	ShipPhone   string `gorm:"type:varchar(30)" json:"ship_phone"`
	ShipCity    string `gorm:"type:varchar(255);not null" json:"ship_city"`
	ShipState   string `gorm:"type:varchar(100);not null" json:"ship_state"`
	ShipPincode string `gorm:"type:varchar(20);not null" json:"ship_pincode"`
	ShipLine1   string `gorm:"type:varchar(255);not null" json:"ship_line1"`

	//キャンセル情報
	CancelReason string     `gorm:"type:varchar(255)" json:"cancel_reason,omitempty"`
	CancelNote   string     `gorm:"type:text" json:"cancel_note,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`

	//決済プロバイダ側の識別子
	ProviderOrderID   string `gorm:"type:varchar(255);index" json:"-"`
	ProviderPaymentID string `gorm:"type:varchar(255)" json:"-"`

	IdempotencyKey string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	CreatedAt      time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 終端ステータスか
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}
