package model

import "time"

// テナント（店舗）。slug/サブドメイン解決は外部のルーティング層が行う。
type Tenant struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(255);not null" json:"name"`
	Slug string `gorm:"type:varchar(100);not null;uniqueIndex" json:"slug"`

	//注文ごとの送料（最小通貨単位）。0なら送料なし
	ShippingFee int64 `gorm:"not null;default:0" json:"shipping_fee"`

	//キャンセル時に付与済みポイントを取り消すか
	ReversePointsOnCancel bool `gorm:"not null;default:false" json:"reverse_points_on_cancel"`

	//決済プロバイダの鍵。secretはAES-GCM暗号化＋base64で保存
	PaymentKeyID           string `gorm:"type:varchar(255)" json:"-"`
	PaymentSecretEncrypted string `gorm:"type:text" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
