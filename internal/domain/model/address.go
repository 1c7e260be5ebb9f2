package model

import "time"

// 配送先住所
type Address struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID   int64 `gorm:"not null;index" json:"tenant_id"`
	CustomerID int64 `gorm:"not null;index" json:"customer_id"`

	//宛名
	Name string `gorm:"type:varchar(255);not null" json:"name"`

	//電話番号
	Phone string `gorm:"type:varchar(30)" json:"phone"`

	//市区
	City string `gorm:"type:varchar(255);not null" json:"city"`

	//州
	State string `gorm:"type:varchar(100);not null" json:"state"`

	//郵便番号
	Pincode string `gorm:"type:varchar(20);not null" json:"pincode"`

	//番地など自由記述
	Line1 string `gorm:"type:varchar(255);not null" json:"line1"`

	//この顧客のデフォルト住所か
	IsDefault bool `gorm:"not null;default:false" json:"is_default"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
