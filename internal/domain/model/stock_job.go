package model

import "time"

type StockJobStatus string

const (
	StockJobPending StockJobStatus = "PENDING"
	StockJobDone    StockJobStatus = "DONE"
	StockJobFailed  StockJobStatus = "FAILED"
)

// 在庫調整のアウトボックス。
// リクエスト内で在庫更新がDB障害で落ちた場合、注文は成立させたまま
// 調整を同一トランザクションで積んでおき、ワーカーが再試行する。
type StockJob struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64          `gorm:"not null;index" json:"product_id"`
	Delta     int64          `gorm:"not null" json:"delta"`
	Reason    string         `gorm:"type:varchar(255);not null" json:"reason"`
	Status    StockJobStatus `gorm:"type:varchar(10);not null;index" json:"status"`
	Attempts  int            `gorm:"not null;default:0" json:"attempts"`
	LastError string         `gorm:"type:text" json:"last_error,omitempty"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
