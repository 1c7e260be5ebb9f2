package repository

import (
	"app/internal/domain/model"
	"context"
)

// 住所(Address)を保存・取得する窓口
type AddressRepository interface {
	Create(ctx context.Context, address model.Address) (model.Address, error)

	//顧客が持つ住所一覧を返す
	ListByCustomerID(ctx context.Context, customerID int64) ([]model.Address, error)

	//住所IDから住所を1件取得
	FindByID(ctx context.Context, addressID int64) (model.Address, error)

	Update(ctx context.Context, address model.Address) error

	Delete(ctx context.Context, addressID int64) error

	//住所がその顧客のものかを確認（IDOR対策で注文確定時にも必ず呼ぶ）
	IsOwnedByCustomer(ctx context.Context, addressID, customerID int64) (bool, error)

	//デフォルト住所の切り替え
	SetDefault(ctx context.Context, customerID, addressID int64) error
}
