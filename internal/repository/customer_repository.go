package repository

import (
	"context"

	"app/internal/domain/model"
)

type CustomerRepository interface {
	//テナントをまたいだ取得は許さない
	FindByID(ctx context.Context, tenantID, customerID int64) (model.Customer, error)

	//残高が足りるときだけ減算。減らせなければfalse
	RedeemPointsIfEnough(ctx context.Context, customerID int64, points int64) (bool, error)

	//加算。結果は0でクランプ
	AddPoints(ctx context.Context, customerID int64, delta int64) error

	//台帳からの再計算結果で残高を上書き
	SetPoints(ctx context.Context, customerID int64, points int64) error
}
