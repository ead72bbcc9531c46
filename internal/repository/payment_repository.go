package repository

import (
	"context"

	"fastfood/internal/domain/model"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment model.Payment) (model.Payment, error)

	//表示用の正は最新（payment_timeが最大）の試行
	LatestByOrderID(ctx context.Context, orderID int64) (model.Payment, error)

	//ゲートウェイ確定時に最新試行のステータスを書き換える
	UpdateLatestStatus(ctx context.Context, orderID int64, status model.PaymentStatus) error
}
