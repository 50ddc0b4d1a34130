package application

import (
	"context"
	"fmt"

	"github.com/sanosuguru/go-coworking-reservation/internal/domain/area"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/coworking"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/transaction"
)

// CapacityValidator はスペース内のエリア収容人数の合計がスペースの収容人数を超えないことを保証する
// エリアの作成・収容人数変更時にだけ使い、予約時には使わない
type CapacityValidator struct {
	areaRepo area.Repository
}

func NewCapacityValidator(ar area.Repository) *CapacityValidator {
	return &CapacityValidator{areaRepo: ar}
}

// Validate は現在の合計に delta を加えてもスペースの収容人数以内かを検証する
// space はトランザクション内でロック済みであること
func (v *CapacityValidator) Validate(ctx context.Context, tx transaction.Tx, space *coworking.Space, delta int) error {
	current, err := v.areaRepo.SumCapacityBySpaceID(ctx, tx, space.ID)
	if err != nil {
		return fmt.Errorf("収容人数の集計に失敗: %w", err)
	}
	if current+delta > space.Capacity {
		return area.ErrCapacityExceeded
	}
	return nil
}
