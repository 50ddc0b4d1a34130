package area

import (
	"context"

	"github.com/sanosuguru/go-coworking-reservation/internal/domain/transaction"
)

// Repository はエリアリポジトリのインターフェース
type Repository interface {
	// Create は新しいエリアを作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, area *Area) error

	// Update はエリアの収容人数と料金を更新する（トランザクション必須）
	Update(ctx context.Context, tx transaction.Tx, area *Area) error

	// GetByID はIDからエリアを取得する
	GetByID(ctx context.Context, id string) (*Area, error)

	// GetByIDs は複数のIDからエリアを取得する。存在しないIDは結果に含まれない
	GetByIDs(ctx context.Context, ids []string) ([]*Area, error)

	// GetBySpaceID はスペースのエリア一覧を取得する
	GetBySpaceID(ctx context.Context, spaceID string) ([]*Area, error)

	// SumCapacityBySpaceID はスペースのエリア収容人数の合計を返す（トランザクション必須）
	SumCapacityBySpaceID(ctx context.Context, tx transaction.Tx, spaceID string) (int, error)
}
