package coworking

import (
	"context"

	"github.com/sanosuguru/go-coworking-reservation/internal/domain/transaction"
)

// Repository はコワーキングスペースリポジトリのインターフェース
type Repository interface {
	// Create は新しいスペースを作成する
	Create(ctx context.Context, space *Space) error

	// GetByID はIDからスペースを取得する
	GetByID(ctx context.Context, id string) (*Space, error)

	// GetForUpdate はスペース行をロックして取得する（トランザクション必須）
	// 同一スペースへの予約作成・エリア更新はこのロックで直列化される
	GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Space, error)

	// UpdateStatus はスペースの審査状態を更新する
	UpdateStatus(ctx context.Context, space *Space) error
}
