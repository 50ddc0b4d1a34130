package reservation

import (
	"context"
	"time"

	"github.com/sanosuguru/go-coworking-reservation/internal/domain/transaction"
)

// Repository は予約リポジトリのインターフェース
type Repository interface {
	// Create は予約・明細・エリア日別の占有行をまとめて作成する（トランザクション必須）
	// 占有行の一意制約に違反した場合は ErrAreasUnavailable を返す
	Create(ctx context.Context, tx transaction.Tx, reservation *Reservation) error

	// GetByID はIDから予約を取得する
	GetByID(ctx context.Context, id string) (*Reservation, error)

	// GetForUpdate は予約行をロックして取得する（トランザクション必須）
	GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*Reservation, error)

	// GetByUserID はユーザーIDから予約一覧を取得する
	GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*Reservation, error)

	// FindOverlapping はスペース内で期間が重なる保留中・確定済みの予約を取得する
	// tx が nil の場合はトランザクション外で読む
	FindOverlapping(ctx context.Context, tx transaction.Tx, spaceID string, period DateRange) ([]*Reservation, error)

	// UpdateStatus は予約の状態を更新する（トランザクション必須）
	UpdateStatus(ctx context.Context, tx transaction.Tx, reservation *Reservation) error

	// ReleaseAreaDays は予約が占有しているエリア日別の行を解放する（トランザクション必須）
	ReleaseAreaDays(ctx context.Context, tx transaction.Tx, reservationID string) error

	// FindConfirmedExpired は最終日が asOf より前の確定済み予約を取得する（トランザクション必須）
	FindConfirmedExpired(ctx context.Context, tx transaction.Tx, asOf time.Time) ([]*Reservation, error)

	// CompleteBatch は確定済みのままの予約だけを完了に更新し、更新件数を返す（トランザクション必須）
	CompleteBatch(ctx context.Context, tx transaction.Tx, ids []string, updatedAt time.Time) (int, error)
}
