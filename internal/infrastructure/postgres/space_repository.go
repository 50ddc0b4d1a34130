package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-coworking-reservation/internal/domain/coworking"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/transaction"
)

const spaceColumns = `id, host_id, name, capacity, status, created_at, updated_at`

// spaceRow はDBの行を表す構造体
type spaceRow struct {
	ID        string    `db:"id"`
	HostID    string    `db:"host_id"`
	Name      string    `db:"name"`
	Capacity  int       `db:"capacity"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *spaceRow) toEntity() *coworking.Space {
	return &coworking.Space{
		ID:        r.ID,
		HostID:    r.HostID,
		Name:      r.Name,
		Capacity:  r.Capacity,
		Status:    coworking.Status(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// SpaceRepository はコワーキングスペースリポジトリのPostgreSQL実装
type SpaceRepository struct {
	db *sqlx.DB
}

// NewSpaceRepository はSpaceRepositoryを作成する
func NewSpaceRepository(db *sqlx.DB) *SpaceRepository {
	return &SpaceRepository{db: db}
}

// Create は新しいスペースを作成する
func (r *SpaceRepository) Create(ctx context.Context, s *coworking.Space) error {
	query := `
		INSERT INTO coworking_spaces (host_id, name, capacity, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		s.HostID, s.Name, s.Capacity, string(s.Status), s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("スペース作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDからスペースを取得する
func (r *SpaceRepository) GetByID(ctx context.Context, id string) (*coworking.Space, error) {
	return r.get(ctx, r.db, `SELECT `+spaceColumns+` FROM coworking_spaces WHERE id = $1`, id)
}

// GetForUpdate はスペース行を FOR UPDATE でロックして取得する
func (r *SpaceRepository) GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*coworking.Space, error) {
	sqlxTx, err := requireTx(tx)
	if err != nil {
		return nil, err
	}
	return r.get(ctx, sqlxTx, `SELECT `+spaceColumns+` FROM coworking_spaces WHERE id = $1 FOR UPDATE`, id)
}

func (r *SpaceRepository) get(ctx context.Context, q sqlx.QueryerContext, query, id string) (*coworking.Space, error) {
	var row spaceRow
	if err := sqlx.GetContext(ctx, q, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, coworking.ErrSpaceNotFound
		}
		return nil, fmt.Errorf("スペース取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// UpdateStatus はスペースの審査状態を更新する
func (r *SpaceRepository) UpdateStatus(ctx context.Context, s *coworking.Space) error {
	query := `UPDATE coworking_spaces SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, string(s.Status), s.UpdatedAt, s.ID)
	if err != nil {
		return fmt.Errorf("スペース更新に失敗しました: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rows == 0 {
		return coworking.ErrSpaceNotFound
	}
	return nil
}

// インターフェースを満たしているか確認
var _ coworking.Repository = (*SpaceRepository)(nil)
