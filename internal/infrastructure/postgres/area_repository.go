package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/sanosuguru/go-coworking-reservation/internal/domain/area"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/coworking"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/transaction"
)

const areaColumns = `id, coworking_space_id, name, type, capacity, price_per_day, created_at, updated_at`

type areaRow struct {
	ID          string          `db:"id"`
	SpaceID     string          `db:"coworking_space_id"`
	Name        string          `db:"name"`
	Type        string          `db:"type"`
	Capacity    int             `db:"capacity"`
	PricePerDay decimal.Decimal `db:"price_per_day"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

func (r *areaRow) toEntity() *area.Area {
	return &area.Area{
		ID:          r.ID,
		SpaceID:     r.SpaceID,
		Name:        r.Name,
		Type:        r.Type,
		Capacity:    r.Capacity,
		PricePerDay: r.PricePerDay,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// AreaRepository はエリアリポジトリのPostgreSQL実装
type AreaRepository struct {
	db *sqlx.DB
}

// NewAreaRepository はAreaRepositoryを作成する
func NewAreaRepository(db *sqlx.DB) *AreaRepository {
	return &AreaRepository{db: db}
}

// Create は新しいエリアを作成する
func (r *AreaRepository) Create(ctx context.Context, tx transaction.Tx, a *area.Area) error {
	sqlxTx, err := requireTx(tx)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO coworking_areas (coworking_space_id, name, type, capacity, price_per_day, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err = sqlxTx.QueryRowContext(ctx, query,
		a.SpaceID, a.Name, a.Type, a.Capacity, a.PricePerDay, a.CreatedAt, a.UpdatedAt,
	).Scan(&a.ID)
	if err != nil {
		if isPQError(err, codeForeignKey) {
			return coworking.ErrSpaceNotFound
		}
		return fmt.Errorf("エリア作成に失敗しました: %w", err)
	}
	return nil
}

// Update はエリアの収容人数と料金を更新する
func (r *AreaRepository) Update(ctx context.Context, tx transaction.Tx, a *area.Area) error {
	sqlxTx, err := requireTx(tx)
	if err != nil {
		return err
	}
	query := `UPDATE coworking_areas SET capacity = $1, price_per_day = $2, updated_at = $3 WHERE id = $4`
	result, err := sqlxTx.ExecContext(ctx, query, a.Capacity, a.PricePerDay, a.UpdatedAt, a.ID)
	if err != nil {
		return fmt.Errorf("エリア更新に失敗しました: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rows == 0 {
		return area.ErrAreaNotFound
	}
	return nil
}

// GetByID はIDからエリアを取得する
func (r *AreaRepository) GetByID(ctx context.Context, id string) (*area.Area, error) {
	var row areaRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+areaColumns+` FROM coworking_areas WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, area.ErrAreaNotFound
		}
		return nil, fmt.Errorf("エリア取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// GetByIDs は複数のIDからエリアを取得する
func (r *AreaRepository) GetByIDs(ctx context.Context, ids []string) ([]*area.Area, error) {
	if len(ids) == 0 {
		return []*area.Area{}, nil
	}
	return r.selectAreas(ctx, `SELECT `+areaColumns+` FROM coworking_areas WHERE id = ANY($1) ORDER BY id`, pq.Array(ids))
}

// GetBySpaceID はスペースのエリア一覧を作成順に取得する
func (r *AreaRepository) GetBySpaceID(ctx context.Context, spaceID string) ([]*area.Area, error) {
	return r.selectAreas(ctx, `SELECT `+areaColumns+` FROM coworking_areas WHERE coworking_space_id = $1 ORDER BY created_at, id`, spaceID)
}

func (r *AreaRepository) selectAreas(ctx context.Context, query string, args ...interface{}) ([]*area.Area, error) {
	var rows []areaRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("エリア一覧取得に失敗しました: %w", err)
	}
	areas := make([]*area.Area, len(rows))
	for i := range rows {
		areas[i] = rows[i].toEntity()
	}
	return areas, nil
}

// SumCapacityBySpaceID はスペースのエリア収容人数の合計を返す
func (r *AreaRepository) SumCapacityBySpaceID(ctx context.Context, tx transaction.Tx, spaceID string) (int, error) {
	sqlxTx, err := requireTx(tx)
	if err != nil {
		return 0, err
	}
	var total int
	query := `SELECT COALESCE(SUM(capacity), 0) FROM coworking_areas WHERE coworking_space_id = $1`
	if err := sqlxTx.GetContext(ctx, &total, query, spaceID); err != nil {
		return 0, fmt.Errorf("収容人数の集計に失敗しました: %w", err)
	}
	return total, nil
}

var _ area.Repository = (*AreaRepository)(nil)
