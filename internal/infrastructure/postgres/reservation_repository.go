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

	"github.com/sanosuguru/go-coworking-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/transaction"
)

const reservationColumns = `id, user_id, coworking_space_id, start_date, end_date, status, total_price, payment_method, created_at, updated_at`

type reservationRow struct {
	ID            string          `db:"id"`
	UserID        string          `db:"user_id"`
	SpaceID       string          `db:"coworking_space_id"`
	StartDate     time.Time       `db:"start_date"`
	EndDate       time.Time       `db:"end_date"`
	Status        string          `db:"status"`
	TotalPrice    decimal.Decimal `db:"total_price"`
	PaymentMethod string          `db:"payment_method"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

type detailRow struct {
	ReservationID string          `db:"reservation_id"`
	AreaID        string          `db:"coworking_area_id"`
	PricePerDay   decimal.Decimal `db:"price_per_day"`
}

// ReservationRepository は予約リポジトリのPostgreSQL実装
type ReservationRepository struct {
	db *sqlx.DB
}

// NewReservationRepository はReservationRepositoryを作成する
func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Create は予約・明細・エリア日別の占有行を同一トランザクションで作成する
func (r *ReservationRepository) Create(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlxTx, err := requireTx(tx)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO reservations (user_id, coworking_space_id, start_date, end_date, status, total_price, payment_method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	if err := sqlxTx.QueryRowContext(ctx, query,
		res.UserID, res.SpaceID, dateParam(res.Period.Start), dateParam(res.Period.End),
		string(res.Status), res.TotalPrice, res.PaymentMethod, res.CreatedAt, res.UpdatedAt,
	).Scan(&res.ID); err != nil {
		return fmt.Errorf("予約作成に失敗: %w", err)
	}

	for _, d := range res.Details {
		if _, err := sqlxTx.ExecContext(ctx,
			`INSERT INTO reservation_details (reservation_id, coworking_area_id, price_per_day) VALUES ($1, $2, $3)`,
			res.ID, d.AreaID, d.PricePerDay,
		); err != nil {
			return fmt.Errorf("予約明細作成に失敗: %w", err)
		}
	}

	// (エリア, 日) の主キー違反は同じエリアの期間重複を意味する
	claim := `
		INSERT INTO reservation_area_days (coworking_area_id, day, reservation_id)
		SELECT a.id, d.day::date, $1
		FROM unnest($2::text[]) AS a(id)
		CROSS JOIN generate_series($3::date, $4::date, interval '1 day') AS d(day)
	`
	if _, err := sqlxTx.ExecContext(ctx, claim,
		res.ID, pq.Array(res.AreaIDs()), dateParam(res.Period.Start), dateParam(res.Period.End),
	); err != nil {
		if isPQError(err, codeUniqueViolation) {
			return r.unavailableError(ctx, res)
		}
		return fmt.Errorf("エリア占有の登録に失敗: %w", err)
	}
	return nil
}

// unavailableError は先に確定した占有行から競合したエリアを特定する
// 一意制約違反でトランザクションは中断しているので、接続プール側で読む
func (r *ReservationRepository) unavailableError(ctx context.Context, res *reservation.Reservation) error {
	query := `
		SELECT DISTINCT coworking_area_id
		FROM reservation_area_days
		WHERE coworking_area_id = ANY($1) AND day BETWEEN $2::date AND $3::date
		ORDER BY coworking_area_id
	`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query,
		pq.Array(res.AreaIDs()), dateParam(res.Period.Start), dateParam(res.Period.End),
	); err != nil || len(ids) == 0 {
		return reservation.ErrAreasUnavailable
	}
	return &reservation.UnavailableError{AreaIDs: ids}
}

// GetByID はIDから予約を取得する
func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	return r.getOne(ctx, r.db, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)
}

// GetForUpdate は予約行を FOR UPDATE でロックして取得する
func (r *ReservationRepository) GetForUpdate(ctx context.Context, tx transaction.Tx, id string) (*reservation.Reservation, error) {
	sqlxTx, err := requireTx(tx)
	if err != nil {
		return nil, err
	}
	return r.getOne(ctx, sqlxTx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1 FOR UPDATE`, id)
}

func (r *ReservationRepository) getOne(ctx context.Context, q sqlx.QueryerContext, query, id string) (*reservation.Reservation, error) {
	var row reservationRow
	if err := sqlx.GetContext(ctx, q, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	list, err := r.withDetails(ctx, q, []reservationRow{row})
	if err != nil {
		return nil, err
	}
	return list[0], nil
}

// GetByUserID はユーザーの予約を新しい順に取得する
func (r *ReservationRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*reservation.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE user_id = $1 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`
	return r.selectReservations(ctx, r.db, query, userID, limit, offset)
}

// FindOverlapping はスペース内で期間が重なる保留中・確定済みの予約を取得する
func (r *ReservationRepository) FindOverlapping(ctx context.Context, tx transaction.Tx, spaceID string, period reservation.DateRange) ([]*reservation.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE coworking_space_id = $1
		  AND status IN ('pending', 'confirmed')
		  AND start_date <= $3::date
		  AND end_date >= $2::date
		ORDER BY start_date, id
	`
	return r.selectReservations(ctx, queryer(r.db, tx), query, spaceID, dateParam(period.Start), dateParam(period.End))
}

// UpdateStatus は予約の状態を更新する
func (r *ReservationRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlxTx, err := requireTx(tx)
	if err != nil {
		return err
	}
	result, err := sqlxTx.ExecContext(ctx,
		`UPDATE reservations SET status = $1, updated_at = $2 WHERE id = $3`,
		string(res.Status), res.UpdatedAt, res.ID,
	)
	if err != nil {
		return fmt.Errorf("予約更新に失敗: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗: %w", err)
	}
	if rows == 0 {
		return reservation.ErrReservationNotFound
	}
	return nil
}

// ReleaseAreaDays は予約のエリア日別占有を削除する
func (r *ReservationRepository) ReleaseAreaDays(ctx context.Context, tx transaction.Tx, reservationID string) error {
	sqlxTx, err := requireTx(tx)
	if err != nil {
		return err
	}
	if _, err := sqlxTx.ExecContext(ctx, `DELETE FROM reservation_area_days WHERE reservation_id = $1`, reservationID); err != nil {
		return fmt.Errorf("エリア占有の解放に失敗: %w", err)
	}
	return nil
}

// FindConfirmedExpired は最終日が asOf より前の確定済み予約をロックして取得する
func (r *ReservationRepository) FindConfirmedExpired(ctx context.Context, tx transaction.Tx, asOf time.Time) ([]*reservation.Reservation, error) {
	sqlxTx, err := requireTx(tx)
	if err != nil {
		return nil, err
	}
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE status = 'confirmed' AND end_date < $1::date
		ORDER BY end_date, id
		FOR UPDATE
	`
	return r.selectReservations(ctx, sqlxTx, query, dateParam(asOf))
}

// CompleteBatch は確定済みのままの予約を一括で完了にする
func (r *ReservationRepository) CompleteBatch(ctx context.Context, tx transaction.Tx, ids []string, updatedAt time.Time) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	sqlxTx, err := requireTx(tx)
	if err != nil {
		return 0, err
	}
	result, err := sqlxTx.ExecContext(ctx,
		`UPDATE reservations SET status = 'completed', updated_at = $1 WHERE id = ANY($2) AND status = 'confirmed'`,
		updatedAt, pq.Array(ids),
	)
	if err != nil {
		return 0, fmt.Errorf("予約の一括完了に失敗: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("更新結果の確認に失敗: %w", err)
	}
	return int(rows), nil
}

func (r *ReservationRepository) selectReservations(ctx context.Context, q sqlx.QueryerContext, query string, args ...interface{}) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	return r.withDetails(ctx, q, rows)
}

// withDetails は予約行に明細をまとめて読み込む
func (r *ReservationRepository) withDetails(ctx context.Context, q sqlx.QueryerContext, rows []reservationRow) ([]*reservation.Reservation, error) {
	result := make([]*reservation.Reservation, len(rows))
	if len(rows) == 0 {
		return result, nil
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	var details []detailRow
	query := `SELECT reservation_id, coworking_area_id, price_per_day FROM reservation_details WHERE reservation_id = ANY($1) ORDER BY reservation_id, coworking_area_id`
	if err := sqlx.SelectContext(ctx, q, &details, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("予約明細取得に失敗: %w", err)
	}
	byReservation := make(map[string][]reservation.Detail, len(rows))
	for _, d := range details {
		byReservation[d.ReservationID] = append(byReservation[d.ReservationID], reservation.Detail{
			AreaID:      d.AreaID,
			PricePerDay: d.PricePerDay,
		})
	}

	for i, row := range rows {
		result[i] = &reservation.Reservation{
			ID:            row.ID,
			UserID:        row.UserID,
			SpaceID:       row.SpaceID,
			Period:        reservation.NewDateRange(row.StartDate, row.EndDate),
			Status:        reservation.Status(row.Status),
			TotalPrice:    row.TotalPrice,
			PaymentMethod: row.PaymentMethod,
			Details:       byReservation[row.ID],
			CreatedAt:     row.CreatedAt,
			UpdatedAt:     row.UpdatedAt,
		}
	}
	return result, nil
}

var _ reservation.Repository = (*ReservationRepository)(nil)
