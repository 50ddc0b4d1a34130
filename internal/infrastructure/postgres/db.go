package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-coworking-reservation/internal/config"
	"github.com/sanosuguru/go-coworking-reservation/internal/domain/transaction"
)

// PostgreSQL のエラーコード
const (
	codeUniqueViolation = "23505"
	codeForeignKey      = "23503"
)

// ErrTxRequired はトランザクション必須の操作に tx が渡されなかったことを示す
var ErrTxRequired = errors.New("トランザクションが必要です")

// NewConnection はPostgreSQLへの接続を作成する
func NewConnection(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗しました: %w", err)
	}

	// 接続プール設定
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// Ping はデータベース接続を確認する
func Ping(ctx context.Context, db *sqlx.DB) error {
	return db.PingContext(ctx)
}

// isPQError はエラーが指定コードの PostgreSQL エラーかを返す
func isPQError(err error, code string) bool {
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && string(pgErr.Code) == code
}

// requireTx は transaction.Tx から sqlx.Tx を取り出す。取り出せなければ ErrTxRequired
func requireTx(tx transaction.Tx) (*sqlx.Tx, error) {
	if t := UnwrapTx(tx); t != nil {
		return t, nil
	}
	return nil, ErrTxRequired
}

// queryer は tx があればそれを、なければ DB を返す
func queryer(db *sqlx.DB, tx transaction.Tx) sqlx.ExtContext {
	if t := UnwrapTx(tx); t != nil {
		return t
	}
	return db
}

// dateParam は暦日を DATE 列に渡す YYYY-MM-DD 文字列にする（セッションのタイムゾーンに依存しない）
func dateParam(t time.Time) string {
	return t.Format("2006-01-02")
}
