package apperror

import "errors"

// Kind はエラーの種別を表す
type Kind string

const (
	KindInvalidArgument Kind = "invalid_argument"
	KindNotFound        Kind = "not_found"
	KindConflict        Kind = "conflict"
	KindUnauthorized    Kind = "unauthorized"
	KindInvalidState    Kind = "invalid_state"
	KindInternal        Kind = "internal"
)

// Error は呼び出し側で回復可能な業務エラー
// Code は機械可読な安定した識別子、Message は利用者向けの文言
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

// New は新しい業務エラーを作成する
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

// Detailed は対象IDなどの詳細を持つエラー
type Detailed interface {
	Details() []string
}

// As はエラーチェーンから業務エラーを取り出す
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf はエラーの種別を返す。業務エラーでなければ KindInternal
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

// DetailsOf はエラーチェーン上の詳細を返す
func DetailsOf(err error) []string {
	var d Detailed
	if errors.As(err, &d) {
		return d.Details()
	}
	return nil
}

// IsKind はエラーが指定種別かを返す
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
