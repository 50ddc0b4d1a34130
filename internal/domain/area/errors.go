package area

import (
	"strings"

	"github.com/sanosuguru/go-coworking-reservation/internal/pkg/apperror"
)

// Area ドメインのエラー定義
var (
	ErrAreaNotFound     = apperror.New(apperror.KindNotFound, "area_not_found", "エリアが見つかりません")
	ErrAreaNotInSpace   = apperror.New(apperror.KindInvalidArgument, "area_not_in_space", "指定されたスペースに属さないエリアがあります")
	ErrCapacityExceeded = apperror.New(apperror.KindConflict, "capacity_exceeded", "エリアの収容人数の合計がスペースの収容人数を超えます")
	ErrSpaceIDRequired  = apperror.New(apperror.KindInvalidArgument, "space_id_required", "スペースIDは必須です")
	ErrAreaNameRequired = apperror.New(apperror.KindInvalidArgument, "area_name_required", "エリア名は必須です")
	ErrInvalidCapacity  = apperror.New(apperror.KindInvalidArgument, "invalid_area_capacity", "収容人数は1以上である必要があります")
	ErrInvalidPrice     = apperror.New(apperror.KindInvalidArgument, "invalid_area_price", "料金は0以上である必要があります")
)

// MismatchError は存在しない、または別スペースのエリアIDを示す
type MismatchError struct {
	AreaIDs []string
}

func (e *MismatchError) Error() string {
	return ErrAreaNotInSpace.Error() + ": " + strings.Join(e.AreaIDs, ", ")
}

func (e *MismatchError) Unwrap() error {
	return ErrAreaNotInSpace
}

// Details は対象エリアIDを返す
func (e *MismatchError) Details() []string {
	return e.AreaIDs
}
