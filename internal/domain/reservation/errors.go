package reservation

import (
	"strings"

	"github.com/sanosuguru/go-coworking-reservation/internal/pkg/apperror"
)

// Reservation ドメインのエラー定義
var (
	ErrReservationNotFound         = apperror.New(apperror.KindNotFound, "reservation_not_found", "予約が見つかりません")
	ErrUserIDRequired              = apperror.New(apperror.KindInvalidArgument, "user_id_required", "ユーザーIDは必須です")
	ErrSpaceIDRequired             = apperror.New(apperror.KindInvalidArgument, "space_id_required", "スペースIDは必須です")
	ErrAreaIDsRequired             = apperror.New(apperror.KindInvalidArgument, "area_ids_required", "エリアIDは必須です")
	ErrInvalidDateRange            = apperror.New(apperror.KindInvalidArgument, "invalid_date_range", "開始日は終了日以前である必要があります")
	ErrStartDateInPast             = apperror.New(apperror.KindInvalidArgument, "start_date_in_past", "過去の日付は予約できません")
	ErrSpanTooLong                 = apperror.New(apperror.KindInvalidArgument, "reservation_span_too_long", "予約期間は30日以内である必要があります")
	ErrAreasUnavailable            = apperror.New(apperror.KindConflict, "areas_unavailable", "指定期間に予約済みのエリアがあります")
	ErrBookingInProgress           = apperror.New(apperror.KindConflict, "booking_in_progress", "エリアが他のユーザーによって処理中です")
	ErrSelfBooking                 = apperror.New(apperror.KindInvalidState, "self_booking", "ホストは自分のスペースを予約できません")
	ErrReservationAlreadyCancelled = apperror.New(apperror.KindInvalidState, "reservation_already_cancelled", "予約は既にキャンセルされています")
	ErrCannotCancelCompleted       = apperror.New(apperror.KindInvalidState, "reservation_completed", "完了した予約はキャンセルできません")
	ErrReservationFinished         = apperror.New(apperror.KindInvalidState, "reservation_finished", "利用期間が終了した予約は変更できません")
	ErrReservationNotPending       = apperror.New(apperror.KindInvalidState, "reservation_not_pending", "予約は保留中ではありません")
	ErrReservationNotConfirmed     = apperror.New(apperror.KindInvalidState, "reservation_not_confirmed", "予約は確定済みではありません")
	ErrReservationNotEnded         = apperror.New(apperror.KindInvalidState, "reservation_not_ended", "予約の利用期間が終了していません")
	ErrNotOwner                    = apperror.New(apperror.KindUnauthorized, "not_reservation_owner", "予約者本人ではありません")
)

// UnavailableError は予約済みで押さえられないエリアを示す
type UnavailableError struct {
	AreaIDs []string
}

func (e *UnavailableError) Error() string {
	return ErrAreasUnavailable.Error() + ": " + strings.Join(e.AreaIDs, ", ")
}

func (e *UnavailableError) Unwrap() error {
	return ErrAreasUnavailable
}

// Details は対象エリアIDを返す
func (e *UnavailableError) Details() []string {
	return e.AreaIDs
}
