package coworking

import "github.com/sanosuguru/go-coworking-reservation/internal/pkg/apperror"

// Coworking ドメインのエラー定義
var (
	ErrSpaceNotFound        = apperror.New(apperror.KindNotFound, "space_not_found", "コワーキングスペースが見つかりません")
	ErrSpaceNotApproved     = apperror.New(apperror.KindInvalidState, "space_not_approved", "コワーキングスペースは承認されていません")
	ErrSpaceAlreadyApproved = apperror.New(apperror.KindInvalidState, "space_already_approved", "コワーキングスペースは既に承認されています")
	ErrSpaceAlreadyRejected = apperror.New(apperror.KindInvalidState, "space_already_rejected", "コワーキングスペースは既に却下されています")
	ErrHostIDRequired       = apperror.New(apperror.KindInvalidArgument, "host_id_required", "ホストIDは必須です")
	ErrSpaceNameRequired    = apperror.New(apperror.KindInvalidArgument, "space_name_required", "スペース名は必須です")
	ErrInvalidCapacity      = apperror.New(apperror.KindInvalidArgument, "invalid_space_capacity", "収容人数は1以上である必要があります")
	ErrNotHost              = apperror.New(apperror.KindUnauthorized, "not_space_host", "スペースのホストではありません")
)
