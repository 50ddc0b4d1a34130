package reservation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sanosuguru/go-coworking-reservation/internal/domain/area"
)

// Status は予約の状態を表す
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// IsTerminal は以降の遷移が許されない状態かを返す
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// IsActive はエリアを占有している状態かを返す
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

// CanTransitionTo は状態遷移が許されるかを返す
func (s Status) CanTransitionTo(next Status) bool {
	for _, st := range transitions[s] {
		if st == next {
			return true
		}
	}
	return false
}

// Detail は予約明細（エリアごと、予約時点の日額料金を保持）
type Detail struct {
	AreaID      string
	PricePerDay decimal.Decimal
}

// Reservation は予約エンティティを表す
type Reservation struct {
	ID            string
	UserID        string
	SpaceID       string
	Period        DateRange
	Status        Status
	TotalPrice    decimal.Decimal
	PaymentMethod string
	Details       []Detail
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewReservation は保留中の予約を作成する
// 料金は各エリアの日額 × 日数の合計
func NewReservation(userID, spaceID string, period DateRange, paymentMethod string, areas []*area.Area, now time.Time) *Reservation {
	days := decimal.NewFromInt(int64(period.Days()))
	details := make([]Detail, 0, len(areas))
	total := decimal.Zero
	for _, a := range areas {
		details = append(details, Detail{AreaID: a.ID, PricePerDay: a.PricePerDay})
		total = total.Add(a.PricePerDay.Mul(days))
	}
	return &Reservation{
		UserID:        userID,
		SpaceID:       spaceID,
		Period:        period,
		Status:        StatusPending,
		TotalPrice:    total,
		PaymentMethod: paymentMethod,
		Details:       details,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// AreaIDs は明細のエリアIDを返す
func (r *Reservation) AreaIDs() []string {
	ids := make([]string, len(r.Details))
	for i, d := range r.Details {
		ids[i] = d.AreaID
	}
	return ids
}

// IsOwnedBy は予約者かを返す
func (r *Reservation) IsOwnedBy(userID string) bool {
	return r.UserID == userID
}

// Confirm は保留中の予約を確定する
func (r *Reservation) Confirm(today, now time.Time) error {
	if r.Status != StatusPending {
		return ErrReservationNotPending
	}
	if r.Period.EndedBefore(today) {
		return ErrReservationFinished
	}
	r.Status = StatusConfirmed
	r.UpdatedAt = now
	return nil
}

// Cancel は予約をキャンセルする
func (r *Reservation) Cancel(today, now time.Time) error {
	switch r.Status {
	case StatusCancelled:
		return ErrReservationAlreadyCancelled
	case StatusCompleted:
		return ErrCannotCancelCompleted
	}
	if r.Period.EndedBefore(today) {
		return ErrReservationFinished
	}
	r.Status = StatusCancelled
	r.UpdatedAt = now
	return nil
}

// Complete は利用期間を過ぎた確定済み予約を完了にする（システム専用）
func (r *Reservation) Complete(today, now time.Time) error {
	if !r.Status.CanTransitionTo(StatusCompleted) {
		return ErrReservationNotConfirmed
	}
	if !r.Period.EndedBefore(today) {
		return ErrReservationNotEnded
	}
	r.Status = StatusCompleted
	r.UpdatedAt = now
	return nil
}

// Validate は予約の検証を行う
func (r *Reservation) Validate() error {
	if r.UserID == "" {
		return ErrUserIDRequired
	}
	if r.SpaceID == "" {
		return ErrSpaceIDRequired
	}
	if len(r.Details) == 0 {
		return ErrAreaIDsRequired
	}
	return nil
}
