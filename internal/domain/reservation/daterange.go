package reservation

import (
	"time"

	"github.com/sanosuguru/go-coworking-reservation/internal/pkg/clock"
)

// MaxSpanDays は1予約で押さえられる最大日数
const MaxSpanDays = 30

// DateRange は両端を含む日付範囲（時刻は持たない）
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange は時刻部分を切り捨てた日付範囲を作成する
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: clock.DateOf(start), End: clock.DateOf(end)}
}

// Days は範囲の日数を返す（両端を含む）
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Overlaps は2つの範囲が1日でも重なるかを返す
func (r DateRange) Overlaps(o DateRange) bool {
	return !r.Start.After(o.End) && !o.Start.After(r.End)
}

// Contains は日付が範囲内かを返す
func (r DateRange) Contains(day time.Time) bool {
	d := clock.DateOf(day)
	return !d.Before(r.Start) && !d.After(r.End)
}

// EachDay は範囲内の各日を返す
func (r DateRange) EachDay() []time.Time {
	days := make([]time.Time, 0, r.Days())
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// EndedBefore は範囲の最終日が today より前かを返す
func (r DateRange) EndedBefore(today time.Time) bool {
	return r.End.Before(clock.DateOf(today))
}

// Validate は予約可能な範囲かを検証する
func (r DateRange) Validate(today time.Time) error {
	if r.Start.After(r.End) {
		return ErrInvalidDateRange
	}
	if r.Start.Before(clock.DateOf(today)) {
		return ErrStartDateInPast
	}
	if r.Days() > MaxSpanDays {
		return ErrSpanTooLong
	}
	return nil
}

// String は "2006-01-02..2006-01-02" 形式で返す
func (r DateRange) String() string {
	return r.Start.Format(time.DateOnly) + ".." + r.End.Format(time.DateOnly)
}
