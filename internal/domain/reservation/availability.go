package reservation

import "sort"

// Availability は空き状況の判定結果
type Availability struct {
	Available          bool
	ConflictingAreaIDs []string
}

// Check は既存の有効な予約と要求エリアの重なりから空き状況を判定する
// existing は判定対象の期間と重なる予約であること
func Check(existing []*Reservation, requested []string) *Availability {
	booked := make(map[string]struct{})
	for _, r := range existing {
		if !r.Status.IsActive() {
			continue
		}
		for _, d := range r.Details {
			booked[d.AreaID] = struct{}{}
		}
	}

	seen := make(map[string]struct{}, len(requested))
	conflicts := make([]string, 0)
	for _, id := range requested {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := booked[id]; ok {
			conflicts = append(conflicts, id)
		}
	}
	sort.Strings(conflicts)

	return &Availability{Available: len(conflicts) == 0, ConflictingAreaIDs: conflicts}
}
