package coworking

import "time"

// Status はコワーキングスペースの審査状態を表す
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Space はコワーキングスペースを表す
type Space struct {
	ID        string
	HostID    string
	Name      string
	Capacity  int
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSpace は審査待ちのスペースを作成する
func NewSpace(hostID, name string, capacity int, now time.Time) *Space {
	return &Space{
		HostID:    hostID,
		Name:      name,
		Capacity:  capacity,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsApproved は予約を受け付けられる状態かを返す
func (s *Space) IsApproved() bool {
	return s.Status == StatusApproved
}

// IsHostedBy は指定ユーザーがホストかを返す
func (s *Space) IsHostedBy(userID string) bool {
	return s.HostID == userID
}

// Approve はスペースを承認する
func (s *Space) Approve(now time.Time) error {
	if s.Status == StatusApproved {
		return ErrSpaceAlreadyApproved
	}
	s.Status = StatusApproved
	s.UpdatedAt = now
	return nil
}

// Reject はスペースを却下する
func (s *Space) Reject(now time.Time) error {
	if s.Status == StatusRejected {
		return ErrSpaceAlreadyRejected
	}
	s.Status = StatusRejected
	s.UpdatedAt = now
	return nil
}

// Validate はスペースの検証を行う
func (s *Space) Validate() error {
	if s.HostID == "" {
		return ErrHostIDRequired
	}
	if s.Name == "" {
		return ErrSpaceNameRequired
	}
	if s.Capacity <= 0 {
		return ErrInvalidCapacity
	}
	return nil
}
