package models

import "context"

// MemberState is the coarse membership state of a user in the restricted channel.
type MemberState int

const (
	MemberPresent MemberState = iota
	MemberLeft
	MemberKicked
)

func (s MemberState) String() string {
	switch s {
	case MemberPresent:
		return "present"
	case MemberLeft:
		return "left"
	case MemberKicked:
		return "kicked"
	}
	return "unknown"
}

// Membership controls access to the restricted channel.
// Remove must also prevent re-entry through previously issued invite links.
// Remove of an absent user and Restore of a user that is not banned succeed.
type Membership interface {
	Status(ctx context.Context, userID int64) (MemberState, error)
	Remove(ctx context.Context, userID int64) error
	Restore(ctx context.Context, userID int64) error
}
