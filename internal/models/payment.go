package models

import (
	"fmt"
	"time"
)

// PaymentStatus is the review state of a payment proof.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
)

// Valid reports whether s is one of the known states.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentApproved, PaymentRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentApproved || s == PaymentRejected
}

// Approve returns the state after approval. Only Pending may be approved.
func (s PaymentStatus) Approve() (PaymentStatus, error) {
	return s.transition(PaymentApproved)
}

// Reject returns the state after rejection. Only Pending may be rejected.
func (s PaymentStatus) Reject() (PaymentStatus, error) {
	return s.transition(PaymentRejected)
}

func (s PaymentStatus) transition(to PaymentStatus) (PaymentStatus, error) {
	if !s.Valid() {
		return s, fmt.Errorf("unknown payment status %q", s)
	}
	if s.Terminal() {
		return s, fmt.Errorf("%w: payment is %s", ErrAlreadyDecided, s)
	}
	return to, nil
}

// Payment is a submitted payment proof awaiting or past review.
type Payment struct {
	ID     uint `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	UserID uint `json:"user_id" gorm:"column:user_id;index;not null"`
	User   User `json:"-" gorm:"foreignKey:UserID"`
	// ProofRef is the opaque reference to the proof image (a Telegram file id).
	ProofRef string        `json:"proof_ref" gorm:"column:proof_ref;type:text;not null"`
	Status   PaymentStatus `json:"status" gorm:"column:status;size:16;not null;default:pending;index"`
	// DecidedBy is the admin identity that moved the payment out of pending.
	DecidedBy *int64     `json:"decided_by,omitempty" gorm:"column:decided_by"`
	DecidedAt *time.Time `json:"decided_at,omitempty" gorm:"column:decided_at"`
	CreatedAt time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}
