// Package message models the per-order chat between the owner and admins.
package message

import (
	"errors"
	"strings"
	"time"

	"tagging/internal/core/domain/model/kernel"
	"tagging/internal/pkg/errs"
)

const MaxTextLength = 5000

var ErrMessageIsNotConstructed = errors.New("Message must be created via NewMessage constructor")

// Participant is the subset of a user the chat rules need.
type Participant interface {
	ID() kernel.UUID
	IsAdmin() bool
}

// CanAccess reports whether p may read or write the chat of an order owned by ownerID.
func CanAccess(p Participant, ownerID kernel.UUID) bool {
	return p != nil && (p.IsAdmin() || p.ID().IsEqual(ownerID))
}

type Message struct {
	id        kernel.UUID
	orderID   kernel.UUID
	senderID  kernel.UUID
	text      string
	isRead    bool
	createdAt time.Time

	isConstructed bool
}

// NewMessage posts text to an order chat on behalf of sender.
func NewMessage(orderID, ownerID kernel.UUID, sender Participant, text string, now time.Time) (*Message, error) {
	if !CanAccess(sender, ownerID) {
		return nil, errs.NewNotAuthorizedError("send message")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errs.NewValueIsRequiredError("message")
	}
	if len(text) > MaxTextLength {
		return nil, errs.NewValueIsOutOfRangeError("message length", len(text), 1, MaxTextLength)
	}

	return &Message{
		id:            kernel.NewUUID(),
		orderID:       orderID,
		senderID:      sender.ID(),
		text:          text,
		createdAt:     now,
		isConstructed: true,
	}, nil
}

func RestoreMessage(id, orderID, senderID kernel.UUID, text string, isRead bool, createdAt time.Time) *Message {
	return &Message{
		id:            id,
		orderID:       orderID,
		senderID:      senderID,
		text:          text,
		isRead:        isRead,
		createdAt:     createdAt,
		isConstructed: true,
	}
}

func (m *Message) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrMessageIsNotConstructed
	}
	return nil
}

func (m *Message) ID() kernel.UUID       { return m.id }
func (m *Message) OrderID() kernel.UUID  { return m.orderID }
func (m *Message) SenderID() kernel.UUID { return m.senderID }
func (m *Message) Text() string          { return m.text }
func (m *Message) IsRead() bool          { return m.isRead }
func (m *Message) CreatedAt() time.Time  { return m.createdAt }
