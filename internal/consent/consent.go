// Package consent implements the state machine that decides who may message
// whom inside a two-party conversation.
//
// A conversation is either pending (the recipient has not opted in yet) or
// active. Independently of that phase each participant may block incoming
// messages from the other one. Every transition is a pure function of the
// current state and the acting role, so the rules can be checked without a store.
package consent

import (
	"errors"

	"LostFound/internal/model"
)

var (
	ErrNotParticipant        = errors.New("User not part of conversation")
	ErrBlocked               = errors.New("You are blocked")
	ErrPendingApproval       = errors.New("Conversation pending approval")
	ErrOnlyRecipientApproves = errors.New("Only the recipient can approve the conversation")
)

// Phase is the approval phase of a conversation.
type Phase uint8

const (
	Pending Phase = iota
	Active
)

func (p Phase) String() string {
	if p == Active {
		return "active"
	}
	return "pending"
}

// Role is the part an actor plays in a conversation.
type Role uint8

const (
	Outsider Role = iota
	Initiator
	Recipient
)

func (r Role) String() string {
	switch r {
	case Initiator:
		return "initiator"
	case Recipient:
		return "recipient"
	default:
		return "outsider"
	}
}

// RoleOf resolves actorID against the fixed participants of a conversation.
func RoleOf(initiatorID, recipientID, actorID int64) Role {
	switch actorID {
	case initiatorID:
		return Initiator
	case recipientID:
		return Recipient
	default:
		return Outsider
	}
}

// State is the approval phase plus the two independent block flags.
// BlockedByInitiator means the initiator refuses messages from the recipient,
// BlockedByRecipient the reverse.
type State struct {
	Phase              Phase
	BlockedByInitiator bool
	BlockedByRecipient bool
}

// Initial is the state every conversation is created in.
func Initial() State {
	return State{Phase: Pending}
}

// BlockedAgainst reports whether the counterpart of r has blocked r.
func (s State) BlockedAgainst(r Role) bool {
	switch r {
	case Initiator:
		return s.BlockedByRecipient
	case Recipient:
		return s.BlockedByInitiator
	default:
		return false
	}
}

// CheckSend decides whether r may append a message. sent is the number of
// messages r has already sent in the conversation; it only matters while the
// conversation is pending, where the initiator gets exactly one opening message.
func (s State) CheckSend(r Role, sent int64) error {
	if r == Outsider {
		return ErrNotParticipant
	}
	if s.BlockedAgainst(r) {
		return ErrBlocked
	}
	if s.Phase == Pending {
		if r == Recipient || sent > 0 {
			return ErrPendingApproval
		}
	}
	return nil
}

// Approve moves the conversation to the active phase. Only the recipient may
// approve; approving an active conversation is a no-op.
func (s State) Approve(r Role) (State, error) {
	if r != Recipient {
		return s, ErrOnlyRecipientApproves
	}
	s.Phase = Active
	return s, nil
}

// Block sets the block flag owned by r. It never changes the phase.
func (s State) Block(r Role) (State, error) {
	return s.setBlock(r, true)
}

// Unblock clears the block flag owned by r. It never changes the phase.
func (s State) Unblock(r Role) (State, error) {
	return s.setBlock(r, false)
}

func (s State) setBlock(r Role, v bool) (State, error) {
	switch r {
	case Initiator:
		s.BlockedByInitiator = v
	case Recipient:
		s.BlockedByRecipient = v
	default:
		return s, ErrNotParticipant
	}
	return s, nil
}

// FromConversation reads the state stored on c.
func FromConversation(c *model.Conversation) State {
	s := State{BlockedByInitiator: c.BlockedByA, BlockedByRecipient: c.BlockedByB}
	if c.Approved {
		s.Phase = Active
	}
	return s
}

// Apply writes s back onto c. Participants and the subject item are left untouched.
func (s State) Apply(c *model.Conversation) {
	c.Approved = s.Phase == Active
	c.BlockedByA = s.BlockedByInitiator
	c.BlockedByB = s.BlockedByRecipient
}

// RoleIn resolves actorID against the participants of c.
func RoleIn(c *model.Conversation, actorID int64) Role {
	return RoleOf(c.UserAID, c.UserBID, actorID)
}
