package model

import "time"

// Conversation — переписка двух пользователей по одной заявке.
// UserAID — инициатор, UserBID — получатель; роли фиксируются при создании.
type Conversation struct {
	ID      string `gorm:"primaryKey;type:uuid" json:"id"`
	ItemID  string `gorm:"type:uuid;not null;index" json:"item_id"`
	UserAID int64  `gorm:"not null;index" json:"user_a_id"`
	UserBID int64  `gorm:"not null;index" json:"user_b_id"`

	Item  *Item `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	UserA *User `gorm:"foreignKey:UserAID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	UserB *User `gorm:"foreignKey:UserBID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	Approved   bool `gorm:"not null;default:false" json:"approved"`
	BlockedByA bool `gorm:"not null;default:false" json:"blocked_by_a"`
	BlockedByB bool `gorm:"not null;default:false" json:"blocked_by_b"`

	CreatedAt time.Time `json:"created_at"`
}

// HasParticipant reports whether userID is one of the two fixed participants.
func (c *Conversation) HasParticipant(userID int64) bool {
	return userID == c.UserAID || userID == c.UserBID
}

// Counterpart returns the other participant's id.
func (c *Conversation) Counterpart(userID int64) int64 {
	if userID == c.UserAID {
		return c.UserBID
	}
	return c.UserAID
}
