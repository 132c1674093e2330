package model

import "time"

// Message — сообщение внутри переписки. После создания меняется только IsRead.
type Message struct {
	ID             string `gorm:"primaryKey;size:26" json:"id"` // ULID
	ConversationID string `gorm:"type:uuid;not null;index:idx_msg_conv_sender,priority:1;index:idx_msg_conv_sent,priority:1" json:"conversation_id"`
	SenderID       int64  `gorm:"not null;index:idx_msg_conv_sender,priority:2" json:"sender_id"`

	Conversation *Conversation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	Content string    `gorm:"not null" json:"content"`
	SentAt  time.Time `gorm:"not null;index:idx_msg_conv_sent,priority:2" json:"sent_at"`
	IsRead  bool      `gorm:"not null;default:false" json:"is_read"`
}
