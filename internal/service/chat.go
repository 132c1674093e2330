package service

import (
	"LostFound/internal/consent"
	"LostFound/internal/events"
	"LostFound/internal/model"
	"LostFound/internal/repo"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ChatService ведёт переписки по заявкам и следит за согласием участников.
type ChatService struct {
	tx            repo.TxRunner
	conversations repo.ConversationRepository
	messages      repo.MessageRepository
	users         repo.UserRepository
	events        events.Publisher
	logger        *zap.SugaredLogger
}

func NewChatService(
	tx repo.TxRunner,
	conversations repo.ConversationRepository,
	messages repo.MessageRepository,
	users repo.UserRepository,
	publisher events.Publisher,
	logger *zap.SugaredLogger,
) *ChatService {
	if publisher == nil {
		publisher = events.LogPublisher{Logger: logger}
	}
	return &ChatService{
		tx:            tx,
		conversations: conversations,
		messages:      messages,
		users:         users,
		events:        publisher,
		logger:        logger,
	}
}

// StartConversation открывает переписку callerID с владельцем otherEmail по заявке itemID.
// Для одной заявки и одной пары пользователей переписка одна, независимо от того, кто начал.
func (s *ChatService) StartConversation(ctx context.Context, itemID string, callerID int64, otherEmail string) (*model.Conversation, error) {
	other, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(otherEmail)))
	if err != nil || other == nil {
		if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user", otherEmail)
		}
		return nil, err
	}
	if other.ID == callerID {
		return nil, invalid("cannot start a conversation with yourself")
	}
	if _, err := s.users.GetByID(ctx, callerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("user", callerID)
		}
		return nil, err
	}

	var (
		conv    *model.Conversation
		created bool
	)
	err = s.tx.WithTx(ctx, func(st repo.StoreProvider) error {
		// блокировка заявки сериализует конкурентные попытки открыть переписку по ней
		if _, err := st.Items().GetForUpdate(ctx, itemID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("item", itemID)
			}
			return err
		}

		existing, err := st.Conversations().FindForItemAndPair(ctx, itemID, callerID, other.ID)
		if err == nil {
			conv = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		conv = &model.Conversation{
			ID:        uuid.NewString(),
			ItemID:    itemID,
			UserAID:   callerID,
			UserBID:   other.ID,
			CreatedAt: time.Now().UTC(),
		}
		consent.Initial().Apply(conv)
		if err := st.Conversations().Create(ctx, conv); err != nil {
			return fmt.Errorf("create conversation: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if created {
		s.logger.Infow("conversation started", "conversation_id", conv.ID, "item_id", itemID, "initiator", callerID, "recipient", other.ID)
		s.publish(ctx, events.Event{
			Type:           events.ConversationStarted,
			ConversationID: conv.ID,
			ItemID:         itemID,
			ActorID:        callerID,
			RecipientID:    other.ID,
			At:             conv.CreatedAt,
		})
	}
	return conv, nil
}

// SendMessage добавляет сообщение от callerID. Проверка права писать и запись
// выполняются в одной транзакции под блокировкой строки переписки.
func (s *ChatService) SendMessage(ctx context.Context, convID string, callerID int64, content string) (*model.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, invalid("message content is required")
	}

	var (
		msg  *model.Message
		conv *model.Conversation
	)
	err := s.tx.WithTx(ctx, func(st repo.StoreProvider) error {
		c, err := st.Conversations().GetForUpdate(ctx, convID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("conversation", convID)
			}
			return err
		}
		conv = c

		state := consent.FromConversation(c)
		role := consent.RoleIn(c, callerID)

		var sent int64
		if role == consent.Initiator && state.Phase == consent.Pending {
			sent, err = st.Messages().CountBySender(ctx, c.ID, callerID)
			if err != nil {
				return fmt.Errorf("count messages: %w", err)
			}
		}
		if err := state.CheckSend(role, sent); err != nil {
			return forbidden(err)
		}

		now := time.Now().UTC()
		msg = &model.Message{
			ID:             ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
			ConversationID: c.ID,
			SenderID:       callerID,
			Content:        content,
			SentAt:         now,
		}
		if err := st.Messages().Append(ctx, msg); err != nil {
			return fmt.Errorf("append message: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:           events.MessageSent,
		ConversationID: conv.ID,
		ItemID:         conv.ItemID,
		MessageID:      msg.ID,
		ActorID:        callerID,
		RecipientID:    conv.Counterpart(callerID),
		At:             msg.SentAt,
	})
	return msg, nil
}

// ApproveConversation — получатель разрешает переписку.
func (s *ChatService) ApproveConversation(ctx context.Context, convID string, callerID int64) (*model.Conversation, error) {
	return s.transition(ctx, convID, callerID, events.ConversationApproved, consent.State.Approve)
}

// BlockInConversation запрещает собеседнику писать вызывающему.
func (s *ChatService) BlockInConversation(ctx context.Context, convID string, callerID int64) (*model.Conversation, error) {
	return s.transition(ctx, convID, callerID, events.ConversationBlocked, consent.State.Block)
}

// UnblockInConversation снимает блокировку, установленную вызывающим.
func (s *ChatService) UnblockInConversation(ctx context.Context, convID string, callerID int64) (*model.Conversation, error) {
	return s.transition(ctx, convID, callerID, events.ConversationUnblocked, consent.State.Unblock)
}

func (s *ChatService) transition(
	ctx context.Context,
	convID string,
	callerID int64,
	eventType string,
	step func(consent.State, consent.Role) (consent.State, error),
) (*model.Conversation, error) {
	var (
		conv    *model.Conversation
		changed bool
	)
	err := s.tx.WithTx(ctx, func(st repo.StoreProvider) error {
		c, err := st.Conversations().GetForUpdate(ctx, convID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("conversation", convID)
			}
			return err
		}
		conv = c

		role := consent.RoleIn(c, callerID)
		if role == consent.Outsider {
			return forbidden(consent.ErrNotParticipant)
		}
		before := consent.FromConversation(c)
		after, err := step(before, role)
		if err != nil {
			return forbidden(err)
		}
		if after == before {
			return nil
		}
		after.Apply(c)
		changed = true
		return st.Conversations().SaveFlags(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.publish(ctx, events.Event{
			Type:           eventType,
			ConversationID: conv.ID,
			ItemID:         conv.ItemID,
			ActorID:        callerID,
			RecipientID:    conv.Counterpart(callerID),
			At:             time.Now().UTC(),
		})
	}
	return conv, nil
}

// ListConversations возвращает переписки пользователя, новые первыми.
func (s *ChatService) ListConversations(ctx context.Context, callerID int64) ([]model.Conversation, error) {
	return s.conversations.ListForUser(ctx, callerID)
}

// ListMessages возвращает историю переписки. Доступно только участникам.
func (s *ChatService) ListMessages(ctx context.Context, convID string, callerID int64) ([]model.Message, error) {
	c, err := s.participantConversation(ctx, convID, callerID)
	if err != nil {
		return nil, err
	}
	return s.messages.ListByConversation(ctx, c.ID)
}

// MarkRead отмечает прочитанными сообщения собеседника. Возвращает число изменённых сообщений.
func (s *ChatService) MarkRead(ctx context.Context, convID string, callerID int64) (int64, error) {
	c, err := s.participantConversation(ctx, convID, callerID)
	if err != nil {
		return 0, err
	}
	return s.messages.MarkReadFrom(ctx, c.ID, c.Counterpart(callerID))
}

func (s *ChatService) participantConversation(ctx context.Context, convID string, callerID int64) (*model.Conversation, error) {
	c, err := s.conversations.GetByID(ctx, convID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("conversation", convID)
		}
		return nil, err
	}
	if !c.HasParticipant(callerID) {
		return nil, forbidden(consent.ErrNotParticipant)
	}
	return c, nil
}

func (s *ChatService) publish(ctx context.Context, e events.Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		s.logger.Warnw("event publish failed", "type", e.Type, "conversation_id", e.ConversationID, "error", err)
	}
}
