package store

import (
	"context"
	"time"

	"loop/services/loop-service/domain/model"
)

func (s *Store) Chats(ctx context.Context) []model.Chat {
	return s.chats.All(ctx)
}

func (s *Store) Chat(ctx context.Context, id int64) (model.Chat, bool) {
	return s.chats.Get(ctx, id)
}

func (s *Store) ChatByClientID(ctx context.Context, clientID int64) (model.Chat, bool) {
	return s.chats.first(ctx, func(c model.Chat) bool { return c.ClientID == clientID })
}

// CreateChat stores a new thread. Messages given without IDs or timestamps get them here.
func (s *Store) CreateChat(ctx context.Context, chat model.Chat) model.Chat {
	messages := chat.Messages
	chat.Messages = make([]model.Message, 0, len(messages))
	now := s.now()
	for _, m := range messages {
		appendMessage(&chat, m, now)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chats.add(ctx, chat)
}

// AppendMessage adds message to the chat with the next message ID of that chat and the
// current time, and moves lastMessageTimestamp along. It reports false for an unknown chat.
func (s *Store) AppendMessage(ctx context.Context, chatID int64, message model.Message) (model.Chat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats := s.chats.load(ctx)
	i := s.chats.find(chats, chatID)
	if i < 0 {
		s.logger.WarnContext(ctx, "Chat not found for message", "chat_id", chatID)
		return model.Chat{}, false
	}

	message.ID = 0
	message.Timestamp = time.Time{}
	appendMessage(&chats[i], message, s.now())
	_ = s.chats.save(ctx, chats)

	return chats[i], true
}

func appendMessage(chat *model.Chat, message model.Message, now time.Time) {
	if message.ID == 0 {
		var highest int64
		for _, m := range chat.Messages {
			if m.ID > highest {
				highest = m.ID
			}
		}
		message.ID = highest + 1
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = now
	}
	chat.Messages = append(chat.Messages, message)
	chat.LastMessageTimestamp = message.Timestamp
}
