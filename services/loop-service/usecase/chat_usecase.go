package usecase

import (
	"context"
	"strings"

	"loop/pkg/logger"
	"loop/services/loop-service/domain"
	"loop/services/loop-service/domain/model"
	"loop/services/loop-service/domain/repository"
)

const (
	chatSystemInstruction = `Você é a assistente virtual da Loop Consórcios no WhatsApp.
Responda em português do Brasil, de forma cordial e objetiva, em no máximo três frases.
Ajude com dúvidas sobre planos de consórcio, parcelas, contemplação e documentação.
Quando não souber a resposta, diga que um atendente humano entrará em contato.`

	// ApologyText is sent in place of the assistant's answer when it cannot be reached
	ApologyText = "Desculpe, estou com dificuldades para responder agora. Um de nossos atendentes falará com você em breve."

	// chatHistoryLimit bounds the turns sent to the assistant
	chatHistoryLimit = 20
)

// ChatUseCase drives the WhatsApp-style threads between clients, the assistant and admins
type ChatUseCase interface {
	// SendClientMessage posts text from a Cliente caller into its own thread
	SendClientMessage(ctx context.Context, caller model.Caller, text string) (model.Chat, error)
	// ReceiveMessage posts text as the given client, creating the thread on first contact,
	// and appends the assistant's answer
	ReceiveMessage(ctx context.Context, clientID int64, text string) (model.Chat, error)
	// Reply posts an admin message into a thread
	Reply(ctx context.Context, chatID int64, text string) (model.Chat, error)
	List(ctx context.Context) []model.Chat
	Get(ctx context.Context, caller model.Caller, id int64) (model.Chat, error)
	// Mine returns the thread of a Cliente caller
	Mine(ctx context.Context, caller model.Caller) (model.Chat, error)
}

type chatUseCase struct {
	store     repository.Store
	generator repository.TextGenerator
	notifier  repository.ChatNotifier
	logger    logger.LoggerInterface
}

// NewChatUseCase creates a new instance of chatUseCase. notifier may be nil.
func NewChatUseCase(store repository.Store, generator repository.TextGenerator, notifier repository.ChatNotifier, appLogger logger.LoggerInterface) ChatUseCase {
	return &chatUseCase{
		store:     store,
		generator: generator,
		notifier:  notifier,
		logger:    appLogger,
	}
}

func (uc *chatUseCase) SendClientMessage(ctx context.Context, caller model.Caller, text string) (model.Chat, error) {
	client, err := clientOf(ctx, uc.store, caller)
	if err != nil {
		return model.Chat{}, err
	}
	return uc.ReceiveMessage(ctx, client.ID, text)
}

func (uc *chatUseCase) ReceiveMessage(ctx context.Context, clientID int64, text string) (model.Chat, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Chat{}, domain.ErrEmptyMessage
	}

	client, ok := uc.store.Clients().Get(ctx, clientID)
	if !ok {
		uc.logger.WarnContext(ctx, "Message from unknown client", "clientID", clientID)
		return model.Chat{}, domain.ErrClientNotFound
	}

	chat, ok := uc.store.ChatByClientID(ctx, clientID)
	if !ok {
		chat = uc.store.CreateChat(ctx, model.Chat{ClientID: client.ID, ClientName: client.Name})
		uc.logger.InfoContext(ctx, "Chat opened", "chatID", chat.ID, "clientID", clientID)
	}

	chat, err := uc.append(ctx, chat.ID, model.SenderClient, text)
	if err != nil {
		return model.Chat{}, err
	}

	answer, err := uc.generator.Chat(ctx, chatSystemInstruction, history(chat.Messages[:len(chat.Messages)-1]), text)
	if err != nil {
		uc.logger.ErrorContext(ctx, "Assistant failed to answer", "chatID", chat.ID, "error", err)
		answer = ApologyText
	}

	return uc.append(ctx, chat.ID, model.SenderBot, answer)
}

// history turns the latest messages into assistant turns. Admin messages count as the
// company's side of the conversation.
func history(messages []model.Message) []model.Turn {
	if len(messages) > chatHistoryLimit {
		messages = messages[len(messages)-chatHistoryLimit:]
	}
	turns := make([]model.Turn, 0, len(messages))
	for _, m := range messages {
		role := "model"
		if m.Sender == model.SenderClient {
			role = "user"
		}
		turns = append(turns, model.Turn{Role: role, Text: m.Text})
	}
	return turns
}

func (uc *chatUseCase) Reply(ctx context.Context, chatID int64, text string) (model.Chat, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Chat{}, domain.ErrEmptyMessage
	}
	uc.logger.InfoContext(ctx, "Admin reply", "chatID", chatID)
	return uc.append(ctx, chatID, model.SenderAdmin, text)
}

func (uc *chatUseCase) append(ctx context.Context, chatID int64, sender model.Sender, text string) (model.Chat, error) {
	chat, ok := uc.store.AppendMessage(ctx, chatID, model.Message{Sender: sender, Text: text})
	if !ok {
		uc.logger.WarnContext(ctx, "Chat not found", "chatID", chatID)
		return model.Chat{}, domain.ErrChatNotFound
	}
	if uc.notifier != nil {
		last, _ := chat.LastMessage()
		uc.notifier.NotifyMessage(chat, last)
	}
	return chat, nil
}

func (uc *chatUseCase) List(ctx context.Context) []model.Chat {
	return uc.store.Chats(ctx)
}

func (uc *chatUseCase) Get(ctx context.Context, caller model.Caller, id int64) (model.Chat, error) {
	chat, ok := uc.store.Chat(ctx, id)
	if !ok {
		return model.Chat{}, domain.ErrChatNotFound
	}
	if caller.IsAdmin() {
		return chat, nil
	}

	client, err := clientOf(ctx, uc.store, caller)
	if err != nil {
		return model.Chat{}, err
	}
	if chat.ClientID != client.ID {
		return model.Chat{}, domain.ErrForbidden
	}
	return chat, nil
}

func (uc *chatUseCase) Mine(ctx context.Context, caller model.Caller) (model.Chat, error) {
	client, err := clientOf(ctx, uc.store, caller)
	if err != nil {
		return model.Chat{}, err
	}
	chat, ok := uc.store.ChatByClientID(ctx, client.ID)
	if !ok {
		return model.Chat{}, domain.ErrChatNotFound
	}
	return chat, nil
}
