package usecase

import (
	"context"
	"strings"
	"time"

	"sheworks/internal/domain/entity"
	"sheworks/internal/domain/repository"
	"sheworks/internal/infrastructure/events"
	"sheworks/pkg/errors"
	"sheworks/pkg/logger"
)

type MessageUseCase struct {
	messageRepo     repository.MessageRepository
	participantRepo repository.ParticipantRepository
	translator      Translator
	notifier        Notifier
	publisher       events.Publisher
	attachments     AttachmentRemover
}

func NewMessageUseCase(
	messageRepo repository.MessageRepository,
	participantRepo repository.ParticipantRepository,
	translator Translator,
	notifier Notifier,
	publisher events.Publisher,
	attachments AttachmentRemover,
) *MessageUseCase {
	if publisher == nil {
		publisher = events.NewFallback()
	}
	return &MessageUseCase{
		messageRepo:     messageRepo,
		participantRepo: participantRepo,
		translator:      translator,
		notifier:        notifier,
		publisher:       publisher,
		attachments:     attachments,
	}
}

type SendMessageInput struct {
	SenderID      string
	SenderKind    string
	RecipientID   string
	RecipientKind string // optional, resolved from the participant collections when empty
	Text          string
	Language      string
	Attachments   []string
}

// ResolveParticipantKind probes customers first, then vendors. An id present
// in both collections resolves to customer.
func (uc *MessageUseCase) ResolveParticipantKind(ctx context.Context, participantID string) (string, error) {
	for _, kind := range []string{entity.ParticipantCustomer, entity.ParticipantVendor} {
		_, err := uc.participantRepo.GetByID(ctx, kind, participantID)
		if err == nil {
			return kind, nil
		}
		if !errors.IsNotFound(err) {
			return "", err
		}
	}
	return "", errors.NotFound("Recipient", nil)
}

// SendMessage persists first and then tries live delivery. A delivered message
// is moved to status delivered; an offline recipient reads it on the next fetch.
func (uc *MessageUseCase) SendMessage(ctx context.Context, input SendMessageInput) (*entity.Message, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" && len(input.Attachments) == 0 {
		return nil, errors.BadRequest("Message text or attachment is required", nil)
	}
	if input.RecipientID == "" {
		return nil, errors.BadRequest("Recipient is required", nil)
	}
	if input.SenderID == input.RecipientID {
		return nil, errors.BadRequest("You cannot send a message to yourself", nil)
	}

	var err error
	senderKind := input.SenderKind
	if !entity.IsParticipantKind(senderKind) {
		senderKind, err = uc.ResolveParticipantKind(ctx, input.SenderID)
		if err != nil {
			if errors.IsNotFound(err) {
				return nil, errors.NotFound("Sender", err)
			}
			return nil, err
		}
	}

	recipientKind := input.RecipientKind
	if entity.IsParticipantKind(recipientKind) {
		if _, err := uc.participantRepo.GetByID(ctx, recipientKind, input.RecipientID); err != nil {
			if errors.IsNotFound(err) {
				return nil, errors.NotFound("Recipient", err)
			}
			return nil, err
		}
	} else {
		recipientKind, err = uc.ResolveParticipantKind(ctx, input.RecipientID)
		if err != nil {
			return nil, err
		}
	}

	message := &entity.Message{
		Sender:         entity.ParticipantRef{ID: input.SenderID, Kind: senderKind, Role: senderKind},
		Recipient:      entity.ParticipantRef{ID: input.RecipientID, Kind: recipientKind, Role: recipientKind},
		Text:           text,
		SourceLanguage: languageOrDefault(input.Language),
		Attachments:    append([]string{}, input.Attachments...),
		Status:         entity.MessageStatusSent,
	}

	if err := uc.messageRepo.Create(ctx, message); err != nil {
		logger.Error("SendMessage: failed to persist message from %s to %s: %v", input.SenderID, input.RecipientID, err)
		return nil, err
	}

	if uc.notifier != nil {
		delivered, err := uc.notifier.NotifyParticipant(ctx, message.Recipient.ID, message.Recipient.Kind, EventNewMessage, message)
		if err != nil {
			logger.Warn("SendMessage: live delivery of %s failed: %v", message.ID, err)
		}
		if delivered {
			if err := uc.messageRepo.UpdateStatus(ctx, message.ID, entity.MessageStatusDelivered, nil); err != nil {
				logger.Warn("SendMessage: failed to mark %s delivered: %v", message.ID, err)
			} else {
				message.Status = entity.MessageStatusDelivered
			}
		}
	}

	if err := uc.publisher.Publish(ctx, "messages.sent", events.NewEnvelope(events.TypeMessageSent, message)); err != nil {
		logger.Warn("SendMessage: failed to publish event for %s: %v", message.ID, err)
	}

	return message, nil
}

func (uc *MessageUseCase) ListConversations(ctx context.Context, participantID string) ([]*entity.Conversation, error) {
	messages, err := uc.messageRepo.ListByParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}
	return entity.GroupConversations(participantID, messages), nil
}

type GetConversationInput struct {
	ViewerID   string
	ViewerKind string
	PeerID     string
	Limit      int
	Offset     int
	// Language to translate into; falls back to the viewer's preferred language.
	Language string
}

type ConversationPage struct {
	Messages []*entity.Message
	Total    int64
	Limit    int
	Offset   int
}

// GetConversation returns one page in chronological order and marks every
// message on it addressed to the viewer as read. The updates are issued one
// by one without a transaction.
func (uc *MessageUseCase) GetConversation(ctx context.Context, input GetConversationInput) (*ConversationPage, error) {
	if input.PeerID == "" || input.PeerID == input.ViewerID {
		return nil, errors.BadRequest("A different participant is required", nil)
	}

	messages, total, err := uc.messageRepo.ListBetween(ctx, input.ViewerID, input.PeerID, input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	now := time.Now()
	for _, m := range messages {
		if !m.IsUnreadFor(input.ViewerID) {
			continue
		}
		if err := uc.messageRepo.UpdateStatus(ctx, m.ID, entity.MessageStatusRead, &now); err != nil {
			logger.Error("GetConversation: failed to mark %s read: %v", m.ID, err)
			return nil, err
		}
		readAt := now
		m.Status = entity.MessageStatusRead
		m.ReadAt = &readAt
	}

	if target := uc.displayLanguage(ctx, input); target != "" && uc.translator != nil {
		uc.translatePage(ctx, input.ViewerID, messages, target)
	}

	return &ConversationPage{
		Messages: messages,
		Total:    total,
		Limit:    input.Limit,
		Offset:   input.Offset,
	}, nil
}

func (uc *MessageUseCase) displayLanguage(ctx context.Context, input GetConversationInput) string {
	if input.Language != "" {
		return input.Language
	}
	if !entity.IsParticipantKind(input.ViewerKind) {
		return ""
	}
	viewer, err := uc.participantRepo.GetByID(ctx, input.ViewerKind, input.ViewerID)
	if err != nil {
		return ""
	}
	return viewer.PreferredLanguage
}

// translatePage fills TranslatedText and stores translations that differ from
// the original. A page costs the viewer one translation request; over quota
// the page is returned with whatever translations were stored before.
func (uc *MessageUseCase) translatePage(ctx context.Context, viewerID string, messages []*entity.Message, target string) {
	batch := make([]BatchMessage, 0, len(messages))
	byID := make(map[string]*entity.Message, len(messages))
	for _, m := range messages {
		if m.Text == "" {
			continue
		}
		batch = append(batch, BatchMessage{ID: m.ID, Text: m.Text, SourceLanguage: m.SourceLanguage})
		byID[m.ID] = m
	}
	if len(batch) == 0 {
		return
	}

	if err := uc.translator.CheckRateLimit(ctx, viewerID); err != nil {
		logger.Warn("GetConversation: skipping translation for %s: %v", viewerID, err)
		return
	}

	for _, t := range uc.translator.TranslateBatch(ctx, batch, target) {
		m := byID[t.MessageID]
		if t.TranslatedText != m.Text && t.TranslatedText != m.TranslatedText {
			if err := uc.messageRepo.UpdateTranslation(ctx, m.ID, t.TranslatedText); err != nil {
				logger.Warn("GetConversation: failed to store translation of %s: %v", m.ID, err)
			}
		}
		m.TranslatedText = t.TranslatedText
	}
}

func (uc *MessageUseCase) UnreadCount(ctx context.Context, participantID string) (int64, error) {
	return uc.messageRepo.CountUnread(ctx, participantID)
}

// MarkConversationRead accepts the peer's participant id or a conversation key.
// A known participant id wins over the key reading of the same string.
func (uc *MessageUseCase) MarkConversationRead(ctx context.Context, viewerID, conversationID string) (int, error) {
	if conversationID == "" || conversationID == viewerID {
		return 0, errors.BadRequest("Invalid conversation id", nil)
	}

	key := entity.ConversationKey(viewerID, conversationID)
	if _, err := uc.ResolveParticipantKind(ctx, conversationID); err != nil {
		if !errors.IsNotFound(err) {
			return 0, err
		}
		if a, b, ok := entity.SplitConversationKey(conversationID); ok {
			if a != viewerID && b != viewerID {
				return 0, errors.Forbidden("You are not a participant in this conversation", nil)
			}
			key = conversationID
		}
	}

	unread, err := uc.messageRepo.ListUnreadInConversation(ctx, key, viewerID)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	marked := 0
	for _, m := range unread {
		if err := uc.messageRepo.UpdateStatus(ctx, m.ID, entity.MessageStatusRead, &now); err != nil {
			logger.Error("MarkConversationRead: failed to mark %s read: %v", m.ID, err)
			return marked, err
		}
		marked++
	}
	return marked, nil
}

// DeleteConversation removes every message between the pair, then the files
// they referenced. Attachment cleanup is best effort.
func (uc *MessageUseCase) DeleteConversation(ctx context.Context, viewerID, peerID string) (int64, error) {
	if peerID == "" || peerID == viewerID {
		return 0, errors.BadRequest("A different participant is required", nil)
	}

	var files []string
	if uc.attachments != nil {
		var err error
		if files, err = uc.conversationAttachments(ctx, viewerID, peerID); err != nil {
			logger.Error("DeleteConversation: listing %s <-> %s: %v", viewerID, peerID, err)
			return 0, err
		}
	}

	deleted, err := uc.messageRepo.DeleteBetween(ctx, viewerID, peerID)
	if err != nil {
		logger.Error("DeleteConversation: %s <-> %s: %v", viewerID, peerID, err)
		return 0, err
	}

	for _, url := range files {
		if err := uc.attachments.Delete(ctx, url); err != nil {
			logger.Warn("DeleteConversation: failed to delete attachment %s: %v", url, err)
		}
	}
	return deleted, nil
}

const attachmentScanPage = 100

func (uc *MessageUseCase) conversationAttachments(ctx context.Context, a, b string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	for offset := 0; ; offset += attachmentScanPage {
		page, total, err := uc.messageRepo.ListBetween(ctx, a, b, attachmentScanPage, offset)
		if err != nil {
			return nil, err
		}
		for _, m := range page {
			for _, url := range m.Attachments {
				if !seen[url] {
					seen[url] = true
					files = append(files, url)
				}
			}
		}
		if len(page) < attachmentScanPage || int64(offset+len(page)) >= total {
			return files, nil
		}
	}
}
