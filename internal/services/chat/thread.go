// File: internal/services/chat/thread.go
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/docutalk/docutalk/internal/domain"
	"github.com/docutalk/docutalk/internal/repository/channel"
	"github.com/docutalk/docutalk/internal/repository/message"
	"github.com/docutalk/docutalk/internal/services/ai"
)

// DocumentRemover is the slice of the ingestion pipeline the thread
// manager needs for channel-deletion cascade.
type DocumentRemover interface {
	RemoveChannelDocuments(ctx context.Context, channelID uint) error
}

// ThreadService maintains the per-channel conversation thread: ordered
// user/assistant reply pairs, turn creation, and edit with downstream
// invalidation.
type ThreadService struct {
	config      *Config
	channelRepo channel.ChannelRepository
	messageRepo message.MessageRepository
	streaming   *StreamingService
	rag         *RAGService
	llm         ai.CompletionProvider
	documents   DocumentRemover
	logger      Logger
}

func NewThreadService(
	config *Config,
	channelRepo channel.ChannelRepository,
	messageRepo message.MessageRepository,
	streaming *StreamingService,
	rag *RAGService,
	llm ai.CompletionProvider,
	documents DocumentRemover,
	logger Logger,
) *ThreadService {
	return &ThreadService{
		config:      config,
		channelRepo: channelRepo,
		messageRepo: messageRepo,
		streaming:   streaming,
		rag:         rag,
		llm:         llm,
		documents:   documents,
		logger:      logger,
	}
}

// CreateChannel creates a conversation scope titled after the first
// question. Title generation failure falls back to the question itself.
func (s *ThreadService) CreateChannel(ctx context.Context, ownerID uint, question string) (*domain.Channel, error) {
	if ownerID == 0 {
		return nil, NewValidationError("create_channel", "owner id is required")
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, NewValidationError("create_channel", "question is required")
	}

	title := s.generateChannelTitle(ctx, question)
	created, err := s.channelRepo.Create(ctx, &domain.Channel{OwnerID: ownerID, Title: title})
	if err != nil {
		return nil, NewUpstreamError("create_channel", "failed to persist channel", err)
	}
	s.logger.Info("channel created", "channel_id", created.ID, "owner_id", ownerID)
	return created, nil
}

// RenameChannel replaces the channel title with a caller-supplied one.
func (s *ThreadService) RenameChannel(ctx context.Context, ownerID, channelID uint, title string) (*domain.Channel, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, NewValidationError("rename_channel", "title is required")
	}
	if err := s.authorize(ctx, ownerID, channelID); err != nil {
		return nil, err
	}

	if err := s.channelRepo.UpdateTitle(ctx, channelID, title); err != nil {
		return nil, NewUpstreamError("rename_channel", "failed to rename channel", err)
	}
	renamed, err := s.channelRepo.FindByID(ctx, channelID)
	if err != nil {
		return nil, NewUpstreamError("rename_channel", "failed to load renamed channel", err)
	}
	s.logger.Info("channel renamed", "channel_id", channelID, "owner_id", ownerID)
	return renamed, nil
}

// Channels lists the owner's channels, most recently active first.
func (s *ThreadService) Channels(ctx context.Context, ownerID uint) ([]domain.Channel, error) {
	channels, err := s.channelRepo.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, NewUpstreamError("list_channels", "failed to list channels", err)
	}
	return channels, nil
}

// Messages returns the channel's full thread in creation order.
func (s *ThreadService) Messages(ctx context.Context, ownerID, channelID uint) ([]domain.Message, error) {
	if err := s.authorize(ctx, ownerID, channelID); err != nil {
		return nil, err
	}
	messages, err := s.messageRepo.FindByChannelID(ctx, channelID)
	if err != nil {
		return nil, NewUpstreamError("list_messages", "failed to list messages", err)
	}
	return messages, nil
}

// DeleteChannel cascades: documents (and their index vectors) first, then
// messages, then the channel row.
func (s *ThreadService) DeleteChannel(ctx context.Context, ownerID, channelID uint) error {
	if err := s.authorize(ctx, ownerID, channelID); err != nil {
		return err
	}

	if err := s.documents.RemoveChannelDocuments(ctx, channelID); err != nil {
		// Partial index cleanup is a warning, not a failed delete.
		s.logger.Warn("channel document cleanup incomplete", "channel_id", channelID, "error", err)
	}
	if err := s.messageRepo.DeleteByChannelID(ctx, channelID); err != nil {
		return NewUpstreamError("delete_channel", "failed to delete channel messages", err)
	}
	if err := s.channelRepo.Delete(ctx, channelID, ownerID); err != nil {
		return NewUpstreamError("delete_channel", "failed to delete channel", err)
	}
	s.logger.Info("channel deleted", "channel_id", channelID, "owner_id", ownerID)
	return nil
}

// DeleteMessages removes the given ids in one batch. Idempotent: absent
// ids are skipped, not an error. Every resolved id must live in a channel
// the caller owns.
func (s *ThreadService) DeleteMessages(ctx context.Context, ownerID uint, messageIDs []uint) error {
	verified := make(map[uint]bool)
	existing := make([]uint, 0, len(messageIDs))
	for _, id := range messageIDs {
		msg, err := s.messageRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, message.ErrMessageNotFound) {
				continue
			}
			return NewUpstreamError("delete_messages", "failed to load message", err)
		}
		if !verified[msg.ChannelID] {
			if err := s.authorize(ctx, ownerID, msg.ChannelID); err != nil {
				return err
			}
			verified[msg.ChannelID] = true
		}
		existing = append(existing, id)
	}

	if err := s.messageRepo.DeleteByIDs(ctx, existing); err != nil {
		return NewUpstreamError("delete_messages", "failed to delete messages", err)
	}
	return nil
}

// Ask runs one new turn: persists the user message, retrieves context,
// streams the answer, and persists the assistant reply with its
// back-reference. The answer's fragment channel is closed when the turn
// is finished; a terminal Fragment.Err reports a mid-stream failure after
// partial output.
//
// Validation and retrieval failures are returned synchronously before any
// message is persisted.
func (s *ThreadService) Ask(ctx context.Context, ownerID, channelID uint, question string, attachedDocumentID *uint) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, NewValidationError("ask", "no question provided")
	}
	if err := s.authorize(ctx, ownerID, channelID); err != nil {
		return nil, err
	}

	history, err := s.historyWindow(ctx, channelID)
	if err != nil {
		return nil, err
	}

	retrieval, err := s.streaming.Retrieve(ctx, channelID, question)
	if err != nil {
		return nil, err
	}

	userMsg, err := s.messageRepo.Create(ctx, &domain.Message{
		ChannelID:          channelID,
		Role:               domain.RoleUser,
		Content:            question,
		AttachedDocumentID: attachedDocumentID,
	})
	if err != nil {
		return nil, NewUpstreamError("ask", "failed to persist user message", err)
	}
	_ = s.channelRepo.TouchUpdatedAt(ctx, channelID)

	prompt := s.rag.BuildPrompt(history, retrieval.Context, question)
	out := make(chan Fragment)
	go s.produce(ctx, out, prompt, func(full string) {
		if full == "" {
			return
		}
		s.saveAssistantReply(channelID, userMsg.ID, full)
	})
	return &Answer{Fragments: out, Sources: retrieval.Sources}, nil
}

// Edit re-asks an existing user message with new content. The user
// message and its assistant reply are updated in place (same ids, same
// back-reference); every message after the reply is permanently deleted
// in one batch. After the edit the thread tail is exactly the edited pair.
func (s *ThreadService) Edit(ctx context.Context, ownerID, messageID uint, newContent string) (*Answer, error) {
	newContent = strings.TrimSpace(newContent)
	if newContent == "" {
		return nil, NewValidationError("edit", "no content provided")
	}

	userMsg, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, message.ErrMessageNotFound) {
			return nil, NewNotFoundError("edit", "message not found")
		}
		return nil, NewUpstreamError("edit", "failed to load message", err)
	}
	if userMsg.Role != domain.RoleUser {
		return nil, NewValidationError("edit", "only user messages can be edited")
	}
	if err := s.authorize(ctx, ownerID, userMsg.ChannelID); err != nil {
		return nil, err
	}

	reply, err := s.messageRepo.FindReplyTo(ctx, userMsg.ID)
	if err != nil {
		return nil, NewUpstreamError("edit", "failed to load assistant reply", err)
	}

	// Everything after the current reply (or after the question when no
	// reply exists yet) depended on the old answer and is now stale.
	staleAnchor := userMsg.ID
	if reply != nil {
		staleAnchor = reply.ID
	}
	staleIDs, err := s.messageRepo.FindIDsAfter(ctx, userMsg.ChannelID, staleAnchor)
	if err != nil {
		return nil, NewUpstreamError("edit", "failed to collect downstream messages", err)
	}

	history, err := s.historyBefore(ctx, userMsg)
	if err != nil {
		return nil, err
	}

	retrieval, err := s.streaming.Retrieve(ctx, userMsg.ChannelID, newContent)
	if err != nil {
		return nil, err
	}

	// Content mutation in place: same id, same position in the thread.
	if err := s.messageRepo.UpdateContent(ctx, userMsg.ID, newContent); err != nil {
		return nil, NewUpstreamError("edit", "failed to update message content", err)
	}

	prompt := s.rag.BuildPrompt(history, retrieval.Context, newContent)
	channelID := userMsg.ChannelID
	userMsgID := userMsg.ID

	out := make(chan Fragment)
	go s.produce(ctx, out, prompt, func(full string) {
		saveCtx, cancel := context.WithTimeout(context.Background(), s.config.SaveTimeout)
		defer cancel()

		// A regeneration that produced no output keeps the previous
		// answer instead of blanking it.
		if full != "" {
			if reply != nil {
				if err := s.messageRepo.UpdateContent(saveCtx, reply.ID, full); err != nil {
					s.logger.Error("failed to update regenerated reply", "message_id", reply.ID, "error", err)
				}
			} else {
				if _, err := s.messageRepo.Create(saveCtx, &domain.Message{
					ChannelID:        channelID,
					Role:             domain.RoleAssistant,
					Content:          full,
					ReplyToMessageID: &userMsgID,
				}); err != nil {
					s.logger.Error("failed to persist regenerated reply", "channel_id", channelID, "error", err)
				}
			}
		}

		if err := s.messageRepo.DeleteByIDs(saveCtx, staleIDs); err != nil {
			s.logger.Error("failed to delete stale downstream messages",
				"channel_id", channelID, "count", len(staleIDs), "error", err)
		} else if len(staleIDs) > 0 {
			s.logger.Info("downstream messages invalidated",
				"channel_id", channelID, "count", len(staleIDs))
		}
		_ = s.channelRepo.TouchUpdatedAt(saveCtx, channelID)
	})
	return &Answer{Fragments: out, Sources: retrieval.Sources}, nil
}

// produce streams the completion into out, then runs finalize with the
// full (possibly partial) text. Consumer cancellation via ctx stops the
// generative stream; the partial text is still persisted.
func (s *ThreadService) produce(ctx context.Context, out chan<- Fragment, prompt string, finalize func(full string)) {
	defer close(out)

	var full strings.Builder
	streamErr := s.streaming.Stream(ctx, prompt, func(delta string) error {
		full.WriteString(delta)
		select {
		case out <- Fragment{Text: delta}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	finalize(full.String())

	if streamErr != nil && ctx.Err() == nil {
		s.logger.Error("generative stream interrupted", "partial_length", full.Len(), "error", streamErr)
		select {
		case out <- Fragment{Err: NewStreamError("streaming", "stream interrupted", streamErr)}:
		case <-ctx.Done():
		}
	}
}

// saveAssistantReply persists a finished answer in the background with its
// back-reference to the user message it answers.
func (s *ThreadService) saveAssistantReply(channelID, userMessageID uint, content string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.SaveTimeout)
	defer cancel()

	if _, err := s.messageRepo.Create(ctx, &domain.Message{
		ChannelID:        channelID,
		Role:             domain.RoleAssistant,
		Content:          content,
		ReplyToMessageID: &userMessageID,
	}); err != nil {
		s.logger.Error("failed to save assistant message", "channel_id", channelID, "error", err)
		return
	}
	_ = s.channelRepo.TouchUpdatedAt(ctx, channelID)
}

// historyWindow returns the last HistoryWindow messages as prompt turns.
func (s *ThreadService) historyWindow(ctx context.Context, channelID uint) ([]Turn, error) {
	messages, err := s.messageRepo.FindRecentByChannelID(ctx, channelID, s.config.HistoryWindow)
	if err != nil {
		return nil, NewUpstreamError("history", "failed to load conversation history", err)
	}
	return toTurns(messages), nil
}

// historyBefore returns the history window truncated to everything
// strictly before the given message.
func (s *ThreadService) historyBefore(ctx context.Context, anchor *domain.Message) ([]Turn, error) {
	messages, err := s.messageRepo.FindByChannelID(ctx, anchor.ChannelID)
	if err != nil {
		return nil, NewUpstreamError("history", "failed to load conversation history", err)
	}

	var before []domain.Message
	for i := range messages {
		m := messages[i]
		if m.CreatedAt.Before(anchor.CreatedAt) ||
			(m.CreatedAt.Equal(anchor.CreatedAt) && m.ID < anchor.ID) {
			before = append(before, m)
		}
	}
	if len(before) > s.config.HistoryWindow {
		before = before[len(before)-s.config.HistoryWindow:]
	}
	return toTurns(before), nil
}

func (s *ThreadService) authorize(ctx context.Context, ownerID, channelID uint) error {
	if channelID == 0 {
		return NewValidationError("authorization", "channel id is required")
	}
	ok, err := s.channelRepo.VerifyOwnership(ctx, channelID, ownerID)
	if err != nil {
		return NewUpstreamError("authorization", "failed to verify channel ownership", err)
	}
	if !ok {
		return NewUnauthorizedError(ownerID, channelID)
	}
	return nil
}

func (s *ThreadService) generateChannelTitle(ctx context.Context, question string) string {
	prompt := fmt.Sprintf(`You are an assistant that generates short concise and descriptive titles for a chat channel.
Based on the following content, suggest a suitable short title for the chat channel (max 5 words):
---
%s
---`, question)

	ctx, cancel := context.WithTimeout(ctx, s.config.EmbeddingTimeout)
	defer cancel()

	title, err := s.llm.GetCompletion(ctx, prompt)
	if err != nil {
		s.logger.Warn("channel title generation failed, using question", "error", err)
		return truncateRunes(question, 60)
	}
	title = strings.Trim(strings.TrimSpace(title), `"'`)
	if title == "" {
		return truncateRunes(question, 60)
	}
	return title
}

func toTurns(messages []domain.Message) []Turn {
	turns := make([]Turn, 0, len(messages))
	for i := range messages {
		turns = append(turns, Turn{Role: messages[i].Role, Content: messages[i].Content})
	}
	return turns
}
