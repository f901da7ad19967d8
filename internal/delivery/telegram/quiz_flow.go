package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/NCobrimark/Archetype-UA/internal/domain/entities"
	"github.com/NCobrimark/Archetype-UA/internal/quiz"
)

// startHandler begins a fresh run: persists the user and session, builds a
// progression machine with a new random question order and presents the
// first question.
func (h *Handler) startHandler(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		session := entities.NewQuizSession(userID, h.catalog.QuestionIDs())
		id, err := h.starter.StartRun(ctx, entities.NewUser(userID, chatID), session)
		if err != nil {
			return fmt.Errorf("start run: %w", err)
		}
		session.ID = id

		m := quiz.NewMachine(session, h.catalog, h.answers)
		h.registry.Store(chatID, m)
		h.setFlow(chatID, &chatFlow{userID: userID, sessionID: id})

		h.send(newHTMLMessage(chatID, msgWelcome))
		h.presentQuestion(chatID, m)
		return nil
	}
}

// presentQuestion sends the current question with its option keyboard.
func (h *Handler) presentQuestion(chatID int64, m *quiz.Machine) {
	q := m.Current()
	if q == nil {
		return
	}

	session := m.Session()
	msg := newHTMLMessage(chatID, formatQuestion(q, session.Cursor+1, session.Total()))
	msg.ReplyMarkup = buildQuestionKeyboard(q, session.ID)
	h.send(msg)
}

// handleAnswerCallback feeds an option selection into the chat's machine.
// Selections for a stale session or a superseded question are dropped.
func (h *Handler) handleAnswerCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, cd callbackData) {
	chatID := cb.Message.Chat.ID

	sessionID, questionID, optionID, ok := parseAnswerCallback(cd)
	if !ok {
		h.logger.Debug("malformed answer callback", zap.String("data", cd.Raw))
		return
	}

	m := h.registry.Get(chatID)
	if m == nil || m.Session().ID != sessionID {
		// A button from a previous run.
		return
	}

	adv, err := m.Select(ctx, questionID, optionID)
	if err != nil {
		h.logger.Error("select option",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		h.sendError(chatID, msgInternalError)
		return
	}
	if adv.Ignored {
		return
	}

	// Freeze the answered question's keyboard.
	h.send(tgbotapi.NewEditMessageReplyMarkup(chatID, cb.Message.MessageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	}))

	h.applyAdvance(ctx, chatID, m, adv)
}

// handleFreeText completes the free-text branch of the current question.
func (h *Handler) handleFreeText(ctx context.Context, chatID int64, m *quiz.Machine, text string) error {
	adv, err := m.SubmitText(ctx, text)
	if err != nil {
		return fmt.Errorf("submit free text: %w", err)
	}
	if adv.Ignored {
		return nil
	}

	h.applyAdvance(ctx, chatID, m, adv)
	return nil
}

func (h *Handler) applyAdvance(ctx context.Context, chatID int64, m *quiz.Machine, adv quiz.Advance) {
	switch {
	case adv.AwaitFreeText:
		h.send(newHTMLMessage(chatID, msgFreeTextPrompt))

	case adv.Completed:
		h.finishSession(ctx, chatID, m)

	default:
		if text, ok := milestoneMessages[adv.Milestone]; ok {
			h.send(newHTMLMessage(chatID, text))
		}
		h.presentQuestion(chatID, m)
	}
}

// finishSession marks the session completed and launches finalization in its
// own goroutine: the countdown blocks for its full duration and must not
// stall the update loop for other chats.
func (h *Handler) finishSession(ctx context.Context, chatID int64, m *quiz.Machine) {
	sessionID := m.Session().ID

	if err := h.sessions.MarkCompleted(ctx, sessionID); err != nil {
		h.logger.Error("mark session completed",
			zap.Int64("session_id", sessionID),
			zap.Error(err),
		)
	}

	flow := h.flow(chatID)
	if flow == nil || flow.finalizing {
		return
	}
	flow.finalizing = true

	go h.finalizeSession(ctx, chatID, sessionID)
}

func (h *Handler) finalizeSession(ctx context.Context, chatID, sessionID int64) {
	display := newProgressDisplay(h.bot, chatID)

	result, err := h.final.Finalize(ctx, sessionID, display)
	if err != nil {
		h.logger.Error("finalize session",
			zap.Int64("session_id", sessionID),
			zap.Error(err),
		)
		h.sendError(chatID, msgFinalizeFailure)
		return
	}

	if !h.adoptResult(chatID, sessionID, result) {
		h.logger.Info("finalized session superseded by a new run",
			zap.Int64("chat_id", chatID),
			zap.Int64("session_id", sessionID),
		)
		return
	}

	msg := newHTMLMessage(chatID, formatResult(result))
	h.send(msg)

	offer := newHTMLMessage(chatID, msgReportDelivery)
	offer.ReplyMarkup = buildReportKeyboard()
	h.send(offer)
}

// adoptResult installs a finalized result for the chat. The user may have
// restarted during the countdown; the teardown is scoped to the finalized
// session so a stale goroutine never clobbers the newer run's machine or
// flow. Returns false when the session was superseded.
func (h *Handler) adoptResult(chatID, sessionID int64, result entities.ClusterResult) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	flow := h.flows[chatID]
	if flow == nil || flow.sessionID != sessionID {
		return false
	}

	if m := h.registry.Get(chatID); m != nil && m.Session().ID == sessionID {
		h.registry.Delete(chatID)
	}
	h.flows[chatID] = &chatFlow{userID: flow.userID, sessionID: sessionID, result: &result}
	return true
}
