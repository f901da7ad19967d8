package telegram

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/NCobrimark/Archetype-UA/internal/catalog"
	"github.com/NCobrimark/Archetype-UA/internal/domain/entities"
	"github.com/NCobrimark/Archetype-UA/internal/finalize"
	"github.com/NCobrimark/Archetype-UA/internal/quiz"
	"github.com/NCobrimark/Archetype-UA/internal/report"
)

type RunStarter interface {
	StartRun(ctx context.Context, user *entities.User, session *entities.QuizSession) (int64, error)
}

type UserStore interface {
	SaveLead(ctx context.Context, userID int64, lead entities.Lead) error
}

type SessionStore interface {
	MarkCompleted(ctx context.Context, sessionID int64) error
}

type Finalizer interface {
	Finalize(ctx context.Context, sessionID int64, display finalize.ProgressDisplay) (entities.ClusterResult, error)
}

type ReportService interface {
	Build(ctx context.Context, lead entities.Lead, result entities.ClusterResult) (report.Document, error)
	Deliver(lead entities.Lead, doc report.Document) error
}

// leadStep tracks where a chat is inside the lead-capture sub-flow.
type leadStep int

const (
	leadIdle leadStep = iota
	leadAwaitName
	leadAwaitPhone
	leadAwaitEmail
)

// chatFlow is the per-chat delivery state outside the quiz machine itself:
// the finalized result awaiting report delivery and the lead-capture step.
type chatFlow struct {
	userID     int64
	sessionID  int64
	finalizing bool
	result     *entities.ClusterResult
	lead       entities.Lead
	step       leadStep
}

type Handler struct {
	bot      *tgbotapi.BotAPI
	logger   *zap.Logger
	catalog  *catalog.Catalog
	registry *quiz.Registry
	answers  quiz.AnswerSink
	starter  RunStarter
	users    UserStore
	sessions SessionStore
	final    Finalizer
	reports  ReportService

	mu    sync.Mutex
	flows map[int64]*chatFlow
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	cat *catalog.Catalog,
	answers quiz.AnswerSink,
	starter RunStarter,
	users UserStore,
	sessions SessionStore,
	final Finalizer,
	reports ReportService,
) *Handler {
	return &Handler{
		bot:      bot,
		logger:   logger,
		catalog:  cat,
		registry: quiz.NewRegistry(),
		answers:  answers,
		starter:  starter,
		users:    users,
		sessions: sessions,
		final:    final,
		reports:  reports,
		flows:    make(map[int64]*chatFlow),
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID
	from := update.Message.From

	if update.Message.IsCommand() {
		switch update.Message.Command() {
		case "start":
			_ = h.withErrorHandling(h.startHandler(from.ID))(ctx, chatID)
		case "help":
			h.send(newHTMLMessage(chatID, msgHelp))
		default:
			h.send(newHTMLMessage(chatID, msgUnknownCommand))
		}
		return
	}

	h.handleText(ctx, chatID, update.Message.Text)
}

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	cd := decodeCallback(cb.Data)

	switch cd.Action {
	case actionAnswer:
		h.handleAnswerCallback(ctx, cb, cd)
	case actionReport:
		h.handleReportCallback(ctx, chatID)
	case actionStart:
		_ = h.withErrorHandling(h.startHandler(cb.From.ID))(ctx, chatID)
	default:
		return
	}

	// Remove the user's "clock".
	answer := tgbotapi.NewCallback(cb.ID, "")
	if _, err := h.bot.Request(answer); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}

// handleText routes plain text: the free-text branch of the quiz takes
// priority, then the lead-capture steps. Anything else is a late or
// out-of-band message and is ignored.
func (h *Handler) handleText(ctx context.Context, chatID int64, text string) {
	if m := h.registry.Get(chatID); m != nil && m.Session().State == entities.StateAwaitingFreeText {
		_ = h.withErrorHandling(func(ctx context.Context, chatID int64) error {
			return h.handleFreeText(ctx, chatID, m, text)
		})(ctx, chatID)
		return
	}

	if flow := h.flow(chatID); flow != nil && flow.step != leadIdle {
		_ = h.withErrorHandling(func(ctx context.Context, chatID int64) error {
			return h.handleLeadInput(ctx, chatID, flow, text)
		})(ctx, chatID)
	}
}

// flow returns the chat's flow state, or nil.
func (h *Handler) flow(chatID int64) *chatFlow {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.flows[chatID]
}

// setFlow replaces the chat's flow state.
func (h *Handler) setFlow(chatID int64, f *chatFlow) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.flows[chatID] = f
}

func (h *Handler) sendError(chatID int64, text string) {
	h.send(newHTMLMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}
