package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handleReportCallback starts the lead-capture sub-flow gating report
// delivery: name, then phone, then email.
func (h *Handler) handleReportCallback(_ context.Context, chatID int64) {
	flow := h.flow(chatID)
	if flow == nil || flow.result == nil {
		h.send(newHTMLMessage(chatID, msgNoResultYet))
		return
	}

	flow.step = leadAwaitName
	h.send(newHTMLMessage(chatID, msgAskName))
}

// handleLeadInput consumes one text input of the lead-capture sequence.
func (h *Handler) handleLeadInput(ctx context.Context, chatID int64, flow *chatFlow, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	switch flow.step {
	case leadAwaitName:
		flow.lead.Name = text
		flow.step = leadAwaitPhone
		h.send(newHTMLMessage(chatID, msgAskPhone))

	case leadAwaitPhone:
		flow.lead.Phone = text
		flow.step = leadAwaitEmail
		h.send(newHTMLMessage(chatID, msgAskEmail))

	case leadAwaitEmail:
		if !looksLikeEmail(text) {
			h.send(newHTMLMessage(chatID, msgInvalidEmail))
			return nil
		}
		flow.lead.Email = text
		flow.step = leadIdle
		return h.deliverReport(ctx, chatID, flow)
	}

	return nil
}

// deliverReport persists the lead, builds the document and hands it to the
// chat and the email sink.
func (h *Handler) deliverReport(ctx context.Context, chatID int64, flow *chatFlow) error {
	h.send(newHTMLMessage(chatID, msgGeneratingDoc))

	if err := h.users.SaveLead(ctx, flow.userID, flow.lead); err != nil {
		h.logger.Warn("save lead failed",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}

	doc, err := h.reports.Build(ctx, flow.lead, *flow.result)
	if err != nil {
		return fmt.Errorf("build report: %w", err)
	}

	file := tgbotapi.FileBytes{Name: doc.Filename, Bytes: doc.HTML}
	docMsg := tgbotapi.NewDocument(chatID, file)
	docMsg.Caption = msgReportReady
	h.send(docMsg)

	if err := h.reports.Deliver(flow.lead, doc); err != nil {
		// The user already holds the document in the chat.
		h.logger.Warn("email delivery failed",
			zap.String("email", flow.lead.Email),
			zap.Error(err),
		)
	}

	restart := newHTMLMessage(chatID, msgHelp)
	restart.ReplyMarkup = buildRestartKeyboard()
	h.send(restart)
	return nil
}

func looksLikeEmail(s string) bool {
	at := strings.IndexByte(s, '@')
	if at < 1 || at == len(s)-1 {
		return false
	}
	return strings.ContainsRune(s[at+1:], '.') && !strings.ContainsAny(s, " \t")
}
