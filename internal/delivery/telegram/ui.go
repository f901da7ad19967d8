package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/NCobrimark/Archetype-UA/internal/domain/entities"
)

// buildQuestionKeyboard builds one button per option, one column.
func buildQuestionKeyboard(q *entities.Question, sessionID int64) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, opt := range q.Options {
		data := buildAnswerCallback(sessionID, q.ID, opt.ID)
		button := tgbotapi.NewInlineKeyboardButtonData(opt.ID+") "+opt.Text, data)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildReportKeyboard builds the lead-magnet keyboard shown with results.
func buildReportKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📥 Отримати детальний звіт та стратегію", buildReportCallback()),
		),
	)
}

// buildRestartKeyboard builds the keyboard offering a new run.
func buildRestartKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Пройти тест ще раз", buildStartCallback()),
		),
	)
}
