// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/NCobrimark/Archetype-UA/internal/domain/entities"
)

const (
	msgWelcome = "Вітаю! Це тест на Архетипи.\n\n" +
		"Питання допоможуть визначити ваш профіль із 12 базових архетипів. " +
		"Відповідайте інтуїтивно — правильних і неправильних відповідей немає."
	msgUnknownCommand  = "Невідома команда. Напишіть /start, щоб почати тест."
	msgInternalError   = "Щось пішло не так. Спробуйте пізніше."
	msgFreeTextPrompt  = "✍️ Напишіть вашу власну відповідь одним повідомленням:"
	msgAskName         = "Введіть ваше ім'я для звіту:"
	msgAskPhone        = "Введіть ваш номер телефону:"
	msgAskEmail        = "Введіть ваш Email (туди прийде звіт):"
	msgInvalidEmail    = "Схоже, це не email. Спробуйте ще раз:"
	msgGeneratingDoc   = "⏳ Генерую персональний звіт (~10-20 секунд)..."
	msgReportReady     = "Ваш персональний звіт готовий!"
	msgReportDelivery  = "Отримайте стратегію:"
	msgHelp            = "/start — почати тест заново\n/help — ця довідка"
	msgNoResultYet     = "Спочатку пройдіть тест: /start"
	msgFinalizeFailure = "Не вдалося підготувати результат. Напишіть /start, щоб спробувати ще раз."
)

// milestoneMessages keyed by the crossed percentage.
var milestoneMessages = map[int]string{
	25: "🌱 Чверть позаду! Ви чудово рухаєтесь.",
	50: "🔥 Половина тесту позаду — найцікавіше попереду.",
	75: "🚀 Залишилась остання чверть. Фінал близько!",
}

// formatQuestion renders a question with its context and coaching line.
func formatQuestion(q *entities.Question, number, total int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "<b>%d/%d. %s</b>\n", number, total, q.Text)
	if q.Context != "" {
		sb.WriteString("\n")
		sb.WriteString(q.Context)
		sb.WriteString("\n")
	}
	if q.Coaching != "" {
		sb.WriteString("\n<i>")
		sb.WriteString(q.Coaching)
		sb.WriteString("</i>")
	}

	return sb.String()
}

// formatResult renders the finalized classification for the chat.
func formatResult(result entities.ClusterResult) string {
	var sb strings.Builder

	sb.WriteString("🏁 <b>Тест завершено!</b>\n\n")

	if result.MetaTitle != "" {
		fmt.Fprintf(&sb, "🔮 <b>Ваш Мета-Архетип:</b> %s\n\n", result.MetaTitle)
	}

	sb.WriteString("<b>Ваші домінантні архетипи:</b>\n")
	for _, a := range result.Primary {
		fmt.Fprintf(&sb, "• %s — %d балів\n", a.UkrainianName(), result.Scores.Get(a))
	}

	if len(result.Secondary) > 0 {
		sb.WriteString("\n<b>Підтримуючі архетипи:</b>\n")
		for _, a := range result.Secondary {
			fmt.Fprintf(&sb, "• %s — %d балів\n", a.UkrainianName(), result.Scores.Get(a))
		}
	}

	sb.WriteString("\nСильні сторони та опис доступні у повному звіті.")
	return sb.String()
}

func newHTMLMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	return msg
}
