package telegram

import (
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// progressDisplay shows the finalization countdown as a single message that
// gets edited in place. It implements finalize.ProgressDisplay; only one
// goroutine (the orchestrator) drives it.
type progressDisplay struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	msgID  int
}

func newProgressDisplay(bot *tgbotapi.BotAPI, chatID int64) *progressDisplay {
	return &progressDisplay{bot: bot, chatID: chatID}
}

func (d *progressDisplay) Show(text string) error {
	sent, err := d.bot.Send(tgbotapi.NewMessage(d.chatID, text))
	if err != nil {
		return err
	}
	d.msgID = sent.MessageID
	return nil
}

func (d *progressDisplay) Update(text string) error {
	if d.msgID == 0 {
		return errors.New("progress message was never shown")
	}
	_, err := d.bot.Send(tgbotapi.NewEditMessageText(d.chatID, d.msgID, text))
	return err
}

func (d *progressDisplay) Dismiss() {
	if d.msgID == 0 {
		return
	}
	// Best effort: the chat may have deleted the message already.
	_, _ = d.bot.Request(tgbotapi.NewDeleteMessage(d.chatID, d.msgID))
	d.msgID = 0
}
