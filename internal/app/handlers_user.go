package app

import (
	"errors"
	"strconv"
	"strings"

	"kinobot/core/logger"
	"kinobot/core/telegram/format"
	tghelpers "kinobot/core/telegram/helpers"
	"kinobot/core/telegram/keyboard"
	"kinobot/internal/panels"
	"kinobot/internal/storage"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// handleStart records the user and offers the registration entry point.
func (a *App) handleStart(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	if err := a.store.AddUser(ctx, c.Sender().ID); err != nil {
		// Greeting still goes out; losing one user row is not fatal.
		logger.LogEvent(ctx, logger.SVCStorage, slog.LevelWarn, "user.add.fail",
			slog.Int64("user_id", c.Sender().ID),
			slog.String("err", err.Error()),
		)
	}

	btns := []keyboard.InlineBtn{
		{Text: panels.UserPanel, Unique: "browse", Data: panels.UserPanel},
		{Text: panels.AdminPanel, Unique: "browse", Data: panels.AdminPanel},
	}
	if c.Sender().ID == a.cfg.Core.Telegram.OwnerID || a.isAdmin(ctx, c.Sender().ID) {
		btns = append(btns, keyboard.InlineBtn{Text: msgBtnAddCommand, Unique: "add_command"})
	}
	return tghelpers.SendWithKeyboard(c, msgGreeting, keyboard.InlineButtonsNPerRow(btns, 2))
}

// handleCodeLookup treats any plain numeric text as a code lookup. It is the
// text fallback: conversations and commands are already routed before it.
func (a *App) handleCodeLookup(c tele.Context) error {
	text := strings.TrimSpace(c.Text())
	code, err := strconv.Atoi(text)
	if err != nil || code <= 0 {
		return tghelpers.SendText(c, msgUnknownInput)
	}

	ctx := tghelpers.BuildContext(c)
	if err := a.store.IncrementStat(ctx, code, "searched"); err != nil {
		logger.LogEvent(ctx, logger.SVCStorage, slog.LevelWarn, "stat.increment.fail",
			slog.Int("code", code),
			slog.String("err", err.Error()),
		)
	}

	entry, err := a.store.GetCode(ctx, code)
	if errors.Is(err, storage.ErrNotFound) {
		return tghelpers.SendText(c, msgCodeNotFound)
	}
	if err != nil {
		logger.LogEvent(ctx, logger.SVCStorage, slog.LevelError, "code.lookup.fail",
			slog.Int("code", code),
			slog.String("err", err.Error()),
		)
		return tghelpers.SendText(c, msgInternalError)
	}

	if err := a.deliverCode(c, entry); err != nil {
		return err
	}

	if err := a.store.IncrementStat(ctx, code, "viewed"); err != nil {
		logger.LogEvent(ctx, logger.SVCStorage, slog.LevelWarn, "stat.increment.fail",
			slog.Int("code", code),
			slog.String("err", err.Error()),
		)
	}
	return nil
}

// deliverCode sends the stored video when one exists, otherwise a text card.
func (a *App) deliverCode(c tele.Context, entry *storage.Code) error {
	caption := format.DerefString(entry.Caption, "")
	if caption == "" {
		caption = format.DerefString(entry.Title, "")
	}

	if fileID := format.DerefString(entry.VideoFileID, ""); fileID != "" {
		video := &tele.Video{File: tele.File{FileID: fileID}, Caption: caption}
		return c.Send(video)
	}
	if caption == "" {
		return tghelpers.SendText(c, msgCodeNotFound)
	}
	return tghelpers.SendText(c, caption)
}
