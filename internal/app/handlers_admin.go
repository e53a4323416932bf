package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"kinobot/core/logger"
	"kinobot/core/telegram/commands"
	"kinobot/core/telegram/format"
	tghelpers "kinobot/core/telegram/helpers"
	"kinobot/internal/storage"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

func (a *App) adminCommands() map[string]commands.Command {
	return map[string]commands.Command{
		"/stats":     {Handler: a.handleStats, Description: "Bot statistikasi", AdminOnly: true, Hidden: true},
		"/addcode":   {Handler: a.handleAddCode, Description: "Yangi kod qo‘shish", AdminOnly: true, Hidden: true},
		"/codes":     {Handler: a.handleCodes, Description: "Kodlar ro‘yxati", AdminOnly: true, Hidden: true},
		"/delcode":   {Handler: a.handleDelCode, Description: "Kodni o‘chirish", AdminOnly: true, Hidden: true},
		"/rename":    {Handler: a.handleRename, Description: "Kodni qayta nomlash", AdminOnly: true, Hidden: true},
		"/addadmin":  {Handler: a.handleAddAdmin, Description: "Admin qo‘shish", AdminOnly: true, Hidden: true},
		"/deladmin":  {Handler: a.handleDelAdmin, Description: "Adminni o‘chirish", AdminOnly: true, Hidden: true},
		"/admins":    {Handler: a.handleAdmins, Description: "Adminlar ro‘yxati", AdminOnly: true, Hidden: true},
		"/broadcast": {Handler: a.handleBroadcast, Description: "Hammaga xabar yuborish", AdminOnly: true, Hidden: true},
	}
}

func (a *App) handleStats(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	total, err := a.store.UserCount(ctx)
	if err != nil {
		return tghelpers.SendText(c, msgInternalError)
	}
	today, err := a.store.TodayUserCount(ctx)
	if err != nil {
		return tghelpers.SendText(c, msgInternalError)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Jami foydalanuvchilar: %d\nBugun qo‘shilganlar: %d", total, today)

	codes, err := a.store.ListCodes(ctx)
	if err != nil {
		return tghelpers.SendText(c, msgInternalError)
	}
	for _, entry := range codes {
		st, err := a.store.CodeStat(ctx, entry.Code)
		if err != nil {
			// Codes upserted before their stats row appears have no counters yet.
			continue
		}
		fmt.Fprintf(&b, "\n%d: qidirildi %d, ko‘rildi %d", st.Code, st.Searched, st.Viewed)
	}
	return tghelpers.SendText(c, b.String())
}

func (a *App) handleCodes(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	codes, err := a.store.ListCodes(ctx)
	if err != nil {
		return tghelpers.SendText(c, msgInternalError)
	}
	if len(codes) == 0 {
		return tghelpers.SendText(c, msgNoCodes)
	}

	var b strings.Builder
	for _, entry := range codes {
		title := format.DerefString(entry.Title, "(nomsiz)")
		fmt.Fprintf(&b, "%d — %s\n", entry.Code, title)
	}
	return tghelpers.SendText(c, strings.TrimRight(b.String(), "\n"))
}

// handleAddCode registers a catalog entry under the next free code. Sent as
// a reply to a video message it attaches that video.
func (a *App) handleAddCode(c tele.Context) error {
	title := strings.TrimSpace(strings.Join(c.Args(), " "))
	if title == "" {
		return tghelpers.SendText(c, msgUsageAddCode)
	}

	ctx := tghelpers.BuildContext(c)
	highest, err := a.store.HighestCode(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return tghelpers.SendText(c, msgInternalError)
	}

	entry := storage.Code{
		Code:  highest + 1,
		Title: format.StringPtr(title),
	}
	if msg := c.Message(); msg != nil && msg.ReplyTo != nil && msg.ReplyTo.Video != nil {
		entry.VideoFileID = format.StringPtr(msg.ReplyTo.Video.FileID)
		entry.Caption = format.StringPtr(msg.ReplyTo.Caption)
		entry.MessageID = format.IntPtr(msg.ReplyTo.ID)
	}

	if err := a.store.UpsertCode(ctx, entry); err != nil {
		logger.LogEvent(ctx, logger.SVCStorage, slog.LevelError, "code.add.fail",
			slog.Int("code", entry.Code),
			slog.String("err", err.Error()),
		)
		return tghelpers.SendText(c, msgInternalError)
	}
	return tghelpers.SendText(c, codeAddedMsg(entry.Code, title))
}

func (a *App) handleDelCode(c tele.Context) error {
	args := c.Args()
	if len(args) != 1 {
		return tghelpers.SendText(c, msgUsageDelCode)
	}
	code, err := strconv.Atoi(args[0])
	if err != nil {
		return tghelpers.SendText(c, msgUsageDelCode)
	}

	deleted, err := a.store.DeleteCode(tghelpers.BuildContext(c), code)
	if err != nil {
		return tghelpers.SendText(c, msgInternalError)
	}
	if !deleted {
		return tghelpers.SendText(c, msgDeleteMissing)
	}
	return tghelpers.SendText(c, msgDeleteOK)
}

func (a *App) handleRename(c tele.Context) error {
	args := c.Args()
	if len(args) < 3 {
		return tghelpers.SendText(c, msgUsageRename)
	}
	oldCode, err1 := strconv.Atoi(args[0])
	newCode, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		return tghelpers.SendText(c, msgUsageRename)
	}
	title := strings.Join(args[2:], " ")

	ctx := tghelpers.BuildContext(c)
	if _, err := a.store.GetCode(ctx, oldCode); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return tghelpers.SendText(c, msgDeleteMissing)
		}
		return tghelpers.SendText(c, msgInternalError)
	}

	if err := a.store.RenameCode(ctx, oldCode, newCode, title); err != nil {
		logger.LogEvent(ctx, logger.SVCStorage, slog.LevelWarn, "code.rename.fail",
			slog.Int("code", oldCode),
			slog.String("err", err.Error()),
		)
		return tghelpers.SendText(c, msgInternalError)
	}
	return tghelpers.SendText(c, msgRenameOK)
}

func (a *App) handleAddAdmin(c tele.Context) error {
	args := c.Args()
	if len(args) != 1 {
		return tghelpers.SendText(c, msgUsageAddAdmin)
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return tghelpers.SendText(c, msgUsageAddAdmin)
	}

	if err := a.store.AddAdmin(tghelpers.BuildContext(c), userID); err != nil {
		return tghelpers.SendText(c, msgInternalError)
	}
	return tghelpers.SendText(c, msgAdminAdded)
}

func (a *App) handleDelAdmin(c tele.Context) error {
	args := c.Args()
	if len(args) != 1 {
		return tghelpers.SendText(c, msgUsageDelAdmin)
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return tghelpers.SendText(c, msgUsageDelAdmin)
	}

	if err := a.store.RemoveAdmin(tghelpers.BuildContext(c), userID); err != nil {
		return tghelpers.SendText(c, msgInternalError)
	}
	return tghelpers.SendText(c, msgAdminRemoved)
}

func (a *App) handleAdmins(c tele.Context) error {
	ids, err := a.store.AllAdmins(tghelpers.BuildContext(c))
	if err != nil {
		return tghelpers.SendText(c, msgInternalError)
	}
	if len(ids) == 0 {
		return tghelpers.SendText(c, msgNoAdmins)
	}

	var b strings.Builder
	b.WriteString("Adminlar:\n")
	for _, id := range ids {
		fmt.Fprintf(&b, "%d\n", id)
	}
	return tghelpers.SendText(c, strings.TrimRight(b.String(), "\n"))
}

func (a *App) handleBroadcast(c tele.Context) error {
	text := strings.TrimSpace(strings.Join(c.Args(), " "))
	if text == "" {
		return tghelpers.SendText(c, msgUsageBroadcast)
	}

	ctx := tghelpers.BuildContext(c)
	ids, err := a.store.AllUserIDs(ctx)
	if err != nil {
		return tghelpers.SendText(c, msgInternalError)
	}

	// Pacing is the dispatcher's job; SendTo only enqueues.
	queued, failed := broadcastAll(ids, func(id int64) error {
		return tghelpers.SendTo(c.Bot().(*tele.Bot), &tele.User{ID: id}, text)
	})

	logger.LogEvent(ctx, logger.Component("tg"), slog.LevelInfo, "broadcast.done",
		slog.Int("sent", queued),
		slog.Int("failed", failed),
	)
	return tghelpers.SendText(c, fmt.Sprintf("Yuborildi: %d, xatolik: %d", queued, failed))
}

// broadcastAll fans text out to every id, counting queue successes and failures.
func broadcastAll(ids []int64, send func(int64) error) (sent, failed int) {
	for _, id := range ids {
		if err := send(id); err != nil {
			failed++
		} else {
			sent++
		}
	}
	return sent, failed
}
