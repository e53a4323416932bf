package app

import (
	"kinobot/core/telegram/callbacks"
	tghelpers "kinobot/core/telegram/helpers"
	"kinobot/core/telegram/keyboard"
	"kinobot/internal/panels"

	tele "gopkg.in/telebot.v4"
)

// cbBrowse offers the sub-panels of the chosen panel for read-only browsing,
// plus a shortcut listing the whole panel at once.
func (a *App) cbBrowse(c tele.Context) error {
	panel := callbacks.CallbackPayload(c)
	if panel == "" {
		return tghelpers.SendText(c, msgSessionExpired)
	}

	subs := panels.SubPanels(panel)
	btns := make([]keyboard.InlineBtn, 0, len(subs)+1)
	for _, sp := range subs {
		btns = append(btns, keyboard.InlineBtn{Text: sp, Unique: "bsub", Data: panel + "|" + sp})
	}
	btns = append(btns, keyboard.InlineBtn{Text: msgBtnAllCommands, Unique: "ball", Data: panel})
	markup := keyboard.InlineButtonsNPerRow(btns, len(subs))
	return tghelpers.EditOrSendMD(c, panel+msgChooseSubPanel, markup)
}

// cbBrowseSub lists the commands registered under the chosen sub-panel.
func (a *App) cbBrowseSub(c tele.Context) error {
	parts, err := callbacks.PayloadParts(c, "|")
	if err != nil || len(parts) != 2 {
		return tghelpers.SendText(c, msgSessionExpired)
	}
	panel, subPanel := parts[0], parts[1]

	listing, err := panels.ListCommands(tghelpers.BuildContext(c), a.store, panel, subPanel)
	if err != nil {
		return tghelpers.SendText(c, msgInternalError)
	}
	return tghelpers.SendText(c, listing)
}

// cbBrowseAll lists every command of the chosen panel, grouped by sub-panel.
func (a *App) cbBrowseAll(c tele.Context) error {
	panel := callbacks.CallbackPayload(c)
	if panel == "" {
		return tghelpers.SendText(c, msgSessionExpired)
	}

	listing, err := panels.ListPanelCommands(tghelpers.BuildContext(c), a.store, panel)
	if err != nil {
		return tghelpers.SendText(c, msgInternalError)
	}
	return tghelpers.SendText(c, listing)
}
