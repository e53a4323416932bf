package app

import (
	"errors"

	"kinobot/core/telegram/callbacks"
	tghelpers "kinobot/core/telegram/helpers"
	"kinobot/core/telegram/keyboard"
	"kinobot/internal/dialog"

	tele "gopkg.in/telebot.v4"
)

// cbAddCommand starts (or restarts) the registration conversation.
func (a *App) cbAddCommand(c tele.Context) error {
	choices := a.flow.Start(c.Sender().ID)

	btns := make([]keyboard.InlineBtn, 0, len(choices))
	for _, panel := range choices {
		btns = append(btns, keyboard.InlineBtn{Text: panel, Unique: "panel", Data: panel})
	}
	return tghelpers.SendWithKeyboard(c, msgChoosePanel, keyboard.InlineButtons(btns))
}

// cbPanel records the chosen panel and offers its sub-panels.
func (a *App) cbPanel(c tele.Context) error {
	panel := callbacks.CallbackPayload(c)
	if panel == "" {
		return tghelpers.SendText(c, msgSessionExpired)
	}

	subs := a.flow.ChoosePanel(c.Sender().ID, panel)
	btns := make([]keyboard.InlineBtn, 0, len(subs))
	for _, sp := range subs {
		btns = append(btns, keyboard.InlineBtn{Text: sp, Unique: "sub", Data: sp})
	}
	return tghelpers.SendWithKeyboard(c, panel+msgChooseSubPanel, keyboard.InlineButtons(btns))
}

// cbSubPanel records the chosen sub-panel and asks for the command name.
func (a *App) cbSubPanel(c tele.Context) error {
	subPanel := callbacks.CallbackPayload(c)
	if subPanel == "" {
		return tghelpers.SendText(c, msgSessionExpired)
	}

	if err := a.flow.ChooseSubPanel(c.Sender().ID, subPanel); err != nil {
		if errors.Is(err, dialog.ErrNoConversation) {
			return tghelpers.SendText(c, msgSessionExpired)
		}
		return err
	}
	return tghelpers.SendText(c, subPanel+msgAskCommandName)
}

// registerConversationHandlers binds text handlers to each conversation step.
// They are invoked through the FSM dispatch in the text router.
func (a *App) registerConversationHandlers() {
	a.fsm.RegisterHandler(dialog.StateAwaitingPanel, func(c tele.Context) error {
		return tghelpers.SendText(c, msgUseButtons)
	})
	a.fsm.RegisterHandler(dialog.StateAwaitingSubPanel, func(c tele.Context) error {
		return tghelpers.SendText(c, msgUseButtons)
	})

	a.fsm.RegisterHandler(dialog.StateAwaitingName, func(c tele.Context) error {
		err := a.flow.SubmitName(c.Sender().ID, c.Text())
		switch {
		case errors.Is(err, dialog.ErrEmptyInput):
			return tghelpers.SendText(c, msgEmptyInput)
		case errors.Is(err, dialog.ErrNoConversation):
			return tghelpers.SendText(c, msgSessionExpired)
		case err != nil:
			return err
		}
		return tghelpers.SendText(c, msgAskDescription)
	})

	a.fsm.RegisterHandler(dialog.StateAwaitingDescription, func(c tele.Context) error {
		done, err := a.flow.SubmitDescription(tghelpers.BuildContext(c), c.Sender().ID, c.Text())
		switch {
		case errors.Is(err, dialog.ErrEmptyInput):
			return tghelpers.SendText(c, msgEmptyInput)
		case errors.Is(err, dialog.ErrNoConversation):
			return tghelpers.SendText(c, msgSessionExpired)
		case err != nil:
			// Captured fields are kept; the user just resends the description.
			return tghelpers.SendText(c, msgRegisterFailed)
		}
		return tghelpers.SendText(c, registeredMsg(done.Name, done.Description, done.Panel, done.SubPanel))
	})
}
