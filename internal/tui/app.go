// Package tui is the terminal front end of the session controller.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/parley/internal/app"
	"github.com/matheus3301/parley/internal/bus"
	"github.com/matheus3301/parley/internal/conversation"
	"github.com/matheus3301/parley/internal/pipeline"
	"github.com/matheus3301/parley/internal/prefs"
	"github.com/matheus3301/parley/internal/status"
	"github.com/matheus3301/parley/internal/tui/keys"
	"github.com/matheus3301/parley/internal/tui/ui"
	"github.com/matheus3301/parley/internal/tui/views"
	"github.com/matheus3301/parley/internal/view"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

// ErrSessionEnded is returned by Run when the service rejected the token
// while the UI was open.
var ErrSessionEnded = errors.New("session ended")

const (
	pageAssistant     = "assistant"
	pageConversations = "conversations"
	pageConversation  = "conversation"
	pagePrefs         = "prefs"
	pageHelp          = "help"
)

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	ctrl     *app.Controller
	logger   *zap.Logger
	profile  string
	theme    *ui.Theme
	registry *keys.Registry

	pages    *ui.Pages
	comps    map[string]ui.Component
	body     *tview.Flex
	crumbs   *ui.Crumbs
	menu     *ui.Menu
	logo     *ui.Logo
	info     *ui.ProfileInfo
	flash    *ui.FlashModel
	flashBar *ui.FlashBar
	prompt   *ui.Prompt

	thread *views.MessageThread
	list   *views.ConversationList
	detail *views.ConversationInfo
	prefsV *views.PrefsView
	help   *views.HelpView

	ctx       context.Context
	cancel    context.CancelFunc
	promptOn  bool
	loggedOut bool
	exitErr   error
}

// NewApp creates the TUI application over an activated controller.
func NewApp(ctrl *app.Controller, profile string) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.NewTheme(ctrl.Prefs.Get())

	a := &App{
		app:      tview.NewApplication(),
		ctrl:     ctrl,
		logger:   ctrl.Logger.Named("tui"),
		profile:  profile,
		theme:    theme,
		registry: keys.NewRegistry(),
		pages:    ui.NewPages(),
		crumbs:   ui.NewCrumbs(theme),
		menu:     ui.NewMenu(theme),
		logo:     ui.NewLogo(theme),
		info:     ui.NewProfileInfo(theme),
		flash:    ui.NewFlashModel(),
		flashBar: ui.NewFlashBar(theme),
		prompt:   ui.NewPrompt(theme),
		thread:   views.NewMessageThread(theme),
		list:     views.NewConversationList(theme),
		detail:   views.NewConversationInfo(theme),
		prefsV:   views.NewPrefsView(theme),
		help:     views.NewHelpView(theme),
		ctx:      ctx,
		cancel:   cancel,
	}

	a.setupPages()
	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func (a *App) setupPages() {
	a.comps = map[string]ui.Component{
		pageAssistant:     a.thread,
		pageConversations: a.list,
		pageConversation:  a.detail,
		pagePrefs:         a.prefsV,
		pageHelp:          a.help,
	}
	for name, c := range a.comps {
		a.pages.AddPage(name, c, true, false)
	}
	a.pages.SetOnChange(func([]string) { a.updateChrome() })
}

func (a *App) setupBindings() {
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyTab, Label: "Tab", Description: "Switch view", Visible: true,
		Handler: a.toggleView,
	})
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: ':', Label: ":", Description: "Command", Visible: true,
		Handler: func() { a.showPrompt(ui.PromptCommand) },
	})
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: 'p', Label: "p", Description: "Preferences", Visible: true,
		Handler: a.showPrefs,
	})
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: '?', Label: "?", Description: "Help", Visible: true,
		Handler: func() { a.push(pageHelp) },
	})
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyRune, Rune: 'q', Label: "q", Description: "Quit", Visible: true,
		Handler: a.app.Stop,
	})

	a.registry.AddView(pageAssistant, &keys.Action{
		Key: tcell.KeyRune, Rune: 'i', Label: "i", Description: "Compose",
		Handler: func() { a.app.SetFocus(a.thread.Composer()) },
	})
	a.registry.AddView(pageAssistant, &keys.Action{
		Key: tcell.KeyRune, Rune: 'r', Label: "r", Description: "Reload",
		Handler: a.refresh,
	})
	a.registry.AddView(pageConversations, &keys.Action{
		Key: tcell.KeyEnter, Label: "Enter", Description: "Open",
		Handler: a.openSelected,
	})
	a.registry.AddView(pageConversations, &keys.Action{
		Key: tcell.KeyRune, Rune: '/', Label: "/", Description: "Filter",
		Handler: func() { a.showPrompt(ui.PromptFilter) },
	})
	a.registry.AddView(pageConversations, &keys.Action{
		Key: tcell.KeyRune, Rune: 'r', Label: "r", Description: "Reload",
		Handler: a.refresh,
	})
}

func (a *App) setupCallbacks() {
	a.thread.SetOnChange(a.ctrl.Pipeline.SetInput)
	a.thread.SetOnSend(a.send)

	a.prefsV.SetOnColor(func(color string) {
		a.updatePrefs(prefs.Update{AccentColor: &color})
	})
	a.prefsV.SetOnFont(func(fs prefs.FontScale) {
		a.updatePrefs(prefs.Update{FontScale: &fs})
	})

	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		switch mode {
		case ui.PromptFilter:
			a.list.SetFilter(text)
		case ui.PromptCommand:
			a.runCommand(text)
		}
	})
	a.prompt.SetOnCancel(a.hidePrompt)
	a.prompt.SetCommands([]string{CmdColor, CmdFont, CmdHelp, CmdInsert, CmdLogout, CmdPrefs, CmdQuit})
}

func (a *App) setupLayout() {
	header := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(a.info, 40, 0, false).
		AddItem(a.menu, 0, 1, false).
		AddItem(a.logo, 24, 0, false)

	a.body = tview.NewFlex().SetDirection(tview.FlexRow)
	a.layoutBody()

	root := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 7, 0, false).
		AddItem(a.body, 0, 1, true).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.flashBar, 1, 0, false)

	a.app.SetRoot(root, true)
	a.app.SetInputCapture(a.capture)
}

func (a *App) layoutBody() {
	a.body.Clear()
	if a.promptOn {
		a.body.AddItem(a.prompt, 3, 0, true)
	}
	a.body.AddItem(a.pages, 0, 1, !a.promptOn)
}

func (a *App) capture(ev *tcell.EventKey) *tcell.EventKey {
	if a.promptOn {
		return ev
	}

	// Let the composer handle all keys except Esc.
	if _, ok := a.app.GetFocus().(*tview.InputField); ok {
		if ev.Key() == tcell.KeyEscape {
			a.app.SetFocus(a.thread.Messages())
			return nil
		}
		return ev
	}

	if ev.Key() == tcell.KeyEscape {
		a.back()
		return nil
	}
	if a.registry.HandleEvent(a.pages.Current(), ev) {
		return nil
	}
	return ev
}

// Run starts the TUI and blocks until it exits.
func (a *App) Run() error {
	events, unsub := a.ctrl.Bus.Subscribe("", 64)
	defer unsub()
	defer a.cancel()

	go a.watchEvents(events)
	go a.watchFlash()

	a.thread.Update(a.ctrl.Pipeline.Messages())
	a.list.Update(a.ctrl.Conversations.List())
	a.prefsV.Update(a.ctrl.Prefs.Get())
	a.syncView()
	a.updateInfo()

	if err := a.app.Run(); err != nil {
		return err
	}
	return a.exitErr
}

// LoggedOut reports whether the user signed out from the UI.
func (a *App) LoggedOut() bool {
	return a.loggedOut
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}

func (a *App) watchEvents(events <-chan bus.Event) {
	for {
		select {
		case <-a.ctx.Done():
			return
		case evt := <-events:
			a.app.QueueUpdateDraw(func() { a.handle(evt) })
		}
	}
}

func (a *App) watchFlash() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-a.ctx.Done():
			return
		case <-a.flash.Watch():
		case <-ticker.C:
		}
		a.app.QueueUpdateDraw(func() { a.flashBar.Update(a.flash.GetMessage()) })
	}
}

func (a *App) handle(evt bus.Event) {
	switch evt.Kind {
	case bus.MessageTailChanged, bus.MessageHistoryLoaded:
		a.thread.Update(a.ctrl.Pipeline.Messages())
		a.thread.SetSending(a.ctrl.Pipeline.State() == pipeline.Sending)
		a.thread.SetInput(a.ctrl.Pipeline.Input())
	case bus.ConversationsLoaded:
		a.list.Update(a.ctrl.Conversations.List())
		if l, ok := evt.Payload.(conversation.Loaded); ok && l.Err != nil {
			a.flash.Err(l.Err)
		}
	case bus.ViewChanged:
		a.syncView()
	case bus.PrefsChanged:
		a.applyTheme(a.ctrl.Prefs.Get())
	case bus.SessionStatusChanged:
		if sc, ok := evt.Payload.(status.StatusChange); ok && sc.To == status.SignedOut {
			if !a.loggedOut {
				a.exitErr = ErrSessionEnded
			}
			a.app.Stop()
		}
	}
	a.updateInfo()
}

// syncView shows the pages matching the coordinator state.
func (a *App) syncView() {
	if a.ctrl.View.Current() == view.Assistant {
		a.pages.Reset(pageAssistant)
		a.app.SetFocus(a.thread)
		return
	}
	if conv, ok := a.ctrl.View.Selected(); ok {
		a.detail.Update(conv)
		a.pages.Reset(pageConversations, pageConversation)
		a.app.SetFocus(a.detail)
		return
	}
	a.pages.Reset(pageConversations)
	a.app.SetFocus(a.list)
}

func (a *App) push(page string) {
	a.pages.Push(page)
	a.app.SetFocus(a.comps[page])
}

func (a *App) back() {
	switch a.pages.Current() {
	case pageHelp, pagePrefs:
		if a.pages.Pop() != "" {
			a.app.SetFocus(a.comps[a.pages.Current()])
		}
	case pageConversation:
		a.ctrl.View.Deselect()
	case pageConversations:
		if a.list.Filter() != "" {
			a.list.SetFilter("")
		}
	}
}

func (a *App) toggleView() {
	switch a.pages.Current() {
	case pageHelp, pagePrefs:
		a.back()
	}
	if err := a.ctrl.View.Toggle(); err != nil {
		a.flash.Warn(err.Error())
	}
}

func (a *App) openSelected() {
	id := a.list.SelectedID()
	if id == "" {
		return
	}
	if err := a.ctrl.View.Select(id); err != nil {
		a.flash.Err(err)
	}
}

func (a *App) showPrefs() {
	if !a.ctrl.Config.Features.ThemeSwitch {
		a.flash.Warn("theme switching is disabled")
		return
	}
	a.prefsV.Update(a.ctrl.Prefs.Get())
	a.push(pagePrefs)
}

func (a *App) showPrompt(mode ui.PromptMode) {
	a.promptOn = true
	text := ""
	if mode == ui.PromptFilter {
		text = a.list.Filter()
	}
	a.prompt.Activate(mode, text)
	a.layoutBody()
	a.app.SetFocus(a.prompt)
}

func (a *App) hidePrompt() {
	a.promptOn = false
	a.layoutBody()
	a.app.SetFocus(a.comps[a.pages.Current()])
}

func (a *App) send() {
	if a.ctrl.Pipeline.State() == pipeline.Sending {
		a.flash.Warn("waiting for the previous reply")
		return
	}
	go func() {
		// Ask failures already show as a failed bubble.
		err := a.ctrl.Send(a.ctx)
		if err != nil && !errors.Is(err, pipeline.ErrBusy) {
			a.logger.Debug("send finished with error", zap.Error(err))
		}
	}()
}

func (a *App) refresh() {
	go func() {
		if err := a.ctrl.Refresh(a.ctx); err != nil {
			if errors.Is(err, pipeline.ErrBusy) {
				a.flash.Warn("waiting for the previous reply")
				return
			}
			a.flash.Err(err)
			return
		}
		a.flash.Info("reloaded")
	}()
}

func (a *App) runCommand(text string) {
	cmd, err := ParseCommand(text).Canonical()
	if err != nil {
		a.flash.Err(err)
		return
	}
	switch cmd.Name {
	case CmdPrefs:
		a.showPrefs()
	case CmdColor:
		a.updatePrefs(prefs.Update{AccentColor: &cmd.Args})
	case CmdFont:
		fs := prefs.FontScale(cmd.Args)
		a.updatePrefs(prefs.Update{FontScale: &fs})
	case CmdInsert:
		a.ctrl.Pipeline.AppendInput(cmd.Args)
		a.thread.SetInput(a.ctrl.Pipeline.Input())
	case CmdLogout:
		a.loggedOut = true
		if err := a.ctrl.Logout(); err != nil {
			a.logger.Warn("logout", zap.Error(err))
		}
		a.app.Stop()
	case CmdHelp:
		a.push(pageHelp)
	case CmdQuit:
		a.app.Stop()
	}
}

func (a *App) updatePrefs(u prefs.Update) {
	if !a.ctrl.Config.Features.ThemeSwitch {
		a.flash.Warn("theme switching is disabled")
		return
	}
	if _, err := a.ctrl.Prefs.Set(u); err != nil {
		a.flash.Err(err)
		return
	}
	a.flash.Info("preferences saved")
}

func (a *App) applyTheme(p prefs.Preferences) {
	a.theme = ui.NewTheme(p)
	for _, c := range a.comps {
		c.ApplyTheme(a.theme)
	}
	a.crumbs.SetTheme(a.theme)
	a.menu.SetTheme(a.theme)
	a.logo.SetTheme(a.theme)
	a.info.SetTheme(a.theme)
	a.flashBar.SetTheme(a.theme)
	a.prompt.SetTheme(a.theme)
	a.prefsV.Update(p)
	a.updateChrome()
}

func (a *App) updateChrome() {
	var trail []string
	for _, name := range a.pages.Stack() {
		trail = append(trail, a.comps[name].Name())
	}
	a.crumbs.Update(trail)

	page := a.pages.Current()
	hints := a.registry.Hints(page)
	if c, ok := a.comps[page]; ok {
		hints = append(c.Hints(), hints...)
	}
	a.menu.Update(dedupe(hints))
}

func (a *App) updateInfo() {
	d := ui.ProfileData{
		Profile:       a.profile,
		Status:        string(a.ctrl.Gate.State()),
		Messages:      a.ctrl.Pipeline.Len(),
		Conversations: a.ctrl.Conversations.Len(),
		Sending:       a.ctrl.Pipeline.State() == pipeline.Sending,
	}
	if s, ok := a.ctrl.Gate.Session(); ok {
		d.Username = s.User.Username
		d.Phone = s.User.Phone
	}
	a.info.Update(d)
}

func dedupe(hints []ui.MenuHint) []ui.MenuHint {
	seen := make(map[string]bool, len(hints))
	out := hints[:0]
	for _, h := range hints {
		if seen[h.Key] {
			continue
		}
		seen[h.Key] = true
		out = append(out, h)
	}
	return out
}
