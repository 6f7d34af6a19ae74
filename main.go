// solace TUI - a terminal companion for the Solace wellness service.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/solace-tui/internal/api"
	"github.com/jeranaias/solace-tui/internal/chat"
	"github.com/jeranaias/solace-tui/internal/cli"
	"github.com/jeranaias/solace-tui/internal/config"
	"github.com/jeranaias/solace-tui/internal/session"
	"github.com/jeranaias/solace-tui/internal/storage"
	syncsvc "github.com/jeranaias/solace-tui/internal/sync"
	uichat "github.com/jeranaias/solace-tui/internal/ui/chat"
	"github.com/jeranaias/solace-tui/internal/ui/components"
	"github.com/jeranaias/solace-tui/internal/ui/screens"
	"github.com/jeranaias/solace-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.4.1"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference for async event delivery
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdLogin:
		cli.HandleLogin(args)
	case cli.CmdLogout:
		cli.HandleLogout(args)
	case cli.CmdStatus:
		cli.HandleStatus(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdLock:
		cli.HandleLock(args)
	case cli.CmdSessions:
		cli.HandleSessions(args)
	case cli.CmdVersion:
		cli.HandleVersion()
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		runTUI(args)
	}
}

// send delivers a message into the running program from a goroutine.
func send(msg tea.Msg) {
	programMu.Lock()
	p := programRef
	programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// runTUI starts the full-screen interface.
func runTUI(args cli.Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if args.Persona != "" {
		cfg.Chat.Persona = args.Persona
	}

	theme := styles.NewTheme(styles.Mode(cfg.UI.Theme))
	manager := session.NewManager(cfg.API.BaseURL, config.Dir())

	apiClient := api.NewClient(cfg.API.BaseURL, manager).
		WithRateLimit(cfg.API.RatePerSec, int(cfg.API.RatePerSec)*2).
		WithMaxRetries(cfg.API.MaxRetries)
	batcher := api.NewBatcher(apiClient, cfg.BatchWindow())
	defer batcher.Close()

	chatClient := chat.NewClient(cfg.API.BaseURL, manager).
		WithPersona(cfg.Chat.Persona).
		WithMaxRetries(cfg.API.MaxRetries)

	var store *storage.ConversationStore
	if cfg.Storage.Enabled {
		store, err = storage.Open(cfg.CachePath())
		if err != nil {
			// Conversations won't persist, but chat still works.
			fmt.Fprintf(os.Stderr, "warning: offline cache unavailable: %v\n", err)
		} else {
			if cfg.Storage.MaxConversations > 0 {
				store.MaxConversations = cfg.Storage.MaxConversations
			}
			defer store.Close()
		}
	}

	var lock *session.AppLock
	if cfg.Lock.Enabled {
		lock = session.NewAppLock(filepath.Join(config.Dir(), "lock.json"),
			time.Duration(cfg.Lock.RelockMinutes)*time.Minute)
	}

	app := newApp(cfg, theme, manager, apiClient, batcher, chatClient, store, lock)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	programMu.Lock()
	programRef = p
	programMu.Unlock()

	// Config hot reload. Edits to config.toml land in the update loop
	// as ConfigReloadedMsg; invalid saves are skipped by the watcher.
	watcher, err := config.NewWatcher(config.Path(), func(next *config.Config) {
		send(ConfigReloadedMsg{Config: next})
	})
	if err == nil {
		if err := watcher.Watch(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: config watch failed: %v\n", err)
		}
		defer watcher.Close()
	}

	// Background sync stream. Server events arrive over SSE and are
	// forwarded into the update loop so screens refresh on their own.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Sync.Enabled && manager.Authenticated() {
		svc := syncsvc.NewService(cfg.API.BaseURL, manager, cfg.ReconnectDelay())
		go svc.Run(ctx)
		go func() {
			for ev := range svc.Events() {
				send(SyncEventMsg{Event: ev})
			}
		}()
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "solace: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// refreshInterval drives the periodic refresh of the active screen.
const refreshInterval = time.Minute

// SyncEventMsg wraps a server sync event for the update loop.
type SyncEventMsg struct {
	Event syncsvc.Event
}

// ConfigReloadedMsg carries a freshly reloaded configuration.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// RefreshTickMsg fires the periodic screen refresh.
type RefreshTickMsg struct{}

// App is the root Bubble Tea model: header tabs, one active screen,
// status bar, and transient toasts.
type App struct {
	cfg   *config.Config
	theme *styles.Theme

	manager *session.Manager

	header    *components.Header
	statusBar *components.StatusBar
	toast     *components.Toast

	chatModel *uichat.Model
	wallet    *screens.Wallet
	profile   *screens.Profile
	insights  *screens.Insights
	settings  *screens.Settings

	activeTab components.Tab

	width  int
	height int
}

func newApp(
	cfg *config.Config,
	theme *styles.Theme,
	manager *session.Manager,
	apiClient *api.Client,
	batcher *api.Batcher,
	chatClient *chat.Client,
	store *storage.ConversationStore,
	lock *session.AppLock,
) *App {
	header := components.NewHeader(theme)
	statusBar := components.NewStatusBar(theme)
	statusBar.SetConnected(manager.Authenticated())
	statusBar.SetShortcuts(shortcutsFor(components.TabChat))

	return &App{
		cfg:       cfg,
		theme:     theme,
		manager:   manager,
		header:    header,
		statusBar: statusBar,
		toast:     components.NewToast(theme),
		chatModel: uichat.New(cfg, theme, chatClient, store),
		wallet:    screens.NewWallet(theme, batcher, lock),
		profile:   screens.NewProfile(theme, apiClient),
		insights:  screens.NewInsights(theme, apiClient),
		settings:  screens.NewSettings(theme, cfg),
		activeTab: components.TabChat,
	}
}

// Init starts the chat screen and the periodic refresh tick.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.chatModel.Init(),
		refreshTickCmd(),
	)
}

func refreshTickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return RefreshTickMsg{}
	})
}

// Update handles messages and routes them to the active screen.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.handleResize(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)

	case RefreshTickMsg:
		cmd := a.refreshActive()
		return a, tea.Batch(cmd, refreshTickCmd())

	case SyncEventMsg:
		return a.handleSyncEvent(msg.Event)

	case ConfigReloadedMsg:
		return a.handleConfigReload(msg.Config)

	case screens.WalletLoadedMsg:
		// Balance rides along into the status bar on every wallet load.
		a.statusBar.SetBalance(msg.Balance)
		var cmd tea.Cmd
		a.wallet, cmd = a.wallet.Update(msg)
		return a, cmd

	case screens.SettingsSavedMsg:
		return a.handleSettingsSaved(msg)

	case screens.FetchErrorMsg:
		return a, a.routeFetchError(msg)

	case components.ToastExpiredMsg:
		a.toast.Update(msg)
		return a, nil
	}

	// Everything else fans out: the chat model keeps its stream alive
	// while another tab is focused, and screen spinners keep animating.
	return a, a.broadcast(msg)
}

// broadcast forwards a message to the chat model and every screen.
func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	a.chatModel, cmd = a.chatModel.Update(msg)
	cmds = append(cmds, cmd)
	a.wallet, cmd = a.wallet.Update(msg)
	cmds = append(cmds, cmd)
	a.profile, cmd = a.profile.Update(msg)
	cmds = append(cmds, cmd)
	a.insights, cmd = a.insights.Update(msg)
	cmds = append(cmds, cmd)
	a.settings, cmd = a.settings.Update(msg)
	cmds = append(cmds, cmd)

	return tea.Batch(cmds...)
}

func (a *App) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	a.width = msg.Width
	a.height = msg.Height
	a.theme.SetSize(msg.Width, msg.Height)
	a.header.SetWidth(msg.Width)
	a.statusBar.SetWidth(msg.Width)

	content := a.contentHeight()
	a.chatModel.SetSize(msg.Width, content)
	a.wallet.SetSize(msg.Width, content)
	a.profile.SetSize(msg.Width, content)
	a.insights.SetSize(msg.Width, content)
	a.settings.SetSize(msg.Width, content)
	return a, nil
}

// contentHeight is the terminal height minus the header and status bar.
func (a *App) contentHeight() int {
	chrome := lipgloss.Height(a.header.View()) + lipgloss.Height(a.statusBar.View())
	h := a.height - chrome
	if h < 1 {
		h = 1
	}
	return h
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		// First ctrl+c cancels an in-flight reply, second quits.
		if a.activeTab == components.TabChat && a.chatModel.Streaming() {
			var cmd tea.Cmd
			a.chatModel, cmd = a.chatModel.Update(tea.KeyMsg{Type: tea.KeyEsc})
			return a, cmd
		}
		return a, tea.Quit

	case "tab":
		// The wallet lock prompt uses tab to move between its inputs.
		if a.activeTab == components.TabWallet && a.wallet.Locked() {
			break
		}
		return a, a.switchTab(a.nextTab(1))

	case "shift+tab":
		if a.activeTab == components.TabWallet && a.wallet.Locked() {
			break
		}
		return a, a.switchTab(a.nextTab(-1))
	}

	// Function keys jump straight to a screen regardless of focus.
	switch msg.String() {
	case "f1":
		return a, a.switchTab(components.TabChat)
	case "f2":
		return a, a.switchTab(components.TabWallet)
	case "f3":
		return a, a.switchTab(components.TabProfile)
	case "f4":
		return a, a.switchTab(components.TabInsights)
	case "f5":
		return a, a.switchTab(components.TabSettings)
	}

	// Keys go only to the focused screen.
	var cmd tea.Cmd
	switch a.activeTab {
	case components.TabChat:
		a.chatModel, cmd = a.chatModel.Update(msg)
	case components.TabWallet:
		a.wallet, cmd = a.wallet.Update(msg)
	case components.TabProfile:
		a.profile, cmd = a.profile.Update(msg)
	case components.TabInsights:
		a.insights, cmd = a.insights.Update(msg)
	case components.TabSettings:
		a.settings, cmd = a.settings.Update(msg)
	}
	return a, cmd
}

func (a *App) nextTab(dir int) components.Tab {
	n := int(components.TabSettings) + 1
	return components.Tab((int(a.activeTab) + dir + n) % n)
}

// switchTab focuses a screen and lets it refresh itself.
func (a *App) switchTab(tab components.Tab) tea.Cmd {
	if tab == a.activeTab {
		return nil
	}
	a.activeTab = tab
	a.header.SetActiveTab(tab)
	a.statusBar.SetShortcuts(shortcutsFor(tab))

	switch tab {
	case components.TabWallet:
		return a.wallet.Focus()
	case components.TabProfile:
		return a.profile.Focus()
	case components.TabInsights:
		return a.insights.Focus()
	case components.TabSettings:
		return a.settings.Focus()
	}
	return nil
}

// refreshActive reloads the focused screen's data on the periodic tick.
func (a *App) refreshActive() tea.Cmd {
	switch a.activeTab {
	case components.TabWallet:
		if !a.wallet.Locked() {
			return a.wallet.Refresh()
		}
	case components.TabProfile:
		return a.profile.Refresh()
	case components.TabInsights:
		return a.insights.Refresh()
	}
	return nil
}

// handleSyncEvent refreshes whichever screen a server event touched.
func (a *App) handleSyncEvent(ev syncsvc.Event) (tea.Model, tea.Cmd) {
	a.statusBar.SetConnected(true)

	switch ev.Type {
	case syncsvc.EventWalletUpdated:
		if !a.wallet.Locked() {
			return a, a.wallet.Refresh()
		}
	case syncsvc.EventProfileUpdated:
		return a, a.profile.Refresh()
	case syncsvc.EventMetricsUpdated:
		return a, a.insights.Refresh()
	case syncsvc.EventMessageCreated:
		if a.activeTab != components.TabChat {
			return a, a.toast.Show(components.ToastInfo, "New activity in your conversation")
		}
	}
	return a, nil
}

// handleConfigReload applies an edited config file to the live session.
// The config pointer is shared with every screen, so copying through it
// updates them all.
func (a *App) handleConfigReload(next *config.Config) (tea.Model, tea.Cmd) {
	themeChanged := next.UI.Theme != a.cfg.UI.Theme
	*a.cfg = *next
	if themeChanged {
		*a.theme = *styles.NewTheme(styles.Mode(a.cfg.UI.Theme))
	}
	return a, a.toast.Show(components.ToastInfo, "Configuration reloaded")
}

func (a *App) handleSettingsSaved(msg screens.SettingsSavedMsg) (tea.Model, tea.Cmd) {
	a.settings.Saved(msg)
	if msg.Err != nil {
		return a, a.toast.Show(components.ToastError, "Could not save preferences")
	}
	if msg.ThemeChanged {
		// Theme is injected by pointer, so refilling it restyles every
		// screen without rebuilding them.
		*a.theme = *styles.NewTheme(styles.Mode(a.cfg.UI.Theme))
	}
	return a, a.toast.Show(components.ToastSuccess, "Preferences saved")
}

// routeFetchError delivers a fetch failure to its screen and raises a
// toast when the failing screen is not the one on display.
func (a *App) routeFetchError(msg screens.FetchErrorMsg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg.Screen {
	case "wallet":
		a.wallet, cmd = a.wallet.Update(msg)
	case "profile":
		a.profile, cmd = a.profile.Update(msg)
	case "insights":
		a.insights, cmd = a.insights.Update(msg)
	}
	cmds = append(cmds, cmd)

	if screenTab(msg.Screen) != a.activeTab {
		cmds = append(cmds, a.toast.Show(components.ToastError, "Background refresh failed"))
	}
	return tea.Batch(cmds...)
}

func screenTab(name string) components.Tab {
	switch name {
	case "wallet":
		return components.TabWallet
	case "profile":
		return components.TabProfile
	case "insights":
		return components.TabInsights
	case "settings":
		return components.TabSettings
	}
	return components.TabChat
}

// View renders header, active screen, toast, and status bar.
func (a *App) View() string {
	var content string
	switch a.activeTab {
	case components.TabChat:
		content = a.chatModel.View()
	case components.TabWallet:
		content = a.wallet.View()
	case components.TabProfile:
		content = a.profile.View()
	case components.TabInsights:
		content = a.insights.View()
	case components.TabSettings:
		content = a.settings.View()
	}

	sections := []string{a.header.View(), content}
	if a.toast.Visible() {
		sections = append(sections, a.toast.View())
	}
	sections = append(sections, a.statusBar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// shortcutsFor returns the status-bar key hints for a screen.
func shortcutsFor(tab components.Tab) []components.Shortcut {
	common := []components.Shortcut{
		{Key: "tab", Desc: "next screen"},
		{Key: "ctrl+c", Desc: "quit"},
	}
	switch tab {
	case components.TabChat:
		return append([]components.Shortcut{
			{Key: "enter", Desc: "send"},
			{Key: "ctrl+n", Desc: "new chat"},
			{Key: "ctrl+s", Desc: "sessions"},
		}, common...)
	case components.TabWallet:
		return append([]components.Shortcut{
			{Key: "r", Desc: "refresh"},
		}, common...)
	case components.TabProfile:
		return append([]components.Shortcut{
			{Key: "e", Desc: "edit name"},
			{Key: "r", Desc: "refresh"},
		}, common...)
	case components.TabInsights:
		return append([]components.Shortcut{
			{Key: "w", Desc: "window"},
			{Key: "r", Desc: "refresh"},
		}, common...)
	case components.TabSettings:
		return append([]components.Shortcut{
			{Key: "enter", Desc: "change"},
		}, common...)
	}
	return common
}
