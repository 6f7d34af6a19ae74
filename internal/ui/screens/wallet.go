// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screens

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/solace-tui/internal/api"
	"github.com/jeranaias/solace-tui/internal/model"
	"github.com/jeranaias/solace-tui/internal/session"
	"github.com/jeranaias/solace-tui/internal/ui/components"
	"github.com/jeranaias/solace-tui/internal/ui/styles"
)

// transactionPage is how many ledger entries one fetch brings back.
const transactionPage = 20

// =============================================================================
// WALLET SCREEN
// =============================================================================

// Wallet shows the credit balance and ledger. When an app lock is
// enrolled the screen stays behind a passphrase (and optional TOTP)
// prompt until unlocked.
type Wallet struct {
	theme   *styles.Theme
	batcher *api.Batcher
	lock    *session.AppLock

	balance *model.WalletBalance
	txns    []model.Transaction

	spinner components.Spinner
	loading bool
	err     error

	passInput textinput.Model
	codeInput textinput.Model
	focusCode bool
	lockErr   error

	width  int
	height int
}

// NewWallet creates the wallet screen. lock may be nil when the app
// lock is not configured.
func NewWallet(theme *styles.Theme, batcher *api.Batcher, lock *session.AppLock) *Wallet {
	pass := textinput.New()
	pass.Placeholder = "passphrase"
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '*'
	pass.CharLimit = 128
	pass.Focus()

	code := textinput.New()
	code.Placeholder = "6-digit code"
	code.CharLimit = 6

	return &Wallet{
		theme:     theme,
		batcher:   batcher,
		lock:      lock,
		spinner:   components.NewRefreshSpinner(),
		passInput: pass,
		codeInput: code,
	}
}

// SetSize resizes the screen.
func (w *Wallet) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// Locked reports whether the app lock is currently closed.
func (w *Wallet) Locked() bool {
	return w.lock != nil && w.lock.Locked()
}

// Focus is called when the tab gains focus. Behind the lock it shows
// the prompt; otherwise it fetches fresh data.
func (w *Wallet) Focus() tea.Cmd {
	if w.Locked() {
		w.passInput.Reset()
		w.codeInput.Reset()
		w.focusCode = false
		w.lockErr = nil
		return textinput.Blink
	}
	return w.Refresh()
}

// Refresh fetches the balance and ledger through the batch endpoint so
// both reads travel in one request.
func (w *Wallet) Refresh() tea.Cmd {
	if w.loading || w.batcher == nil {
		return nil
	}
	w.loading = true
	w.err = nil

	balanceCh := w.batcher.Enqueue(http.MethodGet, "/v1/wallet", nil)
	txnCh := w.batcher.Enqueue(http.MethodGet,
		fmt.Sprintf("/v1/wallet/transactions?limit=%d", transactionPage), nil)

	fetch := func() tea.Msg {
		var balance model.WalletBalance
		if err := (<-balanceCh).Decode(&balance); err != nil {
			return FetchErrorMsg{Screen: "wallet", Err: err}
		}
		var txns struct {
			Transactions []model.Transaction `json:"transactions"`
		}
		if err := (<-txnCh).Decode(&txns); err != nil {
			return FetchErrorMsg{Screen: "wallet", Err: err}
		}
		return WalletLoadedMsg{Balance: &balance, Transactions: txns.Transactions}
	}

	return tea.Batch(w.spinner.Start(), fetch)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles wallet screen messages.
func (w *Wallet) Update(msg tea.Msg) (*Wallet, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		if w.Locked() {
			return w.updateLockKey(msg)
		}
		if msg.String() == "r" {
			return w, w.Refresh()
		}

	case WalletLoadedMsg:
		w.loading = false
		w.spinner.Stop()
		w.balance = msg.Balance
		w.txns = msg.Transactions
		return w, nil

	case FetchErrorMsg:
		if msg.Screen == "wallet" {
			w.loading = false
			w.spinner.Stop()
			w.err = msg.Err
		}
		return w, nil

	case UnlockedMsg:
		return w, w.Refresh()
	}

	var cmd tea.Cmd
	w.spinner, cmd = w.spinner.Update(msg)
	return w, cmd
}

func (w *Wallet) updateLockKey(msg tea.KeyMsg) (*Wallet, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if w.lock.TOTPEnabled() && !w.focusCode && w.codeInput.Value() == "" {
			w.focusCode = true
			w.passInput.Blur()
			return w, w.codeInput.Focus()
		}
		if err := w.lock.Unlock(w.passInput.Value(), w.codeInput.Value()); err != nil {
			w.lockErr = err
			w.passInput.Reset()
			w.codeInput.Reset()
			w.focusCode = false
			w.codeInput.Blur()
			return w, w.passInput.Focus()
		}
		w.lockErr = nil
		return w, func() tea.Msg { return UnlockedMsg{} }

	case "tab":
		if w.lock.TOTPEnabled() {
			w.focusCode = !w.focusCode
			if w.focusCode {
				w.passInput.Blur()
				return w, w.codeInput.Focus()
			}
			w.codeInput.Blur()
			return w, w.passInput.Focus()
		}
	}

	var cmd tea.Cmd
	if w.focusCode {
		w.codeInput, cmd = w.codeInput.Update(msg)
	} else {
		w.passInput, cmd = w.passInput.Update(msg)
	}
	return w, cmd
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the wallet screen.
func (w *Wallet) View() string {
	if w.Locked() {
		return w.viewLock()
	}
	if w.loading && w.balance == nil {
		return lipgloss.NewStyle().Padding(2).Render(w.spinner.View())
	}
	if w.err != nil && w.balance == nil {
		return w.theme.ErrorBox.Width(w.width - 2).Render(
			styles.RenderError("Could not load wallet") + "\n" +
				w.theme.ErrorMessage.Render(w.err.Error()) + "\n" +
				w.theme.ErrorSuggestion.Render("r to retry"))
	}
	if w.balance == nil {
		return w.theme.WalletLabel.Render("No wallet data yet. Press r to refresh.")
	}

	var b strings.Builder
	b.WriteString(w.viewCard())
	b.WriteString("\n\n")
	b.WriteString(w.viewLedger())
	if w.err != nil {
		b.WriteString("\n")
		b.WriteString(styles.RenderWarning("last refresh failed: " + w.err.Error()))
	}
	return b.String()
}

func (w *Wallet) viewLock() string {
	var b strings.Builder
	b.WriteString(w.theme.LockedNotice.Render("Wallet is locked"))
	b.WriteString("\n\n")
	b.WriteString(w.passInput.View())
	if w.lock.TOTPEnabled() {
		b.WriteString("\n")
		b.WriteString(w.codeInput.View())
	}
	if w.lockErr != nil {
		b.WriteString("\n\n")
		b.WriteString(styles.RenderError(w.lockErr.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(w.theme.SettingHint.Render("enter unlock"))
	return w.theme.WalletCard.Width(minWidth(w.width-2, 50)).Render(b.String())
}

func (w *Wallet) viewCard() string {
	bal := w.balance

	var b strings.Builder
	b.WriteString(w.theme.WalletLabel.Render("Available credits"))
	b.WriteString("\n")
	b.WriteString(w.theme.WalletBalance.Render(bal.FormatCredits()))
	if bal.PendingCents > 0 {
		b.WriteString("\n")
		b.WriteString(w.theme.TransactionPending.Render(
			fmt.Sprintf("%s pending", model.WalletBalance{CreditsCents: bal.PendingCents}.FormatCredits())))
	}
	b.WriteString("\n\n")
	b.WriteString(w.theme.WalletLabel.Render("Plan: "))
	b.WriteString(w.theme.ProfileValue.Render(bal.Tier))
	if !bal.RenewsAt.IsZero() {
		b.WriteString(w.theme.TransactionMeta.Render(
			"  renews " + bal.RenewsAt.Format("Jan 2, 2006")))
	}

	return w.theme.WalletCard.Width(minWidth(w.width-2, 50)).Render(b.String())
}

func (w *Wallet) viewLedger() string {
	var b strings.Builder
	b.WriteString(w.theme.WalletLabel.Render("Recent activity"))
	b.WriteString("\n")

	if len(w.txns) == 0 {
		b.WriteString(w.theme.TransactionMeta.Render("No transactions yet."))
		return b.String()
	}

	for _, txn := range w.txns {
		amountStyle := w.theme.TransactionDebit
		if txn.IsCredit() {
			amountStyle = w.theme.TransactionCredit
		}
		b.WriteString(fmt.Sprintf("%s  %s  %s\n",
			amountStyle.Render(fmt.Sprintf("%9s", txn.FormatAmount())),
			lipgloss.NewStyle().Width(30).Render(txn.Description),
			w.theme.TransactionMeta.Render(txn.CreatedAt.Format("Jan 2"))))
	}
	b.WriteString(w.theme.SettingHint.Render("r refresh"))
	return b.String()
}

func minWidth(a, b int) int {
	if a < b {
		return a
	}
	return b
}
