package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/core-coin/ostiarius/internal/models"
)

// Callback data.
const (
	cbPaymentConfirm     = "payment_confirm"
	cbEditCard           = "edit_card"
	cbEditPhone          = "edit_phone"
	cbEditAmount         = "edit_amount"
	cbEditStartMessage   = "edit_start_message"
	cbDoEditStartMessage = "do_edit_start_message"
	cbResetStartMessage  = "reset_start_message"
	cbBackToAdmin        = "back_to_admin"
	cbManageAdmins       = "manage_admins"
	cbAddAdmin           = "add_admin"
	cbPendingPayments    = "pending_payments"
	cbCancel             = "cancel"
	cbNoop               = "noop"

	cbApprovePrefix         = "approve_"
	cbRejectPrefix          = "reject_"
	cbDeleteAdminPrefix     = "deladmin_"
	cbConfirmDeleteAdminPfx = "confirmdeladmin_"
)

func paymentConfirmKeyboard() [][]models.Action {
	return [][]models.Action{{{Text: "✅ I have paid", Data: cbPaymentConfirm}}}
}

func reviewKeyboard(paymentID uint) [][]models.Action {
	return [][]models.Action{{
		{Text: "✅ Approve", Data: fmt.Sprintf("%s%d", cbApprovePrefix, paymentID)},
		{Text: "❌ Reject", Data: fmt.Sprintf("%s%d", cbRejectPrefix, paymentID)},
	}}
}

func adminPanelKeyboard() [][]models.Action {
	return [][]models.Action{
		{{Text: "💳 Card number", Data: cbEditCard}},
		{{Text: "📱 Phone number", Data: cbEditPhone}},
		{{Text: "💰 Amount", Data: cbEditAmount}},
		{{Text: "📝 /start message", Data: cbEditStartMessage}},
		{{Text: "👥 Manage admins", Data: cbManageAdmins}},
		{{Text: "📥 Pending payments", Data: cbPendingPayments}},
	}
}

func cancelKeyboard() [][]models.Action {
	return [][]models.Action{{{Text: "❌ Cancel", Data: cbCancel}}}
}

func startMessageKeyboard() [][]models.Action {
	return [][]models.Action{
		{{Text: "✏️ Edit", Data: cbDoEditStartMessage}},
		{{Text: "🔄 Reset to default", Data: cbResetStartMessage}},
		{{Text: "◀️ Back", Data: cbBackToAdmin}},
	}
}

// rosterKeyboard lists admins. The primary admin is shown but cannot be selected for removal.
func rosterKeyboard(admins []*models.Admin, primaryID int64) [][]models.Action {
	rows := make([][]models.Action, 0, len(admins)+2)
	for _, a := range admins {
		if a.TelegramID == primaryID {
			rows = append(rows, []models.Action{{Text: "👑 " + a.Label() + " (primary)", Data: cbNoop}})
			continue
		}
		rows = append(rows, []models.Action{{
			Text: "🗑 Remove " + a.Label(),
			Data: cbDeleteAdminPrefix + strconv.FormatInt(a.TelegramID, 10),
		}})
	}
	rows = append(rows,
		[]models.Action{{Text: "➕ Add admin", Data: cbAddAdmin}},
		[]models.Action{{Text: "◀️ Back", Data: cbBackToAdmin}},
	)
	return rows
}

func confirmDeleteAdminKeyboard(telegramID int64) [][]models.Action {
	return [][]models.Action{{
		{Text: "✅ Yes, remove", Data: cbConfirmDeleteAdminPfx + strconv.FormatInt(telegramID, 10)},
		{Text: "❌ Cancel", Data: cbManageAdmins},
	}}
}

// parseID extracts the numeric suffix of callback data.
func parseID(data, prefix string) (int64, error) {
	if !strings.HasPrefix(data, prefix) {
		return 0, fmt.Errorf("callback %q has no prefix %q", data, prefix)
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("callback %q: %w", data, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("callback %q: id must be positive", data)
	}
	return id, nil
}
