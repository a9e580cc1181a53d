package bot

import (
	"fmt"

	"github.com/core-coin/ostiarius/internal/greeting"
	"github.com/core-coin/ostiarius/internal/models"
)

const (
	textSendProof = "📸 <b>Send a photo or screenshot of the payment</b>\n\n" +
		"We will check it and send you the access link."
	textProofReceived = "✅ <b>Photo received!</b>\n\n" +
		"Your payment has been sent to an administrator for review.\n" +
		"Please wait for confirmation."
	textPhotoExpected = "⚠️ <b>Please send a photo or screenshot of the payment.</b>"
	textTryAgain      = "⚠️ Something went wrong. Please try again later."

	textAdminPanel   = "⚙️ <b>Admin panel</b>\n\nChoose what to edit:"
	textNoAccess     = "No access"
	textCancelled    = "❌ Action cancelled."
	textEnterAdminID = "👤 Send the numeric Telegram ID of the new admin.\n\n" +
		"The user can find it with @userinfobot."

	textNoPending = "📭 No payments are waiting for review."

	textPaymentNotFound  = "Payment not found"
	textAlreadyProcessed = "Payment already processed"
	textFailed           = "Something went wrong"
)

func adminReviewCaption(p *models.Payment) string {
	username := p.User.Handle()
	if username == "" {
		username = "none"
	}
	return fmt.Sprintf("🆕 <b>New payment #%d</b>\n\n"+
		"👤 <b>User:</b> %s\n"+
		"🆔 <b>Username:</b> %s\n"+
		"🔢 <b>Telegram ID:</b> <code>%d</code>",
		p.ID, greeting.Escape(p.User.FullName), greeting.Escape(username), p.User.TelegramID)
}

func pendingText(n int) string {
	return fmt.Sprintf("📥 <b>Payments waiting for review:</b> %d", n)
}

func currentValueText(key, value string) string {
	value = greeting.Escape(value)
	switch key {
	case models.SettingCardNumber:
		return "💳 <b>Current card number:</b>\n<code>" + value + "</code>\n\nSend the new card number:"
	case models.SettingPhoneNumber:
		return "📱 <b>Current phone number:</b>\n<code>" + value + "</code>\n\nSend the new phone number:"
	case models.SettingAmount:
		return "💰 <b>Current amount:</b> " + value + " ₽\n\nSend the new amount (digits only):"
	}
	return value
}

func updatedValueText(key, value string) string {
	value = greeting.Escape(value)
	switch key {
	case models.SettingCardNumber:
		return "✅ <b>Card number updated:</b>\n<code>" + value + "</code>"
	case models.SettingPhoneNumber:
		return "✅ <b>Phone number updated:</b>\n<code>" + value + "</code>"
	case models.SettingAmount:
		return "✅ <b>Amount updated:</b> " + value + " ₽"
	case models.SettingStartMessage:
		return "✅ <b>/start message updated.</b>"
	}
	return "✅ Updated."
}

func invalidValueText(key string) string {
	switch key {
	case models.SettingCardNumber:
		return "⚠️ Enter a card number of 12 to 19 digits."
	case models.SettingPhoneNumber:
		return "⚠️ Enter a valid phone number."
	case models.SettingAmount:
		return "⚠️ Enter a valid number."
	}
	return "⚠️ Invalid value."
}

func startMessageText(current string) string {
	return "📝 <b>Current /start message:</b>\n\n<pre>" + greeting.Escape(current) + "</pre>\n\n" +
		"Placeholders: " + greeting.Escape(greeting.Help())
}

func editStartMessageText() string {
	return "✏️ Send the new /start message. HTML formatting is allowed: " +
		"b, i, u, s, a, code, pre, blockquote and tg-spoiler. Write &amp;lt; &amp;gt; &amp;amp; for &lt; &gt; &amp;.\n\n" +
		"Placeholders: " + greeting.Escape(greeting.Help())
}

func templateErrorText(err error) string {
	return "⚠️ The message was not saved: " + greeting.Escape(err.Error()) + "\n\n" +
		"Allowed placeholders: " + greeting.Escape(greeting.Help())
}

func rosterText(admins []*models.Admin) string {
	return fmt.Sprintf("👥 <b>Admins</b> (%d)\n\nChoose an admin to remove or add a new one:", len(admins))
}
