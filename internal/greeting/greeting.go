package greeting

import (
	"html"
	"time"
)

// DefaultStartMessage is seeded on first start and restored by the admin reset action.
const DefaultStartMessage = "👋 Hello, <b>{first_name}</b>!\n\n" +
	"{sub_info}\n\n" +
	"📋 <b>Payment details:</b>\n\n" +
	"💳 <b>Card number:</b>\n<code>{card_number}</code>\n\n" +
	"📱 <b>Phone number:</b>\n<code>{phone_number}</code>\n\n" +
	"💰 <b>Amount due:</b> <b>{amount} ₽</b>\n\n" +
	"After paying, press the button below and send a screenshot or photo of the receipt."

const dateLayout = "02.01.2006 15:04 UTC"

// SubscriptionInfo describes the user's current grant for the {sub_info} placeholder.
func SubscriptionInfo(until *time.Time, now time.Time) string {
	if until == nil || !until.After(now) {
		return "ℹ️ You have no active subscription."
	}
	return "✅ Your subscription is active until <b>" + FormatDate(*until) + "</b>."
}

// FormatDate renders a subscription date the way every user-facing message shows it.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// Escape makes user-controlled text safe for HTML parse mode.
func Escape(s string) string {
	return html.EscapeString(s)
}
