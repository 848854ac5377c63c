// Package whatsapp builds order messages and wa.me deep links. Nothing here
// sends anything; the link is handed to the user's own messaging client and
// the user confirms the send there.
package whatsapp

import (
	"net/url"
	"strings"

	"github.com/sunilvk/orderflow/internal/model"
)

// ComposeMessage renders the order message for one vendor. Item text passes
// through verbatim; there is no truncation or escaping.
func ComposeMessage(vendorName string, items []model.LineItem) string {
	var b strings.Builder
	b.WriteString("Hi ")
	b.WriteString(vendorName)
	b.WriteString(",\n\nOrder for tomorrow:\n\n")

	for _, item := range items {
		b.WriteString("• ")
		b.WriteString(item.Name)
		if item.Quantity != "" {
			b.WriteString(" - ")
			b.WriteString(item.Quantity)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nThanks!")
	return b.String()
}

// Link builds a https://wa.me/ deep link for the given phone and message.
//
// All non-digit characters are stripped from the phone. The country code is
// prepended only when the remaining digits do not already start with it AND
// are exactly 10 long; anything else (too short, too long, already prefixed)
// passes through unvalidated, matching what vendors have in the books.
func Link(phone, message, countryCode string) string {
	digits := stripNonDigits(phone)
	if !strings.HasPrefix(digits, countryCode) && len(digits) == 10 {
		digits = countryCode + digits
	}
	return "https://wa.me/" + digits + "?text=" + encodeQueryComponent(message)
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// encodeQueryComponent percent-encodes per RFC 3986. wa.me expects %20 for
// spaces, not the form-encoding '+' that url.QueryEscape emits.
func encodeQueryComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
