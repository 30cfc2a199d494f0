package connectors

import (
	"strings"

	"reponex/internal"
)

type MailConnector interface {
	FetchInbox(label string, max int) ([]internal.FetchedMailMessage, error)
}

// SupplierFromAddress derives a supplier identity from a sender address:
// the first domain label, e.g. "Precios <precios@drogueriasur.com>" ->
// "drogueriasur". Empty when no address can be extracted.
func SupplierFromAddress(from string) string {
	s := from
	if i := strings.Index(s, "<"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.Trim(s, "<> ")
	at := strings.Index(s, "@")
	if at < 0 {
		return ""
	}
	s = s[at+1:]
	if i := strings.Index(s, "."); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(s)
}

// SenderAllowed reports whether a sender matches the supplier allow-list.
// Entries are full addresses or domain fragments, matched case-insensitively
// as substrings. An empty list allows every sender.
func SenderAllowed(from string, allow []string) bool {
	if len(allow) == 0 {
		return true
	}
	lf := strings.ToLower(from)
	for _, entry := range allow {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry != "" && strings.Contains(lf, entry) {
			return true
		}
	}
	return false
}
