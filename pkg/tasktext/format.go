package tasktext

import (
	"fmt"
	"strings"
)

// DefaultTrackerBaseURL is used to link ticket ids when no original URL is known.
const DefaultTrackerBaseURL = "https://jira.company.com/browse/"

var markdownEscaper = strings.NewReplacer("_", `\_`, "*", `\*`, "[", `\[`, "`", "\\`")

// Formatter renders labels for Telegram legacy Markdown.
type Formatter struct {
	TrackerBaseURL string
}

// NewFormatter returns a Formatter; an empty base URL selects the default.
func NewFormatter(trackerBaseURL string) Formatter {
	if trackerBaseURL == "" {
		trackerBaseURL = DefaultTrackerBaseURL
	}
	if !strings.HasSuffix(trackerBaseURL, "/") {
		trackerBaseURL += "/"
	}
	return Formatter{TrackerBaseURL: trackerBaseURL}
}

// Format renders label in bold. Ticket labels become plain links when the
// original message is known: to the URL it contained, else to the tracker base
// URL. Legacy Markdown cannot nest a link inside bold.
func (f Formatter) Format(label string, isTicket bool, originalMessage string) string {
	if !isTicket {
		return fmt.Sprintf("*%s*", EscapeMarkdown(label))
	}

	ticket, ok := TicketID(label)
	if !ok {
		return fmt.Sprintf("*%s*", EscapeMarkdown(label))
	}
	if originalMessage == "" {
		return fmt.Sprintf("*%s*", ticket)
	}

	url, ok := TicketURL(originalMessage)
	if !ok {
		base := f.TrackerBaseURL
		if base == "" {
			base = DefaultTrackerBaseURL
		}
		url = base + ticket
	}
	return fmt.Sprintf("[%s](%s)", ticket, url)
}

// FormatForDisplay formats with the default tracker base URL.
func FormatForDisplay(label string, isTicket bool, originalMessage string) string {
	return NewFormatter("").Format(label, isTicket, originalMessage)
}

// IsTicketLabel reports whether a stored label is a bare ticket id.
func IsTicketLabel(label string) bool {
	return ticketLabelRe.MatchString(label)
}

// EscapeMarkdown escapes Telegram legacy Markdown control characters.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
