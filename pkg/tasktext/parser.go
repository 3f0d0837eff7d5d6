// Package tasktext implements the fixed grammar of task messages:
// an optional leading "HH:MM " start time, a label, an optional " - " comment,
// and issue-tracker ticket references either bare (PROJ-123) or as a
// .../browse/PROJ-123 URL.
package tasktext

import (
	"regexp"
	"strconv"
	"strings"

	"time-tracking-bot/pkg/datemath"
)

// CommentSeparator splits a label from its comment.
const CommentSeparator = " - "

var (
	leadingTimeRe = regexp.MustCompile(`^(\d{1,2})[:_](\d{2})\s+`)
	ticketURLRe   = regexp.MustCompile(`[A-Za-z][A-Za-z0-9+.\-]*://[^/\s]+/browse/([A-Z]+-\d+)`)
	// Go's \b is ASCII-only; a ticket must not touch a letter of any script.
	ticketRe      = regexp.MustCompile(`(?:^|[^\p{L}\p{N}_])([A-Z]+-\d+)(?:$|[^\p{L}\p{N}_])`)
	ticketLabelRe = regexp.MustCompile(`^[A-Z]+-\d+$`)
)

// Parsed is the result of parsing a task message. Empty Comment means none.
type Parsed struct {
	Label    string
	Comment  string
	IsTicket bool
}

// ExtractLeadingTime matches "14:30 " or "14_30 " at the start of the trimmed
// text. On a match it returns the time and the trimmed remainder; otherwise
// it returns false and text unmodified.
func ExtractLeadingTime(text string) (datemath.TimeOfDay, bool, string) {
	trimmed := strings.TrimSpace(text)
	loc := leadingTimeRe.FindStringSubmatchIndex(trimmed)
	if loc == nil {
		return datemath.TimeOfDay{}, false, text
	}

	hour, _ := strconv.Atoi(trimmed[loc[2]:loc[3]])
	minute, _ := strconv.Atoi(trimmed[loc[4]:loc[5]])
	tod, err := datemath.NewTimeOfDay(hour, minute)
	if err != nil {
		return datemath.TimeOfDay{}, false, text
	}
	return tod, true, strings.TrimSpace(trimmed[loc[1]:])
}

// Parse splits a message (without a leading time) into label and comment.
// For non-empty input the label is never empty.
func Parse(text string) Parsed {
	text = strings.TrimSpace(text)
	if text == "" {
		return Parsed{}
	}

	if ticket, ok := TicketID(text); ok {
		return Parsed{Label: ticket, Comment: ticketComment(text), IsTicket: true}
	}

	label, comment, found := strings.Cut(text, CommentSeparator)
	if !found {
		return Parsed{Label: text}
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return Parsed{Label: text}
	}
	return Parsed{Label: label, Comment: strings.TrimSpace(comment)}
}

func ticketComment(text string) string {
	if loc := ticketURLRe.FindStringIndex(text); loc != nil && loc[0] == 0 {
		if _, after, found := strings.Cut(text, CommentSeparator); found {
			return strings.TrimSpace(after)
		}
		_, after, _ := strings.Cut(text, " ")
		return strings.TrimSpace(after)
	}

	if _, after, found := strings.Cut(text, CommentSeparator); found {
		return strings.TrimSpace(after)
	}

	m := ticketRe.FindStringSubmatchIndex(text)
	if m == nil {
		return ""
	}
	rest := strings.TrimSpace(text[m[3]:])
	return strings.TrimSpace(strings.TrimPrefix(rest, "- "))
}

// TicketID returns the first ticket id in text, preferring the URL form.
func TicketID(text string) (string, bool) {
	if m := ticketURLRe.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	if m := ticketRe.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}

// TicketURL returns the first full .../browse/TICKET-ID URL in text.
func TicketURL(text string) (string, bool) {
	if u := ticketURLRe.FindString(text); u != "" {
		return u, true
	}
	return "", false
}
