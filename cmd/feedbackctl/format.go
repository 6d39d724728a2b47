package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
	"unicode"

	"github.com/NomadCrew/feedback-service/types"
)

// now is replaced in tests.
var now = time.Now

func printList(w io.Writer, items []types.Feedback, at time.Time) error {
	count := len(items)
	noun := "responses"
	if count == 1 {
		noun = "response"
	}
	fmt.Fprintf(w, "%d %s\n", count, noun)
	if count == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\t\tNAME\tWHEN\tMESSAGE")
	for _, fb := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			fb.ID, initials(fb.Name), fb.Name, relativeTime(fb.CreatedAt, at), truncate(fb.Message, 60))
	}
	return tw.Flush()
}

func printDetail(w io.Writer, fb types.Feedback, at time.Time) {
	fmt.Fprintf(w, "[%s] %s  (%s)\n", initials(fb.Name), fb.Name, relativeTime(fb.CreatedAt, at))
	fmt.Fprintf(w, "  id:      %s\n", fb.ID)
	if !fb.UpdatedAt.Equal(fb.CreatedAt) {
		fmt.Fprintf(w, "  edited:  %s\n", relativeTime(fb.UpdatedAt, at))
	}
	fmt.Fprintf(w, "  message: %s\n", fb.Message)
}

// initials returns the first letter of the first and last word of name,
// upper-cased, or "?" for a blank name.
func initials(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return "?"
	}
	first := firstRune(words[0])
	if len(words) == 1 {
		return string(unicode.ToUpper(first))
	}
	last := firstRune(words[len(words)-1])
	return string([]rune{unicode.ToUpper(first), unicode.ToUpper(last)})
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return '?'
}

// relativeTime renders t relative to now: "Just now", "N mins ago",
// "N hours ago", "N days ago" within a week, then a short date.
func relativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	diff := now.Sub(t)
	mins := int(diff / time.Minute)
	hours := int(diff / time.Hour)
	days := int(diff / (24 * time.Hour))

	switch {
	case mins < 1:
		return "Just now"
	case mins < 60:
		return plural(mins, "min") + " ago"
	case hours < 24:
		return plural(hours, "hour") + " ago"
	case days < 7:
		return plural(days, "day") + " ago"
	}

	local := t.In(now.Location())
	if local.Year() != now.Year() {
		return local.Format("Jan 2, 2006")
	}
	return local.Format("Jan 2")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
