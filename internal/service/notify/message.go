package notify

import (
	"fmt"
	"html"
	"strings"

	"github.com/scoutreport/activityform/internal/model"
)

// ActivitySummary renders a new activity as a Telegram HTML message.
func ActivitySummary(a *model.Activity) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📌 <b>Activity report #%d submitted</b>\n", a.ID)
	line(&b, "Date", a.Date)
	line(&b, "Group", a.GroupName)
	line(&b, "Activity type", a.ActivityType)
	line(&b, "Place", a.Place)
	line(&b, "Time", a.TimeOfDay)
	fmt.Fprintf(&b, "Leaders: %d\n", a.Leaders)
	fmt.Fprintf(&b, "Cubs: %d\n", a.Cubs)
	fmt.Fprintf(&b, "Scouts: %d\n", a.Scouts)
	fmt.Fprintf(&b, "Rovers: %d\n", a.Rovers)
	fmt.Fprintf(&b, "Non-scouts: %d\n", a.NonScouts)
	line(&b, "Occasion", a.Occasion)

	b.WriteString("Paragraphs:\n")
	for _, p := range a.ParagraphList() {
		if strings.TrimSpace(p) == "" {
			continue
		}
		fmt.Fprintf(&b, "- %s\n", html.EscapeString(p))
	}

	fmt.Fprintf(&b, "Cost: %d\n", a.Cost)
	return b.String()
}

// UnreviewedDigest lists activities still waiting for review.
func UnreviewedDigest(activities []*model.Activity) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🗂 <b>%d activities awaiting review</b>\n", len(activities))
	for _, a := range activities {
		fmt.Fprintf(&b, "#%d · %s · %s · %s\n",
			a.ID,
			html.EscapeString(a.Date),
			html.EscapeString(a.GroupName),
			html.EscapeString(a.ActivityType),
		)
	}
	return b.String()
}

func line(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "%s: %s\n", label, html.EscapeString(value))
}
