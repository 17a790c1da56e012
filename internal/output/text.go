package output

import (
	"fmt"
	"io"
	"strings"
)

// TextAdapter writes a plain report: ranking, then guide, then ads.
type TextAdapter struct{}

func (a *TextAdapter) Name() string {
	return "text"
}

func (a *TextAdapter) Write(w io.Writer, snap Snapshot) error {
	var b strings.Builder
	s := snap.State

	fmt.Fprintf(&b, "Session %s (%s)\n\n", s.SessionID, s.Phase)

	b.WriteString("Top competitor ads\n")
	if len(s.RankedAds) == 0 {
		b.WriteString("  (none)\n")
	}
	for i, ad := range s.RankedAds {
		fmt.Fprintf(&b, "%d. [%d days, since %s] %s\n", i+1, ad.ActiveDays, ad.StartDate.Format("2006-01-02"), ad.Text)
	}

	if s.HasGuide() {
		b.WriteString("\nStrategy guide\n\n")
		b.WriteString(strings.TrimSpace(s.StrategyGuide))
		b.WriteString("\n")
	}
	if s.HasAds() {
		fmt.Fprintf(&b, "\nGenerated ads for %s\n\n", s.Brand)
		b.WriteString(strings.TrimSpace(s.GeneratedAds))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
