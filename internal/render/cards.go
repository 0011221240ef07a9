package render

import (
	"fmt"
	"strings"

	"github.com/cdeia/observaciones/internal/form"
	"github.com/cdeia/observaciones/internal/models"
	"github.com/charmbracelet/lipgloss"
)

const cardWidth = 76

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("25")).
			Padding(0, 1).
			MarginBottom(1)

	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderLeft(true).
			BorderForeground(lipgloss.Color("33")).
			Padding(0, 1).
			Width(cardWidth)

	cardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	statsStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	elapsedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
)

// Card renders one proposal. n is 1-based. The footer counts the same plain
// text the card shows.
func Card(n int, proposal string) string {
	text := PlainText(proposal)
	body := lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render(fmt.Sprintf("Propuesta %d", n)),
		text,
		statsStyle.Render(StatsLine(form.Stats(text))),
	)
	return cardStyle.Render(body)
}

// ProposalStats counts words and characters of the proposal as displayed,
// after markdown markup has been removed.
func ProposalStats(proposal string) form.TextStats {
	return form.Stats(PlainText(proposal))
}

func StatsLine(stats form.TextStats) string {
	return fmt.Sprintf("%d palabras · %d caracteres", stats.Words, stats.Chars)
}

// Cards renders the significant proposals of resp with a header and the
// elapsed time.
func Cards(resp *models.ObservationResponse) string {
	displayed := resp.Displayed()

	parts := []string{headerStyle.Render(fmt.Sprintf("Resultados de la generación: %d propuestas", len(displayed)))}
	for i, proposal := range displayed {
		parts = append(parts, Card(i+1, proposal))
	}
	if resp != nil && resp.Elapsed > 0 {
		parts = append(parts, elapsedStyle.Render("Tiempo de respuesta: "+FormatElapsed(resp.Elapsed)))
	}
	return strings.Join(parts, "\n")
}
