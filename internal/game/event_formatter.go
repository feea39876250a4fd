package game

import (
	"fmt"
	"strings"

	"github.com/lox/shoecount/internal/deck"
)

// FormatEvent renders an event as a one-line feed entry.
func FormatEvent(event Event) string {
	switch e := event.(type) {
	case ShoeResetEvent:
		return fmt.Sprintf("Shoe reset to %d decks", e.Decks)
	case RoundStartEvent:
		return fmt.Sprintf("Round started. Bet %d", e.Wager)
	case RoundCancelEvent:
		return fmt.Sprintf("Round canceled, %d cards returned", e.Returned)
	case RoundEndEvent:
		return formatRoundEnd(e)
	case CardEvent:
		return formatCard(e)
	case HandActionEvent:
		if e.Detail != "" {
			return fmt.Sprintf("Hand %d: %s (%s)", e.Hand+1, e.Action, e.Detail)
		}
		return fmt.Sprintf("Hand %d: %s", e.Hand+1, e.Action)
	case SettingEvent:
		return fmt.Sprintf("%s set to %s", e.Name, e.Value)
	}
	return string(event.EventType())
}

func formatCard(e CardEvent) string {
	verb := "added"
	if e.Returned {
		verb = "returned"
	}
	switch e.Pile {
	case PlayerPile:
		return fmt.Sprintf("Player card %s to hand %d: %s", verb, e.Hand+1, e.Rank)
	case DealerPile:
		return fmt.Sprintf("Dealer card %s: %s", verb, e.Rank)
	case TablePile:
		return fmt.Sprintf("Table card %s: %s", verb, e.Rank)
	case BurnPile:
		return fmt.Sprintf("Burned card %s: %s", verb, e.Rank)
	}
	return fmt.Sprintf("Card %s: %s", verb, e.Rank)
}

func formatRoundEnd(e RoundEndEvent) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Round resolved. Dealer %s", deck.FormatRanks(e.Record.Dealer))
	for _, d := range e.Record.Details {
		fmt.Fprintf(&sb, " | H%d %s %+d", d.Hand+1, d.Outcome.Label(), d.Net)
	}
	fmt.Fprintf(&sb, " | Net %+d", e.Record.Net)
	return sb.String()
}
