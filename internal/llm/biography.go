// Person biography generation via Haiku.
package llm

import (
	"fmt"
	"strings"
)

// BiographyContext holds the data needed to generate a person's biography,
// built by the caller from a simworld.Person and its event-log history.
type BiographyContext struct {
	Name          string
	Role          string
	Faction       string
	Settlement    string
	Prestige      float64
	Literacy      float64
	Relationships []string // e.g. "ally of Aldric Voss", "at war with Brenna Thorn"
	NotableEvents []string // descriptions of events this person participated in
}

// GenerateBiography creates a Haiku-generated biography for a person.
func GenerateBiography(client *Client, ctx BiographyContext) (string, error) {
	if client == nil || !client.Enabled() {
		return "", fmt.Errorf("LLM client not configured")
	}

	var details []string
	details = append(details, fmt.Sprintf("Name: %s", ctx.Name))
	details = append(details, fmt.Sprintf("Role: %s", ctx.Role))
	details = append(details, fmt.Sprintf("Prestige: %.2f", ctx.Prestige))
	details = append(details, fmt.Sprintf("Literacy: %.2f", ctx.Literacy))

	if ctx.Faction != "" {
		details = append(details, fmt.Sprintf("House: %s", ctx.Faction))
	}
	if ctx.Settlement != "" {
		details = append(details, fmt.Sprintf("Settlement: %s", ctx.Settlement))
	}
	if len(ctx.Relationships) > 0 {
		details = append(details, "Key relationships: "+strings.Join(ctx.Relationships, "; "))
	}
	if len(ctx.NotableEvents) > 0 {
		details = append(details, "Notable deeds: "+strings.Join(ctx.NotableEvents, "; "))
	}

	system := `You are the court chronicler of a low-fantasy historical world of feuding realms, guilds, and faiths.

Write a brief biography (150-250 words) of this figure in period-appropriate prose. Include their station, temperament, notable deeds, and place in the community. Be vivid but concise. Do not break character or reference the simulation.`

	prompt := fmt.Sprintf("Write a biography for this figure of the realm:\n\n%s", strings.Join(details, "\n"))

	return client.Complete(system, prompt, 400)
}
