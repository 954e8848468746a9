// Major event narration — converts key world events into prose via Haiku.
// Each call is one API request, limited only by the client's per-minute cap.
package llm

import (
	"fmt"
)

// NarrateEvent creates period-appropriate prose for a major world event.
// Returns empty string on failure (non-fatal).
func NarrateEvent(client *Client, eventDesc string, worldContext string) (string, error) {
	if !client.Enabled() {
		return "", fmt.Errorf("LLM client not configured")
	}

	system := `You are the court chronicler of a low-fantasy historical world of feuding realms, guilds, and faiths, writing the way a scribe would set events down for posterity before the age of reliable record-keeping.

Narrate this event in 2-3 sentences of period-appropriate prose. Be vivid but concise. Do not break character or reference the simulation.`

	prompt := fmt.Sprintf("World context: %s\n\nEvent to narrate: %s", worldContext, eventDesc)

	return client.Complete(system, prompt, 200)
}
