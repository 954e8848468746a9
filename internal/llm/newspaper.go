// Newspaper generation — converts recent world events into narrative prose.
package llm

import (
	"fmt"
	"strings"
	"time"
)

// NewspaperData holds the raw data needed to generate a newspaper, built by
// the caller from the current eventlog.Log and simworld.World.
type NewspaperData struct {
	ClockString string
	Population  int
	Settlements int
	TotalWealth uint64

	// Recent events by category (rendered event descriptions, newest last).
	Deaths    []string
	Births    []string
	Crimes    []string
	Social    []string
	Political []string
	Weather   string

	// Top settlements by population.
	TopSettlements []SettlementSummary

	// Notable persons.
	NotablePersons []PersonSummary

	// Faction dynamics.
	FactionNews []string
}

// SettlementSummary is a brief description of a settlement for the newspaper.
type SettlementSummary struct {
	Name       string
	Population uint64
	Treasury   uint64
	Governance string
	Prosperity float64
}

// PersonSummary is a brief description of a notable person.
type PersonSummary struct {
	Name       string
	Role       string
	Settlement string
	Faction    string
	Prestige   float64
}

// Newspaper holds a generated newspaper issue.
type Newspaper struct {
	GeneratedAt time.Time `json:"generated_at"`
	ClockString string    `json:"clock"`
	Content     string    `json:"content"`
}

// GenerateNewspaper creates a digest of recent world events using Haiku,
// falling back to a plain-text digest when the LLM client is unavailable or
// the API call fails.
func GenerateNewspaper(client *Client, data *NewspaperData) (*Newspaper, error) {
	if !client.Enabled() {
		return &Newspaper{
			GeneratedAt: time.Now(),
			ClockString: data.ClockString,
			Content:     generateFallbackNewspaper(data),
		}, nil
	}

	system := `You are the editor of a realm's chronicle broadsheet — a low-fantasy historical world of feuding lords, guilds, and faiths. Write in an engaging, period-appropriate style covering the realm's recent fortunes: deaths, births, crime, politics, and the standing of its settlements and great houses. Keep it under 600 words. Do not break character or reference the simulation.`

	prompt := buildNewspaperPrompt(data)

	content, err := client.Complete(system, prompt, 1000)
	if err != nil {
		return &Newspaper{
			GeneratedAt: time.Now(),
			ClockString: data.ClockString,
			Content:     generateFallbackNewspaper(data),
		}, nil
	}

	return &Newspaper{
		GeneratedAt: time.Now(),
		ClockString: data.ClockString,
		Content:     content,
	}, nil
}

func buildNewspaperPrompt(data *NewspaperData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write today's edition of the realm chronicle.\n\n")
	fmt.Fprintf(&b, "DATE: %s\n", data.ClockString)
	fmt.Fprintf(&b, "REALM: %d souls across %d settlements. Total treasury: %d crowns.\n\n", data.Population, data.Settlements, data.TotalWealth)

	if len(data.Deaths) > 0 {
		fmt.Fprintf(&b, "RECENT DEATHS:\n")
		for i, d := range data.Deaths {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&b, "- %s\n", d)
		}
		b.WriteString("\n")
	}

	if len(data.Births) > 0 {
		fmt.Fprintf(&b, "BIRTHS: %d new citizens\n\n", len(data.Births))
	}

	if len(data.Crimes) > 0 {
		fmt.Fprintf(&b, "CRIME REPORTS:\n")
		for i, c := range data.Crimes {
			if i >= 3 {
				break
			}
			fmt.Fprintf(&b, "- %s\n", c)
		}
		b.WriteString("\n")
	}

	if len(data.Social) > 0 {
		fmt.Fprintf(&b, "SOCIAL NEWS:\n")
		for i, s := range data.Social {
			if i >= 3 {
				break
			}
			fmt.Fprintf(&b, "- %s\n", s)
		}
		b.WriteString("\n")
	}

	if data.Weather != "" {
		fmt.Fprintf(&b, "WEATHER: %s\n\n", data.Weather)
	}

	if len(data.Political) > 0 {
		fmt.Fprintf(&b, "POLITICAL AFFAIRS:\n")
		for i, p := range data.Political {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&b, "- %s\n", p)
		}
		b.WriteString("\n")
	}

	if len(data.FactionNews) > 0 {
		fmt.Fprintf(&b, "HOUSE DYNAMICS:\n")
		for _, fn := range data.FactionNews {
			fmt.Fprintf(&b, "- %s\n", fn)
		}
		b.WriteString("\n")
	}

	if len(data.TopSettlements) > 0 {
		fmt.Fprintf(&b, "SETTLEMENTS OF NOTE:\n")
		for _, s := range data.TopSettlements {
			prosperityDesc := "steady"
			if s.Prosperity > 0.7 {
				prosperityDesc = "thriving"
			} else if s.Prosperity < 0.3 {
				prosperityDesc = "strained"
			}
			fmt.Fprintf(&b, "- %s: pop %d, treasury %d crowns (%s, %s)\n", s.Name, s.Population, s.Treasury, s.Governance, prosperityDesc)
		}
		b.WriteString("\n")
	}

	if len(data.NotablePersons) > 0 {
		fmt.Fprintf(&b, "NOTABLE FIGURES:\n")
		for _, p := range data.NotablePersons {
			fmt.Fprintf(&b, "- %s, %s of %s (prestige %.2f)\n", p.Name, p.Role, p.Settlement, p.Prestige)
		}
	}

	return b.String()
}

func generateFallbackNewspaper(data *NewspaperData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "THE REALM CHRONICLE\n")
	fmt.Fprintf(&b, "====================\n")
	fmt.Fprintf(&b, "%s\n\n", data.ClockString)

	fmt.Fprintf(&b, "POPULATION REPORT\n")
	fmt.Fprintf(&b, "The realm counts %d souls across %d settlements.\n", data.Population, data.Settlements)
	fmt.Fprintf(&b, "Total wealth in circulation: %d crowns.\n\n", data.TotalWealth)

	if len(data.Deaths) > 0 {
		fmt.Fprintf(&b, "OBITUARIES\n")
		for i, d := range data.Deaths {
			if i >= 5 {
				fmt.Fprintf(&b, "...and %d more.\n", len(data.Deaths)-5)
				break
			}
			fmt.Fprintf(&b, "- %s\n", d)
		}
		b.WriteString("\n")
	}

	if len(data.Births) > 0 {
		fmt.Fprintf(&b, "BIRTHS: %d new citizens welcomed.\n\n", len(data.Births))
	}

	if len(data.FactionNews) > 0 {
		fmt.Fprintf(&b, "HOUSE AFFAIRS\n")
		for _, fn := range data.FactionNews {
			fmt.Fprintf(&b, "- %s\n", fn)
		}
		b.WriteString("\n")
	}

	if data.Weather != "" {
		fmt.Fprintf(&b, "WEATHER REPORT\n%s\n\n", data.Weather)
	}

	if len(data.Political) > 0 {
		fmt.Fprintf(&b, "POLITICAL AFFAIRS\n")
		for i, p := range data.Political {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&b, "- %s\n", p)
		}
		b.WriteString("\n")
	}

	if len(data.Crimes) > 0 {
		fmt.Fprintf(&b, "CRIME BLOTTER\n")
		for i, c := range data.Crimes {
			if i >= 3 {
				break
			}
			fmt.Fprintf(&b, "- %s\n", c)
		}
		b.WriteString("\n")
	}

	if len(data.Social) > 0 {
		fmt.Fprintf(&b, "SOCIAL REGISTER\n")
		for i, s := range data.Social {
			if i >= 3 {
				break
			}
			fmt.Fprintf(&b, "- %s\n", s)
		}
		b.WriteString("\n")
	}

	if len(data.TopSettlements) > 0 {
		fmt.Fprintf(&b, "SETTLEMENTS OF NOTE\n")
		for _, s := range data.TopSettlements {
			fmt.Fprintf(&b, "- %s: pop %d, treasury %d crowns (%s)\n", s.Name, s.Population, s.Treasury, s.Governance)
		}
		b.WriteString("\n")
	}

	if len(data.NotablePersons) > 0 {
		fmt.Fprintf(&b, "NOTABLE FIGURES\n")
		for _, p := range data.NotablePersons {
			fmt.Fprintf(&b, "- %s, %s of %s\n", p.Name, p.Role, p.Settlement)
		}
	}

	return b.String()
}
