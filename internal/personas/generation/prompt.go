package generation

import (
	"encoding/json"
	"fmt"

	"github.com/persona-lab/persona-backend/internal/personas/domain"
)

const systemPrompt = `You are a helpful assistant that generates highly contextual personas. ` +
	`Analyze the project description carefully and ensure all generated personas are relevant to that specific context. ` +
	`Return only valid JSON: an object with a "personas" array. ` +
	`Each persona should have: name, age (number), occupation, location, background, goals (array of strings), painPoints (array of strings). ` +
	`Make sure to create diverse but contextually appropriate personas. ` +
	`Use the same language as the project description for all content.`

// basePersonaView is what the model sees of an existing persona; identity
// and bookkeeping fields are left out.
type basePersonaView struct {
	Name       string            `json:"name"`
	Age        domain.Age        `json:"age"`
	Occupation string            `json:"occupation"`
	Location   string            `json:"location"`
	Background string            `json:"background"`
	Goals      domain.StringList `json:"goals"`
	PainPoints domain.StringList `json:"painPoints"`
}

func buildUserPrompt(description string, base []domain.Persona, batchSize int) (string, error) {
	views := make([]basePersonaView, len(base))
	for i, p := range base {
		views[i] = basePersonaView{
			Name:       p.Name,
			Age:        p.Age,
			Occupation: p.Occupation,
			Location:   p.Location,
			Background: p.Background,
			Goals:      p.Goals,
			PainPoints: p.PainPoints,
		}
	}
	encoded, err := json.Marshal(views)
	if err != nil {
		return "", fmt.Errorf("encode base personas: %w", err)
	}

	return fmt.Sprintf(`Project Context: "%s"

Based on the project context above and these %d base personas: %s, generate %d new unique personas that are specifically relevant to this project's context and goals. `+
		`Each persona should be different from the base personas and from each other, but all should be potential users or stakeholders for this specific project. `+
		`Return a JSON array of exactly %d personas under the "personas" key. Respond in the same language as the project description.`,
		description, len(base), encoded, batchSize, batchSize), nil
}
