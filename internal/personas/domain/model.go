package domain

import "time"

// Persona is a user archetype attached to a project, either entered by hand
// (base) or produced by the AI generator.
type Persona struct {
	ID         string     `json:"_id"`
	Name       string     `json:"name"`
	Age        Age        `json:"age"`
	Occupation string     `json:"occupation"`
	Location   string     `json:"location"`
	Background string     `json:"background"`
	Goals      StringList `json:"goals"`
	PainPoints StringList `json:"painPoints"`
	CreatedAt  time.Time  `json:"createdAt"`
	Generated  bool       `json:"generated"`
}

// Input holds the user-editable persona fields. It is the body of a create
// request and the shape the AI service is asked to return.
type Input struct {
	Name       string     `json:"name"`
	Age        Age        `json:"age"`
	Occupation string     `json:"occupation"`
	Location   string     `json:"location"`
	Background string     `json:"background"`
	Goals      StringList `json:"goals"`
	PainPoints StringList `json:"painPoints"`
}

// NewPersona stamps identity and provenance onto in.
func NewPersona(id string, in Input, createdAt time.Time, generated bool) Persona {
	return Persona{
		ID:         id,
		Name:       in.Name,
		Age:        in.Age,
		Occupation: in.Occupation,
		Location:   in.Location,
		Background: in.Background,
		Goals:      in.Goals,
		PainPoints: in.PainPoints,
		CreatedAt:  createdAt,
		Generated:  generated,
	}
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Name       *string     `json:"name,omitempty"`
	Age        *Age        `json:"age,omitempty"`
	Occupation *string     `json:"occupation,omitempty"`
	Location   *string     `json:"location,omitempty"`
	Background *string     `json:"background,omitempty"`
	Goals      *StringList `json:"goals,omitempty"`
	PainPoints *StringList `json:"painPoints,omitempty"`
}

// Apply shallow-merges the patch over p. Identity, creation time and
// provenance never change.
func (pt Patch) Apply(p Persona) Persona {
	if pt.Name != nil {
		p.Name = *pt.Name
	}
	if pt.Age != nil {
		p.Age = *pt.Age
	}
	if pt.Occupation != nil {
		p.Occupation = *pt.Occupation
	}
	if pt.Location != nil {
		p.Location = *pt.Location
	}
	if pt.Background != nil {
		p.Background = *pt.Background
	}
	if pt.Goals != nil {
		p.Goals = *pt.Goals
	}
	if pt.PainPoints != nil {
		p.PainPoints = *pt.PainPoints
	}
	return p
}

// Collection is the per-project pair of persona sequences.
type Collection struct {
	Base      []Persona `json:"base"`
	Generated []Persona `json:"generated"`
}

// All returns base personas followed by generated ones.
func (c Collection) All() []Persona {
	out := make([]Persona, 0, len(c.Base)+len(c.Generated))
	out = append(out, c.Base...)
	return append(out, c.Generated...)
}

// Find searches base first, then generated.
func (c Collection) Find(id string) (Persona, bool) {
	for _, p := range c.Base {
		if p.ID == id {
			return p, true
		}
	}
	for _, p := range c.Generated {
		if p.ID == id {
			return p, true
		}
	}
	return Persona{}, false
}
