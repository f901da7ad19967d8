package entities

// FreeTextOptionID is the reserved option identifier for the open answer.
// It never maps to an archetype and always scores zero.
const FreeTextOptionID = "F"

// DefaultOptionPoints is the point value an option carries unless the
// catalog says otherwise.
const DefaultOptionPoints = 2

// Option is a single selectable answer of a question. Options A..E carry
// an archetype and a point value; option F is the free-text branch.
type Option struct {
	ID        string // single character, unique within the question
	Text      string
	Archetype *Archetype // nil only for the free-text option
	Points    int
}

// IsFreeText reports whether choosing this option opens the free-text branch.
func (o Option) IsFreeText() bool {
	return o.ID == FreeTextOptionID
}

// Question is one item of the test. Immutable after catalog load.
type Question struct {
	ID       int // 1..N, dense
	Text     string
	Context  string
	Coaching string
	Options  []Option
	Domain   string // "Business", "Family" or "Social"
}

// Option returns the option with the given id, if present.
func (q Question) Option(id string) (Option, bool) {
	for _, opt := range q.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}
