package entities

// Archetype is one of the twelve Jungian brand archetypes the test scores.
// Declaration order is fixed and serves as the deterministic tie-break key
// everywhere scores compare equal.
type Archetype int

const (
	Innocent Archetype = iota
	Everyman
	Hero
	Caregiver
	Explorer
	Lover
	Outlaw
	Creator
	Ruler
	Magician
	Sage
	Jester

	NumArchetypes = int(Jester) + 1
)

var archetypeNames = [NumArchetypes]string{
	"Innocent",
	"Everyman",
	"Hero",
	"Caregiver",
	"Explorer",
	"Lover",
	"Outlaw",
	"Creator",
	"Ruler",
	"Magician",
	"Sage",
	"Jester",
}

var archetypeUkrainianNames = [NumArchetypes]string{
	"Невинний",
	"Славний Малий",
	"Герой",
	"Опікун",
	"Шукач",
	"Коханець",
	"Бунтар",
	"Творець",
	"Правитель",
	"Маг",
	"Мудрець",
	"Блазень",
}

// String returns the canonical English archetype name.
func (a Archetype) String() string {
	if !a.Valid() {
		return "Unknown"
	}
	return archetypeNames[a]
}

// UkrainianName returns the localized "Укр (Eng)" display form used
// in messages and reports.
func (a Archetype) UkrainianName() string {
	if !a.Valid() {
		return a.String()
	}
	return archetypeUkrainianNames[a] + " (" + archetypeNames[a] + ")"
}

// Valid reports whether a is one of the twelve declared archetypes.
func (a Archetype) Valid() bool {
	return a >= Innocent && a <= Jester
}

// ParseArchetype resolves the canonical English name to an Archetype.
func ParseArchetype(name string) (Archetype, bool) {
	for i, n := range archetypeNames {
		if n == name {
			return Archetype(i), true
		}
	}
	return 0, false
}

// AllArchetypes returns the twelve archetypes in declaration order.
func AllArchetypes() []Archetype {
	all := make([]Archetype, NumArchetypes)
	for i := range all {
		all[i] = Archetype(i)
	}
	return all
}
