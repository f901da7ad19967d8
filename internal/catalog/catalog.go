package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/NCobrimark/Archetype-UA/internal/domain/entities"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
)

// Catalog is the immutable question set loaded once at process start and
// shared by reference between sessions. Loading is all-or-nothing: any
// malformed question is a startup-fatal condition.
type Catalog struct {
	questions map[int]entities.Question
	ids       []int // sorted question IDs 1..N
}

type questionJSON struct {
	ID       int          `json:"id"`
	Text     string       `json:"text"`
	Context  string       `json:"context"`
	Coaching string       `json:"coaching_question"`
	Options  []optionJSON `json:"options"`
	Domain   string       `json:"domain"`
}

type optionJSON struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	Archetype *string `json:"archetype"`
	Points    *int    `json:"points"`
}

// Load reads and validates the question catalog from a JSON file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions file: %w", err)
	}

	var raw []questionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal questions JSON: %w", err)
	}

	if len(raw) == 0 {
		return nil, errors.New("question catalog is empty")
	}

	c := &Catalog{questions: make(map[int]entities.Question, len(raw))}
	for _, qj := range raw {
		q, err := buildQuestion(qj)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", qj.ID, err)
		}
		if _, exists := c.questions[q.ID]; exists {
			return nil, fmt.Errorf("question %d: duplicate id", q.ID)
		}
		c.questions[q.ID] = q
	}

	// IDs must be dense 1..N so the permutation covers exactly the catalog.
	for id := 1; id <= len(c.questions); id++ {
		if _, ok := c.questions[id]; !ok {
			return nil, fmt.Errorf("question ids are not dense: missing %d", id)
		}
		c.ids = append(c.ids, id)
	}

	return c, nil
}

func buildQuestion(qj questionJSON) (entities.Question, error) {
	if qj.ID < 1 {
		return entities.Question{}, errors.New("invalid id")
	}
	if qj.Text == "" {
		return entities.Question{}, errors.New("empty text")
	}
	if len(qj.Options) < 2 {
		return entities.Question{}, fmt.Errorf("expected at least 2 options, got %d", len(qj.Options))
	}

	q := entities.Question{
		ID:       qj.ID,
		Text:     qj.Text,
		Context:  qj.Context,
		Coaching: qj.Coaching,
		Domain:   qj.Domain,
		Options:  make([]entities.Option, 0, len(qj.Options)),
	}

	seen := make(map[string]bool, len(qj.Options))
	for _, oj := range qj.Options {
		opt, err := buildOption(oj)
		if err != nil {
			return entities.Question{}, fmt.Errorf("option %q: %w", oj.ID, err)
		}
		if seen[opt.ID] {
			return entities.Question{}, fmt.Errorf("option %q: duplicate id", opt.ID)
		}
		seen[opt.ID] = true
		q.Options = append(q.Options, opt)
	}

	return q, nil
}

func buildOption(oj optionJSON) (entities.Option, error) {
	if len(oj.ID) != 1 {
		return entities.Option{}, errors.New("id must be a single character")
	}
	if oj.Text == "" {
		return entities.Option{}, errors.New("empty text")
	}

	opt := entities.Option{
		ID:     oj.ID,
		Text:   oj.Text,
		Points: entities.DefaultOptionPoints,
	}
	if oj.Points != nil {
		opt.Points = *oj.Points
	}
	if opt.Points < 0 {
		return entities.Option{}, errors.New("negative points")
	}

	if opt.IsFreeText() {
		if oj.Archetype != nil {
			return entities.Option{}, errors.New("free-text option must not carry an archetype")
		}
		opt.Points = 0
		return opt, nil
	}

	if oj.Archetype == nil {
		return entities.Option{}, errors.New("missing archetype")
	}
	arch, ok := entities.ParseArchetype(*oj.Archetype)
	if !ok {
		return entities.Option{}, fmt.Errorf("unknown archetype %q", *oj.Archetype)
	}
	opt.Archetype = &arch

	return opt, nil
}

// Question returns the question with the given id.
func (c *Catalog) Question(id int) (entities.Question, error) {
	q, ok := c.questions[id]
	if !ok {
		return entities.Question{}, ErrQuestionNotFound
	}
	return q, nil
}

// QuestionIDs returns all question IDs in ascending order. The returned
// slice is a copy and safe to shuffle.
func (c *Catalog) QuestionIDs() []int {
	ids := make([]int, len(c.ids))
	copy(ids, c.ids)
	return ids
}

// Len returns the number of questions in the catalog.
func (c *Catalog) Len() int {
	return len(c.questions)
}
