package quiz

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NCobrimark/Archetype-UA/internal/catalog"
	"github.com/NCobrimark/Archetype-UA/internal/domain/entities"
)

// memorySink records upserts in memory, keyed by question ID the way the
// database unique constraint would.
type memorySink struct {
	byQuestion map[int]*entities.Answer
	upserts    int
}

func newMemorySink() *memorySink {
	return &memorySink{byQuestion: make(map[int]*entities.Answer)}
}

func (s *memorySink) Upsert(_ context.Context, a *entities.Answer) error {
	s.byQuestion[a.QuestionID] = a
	s.upserts++
	return nil
}

func testCatalog(t *testing.T, n int) *catalog.Catalog {
	t.Helper()

	items := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, fmt.Sprintf(
			`{"id":%d,"text":"q%d","domain":"Social","options":[`+
				`{"id":"A","text":"a","archetype":"Hero","points":2},`+
				`{"id":"B","text":"b","archetype":"Sage","points":2},`+
				`{"id":"F","text":"own","archetype":null,"points":0}]}`, i, i))
	}
	doc := "[" + strings.Join(items, ",") + "]"

	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cat, err := catalog.Load(path)
	require.NoError(t, err)
	return cat
}

func newTestMachine(t *testing.T, n int) (*Machine, *memorySink) {
	t.Helper()
	cat := testCatalog(t, n)
	sink := newMemorySink()
	session := entities.NewQuizSession(42, cat.QuestionIDs())
	session.ID = 7
	return NewMachine(session, cat, sink), sink
}

func TestMachine_FullRunCompletesOnce(t *testing.T) {
	const n = 4
	m, sink := newTestMachine(t, n)
	ctx := context.Background()

	completions := 0
	for i := 0; i < n; i++ {
		q := m.Current()
		require.NotNil(t, q)

		adv, err := m.Select(ctx, q.ID, "A")
		require.NoError(t, err)
		assert.False(t, adv.Ignored)

		if adv.Completed {
			completions++
			assert.Nil(t, adv.Next)
		} else {
			require.NotNil(t, adv.Next)
		}
	}

	assert.Equal(t, 1, completions)
	assert.Equal(t, n, sink.upserts)
	assert.Equal(t, entities.StateComplete, m.Session().State)
	assert.Nil(t, m.Current())
	assert.NotNil(t, m.Session().CompletedAt)
}

func TestMachine_StaleSelectionIgnored(t *testing.T) {
	m, sink := newTestMachine(t, 3)
	ctx := context.Background()

	current := m.Current()
	require.NotNil(t, current)

	_, err := m.Select(ctx, current.ID, "A")
	require.NoError(t, err)

	// A duplicate delivery of the already-answered question must not move the
	// cursor or touch storage again.
	adv, err := m.Select(ctx, current.ID, "B")
	require.NoError(t, err)
	assert.True(t, adv.Ignored)
	assert.Equal(t, 1, sink.upserts)
	assert.Equal(t, 1, m.Session().Cursor)
}

func TestMachine_UnknownOptionIgnored(t *testing.T) {
	m, sink := newTestMachine(t, 2)

	current := m.Current()
	require.NotNil(t, current)

	adv, err := m.Select(context.Background(), current.ID, "Z")
	require.NoError(t, err)
	assert.True(t, adv.Ignored)
	assert.Zero(t, sink.upserts)
}

func TestMachine_FreeTextBranch(t *testing.T) {
	m, sink := newTestMachine(t, 2)
	ctx := context.Background()

	current := m.Current()
	require.NotNil(t, current)

	adv, err := m.Select(ctx, current.ID, entities.FreeTextOptionID)
	require.NoError(t, err)
	assert.True(t, adv.AwaitFreeText)
	assert.Zero(t, sink.upserts, "choosing the free-text option must not record an answer yet")
	assert.Equal(t, entities.StateAwaitingFreeText, m.Session().State)

	// Blank input does not complete the question.
	adv, err = m.SubmitText(ctx, "   ")
	require.NoError(t, err)
	assert.True(t, adv.Ignored)
	assert.Zero(t, sink.upserts)

	adv, err = m.SubmitText(ctx, "  моя власна відповідь  ")
	require.NoError(t, err)
	assert.False(t, adv.Ignored)

	saved := sink.byQuestion[current.ID]
	require.NotNil(t, saved)
	assert.Equal(t, entities.FreeTextOptionID, saved.OptionID)
	assert.Equal(t, "моя власна відповідь", saved.FreeText)
}

func TestMachine_TextOutsideFreeTextStateIgnored(t *testing.T) {
	m, sink := newTestMachine(t, 2)

	adv, err := m.SubmitText(context.Background(), "random chatter")
	require.NoError(t, err)
	assert.True(t, adv.Ignored)
	assert.Zero(t, sink.upserts)
}

func TestMachine_Milestones(t *testing.T) {
	const n = 4
	m, _ := newTestMachine(t, n)
	ctx := context.Background()

	var hit []int
	for i := 0; i < n; i++ {
		q := m.Current()
		require.NotNil(t, q)
		adv, err := m.Select(ctx, q.ID, "A")
		require.NoError(t, err)
		if adv.Milestone != 0 {
			hit = append(hit, adv.Milestone)
		}
	}

	// With 4 questions the quarter points land exactly on answers 1, 2 and 3.
	assert.Equal(t, []int{25, 50, 75}, hit)
}

func TestMachine_OrderIsPermutationOfCatalog(t *testing.T) {
	const n = 10
	m, _ := newTestMachine(t, n)

	order := m.Session().Order
	require.Len(t, order, n)

	seen := make(map[int]bool, n)
	for _, id := range order {
		assert.False(t, seen[id], "question %d repeated in order", id)
		seen[id] = true
		assert.GreaterOrEqual(t, id, 1)
		assert.LessOrEqual(t, id, n)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	m, _ := newTestMachine(t, 2)

	assert.Nil(t, r.Get(1))

	r.Store(1, m)
	assert.Same(t, m, r.Get(1))

	r.Delete(1)
	assert.Nil(t, r.Get(1))
}
