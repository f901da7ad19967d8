package telegram

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/NCobrimark/Archetype-UA/internal/catalog"
	"github.com/NCobrimark/Archetype-UA/internal/domain/entities"
	"github.com/NCobrimark/Archetype-UA/internal/quiz"
)

type discardSink struct{}

func (discardSink) Upsert(context.Context, *entities.Answer) error { return nil }

func loadTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	doc := `[
		{"id":1,"text":"q1","domain":"Business","options":[
			{"id":"A","text":"a","archetype":"Hero","points":2},
			{"id":"F","text":"own","archetype":null,"points":0}]},
		{"id":2,"text":"q2","domain":"Family","options":[
			{"id":"A","text":"a","archetype":"Sage","points":2},
			{"id":"F","text":"own","archetype":null,"points":0}]}
	]`
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cat, err := catalog.Load(path)
	require.NoError(t, err)
	return cat
}

func newMachineForSession(cat *catalog.Catalog, userID, sessionID int64) *quiz.Machine {
	session := entities.NewQuizSession(userID, cat.QuestionIDs())
	session.ID = sessionID
	return quiz.NewMachine(session, cat, discardSink{})
}

// The finalization goroutine outlives the countdown by design. A user who
// restarts mid-countdown must keep the new run: the stale goroutine's
// teardown is scoped to its own session and must not touch the replacement
// machine or flow.
func TestAdoptResult_RestartDuringFinalizationKeepsNewRun(t *testing.T) {
	const chatID = int64(100)
	cat := loadTestCatalog(t)
	h := NewHandler(nil, zap.NewNop(), cat, discardSink{}, nil, nil, nil, nil, nil)

	// Session 1 completed and is finalizing.
	h.registry.Store(chatID, newMachineForSession(cat, 42, 1))
	h.setFlow(chatID, &chatFlow{userID: 42, sessionID: 1, finalizing: true})

	// The impatient user restarts; a fresh machine and flow replace the old.
	fresh := newMachineForSession(cat, 42, 2)
	h.registry.Store(chatID, fresh)
	h.setFlow(chatID, &chatFlow{userID: 42, sessionID: 2})

	adopted := h.adoptResult(chatID, 1, entities.ClusterResult{
		Primary: []entities.Archetype{entities.Hero},
	})

	assert.False(t, adopted)
	assert.Same(t, fresh, h.registry.Get(chatID), "new run's machine must survive the stale teardown")
	flow := h.flow(chatID)
	require.NotNil(t, flow)
	assert.Equal(t, int64(2), flow.sessionID)
	assert.Nil(t, flow.result, "superseded session's result must not leak into the new run")
}

func TestAdoptResult_InstallsResultForCurrentSession(t *testing.T) {
	const chatID = int64(100)
	cat := loadTestCatalog(t)
	h := NewHandler(nil, zap.NewNop(), cat, discardSink{}, nil, nil, nil, nil, nil)

	h.registry.Store(chatID, newMachineForSession(cat, 42, 1))
	h.setFlow(chatID, &chatFlow{userID: 42, sessionID: 1, finalizing: true})

	result := entities.ClusterResult{Primary: []entities.Archetype{entities.Sage}}
	adopted := h.adoptResult(chatID, 1, result)

	assert.True(t, adopted)
	assert.Nil(t, h.registry.Get(chatID), "finished run's machine is torn down")

	flow := h.flow(chatID)
	require.NotNil(t, flow)
	assert.Equal(t, int64(42), flow.userID)
	assert.Equal(t, int64(1), flow.sessionID)
	require.NotNil(t, flow.result)
	assert.Equal(t, result.Primary, flow.result.Primary)
	assert.Equal(t, leadIdle, flow.step)
}

func TestAdoptResult_NoFlow(t *testing.T) {
	cat := loadTestCatalog(t)
	h := NewHandler(nil, zap.NewNop(), cat, discardSink{}, nil, nil, nil, nil, nil)

	assert.False(t, h.adoptResult(100, 1, entities.ClusterResult{}))
}
