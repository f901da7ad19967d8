package finalize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/NCobrimark/Archetype-UA/internal/catalog"
	"github.com/NCobrimark/Archetype-UA/internal/domain/entities"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// tieCatalog builds n questions whose only scoring option all weigh the same,
// each toward a different archetype. Answering all of them produces an n-way
// tie at the top of the board.
func tieCatalog(t *testing.T, archetypes ...string) *catalog.Catalog {
	t.Helper()

	items := make([]string, 0, len(archetypes))
	for i, name := range archetypes {
		items = append(items, fmt.Sprintf(
			`{"id":%d,"text":"q%d","domain":"Family","options":[`+
				`{"id":"A","text":"a","archetype":"%s","points":2},`+
				`{"id":"F","text":"own","archetype":null,"points":0}]}`, i+1, i+1, name))
	}
	doc := "[" + strings.Join(items, ",") + "]"

	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cat, err := catalog.Load(path)
	require.NoError(t, err)
	return cat
}

type stubAnswers struct {
	answers []entities.Answer
	err     error
}

func (s *stubAnswers) ListBySession(context.Context, int64) ([]entities.Answer, error) {
	return s.answers, s.err
}

func allAnswered(cat *catalog.Catalog) *stubAnswers {
	var answers []entities.Answer
	for _, id := range cat.QuestionIDs() {
		answers = append(answers, entities.Answer{SessionID: 1, QuestionID: id, OptionID: "A"})
	}
	return &stubAnswers{answers: answers}
}

// stubSynth is a configurable Synthesizer: it can answer after a delay, fail,
// or block until its context is cancelled.
type stubSynth struct {
	mu      sync.Mutex
	calls   int
	delay   time.Duration
	block   bool
	result  Synthesis
	callErr error
}

func (s *stubSynth) Synthesize(ctx context.Context, _ []string) (Synthesis, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.block {
		<-ctx.Done()
		return Synthesis{}, ctx.Err()
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return Synthesis{}, ctx.Err()
		}
	}
	return s.result, s.callErr
}

func (s *stubSynth) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type recordingDisplay struct {
	shown     []string
	updates   []string
	dismissed int
	showErr   error
	updateErr error
}

func (d *recordingDisplay) Show(text string) error {
	d.shown = append(d.shown, text)
	return d.showErr
}

func (d *recordingDisplay) Update(text string) error {
	d.updates = append(d.updates, text)
	return d.updateErr
}

func (d *recordingDisplay) Dismiss() { d.dismissed++ }

func newTestOrchestrator(cat *catalog.Catalog, answers AnswerSource, synth Synthesizer) *Orchestrator {
	return New(cat, answers, synth, zap.NewNop()).
		WithTiming(80*time.Millisecond, 20*time.Millisecond, 40*time.Millisecond)
}

func TestFinalize_SynthesisLandsWithinCountdown(t *testing.T) {
	cat := tieCatalog(t, "Hero", "Sage", "Magician")
	synth := &stubSynth{delay: 10 * time.Millisecond, result: Synthesis{Title: "Стратег-візіонер"}}
	display := &recordingDisplay{}
	o := newTestOrchestrator(cat, allAnswered(cat), synth)

	start := time.Now()
	result, err := o.Finalize(context.Background(), 1, display)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, "Стратег-візіонер", result.MetaTitle)
	assert.Len(t, result.Primary, 3)

	// The countdown paces the finale even when synthesis is long done.
	assert.GreaterOrEqual(t, elapsed, 80*time.Millisecond)
	assert.Len(t, display.shown, 1)
	assert.Len(t, display.updates, 4)
	assert.Equal(t, 1, display.dismissed)
}

func TestFinalize_SynthesisFailureDegradesToNoTitle(t *testing.T) {
	cat := tieCatalog(t, "Hero", "Sage", "Magician")
	synth := &stubSynth{callErr: errors.New("model unavailable")}
	display := &recordingDisplay{}
	o := newTestOrchestrator(cat, allAnswered(cat), synth)

	result, err := o.Finalize(context.Background(), 1, display)

	require.NoError(t, err)
	assert.Empty(t, result.MetaTitle)
	assert.Len(t, result.Primary, 3)
	assert.Equal(t, 1, display.dismissed)
}

func TestFinalize_HangingSynthesisMissesGrace(t *testing.T) {
	cat := tieCatalog(t, "Hero", "Sage", "Magician")
	synth := &stubSynth{block: true}
	display := &recordingDisplay{}
	o := newTestOrchestrator(cat, allAnswered(cat), synth)

	start := time.Now()
	result, err := o.Finalize(context.Background(), 1, display)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Empty(t, result.MetaTitle)
	// Countdown plus the full grace window, but never unbounded.
	assert.GreaterOrEqual(t, elapsed, 120*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}

func TestFinalize_NarrowClusterSkipsSynthesis(t *testing.T) {
	cat := tieCatalog(t, "Hero")
	synth := &stubSynth{result: Synthesis{Title: "never used"}}
	display := &recordingDisplay{}
	o := newTestOrchestrator(cat, allAnswered(cat), synth)

	result, err := o.Finalize(context.Background(), 1, display)

	require.NoError(t, err)
	assert.Empty(t, result.MetaTitle)
	assert.Zero(t, synth.callCount())
}

func TestFinalize_DeadDisplayDoesNotAbort(t *testing.T) {
	cat := tieCatalog(t, "Hero", "Sage")
	display := &recordingDisplay{showErr: errors.New("message gone")}
	o := newTestOrchestrator(cat, allAnswered(cat), &stubSynth{})

	result, err := o.Finalize(context.Background(), 1, display)

	require.NoError(t, err)
	assert.NotEmpty(t, result.Primary)
	// After the failed Show no further updates are attempted.
	assert.Empty(t, display.updates)
}

func TestFinalize_UpdateFailureStopsFurtherUpdates(t *testing.T) {
	cat := tieCatalog(t, "Hero", "Sage")
	display := &recordingDisplay{updateErr: errors.New("edit rejected")}
	o := newTestOrchestrator(cat, allAnswered(cat), &stubSynth{})

	_, err := o.Finalize(context.Background(), 1, display)

	require.NoError(t, err)
	assert.Len(t, display.updates, 1)
}

func TestFinalize_CancelledContext(t *testing.T) {
	cat := tieCatalog(t, "Hero", "Sage", "Magician")
	display := &recordingDisplay{}
	o := newTestOrchestrator(cat, allAnswered(cat), &stubSynth{block: true})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	_, err := o.Finalize(ctx, 1, display)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, display.dismissed)
}

func TestFinalize_AnswerLoadFailure(t *testing.T) {
	cat := tieCatalog(t, "Hero")
	src := &stubAnswers{err: errors.New("connection reset")}
	o := newTestOrchestrator(cat, src, &stubSynth{})

	_, err := o.Finalize(context.Background(), 1, &recordingDisplay{})
	require.Error(t, err)
}
