package universe

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	blinker = Template{"blinker", "period 2 oscillator", [][]int{{2, 1}, {2, 2}, {2, 3}}}
	block   = Template{"block", "still life", [][]int{{1, 1}, {2, 1}, {1, 2}, {2, 2}}}
	single  = Template{"single", "dies at once", [][]int{{2, 2}}}
)

type recordingViewer struct {
	s         *Simulation
	refreshCh chan Status
	started   bool
}

func (v *recordingViewer) Refresh() {
	v.refreshCh <- v.s.Status()
}

func (v *recordingViewer) Register(s *Simulation) {
	v.s = s
}

func (v *recordingViewer) Start() {
	v.started = true
}

func newTestSimulation(t *testing.T, tmpl Template, maxSteps int, interval time.Duration) (*Simulation, chan Status) {
	t.Helper()
	o := Options{Width: 5, Height: 5, MaxSteps: maxSteps, Interval: interval, Template: &tmpl}
	stateCh := make(chan Status, 10)
	s, err := NewSimulation(&o, stateCh)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, stateCh
}

//waitFor reads the state channel until the status with the running mode arrives
func waitFor(t *testing.T, stateCh chan Status, mode RunningState) Status {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case st := <-stateCh:
			if st.RunningMode == mode {
				return st
			}
		case <-timeout:
			t.Fatalf("no %v status received", mode)
		}
	}
}

func TestNewSimulation_Defaults(t *testing.T) {
	s, err := NewSimulation(nil, nil)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, DefaultOptions, s.Options())
	assert.Equal(t, DefWidth, s.Universe().Width())
	assert.Equal(t, RunningStateManual, s.Status().RunningMode)
	assert.Equal(t, s.Universe().LiveCells(), s.Status().LiveCells)
}

func TestNewSimulation_InvalidOptions(t *testing.T) {
	s, err := NewSimulation(&Options{Width: 0, Height: 10}, nil)
	assert.ErrorIs(t, err, ErrInvalidOptions)
	assert.Nil(t, s)
}

func TestSimulation_Step(t *testing.T) {
	s, stateCh := newTestSimulation(t, blinker, 0, 0)
	s.Step()
	st := waitFor(t, stateCh, RunningStateStep)
	assert.Equal(t, 0, st.Generation)
	st = waitFor(t, stateCh, RunningStateManual)
	assert.Equal(t, 1, st.Generation)
	assert.Equal(t, 3, st.LiveCells)
	assert.Equal(t, 1, s.Universe().Generation())
	assert.Equal(t, Alive, s.Universe().At(2, 1))
	assert.Equal(t, Dead, s.Universe().At(1, 2))
}

func TestSimulation_RunUntilMaxSteps(t *testing.T) {
	s, stateCh := newTestSimulation(t, blinker, 5, 0)
	s.Run()
	st := waitFor(t, stateCh, RunningStateFinished)
	assert.Equal(t, 5, st.Generation)
	assert.Equal(t, 5, s.Universe().Generation())

	//a manual step can't go over the limit
	s.Step()
	st = waitFor(t, stateCh, RunningStateFinished)
	assert.Equal(t, 5, st.Generation)
}

func TestSimulation_RunUntilStill(t *testing.T) {
	s, stateCh := newTestSimulation(t, block, 100, 0)
	s.Run()
	st := waitFor(t, stateCh, RunningStateFinished)
	assert.Equal(t, 1, st.Generation)
	assert.Equal(t, 4, st.LiveCells)
}

func TestSimulation_RunUntilDead(t *testing.T) {
	s, stateCh := newTestSimulation(t, single, 100, 0)
	s.Run()
	st := waitFor(t, stateCh, RunningStateFinished)
	assert.Equal(t, 1, st.Generation)
	assert.Equal(t, 0, st.LiveCells)
}

func TestSimulation_Stop(t *testing.T) {
	s, stateCh := newTestSimulation(t, blinker, 0, time.Millisecond)
	s.Run()
	waitFor(t, stateCh, RunningStateRun)
	s.Stop()
	st := waitFor(t, stateCh, RunningStateManual)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, RunningStateManual, s.Status().RunningMode)
	assert.Equal(t, st.Generation, s.Status().Generation)
}

func TestSimulation_Reset(t *testing.T) {
	s, stateCh := newTestSimulation(t, blinker, 0, 0)
	before := s.Universe()
	s.Step()
	waitFor(t, stateCh, RunningStateManual)
	s.Step()
	st := waitFor(t, stateCh, RunningStateManual)
	require.Equal(t, 2, st.Generation)

	s.Reset()
	st = waitFor(t, stateCh, RunningStateManual)
	assert.Equal(t, 0, st.Generation)
	assert.Equal(t, 3, st.LiveCells)
	assert.NotSame(t, before, s.Universe())
	assert.Equal(t, 0, s.Universe().Generation())
	assert.Equal(t, 2, before.Generation())
}

func TestSimulation_Viewer(t *testing.T) {
	o := Options{Width: 5, Height: 5, Template: &blinker}
	s, err := NewSimulation(&o, nil)
	require.NoError(t, err)
	defer s.Close()

	v := &recordingViewer{refreshCh: make(chan Status, 10)}
	s.RegisterViewer(v)
	assert.Same(t, s, v.s)

	s.Step()
	select {
	case st := <-v.refreshCh:
		assert.Equal(t, 1, st.Generation)
		assert.Equal(t, RunningStateManual, st.RunningMode)
	case <-time.After(5 * time.Second):
		t.Fatal("viewer was not refreshed")
	}
}

func TestSimulation_CommandsAfterClose(t *testing.T) {
	s, _ := newTestSimulation(t, blinker, 0, 0)
	s.Close()
	s.Step()
	s.Run()
	s.Reset()
	s.Close()
	assert.Equal(t, 0, s.Universe().Generation())
}

func TestSimulation_RunAfterStopKeepsInterval(t *testing.T) {
	const interval = 20 * time.Millisecond
	o := Options{Width: 5, Height: 5, Interval: interval, Template: &blinker}
	s, err := NewSimulation(&o, nil)
	require.NoError(t, err)
	defer s.Close()

	for i := 0; i < 3; i++ {
		s.Run()
		s.Stop()
	}
	s.Run()
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&s.runners) == 1
	}, time.Second, time.Millisecond)

	start := s.Status().Generation
	time.Sleep(20 * interval)
	done := s.Status().Generation - start
	//one cycle makes at most one step per interval
	assert.LessOrEqual(t, done, 21+5)
	assert.Greater(t, done, 0)
	assert.NotEqual(t, RunningStateManual, s.Status().RunningMode)
}

func TestSimulation_FinishEndsRunCycle(t *testing.T) {
	s, stateCh := newTestSimulation(t, single, 0, time.Millisecond)
	s.Run()
	waitFor(t, stateCh, RunningStateFinished)
	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&s.runners) == 0
	}, time.Second, time.Millisecond)
}

func TestSimulation_ResetRandomIsReproducible(t *testing.T) {
	o := Options{Width: 8, Height: 8, Random: true, Seed: 7}
	stateCh := make(chan Status, 10)
	s, err := NewSimulation(&o, stateCh)
	require.NoError(t, err)
	defer s.Close()

	start := s.Universe().Cells()
	s.Step()
	waitFor(t, stateCh, RunningStateStep)
	s.Reset()
	st := waitFor(t, stateCh, RunningStateManual)
	for st.Generation != 0 {
		st = waitFor(t, stateCh, RunningStateManual)
	}
	assert.Equal(t, start, s.Universe().Cells())
}
