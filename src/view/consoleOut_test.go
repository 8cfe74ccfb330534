package view

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"torolife/src/universe"
)

func runToFinish(t *testing.T, o universe.Options, c *ConsoleOut) universe.Status {
	t.Helper()
	stateCh := make(chan universe.Status, 10)
	s, err := universe.NewSimulation(&o, stateCh)
	require.NoError(t, err)
	s.RegisterViewer(c)
	c.Start()
	s.Run()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case st := <-stateCh:
			if st.RunningMode == universe.RunningStateFinished {
				//Close waits for the last Refresh to be written
				s.Close()
				return st
			}
		case <-timeout:
			s.Close()
			t.Fatal("the simulation has not finished")
		}
	}
}

func TestConsoleOut_Run(t *testing.T) {
	var b bytes.Buffer
	blinker := universe.Template{Name: "blinker", Coordinates: [][]int{{2, 1}, {2, 2}, {2, 3}}}
	o := universe.Options{Width: 8, Height: 8, MaxSteps: 20, Template: &blinker}
	st := runToFinish(t, o, NewConsoleOut(&b, false, false))
	require.Equal(t, 20, st.Generation)

	out := b.String()
	assert.Contains(t, out, "Running configuration:\n")
	assert.Contains(t, out, "  Dimension: 8 x 8\n")
	assert.Contains(t, out, "  Max generations: 20\n")
	assert.Contains(t, out, "  Template: blinker\n")
	assert.Contains(t, out, "Simulation started...")
	assert.Contains(t, out, "  Generations done: 10, live cells: 3\n")
	assert.Contains(t, out, "Finished:")
	assert.Contains(t, out, "  Last generation: 20\n")
	assert.NotContains(t, out, "Generation: 20, live cells:")
	assert.NotContains(t, out, "\x1b[")
}

func TestConsoleOut_PrintField(t *testing.T) {
	var b bytes.Buffer
	block := universe.Template{Name: "block", Coordinates: [][]int{{1, 1}, {2, 1}, {1, 2}, {2, 2}}}
	o := universe.Options{Width: 4, Height: 4, MaxSteps: 10, Template: &block}
	runToFinish(t, o, NewConsoleOut(&b, false, true))

	out := b.String()
	assert.Contains(t, out, "  Template: block\n")
	assert.Contains(t, out, "  Template cells: 4\n")
	field := "Generation: 1, live cells: 4\n" +
		"◻◻◻◻\n" +
		"◻◼◼◻\n" +
		"◻◼◼◻\n" +
		"◻◻◻◻\n"
	assert.True(t, strings.HasSuffix(out, field), out)
}

func TestConsoleOut_Colors(t *testing.T) {
	var b bytes.Buffer
	block := universe.Template{Name: "block", Coordinates: [][]int{{1, 1}, {2, 1}, {1, 2}, {2, 2}}}
	o := universe.Options{Width: 4, Height: 4, MaxSteps: 10, Template: &block}
	runToFinish(t, o, NewConsoleOut(&b, true, true))
	assert.Contains(t, b.String(), "\x1b[")
}
