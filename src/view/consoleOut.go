package view

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/logrusorgru/aurora"

	"torolife/src/universe"
)

//ConsoleOut is the non interactive viewer, it prints the simulation progress to the writer
type ConsoleOut struct {
	s          *universe.Simulation
	w          io.Writer
	au         aurora.Aurora
	printField bool
	startTime  time.Time
	lastRunGen int
}

//NewConsoleOut creates the viewer writing to w
//colors enables the ANSI colors, printField prints the final field on finish
func NewConsoleOut(w io.Writer, colors bool, printField bool) *ConsoleOut {
	return &ConsoleOut{
		w:          w,
		au:         aurora.NewAurora(colors),
		printField: printField,
		lastRunGen: -1,
	}
}

func (c *ConsoleOut) Refresh() {
	st := c.s.Status()
	if st.RunningMode == universe.RunningStateFinished {
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		resultData := map[string]interface{}{
			"Last generation": st.Generation,
			"Total time":      totalTime,
			"Live cells":      st.LiveCells,
		}
		fmt.Fprintln(c.w, "\n"+c.au.Red("Finished:").String())
		c.printHashData(resultData)
		if c.printField {
			fmt.Fprint(c.w, c.renderField(c.s.Universe()))
		}
	} else if st.RunningMode == universe.RunningStateRun {
		if st.Generation%10 == 0 && st.Generation != c.lastRunGen {
			c.lastRunGen = st.Generation
			fmt.Fprintf(c.w, "  Generations done: %v, live cells: %v\n", st.Generation, st.LiveCells)
		}
	}
}

func (c *ConsoleOut) Register(s *universe.Simulation) {
	c.s = s
	o := c.s.Options()
	fmt.Fprintln(c.w, c.au.Green("Running configuration:").String())
	fmt.Fprintf(c.w, "  Dimension: %v x %v\n", o.Width, o.Height)
	fmt.Fprintf(c.w, "  Interval: %v\n", o.Interval)
	fmt.Fprintf(c.w, "  Max generations: %v\n", o.MaxSteps)
	seed := map[string]interface{}{"Template": "default"}
	if o.Template != nil {
		seed["Template"] = o.Template.Name
		seed["Template cells"] = len(o.Template.Coordinates)
	}
	c.printHashData(seed)
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	fmt.Fprintln(c.w, "\nSimulation started...")
}

//renderField colors the canonical text form of the universe
func (c *ConsoleOut) renderField(u *universe.Universe) string {
	alive := string(universe.AliveGlyph)
	return strings.ReplaceAll(u.Render(), alive, c.au.Green(alive).String())
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
