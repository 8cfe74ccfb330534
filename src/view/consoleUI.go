package view

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"

	"torolife/src/universe"
)

//view names
const (
	headerView = "header"
	infoView   = "info"
	fieldView  = "field"
	helpView   = "help"
)

const (
	sidebarWidth    = 30
	minWindowHeight = 12
	headerText      = "Toroidal \"Game of Life\""
	cropWarning     = "the torus is larger than the pane"
)

//pane is one rectangle of the screen
type pane struct {
	name   string
	title  string
	x0, y0 int
	x1, y1 int
	frame  bool
}

//binding maps a key to a simulation command
type binding struct {
	key    interface{}
	label  string
	descr  string
	action func(s *universe.Simulation)
}

var bindings = []binding{
	{'n', "N", "Next generation", (*universe.Simulation).Step},
	{'r', "R", "Run", (*universe.Simulation).Run},
	{'s', "S", "Stop", (*universe.Simulation).Stop},
	{'c', "C", "Reset", (*universe.Simulation).Reset},
}

var modeDescr = map[universe.RunningState]aurora.Color{
	universe.RunningStateManual:   aurora.BlueFg,
	universe.RunningStateStep:     aurora.YellowFg,
	universe.RunningStateRun:      aurora.CyanFg,
	universe.RunningStateFinished: aurora.RedFg,
}

//ConsoleUI is the interactive terminal viewer
type ConsoleUI struct {
	s  *universe.Simulation
	g  *gocui.Gui
	au aurora.Aurora
}

func NewConsoleUI() *ConsoleUI {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		log.Panicln(err)
	}
	t := &ConsoleUI{g: g, au: aurora.NewAurora(true)}
	g.SetManagerFunc(t.layout)

	quit := func(*gocui.Gui, *gocui.View) error { return gocui.ErrQuit }
	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		log.Panicln(err)
	}
	for _, b := range bindings {
		action := b.action
		handler := func(*gocui.Gui, *gocui.View) error {
			action(t.s)
			return nil
		}
		if err := g.SetKeybinding("", b.key, gocui.ModNone, handler); err != nil {
			log.Panicln(err)
		}
	}
	return t
}

func (t *ConsoleUI) Register(s *universe.Simulation) {
	t.s = s
}

//Start runs the terminal main loop, returns when the user quits
func (t *ConsoleUI) Start() {
	defer t.g.Close()
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		log.Panicln(err)
	}
}

//Refresh is called by the simulation goroutine, the drawing is passed to the gui goroutine
func (t *ConsoleUI) Refresh() {
	u := t.s.Universe()
	cells, width, height := u.Cells(), u.Width(), u.Height()
	st := t.s.Status()
	t.g.Update(func(g *gocui.Gui) error {
		t.drawInfo(g, st)
		t.drawField(g, cells, width, height)
		return nil
	})
}

//layout places the panes, the content is drawn only when a pane is created
//later updates come through Refresh
func (t *ConsoleUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	for _, p := range panes(maxX, maxY) {
		v, err := g.SetView(p.name, p.x0, p.y0, p.x1, p.y1)
		if err == nil {
			continue
		}
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = p.title
		v.Frame = p.frame
		switch p.name {
		case headerView:
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
			_, _ = fmt.Fprint(v, headerLine(headerText, maxX))
		case infoView:
			t.drawInfo(g, t.s.Status())
		case fieldView:
			u := t.s.Universe()
			t.drawField(g, u.Cells(), u.Width(), u.Height())
		case helpView:
			_, _ = fmt.Fprint(v, t.helpLine())
		}
	}
	if maxY < minWindowHeight {
		_ = g.DeleteView(infoView)
		_ = g.DeleteView(fieldView)
	}
	return nil
}

func (t *ConsoleUI) drawInfo(g *gocui.Gui, st universe.Status) {
	v, err := g.View(infoView)
	if err != nil {
		return
	}
	v.Clear()
	_, _ = fmt.Fprint(v, infoText(t.au, t.s.Options(), st))
}

func (t *ConsoleUI) drawField(g *gocui.Gui, cells []universe.Cell, width int, height int) {
	v, err := g.View(fieldView)
	if err != nil {
		return
	}
	v.Clear()
	maxW, maxH := v.Size()
	live := t.au.Green(string(universe.AliveGlyph)).String()
	_, _ = fmt.Fprint(v, fieldText(cells, width, height, maxW, maxH, live, string(universe.DeadGlyph)))
}

func (t *ConsoleUI) helpLine() string {
	parts := []string{t.au.Green("^C").String() + ": Exit"}
	for _, b := range bindings {
		parts = append(parts, t.au.Green(b.label).String()+": "+b.descr)
	}
	return " " + strings.Join(parts, "  ")
}

//panes splits the screen: the header on top, the help line at the bottom,
//the info sidebar on the left and the field taking the rest
//only the header is left when the terminal is too low
func panes(maxX int, maxY int) []pane {
	if maxY < minWindowHeight {
		return []pane{{name: headerView, x0: -1, y0: -1, x1: maxX, y1: maxY}}
	}
	return []pane{
		{name: headerView, x0: -1, y0: -1, x1: maxX, y1: 1},
		{name: infoView, title: "Simulation", x0: 0, y0: 2, x1: sidebarWidth, y1: maxY - 3, frame: true},
		{name: fieldView, title: "Torus", x0: sidebarWidth + 1, y0: 2, x1: maxX - 1, y1: maxY - 3, frame: true},
		{name: helpView, x0: -1, y0: maxY - 2, x1: maxX, y1: maxY},
	}
}

//headerLine centers the text in the width
func headerLine(text string, width int) string {
	if width <= len(text) {
		return text
	}
	return strings.Repeat(" ", (width-len(text))/2) + text
}

//infoText is the sidebar content: the configuration followed by the status
func infoText(au aurora.Aurora, o universe.Options, st universe.Status) string {
	seed := "default"
	switch {
	case o.Template != nil:
		seed = o.Template.Name
	case o.Random:
		seed = fmt.Sprintf("random #%d", o.Seed)
	}
	rows := [][2]string{
		{"Dimension", fmt.Sprintf("%v x %v", o.Width, o.Height)},
		{"Interval", o.Interval.String()},
		{"Max generations", fmt.Sprint(o.MaxSteps)},
		{"Seed", seed},
		{"", ""},
		{"Generation", fmt.Sprint(st.Generation)},
		{"Live cells", fmt.Sprint(st.LiveCells)},
		{"Tick time", st.IterationTime.Round(time.Microsecond).String()},
		{"Mode", au.Colorize(st.RunningMode.String(), modeDescr[st.RunningMode]).String()},
	}
	var b strings.Builder
	for _, r := range rows {
		if r[0] == "" {
			b.WriteByte('\n')
			continue
		}
		fmt.Fprintf(&b, " %s: %s\n", au.Green(r[0]).String(), r[1])
	}
	return b.String()
}

//fieldText draws the cells into a maxW x maxH pane
//when the torus doesn't fit, the visible part is drawn and the last line carries the warning
func fieldText(cells []universe.Cell, width int, height int, maxW int, maxH int, live string, dead string) string {
	crop := width > maxW || height > maxH
	lines := make([]string, 0, height)
	var b strings.Builder
	for row := 0; row < height && row < maxH; row++ {
		if crop && row == maxH-1 {
			lines = append(lines, cropWarning)
			break
		}
		b.Reset()
		for column := 0; column < width && column < maxW; column++ {
			if cells[row*width+column] == universe.Alive {
				b.WriteString(live)
			} else {
				b.WriteString(dead)
			}
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}
