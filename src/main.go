package main

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/integrii/flaggy"

	"torolife/src/patterns"
	"torolife/src/universe"
	"torolife/src/view"
)

type EnvOptions struct {
	interactive   bool
	noColor       bool
	printField    bool
	template      string
	templatesFile string
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("torolife: ")

	p, eo, uo := initOptions()
	if err := p.ParseArgs(os.Args[1:]); err != nil {
		p.ShowHelpAndExit(err.Error())
	}
	if uo.Random && uo.Seed == 0 {
		uo.Seed = time.Now().UnixNano()
	}

	templates := patterns.Builtin()
	if eo.templatesFile != "" {
		loaded, err := patterns.LoadFile(eo.templatesFile)
		if err != nil {
			log.Fatalf("%v", err)
		}
		templates = patterns.Merge(templates, loaded)
	}
	if eo.template != "" {
		tmpl, err := patterns.Find(templates, eo.template)
		if err != nil {
			log.Fatalf("%v, available: %s", err, strings.Join(patterns.Names(templates), ", "))
		}
		uo.Template = tmpl
	}

	var stateCh chan universe.Status
	if !eo.interactive {
		stateCh = make(chan universe.Status, 10) //the buffered channel to getting the simulation status
	}

	s, err := universe.NewSimulation(uo, stateCh)
	if err != nil {
		p.ShowHelpAndExit(err.Error())
	}

	if eo.interactive {
		v := view.NewConsoleUI()
		s.RegisterViewer(v)
		v.Start()
		s.Close()
		return
	}

	v := view.NewConsoleOut(os.Stdout, !eo.noColor, eo.printField)
	s.RegisterViewer(v)
	v.Start()
	s.Run()
	for st := range stateCh {
		if st.RunningMode == universe.RunningStateFinished {
			break
		}
	}
	s.Close()
}

//initOptions declares the command line flags bound to the returned options
func initOptions() (p *flaggy.Parser, eo *EnvOptions, uo *universe.Options) {

	o := universe.DefaultOptions
	uo = &o
	eo = &EnvOptions{}
	p = flaggy.NewParser("torolife")
	p.Description = "\"The Life\" game on a toroidal field"
	p.ShowHelpOnUnexpected = true
	p.Int(&uo.Width, "x", "width", "Width of a simulation field")
	p.Int(&uo.Height, "y", "height", "Height of a simulation field")
	p.Duration(&uo.Interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	p.Int(&uo.MaxSteps, "s", "maxSteps", "Limit the simulation to maxSteps generations, 0 is unlimited")
	p.Bool(&uo.Random, "r", "random", "Settle with random data")
	p.Int64(&uo.Seed, "", "seed", "Random data seed, the current time when 0")
	p.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	p.Bool(&eo.noColor, "", "noColor", "Disable the colors in the console output")
	p.Bool(&eo.printField, "p", "print", "Print the field when the simulation is finished")
	p.String(&eo.template, "t", "template", "Seeding template ["+strings.Join(patterns.Names(patterns.Builtin()), "|")+"], the default pattern when empty")
	p.String(&eo.templatesFile, "f", "templates", "YAML file with additional templates")
	return
}
