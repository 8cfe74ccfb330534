package universe

import (
	"errors"
	"fmt"
	"time"
)

//ErrInvalidOptions is returned when the options can't describe a valid universe
var ErrInvalidOptions = errors.New("invalid universe options")

//Options represents the Universe's configurable options
type Options struct {
	Width    int
	Height   int
	Interval time.Duration //pause between the steps when running
	MaxSteps int           //the generation to stop at, 0 means unlimited
	Template *Template     //seeding template, nil means the default pattern
	Random   bool          //seed the field with random data instead of the default pattern
	Seed     int64         //random data seed, the same seed gives the same field
}

//Template represent the seeding template which can used to settle the universe with predefined data
type Template struct {
	Name        string  //template name
	Descr       string  //template descr
	Coordinates [][]int //array of [x,y] coordinates
}

//default options
const (
	DefSimulationInterval = time.Millisecond * 100
	DefMaxSteps           = 1000
	DefWidth              = 64
	DefHeight             = 64
)

var DefaultOptions = Options{
	Width:    DefWidth,
	Height:   DefHeight,
	Interval: DefSimulationInterval,
	MaxSteps: DefMaxSteps,
}

//Validate reports whether the universe can be built from the options
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("%w: dimension %v x %v must be positive", ErrInvalidOptions, o.Width, o.Height)
	}
	if o.Interval < 0 {
		return fmt.Errorf("%w: negative interval %v", ErrInvalidOptions, o.Interval)
	}
	if o.MaxSteps < 0 {
		return fmt.Errorf("%w: negative max steps %v", ErrInvalidOptions, o.MaxSteps)
	}
	if o.Random && o.Template != nil {
		return fmt.Errorf("%w: random data and template %q can't be used together", ErrInvalidOptions, o.Template.Name)
	}
	if o.Template != nil {
		for i, c := range o.Template.Coordinates {
			if len(c) != 2 {
				return fmt.Errorf("%w: template %q coordinate #%d has %d values, want [x, y]",
					ErrInvalidOptions, o.Template.Name, i, len(c))
			}
			if c[0] < 0 || c[0] >= o.Width || c[1] < 0 || c[1] >= o.Height {
				return fmt.Errorf("%w: template %q coordinate [%d, %d] is outside the %v x %v field",
					ErrInvalidOptions, o.Template.Name, c[0], c[1], o.Width, o.Height)
			}
		}
	}
	return nil
}
