package universe

import (
	"sync"
	"sync/atomic"
	"time"
)

//Status represents the status of the simulation at concrete moment
type Status struct {
	Generation    int
	RunningMode   RunningState
	LiveCells     int
	IterationTime time.Duration //time spent on the last tick
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the simulation
type Viewer interface {
	Refresh()
	Register(s *Simulation)
	Start()
}

//The simulation running status at the concrete moment
type RunningState int

const (
	RunningStateManual   = RunningState(0x0)
	RunningStateStep     = RunningState(0x1)
	RunningStateRun      = RunningState(0x2)
	RunningStateFinished = RunningState(0x3)
)

func (rs RunningState) String() string {
	switch rs {
	case RunningStateManual:
		return "manual"
	case RunningStateStep:
		return "step"
	case RunningStateRun:
		return "run"
	case RunningStateFinished:
		return "finished"
	}
	return "unknown"
}

//Simulation drives the Universe: steps it on demand or runs it with the configured interval
//all commands are executed one by one by the main loop goroutine, so the universe is never ticked concurrently
type Simulation struct {
	options Options
	state   struct {
		Status
		universe *Universe
		sync.Mutex
	}
	stateCh   chan Status
	views     []Viewer
	controlCh chan func()
	closeCh   chan struct{}
	closeOnce sync.Once
	loopDone  chan struct{}
	runCh     chan struct{} //closed when the current run cycle must exit, owned by the main loop
	runners   int32         //live run cycle goroutines
}

//NewSimulation creates the Simulation with a new universe built from the options
//stateCh receives the status on every running state change, it can be nil
//when not nil, the caller must read it until Close
func NewSimulation(o *Options, stateCh chan Status) (*Simulation, error) {
	if o == nil {
		o = &DefaultOptions
	}
	u, err := NewWithOptions(*o)
	if err != nil {
		return nil, err
	}
	s := Simulation{
		options:   *o,
		controlCh: make(chan func(), 1),
		closeCh:   make(chan struct{}),
		loopDone:  make(chan struct{}),
		stateCh:   stateCh,
	}
	s.setUniverse(u)
	go s.mainLoop()
	return &s, nil
}

//RegisterViewer registers the viewer - the simulation will call the viewer when the state is changed
//must be called before the simulation is started
func (s *Simulation) RegisterViewer(v Viewer) {
	s.views = append(s.views, v)
	v.Register(s)
}

//StateCh returns the channel with the simulation's status updates
func (s *Simulation) StateCh() chan Status {
	return s.stateCh
}

//Status returns current simulation status represented by Status struct
func (s *Simulation) Status() Status {
	s.state.Lock()
	defer s.state.Unlock()
	return s.state.Status
}

//Options returns the simulation configuration represented by Options struct
func (s *Simulation) Options() Options {
	return s.options
}

//Universe returns the current universe, it is replaced on Reset
func (s *Simulation) Universe() *Universe {
	s.state.Lock()
	defer s.state.Unlock()
	return s.state.universe
}

//Run starts the simulation, returns immediately
func (s *Simulation) Run() {
	s.send(s.run)
}

//Stop stops the simulation, returns immediately
//the Status struct will be written the stateCh on finish
func (s *Simulation) Stop() {
	s.send(s.stop)
}

//Step do one simulation step, returns immediately
//the Status struct will be written to the stateCh on start and on finish
func (s *Simulation) Step() {
	s.send(s.step)
}

//Reset recreates the universe from the options (the generation goes back to 0), returns immediately
//the Status struct will be written to the stateCh on finish
func (s *Simulation) Reset() {
	s.send(s.reset)
}

//Close stops the main loop and waits for it to exit
func (s *Simulation) Close() {
	s.closeOnce.Do(func() {
		close(s.closeCh)
	})
	<-s.loopDone
}

//send queues the command for the main loop, drops it when the simulation is closed
func (s *Simulation) send(cmd func()) bool {
	select {
	case s.controlCh <- cmd:
		return true
	case <-s.closeCh:
		return false
	}
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (s *Simulation) mainLoop() {
	defer close(s.loopDone)
	for {
		select {
		case cmd := <-s.controlCh:
			cmd()
		case <-s.closeCh:
			return
		}
	}
}

func (s *Simulation) setUniverse(u *Universe) {
	s.state.Lock()
	s.state.universe = u
	s.state.Generation = u.Generation()
	s.state.LiveCells = u.LiveCells()
	s.state.IterationTime = 0
	s.state.Unlock()
}

//switchRunningState switch the state of the simulation to RunningState
//also writes the new state to the stateCh to signal upper control software
func (s *Simulation) switchRunningState(to RunningState) {
	s.state.Lock()
	s.state.RunningMode = to
	st := s.state.Status
	s.state.Unlock()
	if s.stateCh != nil {
		select {
		case s.stateCh <- st:
		case <-s.closeCh:
		}
	}
}

//run starts the simulation cycle
//the cycle stops on Stop() calling or when the boundary conditions are reached
//every cycle has its own runCh, so a cycle left over from a previous Run never steps again
func (s *Simulation) run() {
	mode := s.Status().RunningMode
	if mode == RunningStateRun || mode == RunningStateFinished {
		return
	}
	runCh := make(chan struct{})
	s.runCh = runCh
	s.switchRunningState(RunningStateRun)
	atomic.AddInt32(&s.runners, 1)
	go func() {
		defer atomic.AddInt32(&s.runners, -1)
		done := make(chan struct{}, 1)
		stepCmd := func() {
			//Stop could come between the wait and this command
			if s.runCh == runCh {
				s.step()
			}
			done <- struct{}{}
		}
		for {
			select {
			case <-runCh:
				return
			default:
			}
			if !s.send(stepCmd) {
				return
			}
			select {
			case <-done:
			case <-s.closeCh:
				return
			}
			if s.options.Interval > 0 {
				select {
				case <-time.After(s.options.Interval):
				case <-runCh:
					return
				case <-s.closeCh:
					return
				}
			}
		}
	}()
}

//endRun cancels the current run cycle, if any
func (s *Simulation) endRun() {
	if s.runCh != nil {
		close(s.runCh)
		s.runCh = nil
	}
}

//stop stops the simulation running cycle
func (s *Simulation) stop() {
	s.endRun()
	if s.Status().RunningMode == RunningStateRun {
		s.switchRunningState(RunningStateManual)
	}
}

//step does one tick of the universe
//the simulation is finished when max steps are reached, all cells are dead or nothing has changed
func (s *Simulation) step() {
	rm := s.Status().RunningMode
	if rm == RunningStateFinished {
		rm = RunningStateManual
	}
	u := s.Universe()
	finished := false
	defer func() {
		if finished {
			s.endRun()
			s.switchRunningState(RunningStateFinished)
		} else {
			s.switchRunningState(rm)
		}
		s.refreshView()
	}()

	if s.options.MaxSteps != 0 && u.Generation() >= s.options.MaxSteps {
		finished = true
		return
	}
	s.switchRunningState(RunningStateStep)
	start := time.Now()
	liveCells, changed := u.step()
	s.state.Lock()
	s.state.Generation = u.Generation()
	s.state.LiveCells = liveCells
	s.state.IterationTime = time.Since(start)
	s.state.Unlock()
	if liveCells == 0 || !changed || (s.options.MaxSteps != 0 && u.Generation() >= s.options.MaxSteps) {
		finished = true
	}
}

//reset replaces the universe with a new one built from the options
func (s *Simulation) reset() {
	u, err := NewWithOptions(s.options)
	if err != nil {
		//the options were validated by NewSimulation
		panic(err)
	}
	s.endRun()
	s.setUniverse(u)
	s.switchRunningState(RunningStateManual)
	s.refreshView()
}

//refreshView calls Refresh event for all registered views
func (s *Simulation) refreshView() {
	for _, v := range s.views {
		v.Refresh()
	}
}
