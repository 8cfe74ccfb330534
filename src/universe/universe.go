package universe

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
)

//Cell is the state of one grid position
//Dead and Alive are 0 and 1, so summing cells gives the live count
type Cell uint8

const (
	Dead  Cell = 0
	Alive Cell = 1
)

//glyphs used by Render
const (
	DeadGlyph  = '◻'
	AliveGlyph = '◼'
)

func (c Cell) String() string {
	if c == Alive {
		return "alive"
	}
	return "dead"
}

//Glyph returns the character representing the cell in the rendered field
func (c Cell) Glyph() rune {
	if c == Alive {
		return AliveGlyph
	}
	return DeadGlyph
}

//Universe is the toroidal Game of Life field
//cells are stored row-major in one flat slice: index = row*width + column
//the whole state is guarded by one lock, so readers never see a half computed generation
type Universe struct {
	mu         sync.RWMutex
	width      int
	height     int
	generation int
	cells      []Cell
	next       []Cell //the second buffer, swapped with cells on every tick
}

//New creates the default 64x64 universe seeded with the default pattern
func New() *Universe {
	return newUniverse(DefWidth, DefHeight, nil)
}

//NewWithOptions creates the universe with the options dimension
//the field is seeded from o.Template when set, with random data from o.Seed when o.Random is set,
//otherwise with the default pattern
func NewWithOptions(o Options) (*Universe, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if o.Random {
		u := newUniverse(o.Width, o.Height, &Template{})
		rnd := rand.New(rand.NewSource(o.Seed))
		for i := range u.cells {
			u.cells[i] = Cell(rnd.Intn(2))
		}
		return u, nil
	}
	return newUniverse(o.Width, o.Height, o.Template), nil
}

func newUniverse(width int, height int, tmpl *Template) *Universe {
	u := &Universe{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
		next:   make([]Cell, width*height),
	}
	if tmpl == nil {
		for i := range u.cells {
			if i%2 == 0 || i%7 == 0 {
				u.cells[i] = Alive
			}
		}
		return u
	}
	for _, v := range tmpl.Coordinates {
		u.cells[u.index(v[1], v[0])] = Alive
	}
	return u
}

func (u *Universe) Width() int {
	return u.width
}

func (u *Universe) Height() int {
	return u.height
}

//Generation returns the number of ticks done since the universe creation
func (u *Universe) Generation() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.generation
}

//LiveCells returns the count of alive cells
func (u *Universe) LiveCells() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.liveCells()
}

//Cells returns a copy of the current field in row-major order
func (u *Universe) Cells() []Cell {
	u.mu.RLock()
	defer u.mu.RUnlock()
	c := make([]Cell, len(u.cells))
	copy(c, u.cells)
	return c
}

//At returns the cell at row, column
//the coordinates must be inside the field
func (u *Universe) At(row int, column int) Cell {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.cells[u.index(row, column)]
}

//Tick advances the universe by one generation
func (u *Universe) Tick() {
	u.step()
}

//Render returns the field as text: the status line and one line of glyphs per row
func (u *Universe) Render() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	var b strings.Builder
	b.Grow(64 + len(u.cells)*3 + u.height)
	_, _ = fmt.Fprintf(&b, "Generation: %d, live cells: %d\n", u.generation, u.liveCells())
	for row := 0; row < u.height; row++ {
		for _, c := range u.cells[row*u.width : (row+1)*u.width] {
			b.WriteRune(c.Glyph())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (u *Universe) String() string {
	return u.Render()
}

//step calculates the next generation into the spare buffer and swaps the buffers
//returns the live cells count of the new generation and whether any cell has changed
func (u *Universe) step() (liveCells int, changed bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for row := 0; row < u.height; row++ {
		for column := 0; column < u.width; column++ {
			idx := u.index(row, column)
			cell := u.cells[idx]
			nextState := cellNextState(cell, u.liveNeighborCount(row, column))
			u.next[idx] = nextState
			liveCells += int(nextState)
			changed = changed || nextState != cell
		}
	}
	u.cells, u.next = u.next, u.cells
	u.generation++
	return
}

//cellNextState applies the Conway's rules to the cell with n live neighbours
func cellNextState(cell Cell, n int) Cell {
	switch {
	case cell == Alive && n < 2:
		return Dead
	case cell == Alive && (n == 2 || n == 3):
		return Alive
	case cell == Alive && n > 3:
		return Dead
	case cell == Dead && n == 3:
		return Alive
	default:
		return cell
	}
}

//liveNeighborCount counts alive cells around row, column with the field edges wrapped around
//on a field 1 cell wide or tall the deltas collapse, so the same cell is counted several times
func (u *Universe) liveNeighborCount(row int, column int) int {
	count := 0
	for _, dr := range [3]int{u.height - 1, 0, 1} {
		for _, dc := range [3]int{u.width - 1, 0, 1} {
			if dr == 0 && dc == 0 {
				continue
			}
			count += int(u.cells[u.index((row+dr)%u.height, (column+dc)%u.width)])
		}
	}
	return count
}

//index returns the flat index of row, column
//panics when the coordinates are outside the field
func (u *Universe) index(row int, column int) int {
	if row < 0 || row >= u.height || column < 0 || column >= u.width {
		panic(fmt.Sprintf("universe: cell [%d, %d] is outside the %v x %v field", row, column, u.width, u.height))
	}
	return row*u.width + column
}

//liveCells sums the cells, the caller must hold the lock
func (u *Universe) liveCells() int {
	n := 0
	for _, c := range u.cells {
		n += int(c)
	}
	return n
}
