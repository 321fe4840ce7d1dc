package render

import "math"

// Line pairs two vertices.
type Line struct {
	Start, End Vertex
}

// StepMode selects which screen axis determines the number of steps a
// LineStepper takes.
type StepMode int

const (
	StepLargest StepMode = iota // max(|dx|, |dy|), used for lines
	StepX                       // |dx|, used for scanlines
	StepY                       // |dy|, used for triangle edges
)

// String returns the mode name.
func (m StepMode) String() string {
	switch m {
	case StepLargest:
		return "largest"
	case StepX:
		return "x"
	case StepY:
		return "y"
	default:
		return "unknown"
	}
}

// LineStepper walks from the start of a line to its end in a fixed number
// of equal increments, advancing the position and every attribute together.
// Edges and scanlines are both walked with it.
//
// The start and end x and y are rounded to whole pixels on construction.
// Current holds the start vertex until the first Step.
type LineStepper struct {
	current   Vertex
	increment Vertex
	steps     int
	i         int
}

// NewLineStepper prepares a stepper for line. A line with no extent along
// the mode's axis has zero steps and is terminal immediately.
func NewLineStepper(line Line, mode StepMode) LineStepper {
	line.Start.mustMatch(&line.End)

	line.Start.Position.X = math.Round(line.Start.Position.X)
	line.Start.Position.Y = math.Round(line.Start.Position.Y)
	line.End.Position.X = math.Round(line.End.Position.X)
	line.End.Position.Y = math.Round(line.End.Position.Y)

	s := LineStepper{current: line.Start}

	dx := math.Abs(line.End.Position.X - line.Start.Position.X)
	dy := math.Abs(line.End.Position.Y - line.Start.Position.Y)
	switch mode {
	case StepX:
		s.steps = int(dx)
	case StepY:
		s.steps = int(dy)
	default:
		s.steps = int(math.Max(dx, dy))
	}

	if s.steps > 0 {
		s.increment = line.Start.delta(&line.End, s.steps)
	}
	return s
}

// Step advances by one increment. It returns false, leaving the state
// unchanged, once all steps have been taken.
func (s *LineStepper) Step() bool {
	if s.i == s.steps {
		return false
	}
	s.i++
	s.current.add(&s.increment)
	return true
}

// Current returns the vertex at the current step.
func (s *LineStepper) Current() *Vertex {
	return &s.current
}

// Steps returns the total number of increments.
func (s *LineStepper) Steps() int {
	return s.steps
}

// Remaining returns the number of increments not yet taken.
func (s *LineStepper) Remaining() int {
	return s.steps - s.i
}
