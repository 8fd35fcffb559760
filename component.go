package softpipe

import "fmt"

// PortDir selects a component's input or output port set.
type PortDir int

// Port directions.
const (
	Input PortDir = iota
	Output

	numPortDirs
)

func (d PortDir) String() string {
	if d == Input {
		return "input"
	}
	return "output"
}

// Port is a component's typed input or output slot. The port's Value is
// rebound by the driver to the current stream record before every stage
// invocation.
type Port struct {
	Name     string
	Type     ScalarType
	Semantic Semantic

	value Value
}

// Component is the base every pipeline stage embeds. It owns the stage's
// port registry and the consumed/produced counters.
type Component struct {
	name     string
	ports    [numPortDirs][]Port
	consumed uint64
	produced uint64
}

func newComponent(name string) Component {
	return Component{name: name}
}

// Name returns the stage name used in error and log messages.
func (c *Component) Name() string { return c.name }

// AddPort registers a port and returns its zero-based location. A semantic
// may appear only once per direction, and the port type must have a storage
// layout.
func (c *Component) AddPort(dir PortDir, name string, typ ScalarType, sem Semantic) (int, error) {
	for _, p := range c.ports[dir] {
		if p.Semantic == sem {
			return 0, fmt.Errorf("%s: %w: %s port %q", c.name, ErrDuplicateSemantic, dir, name)
		}
	}
	if _, err := typ.Size(); err != nil {
		return 0, fmt.Errorf("%s: %s port %q: %w", c.name, dir, name, err)
	}
	c.ports[dir] = append(c.ports[dir], Port{
		Name:     name,
		Type:     typ,
		Semantic: sem,
		value:    Value{typ: typ},
	})
	return len(c.ports[dir]) - 1, nil
}

// ClearPorts removes all ports of the given direction. Any previously
// obtained value pointers for that direction become stale.
func (c *Component) ClearPorts(dir PortDir) {
	c.ports[dir] = c.ports[dir][:0]
}

// NumPorts returns the number of ports in the given direction.
func (c *Component) NumPorts(dir PortDir) int {
	return len(c.ports[dir])
}

// PortName returns the name of the port at loc.
func (c *Component) PortName(dir PortDir, loc int) string {
	return c.ports[dir][loc].Name
}

// PortType returns the scalar type of the port at loc.
func (c *Component) PortType(dir PortDir, loc int) ScalarType {
	return c.ports[dir][loc].Type
}

// PortSemantic returns the semantic of the port at loc.
func (c *Component) PortSemantic(dir PortDir, loc int) Semantic {
	return c.ports[dir][loc].Semantic
}

// PortValue returns the value reference of the port at loc. The pointer
// stays valid until ports of that direction are added or cleared.
func (c *Component) PortValue(dir PortDir, loc int) *Value {
	return &c.ports[dir][loc].value
}

// Location returns the location of the port with the given name.
func (c *Component) Location(dir PortDir, name string) (int, error) {
	for i, p := range c.ports[dir] {
		if p.Name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%s: %w: no %s port named %q", c.name, ErrUnknownPort, dir, name)
}

// LocationBySemantic returns the location of the port with the given
// semantic.
func (c *Component) LocationBySemantic(dir PortDir, sem Semantic) (int, error) {
	for i, p := range c.ports[dir] {
		if p.Semantic == sem {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%s: %w: no %s port with semantic %s", c.name, ErrUnknownPort, dir, sem)
}

// IsRequired reports whether the port at loc must be matched by a stream
// channel. Ports with system-value semantics are required, all others are
// optional.
func (c *Component) IsRequired(dir PortDir, loc int) bool {
	return c.ports[dir][loc].Semantic.IsSystemValue()
}

// Consumed returns the number of records this stage has consumed.
func (c *Component) Consumed() uint64 { return c.consumed }

// Produced returns the number of records this stage has produced.
func (c *Component) Produced() uint64 { return c.produced }

func (c *Component) base() *Component { return c }

// Stage is the runtime contract of a pipeline component. A stage operates
// in exactly one of two modes:
//
//   - One-in-one-out: RunOne is called with both input and output records
//     bound; each call consumes one input and produces one output.
//   - Asymmetric: the driver alternates between ConsumeOneInput while input
//     is available and the stage reports no pending output, and
//     ProduceOneOutput while the output stream has room and pending output
//     remains.
//
// Entry points of the mode a stage does not implement return ErrStageMode.
type Stage interface {
	base() *Component

	OneInOneOut() bool
	RunOne() error
	ConsumeOneInput() error
	HasPendingOutput() bool
	ProduceOneOutput() error
}

// channelResolver is the subset of a stream used for port resolution.
type channelResolver interface {
	NumChannels() int
	ChannelIndex(sem Semantic) int
}

// channelTyper is implemented by streams that know their channel types.
// Adapter streams over raw host buffers do not; their element types are
// whatever the bound ports declare.
type channelTyper interface {
	ChannelType(i int) ScalarType
}

// absentChannel marks a port with no matching stream channel.
const absentChannel = -1

// mapPorts resolves every port of the given direction to a channel index of
// the stream. An absent channel resolves to absentChannel for optional
// ports and fails with ErrMissingRequiredInput for required ones.
func mapPorts(c *Component, dir PortDir, s channelResolver) ([]int, error) {
	n := c.NumPorts(dir)
	mapping := make([]int, n)
	typer, hasTypes := s.(channelTyper)
	for loc := 0; loc < n; loc++ {
		ch := s.ChannelIndex(c.PortSemantic(dir, loc))
		if ch == s.NumChannels() {
			if c.IsRequired(dir, loc) {
				return nil, fmt.Errorf("%s: %w: %s port %q (%s)",
					c.name, ErrMissingRequiredInput, dir, c.PortName(dir, loc), c.PortSemantic(dir, loc))
			}
			ch = absentChannel
		} else if hasTypes && typer.ChannelType(ch) != c.PortType(dir, loc) {
			return nil, fmt.Errorf("%s: %w: %s port %q is %s, channel is %s",
				c.name, ErrTypeMismatch, dir, c.PortName(dir, loc),
				c.PortType(dir, loc), typer.ChannelType(ch))
		}
		mapping[loc] = ch
	}
	return mapping, nil
}

// bindPorts retargets every port value of the given direction at the
// current record. Ports without a matching channel are bound to nil; their
// reads yield zero values and their writes are skipped.
func bindPorts(c *Component, dir PortDir, rec Record, mapping []int) {
	for loc, ch := range mapping {
		v := c.PortValue(dir, loc)
		if ch == absentChannel {
			v.Bind(nil)
			continue
		}
		v.Bind(rec.ChannelBytes(ch))
	}
}

// runStage drains records through one stage, honoring its mode and the
// stream back-pressure: a one-in-one-out stage runs while input is
// available and output has room; an asymmetric stage fills until it has
// pending output or input runs dry, then drains pending output until the
// output stream fills or the pending set is exhausted.
func runStage(s Stage, in RecordReader, out RecordWriter) error {
	c := s.base()

	inMap, err := mapPorts(c, Input, in)
	if err != nil {
		return err
	}
	outMap, err := mapPorts(c, Output, out)
	if err != nil {
		return err
	}

	if s.OneInOneOut() {
		for !in.Empty() && !out.Full() {
			rec, err := in.Front()
			if err != nil {
				return fmt.Errorf("%s: %w", c.name, err)
			}
			bindPorts(c, Input, rec, inMap)
			orec, err := out.Push()
			if err != nil {
				return fmt.Errorf("%s: %w", c.name, err)
			}
			bindPorts(c, Output, orec, outMap)

			if err := s.RunOne(); err != nil {
				return fmt.Errorf("%s: %w", c.name, err)
			}
			if err := in.Pop(); err != nil {
				return fmt.Errorf("%s: %w", c.name, err)
			}
			c.consumed++
			c.produced++
		}
		return nil
	}

	for !in.Empty() && !s.HasPendingOutput() {
		rec, err := in.Front()
		if err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
		bindPorts(c, Input, rec, inMap)
		if err := s.ConsumeOneInput(); err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
		if err := in.Pop(); err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
		c.consumed++
	}

	for !out.Full() && s.HasPendingOutput() {
		orec, err := out.Push()
		if err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
		bindPorts(c, Output, orec, outMap)
		if err := s.ProduceOneOutput(); err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
		c.produced++
	}
	return nil
}
