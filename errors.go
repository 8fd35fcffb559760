package softpipe

import "errors"

// Errors reported by the pipeline and its building blocks. All of them are
// terminal for the current draw call; no recovery is attempted. Errors
// surfaced by the pipeline API wrap one of these sentinels together with the
// name of the detecting stage, so callers can match with errors.Is.
var (
	// ErrDuplicateSemantic is returned when a semantic is registered twice
	// within one struct schema or one port direction.
	ErrDuplicateSemantic = errors.New("softpipe: duplicate semantic")

	// ErrUnknownPort is returned by port lookups when no port matches the
	// given name or semantic.
	ErrUnknownPort = errors.New("softpipe: unknown port")

	// ErrUnsupportedType is returned for scalar types that carry no storage
	// layout (Half is reserved but unimplemented) or no arithmetic.
	ErrUnsupportedType = errors.New("softpipe: unsupported scalar type")

	// ErrTypeMismatch is returned when value references of different scalar
	// types meet in one operation, or when a stream channel disagrees with
	// the port bound to it.
	ErrTypeMismatch = errors.New("softpipe: scalar type mismatch")

	// ErrStreamOverflow is returned by FifoStream.Push when the ring is full.
	ErrStreamOverflow = errors.New("softpipe: stream overflow")

	// ErrStreamUnderflow is returned by FifoStream.Front and Pop when the
	// ring is empty.
	ErrStreamUnderflow = errors.New("softpipe: stream underflow")

	// ErrMissingRequiredInput is returned when a port with a system-value
	// semantic cannot be matched to any channel of its input stream.
	ErrMissingRequiredInput = errors.New("softpipe: missing required input")

	// ErrConfig is returned when the pipeline configuration is incomplete or
	// inconsistent: no programs bound, a non-positive target size, the vertex program
	// not emitting SV_Position, or an unsupported primitive topology.
	ErrConfig = errors.New("softpipe: invalid pipeline configuration")

	// ErrStageMode is returned when a one-in-one-out entry point is invoked
	// on an asymmetric component or vice versa. It indicates a driver bug.
	ErrStageMode = errors.New("softpipe: operation not valid for stage mode")
)
