package softpipe

// Record is one element of a stream: a set of channel storage windows.
// Concrete records are either packed FIFO slots (StructValue) or views into
// host-supplied vertex/index buffers.
type Record interface {
	// ChannelBytes returns the storage window of the given channel. The
	// window extends at least to the width of the channel's data; adapter
	// records over strided host buffers may return longer windows.
	ChannelBytes(channel int) []byte
}

// RecordReader is the consumer side of a stream. The driver resolves
// component input ports against the stream's channels by semantic, then
// drains records one at a time.
type RecordReader interface {
	// NumChannels returns the number of declared channels.
	NumChannels() int
	// ChannelIndex returns the index of the channel with the given
	// semantic, or NumChannels when absent.
	ChannelIndex(sem Semantic) int
	// Empty reports whether no records remain.
	Empty() bool
	// Front returns the head record without consuming it.
	Front() (Record, error)
	// Pop consumes the head record.
	Pop() error
}

// RecordWriter is the producer side of a stream.
type RecordWriter interface {
	// NumChannels returns the number of declared channels.
	NumChannels() int
	// ChannelIndex returns the index of the channel with the given
	// semantic, or NumChannels when absent.
	ChannelIndex(sem Semantic) int
	// Full reports whether no free slot remains.
	Full() bool
	// Push claims the next free slot and returns a record referencing it.
	Push() (Record, error)
}
