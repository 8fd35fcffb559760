package softpipe

// FifoStream is a bounded ring of packed records used for inter-stage
// communication. Channels (the fields of the record schema) are declared
// before capacity is set; SetCapacity allocates the backing store.
//
// The ring sacrifices one slot so that empty and full are distinguishable
// in O(1): capacity = configured maximum + 1, empty iff begin == end, full
// iff (end+1) mod capacity == begin.
//
// A FifoStream is single-producer single-consumer within the pipeline
// driver and is not safe for concurrent use.
type FifoStream struct {
	layout  StructType
	storage []byte
	cap     int
	begin   int
	end     int
}

// AddChannel declares a record field and returns its channel index.
// All channels must be declared before SetCapacity.
func (f *FifoStream) AddChannel(sem Semantic, typ ScalarType) (int, error) {
	return f.layout.AddField(sem, typ)
}

// ChannelIndex returns the channel index for the given semantic, or
// NumChannels when absent.
func (f *FifoStream) ChannelIndex(sem Semantic) int {
	return f.layout.FieldIndex(sem)
}

// NumChannels returns the number of declared channels.
func (f *FifoStream) NumChannels() int {
	return f.layout.NumFields()
}

// ChannelType returns the scalar type of channel i.
func (f *FifoStream) ChannelType(i int) ScalarType {
	return f.layout.FieldType(i)
}

// Layout returns the record schema.
func (f *FifoStream) Layout() *StructType {
	return &f.layout
}

// ResetChannels removes all channels. The stream must be given a new
// capacity before use.
func (f *FifoStream) ResetChannels() {
	f.layout.Reset()
	f.storage = nil
	f.cap = 0
	f.begin = 0
	f.end = 0
}

// SetCapacity allocates backing storage for up to max records and resets
// the ring to empty. Prior contents are lost.
func (f *FifoStream) SetCapacity(max int) {
	f.cap = max + 1
	f.storage = make([]byte, f.cap*f.layout.Size())
	f.begin = 0
	f.end = 0
}

// Len returns the number of queued records.
func (f *FifoStream) Len() int {
	return (f.end - f.begin + f.cap) % f.cap
}

// Empty reports whether no records are queued.
func (f *FifoStream) Empty() bool {
	return f.begin == f.end
}

// Full reports whether no free slot remains.
func (f *FifoStream) Full() bool {
	return (f.end+1)%f.cap == f.begin
}

func (f *FifoStream) slot(i int) StructValue {
	stride := f.layout.Size()
	return StructValue{typ: &f.layout, buf: f.storage[i*stride : (i+1)*stride]}
}

// Push claims the tail slot and returns a record referencing it.
// It fails with ErrStreamOverflow when the ring is full.
func (f *FifoStream) Push() (Record, error) {
	if f.Full() {
		return nil, ErrStreamOverflow
	}
	rec := f.slot(f.end)
	f.end = (f.end + 1) % f.cap
	return rec, nil
}

// Front returns the head record without consuming it.
// It fails with ErrStreamUnderflow when the ring is empty.
func (f *FifoStream) Front() (Record, error) {
	if f.Empty() {
		return nil, ErrStreamUnderflow
	}
	return f.slot(f.begin), nil
}

// Pop consumes the head record.
// It fails with ErrStreamUnderflow when the ring is empty.
func (f *FifoStream) Pop() error {
	if f.Empty() {
		return ErrStreamUnderflow
	}
	f.begin = (f.begin + 1) % f.cap
	return nil
}

// StreamBuffer is a non-owning random-access view over a FifoStream's
// backing store. The rasterizer uses it to address post-vertex-shader
// records by vertex index.
//
// The view indexes storage slots directly from the start of the ring, so it
// is only meaningful for a stream that was filled from a fresh SetCapacity
// without wrapping — which is how the driver produces the vertex shader
// output stream.
type StreamBuffer struct {
	layout  *StructType
	storage []byte
	length  int
}

// NewStreamBuffer returns a buffer view of the stream's current contents.
func NewStreamBuffer(f *FifoStream) StreamBuffer {
	return StreamBuffer{layout: &f.layout, storage: f.storage, length: f.Len()}
}

// Len returns the number of addressable records.
func (b StreamBuffer) Len() int {
	return b.length
}

// Layout returns the record schema.
func (b StreamBuffer) Layout() *StructType {
	return b.layout
}

// At returns the record at the given index.
func (b StreamBuffer) At(i int) StructValue {
	stride := b.layout.Size()
	return StructValue{typ: b.layout, buf: b.storage[i*stride : (i+1)*stride]}
}
