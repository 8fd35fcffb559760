package softpipe

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// bufferChannel describes one host-supplied attribute stream: a semantic, a
// base window into the host buffer and the distance between consecutive
// elements.
type bufferChannel struct {
	semantic Semantic
	data     []byte
	stride   int
}

// InputAssembler owns the draw call's buffer bindings: one channel
// descriptor per vertex attribute plus a single index buffer descriptor.
// At draw time it hands out read-only stream adapters over those buffers;
// the buffers themselves remain owned by the caller for the duration of
// the draw.
type InputAssembler struct {
	vertexChannels []bufferChannel
	vertexLen      int

	index    bufferChannel
	indexLen int
}

// SetVertexBufferChannel binds a vertex attribute channel. Rebinding an
// already present semantic replaces its descriptor.
func (ia *InputAssembler) SetVertexBufferChannel(sem Semantic, data []byte, offset, stride int) {
	for i := range ia.vertexChannels {
		if ia.vertexChannels[i].semantic == sem {
			ia.vertexChannels[i].data = data[offset:]
			ia.vertexChannels[i].stride = stride
			return
		}
	}
	ia.vertexChannels = append(ia.vertexChannels, bufferChannel{
		semantic: sem,
		data:     data[offset:],
		stride:   stride,
	})
}

// SetVertexBufferLength sets the number of vertices in the bound channels.
func (ia *InputAssembler) SetVertexBufferLength(n int) {
	ia.vertexLen = n
}

// VertexBufferChannel returns the bound descriptor for the given semantic.
func (ia *InputAssembler) VertexBufferChannel(sem Semantic) (data []byte, stride int, ok bool) {
	for _, ch := range ia.vertexChannels {
		if ch.semantic == sem {
			return ch.data, ch.stride, true
		}
	}
	return nil, 0, false
}

// SetIndexBuffer binds the index buffer.
func (ia *InputAssembler) SetIndexBuffer(data []byte, offset, stride, length int) {
	ia.index = bufferChannel{semantic: SVVertexIndex, data: data[offset:], stride: stride}
	ia.indexLen = length
}

// SetupVertexStream initializes s as a drain-only stream over the bound
// vertex channels and marks all vertices unprocessed.
func (ia *InputAssembler) SetupVertexStream(s *VertexStream) {
	s.channels = append(s.channels[:0], ia.vertexChannels...)
	s.length = ia.vertexLen
	s.processed = 0
}

// SetupIndexStream initializes s as a drain-only stream over the whole
// bound index buffer.
func (ia *InputAssembler) SetupIndexStream(s *IndexStream) {
	ia.SetupIndexStreamRange(s, 0, ia.indexLen)
}

// SetupIndexStreamRange initializes s over count indices starting at start.
func (ia *InputAssembler) SetupIndexStreamRange(s *IndexStream, start, count int) {
	s.channel = ia.index
	if len(ia.index.data) > 0 {
		s.channel.data = ia.index.data[start*ia.index.stride:]
	}
	s.length = count
	s.processed = 0
}

// VertexStream presents the bound vertex buffer channels as a drain-only
// record stream. Each record's channel windows point straight into the host
// buffers.
type VertexStream struct {
	channels  []bufferChannel
	length    int
	processed int
}

// NumChannels returns the number of bound attribute channels.
func (s *VertexStream) NumChannels() int { return len(s.channels) }

// ChannelIndex returns the channel carrying the given semantic, or
// NumChannels when absent.
func (s *VertexStream) ChannelIndex(sem Semantic) int {
	for i, ch := range s.channels {
		if ch.semantic == sem {
			return i
		}
	}
	return len(s.channels)
}

// Len returns the number of unprocessed vertices.
func (s *VertexStream) Len() int { return s.length - s.processed }

// Empty reports whether all vertices have been processed.
func (s *VertexStream) Empty() bool { return s.processed == s.length }

// Full reports whether no vertex has been processed yet.
func (s *VertexStream) Full() bool { return s.processed == 0 }

// Front returns a record over the next unprocessed vertex.
func (s *VertexStream) Front() (Record, error) {
	if s.Empty() {
		return nil, ErrStreamUnderflow
	}
	return vertexRecord{stream: s, index: s.processed}, nil
}

// Pop marks the current vertex processed.
func (s *VertexStream) Pop() error {
	if s.Empty() {
		return ErrStreamUnderflow
	}
	s.processed++
	return nil
}

type vertexRecord struct {
	stream *VertexStream
	index  int
}

func (r vertexRecord) ChannelBytes(channel int) []byte {
	ch := r.stream.channels[channel]
	return ch.data[ch.stride*r.index:]
}

// IndexStream presents the bound index buffer as a drain-only record stream
// with exactly one channel, tagged SV_VertexIndex. Narrow index formats
// (stride 2) are widened to uint32 during the fetch, so consumers always
// read a full index.
type IndexStream struct {
	channel   bufferChannel
	length    int
	processed int
	scratch   [4]byte
}

// NumChannels returns 1.
func (s *IndexStream) NumChannels() int { return 1 }

// ChannelIndex returns 0 for SV_VertexIndex and the absent sentinel for
// everything else.
func (s *IndexStream) ChannelIndex(sem Semantic) int {
	if sem == SVVertexIndex {
		return 0
	}
	return s.NumChannels()
}

// Len returns the number of unprocessed indices.
func (s *IndexStream) Len() int { return s.length - s.processed }

// Empty reports whether all indices have been processed.
func (s *IndexStream) Empty() bool { return s.processed == s.length }

// Full reports whether no index has been processed yet.
func (s *IndexStream) Full() bool { return s.processed == 0 }

// Front returns a record over the next unprocessed index. The returned
// record aliases internal scratch storage and is only valid until the next
// Front call.
func (s *IndexStream) Front() (Record, error) {
	if s.Empty() {
		return nil, ErrStreamUnderflow
	}
	src := s.channel.data[s.channel.stride*s.processed:]
	width := s.channel.stride
	if width > len(s.scratch) {
		width = len(s.scratch)
	}
	s.scratch = [4]byte{}
	copy(s.scratch[:width], src)
	return indexRecord{data: s.scratch[:]}, nil
}

// Pop marks the current index processed.
func (s *IndexStream) Pop() error {
	if s.Empty() {
		return ErrStreamUnderflow
	}
	s.processed++
	return nil
}

type indexRecord struct {
	data []byte
}

func (r indexRecord) ChannelBytes(int) []byte { return r.data }

// ScalarTypeFromVertexFormat maps a WebGPU vertex format onto the pipeline's
// scalar type set. Only the float formats have counterparts here.
func ScalarTypeFromVertexFormat(f gputypes.VertexFormat) (ScalarType, error) {
	switch f {
	case gputypes.VertexFormatFloat32:
		return TypeFloat, nil
	case gputypes.VertexFormatFloat32x2:
		return TypeFloat2, nil
	case gputypes.VertexFormatFloat32x3:
		return TypeFloat3, nil
	case gputypes.VertexFormatFloat32x4:
		return TypeFloat4, nil
	default:
		return TypeUnknown, fmt.Errorf("%w: vertex format %v", ErrUnsupportedType, f)
	}
}
