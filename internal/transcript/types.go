// Package transcript provides the transcript chunking and timecode logic.
// Everything in this package is pure: no I/O, deterministic output.
package transcript

// DefaultChunkSize is the number of raw segments merged into one chunk.
const DefaultChunkSize = 3

// Segment is one spoken unit of a video transcript as returned by the
// caption source. Segments are ephemeral and never persisted directly.
type Segment struct {
	// Start is the offset of the segment in seconds from the video start.
	Start float64
	// Text is the spoken text of the segment.
	Text string
}

// Chunk is a merged group of consecutive segments, the unit that gets
// indexed and searched. Start is the start of the first constituent segment.
type Chunk struct {
	Start float64
	Text  string
}
