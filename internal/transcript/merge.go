package transcript

import "strings"

// Merge partitions segments into consecutive groups of groupSize and joins
// each group into one Chunk: start of the first member, texts joined by a
// single space. The trailing group may be smaller than groupSize; it is
// merged into a final chunk the same way, never dropped.
//
// groupSize below 1 is treated as 1. Empty input yields nil.
func Merge(segments []Segment, groupSize int) []Chunk {
	if len(segments) == 0 {
		return nil
	}
	if groupSize < 1 {
		groupSize = 1
	}

	chunks := make([]Chunk, 0, (len(segments)+groupSize-1)/groupSize)
	for i := 0; i < len(segments); i += groupSize {
		end := min(i+groupSize, len(segments))
		group := segments[i:end]

		texts := make([]string, len(group))
		for j, seg := range group {
			texts[j] = seg.Text
		}

		chunks = append(chunks, Chunk{
			Start: group[0].Start,
			Text:  strings.Join(texts, " "),
		})
	}

	return chunks
}

// Remerge re-applies Merge to already merged chunks, coarsening the chunking.
// Callers invoke this explicitly when they want larger units; Merge itself
// never coarsens its own output.
func Remerge(chunks []Chunk, groupSize int) []Chunk {
	segments := make([]Segment, len(chunks))
	for i, c := range chunks {
		segments[i] = Segment{Start: c.Start, Text: c.Text}
	}
	return Merge(segments, groupSize)
}
