package encmode

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Segment is one contiguous run of input encoded in a single mode.
type Segment struct {
	Mode  Mode
	Bytes []byte
}

const infCost = 1 << 30

// Segmentize runs the Viterbi-style dynamic program over data and returns
// the minimum-bit sequence of mode segments. Byte mode is always a valid
// fallback for any byte, so a solution always exists. A run longer than its
// mode's length field can express is split into consecutive segments of
// the same mode.
func Segmentize(data []byte) []Segment {
	n := len(data)
	if n == 0 {
		return nil
	}

	modes := append(append([]Mode{}, TextModes...), Byte)
	numModes := len(modes)

	// dp[i][mi] = minimum bits to encode data[:i] such that the open
	// segment ending at i is in mode modes[mi]; back[i][mi] records
	// whether that arrived via "continue" or "start new segment from
	// prevMode".
	dp := make([][]int, n+1)
	back := make([][]int, n+1) // -1 = continue, else index of previous mode that started this segment
	for i := range dp {
		dp[i] = make([]int, numModes)
		back[i] = make([]int, numModes)
		for mi := range dp[i] {
			dp[i][mi] = infCost
			back[i][mi] = -2
		}
	}

	for mi, m := range modes {
		if _, ok := CharIndex(m, data[0]); ok {
			dp[1][mi] = HeaderBits(m) + BitsPerSymbol(m)
			back[1][mi] = -1 // segment starts here: no predecessor mode
		}
	}

	for i := 1; i < n; i++ {
		// Best total cost to have just closed a segment at position i,
		// regardless of which mode it was in (needed to start a new one).
		bestPrev := infCost
		bestPrevMode := 0
		for mi := range modes {
			if dp[i][mi] < bestPrev {
				bestPrev = dp[i][mi]
				bestPrevMode = mi
			}
		}

		for mi, m := range modes {
			if _, ok := CharIndex(m, data[i]); !ok {
				continue
			}
			// Continue the same open segment.
			if dp[i][mi] < infCost {
				cont := dp[i][mi] + BitsPerSymbol(m)
				if cont < dp[i+1][mi] {
					dp[i+1][mi] = cont
					back[i+1][mi] = -1
				}
			}
			// Start a fresh segment in mode m right after the best
			// segment ending at i.
			fresh := bestPrev + HeaderBits(m) + BitsPerSymbol(m)
			if fresh < dp[i+1][mi] {
				dp[i+1][mi] = fresh
				back[i+1][mi] = bestPrevMode
			}
		}
	}

	// Pick the cheapest mode to end on at n.
	bestMode := 0
	bestCost := infCost
	for mi := range modes {
		if dp[n][mi] < bestCost {
			bestCost = dp[n][mi]
			bestMode = mi
		}
	}

	var segments []Segment
	for _, s := range rebuildSegments(data, back, modes, bestMode) {
		maxLen := 1<<uint(LengthBits(s.Mode)) - 1
		for len(s.Bytes) > maxLen {
			segments = append(segments, Segment{Mode: s.Mode, Bytes: s.Bytes[:maxLen]})
			s.Bytes = s.Bytes[maxLen:]
		}
		segments = append(segments, s)
	}
	return segments
}

// rebuildSegments walks the back-pointer table from position n to 0: at
// each position with the active mode, it walks back while the pointer says
// "continue" (-1), then jumps to the predecessor mode that opened the
// segment, emitting one Segment per contiguous run.
func rebuildSegments(data []byte, back [][]int, modes []Mode, bestMode int) []Segment {
	n := len(data)
	var rev []Segment

	pos := n
	mi := bestMode
	for pos > 0 {
		start := pos
		for start > 1 && back[start][mi] == -1 {
			start--
		}
		// back[start][mi] opened this segment, whose first byte is data[start-1].
		rev = append(rev, Segment{Mode: modes[mi], Bytes: append([]byte(nil), data[start-1:pos]...)})
		prev := back[start][mi]
		pos = start - 1
		if prev < 0 {
			break
		}
		mi = prev
	}

	segments := make([]Segment, len(rev))
	for i, s := range rev {
		segments[len(rev)-1-i] = s
	}
	return segments
}

// ByteModeOptions configures how raw bytes passed to Byte-mode segments are
// reinterpreted before being packed, mirroring the way rsc.io/qr's coding
// package imports golang.org/x/text/encoding/japanese for its Kanji mode:
// this lets genuinely textual payloads in a non-UTF-8 charset pack via the
// charset's native bytes instead of being forced through the UTF-8 Byte
// path byte-for-byte.
type ByteModeOptions struct {
	Charset Charset
}

// Charset selects a golang.org/x/text encoding for Byte-mode payloads.
type Charset int

const (
	CharsetUTF8 Charset = iota
	CharsetISO8859_1
	CharsetUTF16
)

func (c Charset) encoding() encoding.Encoding {
	switch c {
	case CharsetISO8859_1:
		return charmap.ISO8859_1
	case CharsetUTF16:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	default:
		return nil
	}
}

// TranscodeForByteMode re-encodes s from UTF-8 into the configured charset
// before it is segmented as a Byte-mode run. With CharsetUTF8 (the
// default) it returns s unchanged.
func TranscodeForByteMode(s []byte, opts ByteModeOptions) ([]byte, error) {
	enc := opts.Charset.encoding()
	if enc == nil {
		return s, nil
	}
	return enc.NewEncoder().Bytes(s)
}
