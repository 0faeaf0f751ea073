package console

import (
	"regexp"
	"strconv"
	"strings"
)

// Range is one parsed index range. End < 0 means open-ended ("start..").
type Range struct {
	Start int
	End   int
}

// Contains reports whether n falls into the range.
func (r Range) Contains(n int) bool {
	if n < r.Start {
		return false
	}
	return r.End < 0 || n <= r.End
}

// RangeList is an ordered set of parsed ranges.
type RangeList []Range

// IsInRange reports whether any range contains n.
func (rl RangeList) IsInRange(n int) bool {
	for _, r := range rl {
		if r.Contains(n) {
			return true
		}
	}
	return false
}

// Empty reports whether no valid range was parsed.
func (rl RangeList) Empty() bool { return len(rl) == 0 }

var rangeToken = regexp.MustCompile(`^(\d+)?\s*(-)?\s*(\d+)?$`)

// ParseRanges parses a comma-separated range list:
//
//	"3"     a single value
//	"3-5"   a closed range (reversed bounds are swapped)
//	"3-"    open-ended from 3
//	"-5"    everything up to 5
//	"-"     everything
//
// Malformed tokens are skipped.
func ParseRanges(s string) RangeList {
	var out RangeList
	for _, token := range strings.Split(s, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		m := rangeToken.FindStringSubmatch(token)
		if m == nil {
			continue
		}
		lead, sep, trail := m[1], m[2], m[3]
		switch {
		case lead == "" && trail == "":
			// bare separator matches everything
			out = append(out, Range{Start: 0, End: -1})
		case sep == "" && trail == "":
			n, _ := strconv.Atoi(lead)
			out = append(out, Range{Start: n, End: n})
		case lead != "" && trail != "":
			start, _ := strconv.Atoi(lead)
			end, _ := strconv.Atoi(trail)
			if end < start {
				start, end = end, start
			}
			out = append(out, Range{Start: start, End: end})
		case lead != "":
			start, _ := strconv.Atoi(lead)
			out = append(out, Range{Start: start, End: -1})
		default:
			end, _ := strconv.Atoi(trail)
			out = append(out, Range{Start: 0, End: end})
		}
	}
	return out
}
