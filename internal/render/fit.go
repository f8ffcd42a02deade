package render

import "math"

// separatorBudget is the number of characters reserved for the " | "
// joining separator when computing trim allocations.
const separatorBudget = 3

const separator = " | "

// Truncate shortens s to at most max characters. Counting is per rune,
// so a multi-byte character is never split.
func Truncate(s string, max int) string {
	if max < 0 {
		max = 0
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// Fit reduces a (title, artist) pair to a single display string of
// roughly max characters. When only one side is present it is truncated
// outright. When both are present they are joined with " | "; if the
// joined form is over budget, the overshoot is split between the two
// sides in proportion to their length, with a bias toward trimming only
// one side when the numbers allow it cheaply.
//
// The fit is best-effort: the result may run slightly over max, but both
// sides stay non-empty whenever both inputs were non-empty.
func Fit(title, artist string, max int) string {
	tr := []rune(title)
	ar := []rune(artist)

	switch {
	case len(tr) == 0 && len(ar) == 0:
		return ""
	case len(tr) == 0:
		return Truncate(artist, max)
	case len(ar) == 0:
		return Truncate(title, max)
	}

	joined := title + separator + artist
	length := len(tr) + len(ar) + separatorBudget
	if length <= max {
		return joined
	}

	overshoot := float64(length - max)
	substance := float64(length - separatorBudget)

	tlen := len(tr)
	alen := len(ar)
	tnum := int(math.Ceil(overshoot * float64(tlen) / substance))
	anum := int(math.Ceil(overshoot * float64(alen) / substance))

	// Prefer to trim only one of the two sides. Both branches are
	// decided against the proportional allocations computed above, so
	// at most one can fire.
	switch {
	case anum < tnum && anum <= separatorBudget && tnum+anum < tlen:
		tnum, anum = tnum+anum, 0
	case tnum < anum && tnum <= separatorBudget && anum+tnum < alen:
		anum, tnum = anum+tnum, 0
	}

	tkeep := clampKeep(tlen-tnum, tlen)
	akeep := clampKeep(alen-anum, alen)

	return string(tr[:tkeep]) + separator + string(ar[:akeep])
}

// clampKeep bounds a keep-length to [1, original]: a non-empty side is
// never trimmed away entirely, and never padded past its own length.
func clampKeep(keep, original int) int {
	if keep < 1 {
		return 1
	}
	if keep > original {
		return original
	}
	return keep
}
