package selection

// Match reports whether name matches the blacklist pattern.
//
// The pattern grammar follows the backend's own glob semantics rather
// than path.Match: `*` matches any run of characters including path
// separators, `?` matches a single character, and `[...]` matches a
// character class with optional ranges and `!` or `^` negation. A `]`
// immediately after the opening bracket (or after the negation) is a
// literal member of the class.
//
// Match is pure and total. It never returns an error: a class with no
// closing bracket is treated as a literal `[` character.
func Match(pattern, name string) bool {
	p := []rune(pattern)
	s := []rune(name)

	pi, si := 0, 0
	starPi, starSi := -1, -1

	for si < len(s) {
		if pi < len(p) {
			consumed := false
			switch c := p[pi]; c {
			case '*':
				// Remember the star so a later mismatch can retry
				// with it absorbing one more rune.
				starPi, starSi = pi, si
				pi++
				continue
			case '?':
				consumed = true
			case '[':
				in, next := matchClass(p, pi, s[si])
				if next > pi {
					if in {
						pi = next
						si++
						continue
					}
				} else if s[si] == '[' {
					// Unterminated class: literal bracket.
					consumed = true
				}
			default:
				consumed = c == s[si]
			}
			if consumed {
				pi++
				si++
				continue
			}
		}
		if starPi >= 0 {
			starSi++
			pi, si = starPi+1, starSi
			continue
		}
		return false
	}

	// Trailing stars match the empty remainder.
	for pi < len(p) && p[pi] == '*' {
		pi++
	}
	return pi == len(p)
}

// MatchAny reports whether name matches any of the patterns. Patterns
// have no precedence among each other; any match excludes.
func MatchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if Match(pattern, name) {
			return true
		}
	}
	return false
}

// matchClass evaluates the character class opening at p[start] against r.
// It returns class membership and the index just past the closing `]`.
// next == start signals an unterminated class.
func matchClass(p []rune, start int, r rune) (in bool, next int) {
	i := start + 1
	negate := false
	if i < len(p) && (p[i] == '!' || p[i] == '^') {
		negate = true
		i++
	}

	matched := false
	first := true
	for {
		if i >= len(p) {
			return false, start
		}
		if p[i] == ']' && !first {
			break
		}
		first = false

		lo := p[i]
		i++
		hi := lo
		if i+1 < len(p) && p[i] == '-' && p[i+1] != ']' {
			hi = p[i+1]
			i += 2
		}
		if lo <= r && r <= hi {
			matched = true
		}
	}
	return matched != negate, i + 1
}
