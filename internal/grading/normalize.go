package grading

import (
	"strings"
)

// unicodeOps maps operator glyphs produced by some math keyboards to the
// LaTeX commands or ASCII operators the rewriter understands.
var unicodeOps = strings.NewReplacer(
	"×", `\times `,
	"·", `\cdot `,
	"÷", "/",
	"−", "-",
	"π", `\pi `,
)

// spacingCommands are LaTeX spacing macros. They carry no meaning and are
// dropped like plain whitespace.
var spacingCommands = map[string]bool{
	",": true, ";": true, ":": true, "!": true, " ": true,
}

// Normalize rewrites a LaTeX answer into the syntax accepted by Evaluate.
//
// The rewrite rules are, in priority order:
//   - backslash runs before a command collapse to one backslash
//   - \binom{n}{k} and _{n}C_{k} (any brace or \mathrm{C} variant) become combinations(n,k)
//   - \frac{a}{b} becomes (a)/(b)
//   - \sqrt{a} becomes sqrt(a)
//   - \sin{x}, \cos{x}, \tan{x} become sin(x), cos(x), tan(x)
//   - base^{exp} becomes pow(base,exp)
//   - \pi becomes pi, \times and \cdot become *
//
// Arguments are read with brace matching and rewritten recursively, so
// nested constructs such as a fraction of square roots stay balanced.
// Unknown commands pass through unchanged. Normalize never fails.
func Normalize(raw string) string {
	if len(raw) > MaxInputLength {
		return raw
	}
	return rewrite(unicodeOps.Replace(raw))
}

func rewrite(s string) string {
	var out []byte
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case isSpace(c):
			i++

		case c == '\\':
			name, j := readCommand(s, i)
			var emitted string
			emitted, i = rewriteCommand(s, name, j)
			out = append(out, emitted...)

		case c == '_':
			if comb, j, ok := readSubscriptCombination(s, i); ok {
				out = append(out, comb...)
				i = j
				continue
			}
			out = append(out, c)
			i++

		case c == '^':
			j := skipSpaces(s, i+1)
			if j < len(s) && s[j] == '{' {
				if exp, k, ok := readGroup(s, j); ok {
					var base string
					out, base = popOperand(out)
					if base == "" {
						out = append(out, "^("+rewrite(exp)+")"...)
					} else {
						out = append(out, "pow("+base+","+rewrite(exp)+")"...)
					}
					i = k
					continue
				}
			}
			out = append(out, c)
			i++

		case c == '{':
			group, j, ok := readGroup(s, i)
			if !ok {
				out = append(out, c)
				i++
				continue
			}
			// An empty group such as the one before _{n}C_{k} means nothing.
			if inner := rewrite(group); inner != "" {
				out = append(out, "("+inner+")"...)
			}
			i = j

		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

// rewriteCommand expands the command name whose arguments start at i.
// It returns the replacement text and the index after the consumed input.
func rewriteCommand(s, name string, i int) (string, int) {
	switch name {
	case "binom":
		n, j, ok := readArg(s, i)
		if !ok {
			break
		}
		k, j, ok := readArg(s, j)
		if !ok {
			break
		}
		return "combinations(" + rewrite(n) + "," + rewrite(k) + ")", j

	case "frac":
		a, j, ok := readArg(s, i)
		if !ok {
			break
		}
		b, j, ok := readArg(s, j)
		if !ok {
			break
		}
		return "((" + rewrite(a) + ")/(" + rewrite(b) + "))", j

	case "sqrt":
		a, j, ok := readArg(s, i)
		if !ok {
			break
		}
		return "sqrt(" + rewrite(a) + ")", j

	case "sin", "cos", "tan":
		j := skipSpaces(s, i)
		if j < len(s) && s[j] == '{' {
			if arg, k, ok := readGroup(s, j); ok {
				return name + "(" + rewrite(arg) + ")", k
			}
		}
		return name, i

	case "pi":
		return "pi", i

	case "times", "cdot":
		return "*", i
	}

	if spacingCommands[name] {
		return "", i
	}
	return `\` + name, i
}

// readCommand reads the command starting at the backslash at i. Any run
// of backslashes counts as one. The name is a run of letters, or a single
// non-letter character for control symbols like \, or \{.
func readCommand(s string, i int) (string, int) {
	for i < len(s) && s[i] == '\\' {
		i++
	}
	j := i
	for j < len(s) && isLetter(s[j]) {
		j++
	}
	if j == i && j < len(s) {
		j++
	}
	return s[i:j], j
}

// readArg reads one macro argument starting at i: a braced group, a
// command token, or a single character.
func readArg(s string, i int) (string, int, bool) {
	i = skipSpaces(s, i)
	if i >= len(s) {
		return "", i, false
	}
	switch s[i] {
	case '{':
		return readGroup(s, i)
	case '}':
		return "", i, false
	case '\\':
		_, j := readCommand(s, i)
		return s[i:j], j, true
	}
	return s[i : i+1], i + 1, true
}

// readGroup returns the content of the brace group opening at i and the
// index just past its closing brace.
func readGroup(s string, i int) (string, int, bool) {
	depth := 0
	for j := i; j < len(s); j++ {
		switch s[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[i+1 : j], j + 1, true
			}
		}
	}
	return "", i, false
}

// readSubscriptCombination recognizes _{n}C_{k}, _nC_k, _nCk and the
// \mathrm{C} spellings starting at the underscore at i.
func readSubscriptCombination(s string, i int) (string, int, bool) {
	n, j, ok := readArg(s, i+1)
	if !ok {
		return "", i, false
	}
	j = skipSpaces(s, j)
	switch {
	case strings.HasPrefix(s[j:], "C"):
		j++
	case strings.HasPrefix(s[j:], `\mathrm`):
		name, k := readCommand(s, j)
		if name != "mathrm" {
			return "", i, false
		}
		arg, k, ok := readArg(s, k)
		if !ok || arg != "C" {
			return "", i, false
		}
		j = k
	default:
		return "", i, false
	}
	j = skipSpaces(s, j)
	if j < len(s) && s[j] == '_' {
		j++
	}
	k, j, ok := readArg(s, j)
	if !ok {
		return "", i, false
	}
	return "combinations(" + rewrite(n) + "," + rewrite(k) + ")", j, true
}

// popOperand removes the operand that ends the already rewritten output:
// a balanced parenthesized group with its function name, a number, or an
// identifier, plus any trailing factorial marks.
func popOperand(out []byte) ([]byte, string) {
	end := len(out)
	j := end
	for j > 0 && out[j-1] == '!' {
		j--
	}
	if j == 0 {
		return out, ""
	}
	switch c := out[j-1]; {
	case c == ')':
		depth := 0
		k := j - 1
		for ; k >= 0; k-- {
			if out[k] == ')' {
				depth++
			} else if out[k] == '(' {
				depth--
				if depth == 0 {
					break
				}
			}
		}
		if k < 0 {
			return out, ""
		}
		for k > 0 && isLetter(out[k-1]) {
			k--
		}
		j = k
	case isDigit(c) || c == '.':
		for j > 0 && (isDigit(out[j-1]) || out[j-1] == '.') {
			j--
		}
	case isLetter(c):
		for j > 0 && isLetter(out[j-1]) {
			j--
		}
	default:
		return out, ""
	}
	base := string(out[j:end])
	return out[:j], base
}

func skipSpaces(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
