package zen

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

func registerStringBuiltins(in *Interpreter) {
	for name, fn := range map[string]BuiltinFunc{
		"upper":      stringMap(strings.ToUpper),
		"lower":      stringMap(strings.ToLower),
		"trim":       stringMap(strings.TrimSpace),
		"capitalize": stringMap(capitalize),
		"split":      builtinSplit,
		"replace":    builtinReplace,
		"startsWith": stringPredicate(strings.HasPrefix),
		"endsWith":   stringPredicate(strings.HasSuffix),
		"contains":   stringPredicate(strings.Contains),
		"substring":  builtinSubstring,
		"charAt":     builtinCharAt,
		"repeat":     builtinRepeat,
		"padStart":   padBuiltin(true),
		"padEnd":     padBuiltin(false),
		"titleCase":  stringMap(titleCase),
		"slugify":    stringMap(slugify),
		"count":      builtinCount,
		"truncate":   builtinTruncate,
	} {
		in.RegisterBuiltin(name, fn)
	}
}

func stringMap(fn func(string) string) BuiltinFunc {
	return func(_ *Interpreter, args []Value) (Value, error) {
		return NewString(fn(Arg(args, 0).String())), nil
	}
}

func stringPredicate(fn func(s, sub string) bool) BuiltinFunc {
	return func(_ *Interpreter, args []Value) (Value, error) {
		return NewBool(fn(Arg(args, 0).String(), Arg(args, 1).String())), nil
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// builtinSplit splits on a single space by default; an empty separator
// splits into characters.
func builtinSplit(_ *Interpreter, args []Value) (Value, error) {
	text := Arg(args, 0).String()
	sep := " "
	if len(args) > 1 && !args[1].IsNull() {
		sep = args[1].String()
	}
	parts := strings.Split(text, sep)
	out := make([]Value, len(parts))
	for i, p := range parts {
		out[i] = NewString(p)
	}
	return NewArray(out), nil
}

func builtinReplace(_ *Interpreter, args []Value) (Value, error) {
	return NewString(strings.ReplaceAll(Arg(args, 0).String(), Arg(args, 1).String(), Arg(args, 2).String())), nil
}

func builtinSubstring(_ *Interpreter, args []Value) (Value, error) {
	runes := []rune(Arg(args, 0).String())
	start, end := sliceBounds(len(runes), Arg(args, 1), Arg(args, 2))
	return NewString(string(runes[start:end])), nil
}

// builtinCharAt returns "" for an out-of-range index.
func builtinCharAt(_ *Interpreter, args []Value) (Value, error) {
	runes := []rune(Arg(args, 0).String())
	i, err := resolveIndex(Arg(args, 1), len(runes))
	if err != nil {
		return NewString(""), nil
	}
	return NewString(string(runes[i])), nil
}

// maxRepeatBytes bounds strings built by repetition.
const maxRepeatBytes = 1 << 28

// RepeatString is strings.Repeat with a size ceiling. Counts below one give
// the empty string.
func RepeatString(s string, n int64) (string, error) {
	if n <= 0 || s == "" {
		return "", nil
	}
	if n > maxRepeatBytes/int64(len(s)) {
		return "", NewError(ErrRuntime, "repeat count too large")
	}
	return strings.Repeat(s, int(n)), nil
}

func builtinRepeat(_ *Interpreter, args []Value) (Value, error) {
	out, err := RepeatString(Arg(args, 0).String(), Arg(args, 1).Int())
	if err != nil {
		return NewNull(), err
	}
	return NewString(out), nil
}

func padBuiltin(left bool) BuiltinFunc {
	return func(_ *Interpreter, args []Value) (Value, error) {
		text := Arg(args, 0).String()
		width := int(Arg(args, 1).Int())
		fill := " "
		if len(args) > 2 && args[2].String() != "" {
			fill = args[2].String()
		}
		n := width - utf8.RuneCountInString(text)
		if n <= 0 {
			return NewString(text), nil
		}
		repeated, err := RepeatString(fill, int64(n))
		if err != nil {
			return NewNull(), err
		}
		pad := []rune(repeated)[:n]
		if left {
			return NewString(string(pad) + text), nil
		}
		return NewString(text + string(pad)), nil
	}
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest.
func titleCase(s string) string {
	var b strings.Builder
	inWord := false
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r):
			inWord = false
		case inWord:
			r = unicode.ToLower(r)
		default:
			r = unicode.ToUpper(r)
			inWord = true
		}
		b.WriteRune(r)
	}
	return b.String()
}

func slugify(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "-")
}

func builtinCount(_ *Interpreter, args []Value) (Value, error) {
	return NewInt(int64(strings.Count(Arg(args, 0).String(), Arg(args, 1).String()))), nil
}

// builtinTruncate cuts text to length characters and appends suffix
// ("..." by default) when anything was cut.
func builtinTruncate(_ *Interpreter, args []Value) (Value, error) {
	runes := []rune(Arg(args, 0).String())
	n := int(max(Arg(args, 1).Int(), 0))
	if len(runes) <= n {
		return NewString(string(runes)), nil
	}
	suffix := "..."
	if v := Arg(args, 2); !v.IsNull() {
		suffix = v.String()
	}
	return NewString(string(runes[:n]) + suffix), nil
}
