package codec

import "strings"

// DefaultDelimiter joins credit card numbers into one scalar.
const DefaultDelimiter = "-"

// Delimited joins an ordered token list into a single string.
// Tokens must not contain Sep; the codec does not check.
type Delimited struct {
	Sep string
}

var _ Codec[[]string] = Delimited{}

func (d Delimited) Encode(tokens []string) string {
	return strings.Join(tokens, d.sep())
}

// Decode splits on Sep and drops empty segments, so "" yields an empty list.
func (d Delimited) Decode(s string) ([]string, error) {
	parts := strings.Split(s, d.sep())
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (d Delimited) sep() string {
	if d.Sep == "" {
		return DefaultDelimiter
	}
	return d.Sep
}
