// Package kvpair parses key=value command line tokens into request body fields.
package kvpair

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedPair is returned for tokens that do not split into a non-empty
// key and a non-empty value.
var ErrMalformedPair = errors.New("malformed key=value pair")

// Pair is one key=value token from the command line.
type Pair struct {
	Key   string
	Value string
}

// Pairs keeps the tokens in command line order.
type Pairs []Pair

// Parse splits token on the first '='. Everything after it, including any
// further '=' characters, is the value.
func Parse(token string) (Pair, error) {
	key, value, found := strings.Cut(token, "=")
	if !found || key == "" || value == "" {
		return Pair{}, fmt.Errorf("failed to parse %q: %w", token, ErrMalformedPair)
	}
	return Pair{Key: key, Value: value}, nil
}

// ParseAll parses every token and stops at the first malformed one.
func ParseAll(tokens []string) (Pairs, error) {
	pairs := make(Pairs, 0, len(tokens))
	for _, token := range tokens {
		p, err := Parse(token)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

func (p Pair) String() string {
	return p.Key + "=" + p.Value
}

// Map returns the pairs keyed by name. Later pairs overwrite earlier ones.
func (ps Pairs) Map() map[string]string {
	m := make(map[string]string, len(ps))
	for _, p := range ps {
		m[p.Key] = p.Value
	}
	return m
}

// MapValues applies fn to every value and returns the transformed copy.
func (ps Pairs) MapValues(fn func(string) string) Pairs {
	out := make(Pairs, len(ps))
	for i, p := range ps {
		out[i] = Pair{Key: p.Key, Value: fn(p.Value)}
	}
	return out
}

// Body encodes the pairs as a flat JSON object of strings.
func Body(ps Pairs) ([]byte, error) {
	data, err := json.Marshal(ps.Map())
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}
	return data, nil
}
