package filter

import "strings"

// Kind distinguishes allow tokens from deny tokens.
type Kind int

const (
	Allow Kind = iota
	Deny
)

func (k Kind) String() string {
	if k == Deny {
		return "deny"
	}
	return "allow"
}

// Token is one parsed filter list entry.
type Token struct {
	Kind Kind
	Name string
}

// String renders the token in its configuration form.
func (t Token) String() string {
	if t.Kind == Deny {
		return "!" + t.Name
	}
	return t.Name
}

// Tokens is a parsed filter list. A nil list means no filter was provided.
type Tokens []Token

// ParseTokens converts raw filter entries into tokens. "!name" denies name,
// any other entry allows it. Entries are trimmed and empty entries dropped.
func ParseTokens(raw []string) Tokens {
	var tokens Tokens
	for _, entry := range raw {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if name, ok := strings.CutPrefix(entry, "!"); ok {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			tokens = append(tokens, Token{Kind: Deny, Name: name})
			continue
		}
		tokens = append(tokens, Token{Kind: Allow, Name: entry})
	}
	return tokens
}

// DenyOnly reports whether the list holds no allow token.
func (ts Tokens) DenyOnly() bool {
	for _, t := range ts {
		if t.Kind == Allow {
			return false
		}
	}
	return true
}

// Strings renders the list back to its configuration form.
func (ts Tokens) Strings() []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.String())
	}
	return out
}

func (ts Tokens) find(kind Kind, name string) (Token, bool) {
	for _, t := range ts {
		if t.Kind == kind && t.Name == name {
			return t, true
		}
	}
	return Token{}, false
}
