package memory

import "context"

// AdminVerifier checks admin credentials against a fixed token list, the
// standalone-mode counterpart of the redis-backed verifier.
type AdminVerifier struct {
	tokens map[string]struct{}
}

func NewAdminVerifier(tokens []string) *AdminVerifier {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if t != "" {
			set[t] = struct{}{}
		}
	}
	return &AdminVerifier{tokens: set}
}

func (v *AdminVerifier) VerifyAdmin(_ context.Context, token string) (bool, error) {
	_, ok := v.tokens[token]
	return ok, nil
}
