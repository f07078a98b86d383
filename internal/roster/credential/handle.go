package credential

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strings"
	"unicode"

	dErrors "canvass/pkg/domain-errors"
)

// GenerateCredentialPair derives a login email from the display name and
// pairs it with a fresh random password. Uniqueness among alive accounts is
// guaranteed by construction: the numeric suffix is derived from
// SHA-256(slug, attempt) and the suffix length grows as attempts accumulate,
// so the search space widens deterministically instead of relying on
// unbounded random retry.
func (m *Manager) GenerateCredentialPair(ctx context.Context, name string) (email, plain string, err error) {
	slug := slugify(name)
	if slug == "" {
		return "", "", dErrors.New(dErrors.CodeValidation, "display name yields no usable handle")
	}

	for attempt := 0; ; attempt++ {
		candidate := fmt.Sprintf("%s%s@%s", slug, suffixFor(slug, attempt), m.domain)
		used, err := m.store.EmailInUse(ctx, candidate)
		if err != nil {
			return "", "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to check email availability")
		}
		if !used {
			email = candidate
			break
		}
	}

	plain, err = GeneratePassword()
	if err != nil {
		return "", "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate password")
	}
	return email, plain, nil
}

// suffixFor maps (slug, attempt) to a numeric suffix. Four digits initially;
// one more digit every eight attempts, so collisions cannot exhaust the
// space.
func suffixFor(slug string, attempt int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", slug, attempt)))
	n := binary.BigEndian.Uint64(sum[:8])
	digits := 4 + attempt/8
	mod := uint64(1)
	for i := 0; i < digits; i++ {
		mod *= 10
	}
	return fmt.Sprintf("%0*d", digits, n%mod)
}

func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) && r < 128:
			b.WriteRune(r)
		case unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}
	slug := b.String()
	if len(slug) > 20 {
		slug = slug[:20]
	}
	return slug
}
