package pages

import (
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
)

// computeFingerprint hashes the frontmatter (minus any stored fingerprint) and body.
// Templates use it for cache-busting and the preview server logs it on change.
func computeFingerprint(fields map[string]any, body string) (string, error) {
	hashed := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == mdfp.FingerprintField {
			continue
		}
		hashed[k] = v
	}

	serialized := ""
	if len(hashed) > 0 {
		out, err := frontmatter.Marshal(hashed)
		if err != nil {
			return "", err
		}
		serialized = strings.TrimSuffix(string(out), "\n")
	}
	return mdfp.CalculateFingerprintFromParts(serialized, body), nil
}
