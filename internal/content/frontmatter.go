package content

import (
	"bytes"
	"strings"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// hasFrontMatter reports whether content opens with a closed YAML front
// matter block. An opening delimiter without a closing one is a thematic
// break, not front matter.
func hasFrontMatter(content []byte) bool {
	nl := "\n"
	if bytes.HasPrefix(content, []byte(delimiter+"\r\n")) {
		nl = "\r\n"
	} else if !bytes.HasPrefix(content, []byte(delimiter+"\n")) {
		return false
	}
	rest := content[len(delimiter)+len(nl):]
	if bytes.HasPrefix(rest, []byte(delimiter+nl)) {
		return true
	}
	return bytes.Contains(rest, []byte(nl+delimiter+nl))
}

// fingerprint hashes the serialized fields (without the fingerprint key) and
// the body the same way mdfp verifies a document.
func fingerprint(fields map[string]any, body []byte) (string, error) {
	hashed := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == mdfp.FingerprintField {
			continue
		}
		hashed[k] = v
	}
	fm := ""
	if len(hashed) > 0 {
		raw, err := yaml.Marshal(hashed)
		if err != nil {
			return "", err
		}
		fm = strings.TrimSuffix(string(raw), "\n")
	}
	return mdfp.CalculateFingerprintFromParts(fm, string(body)), nil
}

// withFrontMatter prepends a front matter block built from fields, adding
// the fingerprint of the result.
func withFrontMatter(fields map[string]any, body []byte) ([]byte, error) {
	fp, err := fingerprint(fields, body)
	if err != nil {
		return nil, err
	}
	fields[mdfp.FingerprintField] = fp

	raw, err := yaml.Marshal(fields)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	out.Grow(len(raw) + len(body) + 8)
	out.WriteString(delimiter + "\n")
	out.Write(raw)
	out.WriteString(delimiter + "\n")
	out.Write(body)
	return out.Bytes(), nil
}
