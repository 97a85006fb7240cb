package logging

import (
	"log/slog"
	"sort"
	"strings"
)

// RedactedValue is the canonical placeholder for log fields outside the vault
// event vocabulary.
const RedactedValue = "[REDACTED]"

// attributeAllowlist holds the keys the event logger emits verbatim: the
// ambient logging keys plus the vault's event attributes, all of which carry
// public ledger data.
var attributeAllowlist = map[string]struct{}{
	"service":   {},
	"env":       {},
	"message":   {},
	"severity":  {},
	"timestamp": {},
	"error":     {},
	"event":     {},

	"caller":           {},
	"voter":            {},
	"initiator":        {},
	"amount":           {},
	"fee":              {},
	"minted":           {},
	"weight":           {},
	"side":             {},
	"outcome":          {},
	"locked":           {},
	"endtime":          {},
	"acceptweight":     {},
	"declineweight":    {},
	"initiationamount": {},
}

// IsAllowlisted reports whether the provided key is exempt from redaction.
func IsAllowlisted(key string) bool {
	normalized := strings.ToLower(strings.TrimSpace(key))
	_, ok := attributeAllowlist[normalized]
	return ok
}

// AttributeAllowlist returns a sorted copy of the keys emitted without
// redaction. Tests use this to keep the list in step with the event schema.
func AttributeAllowlist() []string {
	keys := make([]string, 0, len(attributeAllowlist))
	for key := range attributeAllowlist {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// MaskField returns a slog.Attr that redacts the supplied value unless the
// key is allowlisted. Empty values pass through unchanged to avoid log noise;
// the original key casing is preserved.
func MaskField(key, value string) slog.Attr {
	if strings.TrimSpace(value) == "" || IsAllowlisted(key) {
		return slog.String(key, value)
	}
	return slog.String(key, RedactedValue)
}
