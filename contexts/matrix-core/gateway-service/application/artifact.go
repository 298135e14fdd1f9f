package application

import (
	"regexp"
	"strings"
	"time"
)

// Artifact names follow "<base>[-YYYYMMDD-HHMMSS]....b64". Repeated
// re-derivation can stack several timestamp groups before the extension;
// the stamp closest to the extension is the most recent one.

const (
	// ArtifactExtension is the fixed suffix every artifact name carries.
	ArtifactExtension = ".b64"

	// AliasSuffix marks an alias name that denotes "the current artifact"
	// when no timestamped name exists.
	AliasSuffix = "-latest" + ArtifactExtension

	// DefaultArtifactBase substitutes an empty stem after normalization.
	DefaultArtifactBase = "initial-matrix" + ArtifactExtension

	timestampLayout = "20060102-150405"
)

var (
	timestampTail     = regexp.MustCompile(`(-\d{8}-\d{6})+$`)
	lastTimestampTail = regexp.MustCompile(`(\d{8}-\d{6})$`)
)

// FormatTimestamp renders an instant as the fixed-width, collation-friendly
// YYYYMMDD-HHMMSS token embedded in artifact names.
func FormatTimestamp(now time.Time) string {
	return now.Format(timestampLayout)
}

// ExtractTimestampToken returns the last YYYYMMDD-HHMMSS group positioned
// immediately before the extension, compacted to 14 digits so plain string
// comparison equals chronological comparison. Returns "" when no well-formed
// token is present; a malformed token is treated as absent rather than
// mis-ordered.
func ExtractTimestampToken(name string) string {
	stem, _ := splitExtension(name)
	match := lastTimestampTail.FindString(stem)
	if match == "" {
		return ""
	}
	compact := strings.Replace(match, "-", "", 1)
	if len(compact) != 14 {
		return ""
	}
	return compact
}

// StripTimestamps removes every consecutive "-YYYYMMDD-HHMMSS" group
// anchored immediately before the extension, recovering the stable base
// name.
func StripTimestamps(name string) string {
	stem, ext := splitExtension(name)
	return timestampTail.ReplaceAllString(stem, "") + ext
}

// NextVersionedName normalizes base and appends exactly one fresh timestamp
// before the extension. Stripping the result always yields the same base as
// stripping the input.
func NextVersionedName(base string, now time.Time) string {
	normalized := StripTimestamps(base)
	stem, ext := splitExtension(normalized)
	if strings.TrimSpace(stem) == "" {
		stem, ext = splitExtension(DefaultArtifactBase)
	}
	return stem + "-" + FormatTimestamp(now) + ext
}

// ResolveLatest picks the authoritative current artifact out of an unordered
// listing. Selection order: explicit override, newest timestamp (full-name
// lexicographic tie-break), alias name, lexicographically greatest matching
// name, configured fallback. Every branch returns a usable name; resolution
// never fails.
func ResolveLatest(listing []string, override, fallback string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}

	var (
		bestName  string
		bestToken string
		alias     string
		greatest  string
	)
	for _, name := range listing {
		if name == "" || !strings.HasSuffix(name, ArtifactExtension) {
			continue
		}
		if name > greatest {
			greatest = name
		}
		if strings.HasSuffix(name, AliasSuffix) {
			alias = name
		}
		token := ExtractTimestampToken(name)
		if token == "" {
			continue
		}
		if token > bestToken || (token == bestToken && name > bestName) {
			bestToken = token
			bestName = name
		}
	}

	switch {
	case bestName != "":
		return bestName
	case alias != "":
		return alias
	case greatest != "":
		return greatest
	default:
		return fallback
	}
}

func splitExtension(name string) (stem, ext string) {
	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return name, ""
	}
	return name[:dot], name[dot:]
}
