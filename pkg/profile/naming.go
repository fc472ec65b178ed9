package profile

import "regexp"

// entryPrefix namespaces every mise-nix installation tracked in the
// profile, keeping them distinguishable from entries installed by hand.
const entryPrefix = "mise."

// EntryName derives the stable identifier under which a (tool, version)
// installation is tracked: "mise." + sanitize(tool) + "." + sanitize(version).
//
// Distinct raw identifiers can sanitize to the same name (e.g. "a.b"
// and "a-b"); this collision is a known limitation and is not guarded
// against.
func EntryName(tool, version string) string {
	return entryPrefix + sanitizeTool(tool) + "." + sanitizeVersion(version)
}

// sanitizeTool maps every character outside [A-Za-z0-9_-] to '-'.
// Dots in attribute-path style tool names ("vscode-extensions.foo.bar")
// become dashes so the version separator stays unambiguous.
func sanitizeTool(s string) string {
	return sanitize(s, false)
}

// sanitizeVersion additionally allows '.' so semantic versions survive.
func sanitizeVersion(s string) string {
	return sanitize(s, true)
}

func sanitize(s string, allowDot bool) string {
	out := []byte(s)
	for i := 0; i < len(out); i++ {
		c := out[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		case c == '.' && allowDot:
		default:
			out[i] = '-'
		}
	}
	return string(out)
}

// RemovalPattern builds the anchored regular expression that removal
// uses to match a tool's profile entries. It anchors on the tool
// identity alone, not tool+version, because the profile keys entries by
// attribute name; the optional numeric suffix covers duplicates from
// repeated installs of the same attribute. "tool-10" matches, "toolx"
// and "tool-x" do not.
func RemovalPattern(tool string) string {
	return "^" + regexp.QuoteMeta(tool) + `(-[0-9]+)?$`
}
