// SPDX-License-Identifier: AGPL-3.0-or-later

package commitmsg

import (
	"regexp"
	"strings"
)

// Exemption is a single rule that lets a VCS-generated message skip linting.
type Exemption struct {
	Name    string
	Pattern *regexp.Regexp
}

// Matches reports whether the whole message satisfies the rule.
func (e Exemption) Matches(message string) bool {
	return e.Pattern.MatchString(strings.TrimRight(message, "\r\n"))
}

// wholeMessage anchors expr to the entire input. Multiline mode keeps ^ and $
// usable inside the individual patterns.
func wholeMessage(expr string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)\A(?:` + expr + `)\z`)
}

var exemptions = []Exemption{
	{Name: "merge", Pattern: wholeMessage(`^(Merge pull request)|(Merge .*? into .*?)|(Merge branch .*?)$`)},
	{Name: "revert", Pattern: wholeMessage(`^(R|r)evert .*`)},
	{Name: "fixup", Pattern: wholeMessage(`^(fixup|squash)! .*`)},
	{Name: "merged", Pattern: wholeMessage(`^Merged .*? (in|into) .*`)},
	{Name: "merge-remote-tracking", Pattern: wholeMessage(`^Merge remote-tracking branch .*`)},
	{Name: "automatic-merge", Pattern: wholeMessage(`^Automatic merge.*`)},
	{Name: "auto-merged", Pattern: wholeMessage(`^Auto-merged .*? into .*`)},
}

// Exemptions returns the ordered list of merge/revert/fixup rules.
func Exemptions() []Exemption {
	out := make([]Exemption, len(exemptions))
	copy(out, exemptions)
	return out
}

var (
	semverRe = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)` +
		`(?:-((?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*))*))?` +
		`(?:\+([0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?$`)

	releaseScopeRe = regexp.MustCompile(`^\([^)]+\)`)
	releaseWordRe  = regexp.MustCompile(`^release\s+`)
)

// SemverExemption is the name reported for version-bump headers.
const SemverExemption = "semver"

// isSemverHeader reports whether the first line is a bare release version,
// optionally written as a chore commit: "1.2.3", "chore(release): 1.2.3",
// "chore: release 1.2.3".
func isSemverHeader(message string) bool {
	first, _, _ := strings.Cut(message, "\n")
	v := strings.TrimSpace(strings.TrimSuffix(first, "\r"))
	v = strings.TrimPrefix(v, "chore")
	v = releaseScopeRe.ReplaceAllString(v, "")
	v = strings.TrimSpace(strings.TrimPrefix(v, ":"))
	v = releaseWordRe.ReplaceAllString(v, "")
	return semverRe.MatchString(strings.TrimSpace(v))
}

// IsExempt reports whether message skips every other check and, if so, which
// rule let it through.
func IsExempt(message string) (string, bool) {
	if isSemverHeader(message) {
		return SemverExemption, true
	}
	for _, e := range exemptions {
		if e.Matches(message) {
			return e.Name, true
		}
	}
	return "", false
}
