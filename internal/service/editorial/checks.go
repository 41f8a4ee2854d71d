package editorial

import "strings"

// Messages returned by the lock check battery. These are part of the API
// contract: clients match on them verbatim.
const (
	msgContentTooShort = "Content is too short to lock."
	msgContainsTODOs   = "Section contains TODOs."
)

// minLockableContentLength is the minimum stripped content length a
// section needs before it can be locked
const minLockableContentLength = 10

// runLockChecks runs the full consistency-check battery against the
// content. Every check runs - no short-circuiting - so the caller sees
// all violations at once, in a stable order. Additional checks append to
// the returned list without changing the contract.
func runLockChecks(content string) []string {
	var failures []string

	if len(strings.TrimSpace(content)) < minLockableContentLength {
		failures = append(failures, msgContentTooShort)
	}

	if strings.Contains(content, "TODO") {
		failures = append(failures, msgContainsTODOs)
	}

	return failures
}
