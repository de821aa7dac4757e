package core

import (
	"regexp"
	"strings"
)

// nameSeparators matches runs of PEP 503 name separator characters.
var nameSeparators = regexp.MustCompile(`[-_.]+`)

// CanonicalizeName normalizes a PyPI package name per PEP 503: runs of
// hyphens, underscores, and dots collapse to a single hyphen, lowercased.
// "Flask_SQLAlchemy" and "flask.sqlalchemy" both resolve to
// "flask-sqlalchemy".
func CanonicalizeName(name string) string {
	return strings.ToLower(nameSeparators.ReplaceAllString(name, "-"))
}
