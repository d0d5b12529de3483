// --- qamaster-server/allowlist/allowlist.go ---
package allowlist

import (
	"strings"

	"qamaster-server/tabular"
)

// AllowList is the set of normalized email identities permitted to log in.
type AllowList map[string]struct{}

// Build produces an allow-list from parsed rows.
//
// Fewer than two rows fails closed: no data rows means nobody is authorized,
// not everybody. The email column is found by a case-insensitive "email"
// substring match over the header cells, falling back to column 0. Values
// are lower-cased and trimmed, empties discarded, duplicates collapsed.
func Build(rows [][]string) AllowList {
	list := AllowList{}
	if len(rows) < 2 {
		return list
	}

	col := 0
	for i, cell := range rows[0] {
		if strings.Contains(strings.ToLower(cell), "email") {
			col = i
			break
		}
	}

	for _, row := range rows[1:] {
		email := strings.ToLower(strings.TrimSpace(tabular.Cell(row, col)))
		if email == "" {
			continue
		}
		list[email] = struct{}{}
	}
	return list
}

// Contains checks membership for an identity, normalizing it the same way
// the list was built.
func (l AllowList) Contains(email string) bool {
	_, ok := l[strings.ToLower(strings.TrimSpace(email))]
	return ok
}
