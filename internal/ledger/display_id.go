package ledger

import (
	"strconv"
	"strings"
)

const displayIDWidth = 8

// DisplayID encodes a sequence counter value as a compact alphanumeric id,
// zero-padded uppercase base 36. Padding keeps lexicographic order equal to
// numeric order, which ListTransactions relies on.
func DisplayID(n int64) string {
	s := strings.ToUpper(strconv.FormatInt(n, 36))
	if len(s) >= displayIDWidth {
		return s
	}
	return strings.Repeat("0", displayIDWidth-len(s)) + s
}
