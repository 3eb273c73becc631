package pos

import "github.com/dustin/go-humanize"

// FormatAmount renders a currency amount with thousands separators, the
// way every money figure is shown to the operator.
func FormatAmount(v int64) string {
	return humanize.Comma(v)
}
