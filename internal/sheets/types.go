package sheets

// Report is one tab of tabular data. Rows hold plain values; decimal
// amounts should already be converted to float64 or string.
type Report struct {
	Title           string
	Subtitle        string
	Headers         []string
	Rows            [][]any
	CurrencyColumns []int
}

// headerRows is the number of rows written above the data: title,
// subtitle, blank line and column headers.
const headerRows = 4

// values lays the report out as spreadsheet rows.
func (r Report) values() [][]any {
	out := make([][]any, 0, headerRows+len(r.Rows))
	header := make([]any, len(r.Headers))
	for i, h := range r.Headers {
		header[i] = h
	}
	out = append(out,
		[]any{r.Title},
		[]any{r.Subtitle},
		[]any{},
		header,
	)
	return append(out, r.Rows...)
}
