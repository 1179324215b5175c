package pdf

// Heights are in millimetres on an A4 portrait page.
const (
	pageHeightThreshold = 240.0

	mastheadHeight    = 30.0
	companyHeight     = 24.0
	summaryHeight     = 42.0
	percentagesHeight = 22.0
	tableHeaderHeight = 10.0
	itemHeight        = 8.0

	// MaxListedRecords is how many lines the itemized list shows.
	MaxListedRecords = 20
)

type blockKind int

const (
	blockMasthead blockKind = iota
	blockCompany
	blockSummary
	blockPercentages
	blockTableHeader
	blockItem
)

type block struct {
	kind   blockKind
	height float64
	// item indexes CarbonReportData.Records for blockItem.
	item int
}

// planPages lays the document out top to bottom and starts a new page when
// the next block would push the cursor past the threshold. The table header
// is repeated on every page that carries items.
func planPages(data CarbonReportData) [][]block {
	var (
		pages  [][]block
		cur    []block
		cursor float64
	)
	push := func(b block) {
		if cursor+b.height > pageHeightThreshold && len(cur) > 0 {
			pages = append(pages, cur)
			cur, cursor = nil, 0
			if b.kind == blockItem {
				cur = append(cur, block{kind: blockTableHeader, height: tableHeaderHeight})
				cursor += tableHeaderHeight
			}
		}
		cur = append(cur, b)
		cursor += b.height
	}

	push(block{kind: blockMasthead, height: mastheadHeight})
	push(block{kind: blockCompany, height: companyHeight})
	push(block{kind: blockSummary, height: summaryHeight})
	if _, ok := scopeShares(data.ByScope.Scope1, data.ByScope.Scope2, data.ByScope.Scope3); ok {
		push(block{kind: blockPercentages, height: percentagesHeight})
	}

	n := len(data.Records)
	if n > MaxListedRecords {
		n = MaxListedRecords
	}
	if n > 0 {
		push(block{kind: blockTableHeader, height: tableHeaderHeight})
		for i := 0; i < n; i++ {
			push(block{kind: blockItem, height: itemHeight, item: i})
		}
	}

	if len(cur) > 0 {
		pages = append(pages, cur)
	}
	return pages
}

// scopeShares returns each scope as a percentage of the three-scope sum.
// ok is false when the sum is zero and there is nothing to show.
func scopeShares(s1, s2, s3 float64) ([3]float64, bool) {
	sum := s1 + s2 + s3
	if sum == 0 {
		return [3]float64{}, false
	}
	return [3]float64{s1 / sum * 100, s2 / sum * 100, s3 / sum * 100}, true
}
