package tabular

import (
	"github.com/jask/valuesort/internal/catalog"
	"github.com/jask/valuesort/internal/ranking"
)

// Unmatched is an input row with no catalog value of the same name.
type Unmatched struct {
	Row        Row
	Suggestion string // closest catalog name, if any
}

// Report describes what Reconcile did with each row.
type Report struct {
	Applied    int         // rows that set a position
	Unmatched  []Unmatched // no catalog value with that name
	Ambiguous  []Row       // name resolved to more than one value
	Invalid    []Row       // matched, but position < 1
	Contiguous bool        // resulting positions are exactly 1..K
}

// Reconcile rebuilds a state from the catalog default and the given rows.
// Each row is matched to a catalog value by case-insensitive name and that
// value takes the row's position as written; when several rows name the same
// value the last one wins. Values no row mentions stay unranked.
//
// Positions are not renumbered here, so a hand-edited file can leave gaps or
// ties. Report.Contiguous says whether that happened; callers that need
// 1..K call Normalize on the result.
func Reconcile(cat *catalog.Catalog, rows []Row) (*ranking.State, Report) {
	var rep Report
	positions := make(map[string]int)
	var order []string
	for _, r := range rows {
		m := cat.Lookup(r.Name)
		switch m.Kind {
		case catalog.MatchNone:
			rep.Unmatched = append(rep.Unmatched, Unmatched{Row: r, Suggestion: cat.Suggest(r.Name)})
			continue
		case catalog.MatchAmbiguous:
			rep.Ambiguous = append(rep.Ambiguous, r)
			continue
		}
		if r.Position < 1 {
			rep.Invalid = append(rep.Invalid, r)
			continue
		}
		if _, seen := positions[m.ID]; !seen {
			order = append(order, m.ID)
		}
		positions[m.ID] = r.Position
		rep.Applied++
	}

	saved := make([]catalog.Entity, 0, len(order))
	for _, id := range order {
		pos := positions[id]
		saved = append(saved, catalog.Entity{ID: id, Position: &pos})
	}
	st := ranking.Restore(cat, saved)
	rep.Contiguous = st.Contiguous()
	return st, rep
}
