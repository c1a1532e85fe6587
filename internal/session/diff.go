package session

import (
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/paramedit/paramedit/pkg/types"
)

// summarize compares the working set against the snapshot.
func (s *Session) summarize() *types.ChangeSummary {
	summary := &types.ChangeSummary{}
	dmp := diffmatchpatch.New()

	for _, p := range s.working.All() {
		snap := s.snapshot.Get(p.Name)
		if snap == nil {
			summary.Added = append(summary.Added, p.Name)
			continue
		}
		if p.Expression == snap.Expression {
			continue
		}
		diffs := dmp.DiffMain(snap.Expression, p.Expression, false)
		summary.Updated = append(summary.Updated, types.ParameterChange{
			Name:          p.Name,
			OldExpression: snap.Expression,
			NewExpression: p.Expression,
			Diff:          dmp.DiffPrettyText(diffs),
		})
	}

	for _, name := range s.snapshot.Names() {
		if s.working.Get(name) == nil {
			summary.Deleted = append(summary.Deleted, name)
		}
	}
	return summary
}
