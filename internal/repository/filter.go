package repository

import (
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/scoutreport/activityform/internal/db"
	"github.com/scoutreport/activityform/internal/model"
)

// searchColumns are matched by the free-text query, case-insensitively.
var searchColumns = []string{"group_name", "activity_type", "place", "occasion", "paragraphs"}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ActivityFilter narrows the activity listing. Zero values mean "no filter".
// All set fields are combined with AND.
type ActivityFilter struct {
	Start  string // inclusive, YYYY-MM-DD
	End    string // inclusive, YYYY-MM-DD
	Group  string
	Query  string
	Status *model.CheckedState

	// Unreviewed keeps unchecked and edited-after-review activities.
	Unreviewed bool
}

// IsZero reports whether no filter field is set.
func (f ActivityFilter) IsZero() bool {
	return f.Start == "" && f.End == "" && f.Group == "" && strings.TrimSpace(f.Query) == "" && f.Status == nil && !f.Unreviewed
}

// Where assembles the parameterized predicates for the filter.
func (f ActivityFilter) Where() squirrel.And {
	where := squirrel.And{}

	switch {
	case f.Start != "" && f.End != "":
		where = append(where, squirrel.Expr("date BETWEEN ? AND ?", f.Start, f.End))
	case f.Start != "":
		where = append(where, squirrel.GtOrEq{"date": f.Start})
	case f.End != "":
		where = append(where, squirrel.LtOrEq{"date": f.End})
	}

	if f.Group != "" {
		where = append(where, squirrel.Eq{"group_name": f.Group})
	}

	if q := strings.TrimSpace(f.Query); q != "" {
		where = append(where, searchPredicate(q))
	}

	if f.Status != nil {
		where = append(where, squirrel.Eq{"checked": int(*f.Status)})
	}

	if f.Unreviewed {
		where = append(where, squirrel.NotEq{"checked": int(model.CheckedReviewed)})
	}

	return where
}

// searchPredicate matches q as a substring of any search column, or as the
// exact id when q is an integer. Column and pattern are folded by the same
// SQL function so both sides agree on every dialect.
func searchPredicate(q string) squirrel.Or {
	pattern := "%" + likeEscaper.Replace(q) + "%"

	or := squirrel.Or{}
	for _, col := range searchColumns {
		or = append(or, squirrel.Expr(db.FoldFunction+"("+col+") LIKE "+db.FoldFunction+`(?) ESCAPE '\'`, pattern))
	}

	id, err := strconv.ParseInt(q, 10, 64)
	if err == nil {
		or = append(or, squirrel.Eq{"id": id})
	}

	return or
}
