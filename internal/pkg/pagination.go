package pkg

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simp-lee/playerbase/internal/domain"
)

// Query parameter names accepted by the player list and count endpoints.
const (
	ParamName          = "name"
	ParamTitle         = "title"
	ParamRace          = "race"
	ParamProfession    = "profession"
	ParamAfter         = "after"
	ParamBefore        = "before"
	ParamBanned        = "banned"
	ParamMinExperience = "minExperience"
	ParamMaxExperience = "maxExperience"
	ParamMinLevel      = "minLevel"
	ParamMaxLevel      = "maxLevel"
	ParamOrder         = "order"
	ParamPageNumber    = "pageNumber"
	ParamPageSize      = "pageSize"
)

// ParseFilter extracts filter criteria from query params.
// Values that cannot be parsed (non-numeric bounds, unknown enum names) are
// left unset, so a malformed criterion is ignored rather than rejected.
func ParseFilter(c *gin.Context) domain.Filter {
	var f domain.Filter

	if v, ok := c.GetQuery(ParamName); ok {
		f.Name = &v
	}
	if v, ok := c.GetQuery(ParamTitle); ok {
		f.Title = &v
	}
	if v, ok := c.GetQuery(ParamRace); ok {
		if r, valid := domain.ParseRace(v); valid {
			f.Race = &r
		}
	}
	if v, ok := c.GetQuery(ParamProfession); ok {
		if p, valid := domain.ParseProfession(v); valid {
			f.Profession = &p
		}
	}
	f.After = queryInt64(c, ParamAfter)
	f.Before = queryInt64(c, ParamBefore)
	f.Banned = queryBool(c, ParamBanned)
	f.MinExperience = queryInt(c, ParamMinExperience)
	f.MaxExperience = queryInt(c, ParamMaxExperience)
	f.MinLevel = queryInt(c, ParamMinLevel)
	f.MaxLevel = queryInt(c, ParamMaxLevel)

	return f
}

// ParsePageFilter extracts filter criteria plus ordering and paging from query params.
func ParsePageFilter(c *gin.Context) domain.PageFilter {
	pf := domain.PageFilter{Filter: ParseFilter(c)}

	if v, ok := c.GetQuery(ParamOrder); ok {
		if o, valid := domain.ParsePlayerOrder(v); valid {
			pf.Order = &o
		}
	}
	pf.PageNumber = queryInt(c, ParamPageNumber)
	pf.PageSize = queryInt(c, ParamPageSize)

	return pf
}

func queryInt(c *gin.Context, key string) *int {
	v, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

func queryInt64(c *gin.Context, key string) *int64 {
	v, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func queryBool(c *gin.Context, key string) *bool {
	v, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

// Paginate returns a GORM scope that applies LIMIT and OFFSET for the page.
func Paginate(q domain.PageQuery) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(q.Offset()).Limit(q.PageSize)
	}
}

// Sort returns a GORM scope that orders ascending by the page's sort field,
// breaking ties by id so pages stay stable.
func Sort(q domain.PageQuery) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		field := q.SortField
		if field == "" {
			field = string(domain.FieldID)
		}
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: field}})
		if field != string(domain.FieldID) {
			db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: string(domain.FieldID)}})
		}
		return db
	}
}

// Where returns a GORM scope that ANDs every predicate of the criteria.
// Predicates with an unknown operator are skipped.
func Where(criteria domain.Criteria) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, p := range criteria {
			column := string(p.Field)
			switch p.Op {
			case domain.OpContains:
				db = db.Where(containsExpr(db, column), p.Value)
			case domain.OpEqual:
				db = db.Where(clause.Eq{Column: clause.Column{Name: column}, Value: p.Value})
			case domain.OpGreaterOrEqual:
				db = db.Where(clause.Gte{Column: clause.Column{Name: column}, Value: p.Value})
			case domain.OpLessOrEqual:
				db = db.Where(clause.Lte{Column: clause.Column{Name: column}, Value: p.Value})
			}
		}
		return db
	}
}

// containsExpr builds a case-sensitive substring test. LIKE is avoided because
// SQLite compares ASCII case-insensitively and treats % and _ in the pattern
// as wildcards.
func containsExpr(db *gorm.DB, column string) string {
	if db.Dialector != nil && db.Dialector.Name() == "postgres" {
		return "strpos(" + column + ", ?) > 0"
	}
	return "instr(" + column + ", ?) > 0"
}
