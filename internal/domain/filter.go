package domain

// Filter holds the optional criteria of a list or count request.
// A nil field is absent. A set field that fails its validity check is also
// treated as absent by the Has* methods; it is never an error.
type Filter struct {
	Name          *string
	Title         *string
	Race          *Race
	Profession    *Profession
	After         *int64
	Before        *int64
	Banned        *bool
	MinExperience *int
	MaxExperience *int
	MinLevel      *int
	MaxLevel      *int
}

func (f Filter) HasName() bool {
	return f.Name != nil && *f.Name != ""
}

func (f Filter) HasTitle() bool {
	return f.Title != nil && *f.Title != ""
}

func (f Filter) HasRace() bool {
	return f.Race != nil
}

func (f Filter) HasProfession() bool {
	return f.Profession != nil
}

func (f Filter) HasAfter() bool {
	return f.After != nil && ValidBirthday(*f.After)
}

func (f Filter) HasBefore() bool {
	return f.Before != nil && ValidBirthday(*f.Before)
}

func (f Filter) HasBanned() bool {
	return f.Banned != nil
}

func (f Filter) HasMinExperience() bool {
	return f.MinExperience != nil && ValidExperience(*f.MinExperience)
}

func (f Filter) HasMaxExperience() bool {
	return f.MaxExperience != nil && ValidExperience(*f.MaxExperience)
}

func (f Filter) HasMinLevel() bool {
	return f.MinLevel != nil && *f.MinLevel > 0
}

func (f Filter) HasMaxLevel() bool {
	return f.MaxLevel != nil && *f.MaxLevel > 0
}

// HasBody reports whether at least one criterion is usable.
func (f Filter) HasBody() bool {
	return f.HasName() || f.HasTitle() || f.HasRace() || f.HasProfession() ||
		f.HasAfter() || f.HasBefore() || f.HasBanned() ||
		f.HasMinExperience() || f.HasMaxExperience() ||
		f.HasMinLevel() || f.HasMaxLevel()
}

// IsBeforeMoreThanAfter reports whether Before is strictly later than After.
// Only meaningful when HasAfter and HasBefore are both true.
func (f Filter) IsBeforeMoreThanAfter() bool {
	return *f.Before > *f.After
}

// IsMaxMoreThanMinExperience reports whether MaxExperience >= MinExperience.
// Only meaningful when both bounds are present.
func (f Filter) IsMaxMoreThanMinExperience() bool {
	return *f.MaxExperience >= *f.MinExperience
}

// IsMaxLevelMoreThanMinLevel reports whether MaxLevel >= MinLevel.
// Only meaningful when both bounds are present.
func (f Filter) IsMaxLevelMoreThanMinLevel() bool {
	return *f.MaxLevel >= *f.MinLevel
}

// PageFilter extends Filter with ordering and paging for list requests.
type PageFilter struct {
	Filter
	Order      *PlayerOrder
	PageNumber *int
	PageSize   *int
}

func (f PageFilter) HasOrder() bool {
	return f.Order != nil
}

func (f PageFilter) HasPageNumber() bool {
	return f.PageNumber != nil
}

func (f PageFilter) HasPageSize() bool {
	return f.PageSize != nil
}

// PageQuery resolves ordering and paging defaults: order ID, page
// DefaultPageNumber and the given default page size. A negative page number
// or a page size below one falls back to its default.
func (f PageFilter) PageQuery(defaultPageSize int) PageQuery {
	if defaultPageSize < 1 {
		defaultPageSize = DefaultPageSize
	}

	order := OrderID
	if f.HasOrder() {
		order = *f.Order
	}

	pageNumber := DefaultPageNumber
	if f.HasPageNumber() && *f.PageNumber >= 0 {
		pageNumber = *f.PageNumber
	}

	pageSize := defaultPageSize
	if f.HasPageSize() && *f.PageSize >= 1 {
		pageSize = *f.PageSize
	}

	return PageQuery{
		SortField:  order.FieldName(),
		PageNumber: pageNumber,
		PageSize:   pageSize,
	}
}
