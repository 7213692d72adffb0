package player

import "github.com/simp-lee/playerbase/internal/domain"

// BuildCriteria translates a filter into the conjunction the store evaluates.
//
// Name and title match by case-sensitive substring; race, profession and
// banned match exactly. Each bound pair (after/before, min/maxExperience,
// min/maxLevel) applies a lone bound on its own and both bounds only when
// they are ordered. An unordered pair is dropped entirely. An empty filter
// yields empty criteria, which matches every player.
func BuildCriteria(f domain.Filter) domain.Criteria {
	var c domain.Criteria

	if f.HasName() {
		c = append(c, domain.Predicate{Field: domain.FieldName, Op: domain.OpContains, Value: *f.Name})
	}
	if f.HasTitle() {
		c = append(c, domain.Predicate{Field: domain.FieldTitle, Op: domain.OpContains, Value: *f.Title})
	}
	if f.HasRace() {
		c = append(c, domain.Predicate{Field: domain.FieldRace, Op: domain.OpEqual, Value: string(*f.Race)})
	}
	if f.HasProfession() {
		c = append(c, domain.Predicate{Field: domain.FieldProfession, Op: domain.OpEqual, Value: string(*f.Profession)})
	}
	if f.HasBanned() {
		c = append(c, domain.Predicate{Field: domain.FieldBanned, Op: domain.OpEqual, Value: *f.Banned})
	}

	hasAfter, hasBefore := f.HasAfter(), f.HasBefore()
	c = appendRange(c, domain.FieldBirthday,
		bound(hasAfter, f.After), bound(hasBefore, f.Before),
		hasAfter && hasBefore && f.IsBeforeMoreThanAfter())

	hasMinExp, hasMaxExp := f.HasMinExperience(), f.HasMaxExperience()
	c = appendRange(c, domain.FieldExperience,
		intBound(hasMinExp, f.MinExperience), intBound(hasMaxExp, f.MaxExperience),
		hasMinExp && hasMaxExp && f.IsMaxMoreThanMinExperience())

	hasMinLevel, hasMaxLevel := f.HasMinLevel(), f.HasMaxLevel()
	c = appendRange(c, domain.FieldLevel,
		intBound(hasMinLevel, f.MinLevel), intBound(hasMaxLevel, f.MaxLevel),
		hasMinLevel && hasMaxLevel && f.IsMaxLevelMoreThanMinLevel())

	return c
}

// appendRange applies the bound pair admission rule. lo and hi are nil when
// the corresponding bound is absent.
func appendRange(c domain.Criteria, field domain.Field, lo, hi *int64, ordered bool) domain.Criteria {
	if lo != nil && hi != nil && !ordered {
		return c
	}
	if lo != nil {
		c = append(c, domain.Predicate{Field: field, Op: domain.OpGreaterOrEqual, Value: *lo})
	}
	if hi != nil {
		c = append(c, domain.Predicate{Field: field, Op: domain.OpLessOrEqual, Value: *hi})
	}
	return c
}

func bound(present bool, v *int64) *int64 {
	if !present {
		return nil
	}
	return v
}

func intBound(present bool, v *int) *int64 {
	if !present {
		return nil
	}
	n := int64(*v)
	return &n
}
