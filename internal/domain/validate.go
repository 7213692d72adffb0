package domain

import "unicode/utf8"

// Field limits for player attributes.
const (
	MaxNameLength  = 12
	MaxTitleLength = 30

	// MinBirthday is 2000-01-01T00:00:00Z in epoch milliseconds.
	MinBirthday int64 = 946_684_800_000
	// MaxBirthday is 3000-12-31T23:59:59Z in epoch milliseconds.
	MaxBirthday int64 = 32_535_215_999_000

	MinExperience = 0
	MaxExperience = 10_000_000
)

// InInterval reports whether lo <= value <= hi.
func InInterval(value, lo, hi int64) bool {
	return value >= lo && value <= hi
}

// ValidName reports whether name has between 1 and MaxNameLength characters.
func ValidName(name string) bool {
	return InInterval(int64(utf8.RuneCountInString(name)), 1, MaxNameLength)
}

// ValidTitle reports whether title has between 1 and MaxTitleLength characters.
func ValidTitle(title string) bool {
	return InInterval(int64(utf8.RuneCountInString(title)), 1, MaxTitleLength)
}

// ValidBirthday reports whether ms lies within [MinBirthday, MaxBirthday].
func ValidBirthday(ms int64) bool {
	return InInterval(ms, MinBirthday, MaxBirthday)
}

// ValidExperience reports whether exp lies within [MinExperience, MaxExperience].
func ValidExperience(exp int) bool {
	return InInterval(int64(exp), MinExperience, MaxExperience)
}

// Validate checks every field that is set and returns the first violation.
// Unset fields are not checked.
func (in PlayerInput) Validate() error {
	if in.Name != nil && !ValidName(*in.Name) {
		return NewValidationError("name must be 1-12 characters")
	}
	if in.Title != nil && !ValidTitle(*in.Title) {
		return NewValidationError("title must be 1-30 characters")
	}
	if in.Race != nil && !in.Race.Valid() {
		return NewValidationError("unknown race")
	}
	if in.Profession != nil && !in.Profession.Valid() {
		return NewValidationError("unknown profession")
	}
	if in.Birthday != nil && !ValidBirthday(*in.Birthday) {
		return NewValidationError("birthday must be between years 2000 and 3000")
	}
	if in.Experience != nil && !ValidExperience(*in.Experience) {
		return NewValidationError("experience must be between 0 and 10000000")
	}
	return nil
}
