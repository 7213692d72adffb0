package domain

// Field is a filterable or sortable player column.
type Field string

const (
	FieldID         Field = "id"
	FieldName       Field = "name"
	FieldTitle      Field = "title"
	FieldRace       Field = "race"
	FieldProfession Field = "profession"
	FieldBirthday   Field = "birthday"
	FieldBanned     Field = "banned"
	FieldExperience Field = "experience"
	FieldLevel      Field = "level"
)

// Operator is the comparison a Predicate applies to its field.
type Operator int

const (
	// OpContains is a case-sensitive substring match on a text field.
	OpContains Operator = iota + 1
	OpEqual
	OpGreaterOrEqual
	OpLessOrEqual
)

func (o Operator) String() string {
	switch o {
	case OpContains:
		return "contains"
	case OpEqual:
		return "="
	case OpGreaterOrEqual:
		return ">="
	case OpLessOrEqual:
		return "<="
	default:
		return "unknown"
	}
}

// Predicate is a single typed field condition.
//
// Value is a string for OpContains, a string, Race, Profession or bool for
// OpEqual, and an int64 for the ordered operators.
type Predicate struct {
	Field Field
	Op    Operator
	Value any
}

// Criteria is a conjunction of predicates. An empty Criteria matches every player.
type Criteria []Predicate
