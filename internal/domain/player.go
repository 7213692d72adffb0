package domain

import "context"

// Race is the closed set of player races.
type Race string

const (
	RaceHuman  Race = "HUMAN"
	RaceDwarf  Race = "DWARF"
	RaceElf    Race = "ELF"
	RaceGiant  Race = "GIANT"
	RaceOrc    Race = "ORC"
	RaceTroll  Race = "TROLL"
	RaceHobbit Race = "HOBBIT"
)

// Races lists every Race in declaration order.
var Races = []Race{RaceHuman, RaceDwarf, RaceElf, RaceGiant, RaceOrc, RaceTroll, RaceHobbit}

// Valid reports whether r is one of the declared races.
func (r Race) Valid() bool {
	switch r {
	case RaceHuman, RaceDwarf, RaceElf, RaceGiant, RaceOrc, RaceTroll, RaceHobbit:
		return true
	}
	return false
}

// ParseRace matches s case-sensitively against the declared races.
func ParseRace(s string) (Race, bool) {
	r := Race(s)
	return r, r.Valid()
}

// Profession is the closed set of player professions.
type Profession string

const (
	ProfessionWarrior  Profession = "WARRIOR"
	ProfessionRogue    Profession = "ROGUE"
	ProfessionSorcerer Profession = "SORCERER"
	ProfessionCleric   Profession = "CLERIC"
	ProfessionPaladin  Profession = "PALADIN"
	ProfessionNazgul   Profession = "NAZGUL"
	ProfessionWarlock  Profession = "WARLOCK"
	ProfessionDruid    Profession = "DRUID"
)

// Professions lists every Profession in declaration order.
var Professions = []Profession{
	ProfessionWarrior, ProfessionRogue, ProfessionSorcerer, ProfessionCleric,
	ProfessionPaladin, ProfessionNazgul, ProfessionWarlock, ProfessionDruid,
}

// Valid reports whether p is one of the declared professions.
func (p Profession) Valid() bool {
	switch p {
	case ProfessionWarrior, ProfessionRogue, ProfessionSorcerer, ProfessionCleric,
		ProfessionPaladin, ProfessionNazgul, ProfessionWarlock, ProfessionDruid:
		return true
	}
	return false
}

// ParseProfession matches s case-sensitively against the declared professions.
func ParseProfession(s string) (Profession, bool) {
	p := Profession(s)
	return p, p.Valid()
}

// PlayerOrder is a sortable player attribute accepted by the list endpoint.
type PlayerOrder string

const (
	OrderID         PlayerOrder = "ID"
	OrderName       PlayerOrder = "NAME"
	OrderExperience PlayerOrder = "EXPERIENCE"
	OrderBirthday   PlayerOrder = "BIRTHDAY"
	OrderLevel      PlayerOrder = "LEVEL"
)

// FieldName returns the column the order sorts by. Unknown orders sort by id.
func (o PlayerOrder) FieldName() string {
	switch o {
	case OrderName:
		return string(FieldName)
	case OrderExperience:
		return string(FieldExperience)
	case OrderBirthday:
		return string(FieldBirthday)
	case OrderLevel:
		return string(FieldLevel)
	default:
		return string(FieldID)
	}
}

// ParsePlayerOrder matches s case-sensitively against the declared orders.
func ParsePlayerOrder(s string) (PlayerOrder, bool) {
	switch o := PlayerOrder(s); o {
	case OrderID, OrderName, OrderExperience, OrderBirthday, OrderLevel:
		return o, true
	}
	return "", false
}

// Player is a persisted game character.
// Level and UntilNextLevel are derived from Experience; see RecalculateStats.
type Player struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	Name           string     `gorm:"size:12;not null" json:"name"`
	Title          string     `gorm:"size:30;not null" json:"title"`
	Race           Race       `gorm:"size:20;not null;index" json:"race"`
	Profession     Profession `gorm:"size:20;not null;index" json:"profession"`
	Birthday       int64      `gorm:"not null" json:"birthday"`
	Banned         bool       `gorm:"not null" json:"banned"`
	Experience     int        `gorm:"not null" json:"experience"`
	Level          int        `gorm:"not null;index" json:"level"`
	UntilNextLevel int        `gorm:"not null" json:"untilNextLevel"`
}

// TableName keeps the table name of the existing player schema.
func (Player) TableName() string {
	return "player"
}

// PlayerInput carries client-supplied player fields. A nil field was not sent.
type PlayerInput struct {
	Name       *string
	Title      *string
	Race       *Race
	Profession *Profession
	Birthday   *int64
	Banned     *bool
	Experience *int
}

// HasRequiredFields reports whether every field needed to create a player is set.
// Banned is optional.
func (in PlayerInput) HasRequiredFields() bool {
	return in.Name != nil && in.Title != nil && in.Race != nil && in.Profession != nil &&
		in.Birthday != nil && in.Experience != nil
}

// PlayerRepository defines the data access interface for players.
type PlayerRepository interface {
	Create(ctx context.Context, player *Player) error
	GetByID(ctx context.Context, id int64) (*Player, error)
	// Update reads the stored player, passes it to apply and writes the
	// result back as one unit. An error from apply aborts the write.
	Update(ctx context.Context, id int64, apply func(*Player) error) (*Player, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	CountMatching(ctx context.Context, criteria Criteria) (int64, error)
	Find(ctx context.Context, criteria Criteria, page PageQuery) ([]Player, error)
}

// PlayerService defines the business logic interface for players.
type PlayerService interface {
	ListPlayers(ctx context.Context, filter PageFilter) ([]Player, error)
	CountPlayers(ctx context.Context, filter Filter) (int64, error)
	GetPlayer(ctx context.Context, id int64) (*Player, error)
	CreatePlayer(ctx context.Context, in PlayerInput) (*Player, error)
	UpdatePlayer(ctx context.Context, id int64, in PlayerInput) (*Player, error)
	DeletePlayer(ctx context.Context, id int64) error
}
