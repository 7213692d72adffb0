package player

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/playerbase/internal/domain"
)

// CreatePlayerRequest represents the input for creating a new player.
// Every field except banned must be present.
type CreatePlayerRequest struct {
	Name       *string            `json:"name" binding:"required,min=1,max=12"`
	Title      *string            `json:"title" binding:"required,min=1,max=30"`
	Race       *domain.Race       `json:"race" binding:"required,race"`
	Profession *domain.Profession `json:"profession" binding:"required,profession"`
	Birthday   *int64             `json:"birthday" binding:"required,min=946684800000,max=32535215999000"`
	Banned     *bool              `json:"banned"`
	Experience *int               `json:"experience" binding:"required,min=0,max=10000000"`
}

// ToInput converts the request into a domain.PlayerInput.
func (r CreatePlayerRequest) ToInput() domain.PlayerInput {
	return domain.PlayerInput{
		Name:       r.Name,
		Title:      r.Title,
		Race:       r.Race,
		Profession: r.Profession,
		Birthday:   r.Birthday,
		Banned:     r.Banned,
		Experience: r.Experience,
	}
}

// UpdatePlayerRequest represents a partial update. Absent or null fields are
// left unchanged. Fields are validated by the service once the player is
// known to exist, so it carries no binding rules.
type UpdatePlayerRequest struct {
	Name       *string            `json:"name"`
	Title      *string            `json:"title"`
	Race       *domain.Race       `json:"race"`
	Profession *domain.Profession `json:"profession"`
	Birthday   *int64             `json:"birthday"`
	Banned     *bool              `json:"banned"`
	Experience *int               `json:"experience"`
}

// ToInput converts the request into a domain.PlayerInput.
func (r UpdatePlayerRequest) ToInput() domain.PlayerInput {
	return domain.PlayerInput{
		Name:       r.Name,
		Title:      r.Title,
		Race:       r.Race,
		Profession: r.Profession,
		Birthday:   r.Birthday,
		Banned:     r.Banned,
		Experience: r.Experience,
	}
}

// RegisterValidations adds the "race" and "profession" tags to v.
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("race", func(fl validator.FieldLevel) bool {
		return domain.Race(fl.Field().String()).Valid()
	}); err != nil {
		return fmt.Errorf("register race validation: %w", err)
	}
	if err := v.RegisterValidation("profession", func(fl validator.FieldLevel) bool {
		return domain.Profession(fl.Field().String()).Valid()
	}); err != nil {
		return fmt.Errorf("register profession validation: %w", err)
	}
	return nil
}
