package player

import (
	"context"
	"log/slog"

	"github.com/simp-lee/playerbase/internal/domain"
)

// playerService implements domain.PlayerService.
type playerService struct {
	repo            domain.PlayerRepository
	defaultPageSize int
}

// NewPlayerService creates a new PlayerService with the given repository.
// defaultPageSize applies to list requests that carry no usable pageSize;
// values below one fall back to domain.DefaultPageSize.
func NewPlayerService(repo domain.PlayerRepository, defaultPageSize int) domain.PlayerService {
	if defaultPageSize < 1 {
		defaultPageSize = domain.DefaultPageSize
	}
	return &playerService{repo: repo, defaultPageSize: defaultPageSize}
}

// ListPlayers returns one page of the players matching the filter.
func (s *playerService) ListPlayers(ctx context.Context, filter domain.PageFilter) ([]domain.Player, error) {
	return s.repo.Find(ctx, BuildCriteria(filter.Filter), filter.PageQuery(s.defaultPageSize))
}

// CountPlayers counts the players matching the filter. A filter without any
// usable criterion counts the whole store.
func (s *playerService) CountPlayers(ctx context.Context, filter domain.Filter) (int64, error) {
	if !filter.HasBody() {
		return s.repo.Count(ctx)
	}
	return s.repo.CountMatching(ctx, BuildCriteria(filter))
}

// GetPlayer retrieves a player by ID.
func (s *playerService) GetPlayer(ctx context.Context, id int64) (*domain.Player, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// CreatePlayer validates input, derives the level statistics and persists
// the new player. Banned defaults to false.
func (s *playerService) CreatePlayer(ctx context.Context, in domain.PlayerInput) (*domain.Player, error) {
	if !in.HasRequiredFields() {
		slog.DebugContext(ctx, "create player: missing fields")
		return nil, domain.NewValidationError("name, title, race, profession, birthday and experience are required")
	}
	if err := in.Validate(); err != nil {
		slog.DebugContext(ctx, "create player: invalid input", "error", err)
		return nil, err
	}

	player := &domain.Player{}
	applyInput(player, in)
	player.RecalculateStats()

	if err := s.repo.Create(ctx, player); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "player created", "id", player.ID, "name", player.Name)
	return player, nil
}

// UpdatePlayer applies every field that was sent to the stored player,
// recomputes the level statistics and persists the result. A missing player
// is reported before invalid input. If any sent field is invalid nothing is
// applied.
func (s *playerService) UpdatePlayer(ctx context.Context, id int64, in domain.PlayerInput) (*domain.Player, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	player, err := s.repo.Update(ctx, id, func(p *domain.Player) error {
		if err := in.Validate(); err != nil {
			slog.DebugContext(ctx, "update player: invalid input", "id", id, "error", err)
			return err
		}
		applyInput(p, in)
		p.RecalculateStats()
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "player updated", "id", player.ID)
	return player, nil
}

// DeletePlayer removes a player by ID.
func (s *playerService) DeletePlayer(ctx context.Context, id int64) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "player deleted", "id", id)
	return nil
}

// applyInput copies every set field of in onto p.
func applyInput(p *domain.Player, in domain.PlayerInput) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Race != nil {
		p.Race = *in.Race
	}
	if in.Profession != nil {
		p.Profession = *in.Profession
	}
	if in.Birthday != nil {
		p.Birthday = *in.Birthday
	}
	if in.Banned != nil {
		p.Banned = *in.Banned
	}
	if in.Experience != nil {
		p.Experience = *in.Experience
	}
}

func validateID(id int64) error {
	if id <= 0 {
		return domain.NewValidationError("id must be a positive integer")
	}
	return nil
}
