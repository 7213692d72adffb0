package player

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/simp-lee/playerbase/internal/domain"
	"github.com/simp-lee/playerbase/internal/pkg"
)

// playerRepository implements domain.PlayerRepository using GORM.
type playerRepository struct {
	db *gorm.DB
}

// NewPlayerRepository creates a new PlayerRepository backed by the given GORM database.
func NewPlayerRepository(db *gorm.DB) domain.PlayerRepository {
	return &playerRepository{db: db}
}

// Create inserts a new player and sets its ID.
func (r *playerRepository) Create(ctx context.Context, player *domain.Player) error {
	if err := r.db.WithContext(ctx).Create(player).Error; err != nil {
		return mapError(err)
	}
	return nil
}

// GetByID retrieves a player by its primary key.
func (r *playerRepository) GetByID(ctx context.Context, id int64) (*domain.Player, error) {
	var player domain.Player
	if err := r.db.WithContext(ctx).First(&player, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &player, nil
}

// Update loads the stored row inside a transaction, applies the change and
// writes every column back. On PostgreSQL the row is locked with FOR UPDATE
// until commit. It never inserts: a player that no longer exists yields
// ErrNotFound.
func (r *playerRepository) Update(ctx context.Context, id int64, apply func(*domain.Player) error) (*domain.Player, error) {
	var player domain.Player
	err := pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		read := tx
		if tx.Dialector.Name() == "postgres" {
			read = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := read.First(&player, id).Error; err != nil {
			return err
		}
		if err := apply(&player); err != nil {
			return err
		}
		result := tx.Model(&player).Select("*").Updates(&player)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, mapError(err)
	}
	return &player, nil
}

// Delete removes a player by ID.
func (r *playerRepository) Delete(ctx context.Context, id int64) error {
	return mapError(pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		var player domain.Player
		if err := tx.First(&player, id).Error; err != nil {
			return err
		}
		return tx.Delete(&player).Error
	}))
}

// Count returns the number of stored players.
func (r *playerRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Player{}).Count(&total).Error; err != nil {
		return 0, mapError(err)
	}
	return total, nil
}

// CountMatching returns the number of players satisfying every predicate.
func (r *playerRepository) CountMatching(ctx context.Context, criteria domain.Criteria) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Player{}).
		Scopes(pkg.Where(criteria)).
		Count(&total).Error; err != nil {
		return 0, mapError(err)
	}
	return total, nil
}

// Find returns one sorted page of the players satisfying every predicate.
func (r *playerRepository) Find(ctx context.Context, criteria domain.Criteria, page domain.PageQuery) ([]domain.Player, error) {
	var players []domain.Player
	if err := r.db.WithContext(ctx).Model(&domain.Player{}).
		Scopes(
			pkg.Where(criteria),
			pkg.Sort(page),
			pkg.Paginate(page),
		).
		Find(&players).Error; err != nil {
		return nil, mapError(err)
	}
	if players == nil {
		players = []domain.Player{}
	}
	return players, nil
}

// mapError converts GORM errors to domain errors. Errors that already carry
// a domain code pass through unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}
