package repository

import (
	"quizdraw/internal/models"
	"quizdraw/internal/storage"
)

type GuessRepository interface {
	Create(guess *models.Guess) error
	FindByRoundID(roundID uint) ([]models.Guess, error)
}

type guessRepository struct {
	db *storage.PostgresDB
}

func NewGuessRepository(db *storage.PostgresDB) GuessRepository {
	return &guessRepository{db: db}
}

func (r *guessRepository) Create(guess *models.Guess) error {
	return translateError(r.db.Create(guess).Error)
}

func (r *guessRepository) FindByRoundID(roundID uint) ([]models.Guess, error) {
	var guesses []models.Guess
	err := r.db.Where("round_id = ?", roundID).Order("created_at asc").Find(&guesses).Error
	return guesses, translateError(err)
}
