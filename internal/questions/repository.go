package questions

import (
	"context"
	"fmt"

	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/apperr"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/sheets"
)

// Колонки листа Grammar Questions
const (
	colUnit = iota
	colTopic
	colTopicDescription
	colQuestionType
	colDifficultyLevel
	colQuestion
	colAnswer
	colIncorrect1
	colIncorrect2
	colIncorrect3
	colIncorrect4
	colHint
)

// Repository читает банк вопросов из табличного хранилища
type Repository struct {
	store sheets.Store
}

// NewRepository создает новый репозиторий вопросов
func NewRepository(store sheets.Store) *Repository {
	return &Repository{store: store}
}

// ListAll возвращает все вопросы в порядке строк листа.
// Раздел приводится к нормальной форме при чтении.
func (r *Repository) ListAll(ctx context.Context) ([]GrammarQuestion, error) {
	rows, err := r.store.ReadRows(ctx, sheets.TableGrammarQuestions)
	if err != nil {
		return nil, apperr.Store(fmt.Errorf("failed to read grammar questions: %w", err))
	}

	data := sheets.DataRows(rows)
	questions := make([]GrammarQuestion, 0, len(data))
	for _, row := range data {
		if len(row) == 0 {
			continue
		}
		questions = append(questions, GrammarQuestion{
			Unit:             sheets.NormalizeUnit(sheets.Cell(row, colUnit)),
			Topic:            sheets.Cell(row, colTopic),
			TopicDescription: sheets.Cell(row, colTopicDescription),
			QuestionType:     sheets.Cell(row, colQuestionType),
			DifficultyLevel:  sheets.Cell(row, colDifficultyLevel),
			Question:         sheets.Cell(row, colQuestion),
			Answer:           sheets.Cell(row, colAnswer),
			Incorrect1:       sheets.Cell(row, colIncorrect1),
			Incorrect2:       sheets.Cell(row, colIncorrect2),
			Incorrect3:       sheets.Cell(row, colIncorrect3),
			Incorrect4:       sheets.Cell(row, colIncorrect4),
			Hint:             sheets.Cell(row, colHint),
		})
	}
	return questions, nil
}
