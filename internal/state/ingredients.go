package state

import (
	"context"

	"go.uber.org/zap"

	"github.com/mmeshcher/stellar-client/internal/model"
)

const fallbackFetchIngredients = "Failed to fetch ingredients"

type ingredientsState struct {
	items   []model.Ingredient
	status  Status
	err     string
	lastSeq uint64
}

// FetchIngredients загружает каталог ингредиентов. Успех заменяет каталог
// целиком; при отказе прежний каталог сохраняется. Устаревшее завершение
// (после более позднего запроса того же вида) состояние не меняет.
func (s *Store) FetchIngredients(ctx context.Context) error {
	s.mu.Lock()
	s.ingredients.status = StatusLoading
	s.ingredients.err = ""
	s.ingredients.lastSeq++
	seq := s.ingredients.lastSeq
	s.mu.Unlock()

	items, err := s.api.GetIngredients(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.ingredients.lastSeq {
		return err
	}

	if err != nil {
		s.ingredients.status = StatusFailed
		s.ingredients.err = errMessage(err, fallbackFetchIngredients)
		s.logger.Error("fetch ingredients error", zap.Error(err))
		return err
	}

	s.ingredients.status = StatusSucceeded
	s.ingredients.items = items
	return nil
}

// Ingredients возвращает копию каталога ингредиентов.
func (s *Store) Ingredients() []model.Ingredient {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]model.Ingredient, len(s.ingredients.items))
	copy(items, s.ingredients.items)
	return items
}

// IngredientsStatus возвращает фазу загрузки каталога.
func (s *Store) IngredientsStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ingredients.status
}

// IngredientsError возвращает сообщение последнего отказа загрузки каталога.
func (s *Store) IngredientsError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ingredients.err
}

// IngredientByID ищет ингредиент каталога по идентификатору.
// Для пустого или неизвестного идентификатора возвращается (zero, false).
func (s *Store) IngredientByID(id string) (model.Ingredient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		return model.Ingredient{}, false
	}
	for _, item := range s.ingredients.items {
		if item.ID == id {
			return item, true
		}
	}
	return model.Ingredient{}, false
}
