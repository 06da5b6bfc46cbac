package state

import (
	"github.com/google/uuid"

	"github.com/mmeshcher/stellar-client/internal/model"
)

type constructorState struct {
	bun         *model.Ingredient
	ingredients []model.ConstructorIngredient
	totalPrice  int
}

// totalPrice пересчитывается синхронно после каждого добавления и
// удаления: булка входит в цену дважды (верх и низ).
func (c *constructorState) recalcTotalPrice() {
	total := 0
	if c.bun != nil {
		total += c.bun.Price * 2
	}
	for _, item := range c.ingredients {
		total += item.Price
	}
	c.totalPrice = total
}

// AddIngredient помещает ингредиент в конструктор. Булка заменяет текущую,
// начинка добавляется в конец последовательности с новым уникальным
// идентификатором размещения.
func (s *Store) AddIngredient(ingredient model.Ingredient) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ingredient.Type == model.IngredientTypeBun {
		bun := ingredient
		s.constructor.bun = &bun
	} else {
		s.constructor.ingredients = append(s.constructor.ingredients, model.ConstructorIngredient{
			Ingredient: ingredient,
			InstanceID: uuid.NewString(),
		})
	}

	s.constructor.recalcTotalPrice()
}

// RemoveIngredient убирает начинку с указанным идентификатором размещения.
// Неизвестный идентификатор не считается ошибкой.
func (s *Store) RemoveIngredient(instanceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.constructor.ingredients
	for i, item := range items {
		if item.InstanceID == instanceID {
			s.constructor.ingredients = append(items[:i], items[i+1:]...)
			break
		}
	}

	s.constructor.recalcTotalPrice()
}

// ReorderIngredient перемещает начинку с позиции from на позицию to,
// сдвигая промежуточные элементы. Выход from за границы — no-op,
// to приводится к допустимому диапазону. Цена не меняется.
func (s *Store) ReorderIngredient(from, to int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.constructor.ingredients
	if from < 0 || from >= len(items) {
		return
	}
	if to < 0 {
		to = 0
	}
	if to >= len(items) {
		to = len(items) - 1
	}
	if from == to {
		return
	}

	moved := items[from]
	items = append(items[:from], items[from+1:]...)

	items = append(items, model.ConstructorIngredient{})
	copy(items[to+1:], items[to:])
	items[to] = moved

	s.constructor.ingredients = items
}

// ClearConstructor полностью сбрасывает конструктор.
func (s *Store) ClearConstructor() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.constructor.bun = nil
	s.constructor.ingredients = nil
	s.constructor.totalPrice = 0
}

// Bun возвращает выбранную булку.
func (s *Store) Bun() (model.Ingredient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.constructor.bun == nil {
		return model.Ingredient{}, false
	}
	return *s.constructor.bun, true
}

// ConstructorIngredients возвращает копию последовательности начинок.
func (s *Store) ConstructorIngredients() []model.ConstructorIngredient {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]model.ConstructorIngredient, len(s.constructor.ingredients))
	copy(items, s.constructor.ingredients)
	return items
}

// TotalPrice возвращает текущую стоимость бургера.
func (s *Store) TotalPrice() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.constructor.totalPrice
}

// IngredientCounts возвращает количество размещений каждого ингредиента
// каталога в конструкторе; булка учитывается дважды. Используется для
// счётчиков на карточках каталога.
func (s *Store) IngredientCounts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int)
	if s.constructor.bun != nil {
		counts[s.constructor.bun.ID] = 2
	}
	for _, item := range s.constructor.ingredients {
		counts[item.ID]++
	}
	return counts
}

// OrderSequence собирает последовательность идентификаторов для создания
// заказа: булка, начинки по порядку, снова булка. Без булки заказ
// собрать нельзя, возвращается (nil, false).
func (s *Store) OrderSequence() ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.constructor.bun == nil {
		return nil, false
	}

	ids := make([]string, 0, len(s.constructor.ingredients)+2)
	ids = append(ids, s.constructor.bun.ID)
	for _, item := range s.constructor.ingredients {
		ids = append(ids, item.ID)
	}
	ids = append(ids, s.constructor.bun.ID)
	return ids, true
}
