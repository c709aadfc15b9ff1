package meal

import (
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"nutrition-go-worker/enums"
	"nutrition-go-worker/models"
	"nutrition-go-worker/repository"
	"nutrition-go-worker/services"
	"nutrition-go-worker/services/nutrient"
	"nutrition-go-worker/services/trend"
)

// ItemInput 加入餐點的食品與份量, 份量已換算成 product 的 base unit
type ItemInput struct {
	ProductID string
	Quantity  float64
	Unit      string
}

type MealDetails struct {
	Time     *string
	Location string
	Notes    string
}

type MealService struct {
	store  repository.Store
	logger logrus.FieldLogger
}

func NewMealService(store repository.Store, logger logrus.FieldLogger) *MealService {
	return &MealService{store: store, logger: logger}
}

func validateQuantity(quantity float64) error {
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) || quantity <= 0 {
		return services.NewValidationError("quantity", "must be a positive number")
	}
	return nil
}

// CreateMeal 初始項目批次寫入後只重算一次總和
func (m *MealService) CreateMeal(userID string, date time.Time, mealType string, details MealDetails, inputs []ItemInput) (models.Meal, error) {
	if userID == "" {
		return models.Meal{}, services.NewValidationError("user_id", "is required")
	}
	if !enums.MealTypes[mealType] {
		return models.Meal{}, services.NewValidationError("type", "unknown meal type "+mealType)
	}
	for _, input := range inputs {
		if err := validateQuantity(input.Quantity); err != nil {
			return models.Meal{}, err
		}
	}

	meal := models.Meal{
		ID:       services.NewID(),
		UserID:   userID,
		Type:     mealType,
		Date:     services.DateOnly(date),
		Time:     details.Time,
		Location: details.Location,
		Notes:    details.Notes,
	}

	err := m.store.RunAtomic(func(tx repository.Tx) error {
		if err := tx.CreateMeal(&meal); err != nil {
			return err
		}

		items := make([]models.MealItem, 0, len(inputs))
		for _, input := range inputs {
			item, err := buildItem(tx, meal.ID, input)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		if err := tx.InsertItems(items); err != nil {
			return err
		}

		if err := recalculate(tx, &meal); err != nil {
			return err
		}
		return trend.RefreshDay(tx, meal.UserID, meal.Date)
	})
	if err != nil {
		m.logger.WithFields(logrus.Fields{"task": "meal", "user_id": userID, "error_message": err.Error()}).Error("建立餐點失敗")
		return models.Meal{}, err
	}

	m.logger.WithFields(logrus.Fields{"task": "meal", "user_id": userID, "meal_id": meal.ID, "items": len(meal.Items), "total_calories": meal.TotalCalories}).Info("建立餐點")
	return meal, nil
}

func (m *MealService) AddItem(mealID, productID string, quantity float64, unit string) (models.Meal, error) {
	if err := validateQuantity(quantity); err != nil {
		return models.Meal{}, err
	}
	return m.mutate("新增項目", mealID, func(tx repository.Tx, meal *models.Meal) error {
		item, err := buildItem(tx, meal.ID, ItemInput{ProductID: productID, Quantity: quantity, Unit: unit})
		if err != nil {
			return err
		}
		return tx.InsertItem(&item)
	})
}

func (m *MealService) RemoveItem(mealID, itemID string) (models.Meal, error) {
	return m.mutate("移除項目", mealID, func(tx repository.Tx, meal *models.Meal) error {
		return tx.DeleteItem(meal.ID, itemID)
	})
}

// UpdateItemQuantity 以項目記錄的 product 重新換算快照
func (m *MealService) UpdateItemQuantity(mealID, itemID string, quantity float64) (models.Meal, error) {
	if err := validateQuantity(quantity); err != nil {
		return models.Meal{}, err
	}
	return m.mutate("更新份量", mealID, func(tx repository.Tx, meal *models.Meal) error {
		item, err := tx.GetItem(meal.ID, itemID)
		if err != nil {
			return err
		}
		updated, err := buildItem(tx, meal.ID, ItemInput{ProductID: item.ProductID, Quantity: quantity, Unit: item.Unit})
		if err != nil {
			return err
		}
		updated.ID, updated.CreatedAt = item.ID, item.CreatedAt
		return tx.UpdateItem(&updated)
	})
}

func (m *MealService) RecalculateTotals(mealID string) (models.Meal, error) {
	return m.mutate("重算總和", mealID, func(tx repository.Tx, meal *models.Meal) error {
		return nil
	})
}

// DeleteMeal 項目與餐點一起刪除
func (m *MealService) DeleteMeal(mealID string) error {
	err := m.store.RunAtomic(func(tx repository.Tx) error {
		meal, err := tx.GetMeal(mealID)
		if err != nil {
			return err
		}
		if err := tx.DeleteMeal(meal.ID); err != nil {
			return err
		}
		return trend.RefreshDay(tx, meal.UserID, meal.Date)
	})
	if err != nil {
		return err
	}
	m.logger.WithFields(logrus.Fields{"task": "meal", "meal_id": mealID}).Info("刪除餐點")
	return nil
}

func (m *MealService) GetMeal(mealID string) (models.Meal, error) {
	meal, err := m.store.GetMeal(mealID)
	if err != nil {
		return models.Meal{}, services.PersistenceError(err)
	}
	if meal.Items, err = m.store.ListItems(meal.ID); err != nil {
		return models.Meal{}, services.PersistenceError(err)
	}
	return meal, nil
}

func (m *MealService) ListMeals(userID string, date time.Time) ([]models.Meal, error) {
	meals, err := m.store.ListMealsByDate(userID, services.DateOnly(date))
	if err != nil {
		return nil, services.PersistenceError(err)
	}
	for i := range meals {
		if meals[i].Items, err = m.store.ListItems(meals[i].ID); err != nil {
			return nil, services.PersistenceError(err)
		}
	}
	return meals, nil
}

// mutate 讀取餐點, 執行 fn, 重算總和並更新當日 trend, 全部在同一交易
func (m *MealService) mutate(action, mealID string, fn func(tx repository.Tx, meal *models.Meal) error) (models.Meal, error) {
	var meal models.Meal
	err := m.store.RunAtomic(func(tx repository.Tx) error {
		var err error
		if meal, err = tx.GetMeal(mealID); err != nil {
			return err
		}
		if err := fn(tx, &meal); err != nil {
			return err
		}
		if err := recalculate(tx, &meal); err != nil {
			return err
		}
		return trend.RefreshDay(tx, meal.UserID, meal.Date)
	})
	if err != nil {
		m.logger.WithFields(logrus.Fields{"task": "meal", "meal_id": mealID, "error_message": err.Error()}).Error(action + "失敗")
		return models.Meal{}, err
	}

	m.logger.WithFields(logrus.Fields{"task": "meal", "meal_id": mealID, "total_calories": meal.TotalCalories}).Info(action)
	return meal, nil
}

// buildItem 查 product 並換算營養快照
func buildItem(tx repository.Products, mealID string, input ItemInput) (models.MealItem, error) {
	product, err := tx.GetProduct(input.ProductID)
	if err != nil {
		return models.MealItem{}, err
	}
	per100, err := nutrient.ParseProfile(product.Nutrients)
	if err != nil {
		return models.MealItem{}, err
	}
	scaled, err := nutrient.Scale(per100, input.Quantity)
	if err != nil {
		return models.MealItem{}, err
	}
	encoded, err := scaled.Encode()
	if err != nil {
		return models.MealItem{}, err
	}

	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		unit = product.BaseUnit
	}

	return models.MealItem{
		ID:        services.NewID(),
		MealID:    mealID,
		ProductID: product.ID,
		Quantity:  input.Quantity,
		Unit:      unit,
		Calories:  scaled.Get(nutrient.Energy),
		Proteins:  scaled.Get(nutrient.Proteins),
		Carbs:     scaled.Get(nutrient.Carbohydrates),
		Fats:      scaled.Get(nutrient.Fat),
		Fiber:     scaled.Get(nutrient.Fiber),
		Sugars:    scaled.Get(nutrient.Sugars),
		Salt:      scaled.Get(nutrient.Salt),
		Sodium:    scaled.Get(nutrient.Sodium),
		Nutrients: encoded,
	}, nil
}

// Totals 五個總和欄位, 未知的項目值當作 0
func Totals(items []models.MealItem) models.MealTotals {
	var calories, proteins, carbs, fats, fiber []*float64
	for _, item := range items {
		calories = append(calories, item.Calories)
		proteins = append(proteins, item.Proteins)
		carbs = append(carbs, item.Carbs)
		fats = append(fats, item.Fats)
		fiber = append(fiber, item.Fiber)
	}
	return models.MealTotals{
		Calories: nutrient.Sum(calories, nutrient.TotalPrecision),
		Proteins: nutrient.Sum(proteins, nutrient.TotalPrecision),
		Carbs:    nutrient.Sum(carbs, nutrient.TotalPrecision),
		Fats:     nutrient.Sum(fats, nutrient.TotalPrecision),
		Fiber:    nutrient.Sum(fiber, nutrient.TotalPrecision),
	}
}

func recalculate(tx repository.Meals, meal *models.Meal) error {
	items, err := tx.ListItems(meal.ID)
	if err != nil {
		return err
	}
	meal.SetTotals(Totals(items))
	if err := tx.UpdateTotals(meal); err != nil {
		return err
	}
	meal.Items = items
	return nil
}
