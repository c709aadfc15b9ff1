// Package repositorytest 記憶體版的 repository.Store, 交易語意與資料庫相同:
// 開始時快照, fn 失敗時還原。
package repositorytest

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"nutrition-go-worker/models"
	"nutrition-go-worker/repository"
	"nutrition-go-worker/services"
)

var ErrInjected = errors.New("injected failure")

type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	products   map[string]models.Product
	users      map[string]models.User
	meals      map[string]models.Meal
	items      map[string]models.MealItem
	goals      map[string]models.NutritionGoal
	trends     map[string]models.NutritionTrend
	reports    map[string]models.NutritionReport
	workerLogs []models.WorkerLog

	// failOn 指定的操作回傳錯誤
	failOn map[string]error
	clock  int
}

func NewStore() *Store {
	return &Store{
		products: make(map[string]models.Product),
		users:    make(map[string]models.User),
		meals:    make(map[string]models.Meal),
		items:    make(map[string]models.MealItem),
		goals:    make(map[string]models.NutritionGoal),
		trends:   make(map[string]models.NutritionTrend),
		reports:  make(map[string]models.NutritionReport),
		failOn:   make(map[string]error),
	}
}

type snapshot struct {
	meals      map[string]models.Meal
	items      map[string]models.MealItem
	goals      map[string]models.NutritionGoal
	trends     map[string]models.NutritionTrend
	reports    map[string]models.NutritionReport
	workerLogs []models.WorkerLog
}

func copyMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (s *Store) RunAtomic(fn func(tx repository.Tx) error) (err error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snap := snapshot{
		meals:      copyMap(s.meals),
		items:      copyMap(s.items),
		goals:      copyMap(s.goals),
		trends:     copyMap(s.trends),
		reports:    copyMap(s.reports),
		workerLogs: append([]models.WorkerLog(nil), s.workerLogs...),
	}
	s.mu.Unlock()

	rollback := func() {
		s.mu.Lock()
		s.meals, s.items, s.goals = snap.meals, snap.items, snap.goals
		s.trends, s.reports, s.workerLogs = snap.trends, snap.reports, snap.workerLogs
		s.mu.Unlock()
	}

	defer func() {
		if r := recover(); r != nil {
			rollback()
			err = services.PersistenceError(fmt.Errorf("panic in transaction: %v", r))
		}
	}()

	if err = fn(s); err != nil {
		rollback()
		return services.PersistenceError(err)
	}
	return nil
}

// FailOn 讓 op (方法名稱) 之後的呼叫都回傳 err, err 為 nil 則使用 ErrInjected
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		err = ErrInjected
	}
	s.failOn[op] = err
}

func (s *Store) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn = make(map[string]error)
}

func (s *Store) fail(op string) error {
	return s.failOn[op]
}

func (s *Store) now() *time.Time {
	s.clock++
	t := time.Date(2024, 1, 1, 0, 0, s.clock, 0, time.UTC)
	return &t
}

func trendKey(userID string, date time.Time) string {
	return userID + "|" + date.Format(services.DateLayout)
}

func sameDay(a, b time.Time) bool {
	return a.Format(services.DateLayout) == b.Format(services.DateLayout)
}

// ---- fixtures ----

func (s *Store) PutProduct(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *Store) PutUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *Store) PutTrend(t models.NutritionTrend) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.Date = services.DateOnly(t.Date)
	s.trends[trendKey(t.UserID, t.Date)] = t
}

func (s *Store) PutGoal(g models.NutritionGoal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[g.ID] = g
}

// TrendRows 該用戶所有 trend 資料列數量 (含重複檢查用)
func (s *Store) TrendRows(userID string) []models.NutritionTrend {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []models.NutritionTrend
	for _, t := range s.trends {
		if t.UserID == userID {
			rows = append(rows, t)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows
}

func (s *Store) Reports() []models.NutritionReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rows []models.NutritionReport
	for _, r := range s.reports {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].UserID+rows[i].Label < rows[j].UserID+rows[j].Label })
	return rows
}

func (s *Store) WorkerLogs() []models.WorkerLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.WorkerLog(nil), s.workerLogs...)
}

func (s *Store) ItemCount(mealID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.items {
		if it.MealID == mealID {
			n++
		}
	}
	return n
}

// ---- products / users ----

func (s *Store) GetProduct(id string) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("GetProduct"); err != nil {
		return models.Product{}, err
	}
	p, ok := s.products[id]
	if !ok {
		return models.Product{}, services.NewNotFoundError("product", id)
	}
	return p, nil
}

func (s *Store) GetUser(id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("GetUser"); err != nil {
		return models.User{}, err
	}
	u, ok := s.users[id]
	if !ok {
		return models.User{}, services.NewNotFoundError("user", id)
	}
	return u, nil
}

func (s *Store) ListUsers() ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ListUsers"); err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// ---- meals ----

func (s *Store) CreateMeal(meal *models.Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CreateMeal"); err != nil {
		return err
	}
	meal.CreatedAt, meal.UpdatedAt = s.now(), s.now()
	stored := *meal
	stored.Items = nil
	s.meals[meal.ID] = stored
	return nil
}

func (s *Store) GetMeal(id string) (models.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("GetMeal"); err != nil {
		return models.Meal{}, err
	}
	m, ok := s.meals[id]
	if !ok {
		return models.Meal{}, services.NewNotFoundError("meal", id)
	}
	return m, nil
}

func (s *Store) ListMealsByDate(userID string, date time.Time) ([]models.Meal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ListMealsByDate"); err != nil {
		return nil, err
	}
	var meals []models.Meal
	for _, m := range s.meals {
		if m.UserID == userID && sameDay(m.Date, date) {
			meals = append(meals, m)
		}
	}
	sort.Slice(meals, func(i, j int) bool { return meals[i].CreatedAt.Before(*meals[j].CreatedAt) })
	return meals, nil
}

func (s *Store) UpdateTotals(meal *models.Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("UpdateTotals"); err != nil {
		return err
	}
	stored, ok := s.meals[meal.ID]
	if !ok {
		return services.NewNotFoundError("meal", meal.ID)
	}
	stored.SetTotals(meal.Totals())
	stored.UpdatedAt = s.now()
	s.meals[meal.ID] = stored
	return nil
}

func (s *Store) DeleteMeal(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("DeleteMeal"); err != nil {
		return err
	}
	if _, ok := s.meals[id]; !ok {
		return services.NewNotFoundError("meal", id)
	}
	for itemID, it := range s.items {
		if it.MealID == id {
			delete(s.items, itemID)
		}
	}
	delete(s.meals, id)
	return nil
}

func (s *Store) InsertItems(items []models.MealItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("InsertItems"); err != nil {
		return err
	}
	for _, it := range items {
		if _, ok := s.meals[it.MealID]; !ok {
			return services.NewNotFoundError("meal", it.MealID)
		}
	}
	for _, it := range items {
		it.CreatedAt, it.UpdatedAt = s.now(), s.now()
		s.items[it.ID] = it
	}
	return nil
}

func (s *Store) InsertItem(item *models.MealItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("InsertItem"); err != nil {
		return err
	}
	if _, ok := s.meals[item.MealID]; !ok {
		return services.NewNotFoundError("meal", item.MealID)
	}
	item.CreatedAt, item.UpdatedAt = s.now(), s.now()
	s.items[item.ID] = *item
	return nil
}

func (s *Store) GetItem(mealID, itemID string) (models.MealItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("GetItem"); err != nil {
		return models.MealItem{}, err
	}
	it, ok := s.items[itemID]
	if !ok || it.MealID != mealID {
		return models.MealItem{}, services.NewNotFoundError("meal item", itemID)
	}
	return it, nil
}

func (s *Store) UpdateItem(item *models.MealItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("UpdateItem"); err != nil {
		return err
	}
	stored, ok := s.items[item.ID]
	if !ok || stored.MealID != item.MealID {
		return services.NewNotFoundError("meal item", item.ID)
	}
	item.UpdatedAt = s.now()
	s.items[item.ID] = *item
	return nil
}

func (s *Store) DeleteItem(mealID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("DeleteItem"); err != nil {
		return err
	}
	it, ok := s.items[itemID]
	if !ok || it.MealID != mealID {
		return services.NewNotFoundError("meal item", itemID)
	}
	delete(s.items, itemID)
	return nil
}

func (s *Store) ListItems(mealID string) ([]models.MealItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ListItems"); err != nil {
		return nil, err
	}
	var items []models.MealItem
	for _, it := range s.items {
		if it.MealID == mealID {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(*items[j].CreatedAt) })
	return items, nil
}

// ---- goals ----

func (s *Store) CreateGoal(goal *models.NutritionGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CreateGoal"); err != nil {
		return err
	}
	goal.CreatedAt, goal.UpdatedAt = s.now(), s.now()
	stored := *goal
	stored.TargetMacros = nil
	s.goals[goal.ID] = stored
	return nil
}

func (s *Store) GetGoal(userID, goalID string) (models.NutritionGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("GetGoal"); err != nil {
		return models.NutritionGoal{}, err
	}
	g, ok := s.goals[goalID]
	if !ok || g.UserID != userID {
		return models.NutritionGoal{}, services.NewNotFoundError("goal", goalID)
	}
	return g, nil
}

func (s *Store) ActiveGoal(userID string) (*models.NutritionGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ActiveGoal"); err != nil {
		return nil, err
	}
	for _, g := range s.goals {
		if g.UserID == userID && g.IsActive {
			goal := g
			return &goal, nil
		}
	}
	return nil, nil
}

func (s *Store) ListGoals(userID string) ([]models.NutritionGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ListGoals"); err != nil {
		return nil, err
	}
	var goals []models.NutritionGoal
	for _, g := range s.goals {
		if g.UserID == userID {
			goals = append(goals, g)
		}
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].CreatedAt.After(*goals[j].CreatedAt) })
	return goals, nil
}

func (s *Store) SetGoalStatus(goalID string, active bool, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("SetGoalStatus"); err != nil {
		return err
	}
	g, ok := s.goals[goalID]
	if !ok {
		return services.NewNotFoundError("goal", goalID)
	}
	g.IsActive, g.Status, g.UpdatedAt = active, status, s.now()
	s.goals[goalID] = g
	return nil
}

func (s *Store) DeactivateOthers(userID, keepID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("DeactivateOthers"); err != nil {
		return err
	}
	for id, g := range s.goals {
		if g.UserID == userID && id != keepID && g.IsActive {
			g.IsActive, g.Status, g.UpdatedAt = false, status, s.now()
			s.goals[id] = g
		}
	}
	return nil
}

// ---- trends ----

func (s *Store) UpsertTrend(upsert repository.TrendUpsert) error {
	if err := upsert.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("UpsertTrend"); err != nil {
		return err
	}
	upsert.Trend.Date = services.DateOnly(upsert.Trend.Date)
	key := trendKey(upsert.Trend.UserID, upsert.Trend.Date)
	stored, ok := s.trends[key]
	if !ok {
		stored = upsert.Insert()
		stored.CreatedAt = s.now()
	} else {
		upsert.Merge(&stored)
	}
	stored.UpdatedAt = s.now()
	s.trends[key] = stored
	return nil
}

func (s *Store) ListTrends(userID string, from, to time.Time) ([]models.NutritionTrend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ListTrends"); err != nil {
		return nil, err
	}
	from, to = services.DateOnly(from), services.DateOnly(to)
	var rows []models.NutritionTrend
	for _, t := range s.trends {
		if t.UserID != userID || t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		rows = append(rows, t)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows, nil
}

// ---- reports / logs ----

func (s *Store) SaveReport(report *models.NutritionReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("SaveReport"); err != nil {
		return err
	}
	key := report.UserID + "|" + report.Period + "|" + report.Label
	if stored, ok := s.reports[key]; ok {
		report.ID, report.CreatedAt = stored.ID, stored.CreatedAt
	} else {
		report.CreatedAt = s.now()
	}
	report.UpdatedAt = s.now()
	s.reports[key] = *report
	return nil
}

func (s *Store) InsertWorkerLog(log *models.WorkerLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("InsertWorkerLog"); err != nil {
		return err
	}
	log.ID = int64(len(s.workerLogs) + 1)
	s.workerLogs = append(s.workerLogs, *log)
	return nil
}
