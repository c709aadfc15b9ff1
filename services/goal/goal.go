package goal

import (
	"time"

	"github.com/sirupsen/logrus"

	"nutrition-go-worker/enums"
	"nutrition-go-worker/models"
	"nutrition-go-worker/repository"
	"nutrition-go-worker/services"
	"nutrition-go-worker/services/trend"
	"nutrition-go-worker/structs"
)

type GoalService struct {
	store  repository.Store
	policy structs.GoalConfig
	logger logrus.FieldLogger
	now    func() time.Time
}

func NewGoalService(store repository.Store, policy structs.GoalConfig, logger logrus.FieldLogger) *GoalService {
	return &GoalService{store: store, policy: policy, logger: logger, now: time.Now}
}

// DeriveGoal 使用設定的熱量下限推導目標
func (g *GoalService) DeriveGoal(user models.User, goalType string, overrides Overrides) (models.NutritionGoal, error) {
	return Derive(user, goalType, overrides, g.policy)
}

// CreateGoal 新目標直接啟用, 同一交易中停用該用戶其他目標
func (g *GoalService) CreateGoal(userID, goalType string, overrides Overrides) (models.NutritionGoal, error) {
	var created models.NutritionGoal
	today := services.DateOnly(g.now())

	err := g.store.RunAtomic(func(tx repository.Tx) error {
		user, err := tx.GetUser(userID)
		if err != nil {
			return err
		}
		goal, err := g.DeriveGoal(user, goalType, overrides)
		if err != nil {
			return err
		}
		goal.ID = services.NewID()
		goal.UserID = userID
		if goal.StartDate.IsZero() {
			goal.StartDate = today
		}
		goal.IsActive = true
		goal.Status = enums.GoalStateActive
		if err := tx.CreateGoal(&goal); err != nil {
			return err
		}
		if err := tx.DeactivateOthers(userID, goal.ID, enums.GoalStateSuperseded); err != nil {
			return err
		}
		// 當天的目標欄位改用新目標
		if err := trend.RefreshDay(tx, userID, today); err != nil {
			return err
		}
		created = goal
		return nil
	})
	if err != nil {
		g.logger.WithFields(logrus.Fields{"task": "goal", "user_id": userID, "goal_type": goalType, "error_message": err.Error()}).Error("建立目標失敗")
		return models.NutritionGoal{}, err
	}

	g.logger.WithFields(logrus.Fields{"task": "goal", "user_id": userID, "goal_id": created.ID, "target_calories": created.TargetCalories}).Info("建立目標")
	return Decorate(created, today), nil
}

// ActivateGoal 停用其他目標、啟用指定目標、刷新當天趨勢在同一交易
func (g *GoalService) ActivateGoal(userID, goalID string) (models.NutritionGoal, error) {
	var activated models.NutritionGoal
	today := services.DateOnly(g.now())
	err := g.store.RunAtomic(func(tx repository.Tx) error {
		goal, err := tx.GetGoal(userID, goalID)
		if err != nil {
			return err
		}
		if err := tx.DeactivateOthers(userID, goalID, enums.GoalStateSuperseded); err != nil {
			return err
		}
		if err := tx.SetGoalStatus(goalID, true, enums.GoalStateActive); err != nil {
			return err
		}
		if err := trend.RefreshDay(tx, userID, today); err != nil {
			return err
		}
		goal.IsActive, goal.Status = true, enums.GoalStateActive
		activated = goal
		return nil
	})
	if err != nil {
		return models.NutritionGoal{}, err
	}

	g.logger.WithFields(logrus.Fields{"task": "goal", "user_id": userID, "goal_id": goalID}).Info("啟用目標")
	return Decorate(activated, today), nil
}

// DeactivateGoal 只停用, 不會啟用其他目標
func (g *GoalService) DeactivateGoal(userID, goalID string) (models.NutritionGoal, error) {
	var deactivated models.NutritionGoal
	err := g.store.RunAtomic(func(tx repository.Tx) error {
		goal, err := tx.GetGoal(userID, goalID)
		if err != nil {
			return err
		}
		if err := tx.SetGoalStatus(goalID, false, enums.GoalStateDeactivated); err != nil {
			return err
		}
		goal.IsActive, goal.Status = false, enums.GoalStateDeactivated
		deactivated = goal
		return nil
	})
	if err != nil {
		return models.NutritionGoal{}, err
	}

	g.logger.WithFields(logrus.Fields{"task": "goal", "user_id": userID, "goal_id": goalID}).Info("停用目標")
	return Decorate(deactivated, g.now()), nil
}

// ActiveGoal 沒有啟用中的目標時回傳 nil
func (g *GoalService) ActiveGoal(userID string) (*models.NutritionGoal, error) {
	goal, err := g.store.ActiveGoal(userID)
	if err != nil {
		return nil, services.PersistenceError(err)
	}
	if goal == nil {
		return nil, nil
	}
	decorated := Decorate(*goal, g.now())
	return &decorated, nil
}

func (g *GoalService) ListGoals(userID string) ([]models.NutritionGoal, error) {
	goals, err := g.store.ListGoals(userID)
	if err != nil {
		return nil, services.PersistenceError(err)
	}
	today := g.now()
	for i := range goals {
		goals[i] = Decorate(goals[i], today)
	}
	return goals, nil
}

// GoalProgress 以啟用中的目標計算達成率
func (g *GoalService) GoalProgress(goal models.NutritionGoal, current structs.CurrentNutrients) structs.GoalProgress {
	return Progress(goal, current)
}
