package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/aqsaat/aqsaat/internal/config"
	"github.com/aqsaat/aqsaat/internal/utils"
	"github.com/aqsaat/aqsaat/pkg/bankfee"
	"github.com/aqsaat/aqsaat/pkg/fellow"
	"github.com/aqsaat/aqsaat/pkg/item"
	"github.com/aqsaat/aqsaat/pkg/salary"
	"github.com/aqsaat/aqsaat/pkg/schedule"
	"github.com/aqsaat/aqsaat/pkg/share"
	"github.com/aqsaat/aqsaat/pkg/spending"
	"github.com/aqsaat/aqsaat/pkg/user"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	UserService user.Service
	UserHandler *user.Handler

	ShareRepo       share.Repository
	ShareReconciler *share.Reconciler
	ShareService    share.Service
	ShareHandler    *share.Handler

	ItemRepo    item.Repository
	ItemService item.Service
	ItemHandler *item.Handler

	FellowRepo    fellow.Repository
	FellowService fellow.Service
	FellowHandler *fellow.Handler

	SpendingRepo    spending.Repository
	SpendingService spending.Service
	SpendingHandler *spending.Handler

	BankFeeService bankfee.Service
	BankFeeHandler *bankfee.Handler

	SalaryService salary.Service
	SalaryHandler *salary.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	policy, err := schedule.ParsePolicy(cfg.Schedule.RemainderPolicy)
	if err != nil {
		log.Warnf("%v, falling back to %q", err, schedule.RemainderUniform)
		policy = schedule.RemainderUniform
	}

	deps.ShareRepo = share.NewRepository(db)
	deps.ShareReconciler = share.NewReconciler(deps.ShareRepo, policy)
	deps.ShareService = share.NewService(deps.ShareRepo, deps.Clock)
	deps.ShareHandler = share.NewHandler(deps.ShareService)

	deps.ItemRepo = item.NewRepository(db)
	deps.ItemService = item.NewService(deps.ItemRepo, deps.ShareReconciler)
	deps.ItemHandler = item.NewHandler(deps.ItemService)

	deps.FellowRepo = fellow.NewRepository(db)
	deps.FellowService = fellow.NewService(deps.FellowRepo, deps.ShareReconciler)
	deps.FellowHandler = fellow.NewHandler(deps.FellowService)

	deps.SpendingRepo = spending.NewRepository(db)
	deps.SpendingService = spending.NewService(deps.SpendingRepo)
	deps.SpendingHandler = spending.NewHandler(deps.SpendingService)

	deps.BankFeeService = bankfee.NewService(bankfee.NewRepository(db))
	deps.BankFeeHandler = bankfee.NewHandler(deps.BankFeeService)

	deps.SalaryService = salary.NewService(deps.UserService, deps.ItemRepo, deps.FellowRepo, deps.SpendingRepo)
	deps.SalaryHandler = salary.NewHandler(deps.SalaryService)

	return deps
}
