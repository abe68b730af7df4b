package paymentsettlement

import (
	"log/slog"
	"time"

	httpadapter "solutionshub/contexts/finance-core/payment-settlement/adapters/http"
	"solutionshub/contexts/finance-core/payment-settlement/adapters/memory"
	"solutionshub/contexts/finance-core/payment-settlement/application/commands"
	"solutionshub/contexts/finance-core/payment-settlement/application/queries"
	"solutionshub/contexts/finance-core/payment-settlement/domain/entities"
	"solutionshub/contexts/finance-core/payment-settlement/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Payments        ports.PaymentRepository
	Ledger          ports.LedgerRepository
	Policies        ports.PolicyResolver
	Outbox          ports.OutboxWriter
	Clock           ports.Clock
	IDGenerator     ports.IDGenerator
	SettlementDelay time.Duration
	Logger          *slog.Logger
}

func NewModule(deps Dependencies) Module {
	commandUseCase := commands.UseCase{
		Payments:        deps.Payments,
		Ledger:          deps.Ledger,
		Policies:        deps.Policies,
		Outbox:          deps.Outbox,
		Clock:           deps.Clock,
		IDGen:           deps.IDGenerator,
		SettlementDelay: deps.SettlementDelay,
		Logger:          deps.Logger,
	}
	queryUseCase := queries.UseCase{
		Payments: deps.Payments,
		Ledger:   deps.Ledger,
		Logger:   deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Commands: commandUseCase,
			Queries:  queryUseCase,
			Logger:   deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Payment, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Payments:    store,
		Ledger:      store,
		Policies:    store,
		Outbox:      store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
