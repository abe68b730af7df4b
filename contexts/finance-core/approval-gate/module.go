package approvalgate

import (
	"log/slog"

	httpadapter "solutionshub/contexts/finance-core/approval-gate/adapters/http"
	"solutionshub/contexts/finance-core/approval-gate/adapters/memory"
	"solutionshub/contexts/finance-core/approval-gate/application"
	"solutionshub/contexts/finance-core/approval-gate/domain/entities"
	"solutionshub/contexts/finance-core/approval-gate/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Directory ports.RoleDirectory
	Threshold float64
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Directory: deps.Directory,
		Threshold: deps.Threshold,
		Logger:    deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(seed []entities.StaffProfile, threshold float64, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Directory: store,
		Threshold: threshold,
		Logger:    logger,
	})
	module.Store = store
	return module
}
