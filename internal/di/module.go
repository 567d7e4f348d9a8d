package di

import (
	"go.uber.org/fx"

	"github.com/orderdesk/orderdesk/internal/adapter/mailer"
	"github.com/orderdesk/orderdesk/internal/app"
	"github.com/orderdesk/orderdesk/internal/config"
	"github.com/orderdesk/orderdesk/internal/logger"
	"github.com/orderdesk/orderdesk/internal/metrics"
	"github.com/orderdesk/orderdesk/internal/pkg/auth"
	"github.com/orderdesk/orderdesk/internal/server/http/handlers"
	"github.com/orderdesk/orderdesk/internal/server/http/router"
	"github.com/orderdesk/orderdesk/internal/server/ws"
	"github.com/orderdesk/orderdesk/internal/storage/postgres"
	"github.com/orderdesk/orderdesk/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		metrics.Module,
		auth.Module,
		postgres.Module,
		mailer.Module,
		usecase.Module,
		ws.Module,
		fx.Provide(func(s *postgres.Storage) app.Pinger { return s }),
		fx.Provide(func(f *app.WorkflowFacade) handlers.WorkflowFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
