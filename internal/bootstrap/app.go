package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/locvowork/employee_management_sample/gridexport/internal/config"
	"github.com/locvowork/employee_management_sample/gridexport/internal/database"
	"github.com/locvowork/employee_management_sample/gridexport/internal/domain"
	"github.com/locvowork/employee_management_sample/gridexport/internal/handler"
	"github.com/locvowork/employee_management_sample/gridexport/internal/logger"
	"github.com/locvowork/employee_management_sample/gridexport/internal/repository"
	"github.com/locvowork/employee_management_sample/gridexport/internal/search"
	"github.com/locvowork/employee_management_sample/gridexport/internal/service"
	"github.com/locvowork/employee_management_sample/gridexport/pkg/googlecloud"
	"github.com/locvowork/employee_management_sample/gridexport/pkg/gridexport"
)

type App struct {
	Echo *echo.Echo
	DB   *sql.DB
	GCP  *googlecloud.Client
}

func NewApp() *App {
	return &App{
		Echo: echo.New(),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	env := config.DefaultEnvConfig

	logger.InitLogging(env.LOG_FILE_PATH)
	logger.SetLevel(env.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	profile, err := config.LoadExportProfile(env.EXPORT_PROFILE_PATH)
	if err != nil {
		return fmt.Errorf("failed to load export profile: %w", err)
	}

	db, err := database.NewPostgresDB(ctx, database.Config{
		Host:            env.DB_HOST,
		Port:            env.DB_PORT,
		User:            env.DB_USER,
		Password:        env.DB_PASSWORD,
		DBName:          env.DB_NAME,
		SSLMode:         env.DB_SSL_MODE,
		MaxOpenConns:    env.DB_MAX_OPEN_CONNS,
		MaxIdleConns:    env.DB_MAX_IDLE_CONNS,
		ConnMaxLifetime: env.DB_CONN_MAX_LIFETIME,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.DB = db

	sources := service.ExportSources{
		Employees: repository.NewEmployeeRepository(db),
	}

	if env.ELASTIC_URL != "" {
		es, err := search.NewClient(env.ELASTIC_URL)
		if err != nil {
			return err
		}
		index := env.ELASTIC_INDEX
		sources.Search = func(filter domain.EmployeeFilter) gridexport.PagedProvider {
			return search.NewEmployeeSearchProvider(es, index, filter)
		}
	} else {
		logger.WarnLog(ctx, "ELASTIC_URL not set, search exports disabled")
	}

	var taskHandler *handler.TaskHandler
	if env.GCP_PROJECT_ID != "" {
		gcpClient, err := googlecloud.NewClient(ctx, env.GCP_PROJECT_ID)
		if err != nil {
			// Task exports are optional; the rest of the API still works.
			logger.ErrorLog(ctx, "failed to initialize GCP client: %v", err)
		} else {
			a.GCP = gcpClient
			sources.Tasks = func(taskListID string, onlyOpen bool) gridexport.BatchQuery {
				return gcpClient.TaskQuery(taskListID, onlyOpen)
			}
			taskHandler = handler.NewTaskHandler(gcpClient)
		}
	}

	exportSvc, err := service.NewExportService(sources, profile)
	if err != nil {
		return err
	}

	a.RegisterMiddlewares()
	a.RegisterRoutes(handler.NewExportHandler(exportSvc), taskHandler)
	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
}

func (a *App) RegisterRoutes(exportHandler *handler.ExportHandler, taskHandler *handler.TaskHandler) {
	exportGroup := a.Echo.Group("/export")
	exportGroup.GET("/employees", exportHandler.ExportEmployeesHandler)
	exportGroup.GET("/employees/preview", exportHandler.PreviewEmployeesHandler)
	exportGroup.GET("/tasks", exportHandler.ExportTasksHandler)

	if taskHandler != nil {
		gcpGroup := a.Echo.Group("/api/v1/gcp")
		gcpGroup.POST("/task-lists", taskHandler.CreateTaskListHandler)
		gcpGroup.POST("/task-lists/:id/tasks", taskHandler.CreateTaskHandler)
		gcpGroup.GET("/task-lists/:id/count", taskHandler.CountTasksHandler)
	}
}

func (a *App) Run() error {
	defer a.DB.Close()
	if a.GCP != nil {
		defer a.GCP.Close()
	}
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}
