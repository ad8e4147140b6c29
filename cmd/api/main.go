package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/docuflow-api/docs"
	"github.com/jhoicas/docuflow-api/internal/application/auth"
	"github.com/jhoicas/docuflow-api/internal/application/usecase"
	infraclassifier "github.com/jhoicas/docuflow-api/internal/infrastructure/classifier"
	"github.com/jhoicas/docuflow-api/internal/infrastructure/nextcloud"
	infrapdf "github.com/jhoicas/docuflow-api/internal/infrastructure/pdf"
	"github.com/jhoicas/docuflow-api/internal/infrastructure/postgres"
	"github.com/jhoicas/docuflow-api/internal/infrastructure/storage/localfs"
	appgraphql "github.com/jhoicas/docuflow-api/internal/interfaces/graphql"
	httpRouter "github.com/jhoicas/docuflow-api/internal/interfaces/http"
	"github.com/jhoicas/docuflow-api/internal/interfaces/soap"
	"github.com/jhoicas/docuflow-api/internal/observability/metrics"
	"github.com/jhoicas/docuflow-api/pkg/config"
	"github.com/jhoicas/docuflow-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("bootstrap del esquema")
	}

	reg := metrics.NewRegistry()

	userRepo := postgres.NewUserRepository(pool)
	docRepo := postgres.NewDocumentRepository(pool)
	wfRepo := postgres.NewWorkflowRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	blobStore, err := localfs.New(cfg.Storage.BasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("storage local")
	}

	// Clasificador: si el artefacto no carga, el servicio arranca igual y los
	// uploads quedan sin categoría.
	var clf usecase.Classifier
	if model, err := infraclassifier.LoadModel(cfg.Classifier.ModelPath); err != nil {
		log.Warn().Err(err).Str("path", cfg.Classifier.ModelPath).Msg("clasificador no disponible")
		clf = infraclassifier.Unavailable{Err: err}
	} else {
		clf = infraclassifier.NewTFIDF(model, cfg.Classifier.LegacyRefit, reg)
		log.Info().Str("path", cfg.Classifier.ModelPath).Bool("legacy_refit", cfg.Classifier.LegacyRefit).
			Msg("clasificador cargado")
	}

	// Storage remoto Nextcloud: opcional, credenciales solo por configuración.
	var remote usecase.RemoteStorage
	if cfg.Nextcloud.Enabled() {
		client, err := nextcloud.New(cfg.Nextcloud, log, reg)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente Nextcloud")
		}
		remote = client
		log.Info().Str("url", cfg.Nextcloud.BaseURL).Msg("subida remota habilitada")
	}

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userUC := usecase.NewUserUseCase(userRepo)
	documentUC := usecase.NewDocumentUseCase(
		docRepo, userRepo, wfRepo, analyticsRepo,
		clf, blobStore, remote, pdfGenerator, txRunner, log,
		time.Duration(cfg.Classifier.TimeoutMS)*time.Millisecond,
	)
	workflowUC := usecase.NewWorkflowUseCase(wfRepo, docRepo, userRepo)

	// Adapters alternativos: GraphQL y SOAP sobre los mismos usecases
	schema, err := appgraphql.NewSchema(appgraphql.Deps{
		DocumentUC: documentUC,
		WorkflowUC: workflowUC,
		UserUC:     userUC,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("schema GraphQL")
	}
	graphqlHandler := appgraphql.NewHandler(schema, cfg.JWT.Secret)

	soapEndpoint := fmt.Sprintf("http://%s/soap", cfg.HTTP.Addr())
	soapHandler := soap.NewHandler(authUC, userUC, documentUC, cfg.JWT.Secret, soapEndpoint)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    25 * 1024 * 1024,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "DocuFlow API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		DocumentUC:     documentUC,
		WorkflowUC:     workflowUC,
		UserUC:         userUC,
		JWTSecret:      cfg.JWT.Secret,
		GraphQLHandler: graphqlHandler,
		SOAPHandler:    soapHandler,
		Metrics:        reg,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
