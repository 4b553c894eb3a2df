package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/kindle-digest/internal/classifier"
	"github.com/mrlokans/kindle-digest/internal/config"
	"github.com/mrlokans/kindle-digest/internal/delivery"
	http_controllers "github.com/mrlokans/kindle-digest/internal/http"
	"github.com/mrlokans/kindle-digest/internal/importers"
	"github.com/mrlokans/kindle-digest/internal/sampler"
	"github.com/mrlokans/kindle-digest/internal/scheduler"
	"github.com/mrlokans/kindle-digest/internal/service"
	"github.com/mrlokans/kindle-digest/internal/store"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for SIGINT or SIGTERM, then give in-flight requests the
	// configured timeout to finish.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Kindle Digest v%s", version)

	st := store.New(cfg.Store.Path)
	if _, err := st.Load(); err != nil {
		log.Fatalf("Failed to read highlight store at %s: %v", cfg.Store.Path, err)
	}
	log.Printf("Using highlight store at %s", cfg.Store.Path)

	pipeline := importers.NewPipeline(st)

	sender := delivery.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.From)
	if cfg.Email.ResendAPIKey == "" {
		log.Printf("WARNING: Resend API key is not set. Scheduled digests will fail to send. Set 'RESEND_API_KEY' environment variable to enable.")
	}

	svc := service.New(st, sampler.New(nil), sender, cfg.Digest.Count, cfg.Email.To)
	if cfg.Classifier.Enabled {
		svc = svc.WithClassifier(classifier.NewOpenAIClassifier())
		log.Printf("Theme classification enabled")
	}

	// Scheduled daily digest delivery
	var digestScheduler *scheduler.DigestScheduler
	var schedCancel context.CancelFunc
	if cfg.Email.To != "" {
		digestScheduler = scheduler.NewDigestScheduler(svc, cfg.Digest.Schedule)

		var schedCtx context.Context
		schedCtx, schedCancel = context.WithCancel(context.Background())
		if err := digestScheduler.Start(schedCtx); err != nil {
			log.Fatalf("Failed to start digest scheduler: %v", err)
		}
	} else {
		log.Printf("WARNING: 'TO_EMAIL' is not set, scheduled digest delivery is disabled")
	}

	routerCfg := http_controllers.RouterConfig{
		Store:    st,
		Pipeline: pipeline,
		Service:  svc,
		Version:  version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if digestScheduler != nil {
			digestScheduler.Stop()
			schedCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
