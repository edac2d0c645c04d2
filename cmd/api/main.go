package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ovaphlow/pitchfork/service-blog-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-blog-go/internal/config"
	"github.com/ovaphlow/pitchfork/service-blog-go/internal/credential"
	"github.com/ovaphlow/pitchfork/service-blog-go/internal/metrics"
	"github.com/ovaphlow/pitchfork/service-blog-go/internal/post"
	postrepo "github.com/ovaphlow/pitchfork/service-blog-go/internal/post/repo"
	"github.com/ovaphlow/pitchfork/service-blog-go/internal/router"
	"github.com/ovaphlow/pitchfork/service-blog-go/internal/session"
	"github.com/ovaphlow/pitchfork/service-blog-go/internal/token"
	"github.com/ovaphlow/pitchfork/service-blog-go/internal/user"
	userrepo "github.com/ovaphlow/pitchfork/service-blog-go/internal/user/repo"
	"github.com/ovaphlow/pitchfork/service-blog-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-blog-go/pkg/utilities"
)

func main() {
	// best-effort: real env wins when no .env exists
	_ = godotenv.Load()

	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting service-blog-go")

	cfg, err := config.Load()
	if err != nil {
		sugar.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, database.ConfigFromEnv())
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	users := userrepo.NewUserRepo(db)
	posts := postrepo.NewPostRepo(db)
	// posts references users
	if err := users.EnsureTable(ctx); err != nil {
		sugar.Fatalf("ensure users table: %v", err)
	}
	if err := posts.EnsureTable(ctx); err != nil {
		sugar.Fatalf("ensure posts table: %v", err)
	}

	codec, err := token.NewCodec(cfg.Auth.JWTSecret)
	if err != nil {
		sugar.Fatalf("token codec: %v", err)
	}
	issuer := session.NewIssuer(codec, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	hasher, err := credential.New(cfg.Password.Hasher)
	if err != nil {
		sugar.Fatalf("password hasher: %v", err)
	}
	cookies := session.CookieOptions{Secure: cfg.HTTP.CookieSecure, SameSite: http.SameSiteLaxMode}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler := router.RegisterRoutes(sugar, router.Deps{
		Users:          user.NewHandler(user.NewUserService(users, hasher, issuer), cookies, sugar),
		Posts:          post.NewHandler(post.NewPostService(posts), sugar),
		Gate:           auth.NewGate(codec, issuer, cookies, sugar, metrics.NewGate(reg)),
		Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	})
	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: handler,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()
	sugar.Infow("service is running", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	sugar.Info("shutting down")

	doneCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}
	sugar.Info("goodbye")
}
