// Package app はアプリケーションの起動とサブコマンドの実行を提供する。
package app

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/hitoshi/kakeibo/internal/auth"
	"github.com/hitoshi/kakeibo/internal/client"
	"github.com/hitoshi/kakeibo/internal/config"
	"github.com/hitoshi/kakeibo/internal/database"
	"github.com/hitoshi/kakeibo/internal/handler"
	"github.com/hitoshi/kakeibo/internal/logger"
	"github.com/hitoshi/kakeibo/internal/metrics"
	"github.com/hitoshi/kakeibo/internal/middleware"
	"github.com/hitoshi/kakeibo/internal/model"
	"github.com/hitoshi/kakeibo/internal/report"
	"github.com/hitoshi/kakeibo/internal/repository"
)

// Init はアプリケーションの初期化を行う。
// .envファイル（存在する場合）と環境変数からConfigを読み込み、
// JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. .envファイルがあれば読み込む（未設定の環境変数のみ）
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded environment from .env file")
	}

	// 3. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	// report はDB接続不要のためConfigなしで実行できる
	if cmd == CommandReport {
		logger.SetupDefault(os.Stderr)
		return runReport(w, args[1:])
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("env", cfg.Env),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	case CommandSeed:
		return runSeed(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. リポジトリの初期化
	userRepo := repository.NewPostgresUserRepo(db)
	expenseRepo := repository.NewPostgresExpenseRepo(db)

	// 3. 認証サービスの初期化
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authService := auth.NewService(userRepo, tokens, auth.ServiceConfig{
		BcryptCost: cfg.BcryptCost,
	})

	// 4. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 5. レート制限の構成（configはreq/min単位なのでreq/secに変換）
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
	rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	rateLimiterCfg.AuthRate = rate.Limit(float64(cfg.RateLimitAuth) / 60.0)
	rateLimiterCfg.AuthBurst = cfg.RateLimitAuth

	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	// 6. ルーターの構築
	deps := &handler.RouterDeps{
		Authenticator:     authService,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		Logger:            slog.Default(),

		// 500エラーの詳細は非本番環境でのみレスポンスに含める
		ExposeErrorDetails: !cfg.IsProduction(),

		AuthService:  authService,
		ExpenseStore: expenseRepo,
		Pinger:       db,

		Collector:       collector,
		MetricsGatherer: registry,
	}

	router := handler.NewRouter(deps)

	// 7. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// seedのデモユーザー認証情報。
const (
	seedUserName     = "Demo User"
	seedUserEmail    = "demo@example.com"
	seedUserPassword = "password123"
)

// runSeed はデモユーザーとサンプル支出データを投入する。
// デモユーザーが既に存在する場合、既存の支出は残したまま追記する。
func runSeed(cfg *config.Config) error {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	ctx := context.Background()
	userRepo := repository.NewPostgresUserRepo(db)
	expenseRepo := repository.NewPostgresExpenseRepo(db)

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authService := auth.NewService(userRepo, tokens, auth.ServiceConfig{
		BcryptCost: cfg.BcryptCost,
	})

	// デモユーザーの取得または作成
	user, err := userRepo.FindByEmail(ctx, seedUserEmail)
	if err != nil {
		return fmt.Errorf("failed to look up seed user: %w", err)
	}
	if user == nil {
		user, _, err = authService.Signup(ctx, seedUserName, seedUserEmail, seedUserPassword)
		if err != nil {
			return fmt.Errorf("failed to create seed user: %w", err)
		}
		slog.Info("seed user created", slog.String("email", seedUserEmail))
	} else {
		slog.Info("seed user already exists", slog.String("email", seedUserEmail))
	}

	// サンプル支出の投入
	for _, input := range client.SampleExpenses() {
		now := time.Now()
		expense := &model.Expense{
			ID:          uuid.New().String(),
			UserID:      user.ID,
			Category:    input.Category,
			Description: input.Description,
			Date:        input.Date,
			Vendor:      input.Vendor,
			Amount:      input.Amount,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := expenseRepo.Create(ctx, expense); err != nil {
			return fmt.Errorf("failed to insert seed expense: %w", err)
		}
	}

	slog.Info("seed data inserted",
		slog.Int("expense_count", len(client.SampleExpenses())),
	)
	return nil
}

// runReport は支出の集計レポートを出力する。
// デフォルトではサンプルデータ入りのインメモリストアを使用する。
// -remote でAPIサーバーのURLを指定するとKAKEIBO_TOKENのトークンで実データを集計する。
func runReport(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	remote := fs.String("remote", "", "API server base URL (e.g. http://localhost:8080)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var store client.Store
	if *remote != "" {
		token := os.Getenv("KAKEIBO_TOKEN")
		if token == "" {
			return fmt.Errorf("KAKEIBO_TOKEN must be set when using -remote")
		}
		store = client.NewAPIClient(nil, *remote, token)
	} else {
		store = client.NewMemoryStoreWithSamples()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	expenses, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list expenses: %w", err)
	}

	printTotals(w, "By category", report.CategoryTotals(expenses))
	printTotals(w, "By vendor", report.VendorTotals(expenses))
	printTotals(w, "By month", report.PeriodTotals(expenses))
	return nil
}

// printTotals は集計結果を整形して出力する。
func printTotals(w io.Writer, title string, totals []report.Total) {
	fmt.Fprintf(w, "%s:\n", title)
	if len(totals) == 0 {
		fmt.Fprintln(w, "  (no expenses)")
		return
	}
	for _, t := range totals {
		fmt.Fprintf(w, "  %-20s %10.2f\n", t.Key, t.Total)
	}
	fmt.Fprintln(w)
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	httpClient := &http.Client{Timeout: 5 * time.Second}

	resp, err := httpClient.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
