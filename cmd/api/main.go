package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"artstore/internal/config"
	"artstore/internal/infra/db"
	"artstore/internal/notifier"
	"artstore/internal/server"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

func main() {
	//.envは無くてもよい（本番は環境変数）
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Infof("database ready (driver=%s)", cfg.DBDriver)

	//通知（送信元が無ければログだけ）
	var notify notifier.Notifier = notifier.NewLogNotifier()
	if cfg.SenderEmail != "" {
		ses, err := notifier.NewSESNotifier(ctx, notifier.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
			SenderEmail:     cfg.SenderEmail,
		})
		if err != nil {
			log.Fatalf("ses: %v", err)
		}
		notify = ses
	}

	handlers, userRepo := server.Wire(cfg, gormDB, notify, 12)
	e := server.New(cfg, userRepo, handlers)

	//Server起動
	addr := cfg.Port
	if addr == "" || addr[0] != ':' {
		addr = ":" + addr
	}
	if err := server.Start(ctx, addr, e); err != nil {
		log.Fatalf("server: %v", err)
	}
	log.Info("server stopped")
}
