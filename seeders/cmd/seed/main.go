package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"agenda-system/pkg/config"
	"agenda-system/pkg/database/postgresql"
	"agenda-system/pkg/service"
	"agenda-system/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runOperators := flag.Bool("operators", false, "Создать операторов")
	runOrders := flag.Bool("orders", false, "Создать клиентов, заказы и активности (только в пустую БД)")
	runTokens := flag.Bool("tokens", false, "Напечатать access-токены операторов")
	runAll := flag.Bool("all", false, "Запустить все сидеры (эквивалентно -operators -orders -tokens)")

	flag.Parse()

	if !*runOperators && !*runOrders && !*runTokens && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed -operators -orders")
		log.Println("  go run ./seeders/cmd/seed -all")
		log.Println("======================================================")
		return
	}

	ctx := context.Background()
	logger := zap.NewNop()
	cfg := config.New()
	log.Println("📦 Используется DSN:", cfg.Postgres.DSN)

	dbPool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN, logger)
	if err != nil {
		log.Fatalf("❌ Не удалось подключиться к БД: %v", err)
	}
	defer dbPool.Close()
	if err := postgresql.Migrate(ctx, dbPool, logger); err != nil {
		log.Fatalf("❌ Не удалось применить миграции: %v", err)
	}

	log.Println("======================================================")

	// Заказам нужны операторы: order_manager ищется по имени.
	if *runAll || *runOperators {
		seeders.SeedOperators(dbPool)
		log.Println("======================================================")
	}
	if *runAll || *runOrders {
		seeders.SeedDemoOrders(dbPool, cfg.Dashboard.Location())
		log.Println("======================================================")
	}
	if *runAll || *runTokens {
		jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL, logger)
		seeders.PrintOperatorTokens(dbPool, jwtSvc)
		log.Println("======================================================")
	}

	log.Println("✅ Все указанные операции сидирования успешно завершены.")
	log.Println("======================================================")
}
