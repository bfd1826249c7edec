package seeders

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agenda-system/pkg/service"
)

// SeedOperators создает операторов; существующие имена пропускаются.
func SeedOperators(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Наполнение таблицы 'operators'...")

	query := `INSERT INTO operators (worker_name, operator_phone) VALUES ($1, $2)
			  ON CONFLICT (worker_name) DO NOTHING;`
	for _, op := range operatorsData {
		if _, err := db.Exec(ctx, query, op.WorkerName, op.Phone); err != nil {
			log.Fatalf("❌ Ошибка при вставке оператора '%s': %v", op.WorkerName, err)
		}
	}
	log.Println("✅ Операторы готовы")
}

// SeedDemoOrders наполняет клиентов, заказы и активности, если таблица заказов пуста.
// Даты отсчитываются от сегодняшней полуночи в loc, чтобы дашборд сразу что-то показывал.
func SeedDemoOrders(db *pgxpool.Pool, loc *time.Location) {
	ctx := context.Background()
	log.Println("▶️  Наполнение демонстрационных заказов...")

	var count int
	if err := db.QueryRow(ctx, "SELECT count(*) FROM orders").Scan(&count); err != nil {
		log.Fatalf("❌ Не удалось проверить таблицу заказов: %v", err)
	}
	if count > 0 {
		log.Printf("    - Пропуск: в таблице уже %d заказов", count)
		return
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		log.Fatalf("❌ Не удалось начать транзакцию: %v", err)
	}
	defer tx.Rollback(ctx)

	if err := seedDemoOrders(ctx, tx, loc); err != nil {
		log.Fatalf("❌ Ошибка наполнения заказов: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("❌ Не удалось зафиксировать транзакцию: %v", err)
	}
	log.Println("✅ Демонстрационные заказы созданы")
}

func seedDemoOrders(ctx context.Context, tx pgx.Tx, loc *time.Location) error {
	now := time.Now().In(loc)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	customerIDs := make([]uint64, len(customersData))
	for i, c := range customersData {
		err := tx.QueryRow(ctx,
			`INSERT INTO customers (customer_name, customer_note, customer_phone) VALUES ($1, $2, $3) RETURNING id`,
			c.Name, c.Note, c.Phone,
		).Scan(&customerIDs[i])
		if err != nil {
			return fmt.Errorf("клиент %q: %w", c.Name, err)
		}
	}

	for _, o := range ordersData {
		var clientID *uint64
		if o.Customer >= 0 {
			clientID = &customerIDs[o.Customer]
		}

		var orderID uint64
		err := tx.QueryRow(ctx, `
			INSERT INTO orders (order_name, created_at, is_confirmed, urgency, client_id, order_manager)
			VALUES ($1, $2, $3, NULLIF($4, ''), $5, (SELECT id FROM operators WHERE worker_name = $6))
			RETURNING id`,
			o.Name, midnight.AddDate(0, 0, o.CreatedDay).Add(9*time.Hour), o.Confirmed, string(o.Urgency), clientID, o.Manager,
		).Scan(&orderID)
		if err != nil {
			return fmt.Errorf("заказ %q: %w", o.Name, err)
		}

		for _, a := range o.Activities {
			start := midnight.AddDate(0, 0, a.StartDay).Add(time.Duration(a.StartHour) * time.Hour)
			end := start.Add(time.Duration(a.Hours) * time.Hour)
			var completed *time.Time
			if a.Status.IsCompleted() {
				completed = &end
			}
			notes := a.Notes
			if notes == nil {
				notes = []string{}
			}
			_, err := tx.Exec(ctx, `
				INSERT INTO activities (name, status, start_date, end_date, completed, responsible, color, in_calendar, note, order_id)
				VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10)`,
				a.Name, string(a.Status), start, end, completed, a.Responsible, a.Color, a.InCalendar, notes, orderID,
			)
			if err != nil {
				return fmt.Errorf("активность %q заказа %q: %w", a.Name, o.Name, err)
			}
		}
		log.Printf("    - Заказ '%s' (%d активностей)", o.Name, len(o.Activities))
	}
	return nil
}

// PrintOperatorTokens выпускает access-токены всех операторов для ручной проверки API.
func PrintOperatorTokens(db *pgxpool.Pool, jwtSvc service.JWTService) {
	ctx := context.Background()
	rows, err := db.Query(ctx, "SELECT id, worker_name FROM operators ORDER BY id")
	if err != nil {
		log.Fatalf("❌ Не удалось прочитать операторов: %v", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   uint64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			log.Fatalf("❌ Ошибка чтения оператора: %v", err)
		}
		access, _, err := jwtSvc.GenerateTokens(id)
		if err != nil {
			log.Fatalf("❌ Не удалось выпустить токен для '%s': %v", name, err)
		}
		log.Printf("🔑 %s (id=%d): %s", name, id, access)
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("❌ Ошибка чтения операторов: %v", err)
	}
}
