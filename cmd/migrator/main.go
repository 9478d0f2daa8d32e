// Package main — служебная утилита: миграции таблицы сессий,
// выпуск токенов для разработки и работа с таблицей.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/config"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/jwt"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/session"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/sheets"
	"github.com/Ultrahd-dev/grammar-practice-app/backend/internal/sheets/backend"
)

func main() {
	configPath := flag.String("config", "./configs/config.yaml", "путь к файлу конфигурации")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		return
	}

	command := args[0]

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch command {
	case "up", "down", "status":
		if err := migrate(ctx, cfg, command); err != nil {
			log.Fatalf("Ошибка миграций: %v", err)
		}
	case "issue-token":
		if len(args) < 2 {
			log.Fatalf("Необходимо указать email")
		}
		token, err := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration).GenerateToken(args[1])
		if err != nil {
			log.Fatalf("Ошибка выпуска токена: %v", err)
		}
		fmt.Println(token)
	case "export-table":
		if len(args) < 2 {
			log.Fatalf("Необходимо указать имя листа")
		}
		filename := args[1] + ".csv"
		if len(args) > 2 {
			filename = args[2]
		}
		if err := exportTable(ctx, cfg, args[1], filename); err != nil {
			log.Fatalf("Ошибка экспорта листа: %v", err)
		}
		fmt.Printf("Лист %q сохранен в файл: %s\n", args[1], filename)
	case "check":
		if err := check(ctx, cfg); err != nil {
			log.Fatalf("Ошибка проверки таблицы: %v", err)
		}
	default:
		fmt.Printf("Неизвестная команда: %s\n", command)
		flag.Usage()
	}
}

func migrate(ctx context.Context, cfg *config.Config, command string) error {
	db, err := session.OpenPostgres(ctx, cfg.Database.GetDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if command == "up" {
		if err := session.Migrate(ctx, db); err != nil {
			return err
		}
		fmt.Println("Миграции успешно применены")
		return nil
	}

	goose.SetBaseFS(session.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if command == "down" {
		if err := goose.DownContext(ctx, db, session.MigrationsDir); err != nil {
			return err
		}
		fmt.Println("Миграции успешно откачены")
		return nil
	}
	return goose.StatusContext(ctx, db, session.MigrationsDir)
}

func exportTable(ctx context.Context, cfg *config.Config, table, filename string) error {
	store, err := backend.Open(ctx, cfg.Sheets)
	if err != nil {
		return err
	}
	rows, err := store.ReadRows(ctx, table)
	if err != nil {
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("ошибка создания файла: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("ошибка записи в файл: %w", err)
	}
	return nil
}

// check проверяет, что таблица доступна и содержит обязательные листы
func check(ctx context.Context, cfg *config.Config) error {
	store, err := backend.Open(ctx, cfg.Sheets)
	if err != nil {
		return err
	}
	tables, err := store.ListTables(ctx)
	if err != nil {
		return err
	}

	present := make(map[string]bool, len(tables))
	for _, name := range tables {
		present[name] = true
		fmt.Println("  " + name)
	}

	var missing []string
	for _, required := range []string{sheets.TableTeacherEmails, sheets.TableStudentRoster, sheets.TableGrammarQuestions} {
		if !present[required] {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("отсутствуют листы: %v", missing)
	}
	fmt.Printf("Таблица настроена: %d листов\n", len(tables))
	return nil
}

func usage() {
	fmt.Println("Использование: migrator [-config FILE] [команда]")
	fmt.Println("Доступные команды:")
	fmt.Println("  up                       - Применить миграции таблицы сессий")
	fmt.Println("  down                     - Откатить последнюю миграцию")
	fmt.Println("  status                   - Показать статус миграций")
	fmt.Println("  issue-token EMAIL        - Выпустить токен для разработки")
	fmt.Println("  export-table NAME [FILE] - Сохранить лист в CSV файл")
	fmt.Println("  check                    - Проверить доступ к таблице и наличие листов")
	fmt.Println("")
	fmt.Println("Примеры:")
	fmt.Println("  migrator up")
	fmt.Println("  migrator issue-token jane.doe@orono.k12.mn.us")
	fmt.Println("  migrator export-table \"Student Roster\" roster.csv")
}
