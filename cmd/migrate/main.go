package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	ordersdocument "github.com/Apurer/boutique-orders/internal/domains/orders/adapters/persistence/document"
	orderspostgres "github.com/Apurer/boutique-orders/internal/domains/orders/adapters/persistence/postgres"
	orderssqlite "github.com/Apurer/boutique-orders/internal/domains/orders/adapters/persistence/sqlite"
	ordersports "github.com/Apurer/boutique-orders/internal/domains/orders/ports"
	"github.com/Apurer/boutique-orders/internal/platform/migrations"
	platformpostgres "github.com/Apurer/boutique-orders/internal/platform/postgres"
	platformsqlite "github.com/Apurer/boutique-orders/internal/platform/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func dsnFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "dsn",
		Usage:   "PostgreSQL connection string",
		EnvVars: []string{"POSTGRES_DSN"},
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "orders-migrate",
		Usage: "manage order storage schemas and move orders between stores",
		Commands: []*cli.Command{
			{
				Name:  "schema",
				Usage: "apply the PostgreSQL schema",
				Flags: []cli.Flag{dsnFlag()},
				Action: func(c *cli.Context) error {
					db, closeDB, err := connectPostgres(c.Context, c.String("dsn"))
					if err != nil {
						return err
					}
					defer closeDB()
					if err := migrations.Run(db); err != nil {
						return fmt.Errorf("apply schema: %w", err)
					}
					fmt.Fprintln(c.App.Writer, "schema applied")
					return nil
				},
			},
			{
				Name:  "import",
				Usage: "copy orders from a JSON order document into postgres or sqlite",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Usage: "source order document", Value: "data/orders.json", EnvVars: []string{"DATA_FILE"}},
					&cli.StringFlag{Name: "to", Usage: "target driver: postgres or sqlite", Value: "sqlite"},
					&cli.StringFlag{Name: "sqlite-path", Usage: "target SQLite database", Value: "data/orders.db", EnvVars: []string{"SQLITE_PATH"}},
					dsnFlag(),
				},
				Action: func(c *cli.Context) error {
					target, closeTarget, err := openTarget(c.Context, c.String("to"), c.String("sqlite-path"), c.String("dsn"))
					if err != nil {
						return err
					}
					defer closeTarget()
					result, err := copyOrders(c.Context, ordersdocument.NewRepository(c.String("from")), target)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "imported %d orders, skipped %d already present\n", result.Copied, result.Skipped)
					return nil
				},
			},
		},
	}
}

func openTarget(ctx context.Context, driver, sqlitePath, dsn string) (ordersports.Repository, func(), error) {
	switch driver {
	case "sqlite":
		db, err := platformsqlite.Open(ctx, sqlitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		return orderssqlite.NewRepository(db), func() { _ = db.Close() }, nil
	case "postgres":
		db, closeDB, err := connectPostgres(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.Run(db); err != nil {
			closeDB()
			return nil, nil, fmt.Errorf("apply schema: %w", err)
		}
		return orderspostgres.NewRepository(db), closeDB, nil
	default:
		return nil, nil, fmt.Errorf("unsupported target %q", driver)
	}
}

func connectPostgres(ctx context.Context, dsn string) (*gorm.DB, func(), error) {
	if dsn == "" {
		return nil, nil, errors.New("--dsn or POSTGRES_DSN is required")
	}
	db, err := platformpostgres.Connect(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	slog.Info("connected to postgres")
	return db, func() { _ = sqlDB.Close() }, nil
}
