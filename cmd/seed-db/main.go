// Binary seed-db bootstraps a fresh database: it runs migrations, creates
// the initial admin account, and loads demo products from a JSON file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/stockroom/internal/domain/product"
	"github.com/xenking/stockroom/internal/domain/user"
	"github.com/xenking/stockroom/internal/storage/postgres"
)

const insertWorkers = 8

type productJSON struct {
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	Quantity          int             `json:"quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
}

func main() {
	var (
		databaseURL   string
		productsFile  string
		adminUsername string
		adminPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&adminUsername, "admin-username", "admin", "username for the initial admin account")
	flag.StringVar(&adminPassword, "admin-password", "", "password for the initial admin account (or STOCKROOM_SEED_ADMIN_PASSWORD env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminPassword == "" {
		adminPassword = os.Getenv("STOCKROOM_SEED_ADMIN_PASSWORD")
	}
	if adminPassword == "" {
		slog.Error("admin password is required: set --admin-password or STOCKROOM_SEED_ADMIN_PASSWORD")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, adminUsername, adminPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, adminUsername, adminPassword string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedAdmin(ctx, postgres.NewUserRepository(pool), adminUsername, adminPassword); err != nil {
		return errors.Wrap(err, "seed admin")
	}

	if err := seedProducts(ctx, postgres.NewProductRepository(pool), productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}

	return nil
}

func seedAdmin(ctx context.Context, users user.Repository, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}

	err = users.Create(ctx, &user.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         user.RoleAdmin,
	})
	if errors.Is(err, user.ErrUsernameTaken) {
		slog.Info("admin account already exists", slog.String("username", username))
		return nil
	}
	if err != nil {
		return err
	}

	slog.Info("created admin account", slog.String("username", username))
	return nil
}

func seedProducts(ctx context.Context, products product.Repository, productsFile string) error {
	slog.Info("reading products file", slog.String("path", productsFile))

	data, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var items []productJSON
	if err := json.Unmarshal(data, &items); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	existing, err := products.List(ctx)
	if err != nil {
		return errors.Wrap(err, "list products")
	}
	seen := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		seen[p.Name] = struct{}{}
	}

	slog.Info("inserting products", slog.Int("count", len(items)))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(insertWorkers)

	for _, item := range items {
		if _, ok := seen[item.Name]; ok {
			slog.Info("product already exists", slog.String("name", item.Name))
			continue
		}

		g.Go(func() error {
			p := &product.Product{
				ID:                uuid.NewString(),
				Name:              item.Name,
				Price:             item.Price,
				Quantity:          item.Quantity,
				LowStockThreshold: item.LowStockThreshold,
			}
			if err := p.Validate(); err != nil {
				return errors.Wrapf(err, "product %q", item.Name)
			}
			if err := products.Create(ctx, p); err != nil {
				return errors.Wrapf(err, "insert product %q", item.Name)
			}
			slog.Info("inserted product", slog.String("name", item.Name))
			return nil
		})
	}

	return g.Wait()
}
