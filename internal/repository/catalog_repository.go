package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fjod/apna-store/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"
)

// CatalogRepository reads the seed catalog the product store starts from.
type CatalogRepository struct {
	db *sql.DB
}

func NewCatalogRepository(dbPath string) (*CatalogRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every connection to ":memory:" would be a separate database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &CatalogRepository{db: db}, nil
}

func (r *CatalogRepository) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *CatalogRepository) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, name, display_name, category, price, description, image_url, stock, is_active, created_at
		FROM products
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		var stock sql.NullInt64
		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.DisplayName,
			&p.Category,
			&p.Price,
			&p.Description,
			&p.ImageURL,
			&stock,
			&p.IsActive,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		if stock.Valid {
			s := int(stock.Int64)
			p.Stock = &s
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *CatalogRepository) Close() error {
	return r.db.Close()
}

// LoadCatalog opens the catalog database, migrates it and returns its products.
func LoadCatalog(ctx context.Context, dbPath, migrationsPath string) ([]domain.Product, error) {
	repo, err := NewCatalogRepository(dbPath)
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	if err := repo.RunMigrations(migrationsPath); err != nil {
		return nil, err
	}
	return repo.LoadProducts(ctx)
}
