package containers

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/notetube/notetube/internal/config"
)

type dbContainer struct {
	container *postgres.PostgresContainer
}

// SetupTestDB creates a PostgreSQL container, runs migrations, and seeds data
func SetupTestDB(ctx context.Context, cfg *config.Config, projectRoot string) (Container, error) {

	// Construct the absolute path to the migrations folder
	migrationsDir := filepath.Join(projectRoot, "migrations")

	// get the appropriate init scripts
	initScripts, err := getMigrationFiles(migrationsDir)
	if err != nil {
		return nil, err
	}

	// Create PostgreSQL container
	container, err := postgres.Run(ctx, "postgres:16.3",
		postgres.WithSQLDriver("pgx"),
		postgres.WithInitScripts(initScripts...),
		postgres.WithDatabase(cfg.DBDatabase),
		postgres.WithUsername(cfg.DBUsername),
		postgres.WithPassword(cfg.DBPassword),
		postgres.BasicWaitStrategies(),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	// Get container details for connection
	host, err := container.Host(ctx)
	if err != nil {
		if cErr := container.Terminate(ctx); cErr != nil {
			log.Printf("failed to terminate container: %v", cErr)
		}
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		if cErr := container.Terminate(ctx); cErr != nil {
			log.Printf("failed to terminate container: %v", cErr)
		}
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}

	// Update config with container connection details
	cfg.DBHost = host
	cfg.DBPort = port.Int()

	// Seed the database with test data
	if err := setupDatabase(ctx, cfg); err != nil {
		if cErr := container.Terminate(ctx); cErr != nil {
			log.Printf("failed to terminate container: %v", cErr)
		}
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	return &dbContainer{container}, nil
}

// Terminate stops and removes the container
func (db *dbContainer) Terminate(ctx context.Context) {
	if err := db.container.Terminate(ctx); err != nil {
		log.Printf("failed to terminate container: %v", err)
	}
}

func setupDatabase(ctx context.Context, cfg *config.Config) error {
	// Create connection string
	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.DBUsername, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBDatabase)

	// Create connection for setup
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	// Seed data
	if err := seedTestData(ctx, pool); err != nil {
		return fmt.Errorf("failed to seed test data: %w", err)
	}

	return nil
}

func seedTestData(ctx context.Context, pool *pgxpool.Pool) error {
	queries := []string{
		`INSERT INTO app_user (id, provider, provider_user_id, name, email, created_at) VALUES
			(1, 'google', 'test1', 'Test User 1', 'test1@example.com', NOW()),
			(2, 'google', 'test2', 'Test User 2', 'test2@example.com', NOW())`,

		`INSERT INTO note (id, user_id, video_id, title, channel_title, transcript, content, created_at, updated_at) VALUES
			(1, 1, 'dQw4w9WgXcQ', 'First Note', 'Test Channel', 'hello world', '# First Note', NOW(), NOW()),
			(2, 1, 'jNQXAC9IVRw', 'Second Note', 'Test Channel', 'me at the zoo', '# Second Note', NOW(), NOW()),
			(3, 2, 'dQw4w9WgXcQ', 'Other User Note', 'Test Channel', 'hello world', '# Other', NOW(), NOW())`,

		`SELECT setval('app_user_id_seq', (SELECT MAX(id) FROM app_user))`,
		`SELECT setval('note_id_seq', (SELECT MAX(id) FROM note))`,
	}

	for _, query := range queries {
		if _, err := pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to seed data: %w", err)
		}
	}

	log.Println("Test data seeded successfully")
	return nil
}

func getMigrationFiles(migrationsDir string) ([]string, error) {
	var migrations []string

	err := filepath.Walk(migrationsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Only process files ending with "up.sql"
		if !info.IsDir() && strings.HasSuffix(info.Name(), "up.sql") {
			migrations = append(migrations, path)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return migrations, nil
}
