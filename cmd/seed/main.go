package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/zaiqa-kitchen/api/internal/config"
	"github.com/zaiqa-kitchen/api/internal/database"
	"github.com/zaiqa-kitchen/api/internal/enum"
)

func main() {
	// CLI flags
	email := flag.String("email", "", "Admin email address")
	password := flag.String("password", "", "Admin password")
	name := flag.String("name", "", "Admin display name")
	withMenu := flag.Bool("menu", false, "Also seed a sample menu")
	flag.Parse()

	cfg := config.Load()

	// Fall back to configuration, then defaults
	if *email == "" {
		*email = cfg.AdminEmail
	}
	if *password == "" {
		*password = cfg.AdminPassword
	}
	if *password == "" {
		*password = "password123"
		log.Println("WARNING: Using default password 'password123'. Change immediately in production!")
	}
	if *name == "" {
		*name = os.Getenv("ADMIN_NAME")
	}
	if *name == "" {
		*name = "Zaiqa Admin"
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	log.Println("Connected to database")

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	qtx := database.New(pool).WithTx(tx)

	user, err := seedAdmin(ctx, qtx, *email, *password, *name)
	if err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}

	if *withMenu {
		if err := seedMenu(ctx, qtx); err != nil {
			log.Fatalf("Failed to seed menu: %v", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}

	log.Println("Seed completed successfully")
	log.Printf("Admin ID: %s", user.ID)
}

// seedAdmin upserts the admin account so reruns refresh the credentials.
func seedAdmin(ctx context.Context, q *database.Queries, email, password, name string) (database.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return database.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := q.CreateUser(ctx, database.CreateUserParams{
		Email:        email,
		Name:         name,
		PasswordHash: string(hashed),
		Role:         enum.UserRoleAdmin,
	})
	if err != nil {
		return database.User{}, fmt.Errorf("upsert user: %w", err)
	}

	log.Printf("Seeded admin user '%s' (ID: %s)", user.Email, user.ID)
	return user, nil
}

// seedMenu creates a small sample menu so a fresh install has something to
// show: one category with a sized biryani and a deal platter.
func seedMenu(ctx context.Context, q *database.Queries) error {
	existing, err := q.ListMenuCategories(ctx)
	if err != nil {
		return fmt.Errorf("check menu: %w", err)
	}
	if len(existing) > 0 {
		log.Println("Menu already has categories, skipping sample menu")
		return nil
	}

	category, err := q.CreateMenuCategory(ctx, database.CreateMenuCategoryParams{
		Name:      "Rice & Biryani",
		SortOrder: 0,
	})
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}

	biryani, err := q.CreateMenuItem(ctx, database.CreateMenuItemParams{
		CategoryID:      category.ID,
		Name:            "Chicken Biryani",
		Description:     pgtype.Text{String: "Classic spiced rice with chicken", Valid: true},
		BasePrice:       mustPrice("500"),
		SimpleSelection: pgtype.Text{String: enum.SelectionTypeSingle, Valid: true},
		SortOrder:       0,
	})
	if err != nil {
		return fmt.Errorf("insert biryani: %w", err)
	}

	sizes := []database.CreateSimpleVariationParams{
		{MenuItemID: biryani.ID, Name: "Regular", Price: mustPrice("0"), IsAvailable: true, SortOrder: 0},
		{MenuItemID: biryani.ID, Name: "Large", Price: mustPrice("150"), IsAvailable: true, SortOrder: 1},
	}
	for _, s := range sizes {
		if _, err := q.CreateSimpleVariation(ctx, s); err != nil {
			return fmt.Errorf("insert biryani size %q: %w", s.Name, err)
		}
	}

	platter, err := q.CreateMenuItem(ctx, database.CreateMenuItemParams{
		CategoryID:  category.ID,
		Name:        "Family Platter",
		Description: pgtype.Text{String: "Pick any two mains with a drink", Valid: true},
		BasePrice:   mustPrice("1200"),
		IsPlatter:   true,
		SortOrder:   1,
	})
	if err != nil {
		return fmt.Errorf("insert platter: %w", err)
	}

	mains, err := q.CreateVariationCategory(ctx, database.CreateVariationCategoryParams{
		MenuItemID:    platter.ID,
		Name:          "Mains",
		SelectionType: enum.SelectionTypeMultiple,
		Required:      true,
		MaxSelections: pgtype.Int4{Int32: 2, Valid: true},
		SortOrder:     0,
	})
	if err != nil {
		return fmt.Errorf("insert platter mains: %w", err)
	}

	mainOptions := []database.CreateVariationOptionParams{
		{VariationCategoryID: mains.ID, Name: "Chicken Karahi", Price: mustPrice("0"), IsAvailable: true, SortOrder: 0},
		{VariationCategoryID: mains.ID, Name: "Beef Nihari", Price: mustPrice("50"), IsAvailable: true, SortOrder: 1},
		{VariationCategoryID: mains.ID, Name: "Daal Makhani", Price: mustPrice("0"), IsAvailable: true, SortOrder: 2},
	}
	for _, o := range mainOptions {
		if _, err := q.CreateVariationOption(ctx, o); err != nil {
			return fmt.Errorf("insert platter option %q: %w", o.Name, err)
		}
	}

	drinks, err := q.CreateVariationCategory(ctx, database.CreateVariationCategoryParams{
		MenuItemID:    platter.ID,
		Name:          "Drink",
		SelectionType: enum.SelectionTypeSingle,
		Required:      true,
		SortOrder:     1,
	})
	if err != nil {
		return fmt.Errorf("insert platter drinks: %w", err)
	}

	drinkOptions := []database.CreateVariationOptionParams{
		{VariationCategoryID: drinks.ID, Name: "Soft Drink", Price: mustPrice("0"), IsAvailable: true, SortOrder: 0},
		{VariationCategoryID: drinks.ID, Name: "Lassi", Price: mustPrice("80"), IsAvailable: true, SortOrder: 1},
	}
	for _, o := range drinkOptions {
		if _, err := q.CreateVariationOption(ctx, o); err != nil {
			return fmt.Errorf("insert drink option %q: %w", o.Name, err)
		}
	}

	log.Println("Seeded sample menu")
	return nil
}

// mustPrice builds a pgtype.Numeric from a literal amount.
func mustPrice(s string) pgtype.Numeric {
	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		log.Fatalf("bad price literal %q: %v", s, err)
	}
	return n
}
