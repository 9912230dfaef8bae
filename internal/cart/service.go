package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/zaiqa-kitchen/api/internal/catalog"
	"github.com/zaiqa-kitchen/api/internal/database"
	"github.com/zaiqa-kitchen/api/internal/variation"
)

// Errors returned by the cart service.
var (
	ErrItemNotFound      = errors.New("menu item not found")
	ErrInvalidItemID     = errors.New("invalid menu_item_id")
	ErrInvalidQuantity   = errors.New("quantity must be > 0")
	ErrOptionNotFound    = errors.New("variation option not found")
	ErrOptionUnavailable = errors.New("variation option unavailable")
	ErrInvalidSelection  = errors.New("invalid variation selection")
	ErrLineNotFound      = errors.New("cart line not found")
)

// MenuStore defines the database methods needed by the cart service.
// Satisfied by *database.Queries.
type MenuStore interface {
	GetMenuItem(ctx context.Context, id uuid.UUID) (database.MenuItem, error)
}

// ConfigBuilder resolves an item's variation config. Satisfied by
// *catalog.Service.
type ConfigBuilder interface {
	BuildConfig(ctx context.Context, item database.MenuItem) (variation.Config, error)
}

// AddItemRequest is the validated input for adding a customized item.
// Selections reference option ids; the service replays them through a
// variation session against the item's live config, so a stale or
// tampered request can never land an ill-priced line in the cart.
type AddItemRequest struct {
	MenuItemID string
	Quantity   int32
	SimpleIDs  []string
	Categories []CategorySelection
}

// CategorySelection is the ordered option picks for one category.
type CategorySelection struct {
	CategoryID string
	OptionIDs  []string
}

// Service applies cart mutations.
type Service struct {
	repo    Repository
	store   MenuStore
	builder ConfigBuilder
}

// NewService creates a cart Service.
func NewService(repo Repository, store MenuStore, builder ConfigBuilder) *Service {
	return &Service{repo: repo, store: store, builder: builder}
}

// Get returns the session's cart.
func (s *Service) Get(ctx context.Context, sessionID string) (Cart, error) {
	return s.repo.Get(ctx, sessionID)
}

// Clear discards the session's cart.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.repo.Delete(ctx, sessionID)
}

// AddItem validates the requested customization against the item's current
// config, prices it, flattens it, and appends (or merges) the cart line.
func (s *Service) AddItem(ctx context.Context, sessionID string, req AddItemRequest) (Cart, error) {
	if req.Quantity <= 0 {
		return Cart{}, ErrInvalidQuantity
	}
	itemID, err := uuid.Parse(req.MenuItemID)
	if err != nil {
		return Cart{}, ErrInvalidItemID
	}

	item, err := s.store.GetMenuItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Cart{}, ErrItemNotFound
		}
		return Cart{}, fmt.Errorf("get menu item: %w", err)
	}

	cfg, err := s.builder.BuildConfig(ctx, item)
	if err != nil {
		return Cart{}, fmt.Errorf("build config: %w", err)
	}

	session, err := replaySelections(cfg, req)
	if err != nil {
		return Cart{}, err
	}

	if res := session.Validate(); !res.Valid {
		return Cart{}, fmt.Errorf("%w: %s", ErrInvalidSelection, strings.Join(res.Errors, "; "))
	}

	line := Line{
		MenuItemID: item.ID.String(),
		Title:      item.Name,
		UnitPrice:  session.Total(catalog.BasePrice(item)),
		Quantity:   req.Quantity,
		Variations: session.Flatten(),
	}
	if item.ImageUrl.Valid {
		line.ImageURL = item.ImageUrl.String
	}

	c, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return Cart{}, err
	}

	merged := false
	for i := range c.Lines {
		if sameLine(c.Lines[i], line) {
			c.Lines[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		c.Lines = append(c.Lines, line)
	}
	c.UpdatedAt = time.Now()

	if err := s.repo.Set(ctx, sessionID, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

// Quote prices a customization without touching the cart. Unlike AddItem it
// reports validation failures in the result instead of erroring, so the
// storefront can render live price and validation feedback while the
// customer is still choosing.
type Quote struct {
	State      string          `json:"state"`
	Valid      bool            `json:"valid"`
	Errors     []string        `json:"errors,omitempty"`
	Warnings   []string        `json:"warnings,omitempty"`
	Total      decimal.Decimal `json:"total"`
	Variations []string        `json:"variations"`
}

// QuoteItem replays the requested selections against the item's current
// config and returns the running total plus validation state.
func (s *Service) QuoteItem(ctx context.Context, req AddItemRequest) (Quote, error) {
	itemID, err := uuid.Parse(req.MenuItemID)
	if err != nil {
		return Quote{}, ErrInvalidItemID
	}

	item, err := s.store.GetMenuItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Quote{}, ErrItemNotFound
		}
		return Quote{}, fmt.Errorf("get menu item: %w", err)
	}

	cfg, err := s.builder.BuildConfig(ctx, item)
	if err != nil {
		return Quote{}, fmt.Errorf("build config: %w", err)
	}

	session, err := replaySelections(cfg, req)
	if err != nil {
		return Quote{}, err
	}

	res := session.Validate()
	return Quote{
		State:      session.State(),
		Valid:      res.Valid,
		Errors:     res.Errors,
		Warnings:   res.Warnings,
		Total:      session.Total(catalog.BasePrice(item)),
		Variations: session.Flatten(),
	}, nil
}

// RemoveLine deletes the cart line at the given index.
func (s *Service) RemoveLine(ctx context.Context, sessionID string, index int) (Cart, error) {
	c, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return Cart{}, err
	}
	if index < 0 || index >= len(c.Lines) {
		return Cart{}, ErrLineNotFound
	}
	c.Lines = append(c.Lines[:index], c.Lines[index+1:]...)
	c.UpdatedAt = time.Now()

	if len(c.Lines) == 0 {
		if err := s.repo.Delete(ctx, sessionID); err != nil {
			return Cart{}, err
		}
		return Cart{}, nil
	}
	if err := s.repo.Set(ctx, sessionID, c); err != nil {
		return Cart{}, err
	}
	return c, nil
}

// replaySelections drives a fresh variation session through the requested
// option picks, in request order.
func replaySelections(cfg variation.Config, req AddItemRequest) (*variation.Session, error) {
	session := variation.NewSession(cfg)

	for _, id := range req.SimpleIDs {
		opt, ok := findOption(cfg.Simple, id)
		if !ok {
			return nil, fmt.Errorf("%w: simple %s", ErrOptionNotFound, id)
		}
		// The config keeps sold-out options so the storefront can grey them
		// out; they must not be orderable.
		if !opt.Available {
			return nil, fmt.Errorf("%w: simple %s", ErrOptionUnavailable, id)
		}
		session.SelectSimple(opt)
	}

	for _, cs := range req.Categories {
		cat, ok := findCategory(cfg, cs.CategoryID)
		if !ok {
			// Mirror the engine's stale-id stance: skip rather than fail.
			continue
		}
		for _, id := range cs.OptionIDs {
			opt, ok := findOption(cat.Options, id)
			if !ok {
				return nil, fmt.Errorf("%w: %s in %s", ErrOptionNotFound, id, cat.Name)
			}
			if !opt.Available {
				return nil, fmt.Errorf("%w: %s in %s", ErrOptionUnavailable, id, cat.Name)
			}
			session.SelectCategory(cat.ID, opt)
		}
	}

	return session, nil
}

func findOption(opts []variation.Option, id string) (variation.Option, bool) {
	for _, o := range opts {
		if o.ID == id {
			return o, true
		}
	}
	return variation.Option{}, false
}

func findCategory(cfg variation.Config, id string) (variation.Category, bool) {
	for _, c := range cfg.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return variation.Category{}, false
}
