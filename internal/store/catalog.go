package store

import (
	"context"
	"database/sql"
	"fmt"

	"stayledger/internal/models"
)

// ListProperties returns properties in the order they were first saved.
func (db *DB) ListProperties(ctx context.Context) ([]models.Property, error) {
	rows, err := db.query(ctx, qPropertiesAll, db.account)
	if err != nil {
		return nil, fmt.Errorf("query properties: %w", err)
	}
	return scanAll(rows, func(rows *sql.Rows, p *models.Property) error {
		return rows.Scan(&p.ID, &p.Name, &p.Bedrooms, &p.Bathrooms)
	})
}

func (db *DB) SaveProperty(ctx context.Context, p models.Property) error {
	if err := db.exec(ctx, qPropertyUpsert, db.account, p.ID, p.Name, p.Bedrooms, p.Bathrooms, db.account); err != nil {
		return fmt.Errorf("save property %s: %w", p.ID, err)
	}
	return nil
}

func (db *DB) ListChannels(ctx context.Context) ([]models.Channel, error) {
	rows, err := db.query(ctx, qChannelsAll, db.account)
	if err != nil {
		return nil, fmt.Errorf("query channels: %w", err)
	}
	return scanAll(rows, func(rows *sql.Rows, c *models.Channel) error {
		return rows.Scan(&c.ID, &c.Name, &c.CommissionRate)
	})
}

func (db *DB) SaveChannel(ctx context.Context, c models.Channel) error {
	if err := db.exec(ctx, qChannelUpsert, db.account, c.ID, c.Name, c.CommissionRate); err != nil {
		return fmt.Errorf("save channel %s: %w", c.ID, err)
	}
	return nil
}

func (db *DB) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := db.query(ctx, qProductsAll, db.account)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	return scanAll(rows, func(rows *sql.Rows, p *models.Product) error {
		return rows.Scan(&p.ID, &p.Name, &p.UnitPrice, &p.PackageCost, &p.PackageQuantity, &p.Unit)
	})
}

func (db *DB) SaveProduct(ctx context.Context, p models.Product) error {
	err := db.exec(ctx, qProductUpsert, db.account, p.ID, p.Name,
		p.UnitPrice, p.PackageCost, p.PackageQuantity, p.Unit)
	if err != nil {
		return fmt.Errorf("save product %s: %w", p.ID, err)
	}
	return nil
}

func (db *DB) ListFixedCosts(ctx context.Context) ([]models.FixedCost, error) {
	rows, err := db.query(ctx, qFixedCostsAll, db.account)
	if err != nil {
		return nil, fmt.Errorf("query fixed costs: %w", err)
	}
	return scanAll(rows, func(rows *sql.Rows, c *models.FixedCost) error {
		var start string
		if err := rows.Scan(&c.ID, &c.PropertyID, &c.Description, &c.Amount, &c.Frequency, &start); err != nil {
			return err
		}
		t, err := parseDate(start)
		c.StartDate = t
		return err
	})
}

func (db *DB) SaveFixedCost(ctx context.Context, c models.FixedCost) error {
	err := db.exec(ctx, qFixedCostUpsert, db.account, c.ID, c.PropertyID, c.Description,
		c.Amount, c.Frequency, formatDate(c.StartDate))
	if err != nil {
		return fmt.Errorf("save fixed cost %s: %w", c.ID, err)
	}
	return nil
}

// Counts is the number of rows per collection for the current account.
type Counts struct {
	Properties int `json:"properties"`
	Channels   int `json:"channels"`
	Products   int `json:"products"`
	Bookings   int `json:"bookings"`
	FixedCosts int `json:"fixed_costs"`
}

func (db *DB) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	a := db.account
	err := db.QueryRowContext(ctx, db.rebind(qCounts), a, a, a, a, a).
		Scan(&c.Properties, &c.Channels, &c.Products, &c.Bookings, &c.FixedCosts)
	if err != nil {
		return Counts{}, fmt.Errorf("count rows: %w", err)
	}
	return c, nil
}
