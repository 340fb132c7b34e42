// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
// - base.go: BaseModel and OwnedModel
// - identity.go: users
// - catalog.go: stores, categories, products, product variants
// - inventory.go: the stock movement ledger
// - sales.go: transactions and their items
// - outbox.go: outbox pattern model for event delivery
//
// Tags avoid database-specific defaults so the same models migrate on
// PostgreSQL and on SQLite in tests.
package models
