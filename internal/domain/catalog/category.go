package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
)

// Category groups products of one tenant
type Category struct {
	shared.OwnedEntity
	Name        string
	Description string
}

// NewCategory creates a category for the tenant ownerID
func NewCategory(ownerID uuid.UUID, name, description string) (*Category, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Category must belong to a tenant")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name cannot exceed 100 characters")
	}
	return &Category{
		OwnedEntity: shared.NewOwnedEntity(ownerID),
		Name:        name,
		Description: strings.TrimSpace(description),
	}, nil
}
