package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/wearly/storefront-admin/internal/domain"
)

const homeCMSPrefix = "/admin/home-cms"

// ListSections fetches every homepage section in position order.
func (s *StorefrontAPI) ListSections(ctx context.Context) ([]domain.HomeSection, error) {
	var sections []domain.HomeSection
	if err := s.c.getJSON(ctx, homeCMSPrefix+"/section", nil, &sections); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

// CreateSection adds a homepage section.
func (s *StorefrontAPI) CreateSection(ctx context.Context, payload domain.SectionPayload) (json.RawMessage, error) {
	data, err := s.c.call(ctx, http.MethodPost, homeCMSPrefix+"/section", nil, payload)
	if err != nil {
		return nil, fmt.Errorf("create section: %w", err)
	}
	return data, nil
}

// UpdateSection replaces a section's attributes.
func (s *StorefrontAPI) UpdateSection(ctx context.Context, sectionID int64, payload domain.SectionPayload) (json.RawMessage, error) {
	data, err := s.c.call(ctx, http.MethodPut, fmt.Sprintf("%s/section/%d", homeCMSPrefix, sectionID), nil, payload)
	if err != nil {
		return nil, fmt.Errorf("update section %d: %w", sectionID, err)
	}
	return data, nil
}

// DeleteSection removes a section. Upstream performs a soft delete.
func (s *StorefrontAPI) DeleteSection(ctx context.Context, sectionID int64) error {
	if _, err := s.c.call(ctx, http.MethodDelete, fmt.Sprintf("%s/section/%d", homeCMSPrefix, sectionID), nil, nil); err != nil {
		return fmt.Errorf("delete section %d: %w", sectionID, err)
	}
	return nil
}

// ListSectionItems fetches the ordered items of one section.
func (s *StorefrontAPI) ListSectionItems(ctx context.Context, sectionID int64) ([]domain.SectionItem, error) {
	var items []domain.SectionItem
	if err := s.c.getJSON(ctx, fmt.Sprintf("%s/section/%d/item", homeCMSPrefix, sectionID), nil, &items); err != nil {
		return nil, fmt.Errorf("list section %d items: %w", sectionID, err)
	}
	return items, nil
}

// CreateSectionItem adds an item to a section.
func (s *StorefrontAPI) CreateSectionItem(ctx context.Context, sectionID int64, payload domain.SectionItemPayload) (json.RawMessage, error) {
	data, err := s.c.call(ctx, http.MethodPost, fmt.Sprintf("%s/section/%d/item", homeCMSPrefix, sectionID), nil, payload)
	if err != nil {
		return nil, fmt.Errorf("create item in section %d: %w", sectionID, err)
	}
	return data, nil
}

// UpdateSectionItem replaces an item's attributes. Items are addressed
// directly by item id, not through their section.
func (s *StorefrontAPI) UpdateSectionItem(ctx context.Context, itemID int64, payload domain.SectionItemPayload) (json.RawMessage, error) {
	data, err := s.c.call(ctx, http.MethodPut, fmt.Sprintf("%s/item/%d", homeCMSPrefix, itemID), nil, payload)
	if err != nil {
		return nil, fmt.Errorf("update item %d: %w", itemID, err)
	}
	return data, nil
}

// DeleteSectionItem removes an item.
func (s *StorefrontAPI) DeleteSectionItem(ctx context.Context, itemID int64) error {
	if _, err := s.c.call(ctx, http.MethodDelete, fmt.Sprintf("%s/item/%d", homeCMSPrefix, itemID), nil, nil); err != nil {
		return fmt.Errorf("delete item %d: %w", itemID, err)
	}
	return nil
}
