package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wearly/storefront-admin/internal/domain"
)

func sectionIDFrom(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "sectionID"), 10, 64)
}

func itemIDFrom(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
}

type sectionRequest struct {
	Type     string  `json:"type"`
	Title    string  `json:"title"`
	Subtitle string  `json:"subtitle"`
	Position flexInt `json:"position"`
	Gender   string  `json:"gender"`
}

func (s sectionRequest) payload() domain.SectionPayload {
	return domain.SectionPayload{
		Type:     s.Type,
		Title:    s.Title,
		Subtitle: s.Subtitle,
		Position: int(s.Position),
		Gender:   s.Gender,
	}
}

type sectionItemRequest struct {
	Image      string   `json:"image"`
	Heading    string   `json:"heading"`
	Subheading string   `json:"subheading"`
	CtaText    string   `json:"ctaText"`
	Link       string   `json:"link"`
	ProductID  *flexInt `json:"productId"`
	CategoryID *flexInt `json:"categoryId"`
	ReviewID   *flexInt `json:"reviewId"`
	Position   flexInt  `json:"position"`
}

func (s sectionItemRequest) payload() domain.SectionItemPayload {
	p := domain.SectionItemPayload{
		Image:      s.Image,
		Heading:    s.Heading,
		Subheading: s.Subheading,
		CtaText:    s.CtaText,
		Link:       s.Link,
		Position:   int(s.Position),
	}
	if s.ProductID != nil {
		v := int64(*s.ProductID)
		p.ProductID = &v
	}
	if s.CategoryID != nil {
		v := int64(*s.CategoryID)
		p.CategoryID = &v
	}
	if s.ReviewID != nil {
		v := int64(*s.ReviewID)
		p.ReviewID = &v
	}
	return p
}

// cachedSections returns the section list, preferring the cache. On a
// miss the upstream listing is fetched and cached. Cache errors degrade
// to an upstream fetch; they never fail the request.
func (h *Handler) cachedSections(ctx context.Context) ([]domain.HomeSection, error) {
	if h.sections != nil {
		sections, ok, err := h.sections.Get(ctx)
		if err != nil {
			h.logger.Warn("section cache read failed", "error", err)
		} else if ok {
			h.metrics.RecordCacheHit(ctx)
			return sections, nil
		} else {
			h.metrics.RecordCacheMiss(ctx)
		}
	}

	sections, err := h.storefront.ListSections(ctx)
	if err != nil {
		return nil, err
	}

	if h.sections != nil {
		if err := h.sections.Put(ctx, sections); err != nil {
			h.logger.Warn("section cache write failed", "error", err)
		}
	}
	return sections, nil
}

// invalidateSections drops the cached listing after any CMS mutation.
func (h *Handler) invalidateSections(ctx context.Context) {
	if h.sections == nil {
		return
	}
	if err := h.sections.Invalidate(ctx); err != nil {
		h.logger.Warn("section cache invalidation failed", "error", err)
	}
}

// HandleListSections serves the section list through the cache.
func (h *Handler) HandleListSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.cachedSections(r.Context())
	if err != nil {
		h.upstreamError(w, err, "failed to list sections")
		return
	}

	h.writeJSON(w, http.StatusOK, sections)
}

// HandleGetSection serves one section by ID out of the cached listing —
// the upstream API has no per-section fetch.
func (h *Handler) HandleGetSection(w http.ResponseWriter, r *http.Request) {
	sectionID, err := sectionIDFrom(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid section id")
		return
	}

	sections, err := h.cachedSections(r.Context())
	if err != nil {
		h.upstreamError(w, err, "failed to list sections")
		return
	}

	for _, section := range sections {
		if section.SectionID == sectionID {
			h.writeJSON(w, http.StatusOK, section)
			return
		}
	}

	h.writeError(w, http.StatusNotFound, "section not found")
}

func (h *Handler) HandleCreateSection(w http.ResponseWriter, r *http.Request) {
	var req sectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Type == "" {
		h.writeError(w, http.StatusBadRequest, "type is required")
		return
	}

	data, err := h.storefront.CreateSection(r.Context(), req.payload())
	if err != nil {
		h.upstreamError(w, err, "failed to create section")
		return
	}

	h.invalidateSections(r.Context())
	h.logger.Info("section created", "type", req.Type, "position", int(req.Position))
	h.recordActivity(r.Context(), r, "homecms.section.create", "section", createdSectionID(data), req.payload())
	h.writeRaw(w, http.StatusCreated, data)
}

// createdSectionID extracts the new section's id from the upstream create
// reply so the activity trail is keyed numerically like every other
// mutation. Falls back to "new" when the reply carries no id.
func createdSectionID(data json.RawMessage) string {
	var created struct {
		SectionID int64 `json:"sectionId"`
	}
	if err := json.Unmarshal(data, &created); err != nil || created.SectionID == 0 {
		return "new"
	}
	return strconv.FormatInt(created.SectionID, 10)
}

func (h *Handler) HandleUpdateSection(w http.ResponseWriter, r *http.Request) {
	sectionID, err := sectionIDFrom(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid section id")
		return
	}

	var req sectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	data, err := h.storefront.UpdateSection(r.Context(), sectionID, req.payload())
	if err != nil {
		h.upstreamError(w, err, "failed to update section")
		return
	}

	h.invalidateSections(r.Context())
	h.logger.Info("section updated", "section_id", sectionID)
	h.recordActivity(r.Context(), r, "homecms.section.update", "section", strconv.FormatInt(sectionID, 10), req.payload())
	h.writeRaw(w, http.StatusOK, data)
}

func (h *Handler) HandleDeleteSection(w http.ResponseWriter, r *http.Request) {
	sectionID, err := sectionIDFrom(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid section id")
		return
	}

	if err := h.storefront.DeleteSection(r.Context(), sectionID); err != nil {
		h.upstreamError(w, err, "failed to delete section")
		return
	}

	h.invalidateSections(r.Context())
	h.logger.Info("section deleted", "section_id", sectionID)
	h.recordActivity(r.Context(), r, "homecms.section.delete", "section", strconv.FormatInt(sectionID, 10), nil)
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "section deleted"})
}

func (h *Handler) HandleListSectionItems(w http.ResponseWriter, r *http.Request) {
	sectionID, err := sectionIDFrom(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid section id")
		return
	}

	items, err := h.storefront.ListSectionItems(r.Context(), sectionID)
	if err != nil {
		h.upstreamError(w, err, "failed to list section items")
		return
	}

	h.writeJSON(w, http.StatusOK, items)
}

func (h *Handler) HandleCreateSectionItem(w http.ResponseWriter, r *http.Request) {
	sectionID, err := sectionIDFrom(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid section id")
		return
	}

	var req sectionItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	data, err := h.storefront.CreateSectionItem(r.Context(), sectionID, req.payload())
	if err != nil {
		h.upstreamError(w, err, "failed to create section item")
		return
	}

	// Items render inside their parent section, so the cached listing is
	// stale too.
	h.invalidateSections(r.Context())
	h.logger.Info("section item created", "section_id", sectionID)
	h.recordActivity(r.Context(), r, "homecms.item.create", "section", strconv.FormatInt(sectionID, 10), req.payload())
	h.writeRaw(w, http.StatusCreated, data)
}

func (h *Handler) HandleUpdateSectionItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := itemIDFrom(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req sectionItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	data, err := h.storefront.UpdateSectionItem(r.Context(), itemID, req.payload())
	if err != nil {
		h.upstreamError(w, err, "failed to update section item")
		return
	}

	h.invalidateSections(r.Context())
	h.logger.Info("section item updated", "item_id", itemID)
	h.recordActivity(r.Context(), r, "homecms.item.update", "item", strconv.FormatInt(itemID, 10), req.payload())
	h.writeRaw(w, http.StatusOK, data)
}

func (h *Handler) HandleDeleteSectionItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := itemIDFrom(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.storefront.DeleteSectionItem(r.Context(), itemID); err != nil {
		h.upstreamError(w, err, "failed to delete section item")
		return
	}

	h.invalidateSections(r.Context())
	h.logger.Info("section item deleted", "item_id", itemID)
	h.recordActivity(r.Context(), r, "homecms.item.delete", "item", strconv.FormatInt(itemID, 10), nil)
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "item deleted"})
}
