package domain

// HomeSection is a curated homepage content block. Sections are ordered
// by position; soft deletion happens upstream.
type HomeSection struct {
	SectionID int64         `json:"sectionId"`
	Type      string        `json:"type"`
	Title     string        `json:"title,omitempty"`
	Subtitle  string        `json:"subtitle,omitempty"`
	Position  int           `json:"position"`
	Status    string        `json:"status,omitempty"`
	Gender    string        `json:"gender,omitempty"`
	Items     []SectionItem `json:"items,omitempty"`
}

// SectionPayload is the create/update body for a section.
type SectionPayload struct {
	Type     string `json:"type"`
	Title    string `json:"title,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Position int    `json:"position"`
	Gender   string `json:"gender,omitempty"`
}

// SectionItem belongs to exactly one section. Product, category and
// review references are mutually optional.
type SectionItem struct {
	ItemID     int64  `json:"itemId"`
	Image      string `json:"image,omitempty"`
	Heading    string `json:"heading,omitempty"`
	Subheading string `json:"subheading,omitempty"`
	CtaText    string `json:"ctaText,omitempty"`
	Link       string `json:"link,omitempty"`
	ProductID  *int64 `json:"productId,omitempty"`
	CategoryID *int64 `json:"categoryId,omitempty"`
	ReviewID   *int64 `json:"reviewId,omitempty"`
	Position   int    `json:"position"`
	IsDeleted  bool   `json:"isDeleted,omitempty"`
}

// SectionItemPayload is the create/update body for a section item.
type SectionItemPayload struct {
	Image      string `json:"image,omitempty"`
	Heading    string `json:"heading,omitempty"`
	Subheading string `json:"subheading,omitempty"`
	CtaText    string `json:"ctaText,omitempty"`
	Link       string `json:"link,omitempty"`
	ProductID  *int64 `json:"productId,omitempty"`
	CategoryID *int64 `json:"categoryId,omitempty"`
	ReviewID   *int64 `json:"reviewId,omitempty"`
	Position   int    `json:"position"`
}
