package models

// ContentItem is one normalized entry in the manifest's items list.
// (Type, ID) is unique within a site's manifest.
type ContentItem struct {
	Type  string `json:"type"`
	ID    int64  `json:"id"`
	Slug  string `json:"slug"`
	Title string `json:"title"`
	Link  string `json:"link"`
	// File is the text file path relative to the site directory.
	File string `json:"file"`

	// Text is the extracted plain-text body. It is written to File and
	// consumed by the analytics report; it is not serialized into the
	// manifest itself.
	Text string `json:"-"`
}

// MediaItem is one successfully downloaded media entry. Failed downloads
// never appear in the manifest.
type MediaItem struct {
	ID        int64  `json:"id"`
	File      string `json:"file"`
	SourceURL string `json:"source_url"`
	Post      *int64 `json:"post"`
	AltText   string `json:"alt_text"`
	Title     string `json:"title"`
}

// Manifest is the single durable artifact of a run: everything successfully
// fetched, in fetch order. Downstream consumers such as the report command
// depend on this shape staying stable.
type Manifest struct {
	Site        string        `json:"site"`
	GeneratedAt int64         `json:"generated_at"`
	Items       []ContentItem `json:"items"`
	Media       []MediaItem   `json:"media"`
}
