package schema

// ContentAnnouncementTable represents the 'content.announcement' table
type ContentAnnouncementTable struct {
	Table        string
	ID           string
	Title        string
	Slug         string
	CategoryID   string
	PublishDate  string
	Body         string
	ShortBody    string
	DocumentFile string
	ImageFile    string
	Vizibil      string
	Priority     string
	Views        string
	CreatedBy    string
	CreatedAt    string
	UpdatedAt    string
}

// ContentAnnouncement is the schema definition for content.announcement
var ContentAnnouncement = ContentAnnouncementTable{
	Table:        "content.announcement",
	ID:           "id",
	Title:        "title",
	Slug:         "slug",
	CategoryID:   "categoryid",
	PublishDate:  "publishdate",
	Body:         "body",
	ShortBody:    "shortbody",
	DocumentFile: "documentfile",
	ImageFile:    "imagefile",
	Vizibil:      "vizibil",
	Priority:     "priority",
	Views:        "views",
	CreatedBy:    "createdby",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns returns all standard column names
func (t ContentAnnouncementTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Slug, t.CategoryID, t.PublishDate, t.Body, t.ShortBody,
		t.DocumentFile, t.ImageFile, t.Vizibil, t.Priority, t.Views,
		t.CreatedBy, t.CreatedAt, t.UpdatedAt,
	}
}
