package schema

// ContentDocumentTable represents the 'content.document' table (project documents)
type ContentDocumentTable struct {
	Table        string
	ID           string
	Title        string
	Slug         string
	CategoryID   string
	PublishDate  string
	Description  string
	DocumentFile string
	Vizibil      string
	Views        string
	CreatedBy    string
	CreatedAt    string
	UpdatedAt    string
}

// ContentDocument is the schema definition for content.document
var ContentDocument = ContentDocumentTable{
	Table:        "content.document",
	ID:           "id",
	Title:        "title",
	Slug:         "slug",
	CategoryID:   "categoryid",
	PublishDate:  "publishdate",
	Description:  "description",
	DocumentFile: "documentfile",
	Vizibil:      "vizibil",
	Views:        "views",
	CreatedBy:    "createdby",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}
