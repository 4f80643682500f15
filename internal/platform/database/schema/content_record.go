package schema

// ContentRecordTable represents the 'content.record' table.
//
// Records cover both council decisions and mayoral dispositions via the Kind
// discriminator column.
type ContentRecordTable struct {
	Table        string
	ID           string
	Kind         string
	Number       string
	Title        string
	Slug         string
	CategoryID   string
	PublishDate  string
	ShortBody    string
	DocumentFile string
	Vizibil      string
	Views        string
	CreatedBy    string
	CreatedAt    string
	UpdatedAt    string
}

// ContentRecord is the schema definition for content.record
var ContentRecord = ContentRecordTable{
	Table:        "content.record",
	ID:           "id",
	Kind:         "kind",
	Number:       "recordnumber",
	Title:        "title",
	Slug:         "slug",
	CategoryID:   "categoryid",
	PublishDate:  "publishdate",
	ShortBody:    "shortbody",
	DocumentFile: "documentfile",
	Vizibil:      "vizibil",
	Views:        "views",
	CreatedBy:    "createdby",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}
