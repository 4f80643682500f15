package schema

// GalleryAlbumTable represents the 'gallery.album' table
type GalleryAlbumTable struct {
	Table        string
	ID           string
	Title        string
	Slug         string
	Description  string
	CategoryID   string
	CoverPhotoID string
	Vizibil      string
	CreatedBy    string
	CreatedAt    string
	UpdatedAt    string
}

// GalleryAlbum is the schema definition for gallery.album
var GalleryAlbum = GalleryAlbumTable{
	Table:        "gallery.album",
	ID:           "id",
	Title:        "title",
	Slug:         "slug",
	Description:  "description",
	CategoryID:   "categoryid",
	CoverPhotoID: "coverphotoid",
	Vizibil:      "vizibil",
	CreatedBy:    "createdby",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}
