package schema

// GalleryPhotoTable represents the 'gallery.photo' table
type GalleryPhotoTable struct {
	Table     string
	ID        string
	AlbumID   string
	Filename  string
	Rank      string
	CreatedAt string
}

// GalleryPhoto is the schema definition for gallery.photo
var GalleryPhoto = GalleryPhotoTable{
	Table:     "gallery.photo",
	ID:        "id",
	AlbumID:   "albumid",
	Filename:  "filename",
	Rank:      "rank",
	CreatedAt: "createdat",
}
