// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

// Package document implements project documents — strategies, urbanism
// plans, public consultations. Unlike announcements, the attached file IS
// the content: a document without its file is meaningless, so the file is
// mandatory at creation.
package document

import "time"

// Document is one published project document.
type Document struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	CategoryID   *int64    `json:"category_id"`
	PublishDate  time.Time `json:"publish_date"`
	Description  string    `json:"description"`
	DocumentFile string    `json:"document_file"`
	Vizibil      bool      `json:"vizibil"`
	Views        int64     `json:"views"`
	CreatedBy    *int64    `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Filter narrows document listings.
type Filter struct {
	CategoryID  *int64
	VisibleOnly bool
}
