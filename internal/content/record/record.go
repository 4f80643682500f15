// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

// Package record implements council decisions and mayoral dispositions.
//
// Both share the same shape (an official numbered act with an attached
// document), so they live in one table discriminated by Kind. The public
// site lists them separately via the kind filter.
package record

import "time"

// Record kinds.
const (
	KindDecision    = "decision"    // Council decision (hotărâre).
	KindDisposition = "disposition" // Mayoral disposition (dispoziție).
)

// Kinds lists the valid record kinds, for validation.
var Kinds = []string{KindDecision, KindDisposition}

// Record is one official act.
type Record struct {
	ID           int64     `json:"id"`
	Kind         string    `json:"kind"`
	Number       string    `json:"number"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	CategoryID   *int64    `json:"category_id"`
	PublishDate  time.Time `json:"publish_date"`
	ShortBody    string    `json:"short_body"`
	DocumentFile *string   `json:"document_file"`
	Vizibil      bool      `json:"vizibil"`
	Views        int64     `json:"views"`
	CreatedBy    *int64    `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Filter narrows record listings.
type Filter struct {
	Kind        string
	CategoryID  *int64
	VisibleOnly bool
}
