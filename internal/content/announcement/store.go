// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package announcement

import "context"

// Repository defines persistence for announcements.
type Repository interface {
	List(context context.Context, filter Filter, limit, offset int) ([]Announcement, int, error)
	GetByID(context context.Context, id int64, visibleOnly bool) (*Announcement, error)
	GetBySlug(context context.Context, slug string, visibleOnly bool) (*Announcement, error)

	// IncrementViews bumps the read counter in a single statement so that
	// concurrent public reads never lose a count.
	IncrementViews(context context.Context, id int64) error

	Create(context context.Context, announcement *Announcement) error
	Update(context context.Context, announcement *Announcement) error
	Delete(context context.Context, id int64) error
}
