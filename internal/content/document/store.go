// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package document

import "context"

// Repository defines persistence for project documents.
type Repository interface {
	List(context context.Context, filter Filter, limit, offset int) ([]Document, int, error)
	GetByID(context context.Context, id int64, visibleOnly bool) (*Document, error)
	IncrementViews(context context.Context, id int64) error
	Create(context context.Context, document *Document) error
	Update(context context.Context, document *Document) error
	Delete(context context.Context, id int64) error
}
