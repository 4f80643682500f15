// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package record

import "context"

// Repository defines persistence for official records.
type Repository interface {
	List(context context.Context, filter Filter, limit, offset int) ([]Record, int, error)
	GetByID(context context.Context, id int64, visibleOnly bool) (*Record, error)
	IncrementViews(context context.Context, id int64) error
	Create(context context.Context, record *Record) error
	Update(context context.Context, record *Record) error
	Delete(context context.Context, id int64) error
}
