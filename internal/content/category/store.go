// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package category

import "context"

type Repository interface {
	List(context context.Context, kind string) ([]Category, error)
	GetByID(context context.Context, id int64) (*Category, error)
	Create(context context.Context, category *Category) error
	Update(context context.Context, category *Category) error
	Delete(context context.Context, id int64) error
}
