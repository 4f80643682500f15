// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

package category

import (
	"context"

	"github.com/dmunteanu/primaria/internal/audit"
	"github.com/dmunteanu/primaria/internal/platform/validate"
	"github.com/dmunteanu/primaria/pkg/slug"
)

type Service struct {
	repository Repository
	auditor    audit.Recorder
}

func NewService(repository Repository, auditor audit.Recorder) *Service {
	return &Service{repository: repository, auditor: auditor}
}

// Input is the admin payload for creating or updating a category.
type Input struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	SortOrder int    `json:"sort_order"`
}

func (input Input) validate() error {
	validator := &validate.Validator{}
	validator.Required("name", input.Name).
		MaxLen("name", input.Name, 100).
		OneOf("kind", input.Kind, Kinds...)
	return validator.Err()
}

func (service *Service) List(context context.Context, kind string) ([]Category, error) {
	return service.repository.List(context, kind)
}

func (service *Service) Get(context context.Context, id int64) (*Category, error) {
	return service.repository.GetByID(context, id)
}

func (service *Service) Create(context context.Context, input Input, meta audit.Meta) (*Category, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	created := &Category{
		Name:      input.Name,
		Slug:      slug.From(input.Name),
		Kind:      input.Kind,
		SortOrder: input.SortOrder,
	}
	if err := service.repository.Create(context, created); err != nil {
		return nil, err
	}

	service.auditor.Record(context, audit.ActionCreate, "category", created.ID, created.Name, meta)
	return created, nil
}

func (service *Service) Update(context context.Context, id int64, input Input, meta audit.Meta) (*Category, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	existing, err := service.repository.GetByID(context, id)
	if err != nil {
		return nil, err
	}

	existing.Name = input.Name
	existing.Slug = slug.From(input.Name)
	existing.SortOrder = input.SortOrder

	if err := service.repository.Update(context, existing); err != nil {
		return nil, err
	}

	service.auditor.Record(context, audit.ActionUpdate, "category", existing.ID, existing.Name, meta)
	return existing, nil
}

func (service *Service) Delete(context context.Context, id int64, meta audit.Meta) error {
	existing, err := service.repository.GetByID(context, id)
	if err != nil {
		return err
	}

	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	service.auditor.Record(context, audit.ActionDelete, "category", id, existing.Name, meta)
	return nil
}
