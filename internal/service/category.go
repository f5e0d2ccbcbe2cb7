package service

import (
	"context"
	"errors"

	"github.com/library-api/backend/internal/db"
	"github.com/library-api/backend/internal/model"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryTaken    = errors.New("category with this name already exists")
)

type CategoryRepo interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*model.Category, error)
	GetCategoryBooks(ctx context.Context, id int64) ([]model.Book, error)
	CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (*model.Category, error)
	UpdateCategory(ctx context.Context, id int64, req model.UpdateCategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, id int64) (bool, error)
}

type CategoryService struct {
	categories CategoryRepo
}

func NewCategoryService(categories CategoryRepo) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.categories.ListCategories(ctx)
}

// Get returns a category together with its books.
func (s *CategoryService) Get(ctx context.Context, id int64) (*model.CategoryWithBooks, error) {
	category, err := s.categories.GetCategoryByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	books, err := s.categories.GetCategoryBooks(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.CategoryWithBooks{Category: *category, Books: books}, nil
}

func (s *CategoryService) Create(ctx context.Context, req model.CreateCategoryRequest) (*model.Category, error) {
	category, err := s.categories.CreateCategory(ctx, req)
	if err != nil {
		if uniqueViolation(err) != nil {
			return nil, ErrCategoryTaken
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, req model.UpdateCategoryRequest) (*model.Category, error) {
	if _, err := s.categories.GetCategoryByID(ctx, id); err != nil {
		if db.IsNoRows(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	category, err := s.categories.UpdateCategory(ctx, id, req)
	if err != nil {
		if uniqueViolation(err) != nil {
			return nil, ErrCategoryTaken
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.categories.DeleteCategory(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCategoryNotFound
	}
	return nil
}
