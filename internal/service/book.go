package service

import (
	"context"
	"errors"

	"github.com/library-api/backend/internal/db"
	"github.com/library-api/backend/internal/model"
)

var (
	ErrBookNotFound = errors.New("book not found")
	ErrISBNTaken    = errors.New("book with this ISBN already exists")
)

type BookRepo interface {
	ListBooks(ctx context.Context, filters model.BookFilters) ([]model.Book, error)
	CountBooks(ctx context.Context, filters model.BookFilters) (int64, error)
	GetBookByID(ctx context.Context, id int64) (*model.Book, error)
	CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.Book, error)
	UpdateBook(ctx context.Context, id int64, req model.UpdateBookRequest) (*model.Book, error)
	DeleteBook(ctx context.Context, id int64) (bool, error)
}

type BookService struct {
	books BookRepo
}

func NewBookService(books BookRepo) *BookService {
	return &BookService{books: books}
}

func (s *BookService) List(ctx context.Context, filters model.BookFilters) ([]model.Book, int64, error) {
	books, err := s.books.ListBooks(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.books.CountBooks(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (s *BookService) Get(ctx context.Context, id int64) (*model.Book, error) {
	book, err := s.books.GetBookByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

func (s *BookService) Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	book, err := s.books.CreateBook(ctx, req)
	if err != nil {
		if uniqueViolation(err) != nil {
			return nil, ErrISBNTaken
		}
		return nil, err
	}
	return book, nil
}

func (s *BookService) Update(ctx context.Context, id int64, req model.UpdateBookRequest) (*model.Book, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	book, err := s.books.UpdateBook(ctx, id, req)
	if err != nil {
		if uniqueViolation(err) != nil {
			return nil, ErrISBNTaken
		}
		return nil, err
	}
	return book, nil
}

func (s *BookService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.books.DeleteBook(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrBookNotFound
	}
	return nil
}
