package model

import "time"

type Book struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            *string   `json:"isbn,omitempty"`
	CategoryID      *int64    `json:"category_id,omitempty"`
	CategoryName    *string   `json:"category_name,omitempty"`
	Description     *string   `json:"description,omitempty"`
	PublishedYear   *int      `json:"published_year,omitempty"`
	Pages           *int      `json:"pages,omitempty"`
	AvailableCopies int       `json:"available_copies"`
	TotalCopies     int       `json:"total_copies"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BookFilters narrows and pages the book listing. Zero values mean
// "no filter".
type BookFilters struct {
	Search     string
	CategoryID int64
	Author     string
	SortBy     string
	SortOrder  string
	Limit      int
	Offset     int
}

type CreateBookRequest struct {
	Title           string  `json:"title" binding:"required,max=255"`
	Author          string  `json:"author" binding:"required,max=255"`
	ISBN            *string `json:"isbn" binding:"omitempty,max=20"`
	CategoryID      *int64  `json:"category_id"`
	Description     *string `json:"description"`
	PublishedYear   *int    `json:"published_year"`
	Pages           *int    `json:"pages" binding:"omitempty,min=1"`
	TotalCopies     *int    `json:"total_copies" binding:"omitempty,min=0"`
	AvailableCopies *int    `json:"available_copies" binding:"omitempty,min=0"`
}

type UpdateBookRequest struct {
	Title           *string `json:"title" binding:"omitempty,max=255"`
	Author          *string `json:"author" binding:"omitempty,max=255"`
	ISBN            *string `json:"isbn" binding:"omitempty,max=20"`
	CategoryID      *int64  `json:"category_id"`
	Description     *string `json:"description"`
	PublishedYear   *int    `json:"published_year"`
	Pages           *int    `json:"pages" binding:"omitempty,min=1"`
	TotalCopies     *int    `json:"total_copies" binding:"omitempty,min=0"`
	AvailableCopies *int    `json:"available_copies" binding:"omitempty,min=0"`
}
