package service

import (
	"context"
	"strings"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
)

func (s *Service) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	now := s.clock.Now()
	return s.repo.CreateBook(ctx, model.Book{
		Title:           strings.TrimSpace(req.Title),
		Author:          strings.TrimSpace(req.Author),
		ISBN:            strings.TrimSpace(req.ISBN),
		Category:        strings.TrimSpace(req.Category),
		TotalCopies:     req.TotalCopies,
		AvailableCopies: req.TotalCopies,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
}

func (s *Service) GetBook(ctx context.Context, id int64) (model.Book, error) {
	if book, ok := s.books.Get(ctx, id); ok {
		return book, nil
	}
	book, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return model.Book{}, err
	}
	s.books.Set(ctx, book)
	return book, nil
}

func (s *Service) ListBooks(ctx context.Context, filter model.BookFilter) (model.ListBooks, error) {
	return s.repo.ListBooks(ctx, filter)
}

func (s *Service) UpdateBook(ctx context.Context, id int64, req model.UpdateBookRequest) (model.Book, error) {
	if req.TotalCopies != nil && *req.TotalCopies < 1 {
		return model.Book{}, errs.Validation("total copies must be at least 1")
	}
	book, err := s.repo.UpdateBook(ctx, id, req, s.clock.Now())
	if err != nil {
		return model.Book{}, err
	}
	s.books.Invalidate(ctx, id)
	return book, nil
}

func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	if err := s.repo.DeleteBook(ctx, id); err != nil {
		return err
	}
	s.books.Invalidate(ctx, id)
	return nil
}
