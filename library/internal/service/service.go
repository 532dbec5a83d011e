package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/cache"
	"github.com/Astemirdum/library-management/library/internal/model"
	libraryRepo "github.com/Astemirdum/library-management/library/internal/repository"
)

const (
	studentLoanPeriod = 14 * 24 * time.Hour
	defaultLoanPeriod = 30 * 24 * time.Hour
	reservationPeriod = 7 * 24 * time.Hour
)

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Notifier is fire-and-forget: implementations log delivery failures themselves.
type Notifier interface {
	NotifyOverdue(ctx context.Context, user model.User, book model.Book, dueDate time.Time)
	NotifyLoanReturned(ctx context.Context, user model.User, book model.Book, returnDate time.Time)
	NotifyReservationFulfilled(ctx context.Context, user model.User, book model.Book, expiryDate time.Time)
	NotifyReservationExpired(ctx context.Context, user model.User, book model.Book, expiryDate time.Time)
}

type Service struct {
	log      *zap.Logger
	repo     libraryRepo.Repository
	notifier Notifier
	books    *cache.BookCache
	clock    Clock
}

type Option func(s *Service)

func WithClock(clock Clock) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

func WithBookCache(c *cache.BookCache) Option {
	return func(s *Service) {
		s.books = c
	}
}

func NewService(repo libraryRepo.Repository, notifier Notifier, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:      log.Named("service"),
		repo:     repo,
		notifier: notifier,
		clock:    SystemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func loanPeriod(role model.Role) time.Duration {
	if role == model.RoleStudent {
		return studentLoanPeriod
	}
	return defaultLoanPeriod
}

// recipient loads the user and book an event is about. ok is false when either is gone.
func (s *Service) recipient(ctx context.Context, userID, bookID int64) (model.User, model.Book, bool) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		s.log.Warn("notification skipped", zap.Int64("user_id", userID), zap.Error(err))
		return model.User{}, model.Book{}, false
	}
	book, err := s.repo.GetBook(ctx, bookID)
	if err != nil {
		s.log.Warn("notification skipped", zap.Int64("book_id", bookID), zap.Error(err))
		return model.User{}, model.Book{}, false
	}
	return user, book, true
}
