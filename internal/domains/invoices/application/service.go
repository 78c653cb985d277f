package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	catalogdomain "github.com/Apurer/clothes-shop-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/clothes-shop-api/internal/domains/catalog/ports"
	"github.com/Apurer/clothes-shop-api/internal/domains/invoices/domain"
	"github.com/Apurer/clothes-shop-api/internal/domains/invoices/ports"
)

// DefaultStoreTimeout bounds each ledger and repository call.
const DefaultStoreTimeout = 5 * time.Second

// compensationTimeout bounds each Restore issued after a failure.
const compensationTimeout = 10 * time.Second

// Service assembles invoices and applies their stock movements.
type Service struct {
	repo         ports.Repository
	ledger       catalogports.StockLedger
	idempotency  ports.IdempotencyStore
	tx           ports.Transactor
	storeTimeout time.Duration
	now          func() time.Time
	newID        func() string
}

type Option func(*Service)

// WithIdempotencyStore enables Idempotency-Key handling.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// WithTransactor runs stock movements and the invoice insert in one
// transaction instead of compensating on failure.
func WithTransactor(tx ports.Transactor) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

// WithStoreTimeout overrides DefaultStoreTimeout. Non-positive values disable it.
func WithStoreTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.storeTimeout = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func NewService(repo ports.Repository, ledger catalogports.StockLedger, opts ...Option) *Service {
	s := &Service{
		repo:         repo,
		ledger:       ledger,
		storeTimeout: DefaultStoreTimeout,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInvoice validates the request, applies every line to the stock
// ledger in order and persists the invoice. A failure leaves neither the
// invoice nor any stock movement behind.
func (s *Service) CreateInvoice(ctx context.Context, input ports.CreateInvoiceInput) (*ports.PostingResult, error) {
	invoice, err := domain.NewInvoice(s.newID(), toDraft(input), s.now().UTC())
	if err != nil {
		return nil, &PostingError{State: domain.StateFailed, Err: mapError(err)}
	}

	key := strings.TrimSpace(input.IdempotencyKey)
	if key == "" || s.idempotency == nil {
		return s.post(ctx, invoice)
	}

	hash, err := FingerprintCreateInvoice(input)
	if err != nil {
		return nil, &PostingError{State: domain.StateFailed, Err: err}
	}
	record, reserved, err := s.reserve(ctx, key, hash)
	if err != nil {
		return nil, &PostingError{State: domain.StateFailed, Err: err}
	}
	if !reserved {
		return s.replay(ctx, record, hash)
	}

	result, err := s.post(ctx, invoice)
	if err != nil {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
		defer cancel()
		if releaseErr := s.idempotency.Release(releaseCtx, key); releaseErr != nil {
			err = errors.Join(err, fmt.Errorf("release idempotency key: %w", releaseErr))
		}
		return nil, err
	}
	completeCtx, cancel := s.callContext(context.WithoutCancel(ctx))
	defer cancel()
	// A failed Complete leaves the key reserved, so retries report it in
	// progress instead of posting twice.
	_ = s.idempotency.Complete(completeCtx, key, invoice.ID)
	return result, nil
}

func (s *Service) GetInvoice(ctx context.Context, id string) (*ports.InvoiceProjection, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	result, err := s.repo.GetByID(callCtx, id)
	return result, repoError(err)
}

func (s *Service) ListInvoices(ctx context.Context) ([]*ports.InvoiceProjection, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	result, err := s.repo.List(callCtx)
	return result, repoError(err)
}

func (s *Service) post(ctx context.Context, invoice *domain.Invoice) (*ports.PostingResult, error) {
	if s.tx == nil {
		return s.apply(ctx, invoice, true)
	}
	var result *ports.PostingResult
	err := s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		result, err = s.apply(txCtx, invoice, false)
		return err
	})
	if err != nil {
		var posting *PostingError
		if errors.As(err, &posting) {
			return nil, posting
		}
		return nil, &PostingError{State: domain.StateRolledBack, Err: repoError(err)}
	}
	return result, nil
}

// apply runs the ledger movements then the insert. With compensate set, a
// failure restores the lines already applied, newest first; without it the
// enclosing transaction undoes them. Either way a failure before any line
// was applied reports failed.
func (s *Service) apply(ctx context.Context, invoice *domain.Invoice, compensate bool) (*ports.PostingResult, error) {
	applied := make([]catalogdomain.StockMovement, 0, len(invoice.Lines))
	fail := func(cause error) error {
		if len(applied) == 0 {
			return &PostingError{State: domain.StateFailed, Err: cause}
		}
		if !compensate {
			return &PostingError{State: domain.StateRolledBack, Err: cause}
		}
		if err := s.compensate(ctx, applied); err != nil {
			return &PostingError{State: domain.StateFailed, Err: fmt.Errorf("%w: %w", ErrCompensationFailed, errors.Join(cause, err))}
		}
		return &PostingError{State: domain.StateRolledBack, Err: cause}
	}

	for i := range invoice.Lines {
		line := &invoice.Lines[i]
		movement := catalogdomain.StockMovement{
			ProductID: line.ProductID,
			Size:      line.Size,
			Color:     line.Color,
			Quantity:  line.Quantity,
		}
		receipt, err := s.deduct(ctx, movement)
		if err != nil {
			return nil, fail(&LineError{Index: i, ProductID: line.ProductID, Size: line.Size, Color: line.Color, Err: err})
		}
		applied = append(applied, movement)
		if line.Title == "" && receipt != nil {
			line.Title = receipt.Title
		}
	}

	saveCtx, cancel := s.callContext(ctx)
	defer cancel()
	saved, err := s.repo.Save(saveCtx, invoice)
	if err != nil {
		return nil, fail(repoError(err))
	}
	return &ports.PostingResult{Invoice: saved, State: domain.StateApplied}, nil
}

func (s *Service) deduct(ctx context.Context, movement catalogdomain.StockMovement) (*catalogdomain.StockReceipt, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	receipt, err := s.ledger.Deduct(callCtx, movement)
	if err != nil {
		return nil, ledgerError(err)
	}
	return receipt, nil
}

// compensate restores applied movements in reverse order. It runs on a
// context detached from the caller so an abandoned request still rolls back.
func (s *Service) compensate(ctx context.Context, applied []catalogdomain.StockMovement) error {
	detached := context.WithoutCancel(ctx)
	var errs []error
	for i := len(applied) - 1; i >= 0; i-- {
		restoreCtx, cancel := context.WithTimeout(detached, compensationTimeout)
		if err := s.ledger.Restore(restoreCtx, applied[i]); err != nil {
			errs = append(errs, fmt.Errorf("restore %s %s/%s x%d: %w",
				applied[i].ProductID, applied[i].Size, applied[i].Color, applied[i].Quantity, err))
		}
		cancel()
	}
	return errors.Join(errs...)
}

func (s *Service) reserve(ctx context.Context, key, hash string) (*ports.IdempotencyRecord, bool, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	record, reserved, err := s.idempotency.Reserve(callCtx, key, hash)
	if err != nil {
		return nil, false, repoError(err)
	}
	return record, reserved, nil
}

func (s *Service) replay(ctx context.Context, record *ports.IdempotencyRecord, hash string) (*ports.PostingResult, error) {
	if record == nil {
		return nil, &PostingError{State: domain.StateFailed, Err: ports.ErrIdempotencyInProgress}
	}
	if record.RequestHash != hash {
		return nil, &PostingError{State: domain.StateFailed, Err: ports.ErrIdempotencyConflict}
	}
	if record.InvoiceID == "" {
		return nil, &PostingError{State: domain.StateFailed, Err: ports.ErrIdempotencyInProgress}
	}
	invoice, err := s.GetInvoice(ctx, record.InvoiceID)
	if err != nil {
		return nil, &PostingError{State: domain.StateFailed, Err: err}
	}
	return &ports.PostingResult{Invoice: invoice, State: domain.StateApplied, Replayed: true}, nil
}

func (s *Service) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

func toDraft(input ports.CreateInvoiceInput) domain.Draft {
	draft := domain.Draft{
		CustomerName: input.CustomerName,
		Lines:        make([]domain.LineDraft, 0, len(input.Lines)),
		TotalAmount:  input.TotalAmount,
	}
	for _, line := range input.Lines {
		draft.Lines = append(draft.Lines, domain.LineDraft{
			ProductID: line.ProductID,
			Title:     line.Title,
			Size:      line.Size,
			Color:     line.Color,
			Quantity:  line.Quantity,
			Price:     line.Price,
			Total:     line.Total,
		})
	}
	return draft
}

var _ ports.Service = (*Service)(nil)
