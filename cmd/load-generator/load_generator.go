package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/AntonStoeckl/library-reservations-go/catalog"
	"github.com/AntonStoeckl/library-reservations-go/library/features/command/addbook"
	"github.com/AntonStoeckl/library-reservations-go/library/features/command/cancelreservation"
	"github.com/AntonStoeckl/library-reservations-go/library/features/command/reservebook"
	"github.com/AntonStoeckl/library-reservations-go/library/features/query/searchbooks"
	"github.com/AntonStoeckl/library-reservations-go/library/shared/shell"
	"github.com/AntonStoeckl/library-reservations-go/library/shared/shell/observable"
	"github.com/AntonStoeckl/library-reservations-go/library/shared/shell/storage"
)

const (
	opReserve = iota
	opCancel
	opSearch
)

var genres = []string{"Fiction", "Science", "History", "Software"}

// ErrInvalidSettings is returned for settings the generator cannot run with.
var ErrInvalidSettings = errors.New("invalid load generator settings")

// Settings configures a load generation run.
type Settings struct {
	Workers       int
	Duration      time.Duration
	Books         int
	CopiesPerBook int
	Users         int
	Weights       []int
	EnvFile       string
}

// Validate checks the settings.
func (s Settings) Validate() error {
	switch {
	case s.Workers < 1:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidSettings)
	case s.Duration <= 0:
		return fmt.Errorf("%w: duration must be positive", ErrInvalidSettings)
	case s.Books < 1:
		return fmt.Errorf("%w: books must be positive", ErrInvalidSettings)
	case s.CopiesPerBook < 0:
		return fmt.Errorf("%w: copies must not be negative", ErrInvalidSettings)
	case s.Users < 1:
		return fmt.Errorf("%w: users must be positive", ErrInvalidSettings)
	case len(s.Weights) != 3:
		return fmt.Errorf("%w: expected 3 weights", ErrInvalidSettings)
	}

	return nil
}

// ParseWeights parses "reserve,cancel,search" weights. They must not be negative and must not all be zero.
func ParseWeights(value string) ([]int, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 weights, got %d", ErrInvalidSettings, len(parts))
	}

	weights := make([]int, 3)
	total := 0

	for i, part := range parts {
		weight, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid weight %q", ErrInvalidSettings, part)
		}

		if weight < 0 {
			return nil, fmt.Errorf("%w: weight %d is negative", ErrInvalidSettings, weight)
		}

		weights[i] = weight
		total += weight
	}

	if total == 0 {
		return nil, fmt.Errorf("%w: weights must not all be zero", ErrInvalidSettings)
	}

	return weights, nil
}

// Stats counts the outcomes of a run.
type Stats struct {
	Reserved   int64
	OutOfStock int64
	Canceled   int64
	Searches   int64
	Errors     int64
}

// Violation describes a book for which quantity + active reservations != initial quantity, or quantity < 0.
type Violation struct {
	BookID             uuid.UUID
	Initial            int
	Quantity           int
	ActiveReservations int
}

type heldReservation struct {
	id    uuid.UUID
	owner catalog.Principal
}

// LoadGenerator runs concurrent workers against the command and query handlers.
type LoadGenerator struct {
	store    storage.Store
	settings Settings

	addBook     shell.CoreCommandHandler[addbook.Command]
	reserveBook shell.CoreCommandHandler[reservebook.Command]
	cancel      shell.CoreCommandHandler[cancelreservation.Command]
	search      shell.CoreQueryHandler[searchbooks.Query, searchbooks.SearchResult]

	admin catalog.Principal
	users []catalog.Principal
	books []uuid.UUID

	mu   sync.Mutex
	held []heldReservation

	reserved   atomic.Int64
	outOfStock atomic.Int64
	canceled   atomic.Int64
	searches   atomic.Int64
	errs       atomic.Int64
}

// NewLoadGenerator wraps all handlers with the observability adapters that are set.
func NewLoadGenerator(store storage.Store, settings Settings, observability Observability) (*LoadGenerator, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	addBookHandler, err := observable.NewCommandWrapper[addbook.Command](
		addbook.NewCommandHandler(store),
		commandOptions[addbook.Command](observability)...,
	)
	if err != nil {
		return nil, err
	}

	reserveHandler, err := observable.NewCommandWrapper[reservebook.Command](
		reservebook.NewCommandHandler(store),
		commandOptions[reservebook.Command](observability)...,
	)
	if err != nil {
		return nil, err
	}

	cancelHandler, err := observable.NewCommandWrapper[cancelreservation.Command](
		cancelreservation.NewCommandHandler(store),
		commandOptions[cancelreservation.Command](observability)...,
	)
	if err != nil {
		return nil, err
	}

	searchHandler, err := observable.NewQueryWrapper[searchbooks.Query, searchbooks.SearchResult](
		searchbooks.NewQueryHandler(store, searchbooks.WithResultCache(64, 250*time.Millisecond)),
		queryOptions[searchbooks.Query, searchbooks.SearchResult](observability)...,
	)
	if err != nil {
		return nil, err
	}

	generator := &LoadGenerator{
		store:       store,
		settings:    settings,
		addBook:     addBookHandler,
		reserveBook: reserveHandler,
		cancel:      cancelHandler,
		search:      searchHandler,
		admin:       catalog.BuildPrincipal(uuid.New(), catalog.RoleAdmin),
	}

	for i := 0; i < settings.Users; i++ {
		generator.users = append(generator.users, catalog.BuildPrincipal(uuid.New(), catalog.RoleUser))
	}

	return generator, nil
}

// Run creates the books and then runs the workers until ctx is done.
func (g *LoadGenerator) Run(ctx context.Context) error {
	if err := g.seedBooks(ctx); err != nil {
		return err
	}

	var wg sync.WaitGroup
	for i := 0; i < g.settings.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.work(ctx)
		}()
	}

	wg.Wait()

	return nil
}

// Stats returns the outcome counters.
func (g *LoadGenerator) Stats() Stats {
	return Stats{
		Reserved:   g.reserved.Load(),
		OutOfStock: g.outOfStock.Load(),
		Canceled:   g.canceled.Load(),
		Searches:   g.searches.Load(),
		Errors:     g.errs.Load(),
	}
}

// VerifyConservation checks every created book against the persisted state.
func (g *LoadGenerator) VerifyConservation(ctx context.Context) ([]Violation, error) {
	violations := make([]Violation, 0)

	for _, bookID := range g.books {
		var book catalog.Book
		var active int

		err := g.store.WithinTransaction(ctx, func(ctx context.Context, tx catalog.Tx) error {
			var err error
			if book, err = tx.GetBook(ctx, bookID); err != nil {
				return err
			}

			active, err = tx.CountActiveReservations(ctx, bookID)

			return err
		})
		if err != nil {
			return nil, err
		}

		if book.Quantity < 0 || book.Quantity+active != g.settings.CopiesPerBook {
			violations = append(violations, Violation{
				BookID:             bookID,
				Initial:            g.settings.CopiesPerBook,
				Quantity:           book.Quantity,
				ActiveReservations: active,
			})
		}
	}

	return violations, nil
}

func (g *LoadGenerator) seedBooks(ctx context.Context) error {
	for i := 1; i <= g.settings.Books; i++ {
		fields := catalog.BuildBookFields(
			fmt.Sprintf("Load Test Book %04d", i),
			fmt.Sprintf("Load Test Author %02d", i%10),
			genres[i%len(genres)],
			uint(1950+i%70), //nolint:gosec // small positive value
			"",
			"",
			g.settings.CopiesPerBook,
		)

		result, err := g.addBook.Handle(ctx, addbook.BuildCommand(g.admin, fields, time.Now()))
		if err != nil {
			return err
		}

		g.books = append(g.books, result.ResourceID)
	}

	return nil
}

func (g *LoadGenerator) work(ctx context.Context) {
	for ctx.Err() == nil {
		switch g.pickOperation() {
		case opReserve:
			g.reserveOnce(ctx)
		case opCancel:
			g.cancelOnce(ctx)
		case opSearch:
			g.searchOnce(ctx)
		}
	}
}

func (g *LoadGenerator) pickOperation() int {
	total := 0
	for _, weight := range g.settings.Weights {
		total += weight
	}

	pick := rand.IntN(total) //nolint:gosec // math/rand is sufficient for load generation
	for op, weight := range g.settings.Weights {
		if pick < weight {
			return op
		}

		pick -= weight
	}

	return opSearch
}

func (g *LoadGenerator) reserveOnce(ctx context.Context) {
	user := g.users[rand.IntN(len(g.users))]   //nolint:gosec // math/rand is sufficient for load generation
	bookID := g.books[rand.IntN(len(g.books))] //nolint:gosec // math/rand is sufficient for load generation

	result, err := g.reserveBook.Handle(ctx, reservebook.BuildCommand(user.UserID, bookID))

	switch {
	case err == nil:
		g.reserved.Add(1)
		g.hold(heldReservation{id: result.ResourceID, owner: user})
	case errors.Is(err, catalog.ErrOutOfStock):
		g.outOfStock.Add(1)
	default:
		g.recordError(ctx, "reserve failed", err)
	}
}

func (g *LoadGenerator) cancelOnce(ctx context.Context) {
	reservation, ok := g.release()
	if !ok {
		return
	}

	caller := reservation.owner
	if rand.IntN(10) == 0 { //nolint:gosec // math/rand is sufficient for load generation
		caller = g.admin
	}

	_, err := g.cancel.Handle(ctx, cancelreservation.BuildCommand(reservation.id, caller, time.Now()))
	if err != nil {
		g.recordError(ctx, "cancel failed", err)
		return
	}

	g.canceled.Add(1)
}

func (g *LoadGenerator) searchOnce(ctx context.Context) {
	filter := catalog.MatchingAnyBook()
	if rand.IntN(2) == 0 { //nolint:gosec // math/rand is sufficient for load generation
		filter = catalog.BuildSearchFilter().GenreIs(genres[rand.IntN(len(genres))]).Finalize() //nolint:gosec // see above
	}

	query, err := searchbooks.BuildQuery(filter, 1+rand.IntN(3), 5) //nolint:gosec // math/rand is sufficient for load generation
	if err != nil {
		g.recordError(ctx, "building search failed", err)
		return
	}

	if _, err = g.search.Handle(ctx, query); err != nil {
		g.recordError(ctx, "search failed", err)
		return
	}

	g.searches.Add(1)
}

// recordError ignores errors caused by the end of the run.
func (g *LoadGenerator) recordError(ctx context.Context, msg string, err error) {
	if ctx.Err() != nil {
		return
	}

	g.errs.Add(1)
	log.Warn().Err(err).Str("error_type", catalog.ErrorType(err)).Msg(msg)
}

func (g *LoadGenerator) hold(reservation heldReservation) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.held = append(g.held, reservation)
}

// release removes a random held reservation, so no two workers cancel the same one.
func (g *LoadGenerator) release() (heldReservation, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.held) == 0 {
		return heldReservation{}, false
	}

	i := rand.IntN(len(g.held)) //nolint:gosec // math/rand is sufficient for load generation
	reservation := g.held[i]
	g.held[i] = g.held[len(g.held)-1]
	g.held = g.held[:len(g.held)-1]

	return reservation, true
}

func commandOptions[C shell.Command](o Observability) []observable.CommandOption[C] {
	var options []observable.CommandOption[C]

	if o.MetricsCollector != nil {
		options = append(options, observable.WithCommandMetrics[C](o.MetricsCollector))
	}

	if o.TracingCollector != nil {
		options = append(options, observable.WithCommandTracing[C](o.TracingCollector))
	}

	if o.ContextualLogger != nil {
		options = append(options, observable.WithCommandContextualLogging[C](o.ContextualLogger))
	}

	return options
}

func queryOptions[Q shell.Query, R any](o Observability) []observable.QueryOption[Q, R] {
	var options []observable.QueryOption[Q, R]

	if o.MetricsCollector != nil {
		options = append(options, observable.WithQueryMetrics[Q, R](o.MetricsCollector))
	}

	if o.TracingCollector != nil {
		options = append(options, observable.WithQueryTracing[Q, R](o.TracingCollector))
	}

	if o.ContextualLogger != nil {
		options = append(options, observable.WithQueryContextualLogging[Q, R](o.ContextualLogger))
	}

	return options
}
