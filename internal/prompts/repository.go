package prompts

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/JaimeStill/promptbase/pkg/pagination"
	"github.com/JaimeStill/promptbase/pkg/query"
	"github.com/JaimeStill/promptbase/pkg/repository"
)

type repo struct {
	db         *sql.DB
	dialect    query.Dialect
	logger     *slog.Logger
	pagination pagination.Config
	now        func() time.Time
}

// Option configures a prompt repository.
type Option func(*repo)

// WithClock replaces the clock used for created_at and updated_at.
func WithClock(now func() time.Time) Option {
	return func(r *repo) {
		r.now = now
	}
}

// New creates a prompt repository implementing the System interface.
func New(
	db *sql.DB,
	dialect query.Dialect,
	logger *slog.Logger,
	pagination pagination.Config,
	opts ...Option,
) System {
	r := &repo{
		db:         db,
		dialect:    dialect,
		logger:     logger.With("system", "prompts"),
		pagination: pagination,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(ctx context.Context, filters Filters) ([]Prompt, error) {
	qb := query.NewBuilder(projection, r.dialect, defaultSort...)
	filters.Apply(qb)

	q, args := qb.Build()
	prompts, err := repository.QueryMany(ctx, r.db, q, args, scanPrompt)
	if err != nil {
		return nil, r.fail("list", err)
	}
	return prompts, nil
}

func (r *repo) Page(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Prompt], error) {
	page.Normalize(r.pagination)

	if filters.Search == nil {
		filters.Search = page.Search
	}

	qb := query.NewBuilder(projection, r.dialect, defaultSort...)
	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := repository.Count(ctx, r.db, countSQL, countArgs)
	if err != nil {
		return nil, r.fail("count", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	prompts, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanPrompt)
	if err != nil {
		return nil, r.fail("page", err)
	}

	result := pagination.NewPageResult(prompts, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id int64) (*Prompt, error) {
	q, args := query.NewBuilder(projection, r.dialect).BuildSingle("id", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPrompt)
	if err != nil {
		return nil, r.fail("find", err)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Prompt, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := r.dialect.Rebind(`
		INSERT INTO prompts(title, prompt, template, is_favorite, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + returning)

	now := r.timestamp()
	args := []any{cmd.Title, cmd.Prompt, cmd.Template, cmd.IsFavorite, now, now}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Prompt, error) {
		return repository.QueryOne(ctx, tx, q, args, scanPrompt)
	})

	if err != nil {
		return nil, r.fail("create", err)
	}

	r.logger.Info("prompt created", "id", p.ID, "title", p.Title)
	return &p, nil
}

func (r *repo) Update(ctx context.Context, id int64, cmd UpdateCommand) (*Prompt, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := r.dialect.Rebind(`
		UPDATE prompts
		SET title = $1, prompt = $2, template = $3, is_favorite = $4, updated_at = $5
		WHERE id = $6
		RETURNING ` + returning)

	args := []any{cmd.Title, cmd.Prompt, cmd.Template, cmd.IsFavorite, r.timestamp(), id}

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Prompt, error) {
		return repository.QueryOne(ctx, tx, q, args, scanPrompt)
	})

	if err != nil {
		return nil, r.fail("update", err)
	}

	r.logger.Info("prompt updated", "id", p.ID, "title", p.Title)
	return &p, nil
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	q := r.dialect.Rebind("DELETE FROM prompts WHERE id = $1")

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, q, id)
	})

	if err != nil {
		return r.fail("delete", err)
	}

	r.logger.Info("prompt deleted", "id", id)
	return nil
}

func (r *repo) SetFavorite(ctx context.Context, id int64, favorite bool) (*Prompt, error) {
	q := r.dialect.Rebind(`
		UPDATE prompts SET is_favorite = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + returning)

	p, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Prompt, error) {
		return repository.QueryOne(ctx, tx, q, []any{favorite, r.timestamp(), id}, scanPrompt)
	})

	if err != nil {
		return nil, r.fail("favorite", err)
	}

	r.logger.Info("prompt favorite set", "id", p.ID, "favorite", p.IsFavorite)
	return &p, nil
}

// timestamp is the current clock reading in UTC at the precision both
// dialects store.
func (r *repo) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

// fail maps storage errors onto the domain taxonomy. Anything that is not a
// missing row or a constraint violation becomes a *DatastoreError.
func (r *repo) fail(op string, err error) error {
	mapped := repository.MapError(err, ErrNotFound, ErrValidation)
	if errors.Is(mapped, ErrNotFound) || errors.Is(mapped, ErrValidation) {
		return mapped
	}
	return &DatastoreError{Op: op, Err: err}
}
