package postgrest

import (
	"context"
	"strconv"
	"sync/atomic"
)

// FilterBuilder accumulates filters for a pending request and executes it.
//
// Every chained call returns a new FilterBuilder and leaves the receiver
// unchanged. A FilterBuilder can be executed once; later executions fail with
// ErrConsumed.
type FilterBuilder struct {
	c   *Client
	req *request

	consumed atomic.Bool
}

func newFilterBuilder(c *Client, r *request) *FilterBuilder {
	return &FilterBuilder{c: c, req: r}
}

func (f *FilterBuilder) with(r *request) *FilterBuilder {
	return newFilterBuilder(f.c, r)
}

// Filter appends column=<op>.<value>. Filters on the same column do not
// replace each other.
func (f *FilterBuilder) Filter(column string, op Operator, value string) *FilterBuilder {
	return f.with(f.req.withQuery(op.Encode(column, value)))
}

// Not appends a negated filter, column=not.<op>.<value>.
func (f *FilterBuilder) Not(column string, op Operator, value string) *FilterBuilder {
	k, v := op.Encode(column, value)
	return f.with(f.req.withQuery(k, "not."+v))
}

// Or appends a disjunction, e.g. Or("id.eq.1,name.eq.a") adds or=(id.eq.1,name.eq.a).
func (f *FilterBuilder) Or(filters string) *FilterBuilder {
	return f.with(f.req.withQuery("or", "("+filters+")"))
}

// Eq matches rows where column equals value.
func (f *FilterBuilder) Eq(column, value string) *FilterBuilder {
	return f.Filter(column, OperatorEq, value)
}

// Neq matches rows where column does not equal value.
func (f *FilterBuilder) Neq(column, value string) *FilterBuilder {
	return f.Filter(column, OperatorNeq, value)
}

// Gt matches rows where column is greater than value.
func (f *FilterBuilder) Gt(column, value string) *FilterBuilder {
	return f.Filter(column, OperatorGt, value)
}

// Gte matches rows where column is greater than or equal to value.
func (f *FilterBuilder) Gte(column, value string) *FilterBuilder {
	return f.Filter(column, OperatorGte, value)
}

// Lt matches rows where column is less than value.
func (f *FilterBuilder) Lt(column, value string) *FilterBuilder {
	return f.Filter(column, OperatorLt, value)
}

// Lte matches rows where column is less than or equal to value.
func (f *FilterBuilder) Lte(column, value string) *FilterBuilder {
	return f.Filter(column, OperatorLte, value)
}

// Like matches rows where column matches the LIKE pattern value.
func (f *FilterBuilder) Like(column, pattern string) *FilterBuilder {
	return f.Filter(column, OperatorLike, pattern)
}

// Ilike matches rows where column matches the ILIKE pattern value.
func (f *FilterBuilder) Ilike(column, pattern string) *FilterBuilder {
	return f.Filter(column, OperatorIlike, pattern)
}

// Is matches rows where column IS value (null, true, false or unknown).
func (f *FilterBuilder) Is(column, value string) *FilterBuilder {
	return f.Filter(column, OperatorIs, value)
}

// In matches rows where column is one of a list, e.g. In("id", "(1,2,3)").
func (f *FilterBuilder) In(column, list string) *FilterBuilder {
	return f.Filter(column, OperatorIn, list)
}

func (f *FilterBuilder) Cs(column, value string) *FilterBuilder {
	return f.Filter(column, OperatorCs, value)
}

func (f *FilterBuilder) Cd(column, value string) *FilterBuilder {
	return f.Filter(column, OperatorCd, value)
}

func (f *FilterBuilder) Sl(column, value string) *FilterBuilder {
	return f.Filter(column, OperatorSl, value)
}

func (f *FilterBuilder) Sr(column, value string) *FilterBuilder {
	return f.Filter(column, OperatorSr, value)
}

func (f *FilterBuilder) Nxl(column, value string) *FilterBuilder {
	return f.Filter(column, OperatorNxl, value)
}

func (f *FilterBuilder) Nxr(column, value string) *FilterBuilder {
	return f.Filter(column, OperatorNxr, value)
}

func (f *FilterBuilder) Adj(column, value string) *FilterBuilder {
	return f.Filter(column, OperatorAdj, value)
}

func (f *FilterBuilder) Ov(column, value string) *FilterBuilder {
	return f.Filter(column, OperatorOv, value)
}

// Fts is a full-text search using to_tsquery.
func (f *FilterBuilder) Fts(column, query string) *FilterBuilder {
	return f.Filter(column, OperatorFts, query)
}

// Plfts is a full-text search using plainto_tsquery.
func (f *FilterBuilder) Plfts(column, query string) *FilterBuilder {
	return f.Filter(column, OperatorPlfts, query)
}

// Phfts is a full-text search using phraseto_tsquery.
func (f *FilterBuilder) Phfts(column, query string) *FilterBuilder {
	return f.Filter(column, OperatorPhfts, query)
}

// Wfts is a full-text search using websearch_to_tsquery.
func (f *FilterBuilder) Wfts(column, query string) *FilterBuilder {
	return f.Filter(column, OperatorWfts, query)
}

// OrderOptions controls Order.
type OrderOptions struct {
	Descending bool
	// NullsFirst puts null values first. By default they come last.
	NullsFirst bool
}

// Order sorts the result by column. Later calls add secondary sort keys.
func (f *FilterBuilder) Order(column string, opts *OrderOptions) *FilterBuilder {
	if opts == nil {
		opts = &OrderOptions{}
	}
	term := column + ".asc"
	if opts.Descending {
		term = column + ".desc"
	}
	if opts.NullsFirst {
		term += ".nullsfirst"
	} else {
		term += ".nullslast"
	}
	if prev, ok := f.req.query.get("order"); ok {
		term = prev + "," + term
	}
	return f.with(f.req.withQuerySet("order", term))
}

// Limit caps the number of rows returned.
func (f *FilterBuilder) Limit(n int) *FilterBuilder {
	return f.with(f.req.withQuerySet("limit", strconv.Itoa(n)))
}

// Offset skips the first n rows.
func (f *FilterBuilder) Offset(n int) *FilterBuilder {
	return f.with(f.req.withQuerySet("offset", strconv.Itoa(n)))
}

// Range limits the result to rows from through to, both inclusive and 0-based.
func (f *FilterBuilder) Range(from, to int) *FilterBuilder {
	return f.Offset(from).Limit(to - from + 1)
}

// ExecuteTo executes the request and decodes the result into dst, which must
// be a pointer. A nil dst discards the result.
func (f *FilterBuilder) ExecuteTo(ctx context.Context, dst any) error {
	c, r, err := f.take()
	if err != nil {
		return err
	}
	return c.execute(ctx, r, dst)
}

func (f *FilterBuilder) take() (*Client, *request, error) {
	if !f.consumed.CompareAndSwap(false, true) {
		return nil, nil, transportError("build", ErrConsumed)
	}
	return f.c, f.req, nil
}
