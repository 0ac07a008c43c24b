package bangumi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

const (
	opSearchSubjects      = "search subjects"
	opListSubjects        = "list subjects"
	opGetSubject          = "get subject"
	opGetSubjectImage     = "get subject image"
	opGetSubjectPersons   = "get subject persons"
	opGetSubjectChars     = "get subject characters"
	opGetSubjectRelations = "get subject relations"
)

// SearchSubjectsBuilder prepares a subject search. Keyword and sort must be
// set before Build.
type SearchSubjectsBuilder struct {
	client  *Client
	keyword mo.Option[string]
	sort    mo.Option[SortType]
	limit   mo.Option[uint64]
	offset  mo.Option[uint64]
	filter  mo.Option[SearchSubjectsFilter]
	used    bool
}

type searchSubjectsBody struct {
	Keyword string                `json:"keyword"`
	Sort    SortType              `json:"sort"`
	Filter  *SearchSubjectsFilter `json:"filter,omitempty"`
}

// SearchSubjects starts a subject search
func (c *Client) SearchSubjects() *SearchSubjectsBuilder {
	return &SearchSubjectsBuilder{client: c}
}

func (b *SearchSubjectsBuilder) Keyword(keyword string) *SearchSubjectsBuilder {
	b.keyword = mo.Some(keyword)
	return b
}

func (b *SearchSubjectsBuilder) Sort(sort SortType) *SearchSubjectsBuilder {
	b.sort = mo.Some(sort)
	return b
}

// Limit sets the page size
func (b *SearchSubjectsBuilder) Limit(limit uint64) *SearchSubjectsBuilder {
	b.limit = mo.Some(limit)
	return b
}

func (b *SearchSubjectsBuilder) Offset(offset uint64) *SearchSubjectsBuilder {
	b.offset = mo.Some(offset)
	return b
}

func (b *SearchSubjectsBuilder) Filter(filter SearchSubjectsFilter) *SearchSubjectsBuilder {
	b.filter = mo.Some(filter)
	return b
}

// Build validates the parameters and renders the request. A builder can only
// be built once.
func (b *SearchSubjectsBuilder) Build() (*Request, error) {
	if b.used {
		return nil, newError(KindBuilder, opSearchSubjects, ErrBuilderReused)
	}
	b.used = true

	keyword, ok := b.keyword.Get()
	if !ok {
		return nil, missingField(opSearchSubjects, "keyword")
	}
	sort, ok := b.sort.Get()
	if !ok {
		return nil, missingField(opSearchSubjects, "sort")
	}
	if !sort.Valid() {
		return nil, invalidField(opSearchSubjects, "sort", "unknown value for")
	}

	body := searchSubjectsBody{Keyword: keyword, Sort: sort}
	if filter, ok := b.filter.Get(); ok {
		for _, t := range filter.Type {
			if !t.Valid() {
				return nil, invalidField(opSearchSubjects, "filter.type", "unknown value for")
			}
		}
		if !filter.IsEmpty() {
			body.Filter = &filter
		}
	}

	query := url.Values{}
	if limit, ok := b.limit.Get(); ok {
		setUint(query, "limit", limit)
	}
	if offset, ok := b.offset.Get(); ok {
		setUint(query, "offset", offset)
	}

	return &Request{
		Method: http.MethodPost,
		Path:   "/v0/search/subjects",
		Query:  query,
		Body:   body,
	}, nil
}

// Send builds the request and performs it
func (b *SearchSubjectsBuilder) Send(ctx context.Context) (*SearchSubjects, error) {
	req, err := b.Build()
	if err != nil {
		return nil, err
	}
	var out SearchSubjects
	if err := b.client.doJSON(ctx, opSearchSubjects, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSubjectsSort is the ordering of a subject browse
type ListSubjectsSort string

const (
	ListSubjectsSortDate ListSubjectsSort = "date"
	ListSubjectsSortRank ListSubjectsSort = "rank"
)

// ListSubjectsBuilder prepares a subject browse. Type must be set before
// Build.
type ListSubjectsBuilder struct {
	client      *Client
	subjectType mo.Option[SubjectType]
	category    mo.Option[SubjectCategory]
	series      mo.Option[bool]
	platform    mo.Option[string]
	sort        mo.Option[ListSubjectsSort]
	year        mo.Option[int]
	month       mo.Option[int]
	limit       mo.Option[uint64]
	offset      mo.Option[uint64]
	used        bool
}

// ListSubjects starts a subject browse
func (c *Client) ListSubjects() *ListSubjectsBuilder {
	return &ListSubjectsBuilder{client: c}
}

func (b *ListSubjectsBuilder) Type(t SubjectType) *ListSubjectsBuilder {
	b.subjectType = mo.Some(t)
	return b
}

// Category restricts results to one category of the chosen type
func (b *ListSubjectsBuilder) Category(cat SubjectCategory) *ListSubjectsBuilder {
	b.category = mo.Some(cat)
	return b
}

// Series restricts book results to series entries. Only meaningful for books.
func (b *ListSubjectsBuilder) Series(series bool) *ListSubjectsBuilder {
	b.series = mo.Some(series)
	return b
}

// Platform restricts game results to one platform
func (b *ListSubjectsBuilder) Platform(platform string) *ListSubjectsBuilder {
	b.platform = mo.Some(platform)
	return b
}

func (b *ListSubjectsBuilder) Sort(sort ListSubjectsSort) *ListSubjectsBuilder {
	b.sort = mo.Some(sort)
	return b
}

func (b *ListSubjectsBuilder) Year(year int) *ListSubjectsBuilder {
	b.year = mo.Some(year)
	return b
}

// Month sets the release month, 1 to 12
func (b *ListSubjectsBuilder) Month(month int) *ListSubjectsBuilder {
	b.month = mo.Some(month)
	return b
}

func (b *ListSubjectsBuilder) Limit(limit uint64) *ListSubjectsBuilder {
	b.limit = mo.Some(limit)
	return b
}

func (b *ListSubjectsBuilder) Offset(offset uint64) *ListSubjectsBuilder {
	b.offset = mo.Some(offset)
	return b
}

// Build validates the parameters and renders the request. A builder can only
// be built once.
func (b *ListSubjectsBuilder) Build() (*Request, error) {
	if b.used {
		return nil, newError(KindBuilder, opListSubjects, ErrBuilderReused)
	}
	b.used = true

	subjectType, ok := b.subjectType.Get()
	if !ok {
		return nil, missingField(opListSubjects, "type")
	}
	if !subjectType.Valid() {
		return nil, invalidField(opListSubjects, "type", "unknown value for")
	}

	query := url.Values{}
	query.Set("type", strconv.Itoa(int(subjectType)))

	if cat, ok := b.category.Get(); ok && cat != nil {
		if !cat.Valid() {
			return nil, invalidField(opListSubjects, "cat", "unknown value for")
		}
		if cat.SubjectType() != subjectType {
			return nil, invalidField(opListSubjects, "cat", "category of another subject type in")
		}
		query.Set("cat", strconv.Itoa(cat.Code()))
	}
	if series, ok := b.series.Get(); ok {
		query.Set("series", strconv.FormatBool(series))
	}
	if platform, ok := b.platform.Get(); ok {
		query.Set("platform", platform)
	}
	if sort, ok := b.sort.Get(); ok {
		if sort != ListSubjectsSortDate && sort != ListSubjectsSortRank {
			return nil, invalidField(opListSubjects, "sort", "unknown value for")
		}
		query.Set("sort", string(sort))
	}
	if year, ok := b.year.Get(); ok {
		query.Set("year", strconv.Itoa(year))
	}
	if month, ok := b.month.Get(); ok {
		if month < 1 || month > 12 {
			return nil, invalidField(opListSubjects, "month", "out of range value for")
		}
		query.Set("month", strconv.Itoa(month))
	}
	if limit, ok := b.limit.Get(); ok {
		setUint(query, "limit", limit)
	}
	if offset, ok := b.offset.Get(); ok {
		setUint(query, "offset", offset)
	}

	return &Request{
		Method: http.MethodGet,
		Path:   "/v0/subjects",
		Query:  query,
	}, nil
}

// Send builds the request and performs it
func (b *ListSubjectsBuilder) Send(ctx context.Context) (*PagedSubject, error) {
	req, err := b.Build()
	if err != nil {
		return nil, err
	}
	var out PagedSubject
	if err := b.client.doJSON(ctx, opListSubjects, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSubject retrieves a subject by ID
func (c *Client) GetSubject(ctx context.Context, id uint64) (*Subject, error) {
	if id == 0 {
		return nil, missingField(opGetSubject, "id")
	}
	var out Subject
	req := &Request{Method: http.MethodGet, Path: idPath("/v0/subjects", id)}
	if err := c.doJSON(ctx, opGetSubject, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSubjectImage downloads the cover of a subject in the given size
func (c *Client) GetSubjectImage(ctx context.Context, id uint64, size ImageType) ([]byte, error) {
	req, err := imageRequest(opGetSubjectImage, idPath("/v0/subjects", id, "image"), missingID(id), size, subjectImageTypes)
	if err != nil {
		return nil, err
	}
	return c.doBytes(ctx, opGetSubjectImage, req)
}

// GetSubjectPersons retrieves the staff credited on a subject
func (c *Client) GetSubjectPersons(ctx context.Context, id uint64) ([]RelatedPerson, error) {
	return getList[RelatedPerson](ctx, c, opGetSubjectPersons, "/v0/subjects", id, "persons")
}

// GetSubjectCharacters retrieves the characters appearing in a subject
func (c *Client) GetSubjectCharacters(ctx context.Context, id uint64) ([]RelatedCharacter, error) {
	return getList[RelatedCharacter](ctx, c, opGetSubjectChars, "/v0/subjects", id, "characters")
}

// GetSubjectRelations retrieves the subjects related to a subject
func (c *Client) GetSubjectRelations(ctx context.Context, id uint64) ([]SubjectRelation, error) {
	return getList[SubjectRelation](ctx, c, opGetSubjectRelations, "/v0/subjects", id, "subjects")
}

// getList fetches a JSON array below an entity path
func getList[T any](ctx context.Context, c *Client, op, prefix string, id uint64, relation string) ([]T, error) {
	if id == 0 {
		return nil, missingField(op, "id")
	}
	out := []T{}
	req := &Request{Method: http.MethodGet, Path: idPath(prefix, id, relation)}
	if err := c.doJSON(ctx, op, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func missingID(id uint64) string {
	if id == 0 {
		return "id"
	}
	return ""
}

// imageRequest validates an image size against the sizes the endpoint
// accepts. missing names an empty path parameter, if any.
func imageRequest(op, path, missing string, size ImageType, allowed []ImageType) (*Request, error) {
	if missing != "" {
		return nil, missingField(op, missing)
	}
	if size == "" {
		return nil, missingField(op, "type")
	}
	if !lo.Contains(allowed, size) {
		return nil, invalidField(op, "type", "unsupported image size "+strconv.Quote(string(size))+" for")
	}

	query := url.Values{}
	query.Set("type", string(size))
	return &Request{Method: http.MethodGet, Path: path, Query: query}, nil
}
