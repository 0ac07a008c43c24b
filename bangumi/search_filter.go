package bangumi

// SearchSubjectsFilter narrows a subject search. Conditions within one list are
// combined with OR for Type and AND for the others. Comparator strings such as
// ">=2020-07-01" or "<8" are passed through untouched.
type SearchSubjectsFilter struct {
	Type    []SubjectType `json:"type,omitempty"`
	Tag     []string      `json:"tag,omitempty"`
	AirDate []string      `json:"air_date,omitempty"`
	Rating  []string      `json:"rating,omitempty"`
	Rank    []string      `json:"rank,omitempty"`
	// NSFW includes adult subjects when true. Left unset, the API does not
	// return them.
	NSFW *bool `json:"nsfw,omitempty"`
}

// IsEmpty reports whether the filter sets no condition
func (f SearchSubjectsFilter) IsEmpty() bool {
	return len(f.Type) == 0 && len(f.Tag) == 0 && len(f.AirDate) == 0 &&
		len(f.Rating) == 0 && len(f.Rank) == 0 && f.NSFW == nil
}

// SearchSubjectsFilterBuilder assembles a SearchSubjectsFilter one condition
// at a time.
type SearchSubjectsFilterBuilder struct {
	filter SearchSubjectsFilter
}

// NewSearchSubjectsFilter returns an empty filter builder
func NewSearchSubjectsFilter() *SearchSubjectsFilterBuilder {
	return &SearchSubjectsFilterBuilder{}
}

// Type appends a subject type
func (b *SearchSubjectsFilterBuilder) Type(t SubjectType) *SearchSubjectsFilterBuilder {
	b.filter.Type = append(b.filter.Type, t)
	return b
}

// Types replaces the subject types
func (b *SearchSubjectsFilterBuilder) Types(types ...SubjectType) *SearchSubjectsFilterBuilder {
	b.filter.Type = append([]SubjectType(nil), types...)
	return b
}

// Tag appends a tag every result must carry
func (b *SearchSubjectsFilterBuilder) Tag(tag string) *SearchSubjectsFilterBuilder {
	b.filter.Tag = append(b.filter.Tag, tag)
	return b
}

// AirDate appends an air date condition such as ">=2020-07-01"
func (b *SearchSubjectsFilterBuilder) AirDate(cond string) *SearchSubjectsFilterBuilder {
	b.filter.AirDate = append(b.filter.AirDate, cond)
	return b
}

// Rating appends a rating condition such as ">=6"
func (b *SearchSubjectsFilterBuilder) Rating(cond string) *SearchSubjectsFilterBuilder {
	b.filter.Rating = append(b.filter.Rating, cond)
	return b
}

// Rank appends a rank condition such as "<=100"
func (b *SearchSubjectsFilterBuilder) Rank(cond string) *SearchSubjectsFilterBuilder {
	b.filter.Rank = append(b.filter.Rank, cond)
	return b
}

func (b *SearchSubjectsFilterBuilder) NSFW(nsfw bool) *SearchSubjectsFilterBuilder {
	b.filter.NSFW = &nsfw
	return b
}

// Build returns a copy of the assembled filter
func (b *SearchSubjectsFilterBuilder) Build() SearchSubjectsFilter {
	f := b.filter
	f.Type = append([]SubjectType(nil), f.Type...)
	f.Tag = append([]string(nil), f.Tag...)
	f.AirDate = append([]string(nil), f.AirDate...)
	f.Rating = append([]string(nil), f.Rating...)
	f.Rank = append([]string(nil), f.Rank...)
	if f.NSFW != nil {
		nsfw := *f.NSFW
		f.NSFW = &nsfw
	}
	return f
}
