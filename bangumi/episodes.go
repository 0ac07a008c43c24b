package bangumi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/samber/mo"
)

const (
	opListEpisodes = "list episodes"
	opGetEpisode   = "get episode"
)

// ListEpisodesBuilder prepares an episode listing for one subject
type ListEpisodesBuilder struct {
	client      *Client
	subjectID   mo.Option[uint64]
	episodeType mo.Option[EpisodeType]
	limit       mo.Option[uint64]
	offset      mo.Option[uint64]
	used        bool
}

// ListEpisodes starts an episode listing
func (c *Client) ListEpisodes() *ListEpisodesBuilder {
	return &ListEpisodesBuilder{client: c}
}

func (b *ListEpisodesBuilder) SubjectID(id uint64) *ListEpisodesBuilder {
	b.subjectID = mo.Some(id)
	return b
}

// Type restricts the listing to one episode type
func (b *ListEpisodesBuilder) Type(t EpisodeType) *ListEpisodesBuilder {
	b.episodeType = mo.Some(t)
	return b
}

func (b *ListEpisodesBuilder) Limit(limit uint64) *ListEpisodesBuilder {
	b.limit = mo.Some(limit)
	return b
}

func (b *ListEpisodesBuilder) Offset(offset uint64) *ListEpisodesBuilder {
	b.offset = mo.Some(offset)
	return b
}

// Build validates the parameters and renders the request
func (b *ListEpisodesBuilder) Build() (*Request, error) {
	if b.used {
		return nil, newError(KindBuilder, opListEpisodes, ErrBuilderReused)
	}
	b.used = true

	subjectID := b.subjectID.OrEmpty()
	if subjectID == 0 {
		return nil, missingField(opListEpisodes, "subject_id")
	}

	query := url.Values{}
	setUint(query, "subject_id", subjectID)
	if t, ok := b.episodeType.Get(); ok {
		if !t.Valid() {
			return nil, invalidField(opListEpisodes, "type", "unknown value for")
		}
		query.Set("type", strconv.Itoa(int(t)))
	}
	if limit, ok := b.limit.Get(); ok {
		setUint(query, "limit", limit)
	}
	if offset, ok := b.offset.Get(); ok {
		setUint(query, "offset", offset)
	}

	return &Request{
		Method: http.MethodGet,
		Path:   "/v0/episodes",
		Query:  query,
	}, nil
}

// Send builds the request and performs it
func (b *ListEpisodesBuilder) Send(ctx context.Context) (*PagedEpisode, error) {
	req, err := b.Build()
	if err != nil {
		return nil, err
	}
	var out PagedEpisode
	if err := b.client.doJSON(ctx, opListEpisodes, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetEpisode retrieves an episode by ID
func (c *Client) GetEpisode(ctx context.Context, id uint64) (*Episode, error) {
	if id == 0 {
		return nil, missingField(opGetEpisode, "id")
	}
	var out Episode
	req := &Request{Method: http.MethodGet, Path: idPath("/v0/episodes", id)}
	if err := c.doJSON(ctx, opGetEpisode, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
