package bangumi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchSubjectsBuild(t *testing.T) {
	client, err := NewClient()
	require.NoError(t, err)

	req, err := client.SearchSubjects().
		Keyword("魔法禁书目录").
		Sort(SortMatch).
		Limit(1).
		Offset(0).
		Filter(NewSearchSubjectsFilter().Type(SubjectTypeAnime).Build()).
		Build()
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/v0/search/subjects", req.Path)
	assert.Equal(t, "limit=1&offset=0", req.Query.Encode())
	assert.Equal(t, "https://api.bgm.tv/v0/search/subjects?limit=1&offset=0", req.URL(client.baseURL).String())

	body, err := marshalBody(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"keyword":"魔法禁书目录","sort":"match","filter":{"type":[2]}}`, body)
}

func marshalBody(req *Request) (string, error) {
	body, err := json.Marshal(req.Body)
	return string(body), err
}

func TestSearchSubjectsSend(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v0/search/subjects", r.URL.Path)
		assert.Equal(t, "limit=1&offset=0", r.URL.RawQuery)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"keyword":"魔法禁书目录","sort":"match","filter":{"type":[2]}}`, string(body))

		w.Write([]byte(`{
			"data": [{
				"id": 1014,
				"type": 2,
				"name": "とある魔術の禁書目録",
				"name_cn": "魔法禁书目录",
				"date": "2008-10-04",
				"image": "https://lain.bgm.tv/pic/cover/l/c3/1e/1014_5iqh4.jpg",
				"images": {"large": "https://lain.bgm.tv/pic/cover/l/c3/1e/1014_5iqh4.jpg"},
				"infobox": [{"key": "话数", "value": "24"}],
				"tags": [{"name": "魔法禁书目录", "count": 1463}]
			}],
			"total": 9,
			"limit": 1,
			"offset": 0
		}`))
	})

	result, err := client.SearchSubjects().
		Keyword("魔法禁书目录").
		Sort(SortMatch).
		Limit(1).
		Offset(0).
		Filter(SearchSubjectsFilter{Type: []SubjectType{SubjectTypeAnime}}).
		Send(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(9), result.Total)
	assert.True(t, result.HasMorePages())
	require.Len(t, result.Data, 1)
	assert.Equal(t, uint64(1014), result.Data[0].ID)
	assert.Equal(t, "とある魔術の禁書目録", result.Data[0].Name)
	assert.Equal(t, SubjectTypeAnime, result.Data[0].Type)
	require.NotNil(t, result.Data[0].Image)
	assert.Contains(t, *result.Data[0].Image, "1014_5iqh4.jpg")
}

func TestSearchSubjectsValidation(t *testing.T) {
	tests := []struct {
		name      string
		build     func(b *SearchSubjectsBuilder) *SearchSubjectsBuilder
		wantField string
	}{
		{
			name:      "missing keyword",
			build:     func(b *SearchSubjectsBuilder) *SearchSubjectsBuilder { return b.Sort(SortHeat) },
			wantField: "keyword",
		},
		{
			name:      "missing sort",
			build:     func(b *SearchSubjectsBuilder) *SearchSubjectsBuilder { return b.Keyword("index") },
			wantField: "sort",
		},
		{
			name: "unknown sort",
			build: func(b *SearchSubjectsBuilder) *SearchSubjectsBuilder {
				return b.Keyword("index").Sort(SortType("newest"))
			},
			wantField: "sort",
		},
		{
			name: "unknown filter type",
			build: func(b *SearchSubjectsBuilder) *SearchSubjectsBuilder {
				return b.Keyword("index").Sort(SortRank).Filter(SearchSubjectsFilter{Type: []SubjectType{5}})
			},
			wantField: "filter.type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			client, err := NewClient(WithHTTPClient(countingDoer(t, &calls)))
			require.NoError(t, err)

			_, err = tt.build(client.SearchSubjects()).Send(context.Background())
			require.Error(t, err)
			assert.True(t, IsKind(err, KindBuilder))

			var builderErr *BuilderError
			require.True(t, errors.As(err, &builderErr))
			assert.Equal(t, tt.wantField, builderErr.Field)
			assert.Contains(t, err.Error(), tt.wantField)
			assert.Zero(t, calls.Load())
		})
	}
}

func TestSearchSubjectsOmitsEmptyFilter(t *testing.T) {
	client, err := NewClient()
	require.NoError(t, err)

	req, err := client.SearchSubjects().
		Keyword("index").
		Sort(SortScore).
		Filter(SearchSubjectsFilter{}).
		Build()
	require.NoError(t, err)

	assert.Empty(t, req.Query)
	body, err := marshalBody(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"keyword":"index","sort":"score"}`, body)
}

func TestBuilderReuse(t *testing.T) {
	client, err := NewClient()
	require.NoError(t, err)

	search := client.SearchSubjects().Keyword("index").Sort(SortMatch)
	_, err = search.Build()
	require.NoError(t, err)
	_, err = search.Build()
	assert.ErrorIs(t, err, ErrBuilderReused)
	assert.True(t, IsKind(err, KindBuilder))

	list := client.ListSubjects().Type(SubjectTypeGame)
	_, err = list.Build()
	require.NoError(t, err)
	_, err = list.Build()
	assert.ErrorIs(t, err, ErrBuilderReused)

	episodes := client.ListEpisodes().SubjectID(8)
	_, err = episodes.Build()
	require.NoError(t, err)
	_, err = episodes.Build()
	assert.ErrorIs(t, err, ErrBuilderReused)
}

func TestListSubjectsBuild(t *testing.T) {
	client, err := NewClient()
	require.NoError(t, err)

	t.Run("only type set", func(t *testing.T) {
		req, err := client.ListSubjects().Type(SubjectTypeAnime).Build()
		require.NoError(t, err)
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, "/v0/subjects", req.Path)
		assert.Equal(t, "type=2", req.Query.Encode())
		assert.Nil(t, req.Body)
	})

	t.Run("all parameters", func(t *testing.T) {
		req, err := client.ListSubjects().
			Type(SubjectTypeBook).
			Category(BookCategoryComic).
			Series(true).
			Platform("漫画").
			Sort(ListSubjectsSortRank).
			Year(2020).
			Month(7).
			Limit(30).
			Offset(60).
			Build()
		require.NoError(t, err)

		assert.Equal(t, "1001", req.Query.Get("cat"))
		assert.Equal(t, "true", req.Query.Get("series"))
		assert.Equal(t, "漫画", req.Query.Get("platform"))
		assert.Equal(t, "rank", req.Query.Get("sort"))
		assert.Equal(t, "2020", req.Query.Get("year"))
		assert.Equal(t, "7", req.Query.Get("month"))
		assert.Equal(t, "30", req.Query.Get("limit"))
		assert.Equal(t, "60", req.Query.Get("offset"))
	})

	tests := []struct {
		name      string
		build     func(b *ListSubjectsBuilder) *ListSubjectsBuilder
		wantField string
	}{
		{
			name:      "missing type",
			build:     func(b *ListSubjectsBuilder) *ListSubjectsBuilder { return b.Limit(10) },
			wantField: "type",
		},
		{
			name:      "unknown type",
			build:     func(b *ListSubjectsBuilder) *ListSubjectsBuilder { return b.Type(5) },
			wantField: "type",
		},
		{
			name: "category of another type",
			build: func(b *ListSubjectsBuilder) *ListSubjectsBuilder {
				return b.Type(SubjectTypeAnime).Category(GameCategoryGames)
			},
			wantField: "cat",
		},
		{
			name: "unknown category",
			build: func(b *ListSubjectsBuilder) *ListSubjectsBuilder {
				return b.Type(SubjectTypeAnime).Category(AnimeCategory(9))
			},
			wantField: "cat",
		},
		{
			name:      "month out of range",
			build:     func(b *ListSubjectsBuilder) *ListSubjectsBuilder { return b.Type(SubjectTypeAnime).Month(13) },
			wantField: "month",
		},
		{
			name: "unknown sort",
			build: func(b *ListSubjectsBuilder) *ListSubjectsBuilder {
				return b.Type(SubjectTypeAnime).Sort(ListSubjectsSort("heat"))
			},
			wantField: "sort",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build(client.ListSubjects()).Build()
			require.Error(t, err)

			var builderErr *BuilderError
			require.True(t, errors.As(err, &builderErr))
			assert.Equal(t, tt.wantField, builderErr.Field)
		})
	}
}

func TestListSubjectsSend(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v0/subjects", r.URL.Path)
		assert.Equal(t, "limit=2&type=4", r.URL.RawQuery)
		w.Write([]byte(`{"data":[{"id":1,"name":"a","type":4},{"id":2,"name":"b","type":4}],"total":2,"limit":2,"offset":0}`))
	})

	page, err := client.ListSubjects().Type(SubjectTypeGame).Limit(2).Send(context.Background())
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.False(t, page.HasMorePages())
}

func TestGetSubject(t *testing.T) {
	data, err := os.ReadFile("testdata/subject_3559.json")
	require.NoError(t, err)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v0/subjects/3559", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		w.Write(data)
	})

	subject, err := client.GetSubject(context.Background(), 3559)
	require.NoError(t, err)
	assert.Equal(t, uint64(3559), subject.ID)
	assert.Equal(t, "魔法禁书目录", subject.DisplayName())
}

func TestGetSubjectRelations(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v0/subjects/1014/persons":
			w.Write([]byte(`[{"id":6016,"name":"鎌池和馬","type":1,"career":["writer"],"relation":"原作","eps":""}]`))
		case "/v0/subjects/1014/characters":
			w.Write([]byte(`[{"id":3575,"name":"インデックス","type":1,"relation":"主角","actors":[{"id":4871,"name":"井口裕香","type":1,"career":["seiyu"]}]}]`))
		case "/v0/subjects/1014/subjects":
			w.Write([]byte(`[{"id":3559,"type":1,"name":"とある魔術の禁書目録","name_cn":"魔法禁书目录","relation":"原作"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	persons, err := client.GetSubjectPersons(ctx, 1014)
	require.NoError(t, err)
	require.Len(t, persons, 1)
	assert.Equal(t, []PersonCareer{CareerWriter}, persons[0].Career)

	characters, err := client.GetSubjectCharacters(ctx, 1014)
	require.NoError(t, err)
	require.Len(t, characters, 1)
	require.Len(t, characters[0].Actors, 1)
	assert.Equal(t, "井口裕香", characters[0].Actors[0].Name)

	relations, err := client.GetSubjectRelations(ctx, 1014)
	require.NoError(t, err)
	require.Len(t, relations, 1)
	assert.Equal(t, SubjectTypeBook, relations[0].Type)
	assert.Equal(t, "原作", relations[0].Relation)
}

func TestGetSubjectImage(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v0/subjects/3559/image", r.URL.Path)
		assert.Equal(t, "type=large", r.URL.RawQuery)
		assert.Empty(t, r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	})

	got, err := client.GetSubjectImage(context.Background(), 3559, ImageLarge)
	require.NoError(t, err)
	assert.Equal(t, png, got)
}

func TestImageSizeValidation(t *testing.T) {
	var calls atomic.Int32
	client, err := NewClient(WithHTTPClient(countingDoer(t, &calls)))
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name      string
		call      func() ([]byte, error)
		wantField string
	}{
		{
			name:      "unknown size",
			call:      func() ([]byte, error) { return client.GetSubjectImage(ctx, 1, ImageType("huge")) },
			wantField: "type",
		},
		{
			name:      "empty size",
			call:      func() ([]byte, error) { return client.GetSubjectImage(ctx, 1, "") },
			wantField: "type",
		},
		{
			name:      "common not offered for characters",
			call:      func() ([]byte, error) { return client.GetCharacterImage(ctx, 1, ImageCommon) },
			wantField: "type",
		},
		{
			name:      "common not offered for persons",
			call:      func() ([]byte, error) { return client.GetPersonImage(ctx, 1, ImageCommon) },
			wantField: "type",
		},
		{
			name:      "grid not offered for avatars",
			call:      func() ([]byte, error) { return client.GetUserAvatar(ctx, "sai", ImageGrid) },
			wantField: "type",
		},
		{
			name:      "zero id",
			call:      func() ([]byte, error) { return client.GetSubjectImage(ctx, 0, ImageLarge) },
			wantField: "id",
		},
		{
			name:      "empty username",
			call:      func() ([]byte, error) { return client.GetUserAvatar(ctx, "", ImageLarge) },
			wantField: "username",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.call()
			require.Error(t, err)
			assert.True(t, IsKind(err, KindBuilder))

			var builderErr *BuilderError
			require.True(t, errors.As(err, &builderErr))
			assert.Equal(t, tt.wantField, builderErr.Field)
		})
	}

	assert.Zero(t, calls.Load())
}

func TestGetSubjectsByID(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/v0/subjects/1":
			w.Write([]byte(`{"id":1,"name":"one","type":2}`))
		case "/v0/subjects/2":
			w.Write([]byte(`{"id":2,"name":"two","type":1}`))
		case "/v0/subjects/3":
			w.Write([]byte(`{"id":3,"name":"three","type":4}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"title":"Not Found"}`))
		}
	})

	subjects, err := client.GetSubjectsByID(context.Background(), []uint64{3, 1, 2}, 2)
	require.NoError(t, err)
	require.Len(t, subjects, 3)
	assert.Equal(t, "three", subjects[0].Name)
	assert.Equal(t, "one", subjects[1].Name)
	assert.Equal(t, "two", subjects[2].Name)
	assert.Equal(t, int32(3), calls.Load())

	_, err = client.GetSubjectsByID(context.Background(), []uint64{1, 404}, 0)
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.IsNotFound())

	subjects, err = client.GetSubjectsByID(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Empty(t, subjects)
}
