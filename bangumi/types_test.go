package bangumi

import (
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectDecode(t *testing.T) {
	data, err := os.ReadFile("testdata/subject_3559.json")
	require.NoError(t, err)

	var subject Subject
	require.NoError(t, json.Unmarshal(data, &subject))

	assert.Equal(t, uint64(3559), subject.ID)
	assert.Equal(t, SubjectTypeBook, subject.Type)
	assert.Equal(t, "とある魔術の禁書目録", subject.Name)
	assert.Equal(t, "魔法禁书目录", subject.NameCN)
	assert.True(t, subject.Series)
	assert.False(t, subject.NSFW)
	require.NotNil(t, subject.Date)
	assert.Equal(t, "2004-04-24", *subject.Date)
	assert.Equal(t, "小说", subject.Platform)
	assert.Equal(t, uint64(24), subject.Volumes)
	require.NotNil(t, subject.TotalEpisodes)
	assert.Equal(t, uint64(0), *subject.TotalEpisodes)
	assert.Nil(t, subject.Image)

	assert.Equal(t, uint64(1824), subject.Rating.Rank)
	assert.Equal(t, 7.6, subject.Rating.Score)
	assert.Equal(t, uint64(366), subject.Rating.Count.Eight)
	assert.Equal(t, uint64(79), subject.Rating.Count.Ten)
	assert.Equal(t, uint64(1109), subject.Collection.Collect)
	assert.Equal(t, uint64(165), subject.Collection.OnHold)

	require.Len(t, subject.Tags, 3)
	assert.Equal(t, SubjectTag{Name: "魔法禁书目录", Count: 296}, subject.Tags[0])

	require.Len(t, subject.Infobox, 11)
	assert.Equal(t, "中文名", subject.Infobox[0].Key)
	single, ok := subject.Infobox[0].Value.Single()
	require.True(t, ok)
	assert.Equal(t, "魔法禁书目录", single)

	aliases, ok := subject.Infobox[1].Value.List()
	require.True(t, ok)
	require.Len(t, aliases, 5)
	assert.Equal(t, V("魔法禁書目錄"), aliases[0])
	assert.Equal(t, V("とあるまじゅつのインデックス"), aliases[4])
}

func TestEntityRequiredFields(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		target    any
		wantType  string
		wantField string
	}{
		{name: "subject without id", data: `{"name":"x","type":2}`, target: &Subject{}, wantType: "Subject", wantField: "id"},
		{name: "episode without name", data: `{"id":8,"type":0}`, target: &Episode{}, wantType: "Episode", wantField: "name"},
		{name: "user without username", data: `{"id":1,"nickname":"Sai"}`, target: &User{}, wantType: "User", wantField: "username"},
		{name: "person without name", data: `{"id":1,"type":1}`, target: &PersonDetail{}, wantType: "PersonDetail", wantField: "name"},
		{name: "subject without type", data: `{"id":1,"name":"x"}`, target: &Subject{}, wantType: "Subject", wantField: "type"},
		{name: "person without type", data: `{"id":1,"name":"x"}`, target: &Person{}, wantType: "Person", wantField: "type"},
		{name: "character without type", data: `{"id":1,"name":"x"}`, target: &CharacterDetail{}, wantType: "CharacterDetail", wantField: "type"},
		{name: "related subject without type", data: `{"id":1,"name":"x","staff":""}`, target: &RelatedSubject{}, wantType: "RelatedSubject", wantField: "type"},
		{name: "subject relation without type", data: `{"id":1,"name":"x","relation":"续集"}`, target: &SubjectRelation{}, wantType: "SubjectRelation", wantField: "type"},
		{name: "page without total", data: `{"data":[],"limit":10,"offset":0}`, target: &PagedEpisode{}, wantType: "Paged", wantField: "total"},
		{name: "page without data", data: `{"total":0,"limit":10,"offset":0}`, target: &PagedSubject{}, wantType: "Paged", wantField: "data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := json.Unmarshal([]byte(tt.data), tt.target)
			require.Error(t, err)

			var fieldErr *FieldError
			require.True(t, errors.As(err, &fieldErr), "got %v", err)
			assert.Equal(t, tt.wantType, fieldErr.Type)
			assert.Equal(t, tt.wantField, fieldErr.Field)
		})
	}
}

func TestEpisodeDecode(t *testing.T) {
	data := `{
		"airdate": "2008-10-04",
		"name": "学園都市",
		"name_cn": "学园都市",
		"duration": "00:24:00",
		"desc": "",
		"ep": 1,
		"sort": 1,
		"id": 8,
		"subject_id": 1014,
		"comment": 40,
		"type": 0,
		"disc": 0,
		"duration_seconds": 1440
	}`

	var episode Episode
	require.NoError(t, json.Unmarshal([]byte(data), &episode))
	assert.Equal(t, EpisodeTypeMain, episode.Type)
	require.NotNil(t, episode.Ep)
	assert.Equal(t, 1.0, *episode.Ep)
	require.NotNil(t, episode.DurationSeconds)
	assert.Equal(t, uint64(1440), *episode.DurationSeconds)
}

func TestPersonDetailNullableFields(t *testing.T) {
	data := `{
		"id": 6016,
		"name": "鎌池和馬",
		"type": 1,
		"career": ["writer"],
		"images": null,
		"summary": "",
		"locked": false,
		"last_modified": "2024-01-01T00:00:00Z",
		"infobox": [{"key": "简体中文名", "value": "镰池和马"}],
		"gender": "male",
		"blood_type": null,
		"birth_year": null,
		"birth_mon": 12,
		"birth_day": null,
		"stat": {"comments": 100, "collects": 2000}
	}`

	var person PersonDetail
	require.NoError(t, json.Unmarshal([]byte(data), &person))
	assert.Nil(t, person.Images)
	assert.Nil(t, person.BloodType)
	assert.Nil(t, person.BirthYear)
	require.NotNil(t, person.BirthMonth)
	assert.Equal(t, uint8(12), *person.BirthMonth)
	require.NotNil(t, person.Gender)
	assert.Equal(t, "male", *person.Gender)
	assert.Equal(t, uint64(2000), person.Stat.Collects)
}

func TestUnknownEnumCodes(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		target any
	}{
		{name: "subject type", data: `5`, target: new(SubjectType)},
		{name: "character type", data: `0`, target: new(CharacterType)},
		{name: "person type", data: `4`, target: new(PersonType)},
		{name: "episode type", data: `7`, target: new(EpisodeType)},
		{name: "blood type", data: `5`, target: new(BloodType)},
		{name: "book category", data: `1004`, target: new(BookCategory)},
		{name: "anime category", data: `0`, target: new(AnimeCategory)},
		{name: "game category", data: `4004`, target: new(GameCategory)},
		{name: "real category", data: `6005`, target: new(RealCategory)},
		{name: "sort type", data: `"newest"`, target: new(SortType)},
		{name: "career", data: `"dancer"`, target: new(PersonCareer)},
		{name: "image type", data: `"huge"`, target: new(ImageType)},
		{name: "wrong json kind", data: `"2"`, target: new(SubjectType)},
		{name: "null code", data: `null`, target: new(EpisodeType)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := json.Unmarshal([]byte(tt.data), tt.target)
			require.Error(t, err)

			var typeErr *json.UnmarshalTypeError
			assert.True(t, errors.As(err, &typeErr), "got %T: %v", err, err)
		})
	}
}

func TestUnknownEnumNamesField(t *testing.T) {
	var subject struct {
		Type SubjectType `json:"type"`
	}
	err := json.Unmarshal([]byte(`{"type":5}`), &subject)
	require.Error(t, err)

	var typeErr *json.UnmarshalTypeError
	require.True(t, errors.As(err, &typeErr))
	assert.Equal(t, "type", typeErr.Field)
}

func TestKnownEnumCodes(t *testing.T) {
	var episode EpisodeType
	require.NoError(t, json.Unmarshal([]byte(`6`), &episode))
	assert.Equal(t, EpisodeTypeOther, episode)
	assert.Equal(t, "other", episode.String())

	var career PersonCareer
	require.NoError(t, json.Unmarshal([]byte(`"seiyu"`), &career))
	assert.Equal(t, CareerSeiyu, career)

	encoded, err := json.Marshal(SubjectTypeReal)
	require.NoError(t, err)
	assert.Equal(t, "6", string(encoded))

	encoded, err = json.Marshal(SortHeat)
	require.NoError(t, err)
	assert.Equal(t, `"heat"`, string(encoded))

	assert.Equal(t, "SubjectType(5)", SubjectType(5).String())
}

func TestParseNames(t *testing.T) {
	subjectType, err := ParseSubjectType("Anime")
	require.NoError(t, err)
	assert.Equal(t, SubjectTypeAnime, subjectType)

	_, err = ParseSubjectType("podcast")
	assert.Error(t, err)

	episodeType, err := ParseEpisodeType("sp")
	require.NoError(t, err)
	assert.Equal(t, EpisodeTypeSpecial, episodeType)

	sort, err := ParseSortType("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSortType, sort)
	assert.Equal(t, SortMatch, DefaultSortType)

	_, err = ParseSortType("newest")
	assert.Error(t, err)

	size, err := ParseImageType("LARGE")
	require.NoError(t, err)
	assert.Equal(t, ImageLarge, size)
}

func TestSubjectCategory(t *testing.T) {
	encoded, err := json.Marshal(BookCategoryComic)
	require.NoError(t, err)
	assert.Equal(t, "1001", string(encoded))

	var cat SubjectCategory = BookCategoryComic
	encoded, err = json.Marshal(cat)
	require.NoError(t, err)
	assert.Equal(t, "1001", string(encoded))

	tests := []struct {
		name    string
		typ     SubjectType
		code    int
		want    SubjectCategory
		wantErr bool
	}{
		{name: "book comic", typ: SubjectTypeBook, code: 1001, want: BookCategoryComic},
		{name: "anime tv", typ: SubjectTypeAnime, code: 1, want: AnimeCategoryTV},
		{name: "real japanese drama shares code 1", typ: SubjectTypeReal, code: 1, want: RealCategoryJP},
		{name: "game other", typ: SubjectTypeGame, code: 0, want: GameCategoryOther},
		{name: "real show", typ: SubjectTypeReal, code: 6004, want: RealCategoryShow},
		{name: "book code under anime", typ: SubjectTypeAnime, code: 1001, wantErr: true},
		{name: "music has no categories", typ: SubjectTypeMusic, code: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSubjectCategory(tt.typ, tt.code)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.typ, got.SubjectType())
			assert.Equal(t, tt.code, got.Code())
		})
	}

	decoded, err := DecodeSubjectCategory(SubjectTypeGame, []byte(`4005`))
	require.NoError(t, err)
	assert.Equal(t, GameCategoryTabletop, decoded)

	byName, err := ParseSubjectCategoryName(SubjectTypeBook, "novel")
	require.NoError(t, err)
	assert.Equal(t, BookCategoryNovel, byName)
}

func TestInfoboxValue(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    InfoboxValue
		wantErr bool
	}{
		{
			name: "single string",
			data: `"24"`,
			want: SingleValue("24"),
		},
		{
			name: "escaped string",
			data: `"a\"bé"`,
			want: SingleValue(`a"bé`),
		},
		{
			name: "value only items",
			data: `[{"v":"A"},{"v":"B"}]`,
			want: ListValue(V("A"), V("B")),
		},
		{
			name: "keyed and value only items",
			data: `[{"k":"日文","v":"とある"},{"v":"Index"}]`,
			want: ListValue(KV("日文", "とある"), V("Index")),
		},
		{
			name: "empty list",
			data: `[]`,
			want: ListValue(),
		},
		{
			name: "null key falls back to value only",
			data: `[{"k":null,"v":"A"},{"k":3,"v":"B"}]`,
			want: ListValue(V("A"), V("B")),
		},
		{name: "number", data: `12`, wantErr: true},
		{name: "object", data: `{"v":"A"}`, wantErr: true},
		{name: "null", data: `null`, wantErr: true},
		{name: "item without v", data: `[{"k":"A"}]`, wantErr: true},
		{name: "item with numeric v", data: `[{"v":1}]`, wantErr: true},
		{name: "item that is a string", data: `["A"]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got InfoboxValue
			err := json.Unmarshal([]byte(tt.data), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInfoboxValueEncode(t *testing.T) {
	encoded, err := json.Marshal(SingleValue("24"))
	require.NoError(t, err)
	assert.Equal(t, `"24"`, string(encoded))

	encoded, err = json.Marshal(ListValue(KV("日文", "とある"), V("Index")))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"k":"日文","v":"とある"},{"v":"Index"}]`, string(encoded))

	encoded, err = json.Marshal(ListValue())
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(encoded))

	assert.Equal(t, "日文: とある, Index", ListValue(KV("日文", "とある"), V("Index")).String())
	assert.True(t, ListValue().IsList())
	assert.False(t, SingleValue("x").IsList())
}

func TestSearchSubjectsFilterEncode(t *testing.T) {
	tests := []struct {
		name   string
		filter SearchSubjectsFilter
		want   string
	}{
		{
			name:   "empty",
			filter: SearchSubjectsFilter{},
			want:   `{}`,
		},
		{
			name:   "type only",
			filter: SearchSubjectsFilter{Type: []SubjectType{SubjectTypeAnime}},
			want:   `{"type":[2]}`,
		},
		{
			name: "from builder",
			filter: NewSearchSubjectsFilter().
				Types(SubjectTypeBook, SubjectTypeAnime).
				Tag("童年").
				Tag("原创").
				AirDate(">=2020-07-01").
				Rating(">=6").
				Rank("<=100").
				NSFW(true).
				Build(),
			want: `{"type":[1,2],"tag":["童年","原创"],"air_date":[">=2020-07-01"],"rating":[">=6"],"rank":["<=100"],"nsfw":true}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := json.Marshal(tt.filter)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(encoded))
		})
	}

	assert.True(t, NewSearchSubjectsFilter().Build().IsEmpty())
	assert.True(t, SearchSubjectsFilter{}.IsEmpty())
	assert.False(t, NewSearchSubjectsFilter().NSFW(false).Build().IsEmpty())
}
