package bangumi

import "encoding/json"

// Images holds the links of a subject cover in every size
type Images struct {
	Large  string `json:"large"`
	Common string `json:"common"`
	Medium string `json:"medium"`
	Small  string `json:"small"`
	Grid   string `json:"grid"`
}

// PersonImages holds the links of a character or person portrait
type PersonImages struct {
	Large  string `json:"large"`
	Medium string `json:"medium"`
	Small  string `json:"small"`
	Grid   string `json:"grid"`
}

// Stat holds comment and collection counters
type Stat struct {
	Comments uint64 `json:"comments"`
	Collects uint64 `json:"collects"`
}

// Subject represents a bangumi subject (anime, book, game, music or real)
type Subject struct {
	ID      uint64      `json:"id"`
	Type    SubjectType `json:"type"`
	Name    string      `json:"name"`
	NameCN  string      `json:"name_cn"`
	Summary string      `json:"summary"`
	// Series is set on the main entry of a book series
	Series   bool    `json:"series"`
	NSFW     bool    `json:"nsfw"`
	Locked   bool    `json:"locked"`
	Date     *string `json:"date"`
	Platform string  `json:"platform"`
	Images   Images  `json:"images"`
	// Image is only returned by subject search
	Image         *string           `json:"image,omitempty"`
	Infobox       []Infobox         `json:"infobox"`
	Volumes       uint64            `json:"volumes"`
	Eps           uint64            `json:"eps"`
	TotalEpisodes *uint64           `json:"total_episodes"`
	Rating        SubjectRating     `json:"rating"`
	Collection    SubjectCollection `json:"collection"`
	Tags          []SubjectTag      `json:"tags"`
}

type rawSubject Subject

// UnmarshalJSON requires id, name and type
func (s *Subject) UnmarshalJSON(data []byte) error {
	if err := requireFields("Subject", data, "id", "name", "type"); err != nil {
		return err
	}
	return json.Unmarshal(data, (*rawSubject)(s))
}

// DisplayName returns the Chinese name when set, the original name otherwise
func (s *Subject) DisplayName() string {
	if s.NameCN != "" {
		return s.NameCN
	}
	return s.Name
}

// SubjectRating holds the rating summary of a subject
type SubjectRating struct {
	Rank  uint64             `json:"rank"`
	Total uint64             `json:"total"`
	Count SubjectRatingCount `json:"count"`
	Score float64            `json:"score"`
}

// SubjectRatingCount holds the number of votes per score
type SubjectRatingCount struct {
	One   uint64 `json:"1"`
	Two   uint64 `json:"2"`
	Three uint64 `json:"3"`
	Four  uint64 `json:"4"`
	Five  uint64 `json:"5"`
	Six   uint64 `json:"6"`
	Seven uint64 `json:"7"`
	Eight uint64 `json:"8"`
	Nine  uint64 `json:"9"`
	Ten   uint64 `json:"10"`
}

// SubjectCollection holds collection counters per status
type SubjectCollection struct {
	Wish    uint64 `json:"wish"`
	Collect uint64 `json:"collect"`
	Doing   uint64 `json:"doing"`
	OnHold  uint64 `json:"on_hold"`
	Dropped uint64 `json:"dropped"`
}

// SubjectTag is a user tag with its count
type SubjectTag struct {
	Name  string `json:"name"`
	Count uint64 `json:"count"`
}

// SubjectRelation is a subject related to another subject
type SubjectRelation struct {
	ID       uint64      `json:"id"`
	Type     SubjectType `json:"type"`
	Name     string      `json:"name"`
	NameCN   string      `json:"name_cn"`
	Images   *Images     `json:"images,omitempty"`
	Relation string      `json:"relation"`
}

type rawSubjectRelation SubjectRelation

func (r *SubjectRelation) UnmarshalJSON(data []byte) error {
	if err := requireFields("SubjectRelation", data, "id", "name", "type"); err != nil {
		return err
	}
	return json.Unmarshal(data, (*rawSubjectRelation)(r))
}

// RelatedSubject is a subject a character or person appears in
type RelatedSubject struct {
	ID     uint64      `json:"id"`
	Type   SubjectType `json:"type"`
	Staff  string      `json:"staff"`
	Name   string      `json:"name"`
	NameCN string      `json:"name_cn"`
	Image  *string     `json:"image"`
}

type rawRelatedSubject RelatedSubject

func (r *RelatedSubject) UnmarshalJSON(data []byte) error {
	if err := requireFields("RelatedSubject", data, "id", "name", "type"); err != nil {
		return err
	}
	return json.Unmarshal(data, (*rawRelatedSubject)(r))
}

// Episode represents an episode of a subject
type Episode struct {
	ID     uint64      `json:"id"`
	Type   EpisodeType `json:"type"`
	Name   string      `json:"name"`
	NameCN string      `json:"name_cn"`
	// Sort is the position among episodes of the same type
	Sort float64 `json:"sort"`
	// Ep is the episode number within the subject, starting at 1. Only
	// meaningful for main episodes.
	Ep       *float64 `json:"ep"`
	Airdate  string   `json:"airdate"`
	Comment  uint64   `json:"comment"`
	Duration string   `json:"duration"`
	Desc     string   `json:"desc"`
	// Disc is the disc number of a music track
	Disc            uint64  `json:"disc"`
	DurationSeconds *uint64 `json:"duration_seconds"`
}

type rawEpisode Episode

// UnmarshalJSON requires id and name
func (e *Episode) UnmarshalJSON(data []byte) error {
	if err := requireFields("Episode", data, "id", "name"); err != nil {
		return err
	}
	return json.Unmarshal(data, (*rawEpisode)(e))
}

// CharacterDetail is the full record of a character
type CharacterDetail struct {
	ID         uint64        `json:"id"`
	Name       string        `json:"name"`
	Type       CharacterType `json:"type"`
	Images     *PersonImages `json:"images"`
	Summary    string        `json:"summary"`
	Locked     bool          `json:"locked"`
	Infobox    []Infobox     `json:"infobox"`
	Gender     *string       `json:"gender"`
	BloodType  *BloodType    `json:"blood_type"`
	BirthYear  *uint16       `json:"birth_year"`
	BirthMonth *uint8        `json:"birth_mon"`
	BirthDay   *uint8        `json:"birth_day"`
	Stat       Stat          `json:"stat"`
}

type rawCharacterDetail CharacterDetail

func (c *CharacterDetail) UnmarshalJSON(data []byte) error {
	if err := requireFields("CharacterDetail", data, "id", "name", "type"); err != nil {
		return err
	}
	return json.Unmarshal(data, (*rawCharacterDetail)(c))
}

// RelatedCharacter is a character appearing in a subject
type RelatedCharacter struct {
	ID       uint64        `json:"id"`
	Name     string        `json:"name"`
	Type     CharacterType `json:"type"`
	Images   *PersonImages `json:"images"`
	Relation string        `json:"relation"`
	Actors   []Person      `json:"actors"`
}

type rawRelatedCharacter RelatedCharacter

func (c *RelatedCharacter) UnmarshalJSON(data []byte) error {
	if err := requireFields("RelatedCharacter", data, "id", "name", "type"); err != nil {
		return err
	}
	return json.Unmarshal(data, (*rawRelatedCharacter)(c))
}

// CharacterPerson is a person who voiced or played a character in a subject
type CharacterPerson struct {
	ID            uint64        `json:"id"`
	Name          string        `json:"name"`
	Type          CharacterType `json:"type"`
	Images        *PersonImages `json:"images"`
	SubjectID     uint64        `json:"subject_id"`
	SubjectType   SubjectType   `json:"subject_type"`
	SubjectName   string        `json:"subject_name"`
	SubjectNameCN string        `json:"subject_name_cn"`
	Staff         *string       `json:"staff"`
}

type rawCharacterPerson CharacterPerson

func (c *CharacterPerson) UnmarshalJSON(data []byte) error {
	if err := requireFields("CharacterPerson", data, "id", "name", "type"); err != nil {
		return err
	}
	return json.Unmarshal(data, (*rawCharacterPerson)(c))
}

// Person is the short record of a person
type Person struct {
	ID           uint64         `json:"id"`
	Name         string         `json:"name"`
	Type         PersonType     `json:"type"`
	Career       []PersonCareer `json:"career"`
	Images       *PersonImages  `json:"images"`
	ShortSummary string         `json:"short_summary"`
	Locked       bool           `json:"locked"`
}

type rawPerson Person

func (p *Person) UnmarshalJSON(data []byte) error {
	if err := requireFields("Person", data, "id", "name", "type"); err != nil {
		return err
	}
	return json.Unmarshal(data, (*rawPerson)(p))
}

// PersonDetail is the full record of a person
type PersonDetail struct {
	ID           uint64         `json:"id"`
	Name         string         `json:"name"`
	Type         PersonType     `json:"type"`
	Career       []PersonCareer `json:"career"`
	Images       *PersonImages  `json:"images"`
	Summary      string         `json:"summary"`
	Locked       bool           `json:"locked"`
	LastModified string         `json:"last_modified"`
	Infobox      []Infobox      `json:"infobox"`
	Gender       *string        `json:"gender"`
	BloodType    *BloodType     `json:"blood_type"`
	BirthYear    *uint16        `json:"birth_year"`
	BirthMonth   *uint8         `json:"birth_mon"`
	BirthDay     *uint8         `json:"birth_day"`
	Stat         Stat           `json:"stat"`
}

type rawPersonDetail PersonDetail

func (p *PersonDetail) UnmarshalJSON(data []byte) error {
	if err := requireFields("PersonDetail", data, "id", "name", "type"); err != nil {
		return err
	}
	return json.Unmarshal(data, (*rawPersonDetail)(p))
}

// RelatedPerson is a person credited on a subject
type RelatedPerson struct {
	ID       uint64         `json:"id"`
	Name     string         `json:"name"`
	Type     PersonType     `json:"type"`
	Career   []PersonCareer `json:"career"`
	Images   *PersonImages  `json:"images"`
	Relation string         `json:"relation"`
	Eps      string         `json:"eps"`
}

type rawRelatedPerson RelatedPerson

func (p *RelatedPerson) UnmarshalJSON(data []byte) error {
	if err := requireFields("RelatedPerson", data, "id", "name", "type"); err != nil {
		return err
	}
	return json.Unmarshal(data, (*rawRelatedPerson)(p))
}

// PersonCharacter is a character a person is credited for
type PersonCharacter struct {
	ID            uint64        `json:"id"`
	Name          string        `json:"name"`
	Type          CharacterType `json:"type"`
	Images        *PersonImages `json:"images"`
	SubjectID     uint64        `json:"subject_id"`
	SubjectType   SubjectType   `json:"subject_type"`
	SubjectName   string        `json:"subject_name"`
	SubjectNameCN string        `json:"subject_name_cn"`
	Staff         *string       `json:"staff"`
}

type rawPersonCharacter PersonCharacter

func (p *PersonCharacter) UnmarshalJSON(data []byte) error {
	if err := requireFields("PersonCharacter", data, "id", "name", "type"); err != nil {
		return err
	}
	return json.Unmarshal(data, (*rawPersonCharacter)(p))
}

// Avatar holds the links of a user avatar
type Avatar struct {
	Large  string `json:"large"`
	Medium string `json:"medium"`
	Small  string `json:"small"`
}

// User represents a bangumi user
type User struct {
	ID       uint64  `json:"id"`
	Username string  `json:"username"`
	Nickname string  `json:"nickname"`
	Sign     string  `json:"sign"`
	Avatar   *Avatar `json:"avatar,omitempty"`
}

type rawUser User

// UnmarshalJSON requires id and username
func (u *User) UnmarshalJSON(data []byte) error {
	if err := requireFields("User", data, "id", "username"); err != nil {
		return err
	}
	return json.Unmarshal(data, (*rawUser)(u))
}

// GetDisplayName returns the nickname when set, the username otherwise
func (u *User) GetDisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Username
}

// Paged is a page of results
type Paged[T any] struct {
	// Total is the number of results across all pages
	Total  uint64 `json:"total"`
	Limit  uint64 `json:"limit"`
	Offset uint64 `json:"offset"`
	Data   []T    `json:"data"`
}

type rawPaged[T any] Paged[T]

// UnmarshalJSON requires total, limit, offset and data
func (p *Paged[T]) UnmarshalJSON(data []byte) error {
	if err := requireFields("Paged", data, "total", "limit", "offset", "data"); err != nil {
		return err
	}
	return json.Unmarshal(data, (*rawPaged[T])(p))
}

// HasMorePages checks if there are results after this page
func (p *Paged[T]) HasMorePages() bool {
	return p.Offset+uint64(len(p.Data)) < p.Total
}

type (
	// PagedSubject is a page of subjects
	PagedSubject = Paged[Subject]
	// PagedEpisode is a page of episodes
	PagedEpisode = Paged[Episode]
	// SearchSubjects is a page of subject search results
	SearchSubjects = Paged[Subject]
)
