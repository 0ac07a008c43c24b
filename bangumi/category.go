package bangumi

import (
	"encoding/json"
	"fmt"
)

// SubjectCategory is the category of a subject. Every subject type has its own
// set of category codes and the codes overlap between types (0 is "other" for
// books, games and real; 1 is TV for anime and a Japanese drama for real), so
// a raw code can only be interpreted together with the subject's type. Use
// ParseSubjectCategory or DecodeSubjectCategory with the parent type.
type SubjectCategory interface {
	// SubjectType returns the subject type the category belongs to
	SubjectType() SubjectType
	// Code returns the wire code of the category
	Code() int
	Valid() bool
	String() string
}

// BookCategory is the category of a book subject
type BookCategory int

const (
	BookCategoryOther        BookCategory = 0
	BookCategoryComic        BookCategory = 1001
	BookCategoryNovel        BookCategory = 1002
	BookCategoryIllustration BookCategory = 1003
)

var bookCategoryNames = map[BookCategory]string{
	BookCategoryOther:        "other",
	BookCategoryComic:        "comic",
	BookCategoryNovel:        "novel",
	BookCategoryIllustration: "illustration",
}

func (c BookCategory) SubjectType() SubjectType { return SubjectTypeBook }
func (c BookCategory) Code() int                { return int(c) }

func (c BookCategory) Valid() bool {
	_, ok := bookCategoryNames[c]
	return ok
}

func (c BookCategory) String() string {
	if name, ok := bookCategoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("BookCategory(%d)", int(c))
}

func (c *BookCategory) UnmarshalJSON(data []byte) error {
	v, err := decodeCode(data, BookCategory.Valid)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// AnimeCategory is the category of an anime subject
type AnimeCategory int

const (
	AnimeCategoryTV    AnimeCategory = 1
	AnimeCategoryOVA   AnimeCategory = 2
	AnimeCategoryMovie AnimeCategory = 3
	AnimeCategoryWeb   AnimeCategory = 4
)

var animeCategoryNames = map[AnimeCategory]string{
	AnimeCategoryTV:    "tv",
	AnimeCategoryOVA:   "ova",
	AnimeCategoryMovie: "movie",
	AnimeCategoryWeb:   "web",
}

func (c AnimeCategory) SubjectType() SubjectType { return SubjectTypeAnime }
func (c AnimeCategory) Code() int                { return int(c) }

func (c AnimeCategory) Valid() bool {
	_, ok := animeCategoryNames[c]
	return ok
}

func (c AnimeCategory) String() string {
	if name, ok := animeCategoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("AnimeCategory(%d)", int(c))
}

func (c *AnimeCategory) UnmarshalJSON(data []byte) error {
	v, err := decodeCode(data, AnimeCategory.Valid)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// GameCategory is the category of a game subject
type GameCategory int

const (
	GameCategoryOther    GameCategory = 0
	GameCategoryGames    GameCategory = 4001
	GameCategorySoftware GameCategory = 4002
	GameCategoryDLC      GameCategory = 4003
	GameCategoryTabletop GameCategory = 4005
)

var gameCategoryNames = map[GameCategory]string{
	GameCategoryOther:    "other",
	GameCategoryGames:    "games",
	GameCategorySoftware: "software",
	GameCategoryDLC:      "dlc",
	GameCategoryTabletop: "tabletop",
}

func (c GameCategory) SubjectType() SubjectType { return SubjectTypeGame }
func (c GameCategory) Code() int                { return int(c) }

func (c GameCategory) Valid() bool {
	_, ok := gameCategoryNames[c]
	return ok
}

func (c GameCategory) String() string {
	if name, ok := gameCategoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("GameCategory(%d)", int(c))
}

func (c *GameCategory) UnmarshalJSON(data []byte) error {
	v, err := decodeCode(data, GameCategory.Valid)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// RealCategory is the category of a live action subject
type RealCategory int

const (
	RealCategoryOther RealCategory = 0
	RealCategoryJP    RealCategory = 1
	RealCategoryEN    RealCategory = 2
	RealCategoryCN    RealCategory = 3
	RealCategoryTV    RealCategory = 6001
	RealCategoryMovie RealCategory = 6002
	RealCategoryLive  RealCategory = 6003
	RealCategoryShow  RealCategory = 6004
)

var realCategoryNames = map[RealCategory]string{
	RealCategoryOther: "other",
	RealCategoryJP:    "jp",
	RealCategoryEN:    "en",
	RealCategoryCN:    "cn",
	RealCategoryTV:    "tv",
	RealCategoryMovie: "movie",
	RealCategoryLive:  "live",
	RealCategoryShow:  "show",
}

func (c RealCategory) SubjectType() SubjectType { return SubjectTypeReal }
func (c RealCategory) Code() int                { return int(c) }

func (c RealCategory) Valid() bool {
	_, ok := realCategoryNames[c]
	return ok
}

func (c RealCategory) String() string {
	if name, ok := realCategoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("RealCategory(%d)", int(c))
}

func (c *RealCategory) UnmarshalJSON(data []byte) error {
	v, err := decodeCode(data, RealCategory.Valid)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseSubjectCategory interprets a category code in the context of its
// subject type. Music subjects have no categories.
func ParseSubjectCategory(t SubjectType, code int) (SubjectCategory, error) {
	var cat SubjectCategory
	switch t {
	case SubjectTypeBook:
		cat = BookCategory(code)
	case SubjectTypeAnime:
		cat = AnimeCategory(code)
	case SubjectTypeGame:
		cat = GameCategory(code)
	case SubjectTypeReal:
		cat = RealCategory(code)
	default:
		return nil, fmt.Errorf("subject type %s has no categories", t)
	}

	if !cat.Valid() {
		return nil, fmt.Errorf("unknown %s category code %d", t, code)
	}
	return cat, nil
}

// ParseSubjectCategoryName parses a category name such as "comic" in the
// context of its subject type.
func ParseSubjectCategoryName(t SubjectType, name string) (SubjectCategory, error) {
	var (
		cat SubjectCategory
		err error
	)
	switch t {
	case SubjectTypeBook:
		cat, err = parseName(bookCategoryNames, name, "book category")
	case SubjectTypeAnime:
		cat, err = parseName(animeCategoryNames, name, "anime category")
	case SubjectTypeGame:
		cat, err = parseName(gameCategoryNames, name, "game category")
	case SubjectTypeReal:
		cat, err = parseName(realCategoryNames, name, "real category")
	default:
		return nil, fmt.Errorf("subject type %s has no categories", t)
	}
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// DecodeSubjectCategory decodes a raw JSON category code in the context of
// its subject type.
func DecodeSubjectCategory(t SubjectType, data []byte) (SubjectCategory, error) {
	var code int
	if err := json.Unmarshal(data, &code); err != nil {
		return nil, err
	}
	return ParseSubjectCategory(t, code)
}
