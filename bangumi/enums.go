package bangumi

import (
	"fmt"
	"strings"
)

// SubjectType represents the kind of a subject
type SubjectType int

const (
	// SubjectTypeBook represents books, comics and novels
	SubjectTypeBook SubjectType = 1
	// SubjectTypeAnime represents animation
	SubjectTypeAnime SubjectType = 2
	// SubjectTypeMusic represents music releases
	SubjectTypeMusic SubjectType = 3
	// SubjectTypeGame represents games
	SubjectTypeGame SubjectType = 4
	// SubjectTypeReal represents live action productions
	SubjectTypeReal SubjectType = 6
)

var subjectTypeNames = map[SubjectType]string{
	SubjectTypeBook:  "book",
	SubjectTypeAnime: "anime",
	SubjectTypeMusic: "music",
	SubjectTypeGame:  "game",
	SubjectTypeReal:  "real",
}

// Valid reports whether t is a known subject type code
func (t SubjectType) Valid() bool {
	_, ok := subjectTypeNames[t]
	return ok
}

// String returns the string representation of a SubjectType
func (t SubjectType) String() string {
	if name, ok := subjectTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("SubjectType(%d)", int(t))
}

// UnmarshalJSON rejects unknown subject type codes
func (t *SubjectType) UnmarshalJSON(data []byte) error {
	v, err := decodeCode(data, SubjectType.Valid)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseSubjectType parses a subject type name such as "anime"
func ParseSubjectType(s string) (SubjectType, error) {
	return parseName(subjectTypeNames, s, "subject type")
}

// CharacterType represents the kind of a character
type CharacterType int

const (
	CharacterTypeCharacter    CharacterType = 1
	CharacterTypeMechanic     CharacterType = 2
	CharacterTypeShip         CharacterType = 3
	CharacterTypeOrganization CharacterType = 4
)

var characterTypeNames = map[CharacterType]string{
	CharacterTypeCharacter:    "character",
	CharacterTypeMechanic:     "mechanic",
	CharacterTypeShip:         "ship",
	CharacterTypeOrganization: "organization",
}

// Valid reports whether t is a known character type code
func (t CharacterType) Valid() bool {
	_, ok := characterTypeNames[t]
	return ok
}

func (t CharacterType) String() string {
	if name, ok := characterTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("CharacterType(%d)", int(t))
}

// UnmarshalJSON rejects unknown character type codes
func (t *CharacterType) UnmarshalJSON(data []byte) error {
	v, err := decodeCode(data, CharacterType.Valid)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// PersonType represents the kind of a person entry
type PersonType int

const (
	PersonTypeIndividual  PersonType = 1
	PersonTypeCorporation PersonType = 2
	PersonTypeAssociation PersonType = 3
)

var personTypeNames = map[PersonType]string{
	PersonTypeIndividual:  "individual",
	PersonTypeCorporation: "corporation",
	PersonTypeAssociation: "association",
}

// Valid reports whether t is a known person type code
func (t PersonType) Valid() bool {
	_, ok := personTypeNames[t]
	return ok
}

func (t PersonType) String() string {
	if name, ok := personTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("PersonType(%d)", int(t))
}

// UnmarshalJSON rejects unknown person type codes
func (t *PersonType) UnmarshalJSON(data []byte) error {
	v, err := decodeCode(data, PersonType.Valid)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// EpisodeType represents the kind of an episode
type EpisodeType int

const (
	// EpisodeTypeMain is a regular episode
	EpisodeTypeMain EpisodeType = 0
	// EpisodeTypeSpecial is a special
	EpisodeTypeSpecial EpisodeType = 1
	EpisodeTypeOP      EpisodeType = 2
	EpisodeTypeED      EpisodeType = 3
	// EpisodeTypePV covers trailers, promotions and commercials
	EpisodeTypePV    EpisodeType = 4
	EpisodeTypeMAD   EpisodeType = 5
	EpisodeTypeOther EpisodeType = 6
)

var episodeTypeNames = map[EpisodeType]string{
	EpisodeTypeMain:    "main",
	EpisodeTypeSpecial: "sp",
	EpisodeTypeOP:      "op",
	EpisodeTypeED:      "ed",
	EpisodeTypePV:      "pv",
	EpisodeTypeMAD:     "mad",
	EpisodeTypeOther:   "other",
}

// Valid reports whether t is a known episode type code
func (t EpisodeType) Valid() bool {
	_, ok := episodeTypeNames[t]
	return ok
}

func (t EpisodeType) String() string {
	if name, ok := episodeTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("EpisodeType(%d)", int(t))
}

// UnmarshalJSON rejects unknown episode type codes
func (t *EpisodeType) UnmarshalJSON(data []byte) error {
	v, err := decodeCode(data, EpisodeType.Valid)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseEpisodeType parses an episode type name such as "sp"
func ParseEpisodeType(s string) (EpisodeType, error) {
	return parseName(episodeTypeNames, s, "episode type")
}

// BloodType represents a character or person blood type
type BloodType int

const (
	BloodTypeA  BloodType = 1
	BloodTypeB  BloodType = 2
	BloodTypeAB BloodType = 3
	BloodTypeO  BloodType = 4
)

var bloodTypeNames = map[BloodType]string{
	BloodTypeA:  "A",
	BloodTypeB:  "B",
	BloodTypeAB: "AB",
	BloodTypeO:  "O",
}

// Valid reports whether t is a known blood type code
func (t BloodType) Valid() bool {
	_, ok := bloodTypeNames[t]
	return ok
}

func (t BloodType) String() string {
	if name, ok := bloodTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("BloodType(%d)", int(t))
}

// UnmarshalJSON rejects unknown blood type codes
func (t *BloodType) UnmarshalJSON(data []byte) error {
	v, err := decodeCode(data, BloodType.Valid)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// SortType is the ordering of subject search results
type SortType string

const (
	// SortMatch orders by relevance
	SortMatch SortType = "match"
	// SortHeat orders by number of collections
	SortHeat SortType = "heat"
	// SortRank orders by rank, best first
	SortRank SortType = "rank"
	// SortScore orders by score, highest first
	SortScore SortType = "score"
)

// DefaultSortType is the ordering the search endpoint uses when none is chosen
const DefaultSortType = SortMatch

// Valid reports whether s is a known sort type
func (s SortType) Valid() bool {
	switch s {
	case SortMatch, SortHeat, SortRank, SortScore:
		return true
	}
	return false
}

// UnmarshalJSON rejects unknown sort types
func (s *SortType) UnmarshalJSON(data []byte) error {
	v, err := decodeName(data, SortType.Valid)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSortType parses a sort type name, returning DefaultSortType for ""
func ParseSortType(s string) (SortType, error) {
	if s == "" {
		return DefaultSortType, nil
	}
	st := SortType(strings.ToLower(s))
	if !st.Valid() {
		return "", fmt.Errorf("unknown sort type: %s", s)
	}
	return st, nil
}

// PersonCareer is a profession attached to a person
type PersonCareer string

const (
	CareerProducer    PersonCareer = "producer"
	CareerMangaka     PersonCareer = "mangaka"
	CareerArtist      PersonCareer = "artist"
	CareerSeiyu       PersonCareer = "seiyu"
	CareerWriter      PersonCareer = "writer"
	CareerIllustrator PersonCareer = "illustrator"
	CareerActor       PersonCareer = "actor"
)

// Valid reports whether c is a known career
func (c PersonCareer) Valid() bool {
	switch c {
	case CareerProducer, CareerMangaka, CareerArtist, CareerSeiyu,
		CareerWriter, CareerIllustrator, CareerActor:
		return true
	}
	return false
}

// UnmarshalJSON rejects unknown careers
func (c *PersonCareer) UnmarshalJSON(data []byte) error {
	v, err := decodeName(data, PersonCareer.Valid)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ImageType is the size of an image or avatar to fetch
type ImageType string

const (
	ImageSmall  ImageType = "small"
	ImageCommon ImageType = "common"
	ImageMedium ImageType = "medium"
	ImageLarge  ImageType = "large"
	ImageGrid   ImageType = "grid"
)

// Sizes each image endpoint accepts.
var (
	subjectImageTypes = []ImageType{ImageSmall, ImageGrid, ImageLarge, ImageMedium, ImageCommon}
	personImageTypes  = []ImageType{ImageSmall, ImageGrid, ImageLarge, ImageMedium}
	avatarImageTypes  = []ImageType{ImageSmall, ImageLarge, ImageMedium}
)

// Valid reports whether t is a known image type
func (t ImageType) Valid() bool {
	switch t {
	case ImageSmall, ImageCommon, ImageMedium, ImageLarge, ImageGrid:
		return true
	}
	return false
}

// UnmarshalJSON rejects unknown image types
func (t *ImageType) UnmarshalJSON(data []byte) error {
	v, err := decodeName(data, ImageType.Valid)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseImageType parses an image size name such as "large"
func ParseImageType(s string) (ImageType, error) {
	t := ImageType(strings.ToLower(s))
	if !t.Valid() {
		return "", fmt.Errorf("unknown image type: %s", s)
	}
	return t, nil
}

func parseName[T comparable](names map[T]string, s, what string) (T, error) {
	for v, name := range names {
		if strings.EqualFold(name, s) {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("unknown %s: %s", what, s)
}
