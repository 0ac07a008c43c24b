package bangumi

import (
	"context"
)

// API defines the interface for bangumi operations
type API interface {
	// SearchSubjects starts a keyword search
	SearchSubjects() *SearchSubjectsBuilder

	// ListSubjects starts a browse by type and category
	ListSubjects() *ListSubjectsBuilder

	GetSubject(ctx context.Context, id uint64) (*Subject, error)
	GetSubjectImage(ctx context.Context, id uint64, size ImageType) ([]byte, error)
	GetSubjectPersons(ctx context.Context, id uint64) ([]RelatedPerson, error)
	GetSubjectCharacters(ctx context.Context, id uint64) ([]RelatedCharacter, error)
	GetSubjectRelations(ctx context.Context, id uint64) ([]SubjectRelation, error)

	// GetSubjectsByID fetches several subjects concurrently
	GetSubjectsByID(ctx context.Context, ids []uint64, limit int) ([]*Subject, error)

	ListEpisodes() *ListEpisodesBuilder
	GetEpisode(ctx context.Context, id uint64) (*Episode, error)

	GetCharacter(ctx context.Context, id uint64) (*CharacterDetail, error)
	GetCharacterImage(ctx context.Context, id uint64, size ImageType) ([]byte, error)
	GetCharacterSubjects(ctx context.Context, id uint64) ([]RelatedSubject, error)
	GetCharacterPersons(ctx context.Context, id uint64) ([]CharacterPerson, error)

	GetPerson(ctx context.Context, id uint64) (*PersonDetail, error)
	GetPersonImage(ctx context.Context, id uint64, size ImageType) ([]byte, error)
	GetPersonSubjects(ctx context.Context, id uint64) ([]RelatedSubject, error)
	GetPersonCharacters(ctx context.Context, id uint64) ([]PersonCharacter, error)

	GetUser(ctx context.Context, username string) (*User, error)
	GetUserAvatar(ctx context.Context, username string, size ImageType) ([]byte, error)

	// GetMe requires an access token
	GetMe(ctx context.Context) (*User, error)
}

var _ API = (*Client)(nil)
