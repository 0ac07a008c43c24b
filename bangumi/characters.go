package bangumi

import (
	"context"
	"net/http"
)

const (
	opGetCharacter         = "get character"
	opGetCharacterImage    = "get character image"
	opGetCharacterSubjects = "get character subjects"
	opGetCharacterPersons  = "get character persons"
)

// GetCharacter retrieves a character by ID
func (c *Client) GetCharacter(ctx context.Context, id uint64) (*CharacterDetail, error) {
	if id == 0 {
		return nil, missingField(opGetCharacter, "id")
	}
	var out CharacterDetail
	req := &Request{Method: http.MethodGet, Path: idPath("/v0/characters", id)}
	if err := c.doJSON(ctx, opGetCharacter, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCharacterImage downloads the portrait of a character. Characters have no
// "common" size.
func (c *Client) GetCharacterImage(ctx context.Context, id uint64, size ImageType) ([]byte, error) {
	req, err := imageRequest(opGetCharacterImage, idPath("/v0/characters", id, "image"), missingID(id), size, personImageTypes)
	if err != nil {
		return nil, err
	}
	return c.doBytes(ctx, opGetCharacterImage, req)
}

// GetCharacterSubjects retrieves the subjects a character appears in
func (c *Client) GetCharacterSubjects(ctx context.Context, id uint64) ([]RelatedSubject, error) {
	return getList[RelatedSubject](ctx, c, opGetCharacterSubjects, "/v0/characters", id, "subjects")
}

// GetCharacterPersons retrieves the cast who played a character
func (c *Client) GetCharacterPersons(ctx context.Context, id uint64) ([]CharacterPerson, error) {
	return getList[CharacterPerson](ctx, c, opGetCharacterPersons, "/v0/characters", id, "persons")
}
