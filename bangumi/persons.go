package bangumi

import (
	"context"
	"net/http"
)

const (
	opGetPerson           = "get person"
	opGetPersonImage      = "get person image"
	opGetPersonSubjects   = "get person subjects"
	opGetPersonCharacters = "get person characters"
)

// GetPerson retrieves a person by ID
func (c *Client) GetPerson(ctx context.Context, id uint64) (*PersonDetail, error) {
	if id == 0 {
		return nil, missingField(opGetPerson, "id")
	}
	var out PersonDetail
	req := &Request{Method: http.MethodGet, Path: idPath("/v0/persons", id)}
	if err := c.doJSON(ctx, opGetPerson, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetPersonImage(ctx context.Context, id uint64, size ImageType) ([]byte, error) {
	req, err := imageRequest(opGetPersonImage, idPath("/v0/persons", id, "image"), missingID(id), size, personImageTypes)
	if err != nil {
		return nil, err
	}
	return c.doBytes(ctx, opGetPersonImage, req)
}

// GetPersonSubjects retrieves the subjects a person is credited on
func (c *Client) GetPersonSubjects(ctx context.Context, id uint64) ([]RelatedSubject, error) {
	return getList[RelatedSubject](ctx, c, opGetPersonSubjects, "/v0/persons", id, "subjects")
}

func (c *Client) GetPersonCharacters(ctx context.Context, id uint64) ([]PersonCharacter, error) {
	return getList[PersonCharacter](ctx, c, opGetPersonCharacters, "/v0/persons", id, "characters")
}
