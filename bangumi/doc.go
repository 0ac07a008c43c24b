// Package bangumi provides a client for the bgm.tv (Bangumi) v0 API.
//
// Bangumi is a catalogue of anime, books, music, games and live action
// productions. This package covers the read side of its REST API: subjects,
// episodes, characters, persons and users.
//
// # Architecture
//
// The package is organized into several components:
//
//   - Client: configuration shared by every call, one method per operation
//   - Builders: request parameter sets for the operations that take several
//     optional parameters (search, subject browse, episode listing)
//   - Types: domain models mirroring the API's JSON schema
//   - Errors: a single *Error type classified by ErrorKind
//
// # Usage
//
//	client, err := bangumi.NewClient(
//		bangumi.WithUserAgent("me/my-app/1.0"),
//		bangumi.WithToken(os.Getenv("BGM_TOKEN")),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	results, err := client.SearchSubjects().
//		Keyword("魔法禁书目录").
//		Sort(bangumi.SortMatch).
//		Limit(10).
//		Filter(bangumi.NewSearchSubjectsFilter().Type(bangumi.SubjectTypeAnime).Build()).
//		Send(ctx)
//
// Builders validate their parameters in Build, before any request is made,
// and can only be used once.
//
// # Polymorphic fields
//
// Infobox values are either a string or a list of {k,v} / {v} items and are
// decoded by JSON shape. Subject categories reuse the same integer codes across
// subject types, so they are never decoded on their own: use
// ParseSubjectCategory or DecodeSubjectCategory with the subject's type.
//
// # Error Handling
//
// Every operation returns *Error. Its Kind tells where the call failed:
//
//	var apiErr *bangumi.APIError
//	if errors.As(err, &apiErr) && apiErr.IsNotFound() {
//		// Handle missing subject
//	}
//	if bangumi.IsKind(err, bangumi.KindBuilder) {
//		// Fix the parameters
//	}
package bangumi
