// Package application contains the comment aggregation pipeline: cursor
// codec, suggestion-block parser, normalizer, thread resolver, status
// scorer, filter/sort pipeline, and the aggregation service composing them.
package application

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/ericfisherdev/reviewlens/internal/domain/model"
)

// Cursor is the decoded form of a pagination token. The wire form is an
// opaque base64 string; consumers must never parse it themselves.
type Cursor struct {
	Offset   int
	PageSize int
}

// SourcePagination is the page/per_page pair sent to the GitHub list endpoints.
type SourcePagination struct {
	Page    int
	PerPage int
}

// EncodeCursor serializes an offset and page size into an opaque token.
// The payload deliberately carries no field names.
func EncodeCursor(offset, pageSize int) string {
	payload := fmt.Sprintf("%d:%d", offset, pageSize)
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}

// DecodeCursor parses and validates an opaque pagination token. Any
// syntactic or semantic violation returns model.ErrInvalidCursor; values
// are never silently clamped.
func DecodeCursor(token string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: not base64: %q", model.ErrInvalidCursor, token)
	}

	parts := strings.Split(string(raw), ":")
	if len(parts) != 2 {
		return Cursor{}, fmt.Errorf("%w: malformed payload", model.ErrInvalidCursor)
	}

	offset, err := strconv.Atoi(parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: offset is not a number", model.ErrInvalidCursor)
	}
	pageSize, err := strconv.Atoi(parts[1])
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: page size is not a number", model.ErrInvalidCursor)
	}

	if offset < 0 {
		return Cursor{}, fmt.Errorf("%w: negative offset %d", model.ErrInvalidCursor, offset)
	}
	if pageSize < 1 {
		return Cursor{}, fmt.Errorf("%w: non-positive page size %d", model.ErrInvalidCursor, pageSize)
	}

	return Cursor{Offset: offset, PageSize: pageSize}, nil
}

// PageToSourcePagination translates a decoded cursor into source pagination
// parameters. A nil cursor means the first page at the server default size.
// A cursor's page size may only be reduced by the server default, never
// enlarged, so a client cannot force arbitrarily large fan-out.
func PageToSourcePagination(cursor *Cursor, serverDefaultPageSize int) (SourcePagination, error) {
	if serverDefaultPageSize < 1 {
		return SourcePagination{}, fmt.Errorf("%w: default page size %d must be positive", model.ErrInvalidConfiguration, serverDefaultPageSize)
	}

	if cursor == nil {
		return SourcePagination{Page: 1, PerPage: serverDefaultPageSize}, nil
	}

	perPage := cursor.PageSize
	if perPage > serverDefaultPageSize {
		perPage = serverDefaultPageSize
	}

	return SourcePagination{
		Page:    cursor.Offset/cursor.PageSize + 1,
		PerPage: perPage,
	}, nil
}

// NextCursor derives the follow-up token after serving one page. It returns
// the empty string when no further data exists. The prior offset is zero
// when no prior cursor existed.
func NextCursor(current *Cursor, pageSizeUsed int, hasMore bool) string {
	if !hasMore {
		return ""
	}

	priorOffset := 0
	if current != nil {
		priorOffset = current.Offset
	}

	return EncodeCursor(priorOffset+pageSizeUsed, pageSizeUsed)
}
