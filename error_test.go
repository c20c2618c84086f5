package bookshelf_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/blaize/bookshelf"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := bookshelf.Errorf(bookshelf.ENOTFOUND, "book %q not found", "ostep")

	assert.Equal(t, bookshelf.ENOTFOUND, bookshelf.ErrorCode(err))
	assert.Equal(t, "book \"ostep\" not found", bookshelf.ErrorMessage(err))
}

func TestErrorf_WrapsCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := bookshelf.Errorf(bookshelf.EUNAVAILABLE, "list %s: %w", "Notes", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "list Notes: connection reset", bookshelf.ErrorMessage(err))
}

func TestErrorCode_OutermostWins(t *testing.T) {
	t.Parallel()

	inner := bookshelf.Errorf(bookshelf.EINVALIDPATH, "bad path")
	outer := bookshelf.Errorf(bookshelf.EUNAVAILABLE, "fetch: %w", inner)

	assert.Equal(t, bookshelf.EUNAVAILABLE, bookshelf.ErrorCode(outer))
}

func TestErrorCode_WrappedByFmt(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("crawl: %w", bookshelf.Errorf(bookshelf.EUNAUTHORIZED, "bad token"))

	assert.Equal(t, bookshelf.EUNAUTHORIZED, bookshelf.ErrorCode(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, bookshelf.EINTERNAL, bookshelf.ErrorCode(errors.New("boom")))
	assert.Equal(t, "Internal error", bookshelf.ErrorMessage(errors.New("boom")))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, bookshelf.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, bookshelf.ErrorMessage(nil))
}
