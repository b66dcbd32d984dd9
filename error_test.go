package docpack_test

import (
	"testing"

	"github.com/fwojciec/docpack"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := docpack.Errorf(docpack.ENOTFOUND, "page %q not found", "test")

	assert.Equal(t, docpack.ENOTFOUND, docpack.ErrorCode(err))
	assert.Equal(t, "page \"test\" not found", docpack.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, docpack.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, docpack.ErrorMessage(nil))
}
