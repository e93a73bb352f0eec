package pixcodec_test

import (
	"errors"
	"testing"

	"github.com/dargueta/pixcodec"
	"github.com/stretchr/testify/assert"
)

func TestCodecErrorWithMessage(t *testing.T) {
	newErr := pixcodec.ErrCorruptContainer.WithMessage("asdfqwerty")
	assert.Equal(
		t, "Corrupt container: asdfqwerty", newErr.Error(), "error message is wrong")
	assert.ErrorIs(t, newErr, pixcodec.ErrCorruptContainer)
	assert.NotErrorIs(t, newErr, pixcodec.ErrDictionaryDesync)
}

func TestCodecErrorWrap(t *testing.T) {
	originalErr := errors.New("original error")
	newErr := pixcodec.ErrSourceNotFound.Wrap(originalErr)
	expectedMessage := "Source not found: original error"

	assert.EqualValues(t, expectedMessage, newErr.Error(), "error message is wrong")
	assert.ErrorIs(t, newErr, originalErr, "original error not set as parent")
	assert.ErrorIs(t, newErr, pixcodec.ErrSourceNotFound, "codec error not set as parent")
}

func TestCodecErrorChainedMessages(t *testing.T) {
	newErr := pixcodec.ErrDictionaryDesync.WithMessage("row 3").WithMessage("code 99")
	assert.Equal(t, "Dictionary out of sync: row 3: code 99", newErr.Error())
	assert.ErrorIs(t, newErr, pixcodec.ErrDictionaryDesync)
}
