package pagination_test

import (
	"testing"
	"time"

	"github.com/bizcoreapp/bizcore_backend/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	createdAt := time.Date(2026, 8, 12, 10, 30, 0, 123456789, time.UTC)
	rowID := "0b8f5c7e-1111-4222-8333-444455556666"

	token := pagination.EncodeToken(createdAt, rowID)
	require.NotEmpty(t, token)

	gotTime, gotID, err := pagination.DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, createdAt.Equal(gotTime))
	assert.Equal(t, rowID, gotID)
}

func TestDecodeTokenInvalid(t *testing.T) {
	_, _, err := pagination.DecodeToken("not-base64!!")
	assert.Error(t, err)

	_, _, err = pagination.DecodeToken("") // empty decodes but fails the split
	assert.Error(t, err)
}
