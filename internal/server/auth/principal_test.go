package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrincipal_DisplayName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&Principal{FirstName: "Ada", LastName: "Lovelace"}).DisplayName())
	assert.Equal(t, "Ada", (&Principal{FirstName: "Ada"}).DisplayName())
	assert.Equal(t, "ada", (&Principal{Username: "ada"}).DisplayName())
}

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, PrincipalFromContext(ctx))

	p := &Principal{UserID: "u1"}
	assert.Same(t, p, PrincipalFromContext(WithPrincipal(ctx, p)))
}
