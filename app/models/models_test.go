package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserDisplayName(t *testing.T) {
	assert.Equal(t, "@alice", User{Username: "alice", FirstName: "Alice"}.DisplayName())
	assert.Equal(t, "Bob Stone", User{FirstName: "Bob", LastName: "Stone"}.DisplayName())
	assert.Equal(t, "Stone", User{LastName: "Stone"}.DisplayName())
	assert.Equal(t, "", User{}.DisplayName())
}
