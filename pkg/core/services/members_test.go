package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntc490/mls3/pkg/core/model"
)

func memberFixture() *mockDB {
	return &mockDB{
		members: []model.Member{
			{ID: "m1", FirstName: "John", LastName: "Smith", Gender: model.GenderMale, Active: true},
		},
	}
}

func TestToggleDontAsk_FlipsAndPersists(t *testing.T) {
	database := memberFixture()

	dontAsk, err := ToggleDontAsk(context.Background(), database, testLogger, "m1")
	require.NoError(t, err)
	assert.True(t, dontAsk)
	assert.True(t, database.memberByID("m1").DontAskPrayer)

	dontAsk, err = ToggleDontAsk(context.Background(), database, testLogger, "m1")
	require.NoError(t, err)
	assert.False(t, dontAsk)
	assert.False(t, database.memberByID("m1").DontAskPrayer)
}

func TestToggleDontAsk_UnknownMember(t *testing.T) {
	_, err := ToggleDontAsk(context.Background(), memberFixture(), testLogger, "nope")
	assert.Error(t, err)
}

func TestSetSkipUntil_SetsAndClears(t *testing.T) {
	database := memberFixture()

	member, err := SetSkipUntil(context.Background(), database, testLogger, "m1", "2026-10-04")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-04", member.SkipUntil)
	assert.Equal(t, "2026-10-04", database.memberByID("m1").SkipUntil)

	member, err = SetSkipUntil(context.Background(), database, testLogger, "m1", "")
	require.NoError(t, err)
	assert.Empty(t, member.SkipUntil)
	assert.Empty(t, database.memberByID("m1").SkipUntil)
}

func TestSetSkipUntil_RejectsBadDate(t *testing.T) {
	database := memberFixture()

	_, err := SetSkipUntil(context.Background(), database, testLogger, "m1", "next tuesday")

	assert.Error(t, err)
	assert.Empty(t, database.memberByID("m1").SkipUntil)
}
