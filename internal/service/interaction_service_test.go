package service

import (
	"Rex/internal/model"
	"Rex/internal/pkg/consts"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidateRating(t *testing.T) {
	assert.NoError(t, validateRating(consts.StateBucketList, 0))
	assert.NoError(t, validateRating(consts.StateCompleted, 0))
	assert.NoError(t, validateRating(consts.StateCompleted, 1))
	assert.NoError(t, validateRating(consts.StateCompleted, 5))

	assert.ErrorIs(t, validateRating(consts.StateCompleted, 6), ErrRatingOutOfRange)
	assert.ErrorIs(t, validateRating(consts.StateCompleted, -1), ErrRatingOutOfRange)

	assert.ErrorIs(t, validateRating(consts.StateBucketList, 3), ErrRatingWithoutCompletion)
	assert.ErrorIs(t, validateRating(consts.StateInProgress, 5), ErrRatingWithoutCompletion)
}

func TestToInteractionDTONotes(t *testing.T) {
	row := &model.UserThingInteraction{
		ID:         1,
		UserID:     2,
		UserName:   "ada",
		ThingID:    3,
		State:      consts.StateCompleted,
		Visibility: consts.VisibilityFriends,
		Rating:     4,
		Content:    "loved it",
		Notes:      "only for me",
		Date:       time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
	}

	owner := toInteractionDTO(row, true, "http://cdn/avatar.jpg")
	assert.Equal(t, "only for me", owner.Notes)
	assert.Equal(t, "2026-03-01 12:30:00", owner.Date)
	assert.Equal(t, "http://cdn/avatar.jpg", owner.AvatarURL)
	assert.NotNil(t, owner.Photos)

	viewer := toInteractionDTO(row, false, "")
	assert.Empty(t, viewer.Notes)
	assert.Equal(t, 4, viewer.Rating)
}

func TestIsDuplicateError(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	assert.True(t, isDuplicateError(dup))
	assert.True(t, isDuplicateError(errors.Wrap(dup, "create like error")))

	other := &mysql.MySQLError{Number: 1213}
	assert.False(t, isDuplicateError(other))
	assert.False(t, isDuplicateError(errors.New("boom")))
	assert.False(t, isDuplicateError(nil))
}

func TestTagNames(t *testing.T) {
	assert.Empty(t, tagNames(nil))
	names := tagNames([]*model.Tag{{Name: "scifi"}, {Name: "cozy"}})
	assert.Equal(t, []string{"scifi", "cozy"}, names)
}
