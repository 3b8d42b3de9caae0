package usecase

import (
	"context"
	"errors"
	"testing"

	"recipe-share/services/notification/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAudience_GlobalExcludesSender(t *testing.T) {
	dir := newFakeDirectory(fiveUsers()...)

	ids, err := ResolveAudience(context.Background(), dir, entity.TypeGlobal, senderID, "")

	require.NoError(t, err)
	assert.Equal(t, []string{userAID, userBID, userCID, userDID}, ids)
}

func TestResolveAudience_GlobalOnlySender(t *testing.T) {
	dir := newFakeDirectory(entity.UserSummary{ID: senderID, Username: "chef"})

	ids, err := ResolveAudience(context.Background(), dir, entity.TypeGlobal, senderID, "")

	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestResolveAudience_FollowersOnly(t *testing.T) {
	dir := newFakeDirectory(fiveUsers()...)
	dir.follow(userAID, senderID)
	dir.follow(userCID, senderID)
	dir.follow(userBID, userDID)

	ids, err := ResolveAudience(context.Background(), dir, entity.TypeFollowers, senderID, "")

	require.NoError(t, err)
	assert.Equal(t, []string{userAID, userCID}, ids)
}

func TestResolveAudience_FollowersDeduplicatedAndSenderExcluded(t *testing.T) {
	dir := newFakeDirectory(fiveUsers()...)
	dir.follow(userAID, senderID)
	dir.follow(senderID, senderID)
	dir.follow(userAID, senderID)

	ids, err := ResolveAudience(context.Background(), dir, entity.TypeFollowers, senderID, "")

	require.NoError(t, err)
	assert.Equal(t, []string{userAID}, ids)
}

func TestResolveAudience_FollowersNone(t *testing.T) {
	dir := newFakeDirectory(fiveUsers()...)

	ids, err := ResolveAudience(context.Background(), dir, entity.TypeFollowers, senderID, "")

	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestResolveAudience_Personal(t *testing.T) {
	dir := newFakeDirectory(fiveUsers()...)

	ids, err := ResolveAudience(context.Background(), dir, entity.TypePersonal, senderID, " "+userBID+" ")

	require.NoError(t, err)
	assert.Equal(t, []string{userBID}, ids)
}

func TestResolveAudience_PersonalErrors(t *testing.T) {
	dir := newFakeDirectory(fiveUsers()...)

	tests := []struct {
		name    string
		hint    string
		wantErr error
	}{
		{name: "missing hint", hint: "", wantErr: entity.ErrInvalidRequest},
		{name: "blank hint", hint: "   ", wantErr: entity.ErrInvalidRequest},
		{name: "malformed hint", hint: "not-a-uuid", wantErr: entity.ErrInvalidRequest},
		{name: "unknown user", hint: ghostID, wantErr: entity.ErrRecipientNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := ResolveAudience(context.Background(), dir, entity.TypePersonal, senderID, tt.hint)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, ids)
		})
	}
}

func TestResolveAudience_UnknownType(t *testing.T) {
	dir := newFakeDirectory(fiveUsers()...)

	_, err := ResolveAudience(context.Background(), dir, entity.NotificationType("broadcast"), senderID, "")

	assert.ErrorIs(t, err, entity.ErrInvalidRequest)
}

func TestResolveAudience_DirectoryFailure(t *testing.T) {
	dir := newFakeDirectory(fiveUsers()...)
	dir.err = errors.New("connection refused")

	_, err := ResolveAudience(context.Background(), dir, entity.TypeGlobal, senderID, "")

	require.Error(t, err)
	assert.NotErrorIs(t, err, entity.ErrInvalidRequest)
	assert.Contains(t, err.Error(), "connection refused")
}
