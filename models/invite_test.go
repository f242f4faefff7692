package models

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestCreateInvite(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectExec(`INSERT INTO invites`).
		WithArgs(sqlmock.AnyArg(), RoleEditor, "alice", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	invite, err := CreateInvite(RoleEditor, "alice")
	assert.NoError(t, err)
	assert.Len(t, invite.Token, 36)
	assert.Equal(t, RoleEditor, invite.Role)

	_, err = CreateInvite("owner", "alice")
	assert.EqualError(t, err, "invalid role")
}

func inviteRow(token, role, usedBy string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"token", "role", "created_by", "used_by", "created_at"}).
		AddRow(token, role, "alice", usedBy, 100)
}

func TestRedeemInvite(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT (.+) FROM invites WHERE token = \?`).
		WithArgs("tok-1").
		WillReturnRows(inviteRow("tok-1", RoleViewer, ""))
	mock.ExpectExec(`UPDATE invites SET used_by = \? WHERE token = \?`).
		WithArgs("bob", "tok-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	role, err := RedeemInvite("tok-1", "bob")
	assert.NoError(t, err)
	assert.Equal(t, RoleViewer, role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedeemInviteAlreadyUsed(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT (.+) FROM invites WHERE token = \?`).
		WithArgs("tok-1").
		WillReturnRows(inviteRow("tok-1", RoleViewer, "carol"))

	_, err := RedeemInvite("tok-1", "bob")
	assert.EqualError(t, err, "invite token already used")
}

func TestRedeemInviteUnknown(t *testing.T) {
	mock, restore := setupMockDB(t)
	defer restore()

	mock.ExpectQuery(`SELECT (.+) FROM invites WHERE token = \?`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(nil))

	_, err := RedeemInvite("nope", "bob")
	assert.EqualError(t, err, "invalid invite token")
}
