package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outrexo/internal/model"
)

func TestTemplateCRUD(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	svc := NewTemplateService(db)

	created, err := svc.Create(user.ID, "intro", "Hi {{Name}}", "<p>Hello {{Name}}</p>")
	require.NoError(t, err)

	got, err := svc.Get(user.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hi {{Name}}", got.Subject)

	updated, err := svc.Update(user.ID, created.ID, "intro v2", "Hey {{Name}}", "<p>Hey</p>")
	require.NoError(t, err)
	assert.Equal(t, "intro v2", updated.Name)

	templates, err := svc.List(user.ID)
	require.NoError(t, err)
	require.Len(t, templates, 1)

	require.NoError(t, svc.Delete(user.ID, created.ID))
	_, err = svc.Get(user.ID, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTemplateCreateRequiresFields(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	svc := NewTemplateService(db)

	_, err := svc.Create(user.ID, "", "s", "b")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Create(user.ID, "n", "  ", "b")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Create(user.ID, "n", "s", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTemplateOwnershipIsEnforced(t *testing.T) {
	db := openTestDB(t)
	owner := seedUser(t, db)
	other := &model.User{Name: "Bob", Email: "bob@x.com"}
	require.NoError(t, db.Create(other).Error)

	svc := NewTemplateService(db)
	created, err := svc.Create(owner.ID, "mine", "s", "b")
	require.NoError(t, err)

	_, err = svc.Get(other.ID, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	err = svc.Delete(other.ID, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Still there for the owner.
	_, err = svc.Get(owner.ID, created.ID)
	assert.NoError(t, err)
}
