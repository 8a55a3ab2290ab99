package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questionnaire-app/internal/domain/responses"
)

func TestResponsesRepo_Memory(t *testing.T) {
	ctx := context.Background()
	repo := NewResponsesRepo()
	require.NoError(t, repo.EnsureSchema(ctx))

	a, err := repo.Insert(ctx, responses.Response{Name: "Alice", Age: 30, Gender: responses.GenderFemale, PetPreference: responses.PetDog})
	require.NoError(t, err)
	b, err := repo.Insert(ctx, responses.Response{Name: "Bob", Age: 45, Gender: responses.GenderMale, PetPreference: responses.PetCat})
	require.NoError(t, err)
	assert.EqualValues(t, 1, a.ID)
	assert.EqualValues(t, 2, b.ID)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []responses.Response{a, b}, all)

	males, err := repo.ListByGender(ctx, responses.GenderMale)
	require.NoError(t, err)
	assert.Equal(t, []responses.Response{b}, males)

	ok, err := repo.DeleteByID(ctx, 99)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	c, err := repo.Insert(ctx, responses.Response{Name: "Carol"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, c.ID)

	_, err = repo.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, responses.ErrNotFound)
}
