package recipe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, IngredientList{"eggs", "milk"}, Normalize([]string{"eggs", " ", "milk "}))
	assert.Equal(t, IngredientList{"eggs", "eggs", "Milk"}, Normalize([]string{"eggs", "eggs", "\tMilk\n"}))
	assert.Empty(t, Normalize(nil))
	assert.NotNil(t, Normalize(nil))
}

func TestNormalizeUtterance(t *testing.T) {
	assert.Equal(t, IngredientList{"eggs", "milk", "bread"}, NormalizeUtterance("eggs, milk ,, bread"))
	assert.Equal(t, IngredientList{"tomato"}, NormalizeUtterance(" tomato "))
	assert.Empty(t, NormalizeUtterance(""))
	assert.Empty(t, NormalizeUtterance(" , ,\n"))
}

func TestRequireIngredients(t *testing.T) {
	assert.NoError(t, RequireIngredients(IngredientList{"rice"}))

	err := RequireIngredients(Normalize([]string{" ", ""}))
	assert.True(t, errors.Is(err, ErrEmptyIngredients))
	assert.True(t, IsClientError(err))
}
