package recipe

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRecipePromptIsDeterministic(t *testing.T) {
	list := IngredientList{"tomato", "cheese"}

	first := BuildRecipePrompt(list)
	assert.Equal(t, first, BuildRecipePrompt(IngredientList{"tomato", "cheese"}))
	assert.Contains(t, first, "Generate a recipe using these ingredients:\ntomato, cheese\n")
	assert.Contains(t, first, "Return ONLY valid JSON")
	assert.Contains(t, first, `"difficulty": "Easy | Medium | Hard"`)
	assert.NotEqual(t, first, BuildRecipePrompt(IngredientList{"cheese", "tomato"}))
}

func TestGenerateRejectsEmptyInputWithoutBackendCall(t *testing.T) {
	backend := newFakeProvider("groq", validRecipeJSON)
	g := NewGenerator(backend)

	_, err := g.Generate(context.Background(), IngredientList{})
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, 0, backend.callCount())

	_, err = g.Generate(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, 0, backend.callCount())
}

func TestGenerateRoundTripsStubPayload(t *testing.T) {
	backend := newFakeProvider("groq", "```json\n"+validRecipeJSON+"\n```")
	g := NewGenerator(backend)

	r, err := g.Generate(context.Background(), IngredientList{"tomato", "cheese"})
	require.NoError(t, err)

	assert.Equal(t, &Recipe{
		Name: "Caprese Toast",
		Ingredients: []Ingredient{
			{Name: "tomato", Quantity: "2"},
			{Name: "cheese", Quantity: "100 g"},
		},
		Steps:      []string{"Slice the tomato.", "Layer with cheese.", "Toast for 5 minutes."},
		PrepTime:   "15 minutes",
		Difficulty: DifficultyEasy,
	}, r)

	require.Equal(t, 1, backend.callCount())
	req := backend.lastRequest()
	assert.Equal(t, RecipeTemperature, req.Temperature)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, BuildRecipePrompt(IngredientList{"tomato", "cheese"}), req.Messages[0].Content)
	assert.Empty(t, req.Messages[0].Images)
}

func TestGenerateWrapsBackendFailure(t *testing.T) {
	backend := newFakeProvider("groq", "")
	backend.err = errors.New("status 429: rate limited by upstream")
	g := NewGenerator(backend)

	_, err := g.Generate(context.Background(), IngredientList{"rice"})

	var backendErr *BackendError
	require.True(t, errors.As(err, &backendErr))
	assert.Equal(t, "groq", backendErr.Backend)
	assert.Contains(t, err.Error(), "rate limited by upstream")
	assert.Equal(t, 1, backend.callCount())
}

func TestGeneratePropagatesExtractionErrors(t *testing.T) {
	g := NewGenerator(newFakeProvider("groq", "I'm sorry, I can't help with that."))
	_, err := g.Generate(context.Background(), IngredientList{"rice"})
	var extractionErr *ExtractionError
	assert.True(t, errors.As(err, &extractionErr))

	g = NewGenerator(newFakeProvider("groq", `{"recipeName": "Rice" "steps": []}`))
	_, err = g.Generate(context.Background(), IngredientList{"rice"})
	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

// 大小寫不同的難度不應被拒絕，並轉為標準寫法
func TestGenerateAcceptsMixedCaseDifficulty(t *testing.T) {
	reply := strings.Replace(validRecipeJSON, `"Easy"`, `"EASY"`, 1)

	for _, strict := range []bool{false, true} {
		g := NewGenerator(newFakeProvider("groq", reply), WithStrictSchema(strict))
		r, err := g.Generate(context.Background(), IngredientList{"tomato"})
		require.NoError(t, err)
		assert.Equal(t, DifficultyEasy, r.Difficulty)
	}
}

func TestGenerateBaselinePassesUnknownDifficultyThrough(t *testing.T) {
	reply := strings.Replace(validRecipeJSON, `"Easy"`, `"Beginner"`, 1)

	r, err := NewGenerator(newFakeProvider("groq", reply)).Generate(context.Background(), IngredientList{"tomato"})
	require.NoError(t, err)
	assert.Equal(t, Difficulty("Beginner"), r.Difficulty)
}

func TestGenerateBaselineToleratesMissingFields(t *testing.T) {
	r, err := NewGenerator(newFakeProvider("groq", `{"recipeName": "Plain Rice", "prepTime": 20}`)).
		Generate(context.Background(), IngredientList{"rice"})
	require.NoError(t, err)
	assert.Equal(t, "Plain Rice", r.Name)
	assert.Equal(t, "20", r.PrepTime)
	assert.Empty(t, r.Steps)
	assert.Empty(t, r.Ingredients)
}

func TestGenerateRejectsMistypedFields(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		field string
	}{
		{"steps as string", `{"recipeName": "X", "steps": "boil water"}`, "steps"},
		{"step as number", `{"recipeName": "X", "steps": ["boil", 2]}`, "steps[1]"},
		{"ingredients as object", `{"recipeName": "X", "ingredients": {"name": "rice"}}`, "ingredients"},
		{"ingredient quantity as object", `{"recipeName": "X", "ingredients": [{"name": "rice", "quantity": {"v": 1}}]}`, "ingredients[0].quantity"},
		{"name as array", `{"recipeName": ["X"]}`, "recipeName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGenerator(newFakeProvider("groq", tt.reply)).Generate(context.Background(), IngredientList{"rice"})

			var schemaErr *SchemaError
			require.True(t, errors.As(err, &schemaErr))
			assert.Equal(t, tt.field, schemaErr.Field)
		})
	}
}

// strict 模式屬於額外強化，基準行為不做這些檢查
func TestGenerateStrictSchemaHardening(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		field string
	}{
		{"empty name", `{"recipeName": " ", "steps": ["a"], "difficulty": "Easy"}`, "recipeName"},
		{"no steps", `{"recipeName": "X", "steps": [], "difficulty": "Easy"}`, "steps"},
		{"missing steps", `{"recipeName": "X", "difficulty": "Easy"}`, "steps"},
		{"blank step", `{"recipeName": "X", "steps": ["a", ""], "difficulty": "Easy"}`, "steps[1]"},
		{"unknown difficulty", `{"recipeName": "X", "steps": ["a"], "difficulty": "Expert"}`, "difficulty"},
		{"ingredient without name", `{"recipeName": "X", "ingredients": [{"quantity": "1"}], "steps": ["a"], "difficulty": "Hard"}`, "ingredients[0].name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGenerator(newFakeProvider("groq", tt.reply), WithStrictSchema(true)).
				Generate(context.Background(), IngredientList{"rice"})

			var schemaErr *SchemaError
			require.True(t, errors.As(err, &schemaErr))
			assert.Equal(t, tt.field, schemaErr.Field)

			_, err = NewGenerator(newFakeProvider("groq", tt.reply)).
				Generate(context.Background(), IngredientList{"rice"})
			assert.NoError(t, err)
		})
	}
}

func TestGenerateAcceptsNameAliasAndStringIngredients(t *testing.T) {
	r, err := NewGenerator(newFakeProvider("groq", `{"name": "Omelette", "ingredients": ["eggs", {"name": "salt", "quantity": 1}], "steps": ["whisk", "fry"], "difficulty": "medium"}`)).
		Generate(context.Background(), IngredientList{"eggs"})
	require.NoError(t, err)

	assert.Equal(t, "Omelette", r.Name)
	assert.Equal(t, []Ingredient{{Name: "eggs"}, {Name: "salt", Quantity: "1"}}, r.Ingredients)
	assert.Equal(t, DifficultyMedium, r.Difficulty)
}
