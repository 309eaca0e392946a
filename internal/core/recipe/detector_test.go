package recipe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDetector(visionReply, textReply string) (*Detector, *fakeProvider, *fakeProvider) {
	vision := newFakeProvider("openrouter", visionReply)
	text := newFakeProvider("groq", textReply)
	return NewDetector(vision, NewGenerator(text), "image/jpeg"), vision, text
}

func TestDetectAndGenerate(t *testing.T) {
	d, vision, text := newTestDetector("tomato, cheese, basil", validRecipeJSON)

	result, err := d.DetectAndGenerate(context.Background(), "QUJDRA==", "")
	require.NoError(t, err)

	assert.Equal(t, IngredientList{"tomato", "cheese", "basil"}, result.DetectedIngredients)
	assert.Equal(t, "Caprese Toast", result.Name)
	assert.Equal(t, DifficultyEasy, result.Difficulty)
	assert.Len(t, result.Steps, 3)

	require.Equal(t, 1, vision.callCount())
	req := vision.lastRequest()
	require.Len(t, req.Messages, 1)
	assert.Equal(t, IngredientDetectionPrompt, req.Messages[0].Content)
	require.Len(t, req.Messages[0].Images, 1)
	assert.Equal(t, "QUJDRA==", req.Messages[0].Images[0].Data)
	assert.Equal(t, "image/jpeg", req.Messages[0].Images[0].MIMEType)

	require.Equal(t, 1, text.callCount())
	assert.Equal(t, BuildRecipePrompt(IngredientList{"tomato", "cheese", "basil"}), text.lastRequest().Messages[0].Content)
}

func TestDetectAndGenerateStripsEnvelope(t *testing.T) {
	d, vision, _ := newTestDetector("eggs", validRecipeJSON)

	_, err := d.DetectAndGenerate(context.Background(), "data:image/png;base64,iVBORw0KGgo=", "")
	require.NoError(t, err)

	img := vision.lastRequest().Messages[0].Images[0]
	assert.Equal(t, "iVBORw0KGgo=", img.Data)
	assert.Equal(t, "image/png", img.MIMEType)

	_, err = d.DetectAndGenerate(context.Background(), "data:image/png;base64,iVBORw0KGgo=", "image/webp")
	require.NoError(t, err)
	assert.Equal(t, "image/webp", vision.lastRequest().Messages[0].Images[0].MIMEType)
}

func TestDetectAndGenerateNothingDetected(t *testing.T) {
	for _, reply := range []string{"", " , ,", "\n"} {
		d, vision, text := newTestDetector(reply, validRecipeJSON)

		_, err := d.DetectAndGenerate(context.Background(), "QUJD", "image/jpeg")
		assert.True(t, errors.Is(err, ErrNoIngredientsDetected))
		assert.False(t, errors.Is(err, ErrEmptyIngredients))
		assert.False(t, IsClientError(err))
		assert.Equal(t, 1, vision.callCount())
		assert.Equal(t, 0, text.callCount())
	}
}

func TestDetectAndGenerateVisionFailure(t *testing.T) {
	d, vision, text := newTestDetector("", validRecipeJSON)
	vision.err = errors.New("quota exceeded")

	_, err := d.DetectAndGenerate(context.Background(), "QUJD", "")

	var backendErr *BackendError
	require.True(t, errors.As(err, &backendErr))
	assert.Equal(t, "openrouter", backendErr.Backend)
	assert.Equal(t, 0, text.callCount())
}

func TestDetectAndGenerateEmptyPayload(t *testing.T) {
	d, vision, _ := newTestDetector("tomato", validRecipeJSON)

	for _, in := range []string{"", "data:image/jpeg;base64,", "   "} {
		_, err := d.DetectAndGenerate(context.Background(), in, "")
		assert.True(t, errors.Is(err, ErrInvalidInput))
	}
	assert.Equal(t, 0, vision.callCount())
}

func TestDetectAndGeneratePropagatesGenerationErrors(t *testing.T) {
	d, _, text := newTestDetector("tomato", "no recipe today")

	_, err := d.DetectAndGenerate(context.Background(), "QUJD", "")

	var extractionErr *ExtractionError
	assert.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, 1, text.callCount())
}
