package suggestion

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jonathan/hireflow/internal/logger"
	"github.com/jonathan/hireflow/internal/logger/logtest"
	"github.com/jonathan/hireflow/internal/metrics"
	"github.com/jonathan/hireflow/internal/prompts"
	"github.com/jonathan/hireflow/internal/types"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu      sync.Mutex
	text    string
	err     error
	prompts []string
}

func (f *fakeClient) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

func (f *fakeClient) Model() string { return "fake-model" }

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

var testInput = prompts.SuggestionInput{
	Workstation:     "desarrollo web",
	JobInfo:         "React y Node",
	ExperienceLevel: "junior",
	Location:        "Bilbao",
	EducationLevel:  "FP superior",
}

func TestService_LiveSuggestion(t *testing.T) {
	client := &fakeClient{text: "Acme Corp\nrrhh@acme.com\nNos interesa tu perfil porque..."}
	svc := NewService(client, nil, logtest.New(t))
	require.True(t, svc.Live())

	before := testutil.ToFloat64(metrics.SuggestionsTotal.WithLabelValues(metrics.OutcomeLive, ""))

	res, err := svc.Suggest(context.Background(), testInput, types.VariantGeneric)
	require.NoError(t, err)
	assert.False(t, res.Fallback)
	assert.Equal(t, ReasonNone, res.Reason)
	assert.Equal(t, StateDone, res.State)
	assert.Equal(t, types.CompanySuggestion{
		CompanyName:  "Acme Corp",
		ContactEmail: "rrhh@acme.com",
		Paragraph:    "Nos interesa tu perfil porque...",
	}, res.Suggestion)

	require.Equal(t, 1, client.calls())
	assert.Contains(t, client.prompts[0], "Bilbao")
	assert.Contains(t, client.prompts[0], "React y Node")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.SuggestionsTotal.WithLabelValues(metrics.OutcomeLive, "")))
}

func TestService_NoCredentialSkipsNetwork(t *testing.T) {
	svc := NewService(nil, nil, logtest.New(t))
	require.False(t, svc.Live())

	before := testutil.ToFloat64(metrics.SuggestionsTotal.WithLabelValues(metrics.OutcomeFallback, string(ReasonNoCredential)))

	res, err := svc.Suggest(context.Background(), testInput, types.VariantGeneric)
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, ReasonNoCredential, res.Reason)
	assert.Equal(t, StateDone, res.State)
	assert.True(t, svc.Pool().Contains(res.Suggestion))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.SuggestionsTotal.WithLabelValues(metrics.OutcomeFallback, string(ReasonNoCredential))))
}

func TestService_ProviderErrorFallsBackWithoutRetry(t *testing.T) {
	client := &fakeClient{err: errors.New("503 service unavailable")}
	svc := NewService(client, nil, logtest.New(t))

	res, err := svc.Suggest(context.Background(), testInput, types.VariantProfile)
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, ReasonProviderError, res.Reason)
	assert.True(t, svc.Pool().Contains(res.Suggestion))
	assert.Equal(t, 1, client.calls())
}

func TestService_IncompleteCompletionFallsBack(t *testing.T) {
	client := &fakeClient{text: "Lo siento, no puedo ayudar con eso."}
	svc := NewService(client, nil, logtest.New(t))

	res, err := svc.Suggest(context.Background(), testInput, types.VariantGeneric)
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, ReasonExtractionIncomplete, res.Reason)
	assert.True(t, res.Suggestion.Complete())
	assert.True(t, svc.Pool().Contains(res.Suggestion))
}

func TestService_UnknownVariant(t *testing.T) {
	client := &fakeClient{text: "Acme\nrrhh@acme.com\nTexto."}
	svc := NewService(client, nil, logger.NewNoOp())

	_, err := svc.Suggest(context.Background(), testInput, types.Variant("other"))
	require.Error(t, err)
	assert.Equal(t, 0, client.calls())
}

func TestService_CustomPool(t *testing.T) {
	pool, err := NewPool([]types.CompanySuggestion{
		{CompanyName: "Only", ContactEmail: "only@example.com", Paragraph: "Texto."},
	})
	require.NoError(t, err)

	svc := NewService(nil, pool, nil)
	res, err := svc.Suggest(context.Background(), testInput, types.VariantGeneric)
	require.NoError(t, err)
	assert.Equal(t, "Only", res.Suggestion.CompanyName)
}
